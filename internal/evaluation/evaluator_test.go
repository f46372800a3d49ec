package evaluation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/llm/llmtest"
	"github.com/jonathan/resume-scorer/internal/types"
)

const validReply = `{
  "scores": {
    "open_source": {"score": 18, "max": 35, "evidence": "Merged PRs to kubernetes"},
    "self_projects": {"score": 22, "max": 30, "evidence": "Built a database"},
    "production": {"score": 12.5, "max": 25, "evidence": "2 years at Acme"},
    "technical_skills": {"score": 8, "max": 10, "evidence": "Go, Rust, SQL"}
  },
  "bonus_points": {"total": 5, "breakdown": "ICPC finalist"},
  "deductions": {"total": 2, "reasons": "Missing dates"},
  "key_strengths": ["Systems depth"],
  "areas_for_improvement": []
}`

func sampleInput() *types.EnrichedResume {
	return &types.EnrichedResume{
		Resume: &types.Resume{
			Basics: &types.Basics{Name: "Jane Doe", Email: "jane@example.com"},
			Work:   []types.Work{{Name: "Acme", Position: "SWE", StartDate: "2019-01", EndDate: "Present"}},
		},
		GitHub: &types.GitHubData{
			Profile:       &types.GitHubProfile{Username: "jane", PublicRepos: 9},
			Projects:      []types.Repository{{Name: "kv", URL: "https://github.com/jane/kv", Kind: types.RepoSelfProject, Stars: 40, AuthorCommitShare: 0.9}},
			EligibleCount: 1,
		},
	}
}

func newTestEvaluator(client llm.Client) *Evaluator {
	e := New(client, nil)
	e.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestEvaluate(t *testing.T) {
	client := &llmtest.MockClient{Model: "gemini-2.5-flash", Responses: []string{"```json\n" + validReply + "\n```"}}

	report, err := newTestEvaluator(client).Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", report.CandidateName)
	assert.Equal(t, "gemini-2.5-flash", report.Model)
	assert.Equal(t, 60.5, report.BaseScore)
	assert.Equal(t, 63.5, report.FinalScore)
	assert.Equal(t, []string{"Systems depth"}, report.KeyStrengths)
	assert.Equal(t, []string{
		"Enhance open source contributions and project impact",
		"Expand production experience and responsibilities",
	}, report.AreasForImprovement)
	assert.Equal(t, 35.0, report.Scores.OpenSource.Max)
	assert.Contains(t, report.Explanation, "Base Score: 60.5/100")
	assert.Contains(t, report.Explanation, "Final Score: 60.5 + 5 - 2 = 63.5")
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), report.EvaluatedAt)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, llm.TierAdvanced, calls[0].Tier)
	assert.Contains(t, calls[0].Prompt, "=== BASIC INFORMATION ===")
	assert.Contains(t, calls[0].Prompt, "=== GITHUB DATA ===")
	assert.Contains(t, calls[0].Prompt, "1. kv")
}

func TestEvaluate_CapsPersonalOnlyOpenSource(t *testing.T) {
	reply := `{
	  "scores": {
	    "open_source": {"score": 25, "evidence": "Only personal GitHub repositories, no upstream work"},
	    "self_projects": {"score": 10, "evidence": "x"},
	    "production": {"score": 0, "evidence": "none"},
	    "technical_skills": {"score": 3, "evidence": "x"}
	  },
	  "bonus_points": {"total": 0},
	  "deductions": {"total": 50}
	}`
	client := &llmtest.MockClient{Responses: []string{reply}}

	report, err := newTestEvaluator(client).Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 10.0, report.Scores.OpenSource.Score)
	assert.Contains(t, report.Scores.OpenSource.Evidence, "capped at 10")
	assert.Equal(t, 23.0, report.BaseScore)
	assert.Equal(t, types.MinFinalScore, report.FinalScore, "final score is clamped")
	assert.Equal(t, []string{
		"Good variety of personal projects demonstrating technical skills",
		"Demonstrated technical skills in relevant areas",
	}, report.KeyStrengths)
	assert.Len(t, report.AreasForImprovement, 3)
}

func TestEvaluate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		client  *llmtest.MockClient
		wantMsg string
	}{
		{
			name:    "not json",
			client:  &llmtest.MockClient{Responses: []string{"The candidate is great."}},
			wantMsg: "rubric schema",
		},
		{
			name:    "missing category",
			client:  &llmtest.MockClient{Responses: []string{`{"scores": {"open_source": {"score": 1, "evidence": ""}}, "bonus_points": {"total": 0}, "deductions": {"total": 0}}`}},
			wantMsg: "rubric schema",
		},
		{
			name: "score above category maximum",
			client: &llmtest.MockClient{Responses: []string{`{"scores": {
				"open_source": {"score": 40, "evidence": ""}, "self_projects": {"score": 1, "evidence": ""},
				"production": {"score": 1, "evidence": ""}, "technical_skills": {"score": 1, "evidence": ""}},
				"bonus_points": {"total": 0}, "deductions": {"total": 0}}`}},
			wantMsg: "rubric schema",
		},
		{
			name: "model error",
			client: &llmtest.MockClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
				return "", errors.New("deadline exceeded")
			}},
			wantMsg: "model call failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestEvaluator(tt.client).Evaluate(context.Background(), sampleInput())
			require.Error(t, err)
			var evalErr *EvaluationError
			require.ErrorAs(t, err, &evalErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	_, err := newTestEvaluator(&llmtest.MockClient{}).Evaluate(context.Background(), &types.EnrichedResume{})
	var evalErr *EvaluationError
	assert.ErrorAs(t, err, &evalErr)
}

func TestParse_IgnoresModelTotals(t *testing.T) {
	reply := `{"scores": {
		"open_source": {"score": 1, "evidence": ""}, "self_projects": {"score": 1, "evidence": ""},
		"production": {"score": 1, "evidence": ""}, "technical_skills": {"score": 1, "evidence": ""}},
		"bonus_points": {"total": 0}, "deductions": {"total": 0}, "final_score": 999}`
	report, err := Parse(reply)
	require.NoError(t, err)
	assert.Zero(t, report.FinalScore)
}

func TestDeriveStrengthsAndImprovements(t *testing.T) {
	empty := &types.Scores{}
	assert.Equal(t, []string{"Shows interest in software development"}, deriveStrengths(empty))
	assert.Equal(t, []string{
		"Significantly increase open source contributions and community engagement",
		"Develop more complex and impactful personal projects",
		"Gain more production environment experience",
	}, deriveImprovements(empty))

	full := &types.Scores{
		OpenSource:      types.CategoryScore{Score: 35},
		SelfProjects:    types.CategoryScore{Score: 30},
		Production:      types.CategoryScore{Score: 25},
		TechnicalSkills: types.CategoryScore{Score: 10},
	}
	assert.Len(t, deriveStrengths(full), 4)
	assert.Equal(t, []string{"Continue developing technical skills and project impact"}, deriveImprovements(full))
}

func TestRankCandidates(t *testing.T) {
	reports := []*types.ScoreReport{
		{CandidateName: "A", FinalScore: 50},
		{CandidateName: "B", FinalScore: 80},
		nil,
		{CandidateName: "C", FinalScore: 50},
		{CandidateName: "D", FinalScore: -5},
	}
	got := RankCandidates(reports)
	assert.Equal(t, []Ranking{
		{Rank: 1, CandidateName: "B", FinalScore: 80},
		{Rank: 2, CandidateName: "A", FinalScore: 50},
		{Rank: 2, CandidateName: "C", FinalScore: 50},
		{Rank: 4, CandidateName: "D", FinalScore: -5},
	}, got)
}

func TestRenderCandidate(t *testing.T) {
	in := sampleInput()
	in.Website = &types.WebsiteData{URL: "https://jane.dev", Title: "Notes", ArticleCount: 4}

	text := RenderCandidate(in)
	assert.Contains(t, text, "Name: Jane Doe")
	assert.Contains(t, text, "Phone: Not provided")
	assert.Contains(t, text, "1. SWE at Acme")
	assert.Contains(t, text, "Period: 2019-01 - Present")
	assert.Contains(t, text, "GitHub Projects (1 selected of 1 eligible):")
	assert.Contains(t, text, "Candidate's share of commits: 90%")
	assert.Contains(t, text, "=== WEBSITE DATA ===")
	assert.Contains(t, text, "Article Links Found: 4")
	assert.Empty(t, RenderCandidate(nil))
}
