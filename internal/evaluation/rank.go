package evaluation

import (
	"sort"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Ranking is one candidate's position in a ranked list
type Ranking struct {
	Rank          int     `json:"rank"`
	ResumeID      string  `json:"resume_id,omitempty"`
	CandidateName string  `json:"candidate_name"`
	FinalScore    float64 `json:"final_score"`
}

// RankCandidates orders reports by final score, highest first. Ties keep
// their input order and share a rank.
func RankCandidates(reports []*types.ScoreReport) []Ranking {
	sorted := make([]*types.ScoreReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalScore > sorted[j].FinalScore
	})

	out := make([]Ranking, len(sorted))
	for i, r := range sorted {
		rank := i + 1
		if i > 0 && r.FinalScore == sorted[i-1].FinalScore {
			rank = out[i-1].Rank
		}
		out[i] = Ranking{
			Rank:          rank,
			ResumeID:      r.ResumeID,
			CandidateName: r.CandidateName,
			FinalScore:    r.FinalScore,
		}
	}
	return out
}
