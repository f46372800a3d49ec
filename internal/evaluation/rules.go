package evaluation

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// openSourceCap is the highest open-source score allowed when the only
// evidence is the candidate's own repositories.
const openSourceCap = 10.0

// personalOnlyPhrases mark open-source evidence that describes no work on
// other people's projects.
var personalOnlyPhrases = []string{
	"only personal github repositories",
	"only personal repositories",
	"only personal projects",
	"no contributions to other projects",
	"no evidence of significant open source contributions",
}

const (
	maxStrengths    = 5
	maxImprovements = 3
)

// applyScoringRules caps the open-source score when the evidence says all
// repositories are personal. It reports whether the cap was applied.
func applyScoringRules(scores *types.Scores) bool {
	evidence := strings.ToLower(scores.OpenSource.Evidence)
	if scores.OpenSource.Score <= openSourceCap || !containsAny(evidence, personalOnlyPhrases) {
		return false
	}
	scores.OpenSource.Score = openSourceCap
	scores.OpenSource.Evidence += " (Score capped at 10 due to only personal repositories)"
	return true
}

// finalize fills category maxima and computes base and final scores.
func finalize(r *types.ScoreReport) {
	for _, cat := range types.Rubric() {
		r.Scores.Get(cat.Key).Max = cat.Max
	}
	r.BaseScore = round1(r.Scores.Total())
	final := r.BaseScore + r.BonusPoints.Total - r.Deductions.Total
	r.FinalScore = round1(math.Max(types.MinFinalScore, math.Min(types.MaxFinalScore, final)))
	r.Explanation = explain(r)
}

// deriveStrengths builds strengths from category scores.
func deriveStrengths(s *types.Scores) []string {
	var out []string

	openSource := s.OpenSource
	if !containsAny(strings.ToLower(openSource.Evidence), personalOnlyPhrases) {
		switch {
		case openSource.Score >= 20:
			out = append(out, "Strong open source contributions with significant impact")
		case openSource.Score >= 15:
			out = append(out, "Active participation in open source projects")
		case openSource.Score >= 12:
			out = append(out, "Some open source involvement and community contributions")
		}
	}

	switch sp := s.SelfProjects.Score; {
	case sp >= 20:
		out = append(out, "Impressive portfolio of self-initiated projects")
	case sp >= 10:
		out = append(out, "Good variety of personal projects demonstrating technical skills")
	case sp >= 5:
		out = append(out, "Some personal projects showing initiative")
	}

	switch p := s.Production.Score; {
	case p >= 15:
		out = append(out, "Significant production experience at scale")
	case p >= 10:
		out = append(out, "Good production environment experience")
	case p >= 5:
		out = append(out, "Some production-level work experience")
	}

	switch ts := s.TechnicalSkills.Score; {
	case ts >= 7:
		out = append(out, "Strong technical skills across multiple technologies")
	case ts >= 5:
		out = append(out, "Good technical breadth and problem-solving abilities")
	case ts >= 3:
		out = append(out, "Demonstrated technical skills in relevant areas")
	}

	if len(out) == 0 {
		if s.Total() > 0 {
			out = append(out, "Demonstrates technical capabilities and learning potential")
		} else {
			out = append(out, "Shows interest in software development")
		}
	}
	if len(out) > maxStrengths {
		out = out[:maxStrengths]
	}
	return out
}

// improvement advice per category for under 30%, under 50% and under 70%.
var improvementAdvice = map[string][3]string{
	types.CategoryOpenSource: {
		"Significantly increase open source contributions and community engagement",
		"Build more substantial open source presence and contributions",
		"Enhance open source contributions and project impact",
	},
	types.CategorySelfProjects: {
		"Develop more complex and impactful personal projects",
		"Create projects with better documentation and user adoption",
		"Enhance project complexity and real-world impact",
	},
	types.CategoryProduction: {
		"Gain more production environment experience",
		"Seek opportunities for larger-scale production work",
		"Expand production experience and responsibilities",
	},
	types.CategoryTechnicalSkills: {
		"Strengthen technical skills and problem-solving abilities",
		"Develop broader technical expertise",
		"Enhance technical depth and competitive programming skills",
	},
}

// deriveImprovements suggests improvements for categories below 70%.
func deriveImprovements(s *types.Scores) []string {
	var out []string
	for _, cat := range types.Rubric() {
		pct := s.Get(cat.Key).Score / cat.Max * 100
		advice := improvementAdvice[cat.Key]
		switch {
		case pct < 30:
			out = append(out, advice[0])
		case pct < 50:
			out = append(out, advice[1])
		case pct < 70:
			out = append(out, advice[2])
		}
	}
	if len(out) == 0 {
		if s.Total() < 50 {
			out = append(out, "Focus on building a stronger technical portfolio")
		} else {
			out = append(out, "Continue developing technical skills and project impact")
		}
	}
	if len(out) > maxImprovements {
		out = out[:maxImprovements]
	}
	return out
}

// explain renders the score arithmetic.
func explain(r *types.ScoreReport) string {
	var b strings.Builder
	b.WriteString("Base Score: " + num(r.BaseScore) + "/100\n")
	for _, cat := range types.Rubric() {
		b.WriteString("  - " + cat.Title + ": " + num(r.Scores.Get(cat.Key).Score) + "/" + num(cat.Max) + "\n")
	}
	b.WriteString("Bonus Points: +" + num(r.BonusPoints.Total) + "\n")
	if r.BonusPoints.Total > 0 && r.BonusPoints.Breakdown != "" {
		b.WriteString("  - " + r.BonusPoints.Breakdown + "\n")
	}
	b.WriteString("Deductions: -" + num(r.Deductions.Total) + "\n")
	if r.Deductions.Total > 0 && r.Deductions.Reasons != "" {
		b.WriteString("  - " + r.Deductions.Reasons + "\n")
	}
	b.WriteString("Final Score: " + num(r.BaseScore) + " + " + num(r.BonusPoints.Total) +
		" - " + num(r.Deductions.Total) + " = " + num(r.FinalScore))
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
