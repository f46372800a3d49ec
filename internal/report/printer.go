// Package report renders score reports for people and persists them for
// later comparison.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-scorer/internal/evaluation"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	// boxWidth is the width of formatted output boxes
	boxWidth = 60
	// maxItemsToShow caps list output inside a box
	maxItemsToShow = 5
)

// Printer writes boxed, human-readable output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer that writes to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a titled box. Long lines are wrapped on word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, part := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, part)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line into chunks of at most width runes, keeping the leading
// indentation on continuation lines.
func wrap(line string, width int) []string {
	if len([]rune(line)) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	var out []string
	cur := ""
	for _, word := range strings.Fields(line) {
		for len([]rune(word)) > width-len(indent) {
			r := []rune(word)
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			n := width - len(indent)
			out = append(out, indent+string(r[:n]))
			word = string(r[n:])
		}
		switch {
		case cur == "":
			cur = indent + word
		case len([]rune(cur))+1+len([]rune(word)) <= width:
			cur += " " + word
		default:
			out = append(out, cur)
			cur = indent + word
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

// PrintScoreReport prints the category breakdown, totals, strengths and
// improvements.
func (p *Printer) PrintScoreReport(r *types.ScoreReport) {
	if r == nil {
		return
	}

	var sb strings.Builder
	if r.CandidateName != "" {
		sb.WriteString(fmt.Sprintf("Candidate: %s\n", r.CandidateName))
	}
	if r.ResumeID != "" {
		sb.WriteString(fmt.Sprintf("Resume ID: %s\n", r.ResumeID))
	}
	sb.WriteString("\n")

	for _, cat := range types.Rubric() {
		cs := r.Scores.Get(cat.Key)
		sb.WriteString(fmt.Sprintf("%-18s %5.1f / %-3.0f %s\n", cat.Title, cs.Score, cat.Max, bar(cs.Score, cat.Max)))
		if cs.Evidence != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", cs.Evidence))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Base Score:  %.1f / %.0f\n", r.BaseScore, types.MaxBaseScore))
	sb.WriteString(fmt.Sprintf("Bonus:       +%.1f", r.BonusPoints.Total))
	if r.BonusPoints.Breakdown != "" {
		sb.WriteString(fmt.Sprintf("  (%s)", r.BonusPoints.Breakdown))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Deductions:  -%.1f", r.Deductions.Total))
	if r.Deductions.Reasons != "" {
		sb.WriteString(fmt.Sprintf("  (%s)", r.Deductions.Reasons))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Final Score: %.1f\n", r.FinalScore))

	writeList(&sb, "Key Strengths", r.KeyStrengths)
	writeList(&sb, "Areas for Improvement", r.AreasForImprovement)

	p.printBox("RESUME SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGitHub prints the enrichment summary.
func (p *Printer) PrintGitHub(gh *types.GitHubData) {
	if gh == nil {
		return
	}

	var sb strings.Builder
	if gh.Profile != nil {
		sb.WriteString(fmt.Sprintf("User:      %s\n", gh.Profile.Username))
		sb.WriteString(fmt.Sprintf("Repos:     %d public, %d followers\n", gh.Profile.PublicRepos, gh.Profile.Followers))
	}
	sb.WriteString(fmt.Sprintf("Selected %d of %d eligible repositories:\n\n", len(gh.Projects), gh.EligibleCount))

	count := min(len(gh.Projects), maxItemsToShow)
	for i := 0; i < count; i++ {
		repo := gh.Projects[i]
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", repo.Name, repo.Kind))
		sb.WriteString(fmt.Sprintf("    ★ %d  share %.0f%%  contributors %d\n", repo.Stars, repo.AuthorCommitShare*100, repo.ContributorCount))
	}
	if len(gh.Projects) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(gh.Projects)-maxItemsToShow))
	}

	p.printBox("GITHUB ENRICHMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankings prints a ranked candidate table.
func (p *Printer) PrintRankings(rankings []evaluation.Ranking) {
	if len(rankings) == 0 {
		return
	}
	var sb strings.Builder
	for _, r := range rankings {
		name := r.CandidateName
		if name == "" {
			name = r.ResumeID
		}
		sb.WriteString(fmt.Sprintf("#%-3d %-40s %6.1f\n", r.Rank, name, r.FinalScore))
	}
	p.printBox("CANDIDATE RANKING", strings.TrimSuffix(sb.String(), "\n"))
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
}

// bar renders score/max as a ten-cell gauge.
func bar(score, maxScore float64) string {
	if maxScore <= 0 {
		return ""
	}
	filled := int(score / maxScore * 10)
	filled = max(0, min(10, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
