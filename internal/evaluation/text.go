package evaluation

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// maxGitHubProjects caps the repositories listed in the candidate text.
const maxGitHubProjects = 10

const notProvided = "Not provided"

// RenderCandidate renders the enriched resume as the plain-text candidate
// description sent to the evaluator.
func RenderCandidate(in *types.EnrichedResume) string {
	var b strings.Builder
	if in == nil {
		return ""
	}
	if in.Resume != nil {
		writeResume(&b, in.Resume)
	}
	if in.GitHub != nil {
		writeGitHub(&b, in.GitHub)
	}
	if in.Website != nil {
		writeWebsite(&b, in.Website)
	}
	return strings.TrimSpace(b.String())
}

func line(b *strings.Builder, format string, args ...any) {
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func period(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return fmt.Sprintf("%s - %s", orNone(start), orNone(end))
}

func writeResume(b *strings.Builder, r *types.Resume) {
	if basics := r.Basics; basics != nil {
		line(b, "=== BASIC INFORMATION ===")
		line(b, "Name: %s", orNone(basics.Name))
		if basics.Label != "" {
			line(b, "Title: %s", basics.Label)
		}
		line(b, "Email: %s", orNone(basics.Email))
		line(b, "Phone: %s", orNone(basics.Phone))
		line(b, "Website: %s", orNone(basics.URL))
		if basics.Summary != "" {
			line(b, "Summary: %s", basics.Summary)
		}
		if loc := basics.Location; loc != nil {
			var parts []string
			for _, p := range []string{loc.Address, loc.City, loc.Region, loc.PostalCode, loc.CountryCode} {
				if p != "" {
					parts = append(parts, p)
				}
			}
			if len(parts) > 0 {
				line(b, "Location: %s", strings.Join(parts, ", "))
			}
		}
		if len(basics.Profiles) > 0 {
			line(b, "Profiles:")
			for _, p := range basics.Profiles {
				line(b, "  - %s: %s (%s)", orNone(p.Network), orNone(p.Username), orNone(p.URL))
			}
		}
	}

	if len(r.Work) > 0 {
		line(b, "\n=== WORK EXPERIENCE ===")
		for i, w := range r.Work {
			line(b, "%d. %s at %s", i+1, orNone(w.Position), orNone(w.Name))
			if p := period(w.StartDate, w.EndDate); p != "" {
				line(b, "   Period: %s", p)
			}
			if w.URL != "" {
				line(b, "   Website: %s", w.URL)
			}
			if w.Summary != "" {
				line(b, "   Description: %s", w.Summary)
			}
			if len(w.Highlights) > 0 {
				line(b, "   Key Achievements:")
				for _, h := range w.Highlights {
					line(b, "     • %s", h)
				}
			}
		}
	}

	if len(r.Education) > 0 {
		line(b, "\n=== EDUCATION ===")
		for i, e := range r.Education {
			line(b, "%d. %s in %s", i+1, orNone(e.StudyType), orNone(e.Area))
			line(b, "   Institution: %s", e.Institution)
			if p := period(e.StartDate, e.EndDate); p != "" {
				line(b, "   Period: %s", p)
			}
			if e.Score != "" {
				line(b, "   Score: %s", e.Score)
			}
			if len(e.Courses) > 0 {
				line(b, "   Courses: %s", strings.Join(e.Courses, ", "))
			}
		}
	}

	if len(r.Skills) > 0 {
		line(b, "\n=== SKILLS ===")
		for _, s := range r.Skills {
			line(b, "• %s", orNone(s.Name))
			if s.Level != "" {
				line(b, "  Level: %s", s.Level)
			}
			if len(s.Keywords) > 0 {
				line(b, "  Keywords: %s", strings.Join(s.Keywords, ", "))
			}
		}
	}

	if len(r.Projects) > 0 {
		line(b, "\n=== PROJECTS ===")
		for i, p := range r.Projects {
			line(b, "%d. %s", i+1, p.Name)
			if p.StartDate != "" && p.EndDate != "" {
				line(b, "   Period: %s", period(p.StartDate, p.EndDate))
			}
			if p.Description != "" {
				line(b, "   Description: %s", p.Description)
			}
			if p.URL != "" {
				line(b, "   URL: %s", p.URL)
			}
			if len(p.Technologies) > 0 {
				line(b, "   Technologies: %s", strings.Join(p.Technologies, ", "))
			}
			if len(p.Highlights) > 0 {
				line(b, "   Highlights:")
				for _, h := range p.Highlights {
					line(b, "     • %s", h)
				}
			}
		}
	}

	if len(r.Awards) > 0 {
		line(b, "\n=== AWARDS ===")
		for _, a := range r.Awards {
			line(b, "• %s - %s (%s)", a.Title, orNone(a.Awarder), orNone(a.Date))
			if a.Summary != "" {
				line(b, "  %s", a.Summary)
			}
		}
	}
}

func writeGitHub(b *strings.Builder, gh *types.GitHubData) {
	line(b, "\n=== GITHUB DATA ===")
	if p := gh.Profile; p != nil {
		line(b, "GitHub Profile:")
		line(b, "- Username: %s", p.Username)
		line(b, "- Name: %s", orNone(p.Name))
		line(b, "- Bio: %s", orNone(p.Bio))
		line(b, "- Public Repositories: %d", p.PublicRepos)
		line(b, "- Followers: %d", p.Followers)
		line(b, "- Following: %d", p.Following)
		if !p.CreatedAt.IsZero() {
			line(b, "- Account Created: %s", p.CreatedAt.Format("2006-01-02"))
		}
	}

	line(b, "\nGitHub Projects (%d selected of %d eligible):", len(gh.Projects), gh.EligibleCount)
	for i, r := range gh.Projects {
		if i == maxGitHubProjects {
			break
		}
		line(b, "%d. %s", i+1, r.Name)
		line(b, "   Description: %s", orNone(r.Description))
		line(b, "   URL: %s", r.URL)
		if r.Homepage != "" {
			line(b, "   Live URL: %s", r.Homepage)
		}
		line(b, "   Type: %s", r.Kind)
		line(b, "   Stars: %d, Forks: %d, Language: %s", r.Stars, r.Forks, orNone(r.Language))
		line(b, "   Contributors: %d, Candidate's share of commits: %.0f%%", r.ContributorCount, r.AuthorCommitShare*100)
	}
}

func writeWebsite(b *strings.Builder, w *types.WebsiteData) {
	line(b, "\n=== WEBSITE DATA ===")
	line(b, "URL: %s", w.URL)
	line(b, "Title: %s", orNone(w.Title))
	if w.Description != "" {
		line(b, "Description: %s", w.Description)
	}
	line(b, "Article Links Found: %d", w.ArticleCount)
	if len(w.Headings) > 0 {
		line(b, "Headings: %s", strings.Join(w.Headings, " | "))
	}
	if w.Excerpt != "" {
		line(b, "Excerpt: %s", w.Excerpt)
	}
}
