// Package assembly merges extracted resume sections into one normalized
// resume document.
package assembly

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Assembler builds a types.Resume from extracted sections
type Assembler struct {
	log *zap.Logger
}

// New returns an assembler. A nil logger disables logging.
func New(log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{log: log}
}

// Assemble returns a new resume built from set; set is not modified.
// Dates are normalized to YYYY-MM or "Present", profile links are
// deduplicated, and list fields lose case-insensitive duplicates.
func (a *Assembler) Assemble(set *types.SectionSet) *types.Resume {
	if set == nil {
		set = &types.SectionSet{}
	}
	r := &types.Resume{
		Basics:    a.basics(set.Basics),
		Work:      a.work(set.Work),
		Education: a.education(set.Education),
		Skills:    a.skills(set.Skills),
		Projects:  a.projects(set.Projects),
		Awards:    a.awards(set.Awards),
	}
	a.log.Debug("resume assembled",
		zap.String("candidate", r.CandidateName()),
		zap.Int("work", len(r.Work)),
		zap.Int("education", len(r.Education)),
		zap.Int("skills", len(r.Skills)),
		zap.Int("projects", len(r.Projects)),
		zap.Int("awards", len(r.Awards)),
		zap.Int("profiles", len(r.Basics.Profiles)))
	return r
}

func (a *Assembler) basics(in *types.Basics) *types.Basics {
	if in == nil {
		return &types.Basics{}
	}
	b := &types.Basics{
		Name:    clean(in.Name),
		Label:   clean(in.Label),
		Email:   strings.TrimPrefix(clean(in.Email), "mailto:"),
		Phone:   clean(in.Phone),
		URL:     normalizeURL(in.URL),
		Summary: clean(in.Summary),
	}
	if in.Location != nil {
		loc := *in.Location
		loc.Address, loc.City, loc.Region = clean(loc.Address), clean(loc.City), clean(loc.Region)
		loc.PostalCode, loc.CountryCode = clean(loc.PostalCode), clean(loc.CountryCode)
		if loc != (types.Location{}) {
			b.Location = &loc
		}
	}

	profiles := append([]types.Profile(nil), in.Profiles...)
	// a personal URL on a known network is a profile too
	if b.URL != "" && InferNetwork(b.URL) != "" {
		profiles = append(profiles, types.Profile{URL: b.URL})
	}
	b.Profiles = mergeProfiles(profiles)
	return b
}

func (a *Assembler) work(in []types.Work) []types.Work {
	out := make([]types.Work, 0, len(in))
	for _, w := range in {
		w.Name, w.Position = clean(w.Name), clean(w.Position)
		if w.Name == "" && w.Position == "" {
			continue
		}
		w.URL = normalizeURL(w.URL)
		w.Location, w.Summary = clean(w.Location), clean(w.Summary)
		w.StartDate, w.EndDate = NormalizeRange(w.StartDate, w.EndDate)
		w.Highlights = dedupe(w.Highlights)
		out = append(out, w)
	}
	return out
}

func (a *Assembler) education(in []types.Education) []types.Education {
	out := make([]types.Education, 0, len(in))
	for _, e := range in {
		e.Institution = clean(e.Institution)
		if e.Institution == "" {
			continue
		}
		e.URL = normalizeURL(e.URL)
		e.Area, e.StudyType, e.Score = clean(e.Area), clean(e.StudyType), clean(e.Score)
		// "Bachelor of Technology, Computer Science"
		if e.Area == "" {
			if degree, area, ok := strings.Cut(e.StudyType, ", "); ok {
				e.StudyType, e.Area = strings.TrimSpace(degree), strings.TrimSpace(area)
			}
		}
		e.StartDate, e.EndDate = NormalizeRange(e.StartDate, e.EndDate)
		e.Courses = dedupe(e.Courses)
		out = append(out, e)
	}
	return out
}

// skills merges groups that share a name.
func (a *Assembler) skills(in []types.Skill) []types.Skill {
	out := make([]types.Skill, 0, len(in))
	index := map[string]int{}
	for _, s := range in {
		s.Name, s.Level = clean(s.Name), clean(s.Level)
		keywords := dedupe(s.Keywords)
		if s.Name == "" && len(keywords) == 0 {
			continue
		}
		key := strings.ToLower(s.Name)
		if i, ok := index[key]; ok {
			out[i].Keywords = dedupe(append(out[i].Keywords, keywords...))
			continue
		}
		s.Keywords = keywords
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}

// projects merges entries with the same name; the same project is often
// listed under both work and projects.
func (a *Assembler) projects(in []types.Project) []types.Project {
	out := make([]types.Project, 0, len(in))
	index := map[string]int{}
	for _, p := range in {
		p.Name = clean(p.Name)
		if p.Name == "" {
			continue
		}
		p.Description = clean(p.Description)
		p.URL = normalizeURL(p.URL)
		p.StartDate, p.EndDate = NormalizeRange(p.StartDate, p.EndDate)
		p.Highlights = dedupe(p.Highlights)
		p.Technologies = dedupe(p.Technologies)

		key := strings.ToLower(p.Name)
		if i, ok := index[key]; ok {
			prev := &out[i]
			if prev.Description == "" {
				prev.Description = p.Description
			}
			if prev.URL == "" {
				prev.URL = p.URL
			}
			if prev.StartDate == "" {
				prev.StartDate, prev.EndDate = p.StartDate, p.EndDate
			}
			prev.Highlights = dedupe(append(prev.Highlights, p.Highlights...))
			prev.Technologies = dedupe(append(prev.Technologies, p.Technologies...))
			a.log.Debug("merged duplicate project", zap.String("project", p.Name))
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}
	return out
}

func (a *Assembler) awards(in []types.Award) []types.Award {
	out := make([]types.Award, 0, len(in))
	seen := map[string]bool{}
	for _, aw := range in {
		aw.Title = clean(aw.Title)
		key := strings.ToLower(aw.Title)
		if aw.Title == "" || seen[key] {
			continue
		}
		seen[key] = true
		aw.Awarder, aw.Summary = clean(aw.Awarder), clean(aw.Summary)
		aw.Date = NormalizeDate(aw.Date, false)
		out = append(out, aw)
	}
	return out
}

// dedupe trims entries and drops empty and case-insensitive duplicates,
// keeping the first occurrence. It always returns a new slice.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = clean(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// clean trims and collapses internal whitespace.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
