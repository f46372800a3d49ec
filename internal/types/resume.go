// Package types provides type definitions for structured data used throughout the resume-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Section names understood by the section extractor, in extraction order.
const (
	SectionBasics    = "basics"
	SectionWork      = "work"
	SectionEducation = "education"
	SectionSkills    = "skills"
	SectionProjects  = "projects"
	SectionAwards    = "awards"
)

// Sections returns every resume section in extraction order.
func Sections() []string {
	return []string{
		SectionBasics,
		SectionWork,
		SectionEducation,
		SectionSkills,
		SectionProjects,
		SectionAwards,
	}
}

// DatePresent marks an ongoing entry.
const DatePresent = "Present"

// Resume is the assembled, JSON Resume shaped document produced from a PDF.
type Resume struct {
	Basics    *Basics     `json:"basics,omitempty"`
	Work      []Work      `json:"work"`
	Education []Education `json:"education"`
	Skills    []Skill     `json:"skills"`
	Projects  []Project   `json:"projects"`
	Awards    []Award     `json:"awards"`
}

// Basics holds contact and summary information
type Basics struct {
	Name     string    `json:"name"`
	Label    string    `json:"label,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	URL      string    `json:"url,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Location *Location `json:"location,omitempty"`
	Profiles []Profile `json:"profiles,omitempty"`
}

// Location is a postal location
type Location struct {
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Region      string `json:"region,omitempty"`
}

// Profile is a link to an online presence (GitHub, LinkedIn, blog, ...)
type Profile struct {
	Network  string `json:"network,omitempty"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Work is one employment entry
type Work struct {
	Name       string   `json:"name"`
	Position   string   `json:"position,omitempty"`
	URL        string   `json:"url,omitempty"`
	Location   string   `json:"location,omitempty"`
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// Education is one education entry
type Education struct {
	Institution string   `json:"institution"`
	URL         string   `json:"url,omitempty"`
	Area        string   `json:"area,omitempty"`
	StudyType   string   `json:"studyType,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Score       string   `json:"score,omitempty"`
	Courses     []string `json:"courses,omitempty"`
}

// Skill is a named group of keywords
type Skill struct {
	Name     string   `json:"name"`
	Level    string   `json:"level,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Project is a personal or professional project listed on the resume
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Award is an award, honor or achievement
type Award struct {
	Title   string `json:"title"`
	Date    string `json:"date,omitempty"`
	Awarder string `json:"awarder,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// SectionSet holds the per-section records produced by the section extractor.
type SectionSet struct {
	Basics    *Basics     `json:"basics,omitempty"`
	Work      []Work      `json:"work,omitempty"`
	Education []Education `json:"education,omitempty"`
	Skills    []Skill     `json:"skills,omitempty"`
	Projects  []Project   `json:"projects,omitempty"`
	Awards    []Award     `json:"awards,omitempty"`
}

// ProfileByNetwork returns the first profile whose network matches (case-insensitive).
func (r *Resume) ProfileByNetwork(network string) *Profile {
	if r == nil || r.Basics == nil {
		return nil
	}
	for i := range r.Basics.Profiles {
		if strings.EqualFold(r.Basics.Profiles[i].Network, network) {
			return &r.Basics.Profiles[i]
		}
	}
	return nil
}

// CandidateName returns the name from basics, or empty.
func (r *Resume) CandidateName() string {
	if r == nil || r.Basics == nil {
		return ""
	}
	return r.Basics.Name
}
