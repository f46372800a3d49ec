package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Rubric category keys
const (
	CategoryOpenSource      = "open_source"
	CategorySelfProjects    = "self_projects"
	CategoryProduction      = "production"
	CategoryTechnicalSkills = "technical_skills"
)

// Rubric bounds
const (
	MaxOpenSource      = 35.0
	MaxSelfProjects    = 30.0
	MaxProduction      = 25.0
	MaxTechnicalSkills = 10.0
	MaxBaseScore       = MaxOpenSource + MaxSelfProjects + MaxProduction + MaxTechnicalSkills
	MaxBonus           = 20.0
	MinFinalScore      = -20.0
	MaxFinalScore      = MaxBaseScore + MaxBonus
)

// RubricCategory describes one weighted scoring category
type RubricCategory struct {
	Key   string
	Title string
	Max   float64
}

// Rubric returns the scoring categories in report order.
func Rubric() []RubricCategory {
	return []RubricCategory{
		{Key: CategoryOpenSource, Title: "Open Source", Max: MaxOpenSource},
		{Key: CategorySelfProjects, Title: "Self Projects", Max: MaxSelfProjects},
		{Key: CategoryProduction, Title: "Production", Max: MaxProduction},
		{Key: CategoryTechnicalSkills, Title: "Technical Skills", Max: MaxTechnicalSkills},
	}
}

// CategoryScore is the score for one rubric category with supporting evidence
type CategoryScore struct {
	Score    float64 `json:"score" validate:"gte=0"`
	Max      float64 `json:"max"`
	Evidence string  `json:"evidence"`
}

// Scores groups the four rubric categories
type Scores struct {
	OpenSource      CategoryScore `json:"open_source"`
	SelfProjects    CategoryScore `json:"self_projects"`
	Production      CategoryScore `json:"production"`
	TechnicalSkills CategoryScore `json:"technical_skills"`
}

// Get returns a pointer to the category with the given key, or nil.
func (s *Scores) Get(key string) *CategoryScore {
	switch key {
	case CategoryOpenSource:
		return &s.OpenSource
	case CategorySelfProjects:
		return &s.SelfProjects
	case CategoryProduction:
		return &s.Production
	case CategoryTechnicalSkills:
		return &s.TechnicalSkills
	}
	return nil
}

// Total sums the category scores.
func (s *Scores) Total() float64 {
	return s.OpenSource.Score + s.SelfProjects.Score + s.Production.Score + s.TechnicalSkills.Score
}

// BonusPoints are awarded on top of the base score
type BonusPoints struct {
	Total     float64 `json:"total" validate:"gte=0,lte=20"`
	Breakdown string  `json:"breakdown"`
}

// Deductions are subtracted from the base score
type Deductions struct {
	Total   float64 `json:"total" validate:"gte=0"`
	Reasons string  `json:"reasons"`
}

// ScoreReport is the evaluator's structured output
type ScoreReport struct {
	ResumeID            string      `json:"resume_id,omitempty"`
	CandidateName       string      `json:"candidate_name,omitempty"`
	Scores              Scores      `json:"scores"`
	BonusPoints         BonusPoints `json:"bonus_points"`
	Deductions          Deductions  `json:"deductions"`
	BaseScore           float64     `json:"base_score"`
	FinalScore          float64     `json:"final_score" validate:"gte=-20,lte=120"`
	KeyStrengths        []string    `json:"key_strengths"`
	AreasForImprovement []string    `json:"areas_for_improvement"`
	Explanation         string      `json:"scoring_explanation,omitempty"`
	Model               string      `json:"model,omitempty"`
	EvaluatedAt         time.Time   `json:"evaluated_at"`
}

var validate = validator.New()

// Validate checks struct tags and per-category rubric bounds.
func (r *ScoreReport) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	for _, cat := range Rubric() {
		cs := r.Scores.Get(cat.Key)
		if cs.Score > cat.Max {
			return fmt.Errorf("%s score %.1f exceeds maximum %.0f", cat.Key, cs.Score, cat.Max)
		}
	}
	return nil
}
