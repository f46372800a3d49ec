package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/schemas"
)

func TestRepairShape(t *testing.T) {
	tests := []struct {
		name    string
		section string
		raw     string
		want    string
	}{
		{
			name:    "already valid",
			section: "awards",
			raw:     `{"awards": [{"title": "ICPC Finalist", "date": "2021"}]}`,
			want:    `{"awards":[{"date":"2021","title":"ICPC Finalist"}]}`,
		},
		{
			name:    "bare array",
			section: "education",
			raw:     `[{"school": "MIT", "degree": "BSc", "gpa": 3.9}]`,
			want:    `{"education":[{"institution":"MIT","score":"3.9","studyType":"BSc"}]}`,
		},
		{
			name:    "aliased section key",
			section: "work",
			raw:     `{"work_experience": [{"company": "Acme", "title": "SWE", "responsibilities": "Built APIs, wrote docs"}]}`,
			want:    `{"work":[{"highlights":["Built APIs, wrote docs"],"name":"Acme","position":"SWE"}]}`,
		},
		{
			name:    "skills as strings",
			section: "skills",
			raw:     `{"skills": ["Go", "Python", null]}`,
			want:    `{"skills":[{"keywords":["Go","Python"],"name":"Technical Skills"}]}`,
		},
		{
			name:    "skills as category map",
			section: "skills",
			raw:     `{"skills": {"Tools": "Docker, Git", "Languages": ["Go"]}}`,
			want:    `{"skills":[{"keywords":["Go"],"name":"Languages"},{"keywords":["Docker","Git"],"name":"Tools"}]}`,
		},
		{
			name:    "skills with category key",
			section: "skills",
			raw:     `{"skills": [{"category": "Cloud", "skills": ["AWS", "GCP"]}]}`,
			want:    `{"skills":[{"keywords":["AWS","GCP"],"name":"Cloud"}]}`,
		},
		{
			name:    "project title carries stack",
			section: "projects",
			raw:     `{"projects": [{"name": "Scorer | Go, Redis", "link": "https://github.com/x/scorer"}]}`,
			want:    `{"projects":[{"name":"Scorer","technologies":["Go","Redis"],"url":"https://github.com/x/scorer"}]}`,
		},
		{
			name:    "single project object",
			section: "projects",
			raw:     `{"name": "Solo", "technologies": "Rust"}`,
			want:    `{"projects":[{"name":"Solo","technologies":["Rust"]}]}`,
		},
		{
			name:    "awards from achievements strings",
			section: "awards",
			raw:     `{"achievements": ["Hackathon winner"]}`,
			want:    `{"awards":[{"title":"Hackathon winner"}]}`,
		},
		{
			name:    "null list",
			section: "awards",
			raw:     `{"awards": null}`,
			want:    `{"awards":[]}`,
		},
		{
			name:    "not json",
			section: "awards",
			raw:     `sorry, no awards`,
			want:    `sorry, no awards`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairShape(tt.section, tt.raw)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestRepairShape_BasicsProfiles(t *testing.T) {
	raw := `{"name": "Jane", "phone": 5551234, "location": "Berlin",
		"links": {"linkedin": "https://linkedin.com/in/jane", "github": "https://github.com/jane"}}`

	got := repairShape("basics", raw)
	assert.JSONEq(t, `{"basics": {
		"name": "Jane", "phone": "5551234", "email": null, "label": null, "url": null, "summary": null,
		"location": {"city": "Berlin"},
		"profiles": [
			{"network": "github", "url": "https://github.com/jane"},
			{"network": "linkedin", "url": "https://linkedin.com/in/jane"}
		]}}`, string(got))

	require.NoError(t, schemas.Validate("basics", got))
}

func TestRepairShape_OutputValidates(t *testing.T) {
	replies := map[string]string{
		"work":      `[{"company": "Acme", "start_date": 2019}]`,
		"education": `{"education": {"university": "ETH"}}`,
		"skills":    `{"technical_skills": "Go, Kubernetes"}`,
		"projects":  `{"projects": ["Compiler", {"title": "Blog", "skills": "Hugo"}]}`,
		"awards":    `{"honors": [{"name": "Dean's list", "issuer": "ETH"}]}`,
	}

	for section, raw := range replies {
		t.Run(section, func(t *testing.T) {
			assert.NoError(t, schemas.Validate(section, repairShape(section, raw)))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "short", describe("  short ", 10))
	assert.Equal(t, "abc... (3 more bytes)", describe("abcdef", 3))
}
