package github

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-scorer/internal/types"
)

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/jane", "jane"},
		{"http://www.github.com/jane-doe/", "jane-doe"},
		{"github.com/jane/scorer", "jane"},
		{"https://github.com/jane?tab=repositories", "jane"},
		{"github.com/ jane", "jane"},
		{"@jane", "jane"},
		{"jane-doe", "jane-doe"},
		{"https://github.com/orgs/acme", ""},
		{"https://linkedin.com/in/jane", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUsername(tt.in))
		})
	}
}

func TestFindUsername(t *testing.T) {
	tests := []struct {
		name   string
		resume *types.Resume
		want   string
	}{
		{
			name: "github profile",
			resume: &types.Resume{Basics: &types.Basics{Profiles: []types.Profile{
				{Network: "LinkedIn", URL: "https://linkedin.com/in/jd"},
				{Network: "GitHub", URL: "https://github.com/jane"},
			}}},
			want: "jane",
		},
		{
			name: "profile username only",
			resume: &types.Resume{Basics: &types.Basics{Profiles: []types.Profile{
				{Network: "github", Username: "jdoe"},
			}}},
			want: "jdoe",
		},
		{
			name:   "personal url",
			resume: &types.Resume{Basics: &types.Basics{URL: "https://github.com/jane"}},
			want:   "jane",
		},
		{
			name: "most common project owner",
			resume: &types.Resume{Basics: &types.Basics{}, Projects: []types.Project{
				{URL: "https://github.com/kubernetes/kubernetes"},
				{URL: "https://github.com/jane/a"},
				{URL: "https://github.com/jane/b"},
				{URL: "https://jane.dev"},
			}},
			want: "jane",
		},
		{
			name:   "none",
			resume: &types.Resume{Basics: &types.Basics{URL: "https://jane.dev"}},
			want:   "",
		},
		{name: "nil", resume: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindUsername(tt.resume))
		})
	}
}
