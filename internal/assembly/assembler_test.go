package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/types"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		end  bool
		want string
	}{
		{"June 2018", false, "2018-06"},
		{"Jun 2018", false, "2018-06"},
		{"Sept. 2019", false, "2019-09"},
		{"Jun '19", false, "2019-06"},
		{"Summer 2021", false, "2021-06"},
		{"2018-06-15", false, "2018-06"},
		{"2018-6", false, "2018-06"},
		{"06/2018", false, "2018-06"},
		{"2018", false, "2018-01"},
		{"2018", true, "2018-12"},
		{"Present", true, "Present"},
		{"current", true, "Present"},
		{"Now", true, "Present"},
		{"", false, ""},
		{"sometime", false, ""},
		{"2018-13", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.in, tt.end))
		})
	}
}

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantStart  string
		wantEnd    string
	}{
		{"separate fields", "Jan 2019", "Present", "2019-01", "Present"},
		{"month span", "Mar-May 2020", "", "2020-03", "2020-05"},
		{"onwards", "Feb-onwards 2021", "", "2021-02", "Present"},
		{"year span", "2007-2019", "", "2007-01", "2019-12"},
		{"dash range", "Jan 2019 - Present", "", "2019-01", "Present"},
		{"en dash shared year", "Mar – May 2020", "", "2020-03", "2020-05"},
		{"to range", "06/2017 to 08/2018", "", "2017-06", "2018-08"},
		{"iso start kept whole", "2018-06-15", "", "2018-06", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := NormalizeRange(tt.start, tt.end)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestProfileHelpers(t *testing.T) {
	tests := []struct {
		url      string
		network  string
		username string
	}{
		{"https://github.com/jane", "GitHub", "jane"},
		{"github.com/jane/", "GitHub", "jane"},
		{"https://www.linkedin.com/in/jane-doe/", "LinkedIn", "jane-doe"},
		{"https://stackoverflow.com/users/123/jane", "Stack Overflow", "jane"},
		{"https://leetcode.com/janedoe", "LeetCode", "janedoe"},
		{"https://www.hackerrank.com/jane_d", "HackerRank", "jane_d"},
		{"https://medium.com/@jane", "Medium", "jane"},
		{"https://jane.medium.com", "Medium", "jane"},
		{"https://jane.dev", "", "jane.dev"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.network, InferNetwork(tt.url))
			if tt.network != "" {
				assert.Equal(t, tt.username, UsernameFromURL(tt.url))
			}
		})
	}

	assert.Equal(t, "github.com/jane", CanonicalURL("https://www.GitHub.com/jane/?tab=repos"))
	assert.Equal(t, CanonicalURL("github.com/jane"), CanonicalURL("http://github.com/jane/"))
	assert.Equal(t, CanonicalURL("github.com/jane"), CanonicalURL("https://github.com/Jane"))
	assert.Equal(t, CanonicalURL("linkedin.com/in/jane-doe"), CanonicalURL("https://www.linkedin.com/in/Jane-Doe/"))
	assert.Equal(t, "jane.dev/Notes", CanonicalURL("https://jane.dev/Notes/"))

	merged := mergeProfiles([]types.Profile{
		{URL: "https://github.com/Jane"},
		{Network: "GitHub", URL: "github.com/jane"},
	})
	require.Len(t, merged, 1)
	assert.Equal(t, "GitHub", merged[0].Network)
	assert.Equal(t, "Jane", merged[0].Username)
}

func TestAssemble(t *testing.T) {
	set := &types.SectionSet{
		Basics: &types.Basics{
			Name:  "  Jane   Doe ",
			Email: "mailto:jane@example.com",
			URL:   "github.com/jane",
			Profiles: []types.Profile{
				{URL: "https://github.com/jane/"},
				{Network: "LinkedIn", URL: "linkedin.com/in/jane"},
				{URL: "https://www.github.com/jane"},
			},
			Location: &types.Location{City: " "},
		},
		Work: []types.Work{
			{Name: "Acme", Position: "SWE", StartDate: "June 2018 - Present",
				Highlights: []string{"Built APIs", "built apis", "", "Led team"}},
			{},
		},
		Education: []types.Education{
			{Institution: "MIT", StudyType: "BSc, Computer Science", StartDate: "2014", EndDate: "2018"},
			{Institution: ""},
		},
		Skills: []types.Skill{
			{Name: "Languages", Keywords: []string{"Go", "go", "Python"}},
			{Name: "languages", Keywords: []string{"Rust", "Python"}},
			{Name: "Empty"},
		},
		Projects: []types.Project{
			{Name: "scorer", Technologies: []string{"Go"}},
			{Name: "Scorer", URL: "github.com/jane/scorer", Technologies: []string{"go", "Redis"}},
		},
		Awards: []types.Award{
			{Title: "ICPC Finalist", Date: "2021"},
			{Title: "icpc finalist"},
		},
	}

	r := New(nil).Assemble(set)

	require.NotNil(t, r.Basics)
	assert.Equal(t, "Jane Doe", r.Basics.Name)
	assert.Equal(t, "jane@example.com", r.Basics.Email)
	assert.Equal(t, "https://github.com/jane", r.Basics.URL)
	assert.Nil(t, r.Basics.Location)
	assert.Equal(t, []types.Profile{
		{Network: "GitHub", Username: "jane", URL: "https://github.com/jane/"},
		{Network: "LinkedIn", Username: "jane", URL: "https://linkedin.com/in/jane"},
	}, r.Basics.Profiles)

	require.Len(t, r.Work, 1)
	assert.Equal(t, "2018-06", r.Work[0].StartDate)
	assert.Equal(t, "Present", r.Work[0].EndDate)
	assert.Equal(t, []string{"Built APIs", "Led team"}, r.Work[0].Highlights)

	require.Len(t, r.Education, 1)
	assert.Equal(t, "BSc", r.Education[0].StudyType)
	assert.Equal(t, "Computer Science", r.Education[0].Area)
	assert.Equal(t, "2014-01", r.Education[0].StartDate)
	assert.Equal(t, "2018-12", r.Education[0].EndDate)

	assert.Equal(t, []types.Skill{
		{Name: "Languages", Keywords: []string{"Go", "Python", "Rust"}},
		{Name: "Empty", Keywords: []string{}},
	}, r.Skills)

	require.Len(t, r.Projects, 1)
	assert.Equal(t, "https://github.com/jane/scorer", r.Projects[0].URL)
	assert.Equal(t, []string{"Go", "Redis"}, r.Projects[0].Technologies)

	require.Len(t, r.Awards, 1)
	assert.Equal(t, "2021-01", r.Awards[0].Date)

	// the input set is left untouched
	assert.Equal(t, "  Jane   Doe ", set.Basics.Name)
	assert.Equal(t, "June 2018 - Present", set.Work[0].StartDate)
	assert.Len(t, set.Work[0].Highlights, 4)
}

func TestAssemble_Nil(t *testing.T) {
	r := New(nil).Assemble(nil)
	require.NotNil(t, r.Basics)
	assert.Empty(t, r.Work)
	assert.Empty(t, r.Basics.Profiles)
}
