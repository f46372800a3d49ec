package types

import "time"

// RepoKind classifies a repository by how the candidate worked on it
type RepoKind string

const (
	// RepoProduction is a repository with a deployed homepage
	RepoProduction RepoKind = "production"
	// RepoSelfProject is a repository authored alone
	RepoSelfProject RepoKind = "self-project"
	// RepoOpenSource is a fork or a repository with outside contributors
	RepoOpenSource RepoKind = "open-source"
)

// MaxSelectedRepos is the upper bound on repositories kept after selection.
const MaxSelectedRepos = 7

// Repository is one GitHub repository as seen by the enricher
type Repository struct {
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	URL               string    `json:"github_url"`
	Homepage          string    `json:"live_url,omitempty"`
	Language          string    `json:"language,omitempty"`
	Topics            []string  `json:"topics,omitempty"`
	Stars             int       `json:"stars"`
	Forks             int       `json:"forks"`
	Fork              bool      `json:"fork"`
	AuthorCommits     int       `json:"author_commit_count"`
	TotalCommits      int       `json:"total_commit_count"`
	AuthorCommitShare float64   `json:"author_commit_share"`
	ContributorCount  int       `json:"contributor_count"`
	Kind              RepoKind  `json:"project_type"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// GitHubProfile is the public profile of the candidate's account
type GitHubProfile struct {
	Username        string    `json:"username"`
	Name            string    `json:"name,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Location        string    `json:"location,omitempty"`
	Company         string    `json:"company,omitempty"`
	Blog            string    `json:"blog,omitempty"`
	TwitterUsername string    `json:"twitter_username,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	PublicRepos     int       `json:"public_repos"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	Hireable        bool      `json:"hireable"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// GitHubData is the enrichment result attached to a resume
type GitHubData struct {
	Profile       *GitHubProfile `json:"profile"`
	Projects      []Repository   `json:"projects"`
	EligibleCount int            `json:"eligible_count"`
	FetchedAt     time.Time      `json:"fetched_at"`
}

// WebsiteData is a summary of the candidate's personal site or blog
type WebsiteData struct {
	URL          string   `json:"url"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	ArticleCount int      `json:"article_count"`
	Headings     []string `json:"headings,omitempty"`
	Excerpt      string   `json:"excerpt,omitempty"`
	Rendered     bool     `json:"rendered,omitempty"`
}

// EnrichedResume is the evaluator input: the resume plus optional enrichment
type EnrichedResume struct {
	Resume  *Resume      `json:"resume"`
	GitHub  *GitHubData  `json:"github,omitempty"`
	Website *WebsiteData `json:"website,omitempty"`
}
