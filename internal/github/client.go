// Package github enriches a resume with the candidate's public GitHub
// profile and a bounded selection of their most relevant repositories.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v66/github"
	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/types"
)

// DefaultTimeout bounds each GitHub API request.
const DefaultTimeout = 10 * time.Second

// minForkForks is the fork count below which forked repositories are skipped.
const minForkForks = 5

// ClientOptions configures the GitHub API client
type ClientOptions struct {
	// Token is an optional personal access token for higher rate limits.
	Token string
	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client fetches profile and repository data
type Client struct {
	gh  *gogithub.Client
	log *zap.Logger
}

// NewClient creates a GitHub API client.
func NewClient(opts ClientOptions) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	gh := gogithub.NewClient(httpClient)
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gh: gh, log: log}, nil
}

// FetchProfile returns the public profile for username.
func (c *Client) FetchProfile(ctx context.Context, username string) (*types.GitHubProfile, error) {
	user, _, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		return nil, apiError("fetch profile", err)
	}
	return &types.GitHubProfile{
		Username:        user.GetLogin(),
		Name:            user.GetName(),
		Bio:             user.GetBio(),
		Location:        user.GetLocation(),
		Company:         user.GetCompany(),
		Blog:            user.GetBlog(),
		TwitterUsername: user.GetTwitterUsername(),
		AvatarURL:       user.GetAvatarURL(),
		PublicRepos:     user.GetPublicRepos(),
		Followers:       user.GetFollowers(),
		Following:       user.GetFollowing(),
		Hireable:        user.GetHireable(),
		CreatedAt:       user.GetCreatedAt().Time,
		UpdatedAt:       user.GetUpdatedAt().Time,
	}, nil
}

// FetchRepositories lists up to limit repositories owned by username, most
// recently updated first, with contributor statistics filled in. Forks
// with fewer than five forks of their own are skipped.
func (c *Client) FetchRepositories(ctx context.Context, username string, limit int) ([]types.Repository, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := &gogithub.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: gogithub.ListOptions{PerPage: min(limit, 100)},
	}

	var out []types.Repository
	fetched := 0
	for fetched < limit {
		page, resp, err := c.gh.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, apiError("list repositories", err)
		}
		for _, r := range page {
			if fetched >= limit {
				break
			}
			fetched++
			if r.GetFork() && r.GetForksCount() < minForkForks {
				continue
			}
			repo := convertRepository(r)
			if err := c.fillContributors(ctx, username, &repo); err != nil {
				return nil, err
			}
			out = append(out, repo)
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.log.Debug("fetched repositories",
		zap.String("user", username),
		zap.Int("listed", fetched),
		zap.Int("kept", len(out)))
	return out, nil
}

// maxContributorPages bounds contributor listing; GitHub reports at most 500
// contributors by login.
const maxContributorPages = 5

// fillContributors sets commit counts, author share and the repository kind.
// A repository whose contributors cannot be listed is treated as authored
// alone; an empty repository has no author commits.
func (c *Client) fillContributors(ctx context.Context, username string, repo *types.Repository) error {
	opts := &gogithub.ListContributorsOptions{ListOptions: gogithub.ListOptions{PerPage: 100}}
	var contributors []*gogithub.Contributor
	for page := 0; page < maxContributorPages; page++ {
		batch, resp, err := c.gh.Repositories.ListContributors(ctx, username, repo.Name, opts)
		if err != nil {
			if isRateLimit(err) {
				return apiError("list contributors", err)
			}
			c.log.Debug("contributors unavailable, assuming sole author",
				zap.String("repo", repo.Name), zap.Error(err))
			repo.ContributorCount = 1
			repo.AuthorCommitShare = 1
			repo.Kind = classify(repo)
			return nil
		}
		contributors = append(contributors, batch...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	for _, contributor := range contributors {
		n := contributor.GetContributions()
		repo.TotalCommits += n
		if strings.EqualFold(contributor.GetLogin(), username) {
			repo.AuthorCommits += n
		}
	}
	repo.ContributorCount = len(contributors)
	if repo.TotalCommits > 0 {
		repo.AuthorCommitShare = float64(repo.AuthorCommits) / float64(repo.TotalCommits)
	}
	repo.Kind = classify(repo)
	return nil
}

func convertRepository(r *gogithub.Repository) types.Repository {
	return types.Repository{
		Name:        r.GetName(),
		Description: r.GetDescription(),
		URL:         r.GetHTMLURL(),
		Homepage:    r.GetHomepage(),
		Language:    r.GetLanguage(),
		Topics:      r.Topics,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Fork:        r.GetFork(),
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}

// classify tags a repository: work shared with others is open source, a
// deployed homepage marks production, everything else is a self project.
func classify(repo *types.Repository) types.RepoKind {
	switch {
	case repo.Fork || repo.ContributorCount > 1:
		return types.RepoOpenSource
	case repo.Homepage != "":
		return types.RepoProduction
	default:
		return types.RepoSelfProject
	}
}

func isRateLimit(err error) bool {
	var rl *gogithub.RateLimitError
	var abuse *gogithub.AbuseRateLimitError
	return errors.As(err, &rl) || errors.As(err, &abuse)
}

func apiError(op string, err error) error {
	if isRateLimit(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrRateLimited, err)
	}
	var er *gogithub.ErrorResponse
	if errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
