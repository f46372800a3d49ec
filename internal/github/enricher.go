package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/prompts"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Defaults for Options
const (
	DefaultMaxRepos        = 100
	DefaultMinContribution = 0.2
)

// Options configures the enricher
type Options struct {
	// MaxRepos caps how many repositories are listed.
	MaxRepos int
	// MinContribution is the minimum share of commits authored by the
	// candidate for a repository to be eligible.
	MinContribution float64
}

// Enricher fetches GitHub data for a resume and selects the repositories
// most worth showing to the evaluator
type Enricher struct {
	client *Client
	llm    llm.Client
	log    *zap.Logger
	opts   Options
}

// NewEnricher returns an enricher. llmClient may be nil, in which case
// selection falls back to ranking by stars.
func NewEnricher(client *Client, llmClient llm.Client, log *zap.Logger, opts Options) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxRepos <= 0 {
		opts.MaxRepos = DefaultMaxRepos
	}
	if opts.MinContribution <= 0 {
		opts.MinContribution = DefaultMinContribution
	}
	return &Enricher{client: client, llm: llmClient, log: log, opts: opts}
}

// Enrich finds the candidate's GitHub handle in the resume and enriches it.
// A missing handle or a failed fetch returns an *EnrichmentWarning.
func (e *Enricher) Enrich(ctx context.Context, resume *types.Resume) (*types.GitHubData, error) {
	username := FindUsername(resume)
	if username == "" {
		return nil, &EnrichmentWarning{Message: "no GitHub link", Cause: ErrNoUsername}
	}
	return e.EnrichUser(ctx, username)
}

// EnrichUser fetches the profile and repositories of username and selects
// at most types.MaxSelectedRepos eligible repositories.
func (e *Enricher) EnrichUser(ctx context.Context, username string) (*types.GitHubData, error) {
	log := e.log.With(zap.String("github_user", username))

	profile, err := e.client.FetchProfile(ctx, username)
	if err != nil {
		return nil, e.warning(ctx, username, "failed to fetch profile", err)
	}
	repos, err := e.client.FetchRepositories(ctx, username, e.opts.MaxRepos)
	if err != nil {
		return nil, e.warning(ctx, username, "failed to fetch repositories", err)
	}

	eligible := Eligible(repos, e.opts.MinContribution)
	log.Info("repositories fetched",
		zap.Int("fetched", len(repos)),
		zap.Int("eligible", len(eligible)),
		zap.Float64("min_contribution", e.opts.MinContribution))

	selected, err := e.Select(ctx, eligible)
	if err != nil {
		return nil, err
	}
	return &types.GitHubData{
		Profile:       profile,
		Projects:      selected,
		EligibleCount: len(eligible),
		FetchedAt:     time.Now().UTC(),
	}, nil
}

// warning wraps a fetch failure. Cancellation is not a warning.
func (e *Enricher) warning(ctx context.Context, username, msg string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &EnrichmentWarning{Username: username, Message: msg, Cause: err}
}

// Eligible returns the repositories whose author commit share meets threshold,
// ordered by stars. Repeated names keep their first occurrence.
func Eligible(repos []types.Repository, threshold float64) []types.Repository {
	out := make([]types.Repository, 0, len(repos))
	for _, r := range uniqueByName(repos) {
		if r.AuthorCommitShare >= threshold {
			out = append(out, r)
		}
	}
	sortByStars(out)
	return out
}

// uniqueByName drops repositories whose name (case-insensitive) was already seen.
func uniqueByName(repos []types.Repository) []types.Repository {
	seen := make(map[string]bool, len(repos))
	out := make([]types.Repository, 0, len(repos))
	for _, r := range repos {
		key := strings.ToLower(r.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// Select picks up to types.MaxSelectedRepos unique repositories from
// eligible. When there are no more than that many, all are returned without
// consulting the model. Model picks that are unknown or repeated are
// dropped and the remainder is back-filled by stars.
func (e *Enricher) Select(ctx context.Context, eligible []types.Repository) ([]types.Repository, error) {
	eligible = uniqueByName(eligible)
	if len(eligible) <= types.MaxSelectedRepos {
		return eligible, nil
	}

	var picks []string
	if e.llm != nil {
		var err error
		picks, err = e.askModel(ctx, eligible)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.Warn("project selection failed, ranking by stars", zap.Error(err))
		}
	}
	return pick(eligible, picks, types.MaxSelectedRepos), nil
}

// selectionCandidate is the compact view of a repository shown to the model.
type selectionCandidate struct {
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Language     string         `json:"language,omitempty"`
	Topics       []string       `json:"topics,omitempty"`
	Stars        int            `json:"stars"`
	Forks        int            `json:"forks"`
	Kind         types.RepoKind `json:"project_type"`
	AuthorShare  string         `json:"author_commit_share"`
	Contributors int            `json:"contributor_count"`
	LiveURL      string         `json:"live_url,omitempty"`
}

func (e *Enricher) askModel(ctx context.Context, eligible []types.Repository) ([]string, error) {
	candidates := make([]selectionCandidate, len(eligible))
	for i, r := range eligible {
		candidates[i] = selectionCandidate{
			Name:         r.Name,
			Description:  r.Description,
			Language:     r.Language,
			Topics:       r.Topics,
			Stars:        r.Stars,
			Forks:        r.Forks,
			Kind:         r.Kind,
			AuthorShare:  fmt.Sprintf("%.0f%%", r.AuthorCommitShare*100),
			Contributors: r.ContributorCount,
			LiveURL:      r.Homepage,
		}
	}
	list, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode candidates: %w", err)
	}

	prompt, err := prompts.Render(prompts.GitHubFile, "select-projects", map[string]string{
		"Count":        fmt.Sprint(types.MaxSelectedRepos),
		"Repositories": string(list),
	})
	if err != nil {
		return nil, err
	}

	reply, err := e.llm.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, err
	}
	reply = llm.CleanJSONBlock(reply)
	if err := schemas.Validate(schemas.ProjectSelection, []byte(reply)); err != nil {
		return nil, err
	}

	var parsed struct {
		Selected []string `json:"selected"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Selected) == 0 {
		return nil, errors.New("model selected no repositories")
	}
	e.log.Debug("model selected repositories", zap.Strings("selected", parsed.Selected))
	return parsed.Selected, nil
}

// pick resolves model choices against eligible (case-insensitive), drops
// duplicates and unknown names, and fills up to limit from eligible in order.
func pick(eligible []types.Repository, choices []string, limit int) []types.Repository {
	byName := make(map[string]int, len(eligible))
	for i, r := range eligible {
		byName[strings.ToLower(r.Name)] = i
	}

	out := make([]types.Repository, 0, limit)
	used := make(map[int]bool, limit)
	for _, name := range choices {
		if len(out) == limit {
			break
		}
		i, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		out = append(out, eligible[i])
	}
	for i, r := range eligible {
		if len(out) == limit {
			break
		}
		if !used[i] {
			used[i] = true
			out = append(out, r)
		}
	}
	return out
}

func sortByStars(repos []types.Repository) {
	sort.SliceStable(repos, func(i, j int) bool {
		if repos[i].Stars != repos[j].Stars {
			return repos[i].Stars > repos[j].Stars
		}
		if repos[i].AuthorCommitShare != repos[j].AuthorCommitShare {
			return repos[i].AuthorCommitShare > repos[j].AuthorCommitShare
		}
		return repos[i].Name < repos[j].Name
	})
}
