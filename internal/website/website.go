package website

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/types"
)

// ErrNoWebsite is returned when neither the resume nor the GitHub profile
// names a personal site.
var ErrNoWebsite = errors.New("no personal website found")

// networks that are not personal sites
var socialHosts = []string{
	"github.com", "linkedin.com", "leetcode.com", "stackoverflow.com",
	"hackerrank.com", "twitter.com", "x.com", "gitlab.com", "codeforces.com", "kaggle.com",
}

// blogNetworks are profile networks whose URL is the candidate's writing.
var blogNetworks = map[string]bool{
	"blog": true, "website": true, "portfolio": true, "medium": true,
	"dev.to": true, "hashnode": true, "substack": true, "personal": true,
}

// Options configures the fetcher
type Options struct {
	// HTTPClient replaces the default client, which refuses non-public
	// addresses at dial time.
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
	// Renderer, when set, re-renders pages whose static HTML is nearly empty.
	Renderer Renderer
	// AllowPrivateNetworks permits loopback, private and link-local hosts.
	AllowPrivateNetworks bool
}

// Fetcher retrieves and summarizes personal sites
type Fetcher struct {
	client       *http.Client
	userAgent    string
	render       Renderer
	allowPrivate bool
	log          *zap.Logger
}

// NewFetcher returns a fetcher. A nil logger disables logging.
func NewFetcher(log *zap.Logger, opts Options) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.HTTPClient
	switch {
	case client != nil:
	case opts.AllowPrivateNetworks:
		client = &http.Client{Timeout: timeout}
	default:
		client = newPublicClient(timeout)
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Fetcher{
		client:       client,
		userAgent:    ua,
		render:       opts.Renderer,
		allowPrivate: opts.AllowPrivateNetworks,
		log:          log,
	}
}

// Enrich summarizes the candidate's website, found in the resume or the
// GitHub profile blog field. It returns ErrNoWebsite when there is none.
func (f *Fetcher) Enrich(ctx context.Context, resume *types.Resume, gh *types.GitHubData) (*types.WebsiteData, error) {
	site := FindWebsite(resume, gh)
	if site == "" {
		return nil, ErrNoWebsite
	}
	return f.Fetch(ctx, site)
}

// Fetch downloads and summarizes one page. Sparse pages are rendered in a
// browser when a Renderer is configured. Hosts that resolve to non-public
// addresses are refused unless AllowPrivateNetworks is set.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*types.WebsiteData, error) {
	if err := f.checkHost(ctx, pageURL); err != nil {
		return nil, err
	}
	html, err := fetchHTML(ctx, f.client, pageURL, f.userAgent)
	if err != nil {
		return nil, err
	}
	data, err := Summarize(pageURL, html)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to summarize page", Cause: err}
	}

	if f.render != nil && sparse(data) {
		f.log.Debug("page looks client-rendered, using browser", zap.String("url", pageURL))
		if err := f.checkHost(ctx, pageURL); err != nil {
			return nil, err
		}
		rendered, err := f.render(ctx, pageURL)
		if err != nil {
			f.log.Warn("browser rendering failed, keeping static page",
				zap.String("url", pageURL), zap.Error(err))
			return data, nil
		}
		if full, err := Summarize(pageURL, rendered); err == nil {
			full.Rendered = true
			data = full
		}
	}

	f.log.Info("website summarized",
		zap.String("url", pageURL),
		zap.Int("articles", data.ArticleCount),
		zap.Int("headings", len(data.Headings)))
	return data, nil
}

func (f *Fetcher) checkHost(ctx context.Context, pageURL string) error {
	if f.allowPrivate {
		return nil
	}
	return checkPublic(ctx, pageURL)
}

// FindWebsite picks the candidate's personal site: a blog-like profile,
// then basics.url when it is not a social network, then the GitHub blog field.
func FindWebsite(resume *types.Resume, gh *types.GitHubData) string {
	if resume != nil && resume.Basics != nil {
		for _, p := range resume.Basics.Profiles {
			if blogNetworks[strings.ToLower(p.Network)] && p.URL != "" {
				return withScheme(p.URL)
			}
		}
		if u := resume.Basics.URL; u != "" && !isSocial(u) {
			return withScheme(u)
		}
	}
	if gh != nil && gh.Profile != nil && gh.Profile.Blog != "" && !isSocial(gh.Profile.Blog) {
		return withScheme(gh.Profile.Blog)
	}
	return ""
}

func isSocial(u string) bool {
	parsed, err := url.Parse(withScheme(u))
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	for _, social := range socialHosts {
		if host == social || strings.HasSuffix(host, "."+social) {
			return true
		}
	}
	return false
}

func withScheme(u string) string {
	u = strings.TrimSpace(u)
	if strings.Contains(u, "://") {
		return u
	}
	return "https://" + u
}
