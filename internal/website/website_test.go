package website

import (
	"context"
	"errors"
	"net/http"
	"net"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/types"
)

const blogHTML = `<html><head>
<title> Jane Doe | Notes </title>
<meta name="description" content="Writing about   distributed systems">
</head><body>
<nav><a href="/blog/">Blog</a><h2>Menu</h2></nav>
<main>
  <h1>Latest posts</h1>
  <article><h2>Raft in practice</h2><a href="/blog/raft-in-practice">read</a></article>
  <article><h2>Profiling Go</h2><a href="https://jane.dev/blog/profiling-go/">read</a></article>
  <a href="/blog/raft-in-practice#comments">comments</a>
  <a href="https://other.example.com/blog/elsewhere">elsewhere</a>
  <p>I write about consensus, storage engines and performance.</p>
</main>
<script>var x = 1;</script>
</body></html>`

func TestSummarize(t *testing.T) {
	data, err := Summarize("https://jane.dev/", blogHTML)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe | Notes", data.Title)
	assert.Equal(t, "Writing about distributed systems", data.Description)
	assert.Equal(t, 2, data.ArticleCount)
	assert.Equal(t, []string{"Latest posts", "Raft in practice", "Profiling Go"}, data.Headings)
	assert.Contains(t, data.Excerpt, "consensus, storage engines")
	assert.NotContains(t, data.Excerpt, "var x")
	assert.NotContains(t, data.Excerpt, "Menu")
}

func TestFindWebsite(t *testing.T) {
	tests := []struct {
		name   string
		resume *types.Resume
		gh     *types.GitHubData
		want   string
	}{
		{
			name: "blog profile wins",
			resume: &types.Resume{Basics: &types.Basics{URL: "https://jane.dev", Profiles: []types.Profile{
				{Network: "Medium", URL: "https://medium.com/@jane"},
			}}},
			want: "https://medium.com/@jane",
		},
		{
			name:   "personal url",
			resume: &types.Resume{Basics: &types.Basics{URL: "jane.dev"}},
			want:   "https://jane.dev",
		},
		{
			name:   "social url skipped",
			resume: &types.Resume{Basics: &types.Basics{URL: "https://github.com/jane"}},
			gh:     &types.GitHubData{Profile: &types.GitHubProfile{Blog: "janedoe.io"}},
			want:   "https://janedoe.io",
		},
		{
			name:   "lookalike host is not social",
			resume: &types.Resume{Basics: &types.Basics{URL: "https://netflix.com"}},
			want:   "https://netflix.com",
		},
		{
			name:   "none",
			resume: &types.Resume{Basics: &types.Basics{}},
			gh:     &types.GitHubData{Profile: &types.GitHubProfile{Blog: "https://twitter.com/jane"}},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindWebsite(tt.resume, tt.gh))
		})
	}
}

func TestFetcher_Enrich(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(blogHTML))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	f := NewFetcher(nil, Options{AllowPrivateNetworks: true})

	data, err := f.Enrich(context.Background(), &types.Resume{Basics: &types.Basics{URL: server.URL + "/"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/", data.URL)
	assert.False(t, data.Rendered)

	_, err = f.Fetch(context.Background(), server.URL+"/missing")
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "HTTP status 404")

	_, err = f.Enrich(context.Background(), &types.Resume{}, nil)
	assert.ErrorIs(t, err, ErrNoWebsite)

	_, err = f.Fetch(context.Background(), "not a url")
	assert.ErrorAs(t, err, &fetchErr)
}

func TestFetcher_RendersSparsePages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>App</title></head><body><div id="root"></div></body></html>`))
	}))
	defer server.Close()

	var rendered []string
	f := NewFetcher(nil, Options{AllowPrivateNetworks: true, Renderer: func(_ context.Context, url string) (string, error) {
		rendered = append(rendered, url)
		return blogHTML, nil
	}})

	data, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, data.Rendered)
	assert.Equal(t, []string{server.URL}, rendered)
	assert.Equal(t, "Jane Doe | Notes", data.Title)

	failing := NewFetcher(nil, Options{AllowPrivateNetworks: true, Renderer: func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	}})
	data, err = failing.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, data.Rendered)
	assert.Equal(t, "App", data.Title)
}

func TestLooksLikeArticle(t *testing.T) {
	assert.True(t, looksLikeArticle("/blog/post/"))
	assert.True(t, looksLikeArticle("/posts/2024/hello/"))
	assert.False(t, looksLikeArticle("/blog/"))
	assert.False(t, looksLikeArticle("/about/"))
	assert.Equal(t, "ab...", truncateRunes("abc", 2))
	assert.Equal(t, "héllo", truncateRunes("héllo", 5))
}

func TestFetcher_RefusesPrivateAddresses(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<html><head><title>admin</title></head><body>secret</body></html>`))
	}))
	defer server.Close()

	var rendered int
	f := NewFetcher(nil, Options{Renderer: func(context.Context, string) (string, error) {
		rendered++
		return blogHTML, nil
	}})

	for _, u := range []string{server.URL + "/", "http://localhost:1/", "http://169.254.169.254/latest/meta-data/", "http://[::1]/"} {
		data, err := f.Enrich(context.Background(), &types.Resume{Basics: &types.Basics{URL: u}}, nil)
		require.Error(t, err, u)
		assert.Nil(t, data)
		if u != "http://localhost:1/" {
			assert.ErrorIs(t, err, ErrBlockedAddress, u)
		}
	}
	assert.Zero(t, hits.Load())
	assert.Zero(t, rendered)

	_, err := f.Fetch(context.Background(), "file:///etc/passwd")
	assert.ErrorContains(t, err, "unsupported scheme")
}

func TestPublicClient_RefusesAtDial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := fetchHTML(context.Background(), newPublicClient(DefaultTimeout), server.URL, DefaultUserAgent)
	assert.ErrorIs(t, err, ErrBlockedAddress)
}

func TestBlockedIP(t *testing.T) {
	for _, addr := range []string{"127.0.0.1", "10.1.2.3", "172.16.0.1", "192.168.1.1", "169.254.169.254", "0.0.0.0", "::1", "fe80::1", "fc00::1", "100.64.0.1"} {
		assert.True(t, blockedIP(net.ParseIP(addr)), addr)
	}
	for _, addr := range []string{"8.8.8.8", "93.184.216.34", "2606:4700::1111"} {
		assert.False(t, blockedIP(net.ParseIP(addr)), addr)
	}
}
