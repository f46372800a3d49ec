package website

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	maxHeadings    = 10
	maxExcerptRune = 1500
	// pages with less visible text are likely rendered client-side
	minContentLength = 200
)

var noiseSelector = "nav, footer, script, style, noscript, iframe, svg, .sidebar, .cookie-banner, .popup, .ad, .ads"

var contentSelectors = []string{"main", "article", ".content", "#content", ".post", ".posts", "body"}

// articlePathHints mark links that usually point at blog posts.
var articlePathHints = []string{"/blog/", "/posts/", "/post/", "/articles/", "/writing/", "/notes/", "/p/", "/@"}

// Summarize extracts title, description, headings, an excerpt and a count
// of article links from a page.
func Summarize(pageURL, html string) (*types.WebsiteData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	data := &types.WebsiteData{
		URL:   pageURL,
		Title: cleanText(doc.Find("title").First().Text()),
	}
	data.Description, _ = doc.Find(`meta[name="description"]`).Attr("content")
	if data.Description == "" {
		data.Description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	}
	data.Description = cleanText(data.Description)

	data.ArticleCount = countArticles(doc, pageURL)

	doc.Find(noiseSelector).Remove()

	seen := map[string]bool{}
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		if text != "" && !seen[text] {
			seen[text] = true
			data.Headings = append(data.Headings, text)
		}
		return len(data.Headings) < maxHeadings
	})

	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			data.Excerpt = truncateRunes(cleanText(sel.First().Text()), maxExcerptRune)
			break
		}
	}
	return data, nil
}

// sparse reports whether a summary has too little text to be useful.
func sparse(data *types.WebsiteData) bool {
	return len(data.Excerpt) < minContentLength && data.ArticleCount == 0
}

// countArticles counts distinct same-site links that look like posts.
func countArticles(doc *goquery.Document, pageURL string) int {
	base, _ := url.Parse(pageURL)
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if base != nil {
			link = base.ResolveReference(link)
			if !sameSite(base, link) {
				return
			}
		}
		path := strings.TrimRight(link.Path, "/")
		if path == "" || !looksLikeArticle(path+"/") {
			return
		}
		seen[path] = true
	})
	return len(seen)
}

func looksLikeArticle(path string) bool {
	for _, hint := range articlePathHints {
		idx := strings.Index(path, hint)
		// a listing page such as /blog/ itself is not a post
		if idx >= 0 && len(path) > idx+len(hint) {
			return true
		}
	}
	return false
}

func sameSite(base, link *url.URL) bool {
	strip := func(h string) string { return strings.TrimPrefix(strings.ToLower(h), "www.") }
	host, linkHost := strip(base.Hostname()), strip(link.Hostname())
	return host == linkHost || strings.HasSuffix(linkHost, "."+host)
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
