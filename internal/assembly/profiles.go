package assembly

import (
	"net/url"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// networkHosts maps a host suffix to the display name used for profiles.
var networkHosts = []struct {
	host    string
	network string
}{
	{"github.com", "GitHub"},
	{"linkedin.com", "LinkedIn"},
	{"leetcode.com", "LeetCode"},
	{"stackoverflow.com", "Stack Overflow"},
	{"hackerrank.com", "HackerRank"},
	{"medium.com", "Medium"},
	{"gitlab.com", "GitLab"},
	{"twitter.com", "Twitter"},
	{"x.com", "Twitter"},
}

// InferNetwork returns the profile network for a URL, or "" when the host
// is not a known network.
func InferNetwork(rawURL string) string {
	host, _ := hostAndPath(rawURL)
	for _, n := range networkHosts {
		if host == n.host || strings.HasSuffix(host, "."+n.host) {
			return n.network
		}
	}
	return ""
}

// UsernameFromURL derives the account name from a profile URL.
func UsernameFromURL(rawURL string) string {
	host, path := hostAndPath(rawURL)
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })

	switch {
	case host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com"):
		// /in/<user>
		if len(parts) > 1 {
			return parts[1]
		}
		return ""
	case host == "stackoverflow.com":
		// /users/<id>/<name>
		if len(parts) > 2 {
			return parts[2]
		}
		return ""
	case strings.HasSuffix(host, ".medium.com"):
		return strings.TrimSuffix(host, ".medium.com")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimPrefix(parts[0], "@")
}

// CanonicalURL reduces a URL to a comparison key: no scheme, no www., no
// query or fragment, no trailing slash, lower-case host. Paths on known
// networks are lower-cased too, since their account names ignore case.
func CanonicalURL(rawURL string) string {
	host, path := hostAndPath(rawURL)
	if host == "" {
		return strings.ToLower(strings.TrimSpace(rawURL))
	}
	path = strings.TrimRight(path, "/")
	if InferNetwork(rawURL) != "" {
		path = strings.ToLower(path)
	}
	return host + path
}

// normalizeURL adds a scheme to bare links such as "github.com/jane".
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || strings.Contains(rawURL, "://") || strings.HasPrefix(rawURL, "mailto:") {
		return rawURL
	}
	if strings.Contains(rawURL, ".") && !strings.Contains(rawURL, " ") && !strings.Contains(rawURL, "@") {
		return "https://" + rawURL
	}
	return rawURL
}

func hostAndPath(rawURL string) (string, string) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host, u.Path
}

// mergeProfiles fills missing networks and usernames and drops duplicates.
// The first occurrence of a profile wins; later copies only fill its gaps.
func mergeProfiles(in []types.Profile) []types.Profile {
	out := make([]types.Profile, 0, len(in))
	index := map[string]int{}

	for _, p := range in {
		p.Network = strings.TrimSpace(p.Network)
		p.Username = strings.TrimSpace(p.Username)
		p.URL = normalizeURL(p.URL)

		if p.URL != "" {
			if p.Network == "" {
				p.Network = InferNetwork(p.URL)
			}
			if p.Username == "" && InferNetwork(p.URL) != "" {
				p.Username = UsernameFromURL(p.URL)
			}
		}
		if p.URL == "" && p.Username == "" {
			continue
		}

		key := CanonicalURL(p.URL)
		if p.URL == "" {
			key = strings.ToLower(p.Network + "/" + p.Username)
		}
		if i, ok := index[key]; ok {
			if out[i].Network == "" {
				out[i].Network = p.Network
			}
			if out[i].Username == "" {
				out[i].Username = p.Username
			}
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}
	return out
}
