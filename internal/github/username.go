package github

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

var usernamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?github\.com/([^/?#]+)`),
	regexp.MustCompile(`github\.com/([^/?#]+)`),
	regexp.MustCompile(`^@([^/?#]+)$`),
	regexp.MustCompile(`^([a-zA-Z0-9-]+)$`),
}

var validUsername = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,38})$`)

// github.com paths that are not accounts
var reservedPaths = map[string]bool{
	"about": true, "features": true, "orgs": true, "settings": true, "sponsors": true,
	"topics": true, "marketplace": true, "explore": true, "login": true, "join": true,
}

// ExtractUsername pulls a GitHub username out of a profile URL, "@handle"
// or bare handle. It returns "" when nothing usable is found.
func ExtractUsername(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return ""
	}
	for _, re := range usernamePatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		name := m[1]
		if validUsername.MatchString(name) && !reservedPaths[strings.ToLower(name)] {
			return name
		}
		return ""
	}
	return ""
}

// FindUsername searches the resume for the candidate's GitHub handle:
// GitHub profiles first, then the personal URL, then the owner that appears
// most often in project URLs.
func FindUsername(r *types.Resume) string {
	if r == nil {
		return ""
	}
	if r.Basics != nil {
		for _, p := range r.Basics.Profiles {
			github := strings.EqualFold(p.Network, "github") || strings.Contains(strings.ToLower(p.URL), "github.com")
			if !github {
				continue
			}
			if name := ExtractUsername(p.URL); name != "" {
				return name
			}
			if name := ExtractUsername(p.Username); name != "" {
				return name
			}
		}
		if strings.Contains(strings.ToLower(r.Basics.URL), "github.com") {
			if name := ExtractUsername(r.Basics.URL); name != "" {
				return name
			}
		}
	}

	counts := map[string]int{}
	for _, p := range r.Projects {
		if !strings.Contains(strings.ToLower(p.URL), "github.com") {
			continue
		}
		if name := ExtractUsername(p.URL); name != "" {
			counts[name]++
		}
	}
	if len(counts) == 0 {
		return ""
	}
	owners := make([]string, 0, len(counts))
	for name := range counts {
		owners = append(owners, name)
	}
	sort.Slice(owners, func(i, j int) bool {
		if counts[owners[i]] != counts[owners[j]] {
			return counts[owners[i]] > counts[owners[j]]
		}
		return owners[i] < owners[j]
	})
	return owners[0]
}
