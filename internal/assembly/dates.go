package assembly

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

var (
	isoDateRe      = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})(?:[-/.]\d{1,2})?(?:T.*)?$`)
	monthYearNumRe = regexp.MustCompile(`^(\d{1,2})[/.-](\d{4})$`)
	monthNameRe    = regexp.MustCompile(`^([A-Za-z]+)\.?,?\s*'?(\d{2}|\d{4})$`)
	yearRe         = regexp.MustCompile(`^(\d{4})$`)
	yearAnywhereRe = regexp.MustCompile(`\d{4}`)

	// "Mar-May 2020", "Feb-onwards 2021"
	monthSpanRe = regexp.MustCompile(`^([A-Za-z]+)\s*-\s*([A-Za-z]+)\s+(\d{4})$`)
	// "2007-2019"
	yearSpanRe = regexp.MustCompile(`^(\d{4})\s*-\s*(\d{4})$`)
)

var rangeSeparators = []string{" – ", " — ", " - ", " to ", " until ", "–", "—"}

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var seasons = map[string]int{
	"spring": 3, "summer": 6, "fall": 9, "autumn": 9, "winter": 12,
}

var presentWords = map[string]bool{
	"present": true, "current": true, "currently": true, "now": true,
	"ongoing": true, "today": true, "till date": true, "to date": true,
}

// NormalizeDate rewrites a free-form date into YYYY-MM or "Present".
// A bare year maps to January, or December when end is set. Unrecognized
// input yields "".
func NormalizeDate(s string, end bool) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if presentWords[lower] || strings.Contains(lower, "onwards") {
		return types.DatePresent
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return yearMonth(m[1], m[2])
	}
	if m := monthYearNumRe.FindStringSubmatch(s); m != nil {
		return yearMonth(m[2], m[1])
	}
	if m := monthNameRe.FindStringSubmatch(s); m != nil {
		month := monthNumber(m[1])
		if month == 0 {
			return ""
		}
		year := m[2]
		if len(year) == 2 {
			year = "20" + year
		}
		return fmt.Sprintf("%s-%02d", year, month)
	}
	if m := yearRe.FindStringSubmatch(s); m != nil {
		if end {
			return m[1] + "-12"
		}
		return m[1] + "-01"
	}
	return ""
}

// NormalizeRange normalizes a start/end pair. A range written entirely in
// start ("Jan 2019 - Present", "Mar-May 2020") is split when end is empty.
func NormalizeRange(start, end string) (string, string) {
	if strings.TrimSpace(end) == "" {
		if from, to, ok := splitRange(start); ok {
			return NormalizeDate(from, false), NormalizeDate(to, true)
		}
	}
	return NormalizeDate(start, false), NormalizeDate(end, true)
}

func splitRange(s string) (string, string, bool) {
	s = strings.TrimSpace(s)
	if m := monthSpanRe.FindStringSubmatch(s); m != nil {
		if strings.EqualFold(m[2], "onwards") {
			return m[1] + " " + m[3], types.DatePresent, true
		}
		return m[1] + " " + m[3], m[2] + " " + m[3], true
	}
	if m := yearSpanRe.FindStringSubmatch(s); m != nil {
		return m[1], m[2], true
	}
	for _, sep := range rangeSeparators {
		from, to, found := strings.Cut(s, sep)
		if !found {
			continue
		}
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		// "Mar – May 2020": the year only appears once
		if !yearAnywhereRe.MatchString(from) {
			if year := yearAnywhereRe.FindString(to); year != "" {
				from = from + " " + year
			}
		}
		return from, to, true
	}
	return "", "", false
}

func yearMonth(year, month string) string {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ""
	}
	return fmt.Sprintf("%s-%02d", year, m)
}

func monthNumber(name string) int {
	lower := strings.ToLower(name)
	if n, ok := seasons[lower]; ok {
		return n
	}
	if len(lower) < 3 {
		return 0
	}
	return months[lower[:3]]
}
