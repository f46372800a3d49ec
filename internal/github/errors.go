package github

import (
	"errors"
	"fmt"
)

// ErrNoUsername is the cause of the warning raised when a resume has no GitHub link.
var ErrNoUsername = errors.New("no GitHub username found in resume")

// ErrUserNotFound is returned when the GitHub account does not exist.
var ErrUserNotFound = errors.New("GitHub user not found")

// ErrRateLimited is returned when the GitHub API refuses further requests.
var ErrRateLimited = errors.New("GitHub API rate limit exceeded")

// EnrichmentWarning reports that enrichment was skipped. It never aborts
// the pipeline; the resume is evaluated without GitHub data.
type EnrichmentWarning struct {
	Username string
	Message  string
	Cause    error
}

func (e *EnrichmentWarning) Error() string {
	prefix := "github enrichment skipped"
	if e.Username != "" {
		prefix = fmt.Sprintf("github enrichment skipped for %s", e.Username)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *EnrichmentWarning) Unwrap() error {
	return e.Cause
}

// IsWarning reports whether err is a non-fatal enrichment warning.
func IsWarning(err error) bool {
	var w *EnrichmentWarning
	return errors.As(err, &w)
}
