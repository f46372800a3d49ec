package extraction

import "fmt"

// APICallError represents a failed model call for a section
type APICallError struct {
	Section string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed for %s: %s: %v", e.Section, e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed for %s: %s", e.Section, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// SchemaMismatchError is returned when a section reply still fails schema
// validation after the corrective retry
type SchemaMismatchError struct {
	Section  string
	Problems string
	Cause    error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("section %s: model output does not match schema after retry: %v", e.Section, e.Cause)
}

func (e *SchemaMismatchError) Unwrap() error {
	return e.Cause
}
