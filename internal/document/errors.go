package document

import (
	"errors"
	"fmt"
)

// Causes carried by ExtractionError
var (
	ErrEncrypted  = errors.New("document is encrypted")
	ErrNoText     = errors.New("document contains no extractable text")
	ErrUnreadable = errors.New("document is not a readable PDF")
)

// ExtractionError is returned when a PDF cannot be turned into text
type ExtractionError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	prefix := "extraction failed"
	if e.Source != "" {
		prefix += " for " + e.Source
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
