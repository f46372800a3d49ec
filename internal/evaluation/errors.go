package evaluation

import "fmt"

// EvaluationError is returned when the model's rubric output is missing,
// malformed or out of bounds.
type EvaluationError struct {
	Message string
	// Reply is the raw model output, when there was one
	Reply string
	Cause error
}

func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("evaluation failed: %s", e.Message)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}
