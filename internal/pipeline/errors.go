package pipeline

import "fmt"

// Stage names
const (
	StageLoad     = "load"
	StageConvert  = "convert"
	StageExtract  = "extract"
	StageAssemble = "assemble"
	StageGitHub   = "github"
	StageWebsite  = "website"
	StageEvaluate = "evaluate"
	StageReport   = "report"
)

// StageError wraps the failure of one pipeline stage
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
