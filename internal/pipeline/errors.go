package pipeline

import "fmt"

// ExtractionError is the only failure that crosses the pipeline boundary:
// a run that cannot extract text has nothing to build a course from.
// Every other condition degrades inside its step.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
