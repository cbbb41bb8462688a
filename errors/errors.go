package errors

import (
	"errors"
	"fmt"
)

var (
	Parse = PipelineError{"parse", errors.New("unparseable input row")}
)

// PipelineError classifies failures according to how the pipeline recovers
// from them. Parse errors are the only recoverable class: loaders skip and
// count the offending row instead of failing the batch.
type PipelineError struct {
	Kind string
	Err  error
}

func (p PipelineError) Unwrap() error {
	return p.Err
}

func (p PipelineError) Error() string {
	return p.Err.Error()
}

func ParseErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", Parse, fmt.Sprintf(format, args...))
}
