package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedFormat = errors.New("no idea to extract file")
	ErrTargetNotEmpty     = errors.New("target directory exists and is not empty")
)

const (
	ExitUnrecognizedFormat = 21
	ExitTargetNotEmpty     = 22
	ExitFatal              = 1
)

// ExitError carries the status an extraction tool terminated with.
// Signal terminations are already folded into 128+signal.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

// ExitCode maps an error returned by the pipeline to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, ErrUnrecognizedFormat):
		return ExitUnrecognizedFormat
	case errors.Is(err, ErrTargetNotEmpty):
		return ExitTargetNotEmpty
	default:
		return ExitFatal
	}
}
