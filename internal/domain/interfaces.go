package domain

import (
	"context"
	"io"
)

type RunOptions struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

type Runner interface {
	// Run blocks until the process exits. A non-zero exit is reported as *ExitError.
	Run(ctx context.Context, opts RunOptions, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type Journal interface {
	Begin(archive, target, tool string) (int64, error)
	Finish(id int64, status string, exitCode int) error
	BeginPromotion(target, holding string) error
	EndPromotion(target string) error
	Close() error
}
