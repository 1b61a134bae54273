package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/teamcutter/xtract/internal/domain"
)

func (e *Extractor) invoke(ctx context.Context, cmd domain.Command, archive, target string) error {
	// The tool runs inside target, so a relative archive path would dangle.
	src, err := filepath.Abs(archive)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", archive, err)
	}

	args := append(append([]string{}, cmd.Args...), src)
	opts := domain.RunOptions{
		Dir:    target,
		Stdout: e.stdout,
		Stderr: e.stderr,
	}

	err = e.runner.Run(ctx, opts, cmd.Name, args...)
	if err == nil {
		return nil
	}

	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return fmt.Errorf("failed to execute extractor: %w", err)
}
