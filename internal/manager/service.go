package manager

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/teamcutter/xtract/internal/domain"
	"github.com/teamcutter/xtract/internal/extractor"
)

type Manager struct {
	extractor *extractor.Extractor
	journal   domain.Journal
	stderr    io.Writer
}

func New(ex *extractor.Extractor, journal domain.Journal, stderr io.Writer) *Manager {
	return &Manager{
		extractor: ex,
		journal:   journal,
		stderr:    stderr,
	}
}

// Extract processes archives one after another into baseDir and stops at
// the first failure; later archives are not attempted.
func (m *Manager) Extract(ctx context.Context, baseDir string, archives []string) ([]string, error) {
	targets := make([]string, 0, len(archives))
	for _, archive := range archives {
		target, err := m.extractOne(ctx, baseDir, archive)
		if err != nil {
			return targets, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (m *Manager) extractOne(ctx context.Context, baseDir, archive string) (string, error) {
	cmd, err := m.extractor.Resolve(ctx, archive)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(extractor.Target(baseDir, archive))
	if err != nil {
		return "", err
	}

	id, err := m.journal.Begin(archive, abs, cmd.String())
	if err != nil {
		return "", fmt.Errorf("journal: %w", err)
	}

	target, err := m.extractor.Run(ctx, baseDir, archive, cmd)
	if err != nil {
		// The extraction error decides the exit status.
		if jerr := m.journal.Finish(id, domain.StatusFailed, domain.ExitCode(err)); jerr != nil {
			fmt.Fprintf(m.stderr, "warning: journal: %v\n", jerr)
		}
		return target, err
	}

	if err := m.journal.Finish(id, domain.StatusDone, 0); err != nil {
		return target, fmt.Errorf("journal: %w", err)
	}
	return target, nil
}
