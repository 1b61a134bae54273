package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// extractContainer expands every archive member of an unpacked container
// in place, with target as base directory, and drops the members
// themselves along with known metadata files.
func (e *Extractor) extractContainer(ctx context.Context, target string) error {
	entries, err := os.ReadDir(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}

	for _, entry := range entries {
		member := filepath.Join(target, entry.Name())

		if e.denylist[entry.Name()] {
			if err := os.RemoveAll(member); err != nil {
				return fmt.Errorf("container: failed to remove %s: %w", member, err)
			}
			continue
		}

		if _, err := e.Extract(ctx, target, member); err != nil {
			return err
		}

		if err := os.Remove(member); err != nil {
			return fmt.Errorf("container: failed to remove %s: %w", member, err)
		}
	}

	return e.Flatten(target)
}
