package extractor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/teamcutter/xtract/internal/domain"
)

// Stage creates target. An existing empty directory is accepted so that a
// failed run can be retried; everything else is domain.ErrTargetNotEmpty.
func Stage(target string) error {
	err := os.Mkdir(target, 0755)
	if err == nil {
		return nil
	}

	if errors.Is(err, fs.ErrExist) {
		if empty, err := isDirEmpty(target); err == nil && empty {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", domain.ErrTargetNotEmpty, target)
}

func isDirEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.ReadDir(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}
