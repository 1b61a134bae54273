package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var rename = os.Rename

// Flatten promotes the contents of a lone wrapping directory into target.
//
// The wrapper is first moved next to target under a holding name, target
// (now empty) is removed, and the holding directory is renamed to target.
// Between the remove and the final rename target does not exist; the
// journal records the pair so that the next start can finish the job.
func (e *Extractor) Flatten(target string) error {
	// Journaled paths are replayed from whatever directory the next run starts in.
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", target, err)
	}
	target = abs

	entries, err := os.ReadDir(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}

	wrapper := filepath.Join(target, entries[0].Name())
	holding := e.holdingPath(target, entries[0].Name())

	if err := e.journal.BeginPromotion(target, holding); err != nil {
		return fmt.Errorf("journal: %w", err)
	}

	if err := rename(wrapper, holding); err != nil {
		// Nothing of ours is at holding; a pending row would claim it.
		err = fmt.Errorf("flatten: failed to move %s out: %w", wrapper, err)
		if jerr := e.journal.EndPromotion(target); jerr != nil {
			return errors.Join(err, fmt.Errorf("journal: %w", jerr))
		}
		return err
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("flatten: failed to remove %s: %w", target, err)
	}
	if err := rename(holding, target); err != nil {
		return fmt.Errorf("flatten: failed to rename %s to %s: %w", holding, target, err)
	}

	if err := e.journal.EndPromotion(target); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return nil
}

// holdingPath picks a free sibling of target to park the wrapper in.
// It prefers the wrapper's own name; when that is target itself a
// pid-tagged temporary name is used.
func (e *Extractor) holdingPath(target, wrapperName string) string {
	candidate := filepath.Join(filepath.Dir(target), wrapperName)
	if wrapperName == filepath.Base(target) {
		return tempName(candidate)
	}
	return e.probe(candidate)
}

// probe tries candidate, then candidate1 .. candidateN. When every name is
// taken it falls back to a pid-tagged temporary name.
func (e *Extractor) probe(candidate string) string {
	if !exists(candidate) {
		return candidate
	}
	for i := 1; i <= e.probeLimit; i++ {
		c := candidate + strconv.Itoa(i)
		if !exists(c) {
			return c
		}
	}
	return tempName(candidate)
}

// tempName returns the first free name of the form name.tmp.<pid>[.N].
func tempName(name string) string {
	c := fmt.Sprintf("%s.tmp.%d", name, os.Getpid())
	for i := 1; exists(c); i++ {
		c = fmt.Sprintf("%s.tmp.%d.%d", name, os.Getpid(), i)
	}
	return c
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !os.IsNotExist(err)
}
