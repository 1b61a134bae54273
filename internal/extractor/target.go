package extractor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DeriveTarget names the output directory for archive: the base name minus
// its last suffix, then minus ".tar", then minus ".pkg" if ".tar" was there.
// It panics when path has no file name at all.
func DeriveTarget(path string) string {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		panic(fmt.Sprintf("can't derive a directory name from %q", path))
	}

	stem := trimExt(name)
	if s, ok := cutSuffix(stem, ".tar"); ok {
		stem = s
		if s, ok := cutSuffix(stem, ".pkg"); ok {
			stem = s
		}
	}
	return stem
}

// A leading dot starts a name, not a suffix.
func trimExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name
	}
	return name[:i]
}

func cutSuffix(s, suffix string) (string, bool) {
	if len(s) <= len(suffix) || !strings.HasSuffix(s, suffix) {
		return s, false
	}
	return s[:len(s)-len(suffix)], true
}
