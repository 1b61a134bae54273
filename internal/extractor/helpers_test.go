package extractor

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teamcutter/xtract/internal/domain"
	"github.com/teamcutter/xtract/internal/resolver"
)

// fakeTool plays an extraction tool: it gets the working directory and the
// archive path the real tool would see.
type fakeTool func(dir, archive string) error

type call struct {
	Dir  string
	Name string
	Args []string
}

type fakeRunner struct {
	tools map[string]fakeTool
	sniff string
	calls []call
}

func (f *fakeRunner) Run(ctx context.Context, opts domain.RunOptions, name string, args ...string) error {
	f.calls = append(f.calls, call{Dir: opts.Dir, Name: name, Args: args})
	tool, ok := f.tools[name]
	if !ok {
		return fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return tool(opts.Dir, args[len(args)-1])
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{Name: name, Args: args})
	return []byte(f.sniff), nil
}

type recordingJournal struct {
	promotions [][2]string
	ended      []string
}

func (j *recordingJournal) Begin(archive, target, tool string) (int64, error) { return 1, nil }
func (j *recordingJournal) Finish(id int64, status string, exitCode int) error { return nil }
func (j *recordingJournal) BeginPromotion(target, holding string) error {
	j.promotions = append(j.promotions, [2]string{target, holding})
	return nil
}
func (j *recordingJournal) EndPromotion(target string) error {
	j.ended = append(j.ended, target)
	return nil
}
func (j *recordingJournal) Close() error { return nil }

func newTestExtractor(runner *fakeRunner, journal domain.Journal, opts Options) *Extractor {
	opts.Stdout = io.Discard
	opts.Stderr = io.Discard
	return New(resolver.New(runner, resolver.DefaultSniff(), nil), runner, journal, opts)
}

// writes returns a fakeTool that lays out files relative to its working
// directory. Names ending in "/" become directories.
func writes(files map[string]string) fakeTool {
	return func(dir, archive string) error {
		return writeTree(dir, files)
	}
}

func writeTree(root string, files map[string]string) error {
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			return err
		}
	}
	return nil
}

func mustWriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	if err := writeTree(root, files); err != nil {
		t.Fatal(err)
	}
}

// readTree is the inverse of writeTree, directories included.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	got := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			got[rel+"/"] = ""
			return nil
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[rel] = string(body)
		return nil
	})
	if err != nil {
		t.Fatalf("reading %s: %v", root, err)
	}
	return got
}

func entryNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
