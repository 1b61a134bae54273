package cli

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// The config maps made-up suffixes to shell one-liners so the whole CLI can
// run without real archive tools. sh receives the archive path as $1.
const testConfig = `
state_file = ""

[[rules]]
suffixes = [".wrapped"]
command = ["sh", "-c", "mkdir -p wrap && echo hi > wrap/a && echo there > wrap/b", "sh"]

[[rules]]
suffixes = [".flat"]
command = ["sh", "-c", "echo hi > a && echo there > b", "sh"]

[[rules]]
suffixes = [".fail"]
command = ["sh", "-c", "exit 3", "sh"]

[[rules]]
suffixes = [".killed"]
command = ["sh", "-c", "kill -9 $$", "sh"]
`

func setup(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XTRACT_CONFIG", cfg)
	t.Chdir(dir)
	return dir
}

func TestRun(t *testing.T) {
	testCases := []struct {
		test       string
		args       []string
		prepare    map[string]string
		wantCode   int
		wantStderr string
		wantDirs   []string
	}{
		{test: "no-args", wantCode: 0},
		{test: "wrapped", args: []string{"one.wrapped"}, wantCode: 0, wantDirs: []string{"one"}},
		{test: "sequence", args: []string{"one.wrapped", "two.flat"}, wantCode: 0, wantDirs: []string{"one", "two"}},
		{test: "tool-exit", args: []string{"bad.fail"}, wantCode: 3, wantDirs: []string{"bad"}},
		{test: "tool-signal", args: []string{"bad.killed"}, wantCode: 137, wantDirs: []string{"bad"}},
		{
			test:       "unrecognized-stops",
			args:       []string{"one.wrapped", "notes.txt", "two.flat"},
			wantCode:   21,
			wantStderr: "no idea to extract file: notes.txt",
			wantDirs:   []string{"one"},
		},
		{
			test:       "not-empty",
			args:       []string{"one.flat"},
			prepare:    map[string]string{"one/keep": "x"},
			wantCode:   22,
			wantStderr: "target directory exists and is not empty: one",
			wantDirs:   []string{"one"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.test, func(t *testing.T) {
			dir := setup(t)
			for name, body := range tc.prepare {
				path := filepath.Join(dir, name)
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, []byte(body), 0644); err != nil {
					t.Fatal(err)
				}
			}

			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)
			if code != tc.wantCode {
				t.Errorf("run(%v) = %d, want %d (stderr %q)", tc.args, code, tc.wantCode, stderr.String())
			}
			if tc.wantStderr != "" && !strings.Contains(stderr.String(), tc.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tc.wantStderr)
			}
			if tc.wantStderr == "" && stderr.Len() != 0 {
				t.Errorf("stderr = %q, want empty", stderr.String())
			}

			var dirs []string
			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				dirs = append(dirs, e.Name())
			}
			if diff := cmp.Diff(tc.wantDirs, dirs); diff != "" {
				t.Errorf("directories mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunFlattens(t *testing.T) {
	dir := setup(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"one.wrapped"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr %q", code, stderr.String())
	}

	entries, err := os.ReadDir(filepath.Join(dir, "one"))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Errorf("one/ mismatch (-want +got):\n%s", diff)
	}
}

func TestRunJournal(t *testing.T) {
	setup(t)
	dbPath := filepath.Join(t.TempDir(), "state", "xtract.db")
	cfg := filepath.Join(t.TempDir(), "config.toml")
	body := strings.Replace(testConfig, `state_file = ""`, "state_file = "+`"`+filepath.ToSlash(dbPath)+`"`, 1)
	if err := os.WriteFile(cfg, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XTRACT_CONFIG", cfg)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"one.wrapped"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr %q", code, stderr.String())
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("journal not created: %v", err)
	}
}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(version) = %d", code)
	}
	if !strings.Contains(stdout.String(), "xtract") {
		t.Errorf("stdout = %q, want program name", stdout.String())
	}
}
