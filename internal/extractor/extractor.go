package extractor

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/teamcutter/xtract/internal/domain"
	"github.com/teamcutter/xtract/internal/resolver"
	"github.com/teamcutter/xtract/internal/state"
)

const DefaultProbeLimit = 100

var DefaultDenylist = []string{"debian-binary", "_gpgorigin", "_gpgbuilder", "_gpgmaint"}

type Options struct {
	// Denylist names container members that are metadata, not archives.
	Denylist []string
	// ProbeLimit bounds the numeric-suffix search for a free holding name.
	ProbeLimit int
	Stdout     io.Writer
	Stderr     io.Writer
}

type Extractor struct {
	resolver   *resolver.Resolver
	runner     domain.Runner
	journal    domain.Journal
	denylist   map[string]bool
	probeLimit int
	stdout     io.Writer
	stderr     io.Writer
}

func New(res *resolver.Resolver, runner domain.Runner, journal domain.Journal, opts Options) *Extractor {
	if journal == nil {
		journal = state.Nop{}
	}
	if opts.Denylist == nil {
		opts.Denylist = DefaultDenylist
	}
	if opts.ProbeLimit <= 0 {
		opts.ProbeLimit = DefaultProbeLimit
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	denylist := make(map[string]bool, len(opts.Denylist))
	for _, name := range opts.Denylist {
		denylist[name] = true
	}

	return &Extractor{
		resolver:   res,
		runner:     runner,
		journal:    journal,
		denylist:   denylist,
		probeLimit: opts.ProbeLimit,
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
	}
}

func (e *Extractor) Resolve(ctx context.Context, archive string) (domain.Command, error) {
	return e.resolver.Resolve(ctx, archive)
}

// Target returns the directory archive is extracted into when baseDir is
// the base directory.
func Target(baseDir, archive string) string {
	return filepath.Join(baseDir, DeriveTarget(archive))
}

// Extract resolves and runs the whole pipeline for one archive. Paths are
// interpreted relative to the process working directory, which is never
// changed.
func (e *Extractor) Extract(ctx context.Context, baseDir, archive string) (string, error) {
	cmd, err := e.Resolve(ctx, archive)
	if err != nil {
		return "", err
	}
	return e.Run(ctx, baseDir, archive, cmd)
}

// Run stages the target, invokes cmd and normalizes the output.
func (e *Extractor) Run(ctx context.Context, baseDir, archive string, cmd domain.Command) (string, error) {
	target := Target(baseDir, archive)

	if err := Stage(target); err != nil {
		return target, err
	}

	if err := e.invoke(ctx, cmd, archive, target); err != nil {
		return target, err
	}

	if cmd.Container {
		return target, e.extractContainer(ctx, target)
	}
	return target, e.Flatten(target)
}
