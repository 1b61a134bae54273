package resolver

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/teamcutter/xtract/internal/domain"
)

// Sniff is the inspection command run on ambiguous .rar files. The file
// path is appended to Command; Marker in its stdout selects 7z over rar.
type Sniff struct {
	Command []string
	Marker  string
}

func DefaultSniff() Sniff {
	return Sniff{Command: []string{"file"}, Marker: "Win32"}
}

type Resolver struct {
	runner domain.Runner
	sniff  Sniff
	rules  []domain.FormatRule
}

// New builds a resolver whose table is extra followed by the built-in rules.
func New(runner domain.Runner, sniff Sniff, extra []domain.FormatRule) *Resolver {
	rules := make([]domain.FormatRule, 0, len(extra)+len(builtinRules))
	rules = append(rules, extra...)
	rules = append(rules, builtinRules...)

	return &Resolver{
		runner: runner,
		sniff:  sniff,
		rules:  rules,
	}
}

func (r *Resolver) Rules() []domain.FormatRule {
	return r.rules
}

func (r *Resolver) Resolve(ctx context.Context, path string) (domain.Command, error) {
	name := filepath.Base(path)

	for _, rule := range r.rules {
		if len(rule.Command) == 0 || !hasAnySuffix(name, rule.Suffixes) {
			continue
		}
		return toCommand(rule.Command, rule.Container), nil
	}

	if strings.HasSuffix(name, rarSuffix) {
		return r.resolveRar(ctx, path)
	}

	return domain.Command{}, fmt.Errorf("%w: %s", domain.ErrUnrecognizedFormat, path)
}

func (r *Resolver) resolveRar(ctx context.Context, path string) (domain.Command, error) {
	if len(r.sniff.Command) == 0 {
		return toCommand(rarAsRar, false), nil
	}

	args := append(append([]string{}, r.sniff.Command[1:]...), path)
	out, err := r.runner.Output(ctx, r.sniff.Command[0], args...)
	if err != nil {
		return domain.Command{}, fmt.Errorf("inspecting %s: %w", path, err)
	}

	if r.sniff.Marker != "" && bytes.Contains(out, []byte(r.sniff.Marker)) {
		return toCommand(rarAsSevenZip, false), nil
	}
	return toCommand(rarAsRar, false), nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func toCommand(argv []string, container bool) domain.Command {
	return domain.Command{
		Name:      argv[0],
		Args:      append([]string{}, argv[1:]...),
		Container: container,
	}
}
