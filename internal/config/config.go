package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/teamcutter/xtract/internal/domain"
	"github.com/teamcutter/xtract/internal/extractor"
	"github.com/teamcutter/xtract/internal/resolver"
)

const EnvConfig = "XTRACT_CONFIG"

type Config struct {
	// StateFile is the journal database; empty disables journaling.
	StateFile         string   `toml:"state_file"`
	SniffCommand      []string `toml:"sniff_command"`
	SniffMarker       string   `toml:"sniff_marker"`
	ProbeLimit        int      `toml:"probe_limit"`
	ContainerDenylist []string `toml:"container_denylist"`
	Rules             []Rule   `toml:"rules"`
}

// Rule is an extra format row, consulted before the built-in table.
type Rule struct {
	Suffixes  []string `toml:"suffixes"`
	Command   []string `toml:"command"`
	Container bool     `toml:"container"`
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".xtract")
}

func DefaultConfig() *Config {
	sniff := resolver.DefaultSniff()
	cfg := &Config{
		SniffCommand:      sniff.Command,
		SniffMarker:       sniff.Marker,
		ProbeLimit:        extractor.DefaultProbeLimit,
		ContainerDenylist: append([]string{}, extractor.DefaultDenylist...),
	}
	if base := baseDir(); base != "" {
		cfg.StateFile = filepath.Join(base, "state.db")
	}
	return cfg
}

func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	base := baseDir()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "config.toml")
}

func Load() (*Config, error) {
	path := Path()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile overlays the file at path on the defaults. A missing file is
// not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	for i, r := range c.Rules {
		if len(r.Suffixes) == 0 {
			return fmt.Errorf("rules[%d]: no suffixes", i)
		}
		if len(r.Command) == 0 || r.Command[0] == "" {
			return fmt.Errorf("rules[%d]: no command", i)
		}
	}
	if c.ProbeLimit < 0 {
		return fmt.Errorf("probe_limit must not be negative")
	}
	return nil
}

func (c *Config) Sniff() resolver.Sniff {
	return resolver.Sniff{Command: c.SniffCommand, Marker: c.SniffMarker}
}

func (c *Config) FormatRules() []domain.FormatRule {
	rules := make([]domain.FormatRule, 0, len(c.Rules))
	for _, r := range c.Rules {
		rules = append(rules, domain.FormatRule{
			Suffixes:  r.Suffixes,
			Command:   r.Command,
			Container: r.Container,
		})
	}
	return rules
}
