package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/teamcutter/xtract/internal/config"
	"github.com/teamcutter/xtract/internal/domain"
	"github.com/teamcutter/xtract/internal/executor"
	"github.com/teamcutter/xtract/internal/extractor"
	"github.com/teamcutter/xtract/internal/manager"
	"github.com/teamcutter/xtract/internal/resolver"
	"github.com/teamcutter/xtract/internal/state"
)

// Execute runs xtract on os.Args and returns the process exit status.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil {
		report(stderr, err)
	}
	return domain.ExitCode(err)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xtract [archive]...",
		Short: "Extract archives into directories named after them",
		Long: "xtract picks an extraction tool for every archive, runs it inside a fresh\n" +
			"directory named after the archive, and removes a redundant top-level\n" +
			"directory if the tool produced one. Archives are processed in order and\n" +
			"the first failure stops the run.",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}

			mgr, journal, err := newManager(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer journal.Close()

			_, err = mgr.Extract(cmd.Context(), ".", args)
			return err
		},
	}
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newManager(stdout, stderr io.Writer) (*manager.Manager, domain.Journal, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	var journal domain.Journal = state.Nop{}
	if cfg.StateFile != "" {
		j, err := state.NewSQLite(cfg.StateFile, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "%s journal disabled: %v\n", yellow("!"), err)
		} else {
			journal = j
		}
	}

	runner := executor.New()
	ex := extractor.New(
		resolver.New(runner, cfg.Sniff(), cfg.FormatRules()),
		runner,
		journal,
		extractor.Options{
			Denylist:   cfg.ContainerDenylist,
			ProbeLimit: cfg.ProbeLimit,
			Stdout:     stdout,
			Stderr:     stderr,
		})

	return manager.New(ex, journal, stderr), journal, nil
}
