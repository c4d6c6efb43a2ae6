// Package cli implements the vr commands.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johns/vibe-reflect/internal/config"
	"github.com/johns/vibe-reflect/internal/logging"
	"github.com/johns/vibe-reflect/internal/report"
)

// Version is set by main before Execute.
var Version = "dev"

var (
	cfg    config.Config
	logger = zap.NewNop()

	repoFlags []string
	logLevel  string
	jsonOut   bool
)

// errSilent signals a failure whose details were already printed.
var errSilent = errors.New("")

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "vr",
	Short:         "Reflect on a day or a project from claude-mem observations and git history",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		if len(repoFlags) > 0 {
			cfg.Repos = repoFlags
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		l, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringSliceVarP(&repoFlags, "repo", "r", nil, "git repository to read (repeatable, overrides config repos)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	report.Version = Version
	err := RootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "vr: %v\n", err)
		}
		os.Exit(1)
	}
}

// reposOr returns args when given, otherwise the configured repos.
func reposOr(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Repos
}
