package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johns/vibe-reflect/internal/check"
	"github.com/johns/vibe-reflect/internal/config"
	"github.com/johns/vibe-reflect/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration, observation sources and repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := shortContext(cmd.Context())
		defer cancel()

		src := openSources()
		defer src.Close()

		r := check.Run(ctx, cfg, src.checkSources())
		fmt.Fprint(cmd.OutOrStdout(), r.Format())
		if r.HasFailures() {
			return errSilent
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init [repo...]",
	Short: "Write a starter config listing repositories",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault(reposOr(args))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", config.CompressHome(path))
		return nil
	},
}

var reportsProject string

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List saved reflection reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.ReportsDir()
		out := cmd.OutOrStdout()

		if !cmd.Flags().Changed("project") {
			daily, err := report.ListDaily(dir)
			if err != nil {
				return err
			}
			for _, n := range daily {
				fmt.Fprintf(out, "daily     %s\n", n)
			}
		}
		projects, err := report.ListProject(dir, reportsProject)
		if err != nil {
			return err
		}
		for _, n := range projects {
			fmt.Fprintf(out, "project   %s\n", n)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vr v%s (vibe-reflect)\n", Version)
	},
}

func init() {
	reportsCmd.Flags().StringVar(&reportsProject, "project", "", "only reports for this project")
	RootCmd.AddCommand(checkCmd, initCmd, reportsCmd, versionCmd)
}
