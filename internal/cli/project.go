package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johns/vibe-reflect/internal/pitfall"
	"github.com/johns/vibe-reflect/internal/timeline"
)

var sinceFlag string

var projectCmd = &cobra.Command{
	Use:   "project [repo...]",
	Short: "Summarize the history of one or more repositories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := shortContext(cmd.Context())
		defer cancel()

		src := openSources()
		defer src.Close()
		agg, _ := src.aggregator(ctx)

		data, err := agg.AggregateProject(ctx, reposOr(args), sinceFlag)
		if err != nil {
			return err
		}
		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), data)
		}
		writeProject(cmd.OutOrStdout(), data)
		return nil
	},
}

var pitfallsCmd = &cobra.Command{
	Use:   "pitfalls [repo...]",
	Short: "Detect reverts, fix chains, churn and large refactors",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := shortContext(cmd.Context())
		defer cancel()

		src := openSources()
		defer src.Close()
		agg, _ := src.aggregator(ctx)

		data, err := agg.AggregateProject(ctx, reposOr(args), sinceFlag)
		if err != nil {
			return err
		}
		signals := detectPitfalls(data)
		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), signals)
		}
		writeSignals(cmd.OutOrStdout(), signals)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{projectCmd, pitfallsCmd} {
		c.Flags().StringVar(&sinceFlag, "since", "", "only commits on or after YYYY-MM-DD")
		c.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
		RootCmd.AddCommand(c)
	}
}

// detectPitfalls runs detection, merges duplicates and orders by severity.
func detectPitfalls(data *timeline.ProjectData) []pitfall.Signal {
	signals := pitfall.Merge(pitfall.Detect(data.Commits, data.Observations))
	pitfall.SortBySeverity(signals)
	return signals
}

func writeProject(w io.Writer, d *timeline.ProjectData) {
	fmt.Fprintf(w, "%s\n", d.Name)
	if d.FirstDay != "" {
		fmt.Fprintf(w, "  span:          %s .. %s\n", d.FirstDay, d.LastDay)
	}
	commits := fmt.Sprintf("%d", d.TotalCommits)
	if d.Sampled {
		commits += fmt.Sprintf(" (sampled %d)", len(d.Commits))
	}
	fmt.Fprintf(w, "  commits:       %s\n", commits)
	fmt.Fprintf(w, "  observations:  %d\n", len(d.Observations))
	if len(d.Contributors) > 0 {
		fmt.Fprintf(w, "  contributors:  %s\n", strings.Join(d.Contributors, ", "))
	}
	if len(d.CoreFiles) > 0 {
		fmt.Fprintln(w, "\ncore files:")
		for _, f := range d.CoreFiles {
			fmt.Fprintf(w, "  %4d  %s\n", f.Count, f.Path)
		}
	}
}

func writeSignals(w io.Writer, signals []pitfall.Signal) {
	if len(signals) == 0 {
		fmt.Fprintln(w, "no pitfalls detected")
		return
	}
	for _, s := range signals {
		where := s.Date
		if s.File != "" {
			where += " " + s.File
		}
		fmt.Fprintf(w, "%-6s  %-20s  %s  %s\n", s.Severity, s.Type, where, s.Description)
		if len(s.Commits) > 0 {
			fmt.Fprintf(w, "        commits: %s\n", strings.Join(s.Commits, " "))
		}
	}
}
