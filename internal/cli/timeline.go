package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johns/vibe-reflect/internal/timeline"
	"github.com/johns/vibe-reflect/internal/watch"
)

var watchFlag bool

var timelineCmd = &cobra.Command{
	Use:   "timeline [YYYY-MM-DD]",
	Short: "Show the merged observation and commit timeline for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := today()
		if len(args) == 1 {
			date = args[0]
		}
		if _, err := timeline.ParseDate(date, time.Local); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		src := openSources()
		defer src.Close()
		agg, _ := src.aggregator(ctx)

		show := func() error {
			tl, err := agg.Daily(ctx, date, cfg.Repos)
			if err != nil {
				return err
			}
			return writeTimeline(cmd.OutOrStdout(), tl, jsonOut)
		}
		if err := show(); err != nil {
			return err
		}
		if !watchFlag {
			return nil
		}

		paths := watchPaths(cfg.Memory.DBPath, cfg.Repos)
		if len(paths) == 0 {
			return fmt.Errorf("nothing to watch: no claude-mem database or repository reflog found")
		}
		return watch.Run(ctx, paths, watch.DefaultDebounce, func() {
			if err := show(); err != nil {
				logger.Warn("refresh failed", zap.Error(err))
			}
		}, logger)
	},
}

func init() {
	timelineCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	timelineCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "re-render when the claude-mem database or a repository changes")
	RootCmd.AddCommand(timelineCmd)
}

// watchPaths returns the files whose changes mean the timeline moved: the
// claude-mem database and each repository's HEAD reflog.
func watchPaths(dbPath string, repos []string) []string {
	var paths []string
	candidates := []string{dbPath}
	for _, r := range repos {
		candidates = append(candidates, filepath.Join(r, ".git", "logs", "HEAD"))
	}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(filepath.Dir(p)); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

func writeTimeline(w io.Writer, tl *timeline.Timeline, asJSON bool) error {
	if asJSON {
		return writeJSON(w, tl)
	}

	fmt.Fprintf(w, "%s  %d events (%d observations, %d commits)\n",
		tl.Date, tl.Stats.TotalEvents, tl.Stats.TotalObservations, tl.Stats.TotalCommits)
	if len(tl.Stats.ActiveProjects) > 0 {
		fmt.Fprintf(w, "projects: %s\n", strings.Join(tl.Stats.ActiveProjects, ", "))
	}
	if len(tl.Events) == 0 {
		fmt.Fprintln(w, "\n  no activity")
		return nil
	}
	fmt.Fprintln(w)
	for _, e := range tl.Events {
		clock := "--:--"
		if e.Timestamp > 0 {
			clock = time.UnixMilli(e.Timestamp).Format("15:04")
		}
		fmt.Fprintf(w, "  %s  %-4s  [%s] %s\n", clock, sourceTag(e.Source), e.Type, e.Title)
	}
	return nil
}

func sourceTag(s timeline.Source) string {
	if s == timeline.SourceGit {
		return "git"
	}
	return "mem"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// shortContext bounds non-interactive commands that do network I/O.
func shortContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 2*time.Minute)
}
