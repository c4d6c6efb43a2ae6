package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johns/vibe-reflect/internal/archive"
	"github.com/johns/vibe-reflect/internal/dialog"
	"github.com/johns/vibe-reflect/internal/profile"
	"github.com/johns/vibe-reflect/internal/report"
	"github.com/johns/vibe-reflect/internal/timeline"
)

var (
	projectMode bool
	forceFlag   bool
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	followUpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))
)

// errInterrupted is returned when input ends before the dialog completes.
var errInterrupted = errors.New("reflection interrupted, nothing saved")

var reflectCmd = &cobra.Command{
	Use:   "reflect [YYYY-MM-DD | repo...]",
	Short: "Answer reflection questions about a day (or a project with --project)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("reflect needs an interactive terminal")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		src := openSources()
		defer src.Close()
		agg, _ := src.aggregator(ctx)

		var (
			plan *reflection
			err  error
		)
		if projectMode {
			var data *timeline.ProjectData
			data, err = agg.AggregateProject(ctx, reposOr(args), sinceFlag)
			if err == nil {
				plan = projectReflection(data, cfg.ReportsDir(), today())
			}
		} else {
			date := today()
			if len(args) > 1 {
				return fmt.Errorf("daily reflection takes at most one date")
			}
			if len(args) == 1 {
				date = args[0]
			}
			var tl *timeline.Timeline
			tl, err = agg.Daily(ctx, date, cfg.Repos)
			if err == nil {
				plan = dailyReflection(tl, cfg.ReportsDir())
			}
		}
		if err != nil {
			return err
		}

		if report.Exists(plan.path) && !forceFlag {
			return fmt.Errorf("report exists: %s (use --force to overwrite)", plan.path)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(plan.title))
		fmt.Fprintln(out)

		mgr := dialog.NewManager()
		sess, first := mgr.Start(plan.questions, plan.events)
		defer sess.Close()

		if err := runDialog(sess, first, os.Stdin, out); err != nil {
			return err
		}
		return plan.finish(sess, out)
	},
}

func init() {
	reflectCmd.Flags().BoolVarP(&projectMode, "project", "p", false, "reflect on repository history instead of a day")
	reflectCmd.Flags().StringVar(&sinceFlag, "since", "", "with --project, only commits on or after YYYY-MM-DD")
	reflectCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "overwrite an existing report")
	RootCmd.AddCommand(reflectCmd)
}

// reflection is everything needed to run one dialog and save its result.
type reflection struct {
	kind      string // daily or project
	scope     string // date or project name
	title     string
	path      string
	questions []dialog.Question
	events    []timeline.Event
	render    func(learnings []dialog.Learning) string
}

func dailyReflection(tl *timeline.Timeline, reportsDir string) *reflection {
	return &reflection{
		kind:      "daily",
		scope:     tl.Date,
		title:     "Daily reflection: " + tl.Date,
		path:      report.DailyPath(reportsDir, tl.Date),
		questions: dialog.GenerateDaily(tl.Events),
		events:    tl.Events,
		render: func(l []dialog.Learning) string {
			return report.Daily(tl, l)
		},
	}
}

func projectReflection(d *timeline.ProjectData, reportsDir, date string) *reflection {
	signals := detectPitfalls(d)
	return &reflection{
		kind:      "project",
		scope:     d.Name,
		title:     "Project reflection: " + d.Name,
		path:      report.ProjectPath(reportsDir, d.Name, date),
		questions: dialog.GenerateProject(d, signals),
		events:    timeline.Merge(d.Observations, d.Commits),
		render: func(l []dialog.Learning) string {
			return report.Project(d, signals, l)
		},
	}
}

// runDialog reads one answer per line until the dialog completes.
func runDialog(sess *dialog.Session, action dialog.Action, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for action.Type != dialog.ActionComplete {
		printAction(out, action)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return errInterrupted
		}
		next, err := sess.Submit(scanner.Text())
		if err != nil {
			return err
		}
		action = next
		fmt.Fprintln(out)
	}
	return nil
}

func printAction(out io.Writer, a dialog.Action) {
	q := a.Question
	if q == nil {
		return
	}
	if a.Type == dialog.ActionFollowUp {
		fmt.Fprintln(out, followUpStyle.Render("  "+q.Text))
		return
	}
	header := fmt.Sprintf("[%d/%d] %s", a.Progress.Current, a.Progress.Total, q.Category)
	fmt.Fprintln(out, categoryStyle.Render(header))
	fmt.Fprintln(out, q.Text)
	if q.Context != "" {
		fmt.Fprintln(out, dimStyle.Render("  "+q.Context))
	}
}

// finish writes the report, archives the session and updates the profile.
func (r *reflection) finish(sess *dialog.Session, out io.Writer) error {
	learnings := sess.Learnings()

	if err := report.Write(r.path, r.render(learnings)); err != nil {
		return err
	}
	fmt.Fprintf(out, "report: %s\n", r.path)

	if cfg.Archive.Enabled {
		path, err := archive.Save(sess.Record(r.kind, r.scope), cfg.ArchiveDir())
		if err != nil {
			logger.Warn("archive session failed", zap.String("session", sess.ID), zap.Error(err))
		} else {
			logger.Info("session archived", zap.String("path", path))
		}
	}

	p, err := profile.Load(cfg.ProfilePath())
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	p.RecordSession(r.kind, learnings, time.Now())
	if err := p.Save(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	logger.Info("profile updated", zap.String("path", p.Path()))

	fmt.Fprintf(out, "%d learnings captured\n", len(learnings))
	for _, l := range learnings {
		fmt.Fprintf(out, "  - [%s/%s] %s\n", l.Category, l.Confidence, strings.TrimSpace(l.Content))
	}
	return nil
}
