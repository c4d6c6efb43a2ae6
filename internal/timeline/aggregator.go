// Package timeline merges observations and commits into ordered timelines and
// aggregates project history across repositories.
package timeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johns/vibe-reflect/internal/gitlog"
	"github.com/johns/vibe-reflect/internal/memory"
)

const (
	// DefaultSampleThreshold caps the commits kept for a project.
	DefaultSampleThreshold = 200
	// DefaultMaxCommits bounds an unbounded history read.
	DefaultMaxCommits = 10000

	dateLayout = "2006-01-02"
)

// ObservationFetcher is the observation side of the timeline.
type ObservationFetcher interface {
	Observations(ctx context.Context, q memory.Query) ([]memory.Observation, error)
}

// CommitReader is the commit side of the timeline.
type CommitReader interface {
	Read(ctx context.Context, repoPath string, q gitlog.Query) []gitlog.Commit
}

// Aggregator builds daily timelines and project aggregates.
// A nil observation fetcher means git-only mode.
type Aggregator struct {
	obs    ObservationFetcher
	git    CommitReader
	logger *zap.Logger

	SampleThreshold int
	MaxCommits      int
	Location        *time.Location
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSampleThreshold overrides the sampling threshold.
func WithSampleThreshold(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.SampleThreshold = n
		}
	}
}

// WithMaxCommits overrides the unbounded read cap.
func WithMaxCommits(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.MaxCommits = n
		}
	}
}

// WithLocation sets the zone used for day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.Location = loc
		}
	}
}

// New returns an Aggregator. obs may be nil.
func New(obs ObservationFetcher, git CommitReader, opts ...Option) *Aggregator {
	a := &Aggregator{
		obs:             obs,
		git:             git,
		logger:          zap.NewNop(),
		SampleThreshold: DefaultSampleThreshold,
		MaxCommits:      DefaultMaxCommits,
		Location:        time.Local,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Timeline is the merged view of one day.
type Timeline struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
	Stats  Stats   `json:"stats"`
}

// ParseDate validates a YYYY-MM-DD string in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	return t, nil
}

// Daily returns the timeline for date across repos.
func (a *Aggregator) Daily(ctx context.Context, date string, repos []string) (*Timeline, error) {
	day, err := ParseDate(date, a.Location)
	if err != nil {
		return nil, err
	}

	var observations []memory.Observation
	if a.obs != nil {
		observations, err = a.obs.Observations(ctx, memory.DayQuery(day, a.Location))
		if err != nil {
			return nil, fmt.Errorf("fetch observations: %w", err)
		}
	}

	var commits []gitlog.Commit
	if a.git != nil {
		q := gitlog.Query{Since: date, Until: date}
		for _, repo := range repos {
			commits = append(commits, a.git.Read(ctx, repo, q)...)
		}
	}

	events := Merge(observations, commits)

	a.logger.Debug("daily timeline",
		zap.String("date", date),
		zap.Int("observations", len(observations)),
		zap.Int("commits", len(commits)),
	)

	return &Timeline{
		Date:   date,
		Events: events,
		Stats:  ComputeStats(events),
	}, nil
}
