package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/johns/vibe-reflect/internal/gitlog"
	"github.com/johns/vibe-reflect/internal/memory"
)

// Source tags where an event came from.
type Source string

const (
	SourceMemory Source = "claude-mem"
	SourceGit    Source = "git"
)

// Event is one entry in a merged timeline.
type Event struct {
	ID        string `json:"id"`
	Source    Source `json:"source"`
	Timestamp int64  `json:"timestamp"` // epoch millis
	Type      string `json:"type"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`

	Commit      *gitlog.Commit      `json:"commit,omitempty"`
	Observation *memory.Observation `json:"observation,omitempty"`
}

const (
	summarySeparator   = " | "
	summaryPlaceholder = "No details recorded"
)

// FromObservation wraps an observation, deriving title and summary when absent.
func FromObservation(o memory.Observation) Event {
	kind := string(o.Kind)
	if kind == "" {
		kind = string(memory.KindChange)
	}

	title := o.Title
	if title == "" {
		title = kindLabels[kind]
	}

	summary := o.Subtitle
	if summary == "" {
		summary = observationSummary(o)
	}

	return Event{
		ID:          fmt.Sprintf("obs-%d", o.ID),
		Source:      SourceMemory,
		Timestamp:   observationMillis(o),
		Type:        kind,
		Title:       title,
		Summary:     summary,
		Observation: &o,
	}
}

func observationMillis(o memory.Observation) int64 {
	t := o.Time()
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// observationSummary joins whichever of facts, concepts and modified files exist.
func observationSummary(o memory.Observation) string {
	var parts []string
	if len(o.Facts) > 0 {
		parts = append(parts, strings.Join(firstN(o.Facts, 2), "; "))
	}
	if len(o.Concepts) > 0 {
		parts = append(parts, "Concepts: "+strings.Join(firstN(o.Concepts, 3), ", "))
	}
	if len(o.FilesModified) > 0 {
		parts = append(parts, "Files: "+strings.Join(firstN(o.FilesModified, 3), ", "))
	}
	if len(parts) == 0 {
		return summaryPlaceholder
	}
	return strings.Join(parts, summarySeparator)
}

// FromCommit wraps a commit.
func FromCommit(c gitlog.Commit) Event {
	title := c.Message
	if title == "" {
		title = c.ShortHash()
	}
	return Event{
		ID:        "git-" + c.ShortHash(),
		Source:    SourceGit,
		Timestamp: c.UnixMilli(),
		Type:      InferCommitType(c.Message),
		Title:     title,
		Summary:   fmt.Sprintf("%d files, +%d/-%d", c.FilesChanged, c.Additions, c.Deletions),
		Commit:    &c,
	}
}

// Merge maps observations then commits to events and stable-sorts them by
// timestamp, so ties keep that order.
func Merge(observations []memory.Observation, commits []gitlog.Commit) []Event {
	events := make([]Event, 0, len(observations)+len(commits))
	for _, o := range observations {
		events = append(events, FromObservation(o))
	}
	for _, c := range commits {
		events = append(events, FromCommit(c))
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return events
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
