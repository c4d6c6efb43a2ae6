// Package memory reads observations recorded by the claude-mem session-memory
// service, over its HTTP worker API or directly from its SQLite database.
package memory

import (
	"time"
)

// Kind classifies an observation.
type Kind string

const (
	KindDecision  Kind = "decision"
	KindBugfix    Kind = "bugfix"
	KindFeature   Kind = "feature"
	KindRefactor  Kind = "refactor"
	KindDiscovery Kind = "discovery"
	KindChange    Kind = "change"
)

// Kinds lists every known kind.
var Kinds = []Kind{KindDecision, KindBugfix, KindFeature, KindRefactor, KindDiscovery, KindChange}

// ParseKind maps a wire value to a Kind. Unknown values become KindChange.
func ParseKind(s string) Kind {
	for _, k := range Kinds {
		if string(k) == s {
			return k
		}
	}
	return KindChange
}

// Observation is one structured note about a unit of work.
type Observation struct {
	ID             int64    `json:"id"`
	SessionID      string   `json:"session_id"`
	Project        string   `json:"project"`
	Kind           Kind     `json:"type"`
	Title          string   `json:"title,omitempty"`
	Subtitle       string   `json:"subtitle,omitempty"`
	Narrative      string   `json:"narrative,omitempty"`
	Facts          []string `json:"facts,omitempty"`
	Concepts       []string `json:"concepts,omitempty"`
	FilesRead      []string `json:"files_read,omitempty"`
	FilesModified  []string `json:"files_modified,omitempty"`
	PromptNumber   *int     `json:"prompt_number,omitempty"`
	CreatedAt      string   `json:"created_at"`
	CreatedAtEpoch int64    `json:"created_at_epoch"`
}

// Time returns the creation instant, preferring the epoch field.
func (o Observation) Time() time.Time {
	if o.CreatedAtEpoch > 0 {
		return time.UnixMilli(o.CreatedAtEpoch)
	}
	if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
		return t
	}
	return time.Time{}
}

// Query selects observations created within [Start, End].
type Query struct {
	Start   time.Time
	End     time.Time
	Project string // optional exact project filter
	Limit   int
}

// DayQuery returns a query spanning the calendar day of date in loc.
func DayQuery(date time.Time, loc *time.Location) Query {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := date.In(loc).Date()
	return Query{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc),
	}
}
