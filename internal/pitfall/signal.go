// Package pitfall detects heuristic friction signals in commit history and
// session observations.
package pitfall

import "sort"

// Type names a kind of pitfall signal.
type Type string

const (
	TypeRevert            Type = "revert"
	TypeFix               Type = "fix"
	TypeHotfix            Type = "hotfix"
	TypeHighFrequency     Type = "high_frequency"
	TypeMassiveRefactor   Type = "massive_refactor"
	TypeBugfixObservation Type = "bugfix_observation"
)

// Severity ranks a signal.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Signal is one detected pitfall.
type Signal struct {
	Type        Type     `json:"type"`
	File        string   `json:"file,omitempty"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Commits     []string `json:"commits,omitempty"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// SortBySeverity stable-sorts signals from high to low.
func SortBySeverity(signals []Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Severity.Rank() > signals[j].Severity.Rank()
	})
}
