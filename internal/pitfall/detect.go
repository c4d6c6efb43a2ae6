package pitfall

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/johns/vibe-reflect/internal/gitlog"
	"github.com/johns/vibe-reflect/internal/memory"
)

// Rule tables. Matching is case-insensitive.
var (
	// RevertKeywords match anywhere in the subject.
	RevertKeywords = []string{"revert"}

	// FixPrefixes match the start of the subject.
	FixPrefixes = []string{"fix:", "fix(", "hotfix:", "hotfix(", "bugfix:", "bugfix("}

	// RefactorKeywords mark a large commit as a deliberate rewrite.
	RefactorKeywords = []string{"refactor", "rewrite", "restructure"}

	// ObservationKeywords flag trouble in an observation narrative.
	ObservationKeywords = []string{"issue", "bug", "error", "problem", "fix", "broken", "failed"}
)

// Thresholds.
const (
	fixMergeThreshold  = 3 // more than this many fixes collapse into one signal
	hashLimit          = 5
	hotFileTouches     = 3
	hotFileHighTouches = 5
	massiveChangeLines = 100
)

// Detect runs every scan and concatenates the results.
func Detect(commits []gitlog.Commit, observations []memory.Observation) []Signal {
	var out []Signal
	out = append(out, ScanReverts(commits)...)
	out = append(out, ScanFixes(commits)...)
	out = append(out, ScanHighFrequency(commits)...)
	out = append(out, ScanMassiveRefactors(commits)...)
	out = append(out, ScanObservations(observations)...)
	return out
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func matchedPrefix(lower string, prefixes []string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return p
		}
	}
	return ""
}

// ScanReverts emits one high signal per revert commit.
func ScanReverts(commits []gitlog.Commit) []Signal {
	var out []Signal
	for _, c := range commits {
		if !containsAny(strings.ToLower(c.Message), RevertKeywords) {
			continue
		}
		out = append(out, Signal{
			Type:        TypeRevert,
			Date:        c.Day(),
			Commits:     []string{c.ShortHash()},
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Reverted change: %s", c.Message),
		})
	}
	return out
}

// ScanFixes reports fix-prefixed commits. Past fixMergeThreshold they are
// collapsed into one medium signal.
func ScanFixes(commits []gitlog.Commit) []Signal {
	type match struct {
		commit gitlog.Commit
		prefix string
	}
	var matches []match
	for _, c := range commits {
		lower := strings.ToLower(strings.TrimSpace(c.Message))
		if p := matchedPrefix(lower, FixPrefixes); p != "" {
			matches = append(matches, match{c, p})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	if len(matches) > fixMergeThreshold {
		var hashes []string
		for _, m := range matches {
			if len(hashes) == hashLimit {
				break
			}
			hashes = append(hashes, m.commit.ShortHash())
		}
		return []Signal{{
			Type:        TypeFix,
			Date:        matches[0].commit.Day(),
			Commits:     hashes,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%d fix commits suggest recurring problems", len(matches)),
		}}
	}

	out := make([]Signal, 0, len(matches))
	for _, m := range matches {
		typ := TypeFix
		if strings.HasPrefix(m.prefix, "hotfix") {
			typ = TypeHotfix
		}
		out = append(out, Signal{
			Type:        typ,
			Date:        m.commit.Day(),
			Commits:     []string{m.commit.ShortHash()},
			Severity:    SeverityLow,
			Description: fmt.Sprintf("Fix: %s", m.commit.Message),
		})
	}
	return out
}

// ScanHighFrequency flags files touched by several commits on one day.
func ScanHighFrequency(commits []gitlog.Commit) []Signal {
	type key struct{ day, path string }
	touches := make(map[key][]string)
	var order []key

	for _, c := range commits {
		day := c.Day()
		for _, f := range c.Files {
			k := key{day, f.Path}
			if _, ok := touches[k]; !ok {
				order = append(order, k)
			}
			touches[k] = append(touches[k], c.ShortHash())
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].day != order[j].day {
			return order[i].day < order[j].day
		}
		return order[i].path < order[j].path
	})

	var out []Signal
	for _, k := range order {
		hashes := touches[k]
		n := len(hashes)
		if n < hotFileTouches {
			continue
		}
		sev := SeverityMedium
		if n >= hotFileHighTouches {
			sev = SeverityHigh
		}
		if len(hashes) > hashLimit {
			hashes = hashes[:hashLimit]
		}
		out = append(out, Signal{
			Type:        TypeHighFrequency,
			File:        k.path,
			Date:        k.day,
			Commits:     append([]string(nil), hashes...),
			Severity:    sev,
			Description: fmt.Sprintf("%s changed %d times on %s", k.path, n, k.day),
		})
	}
	return out
}

// ScanMassiveRefactors flags large commits described as rewrites.
func ScanMassiveRefactors(commits []gitlog.Commit) []Signal {
	var out []Signal
	for _, c := range commits {
		if c.Additions <= massiveChangeLines || c.Deletions <= massiveChangeLines {
			continue
		}
		if !containsAny(strings.ToLower(c.Message), RefactorKeywords) {
			continue
		}
		out = append(out, Signal{
			Type:        TypeMassiveRefactor,
			Date:        c.Day(),
			Commits:     []string{c.ShortHash()},
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Large refactor (+%d/-%d): %s", c.Additions, c.Deletions, c.Message),
		})
	}
	return out
}

// ScanObservations flags bugfix observations and narratives mentioning trouble.
func ScanObservations(observations []memory.Observation) []Signal {
	var out []Signal
	for _, o := range observations {
		var sev Severity
		switch {
		case o.Kind == memory.KindBugfix:
			sev = SeverityMedium
		case containsAny(strings.ToLower(o.Narrative), ObservationKeywords):
			sev = SeverityLow
		default:
			continue
		}

		desc := o.Title
		if desc == "" {
			desc = fmt.Sprintf("observation %d", o.ID)
		}
		var file string
		if len(o.FilesModified) > 0 {
			file = o.FilesModified[0]
		}
		out = append(out, Signal{
			Type:        TypeBugfixObservation,
			File:        file,
			Date:        observationDay(o),
			Severity:    sev,
			Description: "Session trouble: " + desc,
		})
	}
	return out
}

// observationDay is the local day of o, matching the timeline's day
// boundaries. Without an epoch the recorded date prefix is used as is.
func observationDay(o memory.Observation) string {
	if o.CreatedAtEpoch > 0 {
		return time.UnixMilli(o.CreatedAtEpoch).In(time.Local).Format("2006-01-02")
	}
	if len(o.CreatedAt) >= 10 {
		return o.CreatedAt[:10]
	}
	return ""
}
