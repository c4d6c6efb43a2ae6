// Package report renders reflection reports as Markdown and answers
// existence and listing queries over the reports directory.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/johns/vibe-reflect/internal/dialog"
	"github.com/johns/vibe-reflect/internal/pitfall"
	"github.com/johns/vibe-reflect/internal/timeline"
)

// Version is stamped in report footers.
var Version = "dev"

// Daily renders a day's timeline and the learnings from its reflection.
func Daily(tl *timeline.Timeline, learnings []dialog.Learning) string {
	var b strings.Builder

	// Frontmatter
	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("date: %s\n", tl.Date))
	b.WriteString("type: daily-reflection\n")
	b.WriteString(fmt.Sprintf("events: %d\n", tl.Stats.TotalEvents))
	b.WriteString(fmt.Sprintf("observations: %d\n", tl.Stats.TotalObservations))
	b.WriteString(fmt.Sprintf("commits: %d\n", tl.Stats.TotalCommits))
	if len(tl.Stats.ActiveProjects) > 0 {
		b.WriteString(fmt.Sprintf("projects: [%s]\n", strings.Join(tl.Stats.ActiveProjects, ", ")))
	}
	b.WriteString(fmt.Sprintf("learnings: %d\n", len(learnings)))
	b.WriteString("---\n\n")

	b.WriteString(fmt.Sprintf("# Daily Reflection: %s\n\n", tl.Date))

	// Activity by type
	if len(tl.Stats.ByType) > 0 {
		b.WriteString("## Activity\n\n")
		b.WriteString("| Type | Count |\n")
		b.WriteString("|------|-------|\n")
		for _, k := range sortedKeys(tl.Stats.ByType) {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", k, tl.Stats.ByType[k]))
		}
		b.WriteString("\n")
	}

	// Timeline
	b.WriteString("## Timeline\n\n")
	if len(tl.Events) == 0 {
		b.WriteString("No activity recorded.\n\n")
	}
	for _, e := range tl.Events {
		b.WriteString(fmt.Sprintf("- **%s** [%s] %s", eventClock(e), e.Type, e.Title))
		if e.Summary != "" {
			b.WriteString(fmt.Sprintf(" (%s)", e.Summary))
		}
		b.WriteString("\n")
	}
	if len(tl.Events) > 0 {
		b.WriteString("\n")
	}

	writeLearnings(&b, learnings)
	writeFooter(&b)
	return b.String()
}

// Project renders a project aggregate with its pitfalls and learnings.
func Project(d *timeline.ProjectData, signals []pitfall.Signal, learnings []dialog.Learning) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("project: %s\n", d.Name))
	b.WriteString("type: project-reflection\n")
	if d.FirstDay != "" {
		b.WriteString(fmt.Sprintf("first_commit: %s\n", d.FirstDay))
		b.WriteString(fmt.Sprintf("last_commit: %s\n", d.LastDay))
	}
	b.WriteString(fmt.Sprintf("commits: %d\n", d.TotalCommits))
	if d.Sampled {
		b.WriteString(fmt.Sprintf("sampled: %d\n", len(d.Commits)))
	}
	b.WriteString(fmt.Sprintf("observations: %d\n", len(d.Observations)))
	b.WriteString(fmt.Sprintf("pitfalls: %d\n", len(signals)))
	b.WriteString("---\n\n")

	b.WriteString(fmt.Sprintf("# Project Reflection: %s\n\n", d.Name))

	// Overview
	b.WriteString("## Overview\n\n")
	for _, r := range d.Repos {
		b.WriteString(fmt.Sprintf("- Repository: `%s`\n", r))
	}
	if len(d.Contributors) > 0 {
		b.WriteString(fmt.Sprintf("- Contributors: %s\n", strings.Join(d.Contributors, ", ")))
	}
	b.WriteString("\n")

	// Core files
	if len(d.CoreFiles) > 0 {
		b.WriteString("## Core Files\n\n")
		b.WriteString("| File | Commits |\n")
		b.WriteString("|------|---------|\n")
		for _, f := range d.CoreFiles {
			b.WriteString(fmt.Sprintf("| `%s` | %d |\n", f.Path, f.Count))
		}
		b.WriteString("\n")
	}

	// Pitfalls
	if len(signals) > 0 {
		b.WriteString("## Pitfalls\n\n")
		for _, s := range signals {
			b.WriteString(fmt.Sprintf("- **%s** %s", s.Severity, s.Description))
			if s.Date != "" {
				b.WriteString(fmt.Sprintf(" (%s)", s.Date))
			}
			if len(s.Commits) > 0 {
				b.WriteString(fmt.Sprintf(" `%s`", strings.Join(s.Commits, "` `")))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeLearnings(&b, learnings)
	writeFooter(&b)
	return b.String()
}

func writeLearnings(b *strings.Builder, learnings []dialog.Learning) {
	if len(learnings) == 0 {
		return
	}
	b.WriteString("## Learnings\n\n")
	for _, l := range learnings {
		b.WriteString(fmt.Sprintf("- [%s/%s] %s", l.Category, l.Confidence, l.Content))
		if len(l.References) > 0 {
			b.WriteString(fmt.Sprintf(" (%s)", strings.Join(l.References, ", ")))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("*vr %s*\n", Version))
}

func eventClock(e timeline.Event) string {
	if e.Timestamp == 0 {
		return "--:--"
	}
	return time.UnixMilli(e.Timestamp).Format("15:04")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
