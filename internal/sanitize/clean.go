// Package sanitize cleans observation text captured from agent sessions.
package sanitize

import (
	"regexp"
	"strings"
)

// Wrapper tags the agent and claude-mem inject around captured output.
var wrapperTagPattern = regexp.MustCompile(
	`</?(?:local-command-(?:stdout|stderr|caveat)|command-(?:output|name|args|message)|` +
		`system-reminder|task-(?:id|notification)|persisted-output|thinking|tool-use-id|` +
		`tool|skill-name|private|claude-mem-context)[^>]*>`,
)

var (
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
	controlPattern  = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]|[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

// Clean removes wrapper tags, terminal escapes and control bytes, collapses
// runs of blank lines and trims.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = wrapperTagPattern.ReplaceAllString(text, "")
	text = controlPattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// CleanList cleans each item and drops the ones left empty.
func CleanList(items []string) []string {
	if len(items) == 0 {
		return items
	}
	out := items[:0:0]
	for _, s := range items {
		if c := Clean(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}
