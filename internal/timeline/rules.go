package timeline

import "strings"

// TypeRule maps a commit message to a type when the lowercase message starts
// with one of Prefixes or contains one of Contains.
type TypeRule struct {
	Type     string
	Prefixes []string
	Contains []string
}

// Matches reports whether the lowercase message satisfies the rule.
func (r TypeRule) Matches(lower string) bool {
	for _, p := range r.Prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	for _, c := range r.Contains {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}

// CommitTypeRules are evaluated in order; the first match wins.
var CommitTypeRules = []TypeRule{
	{Type: "bugfix", Prefixes: []string{"fix"}, Contains: []string{" fix", "bugfix", "hotfix"}},
	{Type: "feature", Prefixes: []string{"feat", "add"}, Contains: []string{" feat", " add "}},
	{Type: "refactor", Prefixes: []string{"refactor"}, Contains: []string{" refactor"}},
	{Type: "docs", Prefixes: []string{"docs"}, Contains: []string{" docs"}},
	{Type: "test", Prefixes: []string{"test"}, Contains: []string{" test"}},
	{Type: "chore", Prefixes: []string{"chore", "build"}, Contains: []string{" chore", " build"}},
}

// DefaultCommitType applies when no rule matches.
const DefaultCommitType = "change"

// InferCommitType classifies a commit message.
func InferCommitType(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, r := range CommitTypeRules {
		if r.Matches(lower) {
			return r.Type
		}
	}
	return DefaultCommitType
}

// HighSignalKeywords mark commits sampling must keep.
var HighSignalKeywords = []string{"revert", "merge", "hotfix", "fix"}

// IsHighSignal reports whether a commit message names a revert, merge or fix.
func IsHighSignal(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range HighSignalKeywords {
		if strings.HasPrefix(lower, k) || strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// kindLabels are the canonical titles for observations recorded without one.
var kindLabels = map[string]string{
	"decision":  "Decision",
	"bugfix":    "Bug fix",
	"feature":   "New feature",
	"refactor":  "Refactoring",
	"discovery": "Discovery",
	"change":    "Change",
}
