package pitfall

import (
	"fmt"
	"regexp"
)

const mergedHashLimit = 10

var mergedSuffixRe = regexp.MustCompile(` \(merged \d+ signals\)$`)

// Merge collapses signals sharing (type, file) in first-seen order. A merged
// group unions its hashes, keeps the first description with a count suffix,
// and takes the highest severity. Merging merged output changes nothing.
func Merge(signals []Signal) []Signal {
	type key struct {
		typ  Type
		file string
	}
	groups := make(map[key][]Signal)
	var order []key
	for _, s := range signals {
		k := key{s.Type, s.File}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], s)
	}

	out := make([]Signal, 0, len(order))
	for _, k := range order {
		g := groups[k]
		if len(g) == 1 {
			out = append(out, g[0])
			continue
		}

		merged := g[0]
		merged.Commits = nil
		seen := make(map[string]bool)
		for _, s := range g {
			if s.Severity.Rank() > merged.Severity.Rank() {
				merged.Severity = s.Severity
			}
			for _, h := range s.Commits {
				if seen[h] || len(merged.Commits) == mergedHashLimit {
					continue
				}
				seen[h] = true
				merged.Commits = append(merged.Commits, h)
			}
		}
		base := mergedSuffixRe.ReplaceAllString(g[0].Description, "")
		merged.Description = fmt.Sprintf("%s (merged %d signals)", base, len(g))
		out = append(out, merged)
	}
	return out
}
