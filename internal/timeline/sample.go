package timeline

import (
	"sort"

	"github.com/johns/vibe-reflect/internal/gitlog"
)

// SortCommits stable-sorts commits by author date ascending.
func SortCommits(commits []gitlog.Commit) {
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].UnixMilli() < commits[j].UnixMilli()
	})
}

// Sample bounds a sorted commit list to roughly threshold entries.
//
// Every high-signal commit (revert, merge, hotfix, fix) is kept, even if they
// alone exceed threshold. The remaining budget is filled by striding through
// the full list at floor(total/budget). The result is sorted by date.
// Lists at or below threshold are returned unchanged.
func Sample(commits []gitlog.Commit, threshold int) []gitlog.Commit {
	if threshold <= 0 || len(commits) <= threshold {
		return commits
	}

	kept := make(map[string]bool)
	var out []gitlog.Commit
	for _, c := range commits {
		if kept[c.Hash] || !IsHighSignal(c.Message) {
			continue
		}
		kept[c.Hash] = true
		out = append(out, c)
	}

	budget := threshold - len(out)
	if budget > 0 {
		step := len(commits) / budget
		if step < 1 {
			step = 1
		}
		added := 0
		for i := 0; i < len(commits) && added < budget; i += step {
			c := commits[i]
			if kept[c.Hash] {
				continue
			}
			kept[c.Hash] = true
			out = append(out, c)
			added++
		}
	}

	SortCommits(out)
	return out
}
