package gitlog

import (
	"regexp"
	"strconv"
	"strings"
)

// LogFormat is the --pretty format the parser expects: full hash, subject,
// author name, author email, strict ISO author date.
const LogFormat = "%H|%s|%an|%ae|%aI"

// The subject is greedy so it may contain the delimiter itself.
var (
	headerRe  = regexp.MustCompile(`^([0-9a-f]{40})\|(.*)\|([^|]*)\|([^|]*)\|(\d{4}-\d{2}-\d{2}T[^|]+)$`)
	numstatRe = regexp.MustCompile(`^(\d+|-)\t(\d+|-)\t(.+)$`)
)

// Parse turns `git log --pretty=format:LogFormat --numstat` output into commits.
// Lines matching neither a header nor a numstat line are skipped.
func Parse(output string) []Commit {
	var commits []Commit
	var cur *Commit

	flush := func() {
		if cur == nil {
			return
		}
		finalize(cur)
		commits = append(commits, *cur)
		cur = nil
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := headerRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Commit{
				Hash:    m[1],
				Message: m[2],
				Author:  m[3],
				Email:   m[4],
				Date:    m[5],
			}
			continue
		}

		if cur == nil {
			continue
		}
		if m := numstatRe.FindStringSubmatch(line); m != nil {
			cur.Files = append(cur.Files, FileDelta{
				Path:      m[3],
				Additions: statValue(m[1]),
				Deletions: statValue(m[2]),
			})
		}
	}
	flush()

	return commits
}

// finalize derives aggregate counts from the attached file deltas.
func finalize(c *Commit) {
	c.FilesChanged = len(c.Files)
	c.Additions, c.Deletions = 0, 0
	for _, f := range c.Files {
		c.Additions += f.Additions
		c.Deletions += f.Deletions
	}
}

// statValue converts a numstat column; "-" marks a binary file.
func statValue(s string) int {
	if s == "-" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
