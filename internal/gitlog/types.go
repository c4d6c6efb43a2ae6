package gitlog

import (
	"time"
)

// FileDelta is one numstat line attached to a commit.
type FileDelta struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// Commit is a parsed git log entry.
type Commit struct {
	Hash    string      `json:"hash"`
	Message string      `json:"message"` // subject line
	Author  string      `json:"author"`
	Email   string      `json:"email"`
	Date    string      `json:"date"` // ISO-8601 author date
	Files   []FileDelta `json:"files,omitempty"`

	FilesChanged int `json:"files_changed"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`

	Repo string `json:"repo,omitempty"` // set by project aggregation
}

// Query narrows a history read. Since and Until are YYYY-MM-DD and inclusive.
type Query struct {
	Since    string
	Until    string
	MaxCount int
	Author   string
}

// ShortHash returns the abbreviated 7-character hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Day returns the YYYY-MM-DD portion of the author date as git reported it.
func (c Commit) Day() string {
	if len(c.Date) < 10 {
		return c.Date
	}
	return c.Date[:10]
}

// Time parses the author date. Returns the zero time on failure.
func (c Commit) Time() time.Time {
	t, err := time.Parse(time.RFC3339, c.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// UnixMilli returns the author date in epoch milliseconds, 0 if unparseable.
func (c Commit) UnixMilli() int64 {
	t := c.Time()
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
