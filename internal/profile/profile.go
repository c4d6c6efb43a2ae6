// Package profile persists the user's reflection profile as one JSON
// document. Updates deep-merge; the last write wins.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/johns/vibe-reflect/internal/dialog"
)

// Profile manages the profile.json file.
type Profile struct {
	path string
	Data map[string]any
}

// Load reads the profile from disk, creating an empty one if it doesn't exist.
func Load(path string) (*Profile, error) {
	p := &Profile{
		path: path,
		Data: make(map[string]any),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	if err := json.Unmarshal(data, &p.Data); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.Data == nil {
		p.Data = make(map[string]any)
	}

	return p, nil
}

// Path returns the backing file.
func (p *Profile) Path() string { return p.path }

// Save writes the profile to disk.
func (p *Profile) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(p.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return os.WriteFile(p.path, data, 0o644)
}

// Get returns the value at a key path, e.g. Get("sessions", "daily").
func (p *Profile) Get(keys ...string) (any, bool) {
	var cur any = p.Data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Update merges patch into the profile. Nested maps merge recursively;
// any other value replaces what was there.
func (p *Profile) Update(patch map[string]any) {
	merge(p.Data, patch)
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = make(map[string]any)
			dst[k] = existing
		}
		merge(existing, sub)
	}
}

// Count returns a numeric value at a key path, 0 if absent.
func (p *Profile) Count(keys ...string) int {
	v, ok := p.Get(keys...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// RecordSession bumps the counters for a completed reflection of kind.
func (p *Profile) RecordSession(kind string, learnings []dialog.Learning, at time.Time) {
	byCat := make(map[string]any)
	for _, l := range learnings {
		key := string(l.Category)
		byCat[key] = p.Count("learnings", "by_category", key) + countCategory(learnings, l.Category)
	}

	p.Update(map[string]any{
		"sessions": map[string]any{
			kind: p.Count("sessions", kind) + 1,
		},
		"learnings": map[string]any{
			"total":       p.Count("learnings", "total") + len(learnings),
			"by_category": byCat,
		},
		"last_reflection": at.Format(time.RFC3339),
	})
}

func countCategory(learnings []dialog.Learning, c dialog.Category) int {
	n := 0
	for _, l := range learnings {
		if l.Category == c {
			n++
		}
	}
	return n
}
