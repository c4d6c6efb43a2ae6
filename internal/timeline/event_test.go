package timeline

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/johns/vibe-reflect/internal/gitlog"
	"github.com/johns/vibe-reflect/internal/memory"
)

func TestFromObservation_DerivesTitleAndSummary(t *testing.T) {
	o := memory.Observation{
		ID:             7,
		Project:        "vibe",
		Kind:           memory.KindBugfix,
		Facts:          []string{"cache was stale", "ttl too long", "ignored"},
		Concepts:       []string{"caching", "ttl", "invalidation", "extra"},
		FilesModified:  []string{"cache.go"},
		CreatedAtEpoch: 1770112800000,
	}
	e := FromObservation(o)

	if e.ID != "obs-7" {
		t.Errorf("ID = %q, want obs-7", e.ID)
	}
	if e.Source != SourceMemory {
		t.Errorf("Source = %q, want %q", e.Source, SourceMemory)
	}
	if e.Title != "Bug fix" {
		t.Errorf("Title = %q, want %q", e.Title, "Bug fix")
	}
	want := "cache was stale; ttl too long | Concepts: caching, ttl, invalidation | Files: cache.go"
	if e.Summary != want {
		t.Errorf("Summary = %q, want %q", e.Summary, want)
	}
	if e.Timestamp != 1770112800000 {
		t.Errorf("Timestamp = %d", e.Timestamp)
	}
	if e.Observation == nil || e.Observation.ID != 7 {
		t.Error("Observation not attached")
	}
}

func TestFromObservation_KeepsRecordedText(t *testing.T) {
	e := FromObservation(memory.Observation{ID: 1, Kind: memory.KindDecision, Title: "Use SQLite", Subtitle: "embedded store"})
	if e.Title != "Use SQLite" || e.Summary != "embedded store" {
		t.Errorf("got title %q summary %q", e.Title, e.Summary)
	}
}

func TestFromObservation_Placeholder(t *testing.T) {
	e := FromObservation(memory.Observation{ID: 2})
	if e.Summary != summaryPlaceholder {
		t.Errorf("Summary = %q, want placeholder", e.Summary)
	}
	if e.Type != "change" || e.Title != "Change" {
		t.Errorf("Type = %q Title = %q, want change/Change", e.Type, e.Title)
	}
	if e.Timestamp != 0 {
		t.Errorf("Timestamp = %d, want 0 for missing time", e.Timestamp)
	}
}

func TestFromCommit(t *testing.T) {
	c := gitlog.Commit{
		Hash:         "abcdef0123456789abcdef0123456789abcdef01",
		Message:      "feat: add timeline",
		Date:         "2026-02-03T10:00:00Z",
		FilesChanged: 2,
		Additions:    30,
		Deletions:    4,
	}
	e := FromCommit(c)

	if e.ID != "git-abcdef0" {
		t.Errorf("ID = %q, want git-abcdef0", e.ID)
	}
	if e.Type != "feature" {
		t.Errorf("Type = %q, want feature", e.Type)
	}
	if e.Summary != "2 files, +30/-4" {
		t.Errorf("Summary = %q", e.Summary)
	}
	if e.Timestamp != 1770112800000 {
		t.Errorf("Timestamp = %d", e.Timestamp)
	}
}

func TestMerge_TiesKeepObservationsFirst(t *testing.T) {
	obs := []memory.Observation{{ID: 1, CreatedAtEpoch: 1770112800000}}
	commits := []gitlog.Commit{
		{Hash: "1111111111111111111111111111111111111111", Date: "2026-02-03T09:00:00Z"},
		{Hash: "2222222222222222222222222222222222222222", Date: "2026-02-03T10:00:00Z"},
	}
	events := Merge(obs, commits)

	want := []string{"git-1111111", "obs-1", "git-2222222"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, id := range want {
		if events[i].ID != id {
			t.Errorf("events[%d] = %q, want %q", i, events[i].ID, id)
		}
	}
}

func TestInferCommitType(t *testing.T) {
	tests := []struct {
		msg, want string
	}{
		{"fix: nil deref", "bugfix"},
		{"Hotfix for login", "bugfix"},
		{"feat(api): paging", "feature"},
		{"Add retry", "feature"},
		{"refactor parser", "refactor"},
		{"docs: readme", "docs"},
		{"test: cover sampling", "test"},
		{"chore: bump deps", "chore"},
		{"build: go 1.25", "chore"},
		{"tweak colors", "change"},
		{"feat: fix typo", "bugfix"},
	}
	for _, tt := range tests {
		if got := InferCommitType(tt.msg); got != tt.want {
			t.Errorf("InferCommitType(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestCommitTypeRules_EachRuleMatches(t *testing.T) {
	for _, r := range CommitTypeRules {
		for _, p := range r.Prefixes {
			if !r.Matches(p + " something") {
				t.Errorf("rule %s prefix %q does not match", r.Type, p)
			}
		}
		for _, c := range r.Contains {
			if !r.Matches("x" + c + " y") {
				t.Errorf("rule %s contains %q does not match", r.Type, c)
			}
		}
	}
}

func TestComputeStats(t *testing.T) {
	events := Merge(
		[]memory.Observation{
			{ID: 1, Project: "beta", Kind: memory.KindFeature, CreatedAtEpoch: 1},
			{ID: 2, Project: "alpha", Kind: memory.KindFeature, CreatedAtEpoch: 2},
			{ID: 3, Project: "alpha", Kind: memory.KindBugfix, CreatedAtEpoch: 3},
		},
		[]gitlog.Commit{{Hash: "3333333333333333333333333333333333333333", Message: "fix: x", Date: "2026-02-03T10:00:00Z"}},
	)
	s := ComputeStats(events)

	if s.TotalEvents != 4 || s.TotalObservations != 3 || s.TotalCommits != 1 {
		t.Errorf("totals = %d/%d/%d", s.TotalEvents, s.TotalObservations, s.TotalCommits)
	}
	if s.ByType["feature"] != 2 || s.ByType["bugfix"] != 2 {
		t.Errorf("ByType = %v", s.ByType)
	}
	if s.ByProject["alpha"] != 2 || s.ByProject["beta"] != 1 {
		t.Errorf("ByProject = %v", s.ByProject)
	}
	if len(s.ActiveProjects) != 2 || s.ActiveProjects[0] != "alpha" {
		t.Errorf("ActiveProjects = %v", s.ActiveProjects)
	}
}

var isoGen = rapid.Custom(func(t *rapid.T) string {
	sec := rapid.Int64Range(1_700_000_000, 1_800_000_000).Draw(t, "unix_sec")
	return unixISO(sec)
})

func TestMerge_NonDecreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nObs := rapid.IntRange(0, 20).Draw(t, "n_obs")
		nCommits := rapid.IntRange(0, 20).Draw(t, "n_commits")

		var obs []memory.Observation
		for i := 0; i < nObs; i++ {
			obs = append(obs, memory.Observation{
				ID:             int64(i),
				CreatedAtEpoch: rapid.Int64Range(1_700_000_000_000, 1_800_000_000_000).Draw(t, "epoch"),
			})
		}
		var commits []gitlog.Commit
		for i := 0; i < nCommits; i++ {
			commits = append(commits, gitlog.Commit{
				Hash: hashFor(i),
				Date: isoGen.Draw(t, "date"),
			})
		}

		events := Merge(obs, commits)
		if len(events) != nObs+nCommits {
			t.Fatalf("got %d events, want %d", len(events), nObs+nCommits)
		}
		for i := 1; i < len(events); i++ {
			if events[i-1].Timestamp > events[i].Timestamp {
				t.Fatalf("events[%d].Timestamp %d > events[%d].Timestamp %d",
					i-1, events[i-1].Timestamp, i, events[i].Timestamp)
			}
		}
	})
}
