package pitfall

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func TestMerge(t *testing.T) {
	signals := []Signal{
		{Type: TypeHighFrequency, File: "a.go", Commits: []string{"h1", "h2"}, Severity: SeverityMedium, Description: "a.go hot"},
		{Type: TypeRevert, Commits: []string{"r1"}, Severity: SeverityHigh, Description: "revert"},
		{Type: TypeHighFrequency, File: "a.go", Commits: []string{"h2", "h3"}, Severity: SeverityHigh, Description: "again"},
		{Type: TypeHighFrequency, File: "b.go", Commits: []string{"h4"}, Severity: SeverityLow, Description: "b.go"},
	}
	got := Merge(signals)

	if len(got) != 3 {
		t.Fatalf("got %d signals, want 3", len(got))
	}
	m := got[0]
	if m.File != "a.go" || m.Severity != SeverityHigh {
		t.Errorf("merged = %+v", m)
	}
	if fmt.Sprint(m.Commits) != "[h1 h2 h3]" {
		t.Errorf("Commits = %v", m.Commits)
	}
	if m.Description != "a.go hot (merged 2 signals)" {
		t.Errorf("Description = %q", m.Description)
	}
	if got[1].Type != TypeRevert || got[2].File != "b.go" {
		t.Errorf("order = %+v", got)
	}
}

func TestMerge_CapsHashes(t *testing.T) {
	var signals []Signal
	for i := 0; i < 15; i++ {
		signals = append(signals, Signal{Type: TypeFix, Commits: []string{fmt.Sprintf("c%d", i)}, Severity: SeverityLow})
	}
	got := Merge(signals)
	if len(got) != 1 || len(got[0].Commits) != 10 {
		t.Errorf("got %+v", got)
	}
}

var signalGen = rapid.Custom(func(t *rapid.T) Signal {
	types := []Type{TypeRevert, TypeFix, TypeHotfix, TypeHighFrequency, TypeMassiveRefactor, TypeBugfixObservation}
	sevs := []Severity{SeverityLow, SeverityMedium, SeverityHigh}
	files := []string{"", "a.go", "b.go", "c.go"}

	n := rapid.IntRange(0, 4).Draw(t, "n_commits")
	var commits []string
	for i := 0; i < n; i++ {
		commits = append(commits, fmt.Sprintf("h%d", rapid.IntRange(0, 20).Draw(t, "hash")))
	}
	return Signal{
		Type:        rapid.SampledFrom(types).Draw(t, "type"),
		File:        rapid.SampledFrom(files).Draw(t, "file"),
		Commits:     commits,
		Severity:    rapid.SampledFrom(sevs).Draw(t, "severity"),
		Description: rapid.StringN(0, 20, -1).Draw(t, "description"),
	}
})

func TestMerge_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		signals := rapid.SliceOfN(signalGen, 0, 40).Draw(t, "signals")
		once := Merge(signals)
		twice := Merge(once)

		if len(twice) != len(once) {
			t.Fatalf("second merge reduced %d -> %d", len(once), len(twice))
		}
		for i := range once {
			if once[i].Severity != twice[i].Severity || once[i].Description != twice[i].Description {
				t.Fatalf("signal %d changed: %+v -> %+v", i, once[i], twice[i])
			}
		}
		if len(once) > len(signals) {
			t.Fatalf("merge grew %d -> %d", len(signals), len(once))
		}
	})
}
