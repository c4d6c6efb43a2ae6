package dialog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"pgregory.net/rapid"

	"github.com/johns/vibe-reflect/internal/gitlog"
	"github.com/johns/vibe-reflect/internal/memory"
	"github.com/johns/vibe-reflect/internal/timeline"
)

func TestLearningContent(t *testing.T) {
	long := strings.Repeat("word ", 60)
	tests := []struct {
		name, in, want string
	}{
		{"first sentence", "Caching hides bugs. Invalidate early!", "Caching hides bugs."},
		{"question mark", "Why did it fail? Bad TTL.", "Why did it fail?"},
		{"file names are not sentence ends", "Touching cache.go broke tests. Oops", "Touching cache.go broke tests."},
		{"no punctuation", "short answer without end", "short answer without end"},
		{"truncated", strings.TrimSpace(long), strings.TrimSpace(long)[:200] + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LearningContent(tt.in); got != tt.want {
				t.Errorf("LearningContent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScoreConfidence(t *testing.T) {
	long := strings.Repeat("x", 101)
	tests := []struct {
		in   string
		want Confidence
	}{
		{long + " I realized", ConfidenceHigh},
		{long + " LEARNED", ConfidenceHigh},
		{long, ConfidenceMedium},
		{strings.Repeat("x", 51), ConfidenceMedium},
		{strings.Repeat("x", 50), ConfidenceLow},
		{"I learned a lot", ConfidenceLow},
	}
	for _, tt := range tests {
		if got := ScoreConfidence(tt.in); got != tt.want {
			t.Errorf("ScoreConfidence(len %d) = %q, want %q", len(tt.in), got, tt.want)
		}
	}
}

func refEvents() []timeline.Event {
	return []timeline.Event{
		timeline.FromCommit(gitlog.Commit{Hash: strings.Repeat("b", 40), Date: "2026-02-03T09:00:00Z"}),
		timeline.FromObservation(memory.Observation{ID: 11, FilesModified: []string{"internal/cache/cache.go"}}),
		timeline.FromObservation(memory.Observation{ID: 12, FilesModified: []string{"README.md"}}),
		timeline.FromObservation(memory.Observation{ID: 13, FilesModified: []string{"internal/cache/cache.go", "main.go"}}),
	}
}

func TestReferences(t *testing.T) {
	got := References("The bug in cache.go was a missing lock.", refEvents())
	if strings.Join(got, ",") != "observation#11,observation#13" {
		t.Errorf("References = %v", got)
	}
}

func TestReferences_FallsBackToFirstEvent(t *testing.T) {
	got := References("Nothing specific to cite here.", refEvents())
	if len(got) != 1 || got[0] != "git-bbbbbbb" {
		t.Errorf("References = %v", got)
	}
	if got := References("none", nil); got != nil {
		t.Errorf("References with no events = %v", got)
	}
}

func TestReferences_Capped(t *testing.T) {
	var events []timeline.Event
	for i := 0; i < 8; i++ {
		events = append(events, timeline.FromObservation(memory.Observation{ID: int64(i), FilesModified: []string{"a.go"}}))
	}
	if got := References("see a.go", events); len(got) != 5 {
		t.Errorf("got %d references, want 5", len(got))
	}
}

func TestExtractLearnings(t *testing.T) {
	c := NewContext([]Question{
		{ID: "a", Category: CategoryTechnical},
		{ID: "b", Category: CategoryDecision},
		{ID: "c", Category: CategoryEfficiency},
	})
	c.Answers["a"] = "  the lock was too short "
	c.Answers["b"] = "   tiny   "
	c.Answers["c"] = "Profiling main.go first would have saved an hour."

	got := ExtractLearnings(c, refEvents())
	if len(got) != 2 {
		t.Fatalf("got %d learnings, want 2: %+v", len(got), got)
	}
	if got[0].Category != CategoryTechnical || got[1].Category != CategoryEfficiency {
		t.Errorf("categories = %s, %s", got[0].Category, got[1].Category)
	}
	if got[1].References[0] != "observation#13" {
		t.Errorf("References = %v", got[1].References)
	}
}

func TestExtractLearnings_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		answer := rapid.StringMatching(`[ a-zA-Z.]{0,160}( learned| realized)?[ a-z]{0,10}`).Draw(t, "answer")
		c := NewContext([]Question{{ID: "q", Category: CategoryLearning}})
		c.Answers["q"] = answer

		got := ExtractLearnings(c, nil)
		trimmed := strings.TrimSpace(answer)
		n := utf8.RuneCountInString(trimmed)

		if n < minLearningRunes {
			if len(got) != 0 {
				t.Fatalf("learning from %d-character answer", n)
			}
			return
		}
		if len(got) != 1 {
			t.Fatalf("got %d learnings", len(got))
		}
		lower := strings.ToLower(trimmed)
		keyword := false
		for _, k := range RealizationKeywords {
			if strings.Contains(lower, k) {
				keyword = true
			}
		}
		if (got[0].Confidence == ConfidenceHigh) != (n > 100 && keyword) {
			t.Fatalf("confidence %q for length %d keyword %v", got[0].Confidence, n, keyword)
		}
	})
}
