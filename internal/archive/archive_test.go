package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/johns/vibe-reflect/internal/dialog"
)

const testSessionID = "01KGH4ZQ3T8R6W2M5N9P7C1V0X"

func testRecord() dialog.Record {
	return dialog.Record{
		ID:        testSessionID,
		Kind:      "daily",
		Scope:     "2026-02-03",
		StartedAt: time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC),
		Questions: []dialog.Question{{ID: "daily-1", Category: dialog.CategoryTechnical, Text: "What was hard?"}},
		Answers:   map[string]string{"daily-1": "Getting the cache lock order right."},
		Learnings: []dialog.Learning{{
			Category:   dialog.CategoryTechnical,
			Content:    "Getting the cache lock order right.",
			Confidence: dialog.ConfidenceLow,
		}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	archiveDir := filepath.Join(t.TempDir(), "sessions")

	path, err := Save(testRecord(), archiveDir)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != ArchivePath(testSessionID, archiveDir) {
		t.Errorf("path = %q", path)
	}

	got, err := Load(testSessionID, archiveDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Scope != "2026-02-03" || got.Answers["daily-1"] == "" {
		t.Errorf("Load = %+v", got)
	}
	if !got.StartedAt.Equal(testRecord().StartedAt) {
		t.Errorf("StartedAt = %v", got.StartedAt)
	}
	if len(got.Learnings) != 1 || got.Learnings[0].Confidence != dialog.ConfidenceLow {
		t.Errorf("Learnings = %+v", got.Learnings)
	}
}

func TestSave_RequiresID(t *testing.T) {
	if _, err := Save(dialog.Record{}, t.TempDir()); err == nil {
		t.Error("expected error for empty ID")
	}
}

func TestLoad_NotCompressed(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(ArchivePath("bad", dir), []byte("{not zstd"), 0o644)
	if _, err := Load("bad", dir); err == nil {
		t.Error("expected error for corrupt archive")
	}
}

func TestIsArchived(t *testing.T) {
	archiveDir := t.TempDir()

	if IsArchived(testSessionID, archiveDir) {
		t.Error("should not be archived yet")
	}
	if _, err := Save(testRecord(), archiveDir); err != nil {
		t.Fatal(err)
	}
	if !IsArchived(testSessionID, archiveDir) {
		t.Error("should be archived")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	if ids, err := List(filepath.Join(dir, "missing")); err != nil || ids != nil {
		t.Errorf("List(missing) = %v, %v", ids, err)
	}

	for _, id := range []string{"01B", "01A"} {
		rec := testRecord()
		rec.ID = id
		if _, err := Save(rec, dir); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	ids, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "01A" || ids[1] != "01B" {
		t.Errorf("List = %v", ids)
	}
}
