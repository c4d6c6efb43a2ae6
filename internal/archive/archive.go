// Package archive stores completed dialog sessions as zstd-compressed JSON.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/johns/vibe-reflect/internal/dialog"
)

const ext = ".json.zst"

// Save compresses rec into archiveDir/{session-id}.json.zst.
// Returns the archive path.
func Save(rec dialog.Record, archiveDir string) (string, error) {
	if rec.ID == "" {
		return "", fmt.Errorf("record has no session ID")
	}

	destPath := ArchivePath(rec.ID, archiveDir)

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if err := json.NewEncoder(encoder).Encode(rec); err != nil {
		encoder.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	return destPath, nil
}

// Load decompresses and decodes the archive for sessionID.
func Load(sessionID, archiveDir string) (dialog.Record, error) {
	var rec dialog.Record

	src, err := os.Open(ArchivePath(sessionID, archiveDir))
	if err != nil {
		return rec, fmt.Errorf("open archive: %w", err)
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return rec, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	if err := json.NewDecoder(decoder).Decode(&rec); err != nil {
		return rec, fmt.Errorf("decode archive: %w", err)
	}
	return rec, nil
}

// IsArchived returns true if an archive file exists for the given session ID.
func IsArchived(sessionID, archiveDir string) bool {
	_, err := os.Stat(ArchivePath(sessionID, archiveDir))
	return err == nil
}

// ArchivePath returns the deterministic archive path for a session ID.
func ArchivePath(sessionID, archiveDir string) string {
	return filepath.Join(archiveDir, sessionID+ext)
}

// List returns archived session IDs, sorted. ULIDs sort by creation time.
// A missing directory yields no IDs.
func List(archiveDir string) ([]string, error) {
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	sort.Strings(ids)
	return ids, nil
}
