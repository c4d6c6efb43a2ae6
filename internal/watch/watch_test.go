package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_NoPaths(t *testing.T) {
	if err := Run(context.Background(), nil, 0, func() {}, nil); err == nil {
		t.Error("expected error for empty path list")
	}
}

func TestRun_Debounces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "claude-mem.db")
	other := filepath.Join(dir, "unrelated.txt")
	os.WriteFile(target, []byte("0"), 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	fired := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []string{target}, 100*time.Millisecond, func() {
			calls.Add(1)
			fired <- struct{}{}
		}, nil)
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	os.WriteFile(other, []byte("x"), 0o644)
	for i := 0; i < 5; i++ {
		os.WriteFile(target, []byte{byte('1' + i)}, 0o644)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("callback never fired")
	}

	// A burst of writes settles into a single call.
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_MissingDir(t *testing.T) {
	err := Run(context.Background(), []string{"/nonexistent/dir/file.db"}, 0, func() {}, nil)
	if err == nil {
		t.Error("expected error for missing parent directory")
	}
}
