package gitlog

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func fakeRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestArgs(t *testing.T) {
	args := Args(Query{Since: "2026-02-01", Until: "2026-02-03", MaxCount: 50, Author: "ada"})
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"log",
		"--pretty=format:" + LogFormat,
		"--numstat",
		"--since=2026-02-01 00:00:00",
		"--until=2026-02-03 23:59:59",
		"--max-count=50",
		"--author=ada",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
}

func TestArgs_Unbounded(t *testing.T) {
	args := Args(Query{})
	if len(args) != 3 {
		t.Errorf("expected 3 args for empty query, got %v", args)
	}
}

func TestRead_NotARepo(t *testing.T) {
	called := false
	r := &Reader{
		Runner: func(ctx context.Context, dir string, args ...string) (string, error) {
			called = true
			return "", nil
		},
		Logger: zap.NewNop(),
	}
	if got := r.Read(context.Background(), t.TempDir(), Query{}); got != nil {
		t.Errorf("expected nil, got %d commits", len(got))
	}
	if called {
		t.Error("runner should not be invoked for a non-repository")
	}
}

func TestRead_RunnerError(t *testing.T) {
	r := &Reader{
		Runner: func(ctx context.Context, dir string, args ...string) (string, error) {
			return "", errors.New("boom")
		},
	}
	if got := r.Read(context.Background(), fakeRepo(t), Query{}); got != nil {
		t.Errorf("expected nil on runner failure, got %d commits", len(got))
	}
}

func TestRead_ParsesRunnerOutput(t *testing.T) {
	repo := fakeRepo(t)
	var gotDir string
	var gotArgs []string
	r := &Reader{
		Runner: func(ctx context.Context, dir string, args ...string) (string, error) {
			gotDir = dir
			gotArgs = args
			return hashA + "|feat: x|Ada|ada@example.com|2026-02-03T10:00:00Z\n5\t1\ta.go\n", nil
		},
	}

	commits := r.Read(context.Background(), repo, Query{Since: "2026-02-03", Until: "2026-02-03"})
	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	if gotDir != repo {
		t.Errorf("runner dir = %q, want %q", gotDir, repo)
	}
	if len(gotArgs) == 0 || gotArgs[0] != "log" {
		t.Errorf("runner args = %v", gotArgs)
	}
}

func TestRead_RealGit(t *testing.T) {
	if !Available() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Ada", "GIT_AUTHOR_EMAIL=ada@example.com",
			"GIT_COMMITTER_NAME=Ada", "GIT_COMMITTER_EMAIL=ada@example.com",
			"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_SYSTEM=/dev/null",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	git("init", "-q")
	os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\nfunc A() {}\n"), 0o644)
	git("add", "a.go")
	git("commit", "-q", "-m", "feat: add a")
	os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644)
	git("commit", "-q", "-am", "fix: trim a")

	commits := NewReader(nil).Read(context.Background(), dir, Query{})
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	// git emits newest first
	if commits[0].Message != "fix: trim a" {
		t.Errorf("first message = %q", commits[0].Message)
	}
	if commits[0].Deletions != 2 {
		t.Errorf("Deletions = %d, want 2", commits[0].Deletions)
	}
	if commits[1].Additions != 3 {
		t.Errorf("Additions = %d, want 3", commits[1].Additions)
	}
}
