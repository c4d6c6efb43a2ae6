package gitlog

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// Runner executes a git command in dir and returns its stdout.
// Tests substitute a canned runner.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

// Reader reads commit history from local repositories.
type Reader struct {
	Runner Runner // if nil, runs the real git binary
	Logger *zap.Logger
}

// NewReader returns a Reader backed by the git binary.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{Logger: logger}
}

func defaultRunner(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

// IsRepo reports whether path holds a .git directory (or a worktree's .git file).
func IsRepo(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Args builds the git log argument list for q.
func Args(q Query) []string {
	args := []string{"log", "--pretty=format:" + LogFormat, "--numstat"}
	if q.Since != "" {
		args = append(args, "--since="+q.Since+" 00:00:00")
	}
	if q.Until != "" {
		args = append(args, "--until="+q.Until+" 23:59:59")
	}
	if q.MaxCount > 0 {
		args = append(args, "--max-count="+strconv.Itoa(q.MaxCount))
	}
	if q.Author != "" {
		args = append(args, "--author="+q.Author)
	}
	return args
}

// Read returns commits from repoPath matching q, in the order git emits them.
// Returns nil for non-repositories and on any failure; failures are logged.
func (r *Reader) Read(ctx context.Context, repoPath string, q Query) []Commit {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !IsRepo(repoPath) {
		logger.Debug("not a git repository", zap.String("repo", repoPath))
		return nil
	}

	runner := r.Runner
	if runner == nil {
		runner = defaultRunner
	}

	out, err := runner(ctx, repoPath, Args(q)...)
	if err != nil {
		logger.Warn("git log failed", zap.String("repo", repoPath), zap.Error(err))
		return nil
	}

	return Parse(out)
}
