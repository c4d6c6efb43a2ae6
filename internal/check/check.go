package check

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johns/vibe-reflect/internal/archive"
	"github.com/johns/vibe-reflect/internal/config"
	"github.com/johns/vibe-reflect/internal/gitlog"
	"github.com/johns/vibe-reflect/internal/memory"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results      []Result
	Availability memory.Availability
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "vr check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("vr check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path. Broken TOML is caught when
// the config is loaded, before any check runs.
func CheckConfig() Result {
	if p := config.Path(); p != "" {
		return Result{Name: "config", Status: Pass, Detail: config.CompressHome(p)}
	}
	return Result{Name: "config", Status: Warn, Detail: "no config file (using defaults, run vr init)"}
}

// CheckDataDir checks whether the data directory exists.
func CheckDataDir(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "data", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "data", Status: Warn, Detail: config.CompressHome(path) + " not found (created on first report)"}
}

// CheckProfile validates the profile document.
func CheckProfile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Name: "profile", Status: Warn, Detail: "profile.json not found yet"}
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Result{Name: "profile", Status: Fail, Detail: "profile.json invalid JSON"}
	}

	return Result{Name: "profile", Status: Pass, Detail: fmt.Sprintf("profile.json (%d keys)", len(parsed))}
}

// CheckArchive reports how many dialog sessions are archived.
func CheckArchive(cfg config.Config) Result {
	if !cfg.Archive.Enabled {
		return Result{Name: "archive", Status: Pass, Detail: "disabled"}
	}
	ids, err := archive.List(cfg.ArchiveDir())
	if err != nil {
		return Result{Name: "archive", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "archive", Status: Pass, Detail: fmt.Sprintf("%d sessions", len(ids))}
}

// CheckTransport pings one observation transport. A nil transport is
// reported as not configured.
func CheckTransport(ctx context.Context, name string, t memory.Transport, where string) (Result, bool) {
	if t == nil {
		return Result{Name: name, Status: Warn, Detail: "not available at " + where}, false
	}
	if err := t.Ping(ctx); err != nil {
		return Result{Name: name, Status: Warn, Detail: fmt.Sprintf("%s: %v", where, err)}, false
	}
	return Result{Name: name, Status: Pass, Detail: where}, true
}

// ProjectLister lists the projects known to the observation store.
type ProjectLister interface {
	Projects(ctx context.Context) ([]string, error)
}

// CheckProjects reports how many claude-mem projects are visible.
func CheckProjects(ctx context.Context, l ProjectLister) Result {
	projects, err := l.Projects(ctx)
	if err != nil {
		return Result{Name: "projects", Status: Warn, Detail: err.Error()}
	}
	if len(projects) == 0 {
		return Result{Name: "projects", Status: Warn, Detail: "no projects recorded yet"}
	}
	detail := fmt.Sprintf("%d projects", len(projects))
	if len(projects) <= 5 {
		detail += ": " + strings.Join(projects, ", ")
	}
	return Result{Name: "projects", Status: Pass, Detail: detail}
}

// CheckGit checks that the git binary is on PATH.
func CheckGit(ok bool) Result {
	if ok {
		return Result{Name: "git", Status: Pass, Detail: "git found"}
	}
	return Result{Name: "git", Status: Fail, Detail: "git not found on PATH"}
}

// CheckRepos checks that each configured repository is a git work tree.
func CheckRepos(repos []string) []Result {
	if len(repos) == 0 {
		return []Result{{Name: "repos", Status: Warn, Detail: "no repositories configured"}}
	}
	var results []Result
	for _, r := range repos {
		name := "repo:" + filepath.Base(filepath.Clean(r))
		if gitlog.IsRepo(r) {
			results = append(results, Result{Name: name, Status: Pass, Detail: config.CompressHome(r)})
		} else {
			results = append(results, Result{Name: name, Status: Fail, Detail: r + " is not a git repository"})
		}
	}
	return results
}

// CheckAvailability summarizes which sources respond.
func CheckAvailability(a memory.Availability) Result {
	switch a {
	case memory.AvailFull:
		return Result{Name: "sources", Status: Pass, Detail: string(a)}
	case memory.AvailUnavailable:
		return Result{Name: "sources", Status: Fail, Detail: "no observation source and no git"}
	case memory.AvailGitOnly:
		return Result{Name: "sources", Status: Warn, Detail: "git-only (claude-mem unreachable)"}
	default:
		return Result{Name: "sources", Status: Warn, Detail: string(a)}
	}
}

// Sources are the live transports Run probes. Either may be nil.
type Sources struct {
	API    memory.Transport
	APIURL string
	DB     memory.Transport
	DBPath string
	GitOK  bool
}

// Run executes all checks against the given config and returns a report.
func Run(ctx context.Context, cfg config.Config, src Sources) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckDataDir(cfg.DataDir))
	results = append(results, CheckProfile(cfg.ProfilePath()))
	results = append(results, CheckArchive(cfg))

	var apiOK, dbOK bool
	if cfg.Memory.Enabled {
		var r Result
		r, apiOK = CheckTransport(ctx, "memory:api", src.API, src.APIURL)
		results = append(results, r)
		r, dbOK = CheckTransport(ctx, "memory:db", src.DB, config.CompressHome(src.DBPath))
		results = append(results, r)

		var api, db memory.Transport
		if apiOK {
			api = src.API
		}
		if dbOK {
			db = src.DB
		}
		if api != nil || db != nil {
			results = append(results, CheckProjects(ctx, memory.NewService(api, db, nil)))
		}
	} else {
		results = append(results, Result{Name: "memory", Status: Warn, Detail: "disabled in config"})
	}

	results = append(results, CheckGit(src.GitOK))
	results = append(results, CheckRepos(cfg.Repos)...)

	avail := memory.Classify(apiOK, dbOK, src.GitOK)
	results = append(results, CheckAvailability(avail))

	return Report{Results: results, Availability: avail}
}
