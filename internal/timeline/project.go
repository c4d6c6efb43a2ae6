package timeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johns/vibe-reflect/internal/gitlog"
	"github.com/johns/vibe-reflect/internal/memory"
)

// coreFileCount is how many of the most-touched files a project reports.
const coreFileCount = 10

// FileCount is a path and how many commits touched it.
type FileCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// ProjectData is the aggregate history of one or more repositories.
type ProjectData struct {
	Name         string               `json:"name"`
	Repos        []string             `json:"repos"`
	Commits      []gitlog.Commit      `json:"commits"`
	TotalCommits int                  `json:"total_commits"` // before sampling
	Sampled      bool                 `json:"sampled"`
	Observations []memory.Observation `json:"observations"`
	Contributors []string             `json:"contributors"`
	FileCounts   map[string]int       `json:"file_counts"`
	CoreFiles    []FileCount          `json:"core_files"`
	FirstDay     string               `json:"first_day,omitempty"`
	LastDay      string               `json:"last_day,omitempty"`
}

// AggregateProject reads each repo's history, merges and samples it, and
// attaches observations whose project loosely matches a repo name.
func (a *Aggregator) AggregateProject(ctx context.Context, repos []string, since string) (*ProjectData, error) {
	if len(repos) == 0 {
		return nil, errors.New("no repositories given")
	}
	if since != "" {
		if _, err := ParseDate(since, a.Location); err != nil {
			return nil, err
		}
	}
	var bad []string
	for _, r := range repos {
		if !gitlog.IsRepo(r) {
			bad = append(bad, r)
		}
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("not a git repository: %s", strings.Join(bad, ", "))
	}

	q := gitlog.Query{Since: since}
	if since == "" {
		q.MaxCount = a.MaxCommits
	}

	data := &ProjectData{
		Name:       projectName(repos),
		Repos:      repos,
		FileCounts: make(map[string]int),
	}
	contributors := make(map[string]bool)

	// Sequential so the merged order is deterministic.
	var all []gitlog.Commit
	readable := repos
	if a.git == nil {
		a.logger.Warn("no commit reader, project history is empty", zap.Strings("repos", repos))
		readable = nil
	}
	for _, repo := range readable {
		commits := a.git.Read(ctx, repo, q)
		a.logger.Debug("read repository", zap.String("repo", repo), zap.Int("commits", len(commits)))

		for _, c := range commits {
			c.Repo = repo
			if c.Author != "" {
				contributors[c.Author] = true
			}
			for _, f := range c.Files {
				data.FileCounts[f.Path]++
			}
			day := c.Day()
			if data.FirstDay == "" || day < data.FirstDay {
				data.FirstDay = day
			}
			if day > data.LastDay {
				data.LastDay = day
			}
			all = append(all, c)
		}
	}

	SortCommits(all)
	data.TotalCommits = len(all)
	data.Commits = Sample(all, a.SampleThreshold)
	data.Sampled = len(data.Commits) < len(all)

	for name := range contributors {
		data.Contributors = append(data.Contributors, name)
	}
	sort.Strings(data.Contributors)
	data.CoreFiles = topFiles(data.FileCounts, coreFileCount)

	data.Observations = a.projectObservations(ctx, repos, since, data.FirstDay, data.LastDay)

	return data, nil
}

// projectObservations fetches observations once for the commit span.
// Errors are logged and yield none.
func (a *Aggregator) projectObservations(ctx context.Context, repos []string, since, first, last string) []memory.Observation {
	if a.obs == nil {
		return nil
	}

	startDay := first
	if since != "" && (startDay == "" || since < startDay) {
		startDay = since
	}
	endDay := last
	if endDay == "" {
		if since == "" {
			return nil
		}
		endDay = time.Now().In(a.Location).Format(dateLayout)
	}

	start, err := ParseDate(startDay, a.Location)
	if err != nil {
		return nil
	}
	end, err := ParseDate(endDay, a.Location)
	if err != nil {
		return nil
	}
	q := memory.Query{
		Start: start,
		End:   memory.DayQuery(end, a.Location).End,
	}

	obs, err := a.obs.Observations(ctx, q)
	if err != nil {
		a.logger.Warn("observations unavailable for project", zap.Error(err))
		return nil
	}

	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, filepath.Base(filepath.Clean(r)))
	}

	var out []memory.Observation
	for _, o := range obs {
		for _, n := range names {
			if MatchesProject(o.Project, n) {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// MatchesProject is a case-insensitive substring match in either direction.
// It is deliberately loose: short repo names can match unrelated projects.
func MatchesProject(project, repoName string) bool {
	p := strings.ToLower(project)
	n := strings.ToLower(repoName)
	if p == "" || n == "" {
		return false
	}
	return strings.Contains(p, n) || strings.Contains(n, p)
}

// topFiles returns the n most-touched paths, ties broken by path.
func topFiles(counts map[string]int, n int) []FileCount {
	files := make([]FileCount, 0, len(counts))
	for p, c := range counts {
		files = append(files, FileCount{Path: p, Count: c})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Count != files[j].Count {
			return files[i].Count > files[j].Count
		}
		return files[i].Path < files[j].Path
	})
	if len(files) > n {
		files = files[:n]
	}
	return files
}

func projectName(repos []string) string {
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, filepath.Base(filepath.Clean(r)))
	}
	return strings.Join(names, "+")
}
