package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var (
	dailyNameRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)
	projectNameRe = regexp.MustCompile(`^(.+)-(\d{4}-\d{2}-\d{2})\.md$`)
)

// DailyPath returns reportsDir/daily/YYYY-MM-DD.md.
func DailyPath(reportsDir, date string) string {
	return filepath.Join(reportsDir, "daily", date+".md")
}

// ProjectPath returns reportsDir/projects/<project>-YYYY-MM-DD.md.
func ProjectPath(reportsDir, project, date string) string {
	return filepath.Join(reportsDir, "projects", fmt.Sprintf("%s-%s.md", project, date))
}

// Exists reports whether path is a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Write creates parent directories and writes content to path.
func Write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ListDaily returns the daily report names, newest first.
func ListDaily(reportsDir string) ([]string, error) {
	names, err := list(filepath.Join(reportsDir, "daily"))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		if dailyNameRe.MatchString(n) {
			out = append(out, n)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// ListProject returns the reports for project, newest first. An empty
// project lists every project report.
func ListProject(reportsDir, project string) ([]string, error) {
	names, err := list(filepath.Join(reportsDir, "projects"))
	if err != nil {
		return nil, err
	}
	type entry struct{ name, date string }
	var matched []entry
	for _, n := range names {
		m := projectNameRe.FindStringSubmatch(n)
		if m == nil || (project != "" && m[1] != project) {
			continue
		}
		matched = append(matched, entry{n, m[2]})
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].date != matched[j].date {
			return matched[i].date > matched[j].date
		}
		return matched[i].name < matched[j].name
	})
	out := make([]string, 0, len(matched))
	for _, e := range matched {
		out = append(out, e.name)
	}
	return out, nil
}

func list(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
