package timeline

import "sort"

// Stats are tallies over one timeline, recomputed on each aggregation.
type Stats struct {
	ByType            map[string]int `json:"by_type"`
	ByProject         map[string]int `json:"by_project"`
	ActiveProjects    []string       `json:"active_projects"`
	TotalEvents       int            `json:"total_events"`
	TotalObservations int            `json:"total_observations"`
	TotalCommits      int            `json:"total_commits"`
}

// ComputeStats tallies event types, observation projects and totals.
func ComputeStats(events []Event) Stats {
	s := Stats{
		ByType:    make(map[string]int),
		ByProject: make(map[string]int),
	}

	for _, e := range events {
		s.TotalEvents++
		s.ByType[e.Type]++

		switch e.Source {
		case SourceMemory:
			s.TotalObservations++
			if e.Observation != nil && e.Observation.Project != "" {
				s.ByProject[e.Observation.Project]++
			}
		case SourceGit:
			s.TotalCommits++
		}
	}

	for p := range s.ByProject {
		s.ActiveProjects = append(s.ActiveProjects, p)
	}
	sort.Strings(s.ActiveProjects)

	return s
}
