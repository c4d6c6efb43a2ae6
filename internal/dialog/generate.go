package dialog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/johns/vibe-reflect/internal/pitfall"
	"github.com/johns/vibe-reflect/internal/timeline"
)

const (
	maxTopics    = 10
	genericTopic = "today's work"
)

type template struct {
	text     string // %s is the topic
	followUp string
}

var dailyOrder = []Category{CategoryTechnical, CategoryDecision, CategoryEfficiency}

var dailyTemplates = map[Category][]template{
	CategoryTechnical: {
		{"What was the most technically challenging part of %s?", "What made it hard, and how did you get past it?"},
		{"What did you learn about %s that you didn't know this morning?", "Can you give a concrete example?"},
		{"Did anything about %s surprise you? What caused it?", "How would you catch that earlier next time?"},
	},
	CategoryDecision: {
		{"What was the key decision you made around %s, and why?", "Which alternatives did you consider?"},
		{"Would you make the same call on %s again?", "What would change your mind?"},
	},
	CategoryEfficiency: {
		{"Where did you lose the most time on %s?", "What would have saved that time?"},
		{"What would you automate or simplify about %s?", "What is the first step toward that?"},
	},
}

// QuestionCount is the number of questions for a timeline of n events.
func QuestionCount(n int) int {
	switch {
	case n < 5:
		return 3
	case n <= 15:
		return 5
	default:
		return 8
	}
}

// GenerateDaily builds questions for a day's events. The first three cover
// technical, decision and efficiency in that order; the rest cycle.
func GenerateDaily(events []timeline.Event) []Question {
	topics := Topics(events)
	n := QuestionCount(len(events))

	questions := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		cat := dailyOrder[i%len(dailyOrder)]
		set := dailyTemplates[cat]
		tmpl := set[i%len(set)]

		topic := genericTopic
		if len(topics) > 0 {
			topic = topics[i%len(topics)]
		}

		q := Question{
			ID:       fmt.Sprintf("daily-%d", i+1),
			Category: cat,
			Text:     fmt.Sprintf(tmpl.text, topic),
			FollowUp: tmpl.followUp,
		}
		if len(events) > 0 {
			relate(&q, events[i%len(events)])
		}
		questions = append(questions, q)
	}
	return questions
}

func relate(q *Question, e timeline.Event) {
	q.Context = e.Title
	if e.Commit != nil {
		q.RelatedCommits = []string{e.Commit.ShortHash()}
	}
	if e.Observation != nil {
		q.RelatedObservations = []int64{e.Observation.ID}
	}
}

// Topics harvests distinct topics in first-seen order: each event's type,
// the first three words longer than three characters of its title, and up to
// three concepts of memory events.
func Topics(events []timeline.Event) []string {
	seen := make(map[string]bool)
	var topics []string
	add := func(s string) bool {
		if s == "" || seen[s] {
			return len(topics) < maxTopics
		}
		seen[s] = true
		topics = append(topics, s)
		return len(topics) < maxTopics
	}

	for _, e := range events {
		if !add(e.Type) {
			return topics
		}
		for _, w := range titleWords(e.Title, 3) {
			if !add(w) {
				return topics
			}
		}
		if e.Source == timeline.SourceMemory && e.Observation != nil {
			concepts := e.Observation.Concepts
			if len(concepts) > 3 {
				concepts = concepts[:3]
			}
			for _, c := range concepts {
				if !add(c) {
					return topics
				}
			}
		}
	}
	return topics
}

func titleWords(title string, n int) []string {
	var out []string
	for _, f := range strings.Fields(title) {
		w := strings.Trim(f, `.,:;!?()[]{}"'`+"`")
		if len([]rune(w)) <= 3 {
			continue
		}
		out = append(out, w)
		if len(out) == n {
			break
		}
	}
	return out
}

var projectOrder = []Category{CategoryDecision, CategoryPitfall, CategoryLearning}

// GenerateProject builds questions for a project aggregate. One question per
// category comes first, in the order decision, pitfall, learning.
func GenerateProject(data *timeline.ProjectData, signals []pitfall.Signal) []Question {
	name := "this project"
	var core []timeline.FileCount
	if data != nil {
		if data.Name != "" {
			name = data.Name
		}
		core = data.CoreFiles
	}

	sorted := append([]pitfall.Signal(nil), signals...)
	pitfall.SortBySeverity(sorted)
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}

	byCat := map[Category][]Question{}

	for i, f := range core {
		if i == 2 {
			break
		}
		byCat[CategoryDecision] = append(byCat[CategoryDecision], Question{
			Category: CategoryDecision,
			Text:     fmt.Sprintf("%s changed in %d commits. What decisions shaped it?", filepath.Base(f.Path), f.Count),
			Context:  f.Path,
			FollowUp: "Which of those decisions would you revisit?",
		})
	}
	if len(byCat[CategoryDecision]) == 0 {
		byCat[CategoryDecision] = []Question{{
			Category: CategoryDecision,
			Text:     fmt.Sprintf("What was the most important architectural decision in %s?", name),
			FollowUp: "What constraints drove it?",
		}}
	}

	for _, s := range sorted {
		q := Question{
			Category: CategoryPitfall,
			Text:     fmt.Sprintf("Looking back at %q, what went wrong and what did you change afterwards?", s.Description),
			Context:  fmt.Sprintf("%s signal on %s (%s)", s.Type, s.Date, s.Severity),
			FollowUp: "How would you spot this earlier next time?",
		}
		q.RelatedCommits = append(q.RelatedCommits, s.Commits...)
		byCat[CategoryPitfall] = append(byCat[CategoryPitfall], q)
	}
	if len(byCat[CategoryPitfall]) == 0 {
		byCat[CategoryPitfall] = []Question{{
			Category: CategoryPitfall,
			Text:     fmt.Sprintf("What was the hardest problem you hit in %s?", name),
			FollowUp: "What finally resolved it?",
		}}
	}

	byCat[CategoryLearning] = []Question{
		{
			Category: CategoryLearning,
			Text:     fmt.Sprintf("What is the most important lesson %s taught you?", name),
			FollowUp: "Where else could you apply it?",
		},
		{
			Category: CategoryLearning,
			Text:     fmt.Sprintf("If you started %s over today, what would you do differently?", name),
			FollowUp: "What is stopping you from doing that now?",
		},
	}

	var questions []Question
	for _, cat := range projectOrder {
		questions = append(questions, byCat[cat][0])
	}
	for _, cat := range projectOrder {
		questions = append(questions, byCat[cat][1:]...)
	}
	for i := range questions {
		questions[i].ID = fmt.Sprintf("project-%d", i+1)
	}
	return questions
}
