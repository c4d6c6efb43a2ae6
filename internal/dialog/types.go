// Package dialog generates reflection questions and runs the turn-based
// dialog that collects answers and extracts learnings from them.
package dialog

// Category groups questions. Daily dialogs use technical, decision and
// efficiency; project dialogs use decision, pitfall and learning.
type Category string

const (
	CategoryTechnical  Category = "technical"
	CategoryDecision   Category = "decision"
	CategoryEfficiency Category = "efficiency"
	CategoryPitfall    Category = "pitfall"
	CategoryLearning   Category = "learning"
)

// Question is one reflection prompt.
type Question struct {
	ID                  string   `json:"id"`
	Category            Category `json:"category"`
	Text                string   `json:"text"`
	Context             string   `json:"context,omitempty"`
	FollowUp            string   `json:"follow_up,omitempty"`
	RelatedCommits      []string `json:"related_commits,omitempty"`
	RelatedObservations []int64  `json:"related_observations,omitempty"`
}

// State is the dialog state machine position.
type State string

const (
	StateIdle        State = "idle"
	StateAsking      State = "asking"
	StateWaiting     State = "waiting" // reserved; no transition enters it
	StateFollowingUp State = "following_up"
	StateComplete    State = "complete"
)

// ActionType tells the caller what to do next.
type ActionType string

const (
	ActionQuestion ActionType = "question"
	ActionFollowUp ActionType = "follow_up"
	ActionComplete ActionType = "complete"
)

// Progress is the 1-based position within the question list.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Action is the result of one transition. Question is nil on complete.
type Action struct {
	Type     ActionType `json:"type"`
	Question *Question  `json:"question,omitempty"`
	Progress Progress   `json:"progress"`
}

// Confidence rates an extracted learning.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Learning is one insight extracted from an answer.
type Learning struct {
	Category   Category   `json:"category"`
	Content    string     `json:"content"`
	Confidence Confidence `json:"confidence"`
	References []string   `json:"references,omitempty"`
}
