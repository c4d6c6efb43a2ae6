package dialog

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// ShortAnswerRunes is the length below which a follow-up is asked.
	ShortAnswerRunes = 20
	maxFollowUps     = 1
	followUpSuffix   = "-followup"
)

// ErrNotStarted is returned when an answer arrives before Start.
var ErrNotStarted = errors.New("dialog not started")

// Context is the state of one dialog. It is mutated only by Start and Answer.
type Context struct {
	State     State             `json:"state"`
	Index     int               `json:"index"`
	Questions []Question        `json:"questions"`
	Answers   map[string]string `json:"answers"`
	FollowUps int               `json:"follow_ups"`
}

// NewContext returns an idle context over questions.
func NewContext(questions []Question) *Context {
	return &Context{
		State:     StateIdle,
		Questions: questions,
		Answers:   make(map[string]string),
	}
}

// Progress reports (index+1, total), clamped to total.
func (c *Context) Progress() Progress {
	cur := c.Index + 1
	if cur > len(c.Questions) {
		cur = len(c.Questions)
	}
	return Progress{Current: cur, Total: len(c.Questions)}
}

// Current returns the question being asked, or nil.
func (c *Context) Current() *Question {
	if c.Index < 0 || c.Index >= len(c.Questions) {
		return nil
	}
	q := c.Questions[c.Index]
	return &q
}

// Start moves idle to asking and returns the first question. Calling it
// again returns the current position without changing state.
func (c *Context) Start() Action {
	if c.State == StateIdle {
		if len(c.Questions) == 0 {
			c.State = StateComplete
			return c.complete()
		}
		c.State = StateAsking
	}
	if c.State == StateComplete {
		return c.complete()
	}
	return c.ask()
}

// Answer records text for the current question and advances.
func (c *Context) Answer(text string) (Action, error) {
	switch c.State {
	case StateIdle:
		return Action{}, ErrNotStarted
	case StateComplete:
		return c.complete(), nil
	}

	q := c.Questions[c.Index]
	trimmed := strings.TrimSpace(text)
	if c.State == StateFollowingUp && c.Answers[q.ID] != "" {
		c.Answers[q.ID] = strings.TrimSpace(c.Answers[q.ID] + "\n" + trimmed)
	} else {
		c.Answers[q.ID] = trimmed
	}

	if utf8.RuneCountInString(trimmed) < ShortAnswerRunes && c.FollowUps < maxFollowUps && q.FollowUp != "" {
		c.State = StateFollowingUp
		c.FollowUps++
		return Action{
			Type: ActionFollowUp,
			Question: &Question{
				ID:       q.ID + followUpSuffix,
				Category: q.Category,
				Text:     q.FollowUp,
				Context:  q.Text,
			},
			Progress: c.Progress(),
		}, nil
	}

	c.Index++
	c.FollowUps = 0
	if c.Index >= len(c.Questions) {
		c.State = StateComplete
		return c.complete(), nil
	}
	c.State = StateAsking
	return c.ask(), nil
}

func (c *Context) ask() Action {
	return Action{Type: ActionQuestion, Question: c.Current(), Progress: c.Progress()}
}

func (c *Context) complete() Action {
	return Action{Type: ActionComplete, Progress: c.Progress()}
}
