package dialog

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/johns/vibe-reflect/internal/timeline"
)

// ErrSessionClosed is returned by a session that was closed or replaced.
var ErrSessionClosed = errors.New("dialog session closed")

// Manager hands out dialog sessions. Only one is active at a time; starting
// another releases the previous one.
type Manager struct {
	mu      sync.Mutex
	current *Session
	entropy *rand.Rand
	now     func() time.Time
}

// NewManager returns a Manager with no active session.
func NewManager() *Manager {
	return &Manager{
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Start releases any active session and begins a new one over questions.
// events are kept for learning references.
func (m *Manager) Start(questions []Question, events []timeline.Event) (*Session, Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.release()
		m.current = nil
	}

	now := m.now()
	s := &Session{
		ID:        ulid.MustNew(ulid.Timestamp(now), m.entropy).String(),
		StartedAt: now,
		ctx:       NewContext(questions),
		events:    events,
		manager:   m,
	}
	action := s.ctx.Start()
	if action.Type == ActionComplete {
		s.CompletedAt = now
	} else {
		m.current = s
	}
	return s, action
}

// Active returns the active session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) finished(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == s {
		m.current = nil
	}
}

// Session is the handle for one dialog. It is not safe for concurrent use.
type Session struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time

	ctx     *Context
	events  []timeline.Event
	manager *Manager
	closed  bool
}

// Submit answers the current question. A completed session keeps returning
// the complete action until it is closed.
func (s *Session) Submit(answer string) (Action, error) {
	if s.closed {
		return Action{}, ErrSessionClosed
	}
	wasComplete := s.ctx.State == StateComplete
	action, err := s.ctx.Answer(answer)
	if err != nil {
		return Action{}, err
	}
	if action.Type == ActionComplete && !wasComplete {
		s.CompletedAt = s.manager.now()
		s.manager.finished(s)
	}
	return action, nil
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.ctx.State == StateComplete
}

// Snapshot returns a copy of the dialog state.
func (s *Session) Snapshot() Context {
	c := *s.ctx
	c.Questions = append([]Question(nil), s.ctx.Questions...)
	c.Answers = make(map[string]string, len(s.ctx.Answers))
	for k, v := range s.ctx.Answers {
		c.Answers[k] = v
	}
	return c
}

// Learnings extracts learnings from the answers so far.
func (s *Session) Learnings() []Learning {
	return ExtractLearnings(s.ctx, s.events)
}

// Close releases the session. Further submits return ErrSessionClosed.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.release()
	s.manager.finished(s)
}

func (s *Session) release() {
	s.closed = true
	s.events = nil
}

// Record is the archived form of a session.
type Record struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`  // daily or project
	Scope       string            `json:"scope"` // date or project name
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at,omitempty"`
	Questions   []Question        `json:"questions"`
	Answers     map[string]string `json:"answers"`
	Learnings   []Learning        `json:"learnings"`
}

// Record captures the session for archiving. Call before Close so learning
// references can still be resolved.
func (s *Session) Record(kind, scope string) Record {
	snap := s.Snapshot()
	return Record{
		ID:          s.ID,
		Kind:        kind,
		Scope:       scope,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		Questions:   snap.Questions,
		Answers:     snap.Answers,
		Learnings:   s.Learnings(),
	}
}
