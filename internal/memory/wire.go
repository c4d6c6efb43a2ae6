package memory

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/johns/vibe-reflect/internal/sanitize"
)

// wireObservation accepts both the camelCase shape served by the worker API
// and the snake_case column names of the database. normalize resolves it to
// an Observation; nothing past this file sees the raw shape.
type wireObservation struct {
	ID int64 `json:"id"`

	SessionID         string `json:"sessionId"`
	SessionIDSnake    string `json:"session_id"`
	SDKSessionID      string `json:"sdkSessionId"`
	SDKSessionIDSnake string `json:"sdk_session_id"`

	Project string `json:"project"`
	Type    string `json:"type"`

	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Narrative string `json:"narrative"`

	Facts    stringList `json:"facts"`
	Concepts stringList `json:"concepts"`

	FilesRead          stringList `json:"filesRead"`
	FilesReadSnake     stringList `json:"files_read"`
	FilesModified      stringList `json:"filesModified"`
	FilesModifiedSnake stringList `json:"files_modified"`

	PromptNumber      *int `json:"promptNumber"`
	PromptNumberSnake *int `json:"prompt_number"`

	CreatedAt           string `json:"createdAt"`
	CreatedAtSnake      string `json:"created_at"`
	CreatedAtEpoch      int64  `json:"createdAtEpoch"`
	CreatedAtEpochSnake int64  `json:"created_at_epoch"`
}

func normalize(w wireObservation) Observation {
	o := Observation{
		ID:             w.ID,
		SessionID:      firstNonEmpty(w.SessionID, w.SessionIDSnake, w.SDKSessionID, w.SDKSessionIDSnake),
		Project:        w.Project,
		Kind:           ParseKind(strings.ToLower(strings.TrimSpace(w.Type))),
		Title:          sanitize.Clean(w.Title),
		Subtitle:       sanitize.Clean(w.Subtitle),
		Narrative:      sanitize.Clean(w.Narrative),
		Facts:          sanitize.CleanList(w.Facts),
		Concepts:       sanitize.CleanList(w.Concepts),
		FilesRead:      firstList(w.FilesRead, w.FilesReadSnake),
		FilesModified:  firstList(w.FilesModified, w.FilesModifiedSnake),
		PromptNumber:   w.PromptNumber,
		CreatedAt:      firstNonEmpty(w.CreatedAt, w.CreatedAtSnake),
		CreatedAtEpoch: w.CreatedAtEpoch,
	}
	if o.PromptNumber == nil {
		o.PromptNumber = w.PromptNumberSnake
	}
	if o.CreatedAtEpoch == 0 {
		o.CreatedAtEpoch = w.CreatedAtEpochSnake
	}
	if o.CreatedAtEpoch == 0 {
		if t := o.Time(); !t.IsZero() {
			o.CreatedAtEpoch = t.UnixMilli()
		}
	}
	return o
}

// envelope is the worker API response body.
type envelope struct {
	Observations []wireObservation `json:"observations"`
	Results      []wireObservation `json:"results"`
	Projects     projectList       `json:"projects"`
}

func decodeObservations(body []byte) ([]Observation, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	raw := env.Observations
	if len(raw) == 0 {
		raw = env.Results
	}
	out := make([]Observation, 0, len(raw))
	for _, w := range raw {
		out = append(out, normalize(w))
	}
	return out, nil
}

// stringList decodes a JSON array of strings, a string holding a JSON array
// (the database stores lists that way), or a bare string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = compact(items)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = parseListText(s)
	return nil
}

// parseListText decodes a database list column.
func parseListText(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var items []string
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return compact(items)
		}
	}
	return []string{s}
}

// projectList accepts ["a","b"] or [{"name":"a"}, {"project":"b"}].
type projectList []string

func (l *projectList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out []string
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Name    string `json:"name"`
			Project string `json:"project"`
		}
		if err := json.Unmarshal(r, &obj); err == nil {
			if name := firstNonEmpty(obj.Name, obj.Project); name != "" {
				out = append(out, name)
			}
		}
	}
	*l = out
	return nil
}

func compact(items []string) []string {
	var out []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstList(lists ...stringList) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}
