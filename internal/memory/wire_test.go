package memory

import (
	"testing"
)

func TestDecodeObservations_CamelCase(t *testing.T) {
	body := `{"observations":[{
		"id": 7,
		"sessionId": "s-1",
		"project": "vibe-reflect",
		"type": "bugfix",
		"title": "Fix nil map",
		"facts": ["map was nil", ""],
		"concepts": ["maps"],
		"filesModified": ["internal/a.go"],
		"promptNumber": 3,
		"createdAt": "2026-02-03T10:00:00Z",
		"createdAtEpoch": 1770112800000
	}]}`

	obs, err := decodeObservations([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	o := obs[0]
	if o.ID != 7 || o.SessionID != "s-1" || o.Project != "vibe-reflect" {
		t.Errorf("identity fields = %+v", o)
	}
	if o.Kind != KindBugfix {
		t.Errorf("Kind = %q, want bugfix", o.Kind)
	}
	if len(o.Facts) != 1 || o.Facts[0] != "map was nil" {
		t.Errorf("Facts = %v", o.Facts)
	}
	if len(o.FilesModified) != 1 || o.FilesModified[0] != "internal/a.go" {
		t.Errorf("FilesModified = %v", o.FilesModified)
	}
	if o.PromptNumber == nil || *o.PromptNumber != 3 {
		t.Errorf("PromptNumber = %v", o.PromptNumber)
	}
	if o.CreatedAtEpoch != 1770112800000 {
		t.Errorf("CreatedAtEpoch = %d", o.CreatedAtEpoch)
	}
}

func TestDecodeObservations_SnakeCaseResults(t *testing.T) {
	body := `{"results":[{
		"id": 9,
		"sdk_session_id": "sdk-9",
		"project": "p",
		"type": "decision",
		"facts": "[\"chose sqlite\"]",
		"files_modified": "[\"db.go\",\"db_test.go\"]",
		"files_read": "README.md",
		"prompt_number": 1,
		"created_at": "2026-02-03T11:00:00Z",
		"created_at_epoch": 1770116400000
	}]}`

	obs, err := decodeObservations([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	o := obs[0]
	if o.SessionID != "sdk-9" {
		t.Errorf("SessionID = %q", o.SessionID)
	}
	if o.Kind != KindDecision {
		t.Errorf("Kind = %q", o.Kind)
	}
	if len(o.Facts) != 1 || o.Facts[0] != "chose sqlite" {
		t.Errorf("Facts = %v", o.Facts)
	}
	if len(o.FilesModified) != 2 {
		t.Errorf("FilesModified = %v", o.FilesModified)
	}
	if len(o.FilesRead) != 1 || o.FilesRead[0] != "README.md" {
		t.Errorf("FilesRead = %v", o.FilesRead)
	}
	if o.PromptNumber == nil || *o.PromptNumber != 1 {
		t.Errorf("PromptNumber = %v", o.PromptNumber)
	}
	if o.CreatedAt != "2026-02-03T11:00:00Z" {
		t.Errorf("CreatedAt = %q", o.CreatedAt)
	}
}

func TestNormalize_EpochFromTimestamp(t *testing.T) {
	o := normalize(wireObservation{ID: 1, CreatedAt: "2026-02-03T10:00:00Z"})
	if o.CreatedAtEpoch != 1770112800000 {
		t.Errorf("CreatedAtEpoch = %d, want derived from CreatedAt", o.CreatedAtEpoch)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	if got := ParseKind("mystery"); got != KindChange {
		t.Errorf("ParseKind(mystery) = %q, want change", got)
	}
	for _, k := range Kinds {
		if got := ParseKind(string(k)); got != k {
			t.Errorf("ParseKind(%q) = %q", k, got)
		}
	}
}

func TestParseListText(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"[]", 0},
		{`["a","b"]`, 2},
		{"plain", 1},
		{"[not json", 1},
	}
	for _, tt := range tests {
		if got := parseListText(tt.in); len(got) != tt.want {
			t.Errorf("parseListText(%q) = %v, want %d items", tt.in, got, tt.want)
		}
	}
}

func TestProjectList(t *testing.T) {
	var env envelope
	body := `{"projects":["a",{"name":"b"},{"project":"c"},{"other":1}]}`
	if err := jsonUnmarshal(body, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(env.Projects) != 3 {
		t.Errorf("Projects = %v, want [a b c]", env.Projects)
	}
}

func TestNormalize_StripsWrapperTags(t *testing.T) {
	o := normalize(wireObservation{
		Title:     "<system-reminder>Fix cache</system-reminder>",
		Narrative: "Held the lock\n\n\n\nacross flush.<private></private>",
		Facts:     stringList{"<thinking></thinking>", "lock order matters"},
	})
	if o.Title != "Fix cache" {
		t.Errorf("Title = %q", o.Title)
	}
	if o.Narrative != "Held the lock\n\nacross flush." {
		t.Errorf("Narrative = %q", o.Narrative)
	}
	if len(o.Facts) != 1 || o.Facts[0] != "lock order matters" {
		t.Errorf("Facts = %v", o.Facts)
	}
}
