package event

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTypeValid(t *testing.T) {
	for _, typ := range []Type{TypeQuestion, TypeAIResponse, TypeCorrection} {
		if !typ.Valid() {
			t.Errorf("expected %s to be valid", typ)
		}
	}
	if Type("NOT_A_TYPE").Valid() {
		t.Error("expected unknown type to be invalid")
	}
	if Type("").Valid() {
		t.Error("expected empty type to be invalid")
	}
}

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp(time.Date(2026, 8, 31, 14, 2, 7, 123_000_000, time.UTC))
	if ts != "2026-08-31T14:02:07.123Z" {
		t.Errorf("unexpected timestamp format: %s", ts)
	}

	parsed, err := ParseTimestamp(ts)
	if err != nil {
		t.Fatalf("failed to parse timestamp: %v", err)
	}
	if !parsed.Equal(time.Date(2026, 8, 31, 14, 2, 7, 123_000_000, time.UTC)) {
		t.Errorf("round-trip mismatch: %v", parsed)
	}
}

func TestTimestampLexicographicOrder(t *testing.T) {
	earlier := Timestamp(time.Date(2026, 8, 31, 9, 59, 59, 999_000_000, time.UTC))
	later := Timestamp(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))
	if !(earlier < later) {
		t.Errorf("expected %s < %s", earlier, later)
	}
}

func TestEventWireFormat(t *testing.T) {
	ev := Event{
		SessionID:     "sess-1",
		InteractionID: "int-1",
		Timestamp:     "2026-08-31T10:00:00.000Z",
		EventType:     TypeQuestion,
		Content:       "what does the daily rate include?",
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	for _, key := range []string{`"SessionId"`, `"InteractionId"`, `"Timestamp"`, `"EventType"`, `"Content"`} {
		if !strings.Contains(body, key) {
			t.Errorf("expected wire key %s in %s", key, body)
		}
	}
	if strings.Contains(body, `"UserQuestion"`) {
		t.Errorf("expected empty UserQuestion to be omitted: %s", body)
	}

	var parsed Event
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed != ev {
		t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, ev)
	}
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n  "} {
		if !IsBlank(s) {
			t.Errorf("expected %q to be blank", s)
		}
	}
	if IsBlank(" hello ") {
		t.Error("expected non-empty string not to be blank")
	}
}
