package bus

import (
	"encoding/json"
	"testing"
)

func TestInteractionRecordedRoundTrip(t *testing.T) {
	payload := InteractionRecorded{
		SessionID:     "sess-1",
		InteractionID: "int-1",
		Timestamp:     "2026-08-31T10:00:00.000Z",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var parsed InteractionRecorded
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if parsed != payload {
		t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, payload)
	}
}

func TestCorrectionRecordedOmitsEmptyAdmin(t *testing.T) {
	payload := CorrectionRecorded{
		SessionID:     "sess-1",
		InteractionID: "int-1",
		Timestamp:     "2026-08-31T10:00:00.000Z",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := m["admin_id"]; ok {
		t.Error("expected empty admin_id to be omitted")
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	if err := p.Publish(SubjectInteractionRecorded, InteractionRecorded{}); err != nil {
		t.Errorf("expected nil publisher to be a no-op, got %v", err)
	}
	p.Close()
}

func TestSubjectConstants(t *testing.T) {
	if SubjectInteractionRecorded != "fairbot.chat.interaction.recorded" {
		t.Errorf("unexpected interaction subject %q", SubjectInteractionRecorded)
	}
	if SubjectCorrectionRecorded != "fairbot.admin.correction.recorded" {
		t.Errorf("unexpected correction subject %q", SubjectCorrectionRecorded)
	}
}
