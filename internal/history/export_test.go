package history

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fairental/fairbot/internal/event"
)

func TestCSVRoundTrip(t *testing.T) {
	groups := []Group{
		{
			InteractionID: "int-1",
			SessionID:     "sess-1",
			Question: event.Event{
				EventType: event.TypeQuestion,
				Timestamp: "2026-08-31T10:00:00.000Z",
				Content:   `does the rate include "roadside assistance", insurance?`,
			},
			Response: event.Event{
				EventType: event.TypeAIResponse,
				Timestamp: "2026-08-31T10:00:02.000Z",
				Content:   "Yes — both are included.\nNo extra fees apply.",
			},
		},
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, groups); err != nil {
		t.Fatalf("export: %v", err)
	}

	flats, err := ImportCSV(&buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(flats) != 1 {
		t.Fatalf("expected 1 row, got %d", len(flats))
	}

	f := flats[0]
	if f.SessionID != "sess-1" || f.InteractionID != "int-1" {
		t.Errorf("identifiers not preserved: %+v", f)
	}
	if f.Timestamp != "2026-08-31T10:00:00.000Z" {
		t.Errorf("timestamp not preserved: %q", f.Timestamp)
	}
	if f.Question != groups[0].Question.Content {
		t.Errorf("question not preserved: %q", f.Question)
	}
	if f.Response != groups[0].Response.Content {
		t.Errorf("response not preserved: %q", f.Response)
	}
}

func TestExportCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if strings.TrimSpace(first) != "session,interaction,timestamp,question,response" {
		t.Errorf("unexpected header: %q", first)
	}
}

func TestImportCSV_RejectsBadHeader(t *testing.T) {
	if _, err := ImportCSV(strings.NewReader("a,b,c\n1,2,3\n")); err == nil {
		t.Fatal("expected error for wrong header width")
	}
	if _, err := ImportCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}
