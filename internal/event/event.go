package event

import (
	"strings"
	"time"
)

// Type classifies a log entry. The set is closed: every record in the
// interaction log is exactly one of these.
type Type string

const (
	TypeQuestion   Type = "QUESTION"
	TypeAIResponse Type = "AI_RESPONSE"
	TypeCorrection Type = "ADMIN_CORRECTION"
)

// Valid reports whether t is one of the known event types.
func (t Type) Valid() bool {
	switch t {
	case TypeQuestion, TypeAIResponse, TypeCorrection:
		return true
	}
	return false
}

// Event is one immutable record in the interaction log. Records are only
// ever appended; there is no update or delete anywhere in the system.
//
// JSON field names are PascalCase — the wire contract the admin console
// already depends on.
type Event struct {
	SessionID     string `json:"SessionId"`
	InteractionID string `json:"InteractionId"`
	Timestamp     string `json:"Timestamp"`
	EventType     Type   `json:"EventType"`
	Content       string `json:"Content"`

	// Correction-only fields. UserQuestion and OriginalAIResponse carry the
	// original exchange so the admin view needs no join.
	UserQuestion        string `json:"UserQuestion,omitempty"`
	OriginalAIResponse  string `json:"OriginalAIResponse,omitempty"`
	AdminID             string `json:"AdminId,omitempty"`
	CorrectionTimestamp string `json:"CorrectionTimestamp,omitempty"`
}

// timestampLayout renders an RFC3339 UTC instant with millisecond
// precision, e.g. "2026-08-31T14:02:07.123Z". Lexicographic order on this
// form equals chronological order, which the history reader relies on.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t for the log.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp parses a log timestamp back into a time.Time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// IsBlank reports whether s is empty or whitespace only. Gateways use it
// to reject input before any side effect.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
