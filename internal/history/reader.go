// Package history reconstructs the interaction timeline from the raw
// event log. It is pure computation over an event snapshot: no I/O, no
// locks, safe to re-run concurrently, deterministic for a given input.
package history

import (
	"sort"
	"strings"

	"github.com/fairental/fairbot/internal/event"
)

// Group is one question/answer exchange plus its amendment trail.
type Group struct {
	InteractionID string
	SessionID     string
	Question      event.Event
	Response      event.Event
	Corrections   []event.Event
}

// Corrected reports whether the group has at least one admin correction.
// Corrections never replace the question or response fields.
func (g Group) Corrected() bool {
	return len(g.Corrections) > 0
}

// LatestTimestamp returns the newest timestamp across the group's events.
// Groups are presented newest-activity first, so a fresh correction
// surfaces an old interaction.
func (g Group) LatestTimestamp() string {
	latest := g.Question.Timestamp
	if g.Response.Timestamp > latest {
		latest = g.Response.Timestamp
	}
	for _, c := range g.Corrections {
		if c.Timestamp > latest {
			latest = c.Timestamp
		}
	}
	return latest
}

// Events flattens the group back into chronological raw events: question,
// response, then corrections in encounter order.
func (g Group) Events() []event.Event {
	events := make([]event.Event, 0, 2+len(g.Corrections))
	events = append(events, g.Question, g.Response)
	events = append(events, g.Corrections...)
	return events
}

// Filter is a pure predicate over raw events. Zero value matches
// everything. Query does a case-insensitive substring match across
// content, session id, and interaction id; EventType and SessionID match
// exactly.
type Filter struct {
	Query     string
	EventType event.Type
	SessionID string
}

func (f Filter) Matches(ev event.Event) bool {
	if f.SessionID != "" && ev.SessionID != f.SessionID {
		return false
	}
	if f.EventType != "" && ev.EventType != f.EventType {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(ev.Content), q) &&
			!strings.Contains(strings.ToLower(ev.SessionID), q) &&
			!strings.Contains(strings.ToLower(ev.InteractionID), q) {
			return false
		}
	}
	return true
}

// Apply returns the events matching f, preserving input order.
func (f Filter) Apply(events []event.Event) []event.Event {
	if f == (Filter{}) {
		return events
	}
	var out []event.Event
	for _, ev := range events {
		if f.Matches(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// Read groups an event snapshot into complete interactions:
//
//  1. Stable sort ascending by timestamp; ties keep snapshot order. The
//     timestamp format sorts lexicographically in chronological order.
//  2. Partition by interaction id. A group takes the first QUESTION and
//     first AI_RESPONSE it sees; corrections accumulate in encounter
//     order.
//  3. Only groups holding both a question and a response are emitted.
//     Half-interactions are log artifacts (e.g. from a producer that died
//     mid-write) and are dropped silently — the admin view depends on
//     this tolerance, so it must not become an error.
//
// Emitted groups are ordered by latest activity, newest first.
func Read(events []event.Event) []Group {
	sorted := make([]event.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	groups := make(map[string]*Group)
	var order []string
	for _, ev := range sorted {
		if ev.InteractionID == "" {
			continue
		}
		g, ok := groups[ev.InteractionID]
		if !ok {
			g = &Group{InteractionID: ev.InteractionID, SessionID: ev.SessionID}
			groups[ev.InteractionID] = g
			order = append(order, ev.InteractionID)
		}
		switch ev.EventType {
		case event.TypeQuestion:
			if g.Question.EventType == "" {
				g.Question = ev
			}
		case event.TypeAIResponse:
			if g.Response.EventType == "" {
				g.Response = ev
			}
		case event.TypeCorrection:
			g.Corrections = append(g.Corrections, ev)
		}
	}

	var complete []Group
	for _, id := range order {
		g := groups[id]
		if g.Question.EventType == "" || g.Response.EventType == "" {
			continue
		}
		complete = append(complete, *g)
	}

	sort.SliceStable(complete, func(i, j int) bool {
		return complete[i].LatestTimestamp() > complete[j].LatestTimestamp()
	})
	return complete
}

// Page is one page of interaction groups plus paging metadata.
type Page struct {
	Groups      []Group
	CurrentPage int
	TotalPages  int
	TotalGroups int
	Limit       int
}

// Paginate slices groups into pages of limit groups each. Pages are
// 1-based; out-of-range pages return an empty page with intact metadata.
func Paginate(groups []Group, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	total := len(groups)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Groups:      groups[start:end],
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalGroups: total,
		Limit:       limit,
	}
}

// Summary holds the admin dashboard counters, computed over the raw
// (pre-pagination) event snapshot.
type Summary struct {
	TotalInteractionGroups int `json:"totalInteractionGroups"`
	TotalLogEntries        int `json:"totalIndividualLogEntries"`
	TotalQuestions         int `json:"totalQuestions"`
	TotalAIResponses       int `json:"totalAIResponses"`
	TotalAdminCorrections  int `json:"totalAdminCorrections"`
	UniqueSessionCount     int `json:"uniqueSessionCount"`
}

// Summarize counts events by type and distinct sessions. The group count
// reflects complete groups only, matching what Read emits.
func Summarize(events []event.Event, groups []Group) Summary {
	s := Summary{
		TotalInteractionGroups: len(groups),
		TotalLogEntries:        len(events),
	}
	sessions := make(map[string]bool)
	for _, ev := range events {
		switch ev.EventType {
		case event.TypeQuestion:
			s.TotalQuestions++
		case event.TypeAIResponse:
			s.TotalAIResponses++
		case event.TypeCorrection:
			s.TotalAdminCorrections++
		}
		if ev.SessionID != "" {
			sessions[ev.SessionID] = true
		}
	}
	s.UniqueSessionCount = len(sessions)
	return s
}
