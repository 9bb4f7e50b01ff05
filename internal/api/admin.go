package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fairental/fairbot/internal/correction"
	"github.com/fairental/fairbot/internal/event"
	"github.com/fairental/fairbot/internal/history"
)

type correctRequest struct {
	SessionID           string `json:"sessionId"`
	InteractionID       string `json:"interactionId"`
	UserQuestion        string `json:"userQuestion"`
	OriginalAIResponse  string `json:"originalAIResponse"`
	CorrectedAIResponse string `json:"correctedAIResponse"`
	AdminID             string `json:"adminId,omitempty"`
	CorrectionTimestamp string `json:"correctionTimestamp,omitempty"`
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	err := s.corrections.Submit(r.Context(), correction.Correction{
		SessionID:       req.SessionID,
		InteractionID:   req.InteractionID,
		UserQuestion:    req.UserQuestion,
		OriginalAnswer:  req.OriginalAIResponse,
		CorrectedAnswer: req.CorrectedAIResponse,
		AdminID:         req.AdminID,
		Timestamp:       req.CorrectionTimestamp,
	})
	switch {
	case errors.Is(err, correction.ErrMissingField), errors.Is(err, correction.ErrEmptyCorrection):
		respondMessage(w, http.StatusBadRequest, "Missing required fields for admin correction.")
		return
	case err != nil:
		s.logger.Error("correction request failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to save admin correction.")
		return
	}

	respondMessage(w, http.StatusOK, "Admin correction saved successfully.")
}

type historyMeta struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalGroups  int `json:"total_interaction_groups"`
	LimitPerPage int `json:"limit_per_page"`
}

type historyResponse struct {
	Summary history.Summary `json:"summary"`
	History []event.Event   `json:"history"`
	Meta    historyMeta     `json:"meta"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pagingParams(w, r)
	if !ok {
		return
	}
	filter, ok := historyFilter(w, r)
	if !ok {
		return
	}

	events, err := s.fetchEvents(r, filter.SessionID)
	if err != nil {
		s.logger.Error("history read failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to retrieve history.")
		return
	}

	filtered := filter.Apply(events)
	groups := history.Read(filtered)
	paged := history.Paginate(groups, page, limit)

	flat := make([]event.Event, 0, len(paged.Groups)*3)
	for _, g := range paged.Groups {
		flat = append(flat, g.Events()...)
	}

	respondJSON(w, http.StatusOK, historyResponse{
		Summary: history.Summarize(filtered, groups),
		History: flat,
		Meta: historyMeta{
			CurrentPage:  paged.CurrentPage,
			TotalPages:   paged.TotalPages,
			TotalGroups:  paged.TotalGroups,
			LimitPerPage: paged.Limit,
		},
	})
}

func (s *Server) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	filter, ok := historyFilter(w, r)
	if !ok {
		return
	}

	events, err := s.fetchEvents(r, filter.SessionID)
	if err != nil {
		s.logger.Error("history export read failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to retrieve history.")
		return
	}

	groups := history.Read(filter.Apply(events))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="fairbot-history.csv"`)
	if err := history.ExportCSV(w, groups); err != nil {
		s.logger.Error("history export failed", "error", err)
	}
}

func (s *Server) fetchEvents(r *http.Request, sessionID string) ([]event.Event, error) {
	if sessionID != "" {
		return s.events.ListBySession(r.Context(), sessionID, 0)
	}
	return s.events.ListAll(r.Context(), 0)
}

func pagingParams(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	page, limit = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondMessage(w, http.StatusBadRequest, "Invalid 'page' query parameter. Must be a positive integer.")
			return 0, 0, false
		}
		page = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondMessage(w, http.StatusBadRequest, "Invalid 'limit' query parameter. Must be a positive integer.")
			return 0, 0, false
		}
		limit = n
	}
	return page, limit, true
}

func historyFilter(w http.ResponseWriter, r *http.Request) (history.Filter, bool) {
	filter := history.Filter{
		SessionID: r.URL.Query().Get("sessionId"),
		Query:     r.URL.Query().Get("q"),
	}
	if v := r.URL.Query().Get("eventType"); v != "" {
		typ := event.Type(v)
		if !typ.Valid() {
			respondMessage(w, http.StatusBadRequest, "Invalid 'eventType' query parameter.")
			return history.Filter{}, false
		}
		filter.EventType = typ
	}
	return filter, true
}
