package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairental/fairbot/internal/answer"
	"github.com/fairental/fairbot/internal/chat"
)

type chatRequest struct {
	UserQuestion string `json:"userQuestion"`
	SessionID    string `json:"sessionId,omitempty"`
}

type chatResponse struct {
	Response      string `json:"response"`
	SessionID     string `json:"sessionId"`
	InteractionID string `json:"interactionId"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	res, err := s.chat.SendMessage(r.Context(), req.UserQuestion, req.SessionID)
	switch {
	case errors.Is(err, chat.ErrEmptyQuestion):
		respondMessage(w, http.StatusBadRequest, "Missing 'userQuestion' in request body.")
		return
	case errors.Is(err, answer.ErrUpstream):
		s.logger.Error("answer engine failure", "error", err)
		respondMessage(w, http.StatusBadGateway, "The assistant is temporarily unavailable.")
		return
	case err != nil:
		s.logger.Error("chat request failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to process chat request.")
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{
		Response:      res.Answer,
		SessionID:     res.SessionID,
		InteractionID: res.InteractionID,
	})
}
