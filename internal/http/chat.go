package httpapi

import (
	"encoding/json"
	"net/http"

	"codemart-backend-go/internal/services"
)

type ChatRequest struct {
	Message string              `json:"message" validate:"required,min=1,max=4000"`
	History []services.ChatTurn `json:"history" validate:"max=50"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) ChatRelay(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}
	reply, err := s.Chat.Reply(r.Context(), req.Message, req.History)
	if mapServiceError(w, err) {
		return
	}
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Chat service unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
