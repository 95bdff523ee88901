package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shametoflame/ministry/internal/response"
	"github.com/shametoflame/ministry/internal/service"
	"github.com/shametoflame/ministry/internal/validation"
)

type contactHandler struct {
	messages *service.MessageService
}

func NewContactHandler(messages *service.MessageService) *contactHandler {
	return &contactHandler{
		messages: messages,
	}
}

type contactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	RequestType string `json:"requestType"`
	Message     string `json:"message"`
}

func (h *contactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := validation.ValidateName(req.Name); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateRequestType(req.RequestType); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateMessageText(req.Message); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.messages.Submit(req.Name, req.Email, req.RequestType, req.Message)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not submit message")
		return
	}

	response.Created(w, map[string]any{"id": message.ID})
}
