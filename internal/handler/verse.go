package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shametoflame/ministry/internal/response"
	"github.com/shametoflame/ministry/internal/service"
	"github.com/shametoflame/ministry/internal/validation"
)

type verseHandler struct {
	verseOfDay *service.VerseOfDayService
}

func NewVerseHandler(verseOfDay *service.VerseOfDayService) *verseHandler {
	return &verseHandler{
		verseOfDay: verseOfDay,
	}
}

func (h *verseHandler) Today(w http.ResponseWriter, r *http.Request) {
	verse, err := h.verseOfDay.Today(r.Context())
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "verse of the day unavailable")
		return
	}

	response.Success(w, verse)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *verseHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if err := validation.ValidateEmail(email); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.verseOfDay.Subscribe(email)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not subscribe")
		return
	}

	// Always succeed for valid addresses (prevents email enumeration)
	response.Success(w, map[string]any{"subscribed": true})
}

func (h *verseHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("email")))
	if err := validation.ValidateEmail(email); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.verseOfDay.Unsubscribe(email)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not unsubscribe")
		return
	}

	response.Success(w, map[string]any{"subscribed": false})
}
