package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shametoflame/ministry/internal/response"
	"github.com/shametoflame/ministry/internal/service"
)

type adminHandler struct {
	admin    *service.AdminService
	messages *service.MessageService
}

func NewAdminHandler(admin *service.AdminService, messages *service.MessageService) *adminHandler {
	return &adminHandler{
		admin:    admin,
		messages: messages,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the password and emails a single-use code. The response is the
// same for every failure so credentials cannot be probed.
func (h *adminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.admin.RequestCode(strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	response.Accepted(w, "sign-in code sent")
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *adminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.admin.VerifyCode(strings.TrimSpace(strings.ToLower(req.Email)), strings.TrimSpace(req.Code))
	if err != nil {
		if errors.Is(err, service.ErrInvalidLoginCode) {
			response.Error(w, http.StatusUnauthorized, "invalid or expired code")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not verify code")
		return
	}

	response.Success(w, map[string]any{"token": token})
}

func (h *adminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.Messages()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load messages")
		return
	}

	response.Success(w, messages)
}

func (h *adminHandler) Message(w http.ResponseWriter, r *http.Request) {
	message, err := h.messages.Read(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "message not found")
		return
	}

	response.Success(w, message)
}
