package http

import (
	"encoding/json"
	"net/http"

	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
	"go.uber.org/zap"
)

type AuthHandler struct {
	registrationService ports.RegistrationService
	authService         ports.AuthService
	log                 *zap.SugaredLogger
}

func NewAuthHandler(registrationService ports.RegistrationService, authService ports.AuthService, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		registrationService: registrationService,
		authService:         authService,
		log:                 log,
	}
}

type registerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	DateOfBirth   string `json:"dob"`
	AdmissionCode string `json:"admissionCode"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFormError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	voter, err := h.registrationService.Register(r.Context(), ports.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		DateOfBirth:   req.DateOfBirth,
		AdmissionCode: req.AdmissionCode,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "REGISTER_SUCCESS",
		"voterId": voter.ID.String(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFormError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, role, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "LOGIN_SUCCESS",
		"token":   token,
		"role":    string(domain.Role(role)),
	})
}
