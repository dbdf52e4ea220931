package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/bracket-manager/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type tokenInput struct {
	Password string `json:"password"`
}

// TokenHandler обрабатывает POST /auth/token
// @Summary Operator token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body tokenInput true "Operator password"
// @Success 200 {object} map[string]interface{} "token and expiresAt"
// @Failure 401 {object} map[string]string
// @Router /auth/token [post]
func (h *AuthHandler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var input tokenInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	token, expiresAt, err := h.authService.Login(input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "expiresAt": expiresAt}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
