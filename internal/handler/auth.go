package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/middleware"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/service"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/utils"
)

type AuthHandler struct {
	svc    *service.AuthService
	secure bool // set cookies Secure in production
}

func NewAuthHandler(svc *service.AuthService, secure bool) *AuthHandler {
	return &AuthHandler{svc: svc, secure: secure}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input core.UserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.svc.Register(r.Context(), input); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteMessage(w, "User registered successfully", http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input core.UserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	token, user, err := h.svc.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		utils.WriteError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Path:     "/",
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteSuccess(w, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	}, http.StatusOK)
}

func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	utils.WriteSuccess(w, map[string]string{
		"status":  "authenticated",
		"user_id": userID,
	}, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteMessage(w, "Logged out", http.StatusOK)
}
