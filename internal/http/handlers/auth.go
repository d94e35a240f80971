package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/app"
	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/user"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/middleware"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/response"
)

type AuthHandler struct {
	auth    *app.AuthService
	limiter middleware.Limiter
}

func NewAuthHandler(auth *app.AuthService, limiter middleware.Limiter) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "register:" + middleware.ClientIP(r)
		if !h.limiter.Allow(key, 5, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "too many registration attempts", nil))
			return
		}
	}
	result, err := h.auth.Register(r.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     user.Role(req.Role),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "login:" + strings.ToLower(strings.TrimSpace(req.Email))
		if !h.limiter.Allow(key, 10, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "too many login attempts", nil))
			return
		}
	}
	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"refresh_token": "refresh_token is required"}))
		return
	}
	result, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
