package handlers

import (
	"net/http"

	"github.com/Mehdi-Zafar/job-portal-app/internal/app"
	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/user"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/middleware"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/response"
)

type UserHandler struct {
	users *app.UserService
}

func NewUserHandler(users *app.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	account, err := h.users.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

type addRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) AddRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req addRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Role == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"role": "role is required"}))
		return
	}
	if err := h.users.AddRole(r.Context(), userID, user.Role(req.Role)); err != nil {
		response.Error(w, err)
		return
	}
	account, err := h.users.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}
