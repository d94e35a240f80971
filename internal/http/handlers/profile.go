package handlers

import (
	"net/http"

	"github.com/Mehdi-Zafar/job-portal-app/internal/app"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/profile"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/middleware"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/response"
)

type ProfileHandler struct {
	profiles *app.ProfileService
}

func NewProfileHandler(profiles *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) GetApplicant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	p, err := h.profiles.GetApplicant(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) UpsertApplicant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var p profile.ApplicantProfile
	if err := decodeJSON(r, &p); err != nil {
		response.Error(w, err)
		return
	}
	saved, err := h.profiles.UpsertApplicant(r.Context(), userID, p)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, saved)
}

func (h *ProfileHandler) GetEmployer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	p, err := h.profiles.GetEmployer(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) UpsertEmployer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var p profile.EmployerProfile
	if err := decodeJSON(r, &p); err != nil {
		response.Error(w, err)
		return
	}
	saved, err := h.profiles.UpsertEmployer(r.Context(), userID, p)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, saved)
}
