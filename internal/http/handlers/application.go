package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/app"
	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/application"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/middleware"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

type submitRequest struct {
	JobPostingID     string   `json:"job_posting_id"`
	CoverLetter      string   `json:"cover_letter"`
	ResumeURL        string   `json:"resume_url"`
	ScreeningAnswers []string `json:"screening_answers"`
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.JobPostingID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"job_posting_id": "job_posting_id is required"}))
		return
	}
	jobPostingID, err := common.ParseUUID(req.JobPostingID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"job_posting_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "apply:" + jobPostingID.String() + ":" + userID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Submit(r.Context(), userID, app.SubmitInput{
		JobPostingID:     jobPostingID,
		CoverLetter:      req.CoverLetter,
		ResumeURL:        req.ResumeURL,
		ScreeningAnswers: req.ScreeningAnswers,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]interface{}{"message": "Application submitted successfully", "application": created})
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.applications.GetMyApplications(r.Context(), userID, filterFromQuery(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"applications": items, "count": len(items)})
}

func (h *ApplicationHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	stats, err := h.applications.GetApplicantStatistics(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

func (h *ApplicationHandler) ListForEmployer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	filter := filterFromQuery(r)
	if raw := strings.TrimSpace(r.URL.Query().Get("job_posting_id")); raw != "" {
		jobID, err := common.ParseUUID(raw)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"job_posting_id": "invalid uuid"}))
			return
		}
		filter.JobPostingID = jobID
	}
	items, err := h.applications.GetEmployerApplications(r.Context(), userID, filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"applications": items, "count": len(items)})
}

func (h *ApplicationHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.GetJobApplications(r.Context(), jobID, userID, filterFromQuery(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"applications": items, "count": len(items)})
}

func (h *ApplicationHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	applied, err := h.applications.HasApplied(r.Context(), userID, jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"hasApplied": applied})
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.FindByID(r.Context(), applicationID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ApplicationHandler) Activities(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.GetActivities(r.Context(), applicationID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"activities": items, "count": len(items)})
}

type applicationStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req applicationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewError(common.CodeValidation, "status is required", nil))
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), applicationID, userID, application.Status(req.Status), req.Notes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"message": "Application status updated", "application": updated})
}

type noteRequest struct {
	Notes string `json:"notes"`
}

func (h *ApplicationHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	activity, err := h.applications.AddNote(r.Context(), applicationID, userID, req.Notes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, activity)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Withdraw(r.Context(), applicationID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"message": "Application withdrawn", "application": updated})
}

func filterFromQuery(r *http.Request) application.Filter {
	limit, offset := windowFromQuery(r)
	return application.Filter{
		Status: application.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))),
		Limit:  limit,
		Offset: offset,
	}
}
