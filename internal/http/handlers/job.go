package handlers

import (
	"net/http"
	"strings"

	"github.com/Mehdi-Zafar/job-portal-app/internal/app"
	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/job"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/middleware"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var p job.Posting
	if err := decodeJSON(r, &p); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), userID, p)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// Search serves the public listing of ACTIVE postings.
func (h *JobHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := windowFromQuery(r)
	filter := job.SearchFilter{
		Query:          strings.TrimSpace(q.Get("q")),
		Location:       strings.TrimSpace(q.Get("location")),
		EmploymentType: job.EmploymentType(strings.ToUpper(strings.TrimSpace(q.Get("employment_type")))),
		WorkplaceType:  job.WorkplaceType(strings.ToUpper(strings.TrimSpace(q.Get("workplace_type")))),
		Department:     strings.TrimSpace(q.Get("department")),
		Limit:          limit,
		Offset:         offset,
	}
	items, err := h.jobs.Search(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"jobs": items, "count": len(items)})
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	posting, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, posting)
}

func (h *JobHandler) ListByEmployer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.jobs.ListByEmployer(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"jobs": items, "count": len(items)})
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var p job.Posting
	if err := decodeJSON(r, &p); err != nil {
		response.Error(w, err)
		return
	}
	p.ID = jobID
	updated, err := h.jobs.Update(r.Context(), userID, p)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type jobStatusRequest struct {
	Status string `json:"status"`
}

func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req jobStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewError(common.CodeValidation, "status is required", nil))
		return
	}
	updated, err := h.jobs.UpdateStatus(r.Context(), userID, jobID, job.Status(strings.ToUpper(req.Status)))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.jobs.Delete(r.Context(), userID, jobID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "job deleted"})
}

func (h *JobHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Duplicate(r.Context(), userID, jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}
