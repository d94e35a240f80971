package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/user"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/handlers"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/metrics"
	httpmw "github.com/Mehdi-Zafar/job-portal-app/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	ProfileHandler     *handlers.ProfileHandler
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
	MetricsHandler     *handlers.MetricsHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/register":
			r.deps.AuthHandler.Register(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/login":
			r.deps.AuthHandler.Login(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/refresh":
			r.deps.AuthHandler.Refresh(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/logout":
			r.deps.AuthHandler.Logout(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs":
			r.deps.JobHandler.Search(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/jobs/") && strings.Count(path, "/") == 2:
			r.deps.JobHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/users") || strings.HasPrefix(path, "/applicants") || strings.HasPrefix(path, "/employers") || strings.HasPrefix(path, "/jobs") || strings.HasPrefix(path, "/applications") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && path == "/users/me":
		r.deps.UserHandler.Me(w, req)
		return
	case req.Method == http.MethodPatch && path == "/users/role":
		r.deps.UserHandler.AddRole(w, req)
		return
	case req.Method == http.MethodGet && path == "/applicants/profile":
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ProfileHandler.GetApplicant)).ServeHTTP(w, req)
		return
	case (req.Method == http.MethodPost || req.Method == http.MethodPut) && path == "/applicants/profile":
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ProfileHandler.UpsertApplicant)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/employers/profile":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ProfileHandler.GetEmployer)).ServeHTTP(w, req)
		return
	case (req.Method == http.MethodPost || req.Method == http.MethodPut) && path == "/employers/profile":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ProfileHandler.UpsertEmployer)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/employers/jobs":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.ListByEmployer)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/jobs":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/jobs/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.Delete)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/jobs/") && strings.HasSuffix(path, "/duplicate"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.Duplicate)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ApplicationHandler.Submit)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications/my":
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ApplicationHandler.ListMine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications/my/statistics":
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ApplicationHandler.Statistics)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications/employer":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ApplicationHandler.ListForEmployer)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/job/"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ApplicationHandler.ListForJob)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/check/"):
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ApplicationHandler.Check)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ApplicationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/notes"):
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.ApplicationHandler.AddNote)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/activities"):
		r.deps.ApplicationHandler.Activities(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/") && strings.Count(path, "/") == 2:
		r.deps.ApplicationHandler.Get(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/applications/") && strings.Count(path, "/") == 2:
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ApplicationHandler.Withdraw)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}
