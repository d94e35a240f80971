package handlers

import (
	"fmt"
	"net/http"

	"github.com/Mehdi-Zafar/job-portal-app/internal/http/metrics"
)

type MetricsHandler struct {
	collector *metrics.Collector
}

func NewMetricsHandler(collector *metrics.Collector) *MetricsHandler {
	return &MetricsHandler{collector: collector}
}

func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot := h.collector.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "job_portal_requests_total %d\n", snapshot.Requests)
	fmt.Fprintf(w, "job_portal_errors_total %d\n", snapshot.Errors)
}
