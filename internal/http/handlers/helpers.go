package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return common.NewError(common.CodeValidation, "request body is required", nil)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewError(common.CodeValidation, "request body is required", nil)
		}
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath extracts the UUID segment counting from the end of the path,
// so 1 is the last segment and 2 the one before it.
func idFromPath(r *http.Request, fromEnd int) (common.UUID, error) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if fromEnd < 1 || fromEnd > len(segments) {
		return "", common.NewError(common.CodeValidation, "invalid path", nil)
	}
	raw := segments[len(segments)-fromEnd]
	parsed, err := common.ParseUUID(raw)
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}

// windowFromQuery reads limit and offset query params, leaving zero values
// for the repository defaults when absent or malformed.
func windowFromQuery(r *http.Request) (limit, offset int) {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}
	return limit, offset
}
