package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

type ErrorCollector interface {
	IncErrors()
}

var errorCollector ErrorCollector

// SetErrorCollector wires a metrics collector so error responses are counted.
func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, err error) {
	if errorCollector != nil {
		errorCollector.IncErrors()
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: string(common.CodeInternal)})
		return
	}
	JSON(w, statusFor(appErr.Code), errorBody{Error: appErr.Message, Code: string(appErr.Code), Fields: appErr.Fields})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation, common.CodeInvalidState:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
