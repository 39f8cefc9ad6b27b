package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gohire/internal/common"
)

type errorCounter interface {
	IncErrors()
}

var collector errorCounter

// SetErrorCollector registers the counter bumped on every 5xx answer.
func SetErrorCollector(c errorCounter) {
	collector = c
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = common.NewError(common.CodeInternal, "internal error", err)
	}
	status := StatusFor(appErr.Code)
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		message = "internal error"
		if collector != nil {
			collector.IncErrors()
		}
	}
	JSON(w, status, errorBody{Error: errorPayload{Code: appErr.Code, Message: message, Fields: appErr.Fields}})
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
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
