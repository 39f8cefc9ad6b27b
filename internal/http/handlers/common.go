package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"gohire/internal/common"
)

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "unauthorized", nil)
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return common.NewError(common.CodeValidation, "request body is required", nil)
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return common.NewError(common.CodeValidation, "request body too large", err)
		case errors.Is(err, io.EOF):
			return common.NewError(common.CodeValidation, "request body is required", err)
		default:
			return common.NewError(common.CodeValidation, "invalid json", err)
		}
	}
	return nil
}

// idFromPath parses the UUID at the given segment of the URL path, counting
// the empty segment before the leading slash as 0.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(r.URL.Path, "/")
	if index >= len(parts) {
		return "", common.NewError(common.CodeNotFound, "resource not found", nil)
	}
	id, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return id, nil
}

func parseUUIDField(value, field string) (common.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return "", common.NewValidationError("invalid request", map[string]string{field: field + " is required"})
	}
	id, err := common.ParseUUID(value)
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{field: "invalid uuid"})
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, common.NewValidationError("invalid "+key, map[string]string{key: key + " must be a non-negative integer"})
	}
	return value, nil
}

func rateLimited(message string) error {
	return common.NewError(common.CodeRateLimited, message, nil)
}
