package app

import (
	"context"
	"net/mail"
	"strings"

	"gohire/internal/common"
	"gohire/internal/domain/profile"
	"gohire/internal/observability"
)

type Logger interface {
	Info(msg string)
	Error(msg string)
}

func logInfo(logger Logger, msg string) {
	if logger == nil {
		return
	}
	logger.Info(msg)
}

func logError(logger Logger, msg string) {
	if logger == nil {
		return
	}
	logger.Error(msg)
}

func analyticsPayload(ctx context.Context, payload map[string]string) map[string]string {
	out := make(map[string]string, len(payload)+1)
	for key, value := range payload {
		out[key] = value
	}
	if requestID := observability.RequestIDFromContext(ctx); requestID != "" {
		out["request_id"] = requestID
	}
	return out
}

// requireRole loads the caller's profile and checks its role.
func requireRole(ctx context.Context, profiles profile.Repository, userID common.UUID, role profile.Role) (*profile.Profile, error) {
	p, err := profiles.GetByID(ctx, userID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeForbidden, "profile is required", err)
		}
		return nil, err
	}
	if p.Role != role {
		return nil, common.NewError(common.CodeForbidden, "only "+string(role)+" accounts can do this", nil)
	}
	return p, nil
}

func normalizeEmail(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", common.NewValidationError("invalid email", map[string]string{"email": "email is required"})
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", common.NewValidationError("invalid email", map[string]string{"email": "email is not valid"})
	}
	return trimmed, nil
}
