package middleware

import (
	"context"
	"net/http"
	"strings"

	"gohire/internal/common"
	"gohire/internal/domain/auth"
	"gohire/internal/domain/profile"
	"gohire/internal/http/response"
	"gohire/internal/security"
)

type contextKey string

const (
	ContextUserIDKey  contextKey = "user_id"
	ContextRoleKey    contextKey = "role"
	ContextPurposeKey contextKey = "purpose"
	ContextTokenKey   contextKey = "access_token"
)

// recoveryPaths are the only routes a recovery session may call.
var recoveryPaths = map[string]bool{
	"/auth/session":         true,
	"/auth/session/stream":  true,
	"/auth/update-password": true,
}

type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			response.Error(w, err)
			return
		}
		claims, err := m.jwt.Parse(token)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		userID, err := common.ParseUUID(string(claims.UserID()))
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid user id", err))
			return
		}
		if auth.Purpose(claims.Purpose) == auth.PurposeRecovery && !recoveryPaths[r.URL.Path] {
			response.Error(w, common.NewError(common.CodeForbidden, "recovery session can only update the password", nil))
			return
		}
		ctx := context.WithValue(r.Context(), ContextUserIDKey, userID)
		ctx = context.WithValue(ctx, ContextRoleKey, profile.Role(claims.Role))
		ctx = context.WithValue(ctx, ContextPurposeKey, claims.Purpose)
		ctx = context.WithValue(ctx, ContextTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken reads the Authorization header. Event streams opened by a
// browser cannot set headers, so they may pass access_token in the query.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if strings.HasSuffix(r.URL.Path, "/stream") {
			if token := strings.TrimSpace(r.URL.Query().Get("access_token")); token != "" {
				return token, nil
			}
		}
		return "", common.NewError(common.CodeUnauthorized, "missing authorization header", nil)
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", common.NewError(common.CodeUnauthorized, "invalid authorization header", nil)
	}
	return strings.TrimSpace(parts[1]), nil
}

func RequireRole(role profile.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			activeRole, ok := r.Context().Value(ContextRoleKey).(profile.Role)
			if !ok || activeRole == "" {
				response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
				return
			}
			if activeRole != role {
				response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserIDFromContext(ctx context.Context) (common.UUID, bool) {
	id, ok := ctx.Value(ContextUserIDKey).(common.UUID)
	return id, ok
}

func RoleFromContext(ctx context.Context) (profile.Role, bool) {
	role, ok := ctx.Value(ContextRoleKey).(profile.Role)
	return role, ok
}

func PurposeFromContext(ctx context.Context) string {
	purpose, _ := ctx.Value(ContextPurposeKey).(string)
	return purpose
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ContextTokenKey).(string)
	return token
}
