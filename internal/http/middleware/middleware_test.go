package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohire/internal/common"
	"gohire/internal/domain/profile"
	"gohire/internal/http/metrics"
	"gohire/internal/observability"
	"gohire/internal/security"
)

func issue(t *testing.T, jwt *security.JWTProvider, purpose string) (common.UUID, string) {
	t.Helper()
	userID := common.NewUUID()
	token, _, err := jwt.Generate(userID, "ana@example.com", "professor", purpose, time.Minute)
	require.NoError(t, err)
	return userID, token
}

func TestAuthenticateRejectsMissingAndBadTokens(t *testing.T) {
	m := NewAuthMiddleware(security.NewJWTProvider("secret"))
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"", "Token abc", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestAuthenticateStoresClaimsInContext(t *testing.T) {
	jwt := security.NewJWTProvider("secret")
	userID, token := issue(t, jwt, "session")
	var seen common.UUID
	var role string
	handler := NewAuthMiddleware(jwt).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		got, _ := RoleFromContext(r.Context())
		role = string(got)
		assert.Equal(t, token, TokenFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, seen)
	assert.Equal(t, "professor", role)
}

func TestRecoverySessionIsLimitedToPasswordUpdate(t *testing.T) {
	jwt := security.NewJWTProvider("secret")
	_, token := issue(t, jwt, "recovery")
	handler := NewAuthMiddleware(jwt).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := map[string]int{
		"/auth/update-password": http.StatusNoContent,
		"/auth/session":         http.StatusNoContent,
		"/contracts":            http.StatusForbidden,
	}
	for path, status := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, status, rec.Code, path)
	}
}

func TestStreamAcceptsQueryToken(t *testing.T) {
	jwt := security.NewJWTProvider("secret")
	_, token := issue(t, jwt, "session")
	handler := NewAuthMiddleware(jwt).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contracts/x/messages/stream?access_token="+token, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contracts?access_token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(profile.RoleInstitution)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req = req.WithContext(context.WithValue(req.Context(), ContextRoleKey, profile.RoleProfessor))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter()
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("apply:job:prof", 3, time.Minute))
	}
	assert.False(t, limiter.Allow("apply:job:prof", 3, time.Minute))
	assert.True(t, limiter.Allow("apply:other:prof", 3, time.Minute))

	now = now.Add(61 * time.Second)
	assert.True(t, limiter.Allow("apply:job:prof", 3, time.Minute))
}

func TestClientIPUsesFirstForwardedHop(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(req))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestChainRunsInOrderAndTracksRequests(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	collector := metrics.NewCollector()

	var requestID string
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = observability.RequestIDFromContext(r.Context())
		_, hasDeadline := r.Context().Deadline()
		assert.True(t, hasDeadline)
		w.WriteHeader(http.StatusTooManyRequests)
	}), RequestID, Logging(logger), BodyLimit(1024), Recover(logger), Metrics(collector), Timeout(time.Second))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Header().Get("X-Request-ID"))
	assert.Contains(t, logs.String(), "status=429")
	snap := collector.Snapshot()
	assert.Equal(t, uint64(1), snap.Requests)
	assert.Equal(t, uint64(1), snap.RateLimited)
}

func TestRecoverAnswersInternalError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTimeoutSkipsStreams(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline := r.Context().Deadline()
		assert.False(t, hasDeadline)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/contracts/1/messages/stream", nil))
}
