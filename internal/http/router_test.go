package http

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gohire/internal/app"
	"gohire/internal/http/handlers"
	"gohire/internal/http/metrics"
	httpmw "gohire/internal/http/middleware"
	"gohire/internal/notify"
	"gohire/internal/realtime"
	"gohire/internal/repository/memory"
	"gohire/internal/security"
)

func newTestServer(t *testing.T) (*httptest.Server, *notify.RecordingMailer) {
	t.Helper()
	store := memory.NewStore()
	broker := realtime.NewMemoryBroker()
	mailer := &notify.RecordingMailer{}
	jwtProvider := security.NewJWTProvider("router-secret")
	links := notify.NewLinkBuilder("https://wa.me/", "55")
	limiter := httpmw.NewRateLimiter()
	collector := metrics.NewCollector()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions := app.NewSessionService(jwtProvider, store.Profiles(), broker, nil)
	authService := app.NewAuthService(store.Identities(), store.Profiles(), store.RefreshTokens(), store.RecoveryTokens(), store.Analytics(),
		jwtProvider, security.NewPasswordHasher(bcrypt.MinCost), mailer, broker, sessions, nil, app.AuthConfig{
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
			RecoveryTTL:   time.Hour,
			PublicBaseURL: "https://app.test",
		})

	router := NewRouter(RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(authService, sessions, limiter),
		ProfileHandler:     handlers.NewProfileHandler(app.NewProfileService(store.Profiles(), store.Analytics())),
		StaffHandler:       handlers.NewStaffHandler(app.NewStaffService(store.Profiles(), store.Invitations(), store.Analytics(), mailer, nil, "https://app.test", time.Hour), limiter),
		JobHandler:         handlers.NewJobHandler(app.NewJobService(store.Jobs(), store.Profiles(), store.Analytics(), nil)),
		ApplicationHandler: handlers.NewApplicationHandler(app.NewApplicationService(store.Applications(), store.Jobs(), store.Profiles(), store.Analytics(), links), limiter),
		ContractHandler:    handlers.NewContractHandler(app.NewContractService(store.Contracts(), store.Applications(), store.Jobs(), store.Profiles(), store.Analytics(), links, nil)),
		MessageHandler:     handlers.NewMessageHandler(app.NewMessageService(store.Messages(), store.Contracts(), store.Profiles(), broker, store.Analytics(), nil), limiter, collector),
		TicketHandler:      handlers.NewTicketHandler(app.NewTicketService(store.Tickets(), store.Analytics())),
		BudgetHandler:      handlers.NewBudgetHandler(app.NewBudgetService(store.Budgets(), store.Profiles(), store.Analytics())),
		ReportHandler:      handlers.NewReportHandler(app.NewReportService(store.Jobs(), store.Applications(), store.Contracts(), store.Profiles())),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwtProvider),
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     5 * time.Second,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, mailer
}

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func (c *client) decode(method, path string, body any, status int, out any) {
	c.t.Helper()
	resp, data := c.do(method, path, body)
	require.Equal(c.t, status, resp.StatusCode, string(data))
	if out != nil {
		require.NoError(c.t, json.Unmarshal(data, out))
	}
}

type authBody struct {
	Tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"tokens"`
	Session struct {
		State  string `json:"state"`
		UserID string `json:"user_id"`
	} `json:"session"`
	RedirectTo string `json:"redirect_to"`
}

func signUp(t *testing.T, server *httptest.Server, email, role, name, phone string) *client {
	t.Helper()
	anon := &client{t: t, server: server}
	var body authBody
	anon.decode(http.MethodPost, "/auth/sign-up", map[string]string{
		"email":     email,
		"password":  "segredo123",
		"role":      role,
		"full_name": name,
		"phone":     phone,
	}, http.StatusCreated, &body)
	require.NotEmpty(t, body.Tokens.AccessToken)
	return &client{t: t, server: server, token: body.Tokens.AccessToken}
}

type idBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestHiringScenarioOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)
	inst := signUp(t, server, "rh@horizonte.test", "institution", "Colégio Horizonte", "(31) 3333-4444")
	prof := signUp(t, server, "ana@prof.test", "professor", "Ana Souza", "31988887777")

	var created idBody
	inst.decode(http.MethodPost, "/jobs", map[string]any{
		"title":       "Professor de Química",
		"description": "Aulas para o **ensino médio**",
		"location":    "Belo Horizonte",
	}, http.StatusCreated, &created)

	var job struct {
		DescriptionHTML string `json:"description_html"`
		InstitutionName string `json:"institution_name"`
	}
	anon := &client{t: t, server: server}
	anon.decode(http.MethodGet, "/jobs/"+created.ID, nil, http.StatusOK, &job)
	assert.Contains(t, job.DescriptionHTML, "<strong>ensino médio</strong>")
	assert.Equal(t, "Colégio Horizonte", job.InstitutionName)

	var found []idBody
	anon.decode(http.MethodGet, "/jobs?title=quimica", nil, http.StatusOK, &found)
	require.Len(t, found, 1)

	prof.decode(http.MethodPost, "/jobs", map[string]any{"title": "x", "description": "y", "location": "z"}, http.StatusForbidden, nil)

	var application idBody
	prof.decode(http.MethodPost, "/applications", map[string]string{"job_id": created.ID}, http.StatusCreated, &application)
	assert.Equal(t, "Enviada", application.Status)
	prof.decode(http.MethodPost, "/applications", map[string]string{"job_id": created.ID}, http.StatusConflict, nil)

	var status struct {
		Applied bool `json:"applied"`
	}
	prof.decode(http.MethodGet, "/jobs/"+created.ID+"/application", nil, http.StatusOK, &status)
	assert.True(t, status.Applied)

	var candidates []struct {
		ID         string `json:"id"`
		ContactURL string `json:"contact_url"`
	}
	inst.decode(http.MethodGet, "/candidates", nil, http.StatusOK, &candidates)
	require.Len(t, candidates, 1)
	assert.Equal(t, application.ID, candidates[0].ID)

	var contract idBody
	inst.decode(http.MethodPost, "/contracts", map[string]string{"application_id": application.ID}, http.StatusCreated, &contract)
	assert.Equal(t, "Pendente", contract.Status)

	inst.decode(http.MethodPost, "/contracts/"+contract.ID+"/accept", nil, http.StatusForbidden, nil)

	var accepted struct {
		Contract  idBody `json:"contract"`
		NotifyURL string `json:"notify_url"`
	}
	prof.decode(http.MethodPost, "/contracts/"+contract.ID+"/accept", nil, http.StatusOK, &accepted)
	assert.Equal(t, "Ativo", accepted.Contract.Status)
	assert.True(t, strings.HasPrefix(accepted.NotifyURL, "https://wa.me/553133334444?text="))

	prof.decode(http.MethodPost, "/contracts/"+contract.ID+"/reject", nil, http.StatusBadRequest, nil)

	var report struct {
		HiringRate float64 `json:"hiring_rate"`
	}
	inst.decode(http.MethodGet, "/reports/institution", nil, http.StatusOK, &report)
	assert.Equal(t, 100.0, report.HiringRate)
}

func TestChatOverHTTPAndStream(t *testing.T) {
	server, _ := newTestServer(t)
	inst := signUp(t, server, "rh@azul.test", "institution", "Escola Azul", "")
	prof := signUp(t, server, "bia@prof.test", "professor", "Bia Lima", "")

	var job, application, contract idBody
	inst.decode(http.MethodPost, "/jobs", map[string]any{"title": "Professor de Artes", "description": "d", "location": "Contagem"}, http.StatusCreated, &job)
	prof.decode(http.MethodPost, "/applications", map[string]string{"job_id": job.ID}, http.StatusCreated, &application)
	inst.decode(http.MethodPost, "/contracts", map[string]string{"application_id": application.ID}, http.StatusCreated, &contract)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/contracts/"+contract.ID+"/messages/stream?access_token="+prof.token, nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 8)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "event: ") || strings.HasPrefix(line, "data: ") {
				events <- line
			}
		}
		close(events)
	}()
	next := func() string {
		select {
		case line := <-events:
			return line
		case <-time.After(3 * time.Second):
			t.Fatal("stream stalled")
			return ""
		}
	}
	assert.Equal(t, "event: history", next())
	assert.Equal(t, "data: []", next())

	inst.decode(http.MethodPost, "/contracts/"+contract.ID+"/messages", map[string]string{"content": "Olá, Bia!"}, http.StatusCreated, nil)
	inst.decode(http.MethodPost, "/contracts/"+contract.ID+"/messages", map[string]string{"content": "De novo"}, http.StatusTooManyRequests, nil)

	assert.Equal(t, "event: message", next())
	assert.Contains(t, next(), `"content":"Olá, Bia!"`)

	var listed []struct {
		Content    string `json:"content"`
		SenderName string `json:"sender_name"`
	}
	prof.decode(http.MethodGet, "/contracts/"+contract.ID+"/messages", nil, http.StatusOK, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Escola Azul", listed[0].SenderName)

	outsider := signUp(t, server, "intruso@prof.test", "professor", "Intruso", "")
	outsider.decode(http.MethodGet, "/contracts/"+contract.ID+"/messages", nil, http.StatusForbidden, nil)
}

func TestAuthRoutes(t *testing.T) {
	server, mailer := newTestServer(t)
	signUp(t, server, "caio@prof.test", "professor", "Caio Prado", "")
	anon := &client{t: t, server: server}

	var signedIn authBody
	anon.decode(http.MethodPost, "/auth/sign-in", map[string]string{"email": "caio@prof.test", "password": "segredo123", "from": "/login"}, http.StatusOK, &signedIn)
	assert.Equal(t, "/dashboard", signedIn.RedirectTo)

	anon.decode(http.MethodPost, "/auth/sign-in", map[string]string{"email": "caio@prof.test", "password": "errada"}, http.StatusUnauthorized, nil)

	user := &client{t: t, server: server, token: signedIn.Tokens.AccessToken}
	var session struct {
		State   string `json:"state"`
		Profile struct {
			Role string `json:"role"`
		} `json:"profile"`
	}
	user.decode(http.MethodGet, "/auth/session", nil, http.StatusOK, &session)
	assert.Equal(t, "authenticated", session.State)
	assert.Equal(t, "professor", session.Profile.Role)

	anon.decode(http.MethodPost, "/auth/reset-password", map[string]string{"email": "caio@prof.test", "redirect_to": "https://evil.example/"}, http.StatusBadRequest, nil)
	assert.Empty(t, mailer.Sent())
	anon.decode(http.MethodPost, "/auth/reset-password", map[string]string{"email": "caio@prof.test"}, http.StatusAccepted, nil)
	sent := mailer.Sent()
	require.Len(t, sent, 1)
	token := strings.SplitN(strings.SplitN(sent[0].HTML, "token=", 2)[1], `"`, 2)[0]

	var recovered authBody
	anon.decode(http.MethodPost, "/auth/recover", map[string]string{"token": token}, http.StatusOK, &recovered)
	recovery := &client{t: t, server: server, token: recovered.Tokens.AccessToken}
	recovery.decode(http.MethodGet, "/contracts", nil, http.StatusForbidden, nil)
	recovery.decode(http.MethodPost, "/auth/update-password", map[string]string{"password": "outraSenha"}, http.StatusOK, nil)

	var out authBody
	anon.decode(http.MethodPost, "/auth/sign-out", map[string]string{"refresh_token": signedIn.Tokens.RefreshToken}, http.StatusOK, &out)
	assert.Equal(t, "/login", out.RedirectTo)
	anon.decode(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": signedIn.Tokens.RefreshToken}, http.StatusUnauthorized, nil)
	anon.decode(http.MethodPost, "/auth/sign-in", map[string]string{"email": "caio@prof.test", "password": "outraSenha"}, http.StatusOK, nil)
}

func TestSignInRateLimit(t *testing.T) {
	server, _ := newTestServer(t)
	anon := &client{t: t, server: server}
	for i := 0; i < 10; i++ {
		anon.decode(http.MethodPost, "/auth/sign-in", map[string]string{"email": "x@y.test", "password": "nope12"}, http.StatusUnauthorized, nil)
	}
	anon.decode(http.MethodPost, "/auth/sign-in", map[string]string{"email": "x@y.test", "password": "nope12"}, http.StatusTooManyRequests, nil)
}

func TestPublicAndUnknownRoutes(t *testing.T) {
	server, _ := newTestServer(t)
	anon := &client{t: t, server: server}

	resp, body := anon.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, body = anon.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "gohire_http_requests_total")

	resp, _ = anon.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = anon.do(http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = anon.do(http.MethodGet, "/jobs/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var teachers []any
	anon.decode(http.MethodGet, "/teachers", nil, http.StatusOK, &teachers)
	assert.Empty(t, teachers)
}

func TestSessionStreamAndStaffInvitations(t *testing.T) {
	server, mailer := newTestServer(t)
	inst := signUp(t, server, "rh@escola.test", "institution", "Escola Verde", "")

	req, err := http.NewRequest(http.MethodGet, server.URL+"/auth/session/stream?access_token="+inst.token, nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lines := make(chan string, 4)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "event: ") {
				lines <- line
			}
		}
		close(lines)
	}()

	anon := &client{t: t, server: server}
	anon.decode(http.MethodPost, "/auth/sign-in", map[string]string{"email": "rh@escola.test", "password": "segredo123"}, http.StatusOK, nil)
	select {
	case line := <-lines:
		assert.Equal(t, "event: SIGNED_IN", line)
	case <-time.After(3 * time.Second):
		t.Fatal("session stream stalled")
	}

	inst.decode(http.MethodPost, "/staff/invite", map[string]string{"email": "ana@escola.test"}, http.StatusCreated, nil)
	require.Len(t, mailer.Sent(), 1)
	var invitations []struct {
		Email string `json:"email"`
	}
	inst.decode(http.MethodGet, "/staff/invitations", nil, http.StatusOK, &invitations)
	require.Len(t, invitations, 1)
	assert.Equal(t, "ana@escola.test", invitations[0].Email)

	prof := signUp(t, server, "prof@x.test", "professor", "Prof X", "")
	prof.decode(http.MethodGet, "/staff/invitations", nil, http.StatusForbidden, nil)
}
