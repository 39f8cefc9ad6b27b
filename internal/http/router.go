package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gohire/internal/domain/profile"
	"gohire/internal/http/handlers"
	"gohire/internal/http/metrics"
	httpmw "gohire/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	ProfileHandler     *handlers.ProfileHandler
	StaffHandler       *handlers.StaffHandler
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
	ContractHandler    *handlers.ContractHandler
	MessageHandler     *handlers.MessageHandler
	TicketHandler      *handlers.TicketHandler
	BudgetHandler      *handlers.BudgetHandler
	ReportHandler      *handlers.ReportHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	Logger             *slog.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps    RouterDependencies
	handler http.Handler
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	r := &Router{deps: deps}
	r.handler = httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(deps.Logger),
		httpmw.Metrics(deps.Metrics),
		httpmw.Timeout(deps.RequestTimeout),
	)
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// segments splits the path into its non-empty parts.
func segments(path string) []string {
	return strings.FieldsFunc(path, func(c rune) bool { return c == '/' })
}

func (r *Router) baseHandler() http.Handler {
	metricsHandler := metrics.NewHandler(r.deps.Metrics)
	protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(r.handleProtected))

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path
		parts := segments(path)

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			metricsHandler.ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/sign-up":
			r.deps.AuthHandler.SignUp(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/sign-in":
			r.deps.AuthHandler.SignIn(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/refresh":
			r.deps.AuthHandler.Refresh(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/sign-out":
			r.deps.AuthHandler.SignOut(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/reset-password":
			r.deps.AuthHandler.ResetPassword(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/recover":
			r.deps.AuthHandler.Recover(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs":
			r.deps.JobHandler.Search(w, req)
			return
		case req.Method == http.MethodGet && len(parts) == 2 && parts[0] == "jobs":
			r.deps.JobHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && path == "/teachers":
			r.deps.ProfileHandler.ListTeachers(w, req)
			return
		case req.Method == http.MethodGet && len(parts) == 2 && parts[0] == "teachers":
			r.deps.ProfileHandler.GetTeacher(w, req)
			return
		}

		if len(parts) > 0 && protectedRoots[parts[0]] {
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

var protectedRoots = map[string]bool{
	"auth":         true,
	"profile":      true,
	"staff":        true,
	"jobs":         true,
	"institution":  true,
	"applications": true,
	"candidates":   true,
	"contracts":    true,
	"tickets":      true,
	"budgets":      true,
	"reports":      true,
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	parts := segments(path)
	institution := func(h http.HandlerFunc) {
		httpmw.RequireRole(profile.RoleInstitution)(h).ServeHTTP(w, req)
	}
	professor := func(h http.HandlerFunc) {
		httpmw.RequireRole(profile.RoleProfessor)(h).ServeHTTP(w, req)
	}

	switch {
	case req.Method == http.MethodGet && path == "/auth/session":
		r.deps.AuthHandler.Session(w, req)
		return
	case req.Method == http.MethodGet && path == "/auth/session/stream":
		r.deps.AuthHandler.SessionStream(w, req)
		return
	case req.Method == http.MethodPost && path == "/auth/update-password":
		r.deps.AuthHandler.UpdatePassword(w, req)
		return
	case req.Method == http.MethodGet && path == "/profile":
		r.deps.ProfileHandler.GetOwn(w, req)
		return
	case req.Method == http.MethodPut && path == "/profile":
		r.deps.ProfileHandler.UpdateOwn(w, req)
		return
	case req.Method == http.MethodGet && path == "/staff":
		r.deps.StaffHandler.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/staff/invitations":
		institution(r.deps.StaffHandler.Invitations)
		return
	case req.Method == http.MethodPost && path == "/staff/invite":
		institution(r.deps.StaffHandler.Invite)
		return
	case req.Method == http.MethodPost && path == "/jobs":
		institution(r.deps.JobHandler.Create)
		return
	case req.Method == http.MethodGet && path == "/institution/jobs":
		institution(r.deps.JobHandler.ListOwn)
		return
	case req.Method == http.MethodPatch && len(parts) == 2 && parts[0] == "jobs":
		institution(r.deps.JobHandler.Update)
		return
	case req.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "jobs":
		institution(r.deps.JobHandler.Delete)
		return
	case req.Method == http.MethodGet && len(parts) == 3 && parts[0] == "jobs" && parts[2] == "application":
		professor(r.deps.ApplicationHandler.Status)
		return
	case req.Method == http.MethodPost && path == "/applications":
		professor(r.deps.ApplicationHandler.Apply)
		return
	case req.Method == http.MethodGet && path == "/applications":
		professor(r.deps.ApplicationHandler.ListOwn)
		return
	case req.Method == http.MethodGet && path == "/candidates":
		institution(r.deps.ApplicationHandler.Candidates)
		return
	case req.Method == http.MethodPost && path == "/contracts":
		institution(r.deps.ContractHandler.Create)
		return
	case req.Method == http.MethodGet && path == "/contracts":
		r.deps.ContractHandler.List(w, req)
		return
	case req.Method == http.MethodPost && len(parts) == 3 && parts[0] == "contracts" && parts[2] == "accept":
		professor(r.deps.ContractHandler.Accept)
		return
	case req.Method == http.MethodPost && len(parts) == 3 && parts[0] == "contracts" && parts[2] == "reject":
		professor(r.deps.ContractHandler.Reject)
		return
	case req.Method == http.MethodGet && len(parts) == 3 && parts[0] == "contracts" && parts[2] == "messages":
		r.deps.MessageHandler.List(w, req)
		return
	case req.Method == http.MethodPost && len(parts) == 3 && parts[0] == "contracts" && parts[2] == "messages":
		r.deps.MessageHandler.Send(w, req)
		return
	case req.Method == http.MethodGet && len(parts) == 4 && parts[0] == "contracts" && parts[2] == "messages" && parts[3] == "stream":
		r.deps.MessageHandler.Stream(w, req)
		return
	case req.Method == http.MethodGet && path == "/tickets":
		r.deps.TicketHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == "/tickets":
		r.deps.TicketHandler.Create(w, req)
		return
	case req.Method == http.MethodPatch && len(parts) == 3 && parts[0] == "tickets" && parts[2] == "status":
		r.deps.TicketHandler.UpdateStatus(w, req)
		return
	case req.Method == http.MethodGet && path == "/budgets":
		r.deps.BudgetHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == "/budgets":
		institution(r.deps.BudgetHandler.Create)
		return
	case req.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "budgets":
		r.deps.BudgetHandler.Delete(w, req)
		return
	case req.Method == http.MethodGet && path == "/reports/institution":
		institution(r.deps.ReportHandler.Institution)
		return
	case req.Method == http.MethodGet && path == "/reports/professor":
		professor(r.deps.ReportHandler.Professor)
		return
	}

	http.NotFound(w, req)
}
