package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gohire/internal/app"
	"gohire/internal/config"
	apphttp "gohire/internal/http"
	"gohire/internal/http/handlers"
	"gohire/internal/http/metrics"
	httpmw "gohire/internal/http/middleware"
	"gohire/internal/http/response"
	"gohire/internal/logging"
	"gohire/internal/notify"
	"gohire/internal/security"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewLogger(cfg.LogLevel)
	serviceLogger := logging.NewServiceLogger(logger)

	in, err := openInfra(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()
	repos := in.repos

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	hasher := security.NewPasswordHasher(0)
	mailer := notify.NewMailer(cfg.Mail, logger)
	links := notify.NewLinkBuilder(cfg.ChatLinkBase, cfg.PhoneCountryCode)

	sessionService := app.NewSessionService(jwtProvider, repos.profiles, in.broker, serviceLogger)
	authService := app.NewAuthService(repos.identities, repos.profiles, repos.refreshTokens, repos.recoveryTokens, repos.analytics,
		jwtProvider, hasher, mailer, in.broker, sessionService, serviceLogger, app.AuthConfig{
			AccessTTL:              cfg.AccessTokenTTL,
			RefreshTTL:             cfg.RefreshTokenTTL,
			RecoveryTTL:            cfg.RecoveryTokenTTL,
			PublicBaseURL:          cfg.PublicBaseURL,
			AllowedRedirectOrigins: cfg.RedirectOrigins,
		})
	profileService := app.NewProfileService(repos.profiles, repos.analytics)
	staffService := app.NewStaffService(repos.profiles, repos.invitations, repos.analytics, mailer, serviceLogger, cfg.PublicBaseURL, cfg.InviteTokenTTL)
	jobService := app.NewJobService(repos.jobs, repos.profiles, repos.analytics, serviceLogger)
	applicationService := app.NewApplicationService(repos.applications, repos.jobs, repos.profiles, repos.analytics, links)
	contractService := app.NewContractService(repos.contracts, repos.applications, repos.jobs, repos.profiles, repos.analytics, links, serviceLogger)
	messageService := app.NewMessageService(repos.messages, repos.contracts, repos.profiles, in.broker, repos.analytics, serviceLogger)
	ticketService := app.NewTicketService(repos.tickets, repos.analytics)
	budgetService := app.NewBudgetService(repos.budgets, repos.profiles, repos.analytics)
	reportService := app.NewReportService(repos.jobs, repos.applications, repos.contracts, repos.profiles)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(authService, sessionService, in.limiter),
		ProfileHandler:     handlers.NewProfileHandler(profileService),
		StaffHandler:       handlers.NewStaffHandler(staffService, in.limiter),
		JobHandler:         handlers.NewJobHandler(jobService),
		ApplicationHandler: handlers.NewApplicationHandler(applicationService, in.limiter),
		ContractHandler:    handlers.NewContractHandler(contractService),
		MessageHandler:     handlers.NewMessageHandler(messageService, in.limiter, collector),
		TicketHandler:      handlers.NewTicketHandler(ticketService),
		BudgetHandler:      handlers.NewBudgetHandler(budgetService),
		ReportHandler:      handlers.NewReportHandler(reportService),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwtProvider),
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API started", slog.String("addr", server.Addr), slog.String("store", cfg.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
