package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"gohire/internal/config"
	"gohire/internal/database"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/application"
	"gohire/internal/domain/auth"
	"gohire/internal/domain/budget"
	"gohire/internal/domain/contract"
	"gohire/internal/domain/job"
	"gohire/internal/domain/message"
	"gohire/internal/domain/profile"
	"gohire/internal/domain/staff"
	"gohire/internal/domain/ticket"
	"gohire/internal/events"
	httpmw "gohire/internal/http/middleware"
	"gohire/internal/realtime"
	"gohire/internal/repository/memory"
	"gohire/internal/repository/postgres"
)

type repositories struct {
	identities     auth.IdentityRepository
	refreshTokens  auth.RefreshTokenRepository
	recoveryTokens auth.RecoveryTokenRepository
	profiles       profile.Repository
	invitations    staff.Repository
	jobs           job.Repository
	applications   application.Repository
	contracts      contract.Repository
	messages       message.Repository
	tickets        ticket.Repository
	budgets        budget.Repository
	analytics      analytics.Repository
}

func memoryRepositories() repositories {
	store := memory.NewStore()
	return repositories{
		identities:     store.Identities(),
		refreshTokens:  store.RefreshTokens(),
		recoveryTokens: store.RecoveryTokens(),
		profiles:       store.Profiles(),
		invitations:    store.Invitations(),
		jobs:           store.Jobs(),
		applications:   store.Applications(),
		contracts:      store.Contracts(),
		messages:       store.Messages(),
		tickets:        store.Tickets(),
		budgets:        store.Budgets(),
		analytics:      store.Analytics(),
	}
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		identities:     postgres.NewIdentityRepository(db),
		refreshTokens:  postgres.NewRefreshTokenRepository(db),
		recoveryTokens: postgres.NewRecoveryTokenRepository(db),
		profiles:       postgres.NewProfileRepository(db),
		invitations:    postgres.NewInvitationRepository(db),
		jobs:           postgres.NewJobRepository(db),
		applications:   postgres.NewApplicationRepository(db),
		contracts:      postgres.NewContractRepository(db),
		messages:       postgres.NewMessageRepository(db),
		tickets:        postgres.NewTicketRepository(db),
		budgets:        postgres.NewBudgetRepository(db),
		analytics:      postgres.NewAnalyticsRepository(db),
	}
}

// infra holds the process-wide connections. Optional backends stay nil when
// they are not configured.
type infra struct {
	repos   repositories
	db      *sql.DB
	redis   *redis.Client
	amqp    *events.Connection
	broker  realtime.Broker
	limiter httpmw.Limiter
}

func openInfra(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*infra, error) {
	in := &infra{}
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store; data is lost on restart")
		in.repos = memoryRepositories()
	} else {
		db, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		in.db = db
		in.repos = postgresRepositories(db)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			in.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		in.redis = client
		in.broker = realtime.NewRedisBroker(client, "gohire:")
		in.limiter = httpmw.NewRedisLimiter(client, "gohire:rl:", httpmw.WithLimiterLogger(logger))
		logger.Info("redis connected; broker and rate limits are shared")
	} else {
		in.broker = realtime.NewMemoryBroker()
		in.limiter = httpmw.NewRateLimiter()
	}

	if cfg.AMQPURL != "" {
		conn, err := events.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			in.Close()
			return nil, err
		}
		in.amqp = conn
		in.repos.analytics = analytics.Fanout{in.repos.analytics, conn.Publisher()}
		logger.Info("amqp connected", slog.String("exchange", cfg.AMQPExchange))
	}
	return in, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	return database.NewPostgres(ctx, database.PostgresConfig{
		Driver:          cfg.DBDriver,
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, logger)
}

func (in *infra) Close() {
	if in.amqp != nil {
		_ = in.amqp.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}
