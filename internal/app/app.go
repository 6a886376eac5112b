package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signme/signme-backend/config"
	rabbitbroker "github.com/signme/signme-backend/internal/adapter/rabbit"

	httpserver "github.com/signme/signme-backend/internal/adapter/http/server"
	"github.com/signme/signme-backend/internal/adapter/postgres"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/internal/service/account"
	"github.com/signme/signme-backend/internal/service/history"
	"github.com/signme/signme-backend/internal/service/session"
	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
	postgresclient "github.com/signme/signme-backend/pkg/postgres"
	"github.com/signme/signme-backend/pkg/rabbit"
	"github.com/signme/signme-backend/pkg/trm"
	"github.com/signme/signme-backend/pkg/workerpool"
	ws "github.com/signme/signme-backend/pkg/wsHub"
)

type App struct {
	postgresDB *postgresclient.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	httpServer *httpserver.API
	storePool  *workerpool.Pool
	connHub    *ws.ConnectionHub

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Migrations.Enabled {
		if err := postgres.RunMigrations(cfg.Database.GetDSN()); err != nil {
			db.Pool.Close()
			return nil, err
		}
		log.Info(wrap.WithAction(ctx, types.ActionMigrationsApplied), "migrations applied")
	}

	// repositories
	accountRepo := postgres.NewAccountRepo(db.Pool)
	sessionRepo := postgres.NewSessionRepo(db.Pool)
	refreshRepo := postgres.NewRefreshTokenRepo(db.Pool)

	txManager := trm.New(db.Pool)

	// store call pool, shared by all services
	storePool := workerpool.New(cfg.Store.WorkerPoolSize)

	// optional message broker
	var (
		rabbitClient *rabbit.RabbitMQ
		events       session.EventsPublisher
	)
	if cfg.RabbitMQ.Enabled {
		rabbitClient, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Warn(ctx, "rabbitmq unavailable, drive events disabled", "error", err.Error())
		} else {
			broker, err := rabbitbroker.NewSessionEventsBroker(rabbitClient, log)
			if err != nil {
				log.Warn(ctx, "failed to set up drive events broker", "error", err.Error())
			} else {
				events = broker
			}
		}
	}

	connHub := ws.NewConnHub(log)

	// services
	tokenSvc := account.NewTokenService(cfg.Auth.JWTSecret, accountRepo, refreshRepo, txManager, cfg.Auth.RefreshTokenTTL, cfg.Auth.AccessTokenTTL, log)
	accountSvc := account.NewService(accountRepo, tokenSvc, workerpool.NewGuard(storePool, "account", cfg.Store.QueryTimeout), log)
	sessionSvc := session.NewService(sessionRepo, events, connHub, workerpool.NewGuard(storePool, "session", cfg.Store.QueryTimeout), log)
	historySvc := history.NewService(sessionRepo, workerpool.NewGuard(storePool, "history", cfg.Store.QueryTimeout), log)

	server, err := httpserver.New(cfg, accountSvc, sessionSvc, historySvc, accountSvc, connHub, log)
	if err != nil {
		db.Pool.Close()
		return nil, err
	}

	return &App{
		postgresDB: db,
		rabbitMQ:   rabbitClient,
		httpServer: server,
		storePool:  storePool,
		connHub:    connHub,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	a.connHub.Close()
	a.storePool.Close()

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Error(ctx, "failed to close rabbitmq connection", err)
		}
	}

	a.postgresDB.Pool.Close()
}
