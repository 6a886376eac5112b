package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/signme/signme-backend/config"
	"github.com/signme/signme-backend/internal/adapter/http/handler"
	"github.com/signme/signme-backend/internal/adapter/http/middleware"
	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
	ws "github.com/signme/signme-backend/pkg/wsHub"
	"golang.org/x/time/rate"
)

const serviceName = "signme"

type API struct {
	mux     *http.Server
	routes  *handlers
	m       *middleware.Middleware
	limiter *middleware.RateLimiter

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	account *handler.Account
	session *handler.Session
	history *handler.History
	health  *handler.Health
}

func New(
	cfg config.Config,
	accountService handler.AccountService,
	sessionService handler.SessionService,
	historyService handler.HistoryService,
	authService middleware.AuthService,
	connections *ws.ConnectionHub,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	routes := &handlers{
		account: handler.NewAccount(accountService, log),
		session: handler.NewSession(sessionService, connections, log),
		history: handler.NewHistory(historyService, log),
		health:  handler.NewHealth(serviceName, log),
	}

	mid := middleware.NewMiddleware(authService, log)

	limiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiterCfg.Rate = rate.Limit(float64(cfg.RateLimit.RequestsPerMinute) / 60.0)
		limiterCfg.Burst = cfg.RateLimit.RequestsPerMinute
	}

	api := &API{
		routes:  routes,
		m:       mid,
		limiter: middleware.NewRateLimiter(limiterCfg),
		addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		cfg:     cfg,
		log:     log,
	}

	mux := http.NewServeMux()
	setupRoutes(mux, routes, mid)

	api.mux = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(mux),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.limiter.Stop()
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.mux.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies the outer middleware chain to the mux.
func (a *API) withMiddleware(mux http.Handler) http.Handler {
	return a.m.Recover(
		a.m.RequestID(
			a.m.Metrics(serviceName)(
				a.m.Logging(
					a.limiter.Middleware()(
						a.m.Auth(mux),
					),
				),
			),
		),
	)
}
