package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/signme/signme-backend/internal/adapter/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/signme/signme-backend/docs" // swagger docs
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.Handler())

	// Auth
	mux.HandleFunc("POST /auth/register", routes.account.Register)
	mux.HandleFunc("POST /auth/login", routes.account.Login)
	mux.HandleFunc("POST /auth/refresh", routes.account.Refresh)
	mux.Handle("GET /auth/me", m.RequireAuth(routes.account.Profile))
	mux.Handle("PUT /profile", m.RequireAuth(routes.account.UpdateProfile))

	// Drive sessions
	mux.Handle("POST /sessions", m.RequireAuth(routes.session.Start))                      // Start a new drive
	mux.Handle("POST /sessions/{session_id}/end", m.RequireAuth(routes.session.End))      // End an open drive
	mux.Handle("GET /ws/sessions/{session_id}", m.RequireAuth(routes.session.HandleWebSocket)) // Live updates for one drive

	// History
	mux.Handle("GET /history", m.RequireAuth(routes.history.Fetch))
}
