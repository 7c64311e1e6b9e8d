// Package http exposes the bloodlink services as a JSON API on gorilla/mux.
package http

import (
	"context"
	"net/http"
	"time"

	"bloodlink-backend/internal/metrics"
	"bloodlink-backend/internal/security"
	"bloodlink-backend/internal/service"

	"github.com/gorilla/mux"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Services struct {
	Requests      service.RequestService
	Profiles      service.ProfileService
	Inventory     service.InventoryService
	Notifications service.NotificationService
}

// NewRouter wires every route under /api/v1 plus /healthz and /metrics.
func NewRouter(svcs Services, tokens security.TokenManager, m *metrics.Metrics, db Pinger) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID, Recover, Observe(m), NewAuthenticator(tokens).Middleware)

	router.HandleFunc("/healthz", healthHandler(db)).Methods(http.MethodGet).Name("Health")
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet).Name("Metrics")

	api := router.PathPrefix("/api/v1").Subrouter()
	NewRequestHandler(svcs.Requests, svcs.Profiles).Register(api)
	NewProfileHandler(svcs.Profiles, svcs.Requests).Register(api)
	NewInventoryHandler(svcs.Inventory).Register(api)
	NewNotificationHandler(svcs.Notifications).Register(api)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})
	return router
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
