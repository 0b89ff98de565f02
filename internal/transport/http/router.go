// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services; the authentication gateway and authorization gate run as
// middleware in front of everything.
package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agendo/internal/authz"
	"agendo/internal/gateway"
	"agendo/internal/platform/middleware"
	dErrors "agendo/pkg/domain-errors"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Logger   *slog.Logger
	Gateway  *gateway.Gateway
	Gate     *authz.Gate
	Auth     *AuthHandler
	Schedule *SchedulingHandler
	Security *SecurityHandler
}

// NewRouter wires the middleware chain and all endpoints. Order matters:
// client metadata and request IDs must exist before the gateway runs, and the
// gateway must run before the authorization gate.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))
	r.Use(d.Gateway.Middleware)
	r.Use(d.Gate.Middleware)

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/v3/api-docs", handleAPIDocs)

	d.Auth.Register(r)
	d.Schedule.Register(r)
	d.Security.Register(r, d.Gate)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleAPIDocs(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"title":   "agendo",
		"version": "v1",
	})
}

// respond writes a JSON body with the given status.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation to HTTP responses so every
// handler produces the same envelope.
func writeError(w http.ResponseWriter, err error) {
	var coded *dErrors.Error
	status := http.StatusInternalServerError
	code := dErrors.CodeInternal
	message := "internal error"
	if errors.As(err, &coded) {
		status = dErrors.ToHTTPStatus(coded.Code)
		code = coded.Code
		message = coded.Message
	}
	respond(w, status, map[string]string{
		"code":        string(code),
		"description": message,
	})
}
