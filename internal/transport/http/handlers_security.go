package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"agendo/internal/audit"
	"agendo/internal/authz"
	dErrors "agendo/pkg/domain-errors"
)

// Dashboard query bounds.
const (
	defaultRecentLimit  = 50
	maxRecentLimit      = 500
	defaultThreshold    = 5
	defaultWindowMinute = 15
)

// SecurityHandler exposes the audit-query surface to the administrative
// reporting UI.
type SecurityHandler struct {
	query *audit.Query
}

func NewSecurityHandler(query *audit.Query) *SecurityHandler {
	return &SecurityHandler{query: query}
}

// Register mounts the dashboard routes. Beyond the /api/security route rule,
// every operation here declares ROLE_ADMIN as its own requirement; both
// checks are evaluated on each request.
func (h *SecurityHandler) Register(r chi.Router, gate *authz.Gate) {
	r.Route("/api/security", func(r chi.Router) {
		r.Use(gate.RequireAuthority("ROLE_ADMIN"))
		r.Get("/metrics", h.handleMetricsSnapshot)
		r.Get("/events/recent", h.handleRecentEvents)
		r.Get("/suspicious", h.handleSuspicious)
	})
}

func (h *SecurityHandler) handleMetricsSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.query.MetricsSnapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, snapshot)
}

func (h *SecurityHandler) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxRecentLimit {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 500"))
			return
		}
		limit = parsed
	}

	events, err := h.query.RecentEvents(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, events)
}

func (h *SecurityHandler) handleSuspicious(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	if ip == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "ip is required"))
		return
	}

	threshold := int64(defaultThreshold)
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "threshold must be a positive integer"))
			return
		}
		threshold = parsed
	}

	windowMinutes := defaultWindowMinute
	if raw := r.URL.Query().Get("windowMinutes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "windowMinutes must be a positive integer"))
			return
		}
		windowMinutes = parsed
	}

	suspicious, err := h.query.IsSuspicious(r.Context(), ip, threshold, time.Duration(windowMinutes)*time.Minute)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"ip":         ip,
		"suspicious": suspicious,
	})
}
