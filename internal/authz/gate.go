package authz

import (
	"context"
	"log/slog"
	"net/http"

	"agendo/internal/gateway"
	"agendo/internal/platform/metrics"
	"agendo/pkg/requestcontext"
)

// anonymousCaller names unauthenticated callers in audit events.
const anonymousCaller = "anonymous"

// DenialRecorder is the slice of the audit recorder the gate uses.
type DenialRecorder interface {
	RecordAuthorizationFailed(ctx context.Context, username, endpoint, requiredAuthority string)
}

// Gate evaluates the route table. Operation-level requirements are applied
// separately with RequireAuthority; a request must clear both.
type Gate struct {
	rules    []Rule
	recorder DenialRecorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewGate(rules []Rule, recorder DenialRecorder, m *metrics.Metrics, logger *slog.Logger) *Gate {
	return &Gate{rules: rules, recorder: recorder, metrics: m, logger: logger}
}

// Middleware enforces the route-level rule table.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identity, authenticated := requestcontext.IdentityFrom(ctx)

		rule, found := match(g.rules, r.Method, r.URL.Path)
		if !found {
			// Unmatched paths default to "must be authenticated, any role".
			rule = Rule{Access: AnyAuthenticated}
		}

		if !allows(rule, identity, authenticated) {
			g.deny(ctx, w, r, identity, rule)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuthority is the operation-level check: the wrapped operation
// declares its own required authority independently of the route table.
func (g *Gate) RequireAuthority(authority string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity, authenticated := requestcontext.IdentityFrom(ctx)

			if !authenticated || !identity.HasAuthority(authority) {
				g.deny(ctx, w, r, identity, Rule{
					Access:      RequireAuthority,
					Authorities: []string{authority},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *Gate) deny(ctx context.Context, w http.ResponseWriter, r *http.Request, identity requestcontext.Identity, rule Rule) {
	caller := identity.Principal
	if caller == "" {
		caller = anonymousCaller
	}
	required := ""
	if len(rule.Authorities) > 0 {
		required = rule.Authorities[0]
	}

	g.recorder.RecordAuthorizationFailed(ctx, caller, r.URL.Path, required)
	g.metrics.RecordDecision(metrics.OutcomeDenied)
	g.logger.WarnContext(ctx, "authorization denied",
		"caller", caller,
		"path", r.URL.Path,
		"required_authority", required,
		"request_id", requestcontext.RequestID(ctx),
	)
	gateway.WriteNotAuthorized(w)
}
