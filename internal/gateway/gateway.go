// Package gateway is the per-request authentication filter. Every inbound
// request passes through it exactly once; it either short-circuits with one
// of the fixed terminal responses or installs the request's identity and
// forwards downstream.
//
// The gateway is fail-closed for authentication (any internal doubt rejects
// the request) and fail-open for auditing (a broken event store never changes
// a decision already made).
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"agendo/internal/platform/metrics"
	"agendo/internal/principal"
	"agendo/internal/token"
	"agendo/pkg/requestcontext"
)

const bearerPrefix = "Bearer "

// AuthorityPrefix marks role-derived authorities.
const AuthorityPrefix = "ROLE_"

// DeriveAuthority maps a role claim to its authority string. Idempotent: a
// claim that already carries the prefix derives to the same authority as the
// bare role name. Both the gateway and the login path use this one function.
func DeriveAuthority(role string) string {
	authority := strings.ToUpper(role)
	if !strings.HasPrefix(authority, AuthorityPrefix) {
		authority = AuthorityPrefix + authority
	}
	return authority
}

// TokenVerifier is what the gateway needs from the token codec.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, *token.VerifyError)
}

// SecurityRecorder is the slice of the audit recorder the gateway uses. All
// calls are fire-and-forget.
type SecurityRecorder interface {
	RecordTokenExpired(ctx context.Context, username string)
	RecordTokenInvalid(ctx context.Context, reason string)
}

//go:generate mockgen -source=gateway.go -destination=mocks/gateway_mock.go -package=mocks TokenVerifier,SecurityRecorder

// Gateway classifies routes, validates bearer credentials, derives caller
// authority and installs the request identity.
type Gateway struct {
	codec    TokenVerifier
	lookup   principal.Lookup
	recorder SecurityRecorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(codec TokenVerifier, lookup principal.Lookup, recorder SecurityRecorder, m *metrics.Metrics, logger *slog.Logger) *Gateway {
	return &Gateway{
		codec:    codec,
		lookup:   lookup,
		recorder: recorder,
		metrics:  m,
		logger:   logger,
	}
}

// Middleware runs the per-request decision procedure.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Already authenticated upstream; do not re-verify or re-install.
		if requestcontext.IsAuthenticated(ctx) {
			next.ServeHTTP(w, r)
			return
		}

		switch Classify(r.Method, r.URL.Path) {
		case ClassBypass:
			next.ServeHTTP(w, r)

		case ClassOptional:
			g.serveOptional(w, r, next)

		case ClassRequired:
			g.serveRequired(w, r, next)
		}
	})
}

// serveOptional forwards regardless of outcome. A present token is verified
// in full, but failures are swallowed: no terminal response, no audit event.
func (g *Gateway) serveOptional(w http.ResponseWriter, r *http.Request, next http.Handler) {
	raw, ok := bearerToken(r)
	if !ok {
		next.ServeHTTP(w, r)
		return
	}

	if identity, ok := g.authenticate(r.Context(), raw); ok {
		r = r.WithContext(requestcontext.WithIdentity(r.Context(), identity))
	}
	next.ServeHTTP(w, r)
}

// serveRequired enforces the full required-path algorithm.
func (g *Gateway) serveRequired(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := r.Context()

	// Missing or non-Bearer header: short-circuit before any decode work.
	// Deliberately no audit event for this case.
	raw, ok := bearerToken(r)
	if !ok {
		g.metrics.RecordDecision(metrics.OutcomeNotAuthenticated)
		WriteNotAuthenticated(w)
		return
	}

	claims, verr := g.codec.Verify(raw)
	if verr != nil {
		if verr.Kind == token.FailureExpired {
			// The decoded claims survive expiry, so the subject can be
			// named in the audit trail even though the token is rejected.
			subject := ""
			if claims != nil {
				subject = claims.Subject
			}
			g.recorder.RecordTokenExpired(ctx, subject)
			g.metrics.RecordDecision(metrics.OutcomeExpired)
			WriteExpiredToken(w, verr.Error())
			return
		}

		g.rejectInvalid(ctx, w, string(verr.Kind)+": "+verr.Error())
		return
	}

	p, err := g.lookup.FindByIdentifier(ctx, claims.Subject)
	if err != nil {
		reason := "unknown principal"
		if !principal.IsNotFound(err) {
			// Store unreachable. Fail closed; the caller cannot be vouched for.
			reason = "principal lookup failed"
			g.logger.ErrorContext(ctx, "credential lookup failed",
				"error", err,
				"subject", claims.Subject,
			)
		}
		g.rejectInvalid(ctx, w, reason)
		return
	}
	if !p.Active {
		g.rejectInvalid(ctx, w, "principal inactive")
		return
	}
	if claims.Subject != p.Identifier {
		g.rejectInvalid(ctx, w, "token not bound to principal")
		return
	}

	identity := requestcontext.Identity{
		Principal:   p.Identifier,
		Authorities: []string{DeriveAuthority(claims.Role)},
	}

	g.metrics.RecordDecision(metrics.OutcomeForwarded)
	next.ServeHTTP(w, r.WithContext(requestcontext.WithIdentity(ctx, identity)))
}

func (g *Gateway) rejectInvalid(ctx context.Context, w http.ResponseWriter, reason string) {
	g.recorder.RecordTokenInvalid(ctx, reason)
	g.metrics.RecordDecision(metrics.OutcomeInvalid)
	WriteInvalidToken(w, reason)
}

// authenticate runs verification plus principal binding and reports whether
// an identity could be established. Used by the optional path, where the
// caller discards failures.
func (g *Gateway) authenticate(ctx context.Context, raw string) (requestcontext.Identity, bool) {
	claims, verr := g.codec.Verify(raw)
	if verr != nil {
		return requestcontext.Identity{}, false
	}

	p, err := g.lookup.FindByIdentifier(ctx, claims.Subject)
	if err != nil || !p.Active || claims.Subject != p.Identifier {
		return requestcontext.Identity{}, false
	}

	return requestcontext.Identity{
		Principal:   p.Identifier,
		Authorities: []string{DeriveAuthority(claims.Role)},
	}, true
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	return strings.CutPrefix(header, bearerPrefix)
}
