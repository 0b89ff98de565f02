// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// The gateway middleware sets values; services and handlers read them. Keeping
// this package free of net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	subject := requestcontext.Principal(ctx)
//	ip := requestcontext.ClientIP(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithIdentity(ctx, identity)
//	ctx = requestcontext.WithClientMetadata(ctx, ip, userAgent)
package requestcontext

import (
	"context"
	"slices"
)

// Identity is the authenticated caller for exactly one request. It is never
// shared across requests and is discarded when the request ends.
type Identity struct {
	Principal   string
	Authorities []string
}

// HasAuthority reports whether the identity carries the given authority.
func (i Identity) HasAuthority(authority string) bool {
	return slices.Contains(i.Authorities, authority)
}

// Context key types (unexported for encapsulation).
type (
	identityKey  struct{}
	clientIPKey  struct{}
	userAgentKey struct{}
	requestIDKey struct{}
)

// WithIdentity installs the authenticated identity into the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom retrieves the authenticated identity, if one was installed.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

// Principal retrieves the authenticated principal identifier, or "" when the
// request is unauthenticated.
func Principal(ctx context.Context) string {
	identity, _ := IdentityFrom(ctx)
	return identity.Principal
}

// IsAuthenticated reports whether an identity with a non-empty principal has
// been installed for this request.
func IsAuthenticated(ctx context.Context) bool {
	identity, ok := IdentityFrom(ctx)
	return ok && identity.Principal != ""
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
// Useful for service unit tests that don't run the full middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}
