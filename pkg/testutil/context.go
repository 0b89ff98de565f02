package testutil

import (
	"net/http"

	"agendo/pkg/requestcontext"
)

// WithIdentity installs an authenticated identity on the request context.
// This simulates what the authentication gateway does for verified callers.
func WithIdentity(req *http.Request, principal string, authorities ...string) *http.Request {
	ctx := requestcontext.WithIdentity(req.Context(), requestcontext.Identity{
		Principal:   principal,
		Authorities: authorities,
	})
	return req.WithContext(ctx)
}

// WithClientMetadata installs the client IP and User-Agent the metadata
// middleware would have extracted.
func WithClientMetadata(req *http.Request, ip, userAgent string) *http.Request {
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, userAgent)
	return req.WithContext(ctx)
}
