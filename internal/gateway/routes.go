package gateway

import (
	"net/http"
	"strings"
)

// RouteClass determines how the gateway treats a request before any token is
// inspected.
type RouteClass int

const (
	// ClassBypass routes are forwarded unconditionally; the Authorization
	// header is never inspected.
	ClassBypass RouteClass = iota
	// ClassOptional is the single create-without-login endpoint: a present
	// bearer token is verified, but every failure is swallowed and the
	// request proceeds unauthenticated.
	ClassOptional
	// ClassRequired covers every other path.
	ClassRequired
)

// bypassPrefixes are documentation, introspection, health and the public
// token-issuance path. Matched first.
var bypassPrefixes = []string{
	"/swagger",
	"/v3/api-docs",
	"/healthz",
	"/metrics",
	"/auth/login",
}

// optionalCreatePath is the one endpoint callable without login or as a
// privileged caller.
const optionalCreatePath = "/api/clients"

// Classify assigns a route class by fixed precedence, most specific first.
func Classify(method, path string) RouteClass {
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return ClassBypass
		}
	}
	if method == http.MethodPost && path == optionalCreatePath {
		return ClassOptional
	}
	return ClassRequired
}
