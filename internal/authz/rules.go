// Package authz enforces two independent authorization layers on top of the
// identity the gateway installed: an ordered route-prefix rule table and
// per-operation authority requirements. Both must pass.
package authz

import (
	"net/http"
	"strings"

	"agendo/pkg/requestcontext"
)

// Access is what a rule demands of the caller.
type Access int

const (
	// Public allows any caller, including unauthenticated ones.
	Public Access = iota
	// AnyAuthenticated requires an installed identity, any role.
	AnyAuthenticated
	// RequireAuthority requires at least one of the rule's authorities.
	RequireAuthority
)

// Rule gates one path prefix, optionally restricted to a single HTTP method.
// An empty Method matches every method. Rules are static configuration:
// loaded once at process start, read-only thereafter.
type Rule struct {
	Method      string
	Prefix      string
	Access      Access
	Authorities []string
}

// DefaultRules is the fixed, ordered route table, evaluated top-down. The
// trailing catch-all makes anything unmatched require authentication.
//
// POST /api/clients is the self-registration endpoint: callable without a
// login, same as the gateway's optional class. Every other method on that
// prefix falls through to the authenticated default.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/auth/login", Access: Public},
		{Prefix: "/swagger", Access: Public},
		{Prefix: "/v3/api-docs", Access: Public},
		{Prefix: "/healthz", Access: Public},
		{Prefix: "/metrics", Access: Public},
		{Method: http.MethodPost, Prefix: "/api/clients", Access: Public},
		{Prefix: "/api/security", Access: RequireAuthority, Authorities: []string{"ROLE_ADMIN"}},
		{Prefix: "/api/users", Access: RequireAuthority, Authorities: []string{"ROLE_ADMIN"}},
	}
}

// match returns the first rule matching the request method and path.
func match(rules []Rule, method, path string) (Rule, bool) {
	for _, rule := range rules {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return Rule{}, false
}

// allows evaluates one rule against the caller's identity.
func allows(rule Rule, identity requestcontext.Identity, authenticated bool) bool {
	switch rule.Access {
	case Public:
		return true
	case AnyAuthenticated:
		return authenticated
	case RequireAuthority:
		if !authenticated {
			return false
		}
		for _, required := range rule.Authorities {
			if identity.HasAuthority(required) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
