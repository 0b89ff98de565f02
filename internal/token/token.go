// Package token issues and verifies the signed bearer tokens presented in
// Authorization headers. It is pure: no I/O, no store access.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleClaim is the claim name carrying the caller's role inside the token.
const RoleClaim = "role"

// Claims are the decoded contents of a verified (or expired) token.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// FailureKind is the closed set of ways verification can fail. The gateway
// maps each kind to a distinct terminal response, so verification never
// drives control flow through opaque errors.
type FailureKind string

const (
	FailureEmpty            FailureKind = "empty"
	FailureMalformed        FailureKind = "malformed"
	FailureSignatureInvalid FailureKind = "signature_invalid"
	FailureExpired          FailureKind = "expired"
)

// VerifyError carries the failure kind alongside the decoder's message.
type VerifyError struct {
	Kind FailureKind
	err  error
}

func (e *VerifyError) Error() string {
	if e.err == nil {
		return string(e.Kind)
	}
	return e.err.Error()
}

func (e *VerifyError) Unwrap() error { return e.err }

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens with a shared HMAC key.
type Codec struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewCodec builds a codec. ttl is the fixed lifetime applied to every token.
func NewCodec(signingKey string, issuer string, ttl time.Duration) *Codec {
	return &Codec{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Issue signs a token for subject carrying the given role claim.
// Issued-at is now; expiry is now plus the configured lifetime.
func (c *Codec) Issue(subject, role string) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
		},
	})

	return newToken.SignedString(c.signingKey)
}

// Verify decodes and checks signature and expiry. On FailureExpired the
// decoded claims are still returned so the rejected caller can be logged;
// for every other failure the claims are nil.
func (c *Codec) Verify(raw string) (*Claims, *VerifyError) {
	if raw == "" {
		return nil, &VerifyError{Kind: FailureEmpty, err: errors.New("token is empty")}
	}

	var decoded jwtClaims
	_, err := jwt.ParseWithClaims(raw, &decoded, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			// Signature checked out; only the lifetime is wrong. Hand the
			// decoded claims back so the subject survives for auditing.
			return claimsFrom(&decoded), &VerifyError{Kind: FailureExpired, err: err}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, &VerifyError{Kind: FailureSignatureInvalid, err: err}
		default:
			return nil, &VerifyError{Kind: FailureMalformed, err: err}
		}
	}

	return claimsFrom(&decoded), nil
}

// ExtractSubject returns the subject claim; it fails the same way Verify does.
func (c *Codec) ExtractSubject(raw string) (string, *VerifyError) {
	claims, verr := c.Verify(raw)
	if verr != nil {
		return "", verr
	}
	return claims.Subject, nil
}

// ExtractRole returns the role claim; it fails the same way Verify does.
func (c *Codec) ExtractRole(raw string) (string, *VerifyError) {
	claims, verr := c.Verify(raw)
	if verr != nil {
		return "", verr
	}
	return claims.Role, nil
}

// IsBoundTo reports whether the token's subject equals the given principal
// identifier and the token has not expired.
func (c *Codec) IsBoundTo(raw string, principal string) bool {
	claims, verr := c.Verify(raw)
	if verr != nil {
		return false
	}
	return claims.Subject == principal
}

func claimsFrom(decoded *jwtClaims) *Claims {
	claims := &Claims{
		Subject: decoded.Subject,
		Role:    decoded.Role,
	}
	if decoded.IssuedAt != nil {
		claims.IssuedAt = decoded.IssuedAt.Time
	}
	if decoded.ExpiresAt != nil {
		claims.ExpiresAt = decoded.ExpiresAt.Time
	}
	return claims
}
