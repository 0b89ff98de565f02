// Package auth implements the public token-issuance path. Password
// verification happens here and nowhere else; the gateway only ever sees
// signed tokens.
package auth

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"agendo/internal/gateway"
	"agendo/internal/principal"
	dErrors "agendo/pkg/domain-errors"
)

// Failure reasons published on the login bus. These end up in audit event
// details, never in responses.
const (
	reasonUnknownIdentifier = "unknown_identifier"
	reasonInactive          = "principal_inactive"
	reasonBadPassword       = "password_mismatch"
)

// Issuer is what the service needs from the token codec.
type Issuer interface {
	Issue(subject, role string) (string, error)
}

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks Issuer

// LoginResult is returned to a successfully authenticated caller.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresIn int64
	Authority string
}

// Service authenticates identifier/password pairs and issues bearer tokens.
type Service struct {
	issuer   Issuer
	lookup   principal.Lookup
	bus      *Bus
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewService(issuer Issuer, lookup principal.Lookup, bus *Bus, tokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		issuer:   issuer,
		lookup:   lookup,
		bus:      bus,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login verifies the credential pair and issues a token. Every attempt
// publishes exactly one success or failure on the bus. Callers get the same
// generic rejection for every failure mode; the distinction lives in the
// audit trail.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}

	p, err := s.lookup.FindByIdentifier(ctx, identifier)
	if err != nil {
		if !principal.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "credential lookup failed", "error", err)
			return nil, dErrors.New(dErrors.CodeInternal, "login temporarily unavailable")
		}
		s.bus.PublishFailure(ctx, identifier, reasonUnknownIdentifier)
		return nil, invalidCredentials()
	}

	if !p.Active {
		s.bus.PublishFailure(ctx, identifier, reasonInactive)
		return nil, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		s.bus.PublishFailure(ctx, identifier, reasonBadPassword)
		return nil, invalidCredentials()
	}

	signed, err := s.issuer.Issue(p.Identifier, p.Role)
	if err != nil {
		s.logger.ErrorContext(ctx, "token signing failed", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "login temporarily unavailable")
	}

	s.bus.PublishSuccess(ctx, p.Identifier)

	return &LoginResult{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokenTTL.Seconds()),
		Authority: gateway.DeriveAuthority(p.Role),
	}, nil
}

func invalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// HashPassword produces the bcrypt hash stored on a principal.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
