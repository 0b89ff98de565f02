package principal

import (
	"context"
	"errors"

	"agendo/pkg/platform/sentinel"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks Store

// Store looks up principals by identifier. Implementations return
// sentinel.ErrNotFound (possibly wrapped) for unknown identifiers.
type Store interface {
	FindByIdentifier(ctx context.Context, identifier string) (*Principal, error)
	Create(ctx context.Context, p *Principal) error
}

// Lookup is the single-method credential lookup the gateway consumes; every
// Store satisfies it.
type Lookup interface {
	FindByIdentifier(ctx context.Context, identifier string) (*Principal, error)
}

// IsNotFound reports whether err means the principal does not exist, as
// opposed to the store being unreachable.
func IsNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
