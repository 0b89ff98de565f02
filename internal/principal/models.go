// Package principal holds the credential-lookup collaborator consumed by the
// gateway and the login service.
package principal

import "github.com/google/uuid"

// Principal is a caller known to the system. Identifier is what token
// subjects are matched against; PasswordHash is a bcrypt hash and never
// leaves this package except for comparison.
type Principal struct {
	ID           uuid.UUID
	Identifier   string
	Role         string
	Active       bool
	PasswordHash string
}
