// Package audit records security-relevant events off the request path and
// answers read-side questions about them (suspicious activity, monitoring
// aggregates). Events are append-only; nothing in this package updates or
// deletes a recorded event.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the closed taxonomy of recorded occurrences.
type EventType string

const (
	// Security events emitted by the gateway and the login listener.
	EventLoginSuccess        EventType = "LOGIN_SUCCESS"
	EventLoginFailed         EventType = "LOGIN_FAILED"
	EventTokenExpired        EventType = "TOKEN_EXPIRED"
	EventTokenInvalid        EventType = "TOKEN_INVALID"
	EventAuthorizationFailed EventType = "AUTHORIZATION_FAILED"

	// Domain events emitted by the scheduling services.
	EventClientCreated        EventType = "CLIENT_CREATED"
	EventClientUpdated        EventType = "CLIENT_UPDATED"
	EventClientDeleted        EventType = "CLIENT_DELETED"
	EventAppointmentCreated   EventType = "APPOINTMENT_CREATED"
	EventAppointmentCancelled EventType = "APPOINTMENT_CANCELLED"
)

// UnknownUser substitutes for a username that could not be resolved.
const UnknownUser = "unknown"

// Event is an immutable record of one security-relevant occurrence. Once
// recorded it is never mutated; each event carries its own timestamp because
// background persistence does not preserve arrival order.
type Event struct {
	ID        uuid.UUID
	EventType EventType
	Username  string
	IPAddress string
	UserAgent string
	Success   bool
	Details   map[string]string
	Timestamp time.Time
}
