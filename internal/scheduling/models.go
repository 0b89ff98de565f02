// Package scheduling is the thin CRM domain the gateway guards: clients and
// their appointments. Persistence here is deliberately simple; the security
// core treats this package as an external collaborator.
package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

type Appointment struct {
	ID        uuid.UUID         `json:"id"`
	ClientID  uuid.UUID         `json:"clientId"`
	StartsAt  time.Time         `json:"startsAt"`
	EndsAt    time.Time         `json:"endsAt"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}
