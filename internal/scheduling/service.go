package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"agendo/internal/audit"
	dErrors "agendo/pkg/domain-errors"
	"agendo/pkg/platform/sentinel"
)

// DomainRecorder is the slice of the audit recorder the domain services use.
type DomainRecorder interface {
	RecordDomainEvent(ctx context.Context, eventType audit.EventType, details map[string]string)
}

// Service owns client and appointment lifecycle and emits the domain audit
// event types.
type Service struct {
	store    Store
	recorder DomainRecorder
}

func NewService(store Store, recorder DomainRecorder) *Service {
	return &Service{store: store, recorder: recorder}
}

func (s *Service) CreateClient(ctx context.Context, name, email, phone string) (*Client, error) {
	if name == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name and email are required")
	}

	client := &Client{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveClient(ctx, client); err != nil {
		return nil, err
	}

	s.recorder.RecordDomainEvent(ctx, audit.EventClientCreated, map[string]string{
		"client_id": client.ID.String(),
	})
	return client, nil
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, name, email, phone string) (*Client, error) {
	client, err := s.store.FindClient(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "client not found")
	}

	if name != "" {
		client.Name = name
	}
	if email != "" {
		client.Email = email
	}
	if phone != "" {
		client.Phone = phone
	}
	if err := s.store.SaveClient(ctx, client); err != nil {
		return nil, err
	}

	s.recorder.RecordDomainEvent(ctx, audit.EventClientUpdated, map[string]string{
		"client_id": client.ID.String(),
	})
	return client, nil
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return translateNotFound(err, "client not found")
	}

	s.recorder.RecordDomainEvent(ctx, audit.EventClientDeleted, map[string]string{
		"client_id": id.String(),
	})
	return nil
}

func (s *Service) ListClients(ctx context.Context) ([]*Client, error) {
	return s.store.ListClients(ctx)
}

func (s *Service) CreateAppointment(ctx context.Context, clientID uuid.UUID, startsAt, endsAt time.Time, notes string) (*Appointment, error) {
	if !endsAt.After(startsAt) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "appointment must end after it starts")
	}
	if _, err := s.store.FindClient(ctx, clientID); err != nil {
		return nil, translateNotFound(err, "client not found")
	}

	appointment := &Appointment{
		ID:        uuid.New(),
		ClientID:  clientID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Status:    AppointmentScheduled,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.recorder.RecordDomainEvent(ctx, audit.EventAppointmentCreated, map[string]string{
		"appointment_id": appointment.ID.String(),
		"client_id":      clientID.String(),
	})
	return appointment, nil
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appointment, err := s.store.FindAppointment(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "appointment not found")
	}
	if appointment.Status == AppointmentCancelled {
		return nil, dErrors.New(dErrors.CodeConflict, "appointment already cancelled")
	}

	appointment.Status = AppointmentCancelled
	if err := s.store.SaveAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.recorder.RecordDomainEvent(ctx, audit.EventAppointmentCancelled, map[string]string{
		"appointment_id": appointment.ID.String(),
	})
	return appointment, nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*Appointment, error) {
	return s.store.ListAppointments(ctx)
}

func translateNotFound(err error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, message)
	}
	return err
}
