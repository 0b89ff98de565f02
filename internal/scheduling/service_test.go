package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"agendo/internal/audit"
	dErrors "agendo/pkg/domain-errors"
)

type domainEventSpy struct {
	events []recordedEvent
}

type recordedEvent struct {
	eventType audit.EventType
	details   map[string]string
}

func (r *domainEventSpy) RecordDomainEvent(_ context.Context, eventType audit.EventType, details map[string]string) {
	r.events = append(r.events, recordedEvent{eventType, details})
}

type SchedulingSuite struct {
	suite.Suite
	spy     *domainEventSpy
	service *Service
}

func TestSchedulingSuite(t *testing.T) {
	suite.Run(t, new(SchedulingSuite))
}

func (s *SchedulingSuite) SetupTest() {
	s.spy = &domainEventSpy{}
	s.service = NewService(NewInMemoryStore(), s.spy)
}

func (s *SchedulingSuite) createClient() *Client {
	client, err := s.service.CreateClient(context.Background(), "Ada Lovelace", "ada@example.com", "+44 20 7946 0001")
	s.Require().NoError(err)
	return client
}

func (s *SchedulingSuite) lastEvent() recordedEvent {
	s.Require().NotEmpty(s.spy.events)
	return s.spy.events[len(s.spy.events)-1]
}

func (s *SchedulingSuite) assertCode(err error, code dErrors.Code) {
	var domainErr *dErrors.Error
	s.Require().ErrorAs(err, &domainErr)
	s.Equal(code, domainErr.Code)
}

func (s *SchedulingSuite) TestClientLifecycle() {
	client := s.createClient()
	s.Equal(audit.EventClientCreated, s.lastEvent().eventType)
	s.Equal(client.ID.String(), s.lastEvent().details["client_id"])

	updated, err := s.service.UpdateClient(context.Background(), client.ID, "", "ada@newdomain.example", "")
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", updated.Name)
	s.Equal("ada@newdomain.example", updated.Email)
	s.Equal(audit.EventClientUpdated, s.lastEvent().eventType)

	s.Require().NoError(s.service.DeleteClient(context.Background(), client.ID))
	s.Equal(audit.EventClientDeleted, s.lastEvent().eventType)

	clients, err := s.service.ListClients(context.Background())
	s.Require().NoError(err)
	s.Empty(clients)
}

func (s *SchedulingSuite) TestClientValidation() {
	_, err := s.service.CreateClient(context.Background(), "", "ada@example.com", "")
	s.assertCode(err, dErrors.CodeBadRequest)
	s.Empty(s.spy.events)
}

func (s *SchedulingSuite) TestUnknownClient() {
	_, err := s.service.UpdateClient(context.Background(), uuid.New(), "x", "", "")
	s.assertCode(err, dErrors.CodeNotFound)

	err = s.service.DeleteClient(context.Background(), uuid.New())
	s.assertCode(err, dErrors.CodeNotFound)
	s.Empty(s.spy.events)
}

func (s *SchedulingSuite) TestAppointmentLifecycle() {
	client := s.createClient()
	start := time.Now().Add(24 * time.Hour)

	appointment, err := s.service.CreateAppointment(context.Background(), client.ID, start, start.Add(time.Hour), "first visit")
	s.Require().NoError(err)
	s.Equal(AppointmentScheduled, appointment.Status)
	s.Equal(audit.EventAppointmentCreated, s.lastEvent().eventType)
	s.Equal(client.ID.String(), s.lastEvent().details["client_id"])

	cancelled, err := s.service.CancelAppointment(context.Background(), appointment.ID)
	s.Require().NoError(err)
	s.Equal(AppointmentCancelled, cancelled.Status)
	s.Equal(audit.EventAppointmentCancelled, s.lastEvent().eventType)

	_, err = s.service.CancelAppointment(context.Background(), appointment.ID)
	s.assertCode(err, dErrors.CodeConflict)
}

func (s *SchedulingSuite) TestAppointmentValidation() {
	client := s.createClient()
	start := time.Now().Add(24 * time.Hour)

	s.Run("must end after it starts", func() {
		_, err := s.service.CreateAppointment(context.Background(), client.ID, start, start, "")
		s.assertCode(err, dErrors.CodeBadRequest)
	})

	s.Run("client must exist", func() {
		_, err := s.service.CreateAppointment(context.Background(), uuid.New(), start, start.Add(time.Hour), "")
		s.assertCode(err, dErrors.CodeNotFound)
	})
}
