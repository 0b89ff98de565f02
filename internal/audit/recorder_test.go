package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agendo/internal/audit"
	auditmem "agendo/internal/audit/store/memory"
	"agendo/pkg/requestcontext"
)

const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

type RecorderSuite struct {
	suite.Suite
	store    *auditmem.Store
	recorder *audit.Recorder
	cancel   context.CancelFunc
	done     chan struct{}
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.store = auditmem.New()
	s.recorder = audit.NewRecorder(s.store, slog.New(slog.DiscardHandler), nil, 64, 2)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_ = s.recorder.Run(ctx)
	}()
}

func (s *RecorderSuite) TearDownTest() {
	s.cancel()
	<-s.done
}

func (s *RecorderSuite) waitForEvents(n int64) []audit.Event {
	s.Eventually(func() bool {
		count, err := s.store.CountAll(context.Background())
		return err == nil && count >= n
	}, 2*time.Second, 5*time.Millisecond)

	events, err := s.store.ListRecent(context.Background(), 0)
	s.Require().NoError(err)
	return events
}

func (s *RecorderSuite) TestAsyncDelivery() {
	ctx := requestcontext.WithClientMetadata(context.Background(), "10.0.0.9", firefoxUA)
	s.recorder.Record(ctx, audit.EventLoginSuccess, "alice", "10.0.0.9", firefoxUA, true, nil)

	events := s.waitForEvents(1)
	s.Require().Len(events, 1)
	s.Equal(audit.EventLoginSuccess, events[0].EventType)
	s.Equal("alice", events[0].Username)
	s.Equal("10.0.0.9", events[0].IPAddress)
	s.True(events[0].Success)
	s.NotEqual(time.Time{}, events[0].Timestamp)
}

func (s *RecorderSuite) TestEmptyUsernameDefaultsToUnknown() {
	s.recorder.Record(context.Background(), audit.EventTokenInvalid, "", "10.0.0.9", "", false, nil)

	events := s.waitForEvents(1)
	s.Equal(audit.UnknownUser, events[0].Username)
}

func (s *RecorderSuite) TestDeviceDetailFromUserAgent() {
	s.recorder.Record(context.Background(), audit.EventLoginFailed, "alice", "10.0.0.9", firefoxUA, false, map[string]string{"reason": "password_mismatch"})

	events := s.waitForEvents(1)
	s.Contains(events[0].Details["device"], "Firefox")
	s.Contains(events[0].Details["device"], "Linux")
	s.Equal("password_mismatch", events[0].Details["reason"])
}

func (s *RecorderSuite) TestWrappersCarryContextMetadata() {
	ctx := requestcontext.WithClientMetadata(context.Background(), "203.0.113.7", firefoxUA)

	s.Run("token expired", func() {
		s.store.Clear()
		s.recorder.RecordTokenExpired(ctx, "alice")
		events := s.waitForEvents(1)
		s.Equal(audit.EventTokenExpired, events[0].EventType)
		s.Equal("alice", events[0].Username)
		s.Equal("203.0.113.7", events[0].IPAddress)
		s.False(events[0].Success)
	})

	s.Run("token invalid", func() {
		s.store.Clear()
		s.recorder.RecordTokenInvalid(ctx, "signature mismatch")
		events := s.waitForEvents(1)
		s.Equal(audit.EventTokenInvalid, events[0].EventType)
		s.Equal(audit.UnknownUser, events[0].Username)
		s.Equal("signature mismatch", events[0].Details["reason"])
	})

	s.Run("authorization failed", func() {
		s.store.Clear()
		s.recorder.RecordAuthorizationFailed(ctx, "bob", "/api/security/metrics", "ROLE_ADMIN")
		events := s.waitForEvents(1)
		s.Equal(audit.EventAuthorizationFailed, events[0].EventType)
		s.Equal("bob", events[0].Username)
		s.Equal("/api/security/metrics", events[0].Details["endpoint"])
		s.Equal("ROLE_ADMIN", events[0].Details["required_authority"])
	})
}

func (s *RecorderSuite) TestLoginListener() {
	ctx := requestcontext.WithClientMetadata(context.Background(), "192.0.2.1", "")

	s.recorder.OnLoginSuccess(ctx, "alice")
	s.recorder.OnLoginFailure(ctx, "mallory", "unknown_identifier")

	events := s.waitForEvents(2)
	s.Require().Len(events, 2)

	byType := map[audit.EventType]audit.Event{}
	for _, event := range events {
		byType[event.EventType] = event
	}
	s.Equal("alice", byType[audit.EventLoginSuccess].Username)
	s.True(byType[audit.EventLoginSuccess].Success)
	s.Equal("mallory", byType[audit.EventLoginFailed].Username)
	s.Equal("unknown_identifier", byType[audit.EventLoginFailed].Details["reason"])
}

// failingStore rejects every append.
type failingStore struct {
	auditmem.Store
}

func (f *failingStore) Append(context.Context, audit.Event) error {
	return errors.New("connection refused")
}

func TestRecorderAbsorbsStoreErrors(t *testing.T) {
	recorder := audit.NewRecorder(&failingStore{}, slog.New(slog.DiscardHandler), nil, 8, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = recorder.Run(ctx)
	}()

	for i := 0; i < 5; i++ {
		recorder.Record(context.Background(), audit.EventLoginFailed, "alice", "10.0.0.9", "", false, nil)
	}

	// The worker keeps draining despite the failures.
	deadline := time.Now().Add(2 * time.Second)
	for recorder.QueueDepth() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if depth := recorder.QueueDepth(); depth != 0 {
		t.Fatalf("queue not drained, depth %d", depth)
	}

	cancel()
	<-done
}

func TestRecorderDropsWhenQueueFull(t *testing.T) {
	// No Run call: nothing drains the queue.
	recorder := audit.NewRecorder(auditmem.New(), slog.New(slog.DiscardHandler), nil, 2, 1)

	for i := 0; i < 10; i++ {
		recorder.Record(context.Background(), audit.EventLoginFailed, "alice", "10.0.0.9", "", false, nil)
	}

	if depth := recorder.QueueDepth(); depth != 2 {
		t.Fatalf("expected queue depth 2, got %d", depth)
	}
}
