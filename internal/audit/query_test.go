package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"agendo/internal/audit"
	auditmem "agendo/internal/audit/store/memory"
)

type QuerySuite struct {
	suite.Suite
	store *auditmem.Store
	query *audit.Query
}

func TestQuerySuite(t *testing.T) {
	suite.Run(t, new(QuerySuite))
}

func (s *QuerySuite) SetupTest() {
	s.store = auditmem.New()
	s.query = audit.NewQuery(s.store)
}

func (s *QuerySuite) append(eventType audit.EventType, username, ip string, success bool, at time.Time) {
	err := s.store.Append(context.Background(), audit.Event{
		ID:        uuid.New(),
		EventType: eventType,
		Username:  username,
		IPAddress: ip,
		Success:   success,
		Timestamp: at,
	})
	s.Require().NoError(err)
}

func (s *QuerySuite) failuresFrom(ip string, count int, at time.Time) {
	for i := 0; i < count; i++ {
		s.append(audit.EventLoginFailed, "mallory", ip, false, at)
	}
}

func (s *QuerySuite) TestIsSuspicious() {
	now := time.Now()

	s.Run("count below threshold is not suspicious", func() {
		s.store.Clear()
		s.failuresFrom("203.0.113.7", 4, now)

		suspicious, err := s.query.IsSuspicious(context.Background(), "203.0.113.7", 5, 15*time.Minute)
		s.Require().NoError(err)
		s.False(suspicious)
	})

	s.Run("count exactly at threshold is suspicious", func() {
		s.store.Clear()
		s.failuresFrom("203.0.113.7", 5, now)

		suspicious, err := s.query.IsSuspicious(context.Background(), "203.0.113.7", 5, 15*time.Minute)
		s.Require().NoError(err)
		s.True(suspicious)
	})

	s.Run("failures outside the window do not count", func() {
		s.store.Clear()
		s.failuresFrom("203.0.113.7", 5, now.Add(-time.Hour))

		suspicious, err := s.query.IsSuspicious(context.Background(), "203.0.113.7", 5, 15*time.Minute)
		s.Require().NoError(err)
		s.False(suspicious)
	})

	s.Run("other addresses do not count", func() {
		s.store.Clear()
		s.failuresFrom("198.51.100.1", 5, now)

		suspicious, err := s.query.IsSuspicious(context.Background(), "203.0.113.7", 5, 15*time.Minute)
		s.Require().NoError(err)
		s.False(suspicious)
	})

	s.Run("successful events do not count", func() {
		s.store.Clear()
		for i := 0; i < 5; i++ {
			s.append(audit.EventLoginSuccess, "alice", "203.0.113.7", true, now)
		}

		suspicious, err := s.query.IsSuspicious(context.Background(), "203.0.113.7", 5, 15*time.Minute)
		s.Require().NoError(err)
		s.False(suspicious)
	})
}

func (s *QuerySuite) TestMetricsSnapshot() {
	now := time.Now()

	s.append(audit.EventLoginSuccess, "alice", "10.0.0.1", true, now)
	s.append(audit.EventLoginSuccess, "alice", "10.0.0.1", true, now)
	s.append(audit.EventLoginSuccess, "bob", "10.0.0.2", true, now)
	s.append(audit.EventLoginFailed, "mallory", "203.0.113.7", false, now)
	s.append(audit.EventTokenExpired, "alice", "10.0.0.1", false, now)
	s.append(audit.EventTokenInvalid, "", "203.0.113.7", false, now)
	s.append(audit.EventAuthorizationFailed, "bob", "10.0.0.2", false, now)

	// Stale events count toward the total but not the 24h windows.
	s.append(audit.EventLoginFailed, "mallory", "203.0.113.7", false, now.Add(-48*time.Hour))

	snapshot, err := s.query.MetricsSnapshot(context.Background())
	s.Require().NoError(err)

	s.Equal(int64(8), snapshot.TotalEvents)
	s.Equal(int64(1), snapshot.FailedLogins24h)
	s.Equal(int64(3), snapshot.SuccessfulLogins24h)
	s.Equal(int64(2), snapshot.TokenErrors24h)
	s.Equal(int64(1), snapshot.AuthorizationFailures24h)
	s.InDelta(75.0, snapshot.SuccessRate, 0.001)
}

func (s *QuerySuite) TestMetricsSnapshotSuspiciousIPs() {
	now := time.Now()
	s.failuresFrom("203.0.113.7", 5, now)
	s.failuresFrom("198.51.100.1", 4, now)

	snapshot, err := s.query.MetricsSnapshot(context.Background())
	s.Require().NoError(err)
	s.Equal([]string{"203.0.113.7"}, snapshot.SuspiciousIPs)
}

func (s *QuerySuite) TestMetricsSnapshotRecentFailures() {
	now := time.Now()
	for i := 0; i < 12; i++ {
		s.append(audit.EventLoginFailed, "mallory", "203.0.113.7", false, now.Add(time.Duration(i)*time.Second))
	}
	s.append(audit.EventTokenInvalid, "", "", false, now.Add(time.Minute))

	snapshot, err := s.query.MetricsSnapshot(context.Background())
	s.Require().NoError(err)

	s.Len(snapshot.RecentFailures, 10)

	newest := snapshot.RecentFailures[0]
	s.Equal(audit.EventTokenInvalid, newest.EventType)
	s.Equal(audit.UnknownUser, newest.Username)
	s.Equal(audit.UnknownUser, newest.IPAddress)
}

func (s *QuerySuite) TestEmptyStore() {
	snapshot, err := s.query.MetricsSnapshot(context.Background())
	s.Require().NoError(err)

	s.Zero(snapshot.TotalEvents)
	s.InDelta(100.0, snapshot.SuccessRate, 0.001)
	s.Empty(snapshot.SuspiciousIPs)
	s.Empty(snapshot.RecentFailures)
}
