package audit

import (
	"context"
	"fmt"
	"time"
)

// Snapshot is the monitoring surface for the security dashboard.
type Snapshot struct {
	TotalEvents              int64            `json:"totalEvents"`
	FailedLogins24h          int64            `json:"failedLogins24h"`
	SuccessfulLogins24h      int64            `json:"successfulLogins24h"`
	TokenErrors24h           int64            `json:"tokenErrors24h"`
	AuthorizationFailures24h int64            `json:"authorizationFailures24h"`
	SuccessRate              float64          `json:"successRate"`
	SuspiciousIPs            []string         `json:"suspiciousIps"`
	RecentFailures           []FailureSummary `json:"recentFailures"`
}

// FailureSummary is one failed event projected for the dashboard.
type FailureSummary struct {
	Username  string    `json:"username"`
	IPAddress string    `json:"ipAddress"`
	EventType EventType `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
}

// suspiciousIPFloor is the all-time failed-event count that puts an IP on the
// dashboard's suspicious list.
const suspiciousIPFloor = 5

// recentFailureLimit caps the dashboard's recent-failure listing.
const recentFailureLimit = 10

// Query answers read-side questions over the append-only event store. It
// shares the store with the Recorder but only ever reads.
type Query struct {
	store Store
}

func NewQuery(store Store) *Query {
	return &Query{store: store}
}

// IsSuspicious reports whether ip has accumulated at least threshold failed
// events within the trailing window. A count exactly at the threshold counts
// as suspicious.
func (q *Query) IsSuspicious(ctx context.Context, ip string, threshold int64, window time.Duration) (bool, error) {
	since := time.Now().Add(-window)
	count, err := q.store.CountFailuresByIP(ctx, ip, since)
	if err != nil {
		return false, fmt.Errorf("count failures for %s: %w", ip, err)
	}
	return count >= threshold, nil
}

// RecentEvents returns up to limit events of any type, newest first.
func (q *Query) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	return q.store.ListRecent(ctx, limit)
}

// MetricsSnapshot aggregates the dashboard view over the event store.
func (q *Query) MetricsSnapshot(ctx context.Context) (*Snapshot, error) {
	since := time.Now().Add(-24 * time.Hour)

	total, err := q.store.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count all events: %w", err)
	}

	failedLogins, err := q.store.CountByTypes(ctx, []EventType{EventLoginFailed}, since)
	if err != nil {
		return nil, fmt.Errorf("count failed logins: %w", err)
	}
	successfulLogins, err := q.store.CountByTypes(ctx, []EventType{EventLoginSuccess}, since)
	if err != nil {
		return nil, fmt.Errorf("count successful logins: %w", err)
	}
	tokenErrors, err := q.store.CountByTypes(ctx, []EventType{EventTokenExpired, EventTokenInvalid}, since)
	if err != nil {
		return nil, fmt.Errorf("count token errors: %w", err)
	}
	authzFailures, err := q.store.CountByTypes(ctx, []EventType{EventAuthorizationFailed}, since)
	if err != nil {
		return nil, fmt.Errorf("count authorization failures: %w", err)
	}

	suspiciousIPs, err := q.store.ListIPsWithFailures(ctx, suspiciousIPFloor)
	if err != nil {
		return nil, fmt.Errorf("list suspicious ips: %w", err)
	}

	failures, err := q.store.ListRecentFailures(ctx, recentFailureLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent failures: %w", err)
	}

	recent := make([]FailureSummary, 0, len(failures))
	for _, event := range failures {
		summary := FailureSummary{
			Username:  event.Username,
			IPAddress: event.IPAddress,
			EventType: event.EventType,
			Timestamp: event.Timestamp,
		}
		if summary.Username == "" {
			summary.Username = UnknownUser
		}
		if summary.IPAddress == "" {
			summary.IPAddress = UnknownUser
		}
		recent = append(recent, summary)
	}

	return &Snapshot{
		TotalEvents:              total,
		FailedLogins24h:          failedLogins,
		SuccessfulLogins24h:      successfulLogins,
		TokenErrors24h:           tokenErrors,
		AuthorizationFailures24h: authzFailures,
		SuccessRate:              successRate(successfulLogins, failedLogins),
		SuspiciousIPs:            suspiciousIPs,
		RecentFailures:           recent,
	}, nil
}

// successRate is successes / (successes+failures) * 100, defined as 100 when
// no login attempts exist.
func successRate(successes, failures int64) float64 {
	attempts := successes + failures
	if attempts == 0 {
		return 100
	}
	return float64(successes) / float64(attempts) * 100
}
