package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"golang.org/x/sync/errgroup"

	"agendo/internal/platform/metrics"
	"agendo/pkg/requestcontext"
)

// appendTimeout bounds a single store write. The request that triggered the
// event is long gone by the time this fires.
const appendTimeout = 5 * time.Second

// Recorder accepts events on a bounded queue and persists them from a small
// worker pool. Callers never wait for persistence and never observe its
// failures: a full queue drops the event, a store error is logged and
// absorbed. Audit completeness is best-effort by contract.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	queue   chan Event
	workers int
}

// NewRecorder builds a recorder with the given queue capacity and worker
// count. Run must be called for events to reach the store.
func NewRecorder(store Store, logger *slog.Logger, m *metrics.Metrics, queueSize, workers int) *Recorder {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if workers <= 0 {
		workers = 2
	}
	return &Recorder{
		store:   store,
		logger:  logger,
		metrics: m,
		queue:   make(chan Event, queueSize),
		workers: workers,
	}
}

// Run drains the queue until ctx is cancelled. Store failures never stop the
// workers; each failed append is logged and counted, then forgotten.
func (r *Recorder) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case event := <-r.queue:
					r.persist(event)
				}
			}
		})
	}
	return g.Wait()
}

func (r *Recorder) persist(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	if err := r.store.Append(ctx, event); err != nil {
		if r.metrics != nil {
			r.metrics.AuditStoreErrors.Inc()
		}
		r.logger.Error("audit append failed",
			"error", err,
			"event_type", event.EventType,
			"username", event.Username,
		)
	}
}

// Record enqueues one event. The username defaults to "unknown" when empty,
// the timestamp is assigned here if unset, and the send never blocks: when
// the queue is full the event is dropped and counted.
func (r *Recorder) Record(ctx context.Context, eventType EventType, username, ip, userAgent string, success bool, details map[string]string) {
	if username == "" {
		username = UnknownUser
	}
	if device := deviceName(userAgent); device != "" {
		if details == nil {
			details = map[string]string{}
		}
		details["device"] = device
	}

	event := Event{
		ID:        uuid.New(),
		EventType: eventType,
		Username:  username,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   success,
		Details:   details,
		Timestamp: time.Now(),
	}

	select {
	case r.queue <- event:
		if r.metrics != nil {
			r.metrics.AuditEnqueued.Inc()
		}
	default:
		if r.metrics != nil {
			r.metrics.AuditDropped.Inc()
		}
		r.logger.Warn("audit queue full, event dropped",
			"event_type", eventType,
			"username", username,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// QueueDepth reports how many events are waiting for a worker.
func (r *Recorder) QueueDepth() int { return len(r.queue) }

// deviceName renders a short human-readable device description from the
// User-Agent header, e.g. "Firefox on Linux".
func deviceName(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, _ := ua.Browser()
	os := ua.OS()
	switch {
	case name != "" && os != "":
		return name + " on " + os
	case name != "":
		return name
	default:
		return os
	}
}

// -----------------------------------------------------------------------------
// Per-event-type wrappers. Each builds its own details map and delegates to
// Record; IP and User-Agent come from the request context.
// -----------------------------------------------------------------------------

// RecordTokenExpired records a rejected expired token for the given subject.
func (r *Recorder) RecordTokenExpired(ctx context.Context, username string) {
	r.Record(ctx, EventTokenExpired, username,
		requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx),
		false, nil)
}

// RecordTokenInvalid records a rejected malformed/tampered token.
func (r *Recorder) RecordTokenInvalid(ctx context.Context, reason string) {
	r.Record(ctx, EventTokenInvalid, UnknownUser,
		requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx),
		false, map[string]string{"reason": reason})
}

// RecordAuthorizationFailed records a caller rejected by the authorization
// gate, with the endpoint attempted and the authority it lacked (when known).
func (r *Recorder) RecordAuthorizationFailed(ctx context.Context, username, endpoint, requiredAuthority string) {
	details := map[string]string{"endpoint": endpoint}
	if requiredAuthority != "" {
		details["required_authority"] = requiredAuthority
	}
	r.Record(ctx, EventAuthorizationFailed, username,
		requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx),
		false, details)
}

// RecordDomainEvent records one of the scheduling CRUD event types on behalf
// of the authenticated caller.
func (r *Recorder) RecordDomainEvent(ctx context.Context, eventType EventType, details map[string]string) {
	r.Record(ctx, eventType, requestcontext.Principal(ctx),
		requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx),
		true, details)
}

// -----------------------------------------------------------------------------
// Login listener. The auth service publishes exactly one success or failure
// notification per authentication attempt, whichever entry point handled it;
// this is the only producer of LOGIN_SUCCESS/LOGIN_FAILED events.
// -----------------------------------------------------------------------------

// OnLoginSuccess implements auth.LoginListener.
func (r *Recorder) OnLoginSuccess(ctx context.Context, username string) {
	r.Record(ctx, EventLoginSuccess, username,
		requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx),
		true, nil)
}

// OnLoginFailure implements auth.LoginListener.
func (r *Recorder) OnLoginFailure(ctx context.Context, username, reason string) {
	r.Record(ctx, EventLoginFailed, username,
		requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx),
		false, map[string]string{"reason": reason})
}
