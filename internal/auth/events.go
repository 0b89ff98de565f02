package auth

import "context"

// LoginListener reacts to authentication attempts. The audit recorder is the
// primary listener; the bus guarantees each attempt produces exactly one
// success or one failure notification regardless of which entry point handled
// the attempt.
type LoginListener interface {
	OnLoginSuccess(ctx context.Context, username string)
	OnLoginFailure(ctx context.Context, username, reason string)
}

// Bus is an explicit, typed event bus for login outcomes. Listeners are
// registered at wiring time and never change afterwards.
type Bus struct {
	listeners []LoginListener
}

func NewBus(listeners ...LoginListener) *Bus {
	return &Bus{listeners: listeners}
}

// Subscribe adds a listener. Not safe to call after publishing starts.
func (b *Bus) Subscribe(l LoginListener) {
	b.listeners = append(b.listeners, l)
}

func (b *Bus) PublishSuccess(ctx context.Context, username string) {
	for _, l := range b.listeners {
		l.OnLoginSuccess(ctx, username)
	}
}

func (b *Bus) PublishFailure(ctx context.Context, username, reason string) {
	for _, l := range b.listeners {
		l.OnLoginFailure(ctx, username, reason)
	}
}
