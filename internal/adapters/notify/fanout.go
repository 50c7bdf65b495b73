package notify

import (
	"context"

	"github.com/example/taskboard/internal/ports/secondary"
)

// Fanout sends each notification through every configured channel. Every
// channel is attempted even when an earlier one fails; the first error is
// the one reported.
type Fanout struct {
	channels []secondary.Notifier
}

// NewFanout composes notifiers into a single channel.
func NewFanout(channels ...secondary.Notifier) *Fanout {
	return &Fanout{channels: channels}
}

// Send delivers the notification on all channels.
func (f *Fanout) Send(ctx context.Context, n secondary.Notification) error {
	var firstErr error
	for _, c := range f.channels {
		if err := c.Send(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ensure Fanout implements the interface
var _ secondary.Notifier = (*Fanout)(nil)
