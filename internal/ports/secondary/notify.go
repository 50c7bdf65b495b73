package secondary

import "context"

// Notification channels. The urgent channel is reserved for manager
// escalations so the receiving side can prioritize rendering/delivery.
const (
	ChannelInApp  = "in_app"
	ChannelUrgent = "urgent"
)

// Notification is one message to one user on one channel.
type Notification struct {
	UserID   string
	Title    string
	Message  string
	Channel  string
	Metadata map[string]string
}

// Notifier defines the secondary port for primary notification delivery.
// Implementations may fail; the executor records the failure on the log row.
type Notifier interface {
	// Send delivers a notification to a single user.
	Send(ctx context.Context, n Notification) error
}

// SMSSender defines the secondary port for the urgent SMS side-channel.
type SMSSender interface {
	// Send delivers a one-line SMS using the given provider credentials.
	Send(ctx context.Context, creds SMSCredentials, to, message string) error
}
