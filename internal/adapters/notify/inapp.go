// Package notify contains the outbound notification channel adapters.
package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/taskboard/internal/ports/secondary"
)

// InApp writes notifications to the in-app inbox table. It is the default
// channel and the only one every deployment has.
type InApp struct {
	db *sql.DB
}

// NewInApp creates the in-app notification channel.
func NewInApp(db *sql.DB) *InApp {
	return &InApp{db: db}
}

// Send stores one notification row for the target user.
func (a *InApp) Send(ctx context.Context, n secondary.Notification) error {
	metadata := "{}"
	if len(n.Metadata) > 0 {
		raw, err := json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal notification metadata: %w", err)
		}
		metadata = string(raw)
	}

	channel := n.Channel
	if channel == "" {
		channel = secondary.ChannelInApp
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, channel, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), n.UserID, n.Title, n.Message, channel, metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// Ensure InApp implements the interface
var _ secondary.Notifier = (*InApp)(nil)
