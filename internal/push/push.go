// Package push dispatches broadcast notifications to registered devices.
package push

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/db/controller/device"
)

// BatchSize is the provider's per-request recipient limit.
const BatchSize = 500

// ErrNoSender is returned when broadcasting without a configured provider.
var ErrNoSender = errors.New("push provider is not configured")

// MulticastSender submits one notification to a batch of recipient tokens
// and reports how many were delivered successfully.
type MulticastSender interface {
	SendMulticast(ctx context.Context, title, body string, tokens []string) (int, error)
}

// Dispatcher fans a notification out to every registered device token.
type Dispatcher struct {
	db     *gorm.DB
	sender MulticastSender
}

// NewDispatcher creates a Dispatcher reading tokens from db and sending
// through sender. A nil sender is allowed; Broadcast then fails with
// ErrNoSender once there is something to send.
func NewDispatcher(db *gorm.DB, sender MulticastSender) *Dispatcher {
	return &Dispatcher{db: db, sender: sender}
}

// Broadcast sends title/body to all registered tokens in batches of
// BatchSize and returns the accumulated success count. With no tokens it
// returns 0 without contacting the provider. On any error the already
// delivered prefix of batches is not rolled back: delivery is best-effort,
// at-least-once, and the caller must treat the whole broadcast as failed.
func (d *Dispatcher) Broadcast(ctx context.Context, title, body string) (int, error) {
	tokens, err := device.ListTokens(d.db)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list device tokens")
	}

	if len(tokens) == 0 {
		return 0, nil
	}

	if d.sender == nil {
		return 0, ErrNoSender
	}

	successCount := 0

	for start := 0; start < len(tokens); start += BatchSize {
		end := start + BatchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		sent, err := d.sender.SendMulticast(ctx, title, body, tokens[start:end])
		if err != nil {
			log.Error().Err(err).
				Int("batch_start", start).
				Int("delivered_so_far", successCount).
				Msg("broadcast batch failed")

			return 0, errors.Wrap(err, "broadcast batch failed")
		}

		successCount += sent
	}

	return successCount, nil
}
