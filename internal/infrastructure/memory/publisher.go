package memory

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/islamipic/api/internal/application/auth"
)

// NoopPublisher stands in for RabbitMQ in dev: it logs the approval link so
// the flow can be exercised without a broker or mailbox.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishStaffVerifyRequested(ctx context.Context, evt auth.StaffVerifyEvent) error {
	zlog.Info().
		Str("account_id", evt.AccountID).
		Str("email", evt.Email).
		Str("role", evt.Role).
		Str("url", evt.URL).
		Msg("noop publisher: staff verify requested")
	return nil
}
