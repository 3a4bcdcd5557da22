package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/mizusato/orghub/pkg/queue"
)

// QueuePublisher turns domain events into background jobs. Only events with
// an asynchronous consumer become jobs; the rest are logged for visibility.
type QueuePublisher struct {
	queue  *queue.Queue
	logger *zap.Logger
}

func NewQueuePublisher(q *queue.Queue, logger *zap.Logger) *QueuePublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueuePublisher{queue: q, logger: logger}
}

func (p *QueuePublisher) Publish(ctx context.Context, event Event) error {
	var err error
	switch e := event.(type) {
	case InvitationCreated:
		err = p.queue.EnqueueInvitationEmail(ctx, queue.InvitationEmailPayload{
			InvitationID:     e.Invitation.ID,
			OrganizationID:   e.Invitation.OrganizationID,
			OrganizationSlug: e.Invitation.Organization.Slug,
			RecipientEmail:   e.Invitation.Email,
			RecipientName:    e.Invitation.Name,
			RawToken:         e.RawToken,
			ExpiresAt:        e.Invitation.ExpiresAt,
		})
	case OrganizationCreated:
		err = p.queue.EnqueueOwnerWelcome(ctx, queue.OwnerWelcomePayload{
			OrganizationID:   e.Organization.ID,
			OrganizationName: e.Organization.Name,
			OrganizationSlug: e.Organization.Slug,
			OwnerEmail:       e.Owner.Email,
			OwnerName:        e.Owner.FullName(),
		})
	default:
		p.logger.Debug("event emitted", zap.String("event", event.EventName()))
		return nil
	}

	if err != nil {
		// The owning transaction already committed; delivery failures are
		// logged, never propagated into the business operation.
		p.logger.Error("failed to publish event",
			zap.String("event", event.EventName()),
			zap.Error(err))
		return err
	}
	return nil
}
