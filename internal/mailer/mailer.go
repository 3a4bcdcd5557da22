// Package mailer is the outbound notification sink. Actual delivery is an
// external concern; the interface is what the worker programs against.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mizusato/orghub/pkg/queue"
)

// Mailer sends the two transactional mails the system produces.
type Mailer interface {
	SendInvitation(ctx context.Context, p queue.InvitationEmailPayload) error
	SendOwnerWelcome(ctx context.Context, p queue.OwnerWelcomePayload) error
}

// InvitationURL builds the acceptance link for the organization subdomain.
func InvitationURL(mainDomain, slug, rawToken string) string {
	return fmt.Sprintf("https://%s.%s/invitations/accept?token=%s", slug, mainDomain, rawToken)
}

// LogMailer writes deliveries to the log instead of sending them. The raw
// token is deliberately excluded from log output.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendInvitation(ctx context.Context, p queue.InvitationEmailPayload) error {
	m.logger.Info("invitation email",
		zap.String("to", p.RecipientEmail),
		zap.Uint64("invitation_id", p.InvitationID),
		zap.String("organization_slug", p.OrganizationSlug),
		zap.Time("expires_at", p.ExpiresAt))
	return nil
}

func (m *LogMailer) SendOwnerWelcome(ctx context.Context, p queue.OwnerWelcomePayload) error {
	m.logger.Info("owner welcome email",
		zap.String("to", p.OwnerEmail),
		zap.String("organization", p.OrganizationName))
	return nil
}
