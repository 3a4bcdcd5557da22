// Package events defines the domain events emitted after core transactions
// commit, and the publisher used to hand them to asynchronous collaborators.
package events

import (
	"context"

	"github.com/mizusato/orghub/internal/models"
)

// Event is a domain event. Events are emitted strictly after the owning
// transaction commits; consumers must never observe not-yet-durable state.
type Event interface {
	EventName() string
}

// Publisher delivers events to asynchronous collaborators (mailer,
// onboarding jobs). Delivery is fire-and-forget from the caller's point of
// view: a failed publish is logged by the implementation and must never fail
// the business operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// OrganizationCreated fires once a new organization is onboarded.
type OrganizationCreated struct {
	Organization models.Organization
	Owner        models.User
}

func (OrganizationCreated) EventName() string { return "organization.created" }

// InvitationCreated carries the raw token for delivery. The token is not
// re-derivable from storage; this event is the only place it travels after
// issuance.
type InvitationCreated struct {
	Invitation models.Invitation
	RawToken   string
}

func (InvitationCreated) EventName() string { return "invitation.created" }

// InvitationAccepted fires when an invitee completes acceptance.
type InvitationAccepted struct {
	Invitation models.Invitation
	UserID     uint64
}

func (InvitationAccepted) EventName() string { return "invitation.accepted" }

// UserJoinedOrganization fires for first-time members only.
type UserJoinedOrganization struct {
	UserID         uint64
	OrganizationID uint64
}

func (UserJoinedOrganization) EventName() string { return "user.joined_organization" }

// RolesAssignedToUser fires when acceptance or onboarding binds roles.
type RolesAssignedToUser struct {
	UserID         uint64
	OrganizationID uint64
	RoleIDs        []uint64
}

func (RolesAssignedToUser) EventName() string { return "roles.assigned" }
