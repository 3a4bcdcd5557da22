package models

import (
	"time"

	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// Invitation is tenant-owned. Only the SHA-256 hex of the invite token is
// stored; the raw token exists exactly once, on the issuance return path.
// Lifecycle: pending -> {accepted, expired, revoked}, terminal states never
// transition again.
type Invitation struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	OrganizationID uint64           `gorm:"not null;index:idx_invitations_org_email" json:"organization_id"`
	Email          string           `gorm:"type:varchar(255);not null;index:idx_invitations_org_email" json:"email"`
	Name           string           `gorm:"type:varchar(255)" json:"name"`
	TokenHash      string           `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	Roles          []string         `gorm:"serializer:json" json:"roles"`
	Status         InvitationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	InvitedBy      *uint64          `json:"invited_by"`
	ExpiresAt      time.Time        `gorm:"not null" json:"expires_at"`
	AcceptedAt     *time.Time       `json:"accepted_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Inviter      *User        `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
}

// IsExpired reports whether the invitation's deadline has passed.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// CanBeAccepted reports whether the invitation is still pending and unexpired.
func (i *Invitation) CanBeAccepted() bool {
	return i.Status == InvitationPending && !i.IsExpired()
}
