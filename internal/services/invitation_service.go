package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/constants"
	"github.com/mizusato/orghub/internal/events"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
	"github.com/mizusato/orghub/internal/utils"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationExpired means the deadline passed before acceptance.
	ErrInvitationExpired = errors.New("invitation has expired")
	// ErrInvitationNotPending means the invitation was already accepted or
	// revoked. Distinct from expiry for user-facing messaging.
	ErrInvitationNotPending  = errors.New("invitation has already been used or revoked")
	ErrInvitationEmailEmpty  = errors.New("invitation email cannot be empty")
	ErrTokenGenerationFailed = errors.New("failed to generate invitation token")
)

// InvitationService owns the invitation lifecycle: issuance with secure
// tokens, lookup by raw token, lazy expiry, revocation, and acceptance.
type InvitationService struct {
	invRepo    repository.InvitationRepository
	orgRepo    repository.OrganizationRepository
	roleRepo   repository.RoleRepository
	userRepo   repository.UserRepository
	events     events.Publisher
	defaultTTL time.Duration
}

// NewInvitationService creates a new InvitationService. ttlDays <= 0 falls
// back to the default of 7 days.
func NewInvitationService(
	invRepo repository.InvitationRepository,
	orgRepo repository.OrganizationRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	ttlDays int,
) *InvitationService {
	if ttlDays <= 0 {
		ttlDays = constants.DefaultInvitationTTLDays
	}
	return &InvitationService{
		invRepo:    invRepo,
		orgRepo:    orgRepo,
		roleRepo:   roleRepo,
		userRepo:   userRepo,
		events:     publisher,
		defaultTTL: time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// IssueInput represents parameters to issue a new invitation.
type IssueInput struct {
	OrganizationID uint64
	Email          string
	Name           string
	Roles          []string
	InvitedBy      *uint64
	// TTL overrides the default expiry window when positive.
	TTL time.Duration
}

// Issue creates a pending invitation and returns it together with the raw
// token. The raw token exists only on this return path and on the
// InvitationCreated event; storage keeps the SHA-256 hash. Any prior pending
// invitation for the same (organization, email) is revoked in the same
// transaction, so at most one stays active.
func (s *InvitationService) Issue(ctx context.Context, input IssueInput) (*models.Invitation, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, "", ErrInvitationEmailEmpty
	}

	org, err := s.orgRepo.FindByID(input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrOrganizationNotFound
		}
		return nil, "", fmt.Errorf("failed to find organization: %w", err)
	}

	rawToken, err := utils.GenerateInvitationToken()
	if err != nil {
		return nil, "", ErrTokenGenerationFailed
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	inv := &models.Invitation{
		OrganizationID: org.ID,
		Email:          email,
		Name:           input.Name,
		TokenHash:      utils.HashToken(rawToken),
		Roles:          input.Roles,
		Status:         models.InvitationPending,
		InvitedBy:      input.InvitedBy,
		ExpiresAt:      time.Now().Add(ttl),
	}

	if err := s.invRepo.Issue(inv); err != nil {
		return nil, "", fmt.Errorf("failed to issue invitation: %w", err)
	}

	// The transaction is committed; hand the raw token to the mailer. The
	// token cannot be re-derived from storage, so this event is its only
	// path out.
	if s.events != nil {
		inv.Organization = *org
		_ = s.events.Publish(ctx, events.InvitationCreated{Invitation: *inv, RawToken: rawToken})
	}

	return inv, rawToken, nil
}

// FindByRawToken hashes the presented token and looks it up across all
// tenants. The token, not the subdomain, identifies the organization.
func (s *InvitationService) FindByRawToken(rawToken string) (*models.Invitation, error) {
	inv, err := s.invRepo.FindByTokenHash(utils.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	return inv, nil
}

// Validate checks that the invitation is still acceptable. A lapsed pending
// invitation is flipped to expired as a side effect (lazy expiry); the
// periodic sweep is a reporting convenience, never a correctness dependency.
func (s *InvitationService) Validate(inv *models.Invitation) error {
	if inv.Status != models.InvitationPending {
		return ErrInvitationNotPending
	}
	if inv.IsExpired() {
		inv.Status = models.InvitationExpired
		if err := s.invRepo.UpdateStatus(inv); err != nil {
			return fmt.Errorf("failed to mark invitation expired: %w", err)
		}
		return ErrInvitationExpired
	}
	return nil
}

// Accept applies an invitation for the user. All membership, default-
// organization, and role-binding changes land in one transaction with the
// status flip; a failure leaves nothing behind.
func (s *InvitationService) Accept(ctx context.Context, inv *models.Invitation, userID uint64) error {
	if err := s.Validate(inv); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	// Resolve the invitation's role names against the organization's role
	// set, matching name or slug. Unresolvable names are skipped, not fatal.
	var roles []models.Role
	for _, name := range inv.Roles {
		role, err := s.roleRepo.FindByNameOrSlug(inv.OrganizationID, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return fmt.Errorf("failed to resolve role %q: %w", name, err)
		}
		roles = append(roles, *role)
	}

	newMember, boundRoleIDs, err := s.invRepo.Accept(inv, user, roles)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}

	if s.events != nil {
		if newMember {
			_ = s.events.Publish(ctx, events.UserJoinedOrganization{
				UserID:         user.ID,
				OrganizationID: inv.OrganizationID,
			})
		}
		if len(boundRoleIDs) > 0 {
			_ = s.events.Publish(ctx, events.RolesAssignedToUser{
				UserID:         user.ID,
				OrganizationID: inv.OrganizationID,
				RoleIDs:        boundRoleIDs,
			})
		}
		_ = s.events.Publish(ctx, events.InvitationAccepted{Invitation: *inv, UserID: user.ID})
	}

	return nil
}

// AcceptByToken resolves the raw token and accepts the invitation for the
// user.
func (s *InvitationService) AcceptByToken(ctx context.Context, rawToken string, userID uint64) (*models.Invitation, error) {
	inv, err := s.FindByRawToken(rawToken)
	if err != nil {
		return nil, err
	}
	if err := s.Accept(ctx, inv, userID); err != nil {
		return nil, err
	}
	return inv, nil
}

// Revoke cancels a pending invitation. Terminal invitations are rejected.
func (s *InvitationService) Revoke(organizationID, invitationID uint64) (*models.Invitation, error) {
	inv, err := s.invRepo.FindByID(organizationID, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if inv.Status != models.InvitationPending {
		return nil, ErrInvitationNotPending
	}

	inv.Status = models.InvitationRevoked
	if err := s.invRepo.UpdateStatus(inv); err != nil {
		return nil, fmt.Errorf("failed to revoke invitation: %w", err)
	}
	return inv, nil
}

// List returns the organization's invitations with filtering and pagination.
func (s *InvitationService) List(organizationID uint64, filter repository.InvitationFilter, page utils.PaginationParams) ([]models.Invitation, int64, error) {
	invitations, total, err := s.invRepo.List(organizationID, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, total, nil
}

// ExpireLapsed marks pending invitations past their deadline as expired.
// Run periodically by the worker for reporting hygiene.
func (s *InvitationService) ExpireLapsed(ctx context.Context) (int64, error) {
	n, err := s.invRepo.ExpireLapsed()
	if err != nil {
		return 0, fmt.Errorf("failed to expire lapsed invitations: %w", err)
	}
	return n, nil
}
