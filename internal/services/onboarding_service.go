package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/authz"
	"github.com/mizusato/orghub/internal/events"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
)

var (
	ErrOwnerEmailMissing = errors.New("no owner email available for onboarding")
)

// OwnerData supplies owner details when the organization record itself does
// not carry them.
type OwnerData struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// OnboardingService prepares a fresh organization for use in one
// transaction: default roles, the owner account, their membership, and the
// owner role binding. Re-running against an onboarded organization is a
// no-op.
type OnboardingService struct {
	db     *gorm.DB
	events events.Publisher
}

// NewOnboardingService creates a new OnboardingService.
func NewOnboardingService(db *gorm.DB, publisher events.Publisher) *OnboardingService {
	return &OnboardingService{db: db, events: publisher}
}

// Onboard seeds roles and sets up the owner for the organization. Emits
// OrganizationCreated after the transaction commits.
func (s *OnboardingService) Onboard(ctx context.Context, organizationID uint64, ownerData OwnerData) error {
	orgRepo := repository.NewOrganizationRepository(s.db)

	org, err := orgRepo.FindByID(organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}

	// Roles present means a previous onboarding ran to completion.
	onboarded, err := orgRepo.HasRoles(org.ID)
	if err != nil {
		return fmt.Errorf("failed to check onboarding state: %w", err)
	}
	if onboarded {
		return nil
	}

	var owner *models.User

	err = s.db.Transaction(func(tx *gorm.DB) error {
		roleSvc := NewRoleService(repository.NewRoleRepository(tx), nil)
		userSvc := NewUserService(repository.NewUserRepository(tx))
		memberRepo := repository.NewMembershipRepository(tx)
		userRepo := repository.NewUserRepository(tx)

		if err := roleSvc.SeedPermissions(); err != nil {
			return err
		}
		if err := roleSvc.SeedOrganizationRoles(org); err != nil {
			return err
		}

		email := firstNonEmpty(org.OwnerEmail, ownerData.Email, org.Email)
		if email == "" {
			return ErrOwnerEmailMissing
		}

		firstName, lastName := ownerData.FirstName, ownerData.LastName
		if firstName == "" {
			firstName, lastName = splitOwnerName(org.OwnerName)
		}

		var err error
		owner, err = userSvc.FindOrCreate(email, FindOrCreateInput{
			FirstName: firstName,
			LastName:  lastName,
			Phone:     firstNonEmpty(org.OwnerPhone, ownerData.Phone, org.Phone),
		})
		if err != nil {
			return err
		}

		// Attach the owner and make this their default organization.
		if _, err := memberRepo.Find(org.ID, owner.ID); errors.Is(err, gorm.ErrRecordNotFound) {
			if err := memberRepo.Add(&models.Membership{
				OrganizationID: org.ID,
				UserID:         owner.ID,
			}); err != nil {
				return fmt.Errorf("failed to add owner membership: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to check owner membership: %w", err)
		}
		if err := memberRepo.SetDefault(owner.ID, org.ID); err != nil {
			return fmt.Errorf("failed to set default membership: %w", err)
		}

		if owner.CurrentOrganizationID == nil {
			if err := userRepo.SetCurrentOrganization(owner.ID, org.ID); err != nil {
				return fmt.Errorf("failed to set current organization: %w", err)
			}
			orgID := org.ID
			owner.CurrentOrganizationID = &orgID
		}

		roleRepo := repository.NewRoleRepository(tx)
		ownerRole, err := roleRepo.FindByNameOrSlug(org.ID, authz.RoleOwner)
		if err != nil {
			return fmt.Errorf("failed to find owner role: %w", err)
		}
		if err := roleRepo.Bind(owner.ID, ownerRole.ID, org.ID); err != nil {
			return fmt.Errorf("failed to bind owner role: %w", err)
		}

		// Backfill organization contact details from the owner.
		changed := false
		if org.Email == "" && owner.Email != "" {
			org.Email = owner.Email
			changed = true
		}
		if org.Phone == "" && owner.Phone != "" {
			org.Phone = owner.Phone
			changed = true
		}
		if changed {
			if err := repository.NewOrganizationRepository(tx).Update(org); err != nil {
				return fmt.Errorf("failed to update organization contacts: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, events.OrganizationCreated{Organization: *org, Owner: *owner})
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func splitOwnerName(fullName string) (string, string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "", ""
	}
	parts := strings.SplitN(fullName, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
