package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/mizusato/orghub/internal/database"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrRevokePending is returned when revoking prior pending invitations
	// fails inside the issue transaction.
	ErrRevokePending = errors.New("invitation repository: revoke pending failed")
	// ErrCreateInvitation is returned when inserting the new invitation
	// fails inside the issue transaction.
	ErrCreateInvitation = errors.New("invitation repository: create invitation failed")
	// ErrCreateMembership is returned when the membership insert fails
	// inside the accept transaction.
	ErrCreateMembership = errors.New("invitation repository: create membership failed")
	// ErrBindRole is returned when a role binding fails inside the accept
	// transaction.
	ErrBindRole = errors.New("invitation repository: bind role failed")
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Issue revokes any pending invitation for (organization, email) and inserts
// the new pending row in one transaction. The UPDATE takes row locks on the
// (organization_id, email) index range under InnoDB, which serializes
// concurrent issuance for the same pair; losers of a race end up revoked,
// never duplicated as pending.
func (r *GormInvitationRepository) Issue(inv *models.Invitation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Invitation{}).
			Where("organization_id = ? AND email = ? AND status = ?",
				inv.OrganizationID, inv.Email, models.InvitationPending).
			Update("status", models.InvitationRevoked).Error
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRevokePending, err)
		}

		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateInvitation, err)
		}

		return nil
	})
}

// FindByID finds an invitation by ID scoped to the organization
func (r *GormInvitationRepository) FindByID(organizationID, id uint64) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.Scopes(database.TenantScope(organizationID)).
		First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindByTokenHash finds an invitation by token hash. Deliberately unscoped:
// the invitee may not know the subdomain yet, so the token alone identifies
// the organization.
func (r *GormInvitationRepository) FindByTokenHash(hash string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.Preload("Organization").
		Where("token_hash = ?", hash).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// List lists an organization's invitations with filtering and pagination
func (r *GormInvitationRepository) List(organizationID uint64, filter InvitationFilter, page utils.PaginationParams) ([]models.Invitation, int64, error) {
	query := r.db.Model(&models.Invitation{}).
		Scopes(database.TenantScope(organizationID))

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invitations []models.Invitation
	if err := query.Scopes(database.Paginate(page)).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, 0, err
	}

	return invitations, total, nil
}

// UpdateStatus persists a status transition
func (r *GormInvitationRepository) UpdateStatus(inv *models.Invitation) error {
	return r.db.Model(inv).
		Select("status", "accepted_at").
		Updates(map[string]interface{}{
			"status":      inv.Status,
			"accepted_at": inv.AcceptedAt,
		}).Error
}

// Accept applies the acceptance steps atomically: membership create-if-absent
// (first membership becomes the default), current-organization bookkeeping,
// role bindings carrying the organization ID, and the pending→accepted flip.
// Either every step lands or none do.
func (r *GormInvitationRepository) Accept(inv *models.Invitation, user *models.User, roles []models.Role) (bool, []uint64, error) {
	var (
		newMember  bool
		boundIDs   []uint64
		adoptedOrg bool
		acceptedAt time.Time
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// 1. Attach the user to the organization if not already a member.
		var existing models.Membership
		err := tx.Where("organization_id = ? AND user_id = ?", inv.OrganizationID, user.ID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			var memberships int64
			if err := tx.Model(&models.Membership{}).
				Where("user_id = ?", user.ID).
				Count(&memberships).Error; err != nil {
				return err
			}
			member := models.Membership{
				OrganizationID: inv.OrganizationID,
				UserID:         user.ID,
				IsDefault:      memberships == 0,
			}
			if err := tx.Create(&member).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateMembership, err)
			}
			newMember = true
		case err != nil:
			return err
		}

		// 2. Adopt the organization as current if the user has none.
		if user.CurrentOrganizationID == nil {
			if err := tx.Model(&models.User{}).
				Where("id = ?", user.ID).
				Update("current_organization_id", inv.OrganizationID).Error; err != nil {
				return err
			}
			adoptedOrg = true
		}

		// 3+4. Bind the resolved roles, skipping ones already bound.
		for _, role := range roles {
			var binding models.RoleBinding
			err := tx.Where("user_id = ? AND role_id = ?", user.ID, role.ID).
				First(&binding).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Create(&models.RoleBinding{
				UserID:         user.ID,
				RoleID:         role.ID,
				OrganizationID: inv.OrganizationID,
			}).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrBindRole, err)
			}
			boundIDs = append(boundIDs, role.ID)
		}

		// 5. Flip the invitation to its terminal state.
		acceptedAt = time.Now()
		return tx.Model(inv).
			Select("status", "accepted_at").
			Updates(map[string]interface{}{
				"status":      models.InvitationAccepted,
				"accepted_at": acceptedAt,
			}).Error
	})
	if err != nil {
		return false, nil, err
	}

	// Mirror the committed state on the in-memory structs only now, so a
	// rolled-back transaction leaves the callers' copies untouched.
	if adoptedOrg {
		orgID := inv.OrganizationID
		user.CurrentOrganizationID = &orgID
	}
	inv.Status = models.InvitationAccepted
	inv.AcceptedAt = &acceptedAt

	return newMember, boundIDs, nil
}

// ExpireLapsed bulk-marks pending invitations past their deadline as expired
func (r *GormInvitationRepository) ExpireLapsed() (int64, error) {
	res := r.db.Model(&models.Invitation{}).
		Where("status = ? AND expires_at < ?", models.InvitationPending, time.Now()).
		Update("status", models.InvitationExpired)
	return res.RowsAffected, res.Error
}
