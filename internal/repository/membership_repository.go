package repository

import (
	"github.com/mizusato/orghub/internal/models"
	"gorm.io/gorm"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Add inserts a membership row
func (r *GormMembershipRepository) Add(member *models.Membership) error {
	return r.db.Create(member).Error
}

// Find returns the membership for (organization, user)
func (r *GormMembershipRepository) Find(organizationID, userID uint64) (*models.Membership, error) {
	var member models.Membership
	if err := r.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Remove deletes the membership for (organization, user)
func (r *GormMembershipRepository) Remove(organizationID, userID uint64) error {
	return r.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Delete(&models.Membership{}).Error
}

// ListByUser lists a user's memberships with organizations preloaded
func (r *GormMembershipRepository) ListByUser(userID uint64) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByOrganization lists an organization's members with users preloaded
func (r *GormMembershipRepository) ListByOrganization(organizationID uint64) ([]models.Membership, error) {
	var members []models.Membership
	if err := r.db.Preload("User").
		Where("organization_id = ?", organizationID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountByUser counts how many organizations the user belongs to
func (r *GormMembershipRepository) CountByUser(userID uint64) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Membership{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SetDefault marks the membership as the user's default and clears the flag
// on every other membership, in one transaction. At most one default per
// user survives any interleaving of swaps.
func (r *GormMembershipRepository) SetDefault(userID, organizationID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var member models.Membership
		if err := tx.Where("organization_id = ? AND user_id = ?", organizationID, userID).
			First(&member).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Membership{}).
			Where("user_id = ? AND organization_id <> ?", userID, organizationID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		return tx.Model(&models.Membership{}).
			Where("organization_id = ? AND user_id = ?", organizationID, userID).
			Update("is_default", true).Error
	})
}
