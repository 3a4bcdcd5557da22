package repository

import (
	"github.com/mizusato/orghub/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindBySlug finds an organization by its subdomain slug
func (r *GormOrganizationRepository) FindBySlug(slug string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization. The slug is immutable once assigned;
// Omit keeps accidental writes from reaching the column.
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Omit("slug").Save(org).Error
}

// SoftDelete soft-deletes an organization and everything it owns in a transaction
func (r *GormOrganizationRepository) SoftDelete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", id).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Team{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Role{}).Error; err != nil {
			return err
		}
		// Join rows have no DeletedAt column; they go away for real.
		if err := tx.Where("organization_id = ?", id).Delete(&models.RoleBinding{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Organization{}, id).Error; err != nil {
			return err
		}
		return nil
	})
}

// HasRoles reports whether any roles exist for the organization
func (r *GormOrganizationRepository) HasRoles(organizationID uint64) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Role{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
