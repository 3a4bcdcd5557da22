package repository

import (
	"errors"

	"github.com/mizusato/orghub/internal/models"
	"gorm.io/gorm"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(id uint64) (*models.Role, error) {
	var role models.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByNameOrSlug resolves a role within an organization by name or slug
func (r *GormRoleRepository) FindByNameOrSlug(organizationID uint64, nameOrSlug string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("organization_id = ?", organizationID).
		Where("name = ? OR slug = ?", nameOrSlug, nameOrSlug).
		First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListByOrganization lists an organization's roles
func (r *GormRoleRepository) ListByOrganization(organizationID uint64) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Where("organization_id = ?", organizationID).
		Order("id").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FirstOrCreate finds a role by (organization_id, slug) or inserts it
func (r *GormRoleRepository) FirstOrCreate(role *models.Role) error {
	return r.db.Where("organization_id = ? AND slug = ?", role.OrganizationID, role.Slug).
		FirstOrCreate(role).Error
}

// FindPermissionByName finds a global permission by exact name
func (r *GormRoleRepository) FindPermissionByName(name string) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.Where("name = ?", name).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// EnsurePermission inserts a permission unless it already exists
func (r *GormRoleRepository) EnsurePermission(name, description string) (*models.Permission, error) {
	perm := models.Permission{Name: name, Description: description}
	if err := r.db.Where("name = ?", name).FirstOrCreate(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// AttachPermission links a permission to a role, skipping duplicates
func (r *GormRoleRepository) AttachPermission(roleID, permissionID uint64) error {
	var existing models.RolePermission
	err := r.db.Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.RolePermission{RoleID: roleID, PermissionID: permissionID}).Error
}

// Bind grants the role to the user within the organization, skipping duplicates
func (r *GormRoleRepository) Bind(userID, roleID, organizationID uint64) error {
	var existing models.RoleBinding
	err := r.db.Where("user_id = ? AND role_id = ?", userID, roleID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.RoleBinding{
		UserID:         userID,
		RoleID:         roleID,
		OrganizationID: organizationID,
	}).Error
}

// Unbind revokes the role from the user within the organization
func (r *GormRoleRepository) Unbind(userID, roleID, organizationID uint64) error {
	return r.db.Where("user_id = ? AND role_id = ? AND organization_id = ?",
		userID, roleID, organizationID).
		Delete(&models.RoleBinding{}).Error
}

// RolesForUser lists the roles bound to the user in the organization
func (r *GormRoleRepository) RolesForUser(userID, organizationID uint64) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.
		Joins("JOIN role_bindings ON role_bindings.role_id = roles.id").
		Where("role_bindings.user_id = ? AND role_bindings.organization_id = ?", userID, organizationID).
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// UserHasPermission reports whether any role bound to the user in the
// organization carries one of the given permission names. Existence check,
// not enumeration.
func (r *GormRoleRepository) UserHasPermission(userID, organizationID uint64, permissionNames []string) (bool, error) {
	var count int64
	err := r.db.Model(&models.RoleBinding{}).
		Joins("JOIN role_permissions ON role_permissions.role_id = role_bindings.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_bindings.user_id = ? AND role_bindings.organization_id = ?", userID, organizationID).
		Where("permissions.name IN ?", permissionNames).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserHasRoleAnywhere reports whether the user holds a role with the given
// name in any organization. Backs the global admin bypass.
func (r *GormRoleRepository) UserHasRoleAnywhere(userID uint64, roleName string) (bool, error) {
	var count int64
	err := r.db.Model(&models.RoleBinding{}).
		Joins("JOIN roles ON roles.id = role_bindings.role_id").
		Where("role_bindings.user_id = ?", userID).
		Where("roles.name = ? OR roles.slug = ?", roleName, roleName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
