package services

import (
	"fmt"

	"github.com/mizusato/orghub/internal/authz"
	"github.com/mizusato/orghub/internal/repository"
)

// AuthzService is the single entry point for permission checks. Every call
// site authorizes through Authorize; there is no other gate.
type AuthzService struct {
	roleRepo repository.RoleRepository
}

// NewAuthzService creates a new AuthzService.
func NewAuthzService(roleRepo repository.RoleRepository) *AuthzService {
	return &AuthzService{roleRepo: roleRepo}
}

// Authorize reports whether the user holds the permission within the
// organization. "No permission" is a false return, never an error.
//
// A user holding a role named "admin" in ANY organization passes every check,
// including while acting in an organization where they hold no role at all.
// This is the intentional global super-admin escape hatch layered above
// per-tenant RBAC.
func (s *AuthzService) Authorize(userID uint64, perm authz.Permission, organizationID uint64) (bool, error) {
	isAdmin, err := s.roleRepo.UserHasRoleAnywhere(userID, authz.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check admin role: %w", err)
	}
	if isAdmin {
		return true, nil
	}

	// No resolvable organization means no permissions. Fails closed.
	if organizationID == 0 {
		return false, nil
	}

	ok, err := s.roleRepo.UserHasPermission(userID, organizationID, perm.MatchNames())
	if err != nil {
		return false, fmt.Errorf("failed to evaluate permission: %w", err)
	}
	return ok, nil
}
