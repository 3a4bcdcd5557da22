package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mizusato/orghub/internal/events"
	"github.com/mizusato/orghub/internal/models"
	"github.com/mizusato/orghub/internal/repository"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
)

// MembershipService attaches and detaches users to organizations and keeps
// the default-organization flag consistent.
type MembershipService struct {
	memberRepo repository.MembershipRepository
	userRepo   repository.UserRepository
	events     events.Publisher
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(memberRepo repository.MembershipRepository, userRepo repository.UserRepository, publisher events.Publisher) *MembershipService {
	return &MembershipService{memberRepo: memberRepo, userRepo: userRepo, events: publisher}
}

// AddUser attaches the user to the organization. Returns false without error
// when the user is already a member; the first membership a user ever gets is
// marked as their default.
func (s *MembershipService) AddUser(ctx context.Context, organizationID, userID uint64) (bool, error) {
	if _, err := s.memberRepo.Find(organizationID, userID); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	count, err := s.memberRepo.CountByUser(userID)
	if err != nil {
		return false, fmt.Errorf("failed to count memberships: %w", err)
	}

	member := &models.Membership{
		OrganizationID: organizationID,
		UserID:         userID,
		IsDefault:      count == 0,
	}
	if err := s.memberRepo.Add(member); err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, events.UserJoinedOrganization{
			UserID:         userID,
			OrganizationID: organizationID,
		})
	}

	return true, nil
}

// RemoveUser detaches the user from the organization.
func (s *MembershipService) RemoveUser(organizationID, userID uint64) error {
	if _, err := s.memberRepo.Find(organizationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if err := s.memberRepo.Remove(organizationID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// HasUser reports whether the user belongs to the organization.
func (s *MembershipService) HasUser(organizationID, userID uint64) (bool, error) {
	_, err := s.memberRepo.Find(organizationID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check membership: %w", err)
}

// SetDefault marks the organization as the user's default. The swap is
// transactional, so at most one membership per user carries the flag.
func (s *MembershipService) SetDefault(organizationID, userID uint64) error {
	if err := s.memberRepo.SetDefault(userID, organizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to set default membership: %w", err)
	}
	return nil
}

// ListMembers returns the organization's members with users preloaded.
func (s *MembershipService) ListMembers(organizationID uint64) ([]models.Membership, error) {
	members, err := s.memberRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// ListForUser returns the user's memberships with organizations preloaded.
func (s *MembershipService) ListForUser(userID uint64) ([]models.Membership, error) {
	memberships, err := s.memberRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}
