package service

import (
	"context"
	"fmt"

	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/rules"
	"github.com/evalarena/arena-backend/internal/socket"
	"github.com/evalarena/arena-backend/internal/types"
)

// ============================================
// Host Team Service
// ============================================

type HostTeamService interface {
	Create(ctx context.Context, userID, teamName string) (*repository.HostTeam, error)
	Get(ctx context.Context, userID, teamID string) (*repository.HostTeam, error)
	ListMine(ctx context.Context, userID string) ([]*repository.HostTeam, error)
	Update(ctx context.Context, userID, teamID, teamName string) (*repository.HostTeam, error)
	Delete(ctx context.Context, userID, teamID string) error

	AddHost(ctx context.Context, userID, teamID, targetUserID, permission string) (*repository.ChallengeHost, error)
	UpdateHost(ctx context.Context, userID, teamID, targetUserID string, status, permission *string) error
	RemoveHost(ctx context.Context, userID, teamID, targetUserID string) error
	ListHosts(ctx context.Context, userID, teamID string) ([]*repository.ChallengeHost, error)
}

type hostTeamService struct {
	teamRepo    repository.HostTeamRepository
	userRepo    repository.UserRepository
	broadcaster *socket.Broadcaster
}

func NewHostTeamService(
	teamRepo repository.HostTeamRepository,
	userRepo repository.UserRepository,
	broadcaster *socket.Broadcaster,
) HostTeamService {
	return &hostTeamService{teamRepo: teamRepo, userRepo: userRepo, broadcaster: broadcaster}
}

// hostRoles converts persisted host rows into role assignments for the
// authorization gate. Rows with unknown status or permission strings are
// skipped rather than guessed at.
func hostRoles(hosts []*repository.ChallengeHost) []rules.RoleAssignment {
	roles := make([]rules.RoleAssignment, 0, len(hosts))
	for _, h := range hosts {
		status, ok := types.ParseHostStatus(h.Status)
		if !ok {
			continue
		}
		level, ok := types.ParsePermissionLevel(h.Permission)
		if !ok {
			continue
		}
		roles = append(roles, rules.RoleAssignment{
			ActorID: h.UserID,
			TeamID:  h.TeamID,
			Status:  status,
			Level:   level,
		})
	}
	return roles
}

func (s *hostTeamService) authorize(ctx context.Context, userID, teamID string, required rules.PermissionLevel) error {
	hosts, err := s.teamRepo.FindHosts(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to load hosts: %w", err)
	}
	decision := rules.Authorize(userID, hostRoles(hosts), required)
	if !decision.Permitted {
		if decision.Reason == rules.NotAuthenticated {
			return ErrUnauthorized
		}
		return ErrForbidden
	}
	return nil
}

func (s *hostTeamService) Create(ctx context.Context, userID, teamName string) (*repository.HostTeam, error) {
	team := &repository.HostTeam{
		TeamName:  teamName,
		CreatedBy: userID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create host team: %w", err)
	}

	host := &repository.ChallengeHost{
		UserID:     userID,
		TeamID:     team.ID,
		Status:     types.HostStatusAccepted,
		Permission: types.PermissionAdmin,
	}
	if err := s.teamRepo.AddHost(ctx, host); err != nil {
		return nil, fmt.Errorf("failed to add creator as host: %w", err)
	}

	team.Hosts = []*repository.ChallengeHost{host}
	return team, nil
}

func (s *hostTeamService) Get(ctx context.Context, userID, teamID string) (*repository.HostTeam, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrHostTeamNotFound
	}

	if err := s.authorize(ctx, userID, teamID, rules.Read); err != nil {
		return nil, err
	}

	team.Hosts, err = s.teamRepo.FindHosts(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *hostTeamService) ListMine(ctx context.Context, userID string) ([]*repository.HostTeam, error) {
	return s.teamRepo.FindByUserID(ctx, userID)
}

func (s *hostTeamService) Update(ctx context.Context, userID, teamID, teamName string) (*repository.HostTeam, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrHostTeamNotFound
	}

	if err := s.authorize(ctx, userID, teamID, rules.Admin); err != nil {
		return nil, err
	}

	team.TeamName = teamName
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update host team: %w", err)
	}
	return team, nil
}

func (s *hostTeamService) Delete(ctx context.Context, userID, teamID string) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrHostTeamNotFound
	}

	// Only the creator may remove the team
	if team.CreatedBy != userID {
		return ErrForbidden
	}

	return s.teamRepo.Delete(ctx, teamID)
}

func (s *hostTeamService) AddHost(ctx context.Context, userID, teamID, targetUserID, permission string) (*repository.ChallengeHost, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrHostTeamNotFound
	}

	if err := s.authorize(ctx, userID, teamID, rules.Admin); err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.teamRepo.FindHost(ctx, teamID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	host := &repository.ChallengeHost{
		UserID:     targetUserID,
		TeamID:     teamID,
		Status:     types.HostStatusRequested,
		Permission: permission,
	}
	if err := s.teamRepo.AddHost(ctx, host); err != nil {
		return nil, fmt.Errorf("failed to add host: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.NotifyMemberAdded(targetUserID, teamID, "host")
	}
	return host, nil
}

func (s *hostTeamService) UpdateHost(ctx context.Context, userID, teamID, targetUserID string, status, permission *string) error {
	host, err := s.teamRepo.FindHost(ctx, teamID, targetUserID)
	if err != nil {
		return err
	}
	if host == nil {
		return ErrUserNotFound
	}

	// Accepting your own pending invitation needs no admin role
	selfAccept := userID == targetUserID && permission == nil
	if !selfAccept {
		if err := s.authorize(ctx, userID, teamID, rules.Admin); err != nil {
			return err
		}
	}

	newStatus := host.Status
	if status != nil {
		newStatus = *status
	}
	newPermission := host.Permission
	if permission != nil {
		newPermission = *permission
	}

	return s.teamRepo.UpdateHost(ctx, teamID, targetUserID, newStatus, newPermission)
}

func (s *hostTeamService) RemoveHost(ctx context.Context, userID, teamID, targetUserID string) error {
	host, err := s.teamRepo.FindHost(ctx, teamID, targetUserID)
	if err != nil {
		return err
	}
	if host == nil {
		return ErrUserNotFound
	}

	// Leaving the team yourself is always allowed
	if userID != targetUserID {
		if err := s.authorize(ctx, userID, teamID, rules.Admin); err != nil {
			return err
		}
	}

	if err := s.teamRepo.RemoveHost(ctx, teamID, targetUserID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.NotifyMemberRemoved(targetUserID, teamID, "host")
	}
	return nil
}

func (s *hostTeamService) ListHosts(ctx context.Context, userID, teamID string) ([]*repository.ChallengeHost, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrHostTeamNotFound
	}

	if err := s.authorize(ctx, userID, teamID, rules.Read); err != nil {
		return nil, err
	}

	return s.teamRepo.FindHosts(ctx, teamID)
}
