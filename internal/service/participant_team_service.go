package service

import (
	"context"
	"fmt"

	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/socket"
	"github.com/evalarena/arena-backend/internal/types"
)

// ============================================
// Participant Team Service
// ============================================

type ParticipantTeamService interface {
	Create(ctx context.Context, userID, teamName string) (*repository.ParticipantTeam, error)
	Get(ctx context.Context, userID, teamID string) (*repository.ParticipantTeam, error)
	ListMine(ctx context.Context, userID string) ([]*repository.ParticipantTeam, error)
	Update(ctx context.Context, userID, teamID, teamName string) (*repository.ParticipantTeam, error)
	Delete(ctx context.Context, userID, teamID string) error

	AddMember(ctx context.Context, userID, teamID, targetUserID string) (*repository.Participant, error)
	RemoveMember(ctx context.Context, userID, teamID, targetUserID string) error
	ListMembers(ctx context.Context, userID, teamID string) ([]*repository.Participant, error)
}

type participantTeamService struct {
	teamRepo    repository.ParticipantTeamRepository
	userRepo    repository.UserRepository
	broadcaster *socket.Broadcaster
}

func NewParticipantTeamService(
	teamRepo repository.ParticipantTeamRepository,
	userRepo repository.UserRepository,
	broadcaster *socket.Broadcaster,
) ParticipantTeamService {
	return &participantTeamService{teamRepo: teamRepo, userRepo: userRepo, broadcaster: broadcaster}
}

func (s *participantTeamService) requireMember(ctx context.Context, userID, teamID string) error {
	member, err := s.teamRepo.FindMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrForbidden
	}
	return nil
}

func (s *participantTeamService) Create(ctx context.Context, userID, teamName string) (*repository.ParticipantTeam, error) {
	team := &repository.ParticipantTeam{
		TeamName:  teamName,
		CreatedBy: userID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create participant team: %w", err)
	}

	member := &repository.Participant{
		UserID: userID,
		TeamID: team.ID,
		Status: types.ParticipantSelf,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add creator as member: %w", err)
	}

	team.Members = []*repository.Participant{member}
	return team, nil
}

func (s *participantTeamService) Get(ctx context.Context, userID, teamID string) (*repository.ParticipantTeam, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrParticipantTeamNotFound
	}

	if err := s.requireMember(ctx, userID, teamID); err != nil {
		return nil, err
	}

	team.Members, err = s.teamRepo.FindMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *participantTeamService) ListMine(ctx context.Context, userID string) ([]*repository.ParticipantTeam, error) {
	return s.teamRepo.FindByUserID(ctx, userID)
}

func (s *participantTeamService) Update(ctx context.Context, userID, teamID, teamName string) (*repository.ParticipantTeam, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrParticipantTeamNotFound
	}

	if team.CreatedBy != userID {
		return nil, ErrForbidden
	}

	team.TeamName = teamName
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update participant team: %w", err)
	}
	return team, nil
}

func (s *participantTeamService) Delete(ctx context.Context, userID, teamID string) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrParticipantTeamNotFound
	}

	if team.CreatedBy != userID {
		return ErrForbidden
	}

	return s.teamRepo.Delete(ctx, teamID)
}

func (s *participantTeamService) AddMember(ctx context.Context, userID, teamID, targetUserID string) (*repository.Participant, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrParticipantTeamNotFound
	}

	if err := s.requireMember(ctx, userID, teamID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.teamRepo.FindMember(ctx, teamID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	member := &repository.Participant{
		UserID: targetUserID,
		TeamID: teamID,
		Status: types.ParticipantAccepted,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.NotifyMemberAdded(targetUserID, teamID, "participant")
	}
	return member, nil
}

func (s *participantTeamService) RemoveMember(ctx context.Context, userID, teamID, targetUserID string) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrParticipantTeamNotFound
	}

	member, err := s.teamRepo.FindMember(ctx, teamID, targetUserID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrUserNotFound
	}

	// Leaving yourself is allowed, otherwise only the team creator
	if userID != targetUserID && team.CreatedBy != userID {
		return ErrForbidden
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, targetUserID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.NotifyMemberRemoved(targetUserID, teamID, "participant")
	}
	return nil
}

func (s *participantTeamService) ListMembers(ctx context.Context, userID, teamID string) ([]*repository.Participant, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrParticipantTeamNotFound
	}

	if err := s.requireMember(ctx, userID, teamID); err != nil {
		return nil, err
	}

	return s.teamRepo.FindMembers(ctx, teamID)
}
