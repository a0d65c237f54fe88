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
// Phase Service
// ============================================

type PhaseService interface {
	List(ctx context.Context, userID, challengeID string) ([]*repository.ChallengePhase, error)
	Create(ctx context.Context, userID, challengeID string, phase *repository.ChallengePhase) (*repository.ChallengePhase, error)
	Get(ctx context.Context, userID, challengeID, phaseID string) (*repository.ChallengePhase, error)
	Update(ctx context.Context, userID, challengeID string, phase *repository.ChallengePhase) (*repository.ChallengePhase, error)
	Delete(ctx context.Context, userID, challengeID, phaseID string) error

	CreateSplit(ctx context.Context, name, codename string) (*repository.DatasetSplit, error)
	ListSplits(ctx context.Context) ([]*repository.DatasetSplit, error)
	CreateLeaderboard(ctx context.Context, schema []byte) (*repository.Leaderboard, error)

	CreatePhaseSplit(ctx context.Context, userID, challengeID, phaseID string, ps *repository.ChallengePhaseSplit) (*repository.ChallengePhaseSplit, error)
	ListPhaseSplits(ctx context.Context, userID, challengeID, phaseID string) ([]*repository.ChallengePhaseSplit, error)
}

type phaseService struct {
	phaseRepo     repository.PhaseRepository
	challengeRepo repository.ChallengeRepository
	hostRepo      repository.HostTeamRepository
	broadcaster   *socket.Broadcaster
}

func NewPhaseService(
	phaseRepo repository.PhaseRepository,
	challengeRepo repository.ChallengeRepository,
	hostRepo repository.HostTeamRepository,
	broadcaster *socket.Broadcaster,
) PhaseService {
	return &phaseService{
		phaseRepo:     phaseRepo,
		challengeRepo: challengeRepo,
		hostRepo:      hostRepo,
		broadcaster:   broadcaster,
	}
}

func (s *phaseService) loadChallenge(ctx context.Context, challengeID string) (*repository.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil || challenge.Disabled {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

// isHost reports whether the actor holds any accepted role on the
// challenge's creator team.
func (s *phaseService) isHost(ctx context.Context, userID string, challenge *repository.Challenge) (bool, error) {
	hosts, err := s.hostRepo.FindHosts(ctx, challenge.CreatorTeamID)
	if err != nil {
		return false, err
	}
	return rules.Authorize(userID, hostRoles(hosts), rules.Read).Permitted, nil
}

func (s *phaseService) authorizeWrite(ctx context.Context, userID string, challenge *repository.Challenge) error {
	hosts, err := s.hostRepo.FindHosts(ctx, challenge.CreatorTeamID)
	if err != nil {
		return err
	}
	decision := rules.Authorize(userID, hostRoles(hosts), rules.Write)
	if !decision.Permitted {
		if decision.Reason == rules.NotAuthenticated {
			return ErrUnauthorized
		}
		return ErrForbidden
	}
	return nil
}

func (s *phaseService) List(ctx context.Context, userID, challengeID string) ([]*repository.ChallengePhase, error) {
	challenge, err := s.loadChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	phases, err := s.phaseRepo.FindByChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	host, err := s.isHost(ctx, userID, challenge)
	if err != nil {
		return nil, err
	}
	if host {
		return phases, nil
	}

	// Non-hosts only see public phases
	visible := make([]*repository.ChallengePhase, 0, len(phases))
	for _, p := range phases {
		if p.IsPublic {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *phaseService) Create(ctx context.Context, userID, challengeID string, phase *repository.ChallengePhase) (*repository.ChallengePhase, error) {
	challenge, err := s.loadChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeWrite(ctx, userID, challenge); err != nil {
		return nil, err
	}

	existing, err := s.phaseRepo.FindByCodename(ctx, challengeID, phase.Codename)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCodenameConflict
	}

	phase.ChallengeID = challengeID
	if err := s.phaseRepo.Create(ctx, phase); err != nil {
		return nil, fmt.Errorf("failed to create phase: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPhaseCreated(challengeID, map[string]interface{}{
			"phase_id": phase.ID,
			"name":     phase.Name,
		}, userID)
	}
	return phase, nil
}

func (s *phaseService) Get(ctx context.Context, userID, challengeID, phaseID string) (*repository.ChallengePhase, error) {
	challenge, err := s.loadChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	phase, err := s.phaseRepo.FindByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if phase == nil || phase.ChallengeID != challengeID {
		return nil, ErrPhaseNotFound
	}

	if !phase.IsPublic {
		host, err := s.isHost(ctx, userID, challenge)
		if err != nil {
			return nil, err
		}
		if !host {
			return nil, ErrPhaseNotFound
		}
	}
	return phase, nil
}

func (s *phaseService) Update(ctx context.Context, userID, challengeID string, phase *repository.ChallengePhase) (*repository.ChallengePhase, error) {
	challenge, err := s.loadChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeWrite(ctx, userID, challenge); err != nil {
		return nil, err
	}

	current, err := s.phaseRepo.FindByID(ctx, phase.ID)
	if err != nil {
		return nil, err
	}
	if current == nil || current.ChallengeID != challengeID {
		return nil, ErrPhaseNotFound
	}

	if phase.Codename != current.Codename {
		existing, err := s.phaseRepo.FindByCodename(ctx, challengeID, phase.Codename)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrCodenameConflict
		}
	}

	phase.ChallengeID = challengeID
	if err := s.phaseRepo.Update(ctx, phase); err != nil {
		return nil, fmt.Errorf("failed to update phase: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPhaseUpdated(challengeID, map[string]interface{}{
			"phase_id": phase.ID,
			"name":     phase.Name,
		}, userID)
	}
	return phase, nil
}

func (s *phaseService) Delete(ctx context.Context, userID, challengeID, phaseID string) error {
	challenge, err := s.loadChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if err := s.authorizeWrite(ctx, userID, challenge); err != nil {
		return err
	}

	phase, err := s.phaseRepo.FindByID(ctx, phaseID)
	if err != nil {
		return err
	}
	if phase == nil || phase.ChallengeID != challengeID {
		return ErrPhaseNotFound
	}

	if err := s.phaseRepo.Delete(ctx, phaseID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPhaseDeleted(challengeID, phaseID, userID)
	}
	return nil
}

func (s *phaseService) CreateSplit(ctx context.Context, name, codename string) (*repository.DatasetSplit, error) {
	split := &repository.DatasetSplit{Name: name, Codename: codename}
	if err := s.phaseRepo.CreateSplit(ctx, split); err != nil {
		return nil, fmt.Errorf("failed to create dataset split: %w", err)
	}
	return split, nil
}

func (s *phaseService) ListSplits(ctx context.Context) ([]*repository.DatasetSplit, error) {
	return s.phaseRepo.FindAllSplits(ctx)
}

func (s *phaseService) CreateLeaderboard(ctx context.Context, schema []byte) (*repository.Leaderboard, error) {
	lb := &repository.Leaderboard{Schema: schema}
	if err := s.phaseRepo.CreateLeaderboard(ctx, lb); err != nil {
		return nil, fmt.Errorf("failed to create leaderboard: %w", err)
	}
	return lb, nil
}

func (s *phaseService) CreatePhaseSplit(ctx context.Context, userID, challengeID, phaseID string, ps *repository.ChallengePhaseSplit) (*repository.ChallengePhaseSplit, error) {
	challenge, err := s.loadChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeWrite(ctx, userID, challenge); err != nil {
		return nil, err
	}

	phase, err := s.phaseRepo.FindByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if phase == nil || phase.ChallengeID != challengeID {
		return nil, ErrPhaseNotFound
	}

	split, err := s.phaseRepo.FindSplitByID(ctx, ps.SplitID)
	if err != nil {
		return nil, err
	}
	if split == nil {
		return nil, ErrSplitNotFound
	}

	lb, err := s.phaseRepo.FindLeaderboardByID(ctx, ps.LeaderboardID)
	if err != nil {
		return nil, err
	}
	if lb == nil {
		return nil, ErrLeaderboardNotFound
	}

	existing, err := s.phaseRepo.FindPhaseSplit(ctx, phaseID, ps.SplitID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	ps.PhaseID = phaseID
	if err := s.phaseRepo.CreatePhaseSplit(ctx, ps); err != nil {
		return nil, fmt.Errorf("failed to create phase split: %w", err)
	}
	ps.Split = split
	return ps, nil
}

func (s *phaseService) ListPhaseSplits(ctx context.Context, userID, challengeID, phaseID string) ([]*repository.ChallengePhaseSplit, error) {
	challenge, err := s.loadChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	phase, err := s.phaseRepo.FindByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if phase == nil || phase.ChallengeID != challengeID {
		return nil, ErrPhaseNotFound
	}

	splits, err := s.phaseRepo.FindPhaseSplits(ctx, phaseID)
	if err != nil {
		return nil, err
	}

	host, err := s.isHost(ctx, userID, challenge)
	if err != nil {
		return nil, err
	}
	if host {
		return splits, nil
	}

	// Non-hosts only see public splits
	visible := make([]*repository.ChallengePhaseSplit, 0, len(splits))
	for _, ps := range splits {
		if ps.Visibility == types.VisibilityPublic {
			visible = append(visible, ps)
		}
	}
	return visible, nil
}
