package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/evalarena/arena-backend/internal/db"
	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/rules"
	"github.com/evalarena/arena-backend/internal/socket"
	"github.com/evalarena/arena-backend/internal/types"
)

const challengeCacheTTL = 5 * time.Minute

// JoinResult reports the outcome of mapping a participant team to a
// challenge. Created is false when the mapping already existed; the ids
// then echo the existing mapping.
type JoinResult struct {
	Created     bool
	ChallengeID string
	TeamID      string
}

// ============================================
// Challenge Service
// ============================================

type ChallengeService interface {
	// Host-team scoped operations
	Create(ctx context.Context, userID, hostTeamID string, challenge *repository.Challenge) (*repository.Challenge, error)
	ListByHostTeam(ctx context.Context, userID, hostTeamID string) ([]*repository.Challenge, error)
	GetScoped(ctx context.Context, userID, hostTeamID, challengeID string) (*repository.Challenge, error)
	UpdateScoped(ctx context.Context, userID, hostTeamID string, challenge *repository.Challenge) (*repository.Challenge, error)
	DeleteScoped(ctx context.Context, userID, hostTeamID, challengeID string) error

	// Unscoped operations
	Get(ctx context.Context, challengeID string) (*repository.Challenge, error)
	Disable(ctx context.Context, userID, challengeID string) error
	ListByTime(ctx context.Context, segment string) ([]*repository.Challenge, error)
	ListByFilter(ctx context.Context, userID string, req rules.FilterRequest) ([]*repository.Challenge, error)

	// Participation
	Join(ctx context.Context, userID, challengeID, teamID string) (*JoinResult, error)
	ListParticipantTeamIDs(ctx context.Context, challengeID string) ([]string, error)
}

type challengeService struct {
	challengeRepo repository.ChallengeRepository
	hostRepo      repository.HostTeamRepository
	partRepo      repository.ParticipantTeamRepository
	cache         *db.RedisDB
	broadcaster   *socket.Broadcaster
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	hostRepo repository.HostTeamRepository,
	partRepo repository.ParticipantTeamRepository,
	cache *db.RedisDB,
	broadcaster *socket.Broadcaster,
) ChallengeService {
	return &challengeService{
		challengeRepo: challengeRepo,
		hostRepo:      hostRepo,
		partRepo:      partRepo,
		cache:         cache,
		broadcaster:   broadcaster,
	}
}

func (s *challengeService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, "challenge*"); err != nil {
		log.Printf("⚠️ [Cache] Failed to invalidate challenge cache: %v", err)
	}
}

// requireScoped loads the challenge and checks the actor's role on its
// creator team, with the URL's team id disambiguating ownership: a
// challenge that does not belong to the named team reads as missing.
func (s *challengeService) requireScoped(ctx context.Context, userID, hostTeamID, challengeID string, required rules.PermissionLevel) (*repository.Challenge, error) {
	team, err := s.hostRepo.FindByID(ctx, hostTeamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrHostTeamNotFound
	}

	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	hosts, err := s.hostRepo.FindHosts(ctx, challenge.CreatorTeamID)
	if err != nil {
		return nil, err
	}

	decision := rules.AuthorizeScoped(userID, challenge.CreatorTeamID, hostTeamID, hostRoles(hosts), required)
	if !decision.Permitted {
		switch decision.Reason {
		case rules.WrongTeamScope:
			return nil, ErrChallengeNotFound
		case rules.NotAuthenticated:
			return nil, ErrUnauthorized
		default:
			return nil, ErrForbidden
		}
	}
	return challenge, nil
}

func (s *challengeService) Create(ctx context.Context, userID, hostTeamID string, challenge *repository.Challenge) (*repository.Challenge, error) {
	team, err := s.hostRepo.FindByID(ctx, hostTeamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrHostTeamNotFound
	}

	hosts, err := s.hostRepo.FindHosts(ctx, hostTeamID)
	if err != nil {
		return nil, err
	}
	decision := rules.Authorize(userID, hostRoles(hosts), rules.Write)
	if !decision.Permitted {
		if decision.Reason == rules.NotAuthenticated {
			return nil, ErrUnauthorized
		}
		return nil, ErrForbidden
	}

	challenge.CreatorTeamID = hostTeamID
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.invalidateCache(ctx)
	if s.broadcaster != nil && challenge.Published {
		s.broadcaster.BroadcastChallengeCreated(map[string]interface{}{
			"challenge_id": challenge.ID,
			"title":        challenge.Title,
		})
	}
	return challenge, nil
}

func (s *challengeService) ListByHostTeam(ctx context.Context, userID, hostTeamID string) ([]*repository.Challenge, error) {
	team, err := s.hostRepo.FindByID(ctx, hostTeamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrHostTeamNotFound
	}

	hosts, err := s.hostRepo.FindHosts(ctx, hostTeamID)
	if err != nil {
		return nil, err
	}
	decision := rules.Authorize(userID, hostRoles(hosts), rules.Read)
	if !decision.Permitted {
		if decision.Reason == rules.NotAuthenticated {
			return nil, ErrUnauthorized
		}
		return nil, ErrForbidden
	}

	return s.challengeRepo.FindByCreatorTeam(ctx, hostTeamID)
}

func (s *challengeService) GetScoped(ctx context.Context, userID, hostTeamID, challengeID string) (*repository.Challenge, error) {
	return s.requireScoped(ctx, userID, hostTeamID, challengeID, rules.Read)
}

func (s *challengeService) UpdateScoped(ctx context.Context, userID, hostTeamID string, challenge *repository.Challenge) (*repository.Challenge, error) {
	if _, err := s.requireScoped(ctx, userID, hostTeamID, challenge.ID, rules.Write); err != nil {
		return nil, err
	}

	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	s.invalidateCache(ctx)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastChallengeUpdated(challenge.ID, map[string]interface{}{
			"challenge_id": challenge.ID,
			"title":        challenge.Title,
		}, userID)
	}
	return challenge, nil
}

func (s *challengeService) DeleteScoped(ctx context.Context, userID, hostTeamID, challengeID string) error {
	if _, err := s.requireScoped(ctx, userID, hostTeamID, challengeID, rules.Admin); err != nil {
		return err
	}

	if err := s.challengeRepo.Delete(ctx, challengeID); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastChallengeDeleted(challengeID, userID)
	}
	return nil
}

func (s *challengeService) Get(ctx context.Context, challengeID string) (*repository.Challenge, error) {
	if s.cache != nil {
		var cached repository.Challenge
		if err := s.cache.GetCache(ctx, "challenge:"+challengeID, &cached); err == nil {
			return &cached, nil
		}
	}

	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil || challenge.Disabled {
		return nil, ErrChallengeNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, "challenge:"+challengeID, challenge, challengeCacheTTL); err != nil {
			log.Printf("⚠️ [Cache] Failed to cache challenge %s: %v", challengeID, err)
		}
	}
	return challenge, nil
}

func (s *challengeService) Disable(ctx context.Context, userID, challengeID string) error {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge == nil || challenge.Disabled {
		return ErrChallengeNotFound
	}

	hosts, err := s.hostRepo.FindHosts(ctx, challenge.CreatorTeamID)
	if err != nil {
		return err
	}
	decision := rules.Authorize(userID, hostRoles(hosts), rules.Admin)
	if !decision.Permitted {
		if decision.Reason == rules.NotAuthenticated {
			return ErrUnauthorized
		}
		return ErrForbidden
	}

	if err := s.challengeRepo.SetDisabled(ctx, challengeID, true); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastChallengeDisabled(challengeID)
	}
	return nil
}

func (s *challengeService) ListByTime(ctx context.Context, segment string) ([]*repository.Challenge, error) {
	if !types.IsValidChallengeTime(segment) {
		return nil, ErrInvalidTime
	}

	cacheKey := "challenges:time:" + segment
	if s.cache != nil {
		var cached []*repository.Challenge
		if err := s.cache.GetCache(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	published, err := s.challengeRepo.FindPublished(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var out []*repository.Challenge
	for _, c := range published {
		classification := rules.Classify(rules.TimeWindow{Start: c.StartDate, End: c.EndDate}, now)
		switch segment {
		case types.ChallengeAll:
			out = append(out, c)
		case types.ChallengePast:
			if classification.Bucket == rules.Past {
				out = append(out, c)
			}
		case types.ChallengePresent:
			if classification.Bucket == rules.Present {
				out = append(out, c)
			}
		case types.ChallengeFuture:
			if classification.Bucket == rules.Future {
				out = append(out, c)
			}
		}
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, cacheKey, out, challengeCacheTTL); err != nil {
			log.Printf("⚠️ [Cache] Failed to cache challenge listing: %v", err)
		}
	}
	return out, nil
}

func (s *challengeService) ListByFilter(ctx context.Context, userID string, req rules.FilterRequest) ([]*repository.Challenge, error) {
	predicate := rules.ResolveFilter(req)
	if predicate.Invalid() {
		return nil, ErrInvalidFilter
	}

	switch predicate.Kind {
	case rules.PredicateHostTeam:
		team, err := s.hostRepo.FindByID(ctx, predicate.TeamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, ErrHostTeamNotFound
		}
		return s.challengeRepo.FindByCreatorTeam(ctx, predicate.TeamID)

	case rules.PredicateParticipantTeam:
		team, err := s.partRepo.FindByID(ctx, predicate.TeamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, ErrParticipantTeamNotFound
		}
		return s.challengeRepo.FindByParticipantTeams(ctx, []string{predicate.TeamID})

	case rules.PredicateHostMode:
		teams, err := s.hostRepo.FindByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		teamIDs := make([]string, 0, len(teams))
		for _, t := range teams {
			teamIDs = append(teamIDs, t.ID)
		}
		return s.challengeRepo.FindByCreatorTeams(ctx, teamIDs)

	case rules.PredicateParticipantMode:
		teams, err := s.partRepo.FindByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		teamIDs := make([]string, 0, len(teams))
		for _, t := range teams {
			teamIDs = append(teamIDs, t.ID)
		}
		return s.challengeRepo.FindByParticipantTeams(ctx, teamIDs)

	default:
		return nil, ErrInvalidFilter
	}
}

func (s *challengeService) Join(ctx context.Context, userID, challengeID, teamID string) (*JoinResult, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil || challenge.Disabled {
		return nil, ErrChallengeNotFound
	}

	team, err := s.partRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrParticipantTeamNotFound
	}

	// The caller must be on the joining team
	member, err := s.partRepo.FindMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrForbidden
	}

	joinReq, err := s.buildJoinRequest(ctx, challenge, team)
	if err != nil {
		return nil, err
	}

	decision := rules.ValidateJoin(joinReq)
	switch decision.Reason {
	case rules.SelfParticipation:
		return nil, ErrSelfParticipation
	case rules.AlreadyMapped:
		return &JoinResult{
			Created:     false,
			ChallengeID: decision.ChallengeID,
			TeamID:      decision.TeamID,
		}, nil
	case rules.MemberConflict:
		return nil, ErrMemberConflict
	}

	mapping := &repository.ChallengeParticipantTeam{
		ChallengeID: challengeID,
		TeamID:      teamID,
	}
	if err := s.challengeRepo.AddParticipantTeam(ctx, mapping); err != nil {
		return nil, fmt.Errorf("failed to map team to challenge: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTeamJoined(challengeID, teamID, userID)
	}
	return &JoinResult{
		Created:     true,
		ChallengeID: challengeID,
		TeamID:      teamID,
	}, nil
}

// buildJoinRequest assembles the snapshot the participation validator
// needs: accepted hosts of the challenge's creator team, current
// mappings, and the rosters of every mapped team plus the candidate.
func (s *challengeService) buildJoinRequest(ctx context.Context, challenge *repository.Challenge, team *repository.ParticipantTeam) (rules.JoinRequest, error) {
	hosts, err := s.hostRepo.FindHosts(ctx, challenge.CreatorTeamID)
	if err != nil {
		return rules.JoinRequest{}, err
	}
	var hostActorIDs []string
	for _, h := range hosts {
		if h.Status == types.HostStatusAccepted {
			hostActorIDs = append(hostActorIDs, h.UserID)
		}
	}

	mappedTeamIDs, err := s.challengeRepo.FindParticipantTeamIDs(ctx, challenge.ID)
	if err != nil {
		return rules.JoinRequest{}, err
	}

	existing := make([]rules.Mapping, 0, len(mappedTeamIDs))
	teamMembers := make(map[string][]string, len(mappedTeamIDs))
	for _, mappedID := range mappedTeamIDs {
		existing = append(existing, rules.Mapping{ChallengeID: challenge.ID, TeamID: mappedID})
		memberIDs, err := s.partRepo.FindMemberUserIDs(ctx, mappedID)
		if err != nil {
			return rules.JoinRequest{}, err
		}
		teamMembers[mappedID] = memberIDs
	}

	candidateMembers, err := s.partRepo.FindMemberUserIDs(ctx, team.ID)
	if err != nil {
		return rules.JoinRequest{}, err
	}

	return rules.JoinRequest{
		ChallengeID:  challenge.ID,
		HostTeamID:   challenge.CreatorTeamID,
		HostActorIDs: hostActorIDs,
		Existing:     existing,
		Candidate: rules.Team{
			ID:        team.ID,
			OwnerID:   team.CreatedBy,
			MemberIDs: candidateMembers,
		},
		TeamMembers: teamMembers,
	}, nil
}

func (s *challengeService) ListParticipantTeamIDs(ctx context.Context, challengeID string) ([]string, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return s.challengeRepo.FindParticipantTeamIDs(ctx, challengeID)
}
