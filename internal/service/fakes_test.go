package service

import (
	"context"
	"fmt"
	"time"

	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/types"
)

// In-memory repository fakes backing the service tests. They mirror the
// SQL repositories' nil-on-missing contract and their status filtering.

// ============================================
// User repository fake
// ============================================

type fakeUserRepo struct {
	users  map[string]*repository.User
	tokens map[string]*repository.RefreshToken
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*repository.User),
		tokens: make(map[string]*repository.RefreshToken),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *repository.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *repository.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SaveRefreshToken(ctx context.Context, rt *repository.RefreshToken) error {
	r.tokens[rt.Token] = rt
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(ctx context.Context, token string) (*repository.RefreshToken, error) {
	return r.tokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteExpiredRefreshTokens(ctx context.Context) (int, error) {
	deleted := 0
	now := time.Now()
	for token, rt := range r.tokens {
		if rt.ExpiresAt.Before(now) {
			delete(r.tokens, token)
			deleted++
		}
	}
	return deleted, nil
}

// ============================================
// Host team repository fake
// ============================================

type fakeHostRepo struct {
	teams  map[string]*repository.HostTeam
	hosts  map[string][]*repository.ChallengeHost
	nextID int
}

func newFakeHostRepo() *fakeHostRepo {
	return &fakeHostRepo{
		teams: make(map[string]*repository.HostTeam),
		hosts: make(map[string][]*repository.ChallengeHost),
	}
}

func (r *fakeHostRepo) Create(ctx context.Context, team *repository.HostTeam) error {
	r.nextID++
	team.ID = fmt.Sprintf("host-team-%d", r.nextID)
	r.teams[team.ID] = team
	return nil
}

func (r *fakeHostRepo) FindByID(ctx context.Context, id string) (*repository.HostTeam, error) {
	return r.teams[id], nil
}

func (r *fakeHostRepo) FindByUserID(ctx context.Context, userID string) ([]*repository.HostTeam, error) {
	var out []*repository.HostTeam
	for teamID, hosts := range r.hosts {
		for _, h := range hosts {
			if h.UserID == userID && h.Status == types.HostStatusAccepted {
				out = append(out, r.teams[teamID])
			}
		}
	}
	return out, nil
}

func (r *fakeHostRepo) Update(ctx context.Context, team *repository.HostTeam) error {
	r.teams[team.ID] = team
	return nil
}

func (r *fakeHostRepo) Delete(ctx context.Context, id string) error {
	delete(r.teams, id)
	delete(r.hosts, id)
	return nil
}

func (r *fakeHostRepo) AddHost(ctx context.Context, host *repository.ChallengeHost) error {
	r.nextID++
	host.ID = fmt.Sprintf("host-%d", r.nextID)
	r.hosts[host.TeamID] = append(r.hosts[host.TeamID], host)
	return nil
}

func (r *fakeHostRepo) FindHosts(ctx context.Context, teamID string) ([]*repository.ChallengeHost, error) {
	return r.hosts[teamID], nil
}

func (r *fakeHostRepo) FindHost(ctx context.Context, teamID, userID string) (*repository.ChallengeHost, error) {
	for _, h := range r.hosts[teamID] {
		if h.UserID == userID {
			return h, nil
		}
	}
	return nil, nil
}

func (r *fakeHostRepo) UpdateHost(ctx context.Context, teamID, userID, status, permission string) error {
	for _, h := range r.hosts[teamID] {
		if h.UserID == userID {
			h.Status = status
			h.Permission = permission
			return nil
		}
	}
	return nil
}

func (r *fakeHostRepo) RemoveHost(ctx context.Context, teamID, userID string) error {
	hosts := r.hosts[teamID]
	for i, h := range hosts {
		if h.UserID == userID {
			r.hosts[teamID] = append(hosts[:i], hosts[i+1:]...)
			return nil
		}
	}
	return nil
}

// addHost is a test helper that seeds a host row directly.
func (r *fakeHostRepo) addHost(teamID, userID, status, permission string) {
	r.AddHost(context.Background(), &repository.ChallengeHost{
		TeamID:     teamID,
		UserID:     userID,
		Status:     status,
		Permission: permission,
	})
}

// ============================================
// Participant team repository fake
// ============================================

type fakeParticipantRepo struct {
	teams   map[string]*repository.ParticipantTeam
	members map[string][]*repository.Participant
	nextID  int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{
		teams:   make(map[string]*repository.ParticipantTeam),
		members: make(map[string][]*repository.Participant),
	}
}

func participantCounts(status string) bool {
	return status == types.ParticipantSelf || status == types.ParticipantAccepted
}

func (r *fakeParticipantRepo) Create(ctx context.Context, team *repository.ParticipantTeam) error {
	r.nextID++
	team.ID = fmt.Sprintf("part-team-%d", r.nextID)
	r.teams[team.ID] = team
	return nil
}

func (r *fakeParticipantRepo) FindByID(ctx context.Context, id string) (*repository.ParticipantTeam, error) {
	return r.teams[id], nil
}

func (r *fakeParticipantRepo) FindByUserID(ctx context.Context, userID string) ([]*repository.ParticipantTeam, error) {
	var out []*repository.ParticipantTeam
	for teamID, members := range r.members {
		for _, m := range members {
			if m.UserID == userID && participantCounts(m.Status) {
				out = append(out, r.teams[teamID])
			}
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) Update(ctx context.Context, team *repository.ParticipantTeam) error {
	r.teams[team.ID] = team
	return nil
}

func (r *fakeParticipantRepo) Delete(ctx context.Context, id string) error {
	delete(r.teams, id)
	delete(r.members, id)
	return nil
}

func (r *fakeParticipantRepo) AddMember(ctx context.Context, member *repository.Participant) error {
	r.nextID++
	member.ID = fmt.Sprintf("member-%d", r.nextID)
	r.members[member.TeamID] = append(r.members[member.TeamID], member)
	return nil
}

func (r *fakeParticipantRepo) FindMembers(ctx context.Context, teamID string) ([]*repository.Participant, error) {
	return r.members[teamID], nil
}

func (r *fakeParticipantRepo) FindMember(ctx context.Context, teamID, userID string) (*repository.Participant, error) {
	for _, m := range r.members[teamID] {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeParticipantRepo) FindMemberUserIDs(ctx context.Context, teamID string) ([]string, error) {
	var out []string
	for _, m := range r.members[teamID] {
		if participantCounts(m.Status) {
			out = append(out, m.UserID)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) RemoveMember(ctx context.Context, teamID, userID string) error {
	members := r.members[teamID]
	for i, m := range members {
		if m.UserID == userID {
			r.members[teamID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

// addTeam seeds a team with its roster; the first member gets self status.
func (r *fakeParticipantRepo) addTeam(ownerID string, memberIDs ...string) string {
	team := &repository.ParticipantTeam{TeamName: "team", CreatedBy: ownerID}
	r.Create(context.Background(), team)
	r.AddMember(context.Background(), &repository.Participant{
		TeamID: team.ID,
		UserID: ownerID,
		Status: types.ParticipantSelf,
	})
	for _, id := range memberIDs {
		r.AddMember(context.Background(), &repository.Participant{
			TeamID: team.ID,
			UserID: id,
			Status: types.ParticipantAccepted,
		})
	}
	return team.ID
}

// ============================================
// Challenge repository fake
// ============================================

type fakeChallengeRepo struct {
	challenges map[string]*repository.Challenge
	mappings   []*repository.ChallengeParticipantTeam
	nextID     int
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[string]*repository.Challenge)}
}

func (r *fakeChallengeRepo) Create(ctx context.Context, challenge *repository.Challenge) error {
	r.nextID++
	challenge.ID = fmt.Sprintf("challenge-%d", r.nextID)
	r.challenges[challenge.ID] = challenge
	return nil
}

func (r *fakeChallengeRepo) FindByID(ctx context.Context, id string) (*repository.Challenge, error) {
	return r.challenges[id], nil
}

func (r *fakeChallengeRepo) FindByCreatorTeam(ctx context.Context, teamID string) ([]*repository.Challenge, error) {
	var out []*repository.Challenge
	for _, c := range r.challenges {
		if c.CreatorTeamID == teamID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChallengeRepo) FindByCreatorTeams(ctx context.Context, teamIDs []string) ([]*repository.Challenge, error) {
	var out []*repository.Challenge
	for _, teamID := range teamIDs {
		byTeam, _ := r.FindByCreatorTeam(ctx, teamID)
		out = append(out, byTeam...)
	}
	return out, nil
}

func (r *fakeChallengeRepo) FindPublished(ctx context.Context) ([]*repository.Challenge, error) {
	var out []*repository.Challenge
	for _, c := range r.challenges {
		if c.Published && !c.Disabled {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChallengeRepo) Update(ctx context.Context, challenge *repository.Challenge) error {
	r.challenges[challenge.ID] = challenge
	return nil
}

func (r *fakeChallengeRepo) SetDisabled(ctx context.Context, id string, disabled bool) error {
	if c := r.challenges[id]; c != nil {
		c.Disabled = disabled
	}
	return nil
}

func (r *fakeChallengeRepo) Delete(ctx context.Context, id string) error {
	delete(r.challenges, id)
	return nil
}

func (r *fakeChallengeRepo) AddParticipantTeam(ctx context.Context, mapping *repository.ChallengeParticipantTeam) error {
	r.nextID++
	mapping.ID = fmt.Sprintf("mapping-%d", r.nextID)
	r.mappings = append(r.mappings, mapping)
	return nil
}

func (r *fakeChallengeRepo) FindParticipantTeamIDs(ctx context.Context, challengeID string) ([]string, error) {
	var out []string
	for _, m := range r.mappings {
		if m.ChallengeID == challengeID {
			out = append(out, m.TeamID)
		}
	}
	return out, nil
}

func (r *fakeChallengeRepo) FindMapping(ctx context.Context, challengeID, teamID string) (*repository.ChallengeParticipantTeam, error) {
	for _, m := range r.mappings {
		if m.ChallengeID == challengeID && m.TeamID == teamID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeChallengeRepo) FindByParticipantTeams(ctx context.Context, teamIDs []string) ([]*repository.Challenge, error) {
	var out []*repository.Challenge
	for _, m := range r.mappings {
		for _, teamID := range teamIDs {
			if m.TeamID == teamID {
				if c := r.challenges[m.ChallengeID]; c != nil {
					out = append(out, c)
				}
			}
		}
	}
	return out, nil
}

// ============================================
// Phase repository fake
// ============================================

type fakePhaseRepo struct {
	phases       map[string]*repository.ChallengePhase
	splits       map[string]*repository.DatasetSplit
	leaderboards map[string]*repository.Leaderboard
	phaseSplits  []*repository.ChallengePhaseSplit
	nextID       int
}

func newFakePhaseRepo() *fakePhaseRepo {
	return &fakePhaseRepo{
		phases:       make(map[string]*repository.ChallengePhase),
		splits:       make(map[string]*repository.DatasetSplit),
		leaderboards: make(map[string]*repository.Leaderboard),
	}
}

func (r *fakePhaseRepo) Create(ctx context.Context, phase *repository.ChallengePhase) error {
	r.nextID++
	phase.ID = fmt.Sprintf("phase-%d", r.nextID)
	r.phases[phase.ID] = phase
	return nil
}

func (r *fakePhaseRepo) FindByID(ctx context.Context, id string) (*repository.ChallengePhase, error) {
	return r.phases[id], nil
}

func (r *fakePhaseRepo) FindByChallenge(ctx context.Context, challengeID string) ([]*repository.ChallengePhase, error) {
	var out []*repository.ChallengePhase
	for _, p := range r.phases {
		if p.ChallengeID == challengeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePhaseRepo) FindByCodename(ctx context.Context, challengeID, codename string) (*repository.ChallengePhase, error) {
	for _, p := range r.phases {
		if p.ChallengeID == challengeID && p.Codename == codename {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePhaseRepo) Update(ctx context.Context, phase *repository.ChallengePhase) error {
	r.phases[phase.ID] = phase
	return nil
}

func (r *fakePhaseRepo) Delete(ctx context.Context, id string) error {
	delete(r.phases, id)
	return nil
}

func (r *fakePhaseRepo) CreateSplit(ctx context.Context, split *repository.DatasetSplit) error {
	r.nextID++
	split.ID = fmt.Sprintf("split-%d", r.nextID)
	r.splits[split.ID] = split
	return nil
}

func (r *fakePhaseRepo) FindSplitByID(ctx context.Context, id string) (*repository.DatasetSplit, error) {
	return r.splits[id], nil
}

func (r *fakePhaseRepo) FindAllSplits(ctx context.Context) ([]*repository.DatasetSplit, error) {
	var out []*repository.DatasetSplit
	for _, s := range r.splits {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakePhaseRepo) CreateLeaderboard(ctx context.Context, lb *repository.Leaderboard) error {
	r.nextID++
	lb.ID = fmt.Sprintf("leaderboard-%d", r.nextID)
	r.leaderboards[lb.ID] = lb
	return nil
}

func (r *fakePhaseRepo) FindLeaderboardByID(ctx context.Context, id string) (*repository.Leaderboard, error) {
	return r.leaderboards[id], nil
}

func (r *fakePhaseRepo) CreatePhaseSplit(ctx context.Context, ps *repository.ChallengePhaseSplit) error {
	r.nextID++
	ps.ID = fmt.Sprintf("phase-split-%d", r.nextID)
	r.phaseSplits = append(r.phaseSplits, ps)
	return nil
}

func (r *fakePhaseRepo) FindPhaseSplits(ctx context.Context, phaseID string) ([]*repository.ChallengePhaseSplit, error) {
	var out []*repository.ChallengePhaseSplit
	for _, ps := range r.phaseSplits {
		if ps.PhaseID == phaseID {
			out = append(out, ps)
		}
	}
	return out, nil
}

func (r *fakePhaseRepo) FindPhaseSplit(ctx context.Context, phaseID, splitID string) (*repository.ChallengePhaseSplit, error) {
	for _, ps := range r.phaseSplits {
		if ps.PhaseID == phaseID && ps.SplitID == splitID {
			return ps, nil
		}
	}
	return nil, nil
}
