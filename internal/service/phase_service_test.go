package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/types"
)

type phaseFixture struct {
	svc         PhaseService
	phaseRepo   *fakePhaseRepo
	challRepo   *fakeChallengeRepo
	hostRepo    *fakeHostRepo
	challengeID string
}

func newPhaseFixture(t *testing.T) *phaseFixture {
	t.Helper()
	ctx := context.Background()

	phaseRepo := newFakePhaseRepo()
	challRepo := newFakeChallengeRepo()
	hostRepo := newFakeHostRepo()

	team := &repository.HostTeam{TeamName: "Vision Lab", CreatedBy: "admin"}
	hostRepo.Create(ctx, team)
	hostRepo.addHost(team.ID, "admin", types.HostStatusAccepted, types.PermissionAdmin)
	hostRepo.addHost(team.ID, "reader", types.HostStatusAccepted, types.PermissionRead)

	challenge := &repository.Challenge{
		Title:         "Segmentation Sprint",
		StartDate:     time.Now().AddDate(0, 0, -7),
		EndDate:       time.Now().AddDate(0, 0, 7),
		CreatorTeamID: team.ID,
		Published:     true,
	}
	challRepo.Create(ctx, challenge)

	return &phaseFixture{
		svc:         NewPhaseService(phaseRepo, challRepo, hostRepo, nil),
		phaseRepo:   phaseRepo,
		challRepo:   challRepo,
		hostRepo:    hostRepo,
		challengeID: challenge.ID,
	}
}

func (f *phaseFixture) createPhase(t *testing.T, codename string, public bool) *repository.ChallengePhase {
	t.Helper()
	phase, err := f.svc.Create(context.Background(), "admin", f.challengeID, &repository.ChallengePhase{
		Name:     codename,
		Codename: codename,
		IsPublic: public,
	})
	if err != nil {
		t.Fatalf("create phase %s: %v", codename, err)
	}
	return phase
}

func TestPhaseServiceCodenameUnique(t *testing.T) {
	f := newPhaseFixture(t)
	ctx := context.Background()

	f.createPhase(t, "dev", true)

	_, err := f.svc.Create(ctx, "admin", f.challengeID, &repository.ChallengePhase{Name: "Dev 2", Codename: "dev"})
	if !errors.Is(err, ErrCodenameConflict) {
		t.Errorf("duplicate codename: err = %v, want ErrCodenameConflict", err)
	}

	// The same codename on another challenge is fine
	other := &repository.Challenge{
		Title:         "Other",
		CreatorTeamID: f.challRepo.challenges[f.challengeID].CreatorTeamID,
		Published:     true,
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 1, 0),
	}
	f.challRepo.Create(ctx, other)
	if _, err := f.svc.Create(ctx, "admin", other.ID, &repository.ChallengePhase{Name: "Dev", Codename: "dev"}); err != nil {
		t.Errorf("same codename on another challenge rejected: %v", err)
	}
}

func TestPhaseServiceCreateRequiresWrite(t *testing.T) {
	f := newPhaseFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "reader", f.challengeID, &repository.ChallengePhase{Codename: "dev"})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("read host created a phase: err = %v, want ErrForbidden", err)
	}
	_, err = f.svc.Create(ctx, "", f.challengeID, &repository.ChallengePhase{Codename: "dev"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("anonymous create: err = %v, want ErrUnauthorized", err)
	}
}

func TestPhaseServiceVisibility(t *testing.T) {
	f := newPhaseFixture(t)
	ctx := context.Background()

	f.createPhase(t, "dev", true)
	hidden := f.createPhase(t, "test", false)

	// Hosts see both phases, outsiders only the public one
	phases, err := f.svc.List(ctx, "admin", f.challengeID)
	if err != nil {
		t.Fatalf("host List failed: %v", err)
	}
	if len(phases) != 2 {
		t.Errorf("host sees %d phases, want 2", len(phases))
	}

	phases, err = f.svc.List(ctx, "outsider", f.challengeID)
	if err != nil {
		t.Fatalf("outsider List failed: %v", err)
	}
	if len(phases) != 1 || !phases[0].IsPublic {
		t.Errorf("outsider sees %d phases, want only the public one", len(phases))
	}

	// A hidden phase reads as missing for outsiders
	if _, err := f.svc.Get(ctx, "outsider", f.challengeID, hidden.ID); !errors.Is(err, ErrPhaseNotFound) {
		t.Errorf("outsider Get on hidden phase: err = %v, want ErrPhaseNotFound", err)
	}
	if _, err := f.svc.Get(ctx, "admin", f.challengeID, hidden.ID); err != nil {
		t.Errorf("host Get on hidden phase failed: %v", err)
	}
}

func TestPhaseServicePhaseMustBelongToChallenge(t *testing.T) {
	f := newPhaseFixture(t)
	ctx := context.Background()

	phase := f.createPhase(t, "dev", true)

	other := &repository.Challenge{
		Title:         "Other",
		CreatorTeamID: f.challRepo.challenges[f.challengeID].CreatorTeamID,
		Published:     true,
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 1, 0),
	}
	f.challRepo.Create(ctx, other)

	if _, err := f.svc.Get(ctx, "admin", other.ID, phase.ID); !errors.Is(err, ErrPhaseNotFound) {
		t.Errorf("phase resolved under the wrong challenge: err = %v", err)
	}
	if err := f.svc.Delete(ctx, "admin", other.ID, phase.ID); !errors.Is(err, ErrPhaseNotFound) {
		t.Errorf("delete under the wrong challenge: err = %v", err)
	}
}

func TestPhaseServicePhaseSplits(t *testing.T) {
	f := newPhaseFixture(t)
	ctx := context.Background()

	phase := f.createPhase(t, "dev", true)

	split, err := f.svc.CreateSplit(ctx, "Validation Split", "val")
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}
	lb, err := f.svc.CreateLeaderboard(ctx, []byte(`{"labels": ["mIoU"]}`))
	if err != nil {
		t.Fatalf("CreateLeaderboard failed: %v", err)
	}

	ps, err := f.svc.CreatePhaseSplit(ctx, "admin", f.challengeID, phase.ID, &repository.ChallengePhaseSplit{
		SplitID:       split.ID,
		LeaderboardID: lb.ID,
		Visibility:    types.VisibilityHost,
	})
	if err != nil {
		t.Fatalf("CreatePhaseSplit failed: %v", err)
	}
	if ps.PhaseID != phase.ID {
		t.Errorf("phase split bound to %s, want %s", ps.PhaseID, phase.ID)
	}

	// Rebinding the same split is a conflict
	_, err = f.svc.CreatePhaseSplit(ctx, "admin", f.challengeID, phase.ID, &repository.ChallengePhaseSplit{
		SplitID:       split.ID,
		LeaderboardID: lb.ID,
		Visibility:    types.VisibilityPublic,
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate phase split: err = %v, want ErrConflict", err)
	}

	// Unknown split and leaderboard ids are reported as missing
	_, err = f.svc.CreatePhaseSplit(ctx, "admin", f.challengeID, phase.ID, &repository.ChallengePhaseSplit{
		SplitID: "nope", LeaderboardID: lb.ID,
	})
	if !errors.Is(err, ErrSplitNotFound) {
		t.Errorf("unknown split: err = %v, want ErrSplitNotFound", err)
	}
	_, err = f.svc.CreatePhaseSplit(ctx, "admin", f.challengeID, phase.ID, &repository.ChallengePhaseSplit{
		SplitID: split.ID, LeaderboardID: "nope",
	})
	if !errors.Is(err, ErrLeaderboardNotFound) {
		t.Errorf("unknown leaderboard: err = %v, want ErrLeaderboardNotFound", err)
	}

	// Host-only splits are hidden from outsiders
	visible, err := f.svc.ListPhaseSplits(ctx, "outsider", f.challengeID, phase.ID)
	if err != nil {
		t.Fatalf("outsider ListPhaseSplits failed: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("outsider sees %d phase splits, want 0", len(visible))
	}
	all, err := f.svc.ListPhaseSplits(ctx, "admin", f.challengeID, phase.ID)
	if err != nil {
		t.Fatalf("host ListPhaseSplits failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("host sees %d phase splits, want 1", len(all))
	}
}

func TestPhaseServiceDisabledChallenge(t *testing.T) {
	f := newPhaseFixture(t)
	ctx := context.Background()

	f.createPhase(t, "dev", true)
	f.challRepo.SetDisabled(ctx, f.challengeID, true)

	if _, err := f.svc.List(ctx, "admin", f.challengeID); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("List on disabled challenge: err = %v, want ErrChallengeNotFound", err)
	}
}
