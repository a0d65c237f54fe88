package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/rules"
	"github.com/evalarena/arena-backend/internal/types"
)

// newChallengeFixture wires a challenge service over fresh fakes with one
// host team (admin, write host and pending host) owning one published
// challenge.
type challengeFixture struct {
	svc         ChallengeService
	hostRepo    *fakeHostRepo
	partRepo    *fakeParticipantRepo
	challRepo   *fakeChallengeRepo
	teamID      string
	challengeID string
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()
	ctx := context.Background()

	hostRepo := newFakeHostRepo()
	partRepo := newFakeParticipantRepo()
	challRepo := newFakeChallengeRepo()

	team := &repository.HostTeam{TeamName: "Vision Lab", CreatedBy: "admin"}
	if err := hostRepo.Create(ctx, team); err != nil {
		t.Fatalf("create host team: %v", err)
	}
	hostRepo.addHost(team.ID, "admin", types.HostStatusAccepted, types.PermissionAdmin)
	hostRepo.addHost(team.ID, "writer", types.HostStatusAccepted, types.PermissionWrite)
	hostRepo.addHost(team.ID, "pending", types.HostStatusRequested, types.PermissionWrite)

	challenge := &repository.Challenge{
		Title:         "Segmentation Sprint",
		StartDate:     time.Now().AddDate(0, 0, -7),
		EndDate:       time.Now().AddDate(0, 0, 7),
		CreatorTeamID: team.ID,
		Published:     true,
	}
	if err := challRepo.Create(ctx, challenge); err != nil {
		t.Fatalf("create challenge: %v", err)
	}

	return &challengeFixture{
		svc:         NewChallengeService(challRepo, hostRepo, partRepo, nil, nil),
		hostRepo:    hostRepo,
		partRepo:    partRepo,
		challRepo:   challRepo,
		teamID:      team.ID,
		challengeID: challenge.ID,
	}
}

func TestChallengeServiceGetScoped(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	otherTeam := &repository.HostTeam{TeamName: "Other Lab", CreatedBy: "stranger"}
	f.hostRepo.Create(ctx, otherTeam)
	f.hostRepo.addHost(otherTeam.ID, "stranger", types.HostStatusAccepted, types.PermissionAdmin)

	tests := []struct {
		name    string
		userID  string
		teamID  string
		wantErr error
	}{
		{"admin reads through owning team", "admin", f.teamID, nil},
		{"write host reads too", "writer", f.teamID, nil},
		{"pending host is rejected", "pending", f.teamID, ErrForbidden},
		{"outsider is rejected", "stranger", f.teamID, ErrForbidden},
		{"wrong team reads as missing", "stranger", otherTeam.ID, ErrChallengeNotFound},
		{"unknown team", "admin", "nope", ErrHostTeamNotFound},
		{"anonymous caller", "", f.teamID, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.GetScoped(ctx, tt.userID, tt.teamID, f.challengeID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetScoped() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != f.challengeID {
				t.Errorf("GetScoped() returned challenge %s, want %s", got.ID, f.challengeID)
			}
		})
	}
}

func TestChallengeServiceDeleteRequiresAdmin(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	if err := f.svc.DeleteScoped(ctx, "writer", f.teamID, f.challengeID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("write host deleted the challenge: err = %v", err)
	}
	if err := f.svc.DeleteScoped(ctx, "admin", f.teamID, f.challengeID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if c, _ := f.challRepo.FindByID(ctx, f.challengeID); c != nil {
		t.Errorf("challenge still present after admin delete")
	}
}

func TestChallengeServiceCreateRequiresWrite(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "pending", f.teamID, &repository.Challenge{Title: "nope"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("pending host created a challenge: err = %v", err)
	}

	created, err := f.svc.Create(ctx, "writer", f.teamID, &repository.Challenge{Title: "ok"})
	if err != nil {
		t.Fatalf("write host create failed: %v", err)
	}
	if created.CreatorTeamID != f.teamID {
		t.Errorf("CreatorTeamID = %s, want %s", created.CreatorTeamID, f.teamID)
	}
}

func TestChallengeServiceGetHidesDisabled(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, f.challengeID); err != nil {
		t.Fatalf("Get() before disable: %v", err)
	}

	if err := f.svc.Disable(ctx, "admin", f.challengeID); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.challengeID); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("Get() after disable: err = %v, want ErrChallengeNotFound", err)
	}

	// Disabling twice reads as missing as well
	if err := f.svc.Disable(ctx, "admin", f.challengeID); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("second Disable(): err = %v, want ErrChallengeNotFound", err)
	}
}

func TestChallengeServiceDisableRequiresAdmin(t *testing.T) {
	f := newChallengeFixture(t)

	err := f.svc.Disable(context.Background(), "writer", f.challengeID)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("write host disabled the challenge: err = %v", err)
	}
}

func TestChallengeServiceJoin(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	teamA := f.partRepo.addTeam("alice", "bob")
	teamB := f.partRepo.addTeam("carol", "bob")
	hostTeam := f.partRepo.addTeam("admin")

	// First join succeeds
	result, err := f.svc.Join(ctx, "alice", f.challengeID, teamA)
	if err != nil {
		t.Fatalf("first Join() failed: %v", err)
	}
	if !result.Created || result.TeamID != teamA {
		t.Fatalf("first Join() = %+v, want created mapping for %s", result, teamA)
	}

	// Second join of the same team is reported, not duplicated
	result, err = f.svc.Join(ctx, "bob", f.challengeID, teamA)
	if err != nil {
		t.Fatalf("repeat Join() failed: %v", err)
	}
	if result.Created {
		t.Errorf("repeat Join() created a second mapping")
	}
	if result.ChallengeID != f.challengeID || result.TeamID != teamA {
		t.Errorf("repeat Join() echoed (%s, %s), want (%s, %s)",
			result.ChallengeID, result.TeamID, f.challengeID, teamA)
	}

	// Bob also sits on team B, so team B is blocked
	if _, err := f.svc.Join(ctx, "carol", f.challengeID, teamB); !errors.Is(err, ErrMemberConflict) {
		t.Errorf("overlapping team joined: err = %v, want ErrMemberConflict", err)
	}

	// A host cannot enter through a participant team of their own
	if _, err := f.svc.Join(ctx, "admin", f.challengeID, hostTeam); !errors.Is(err, ErrSelfParticipation) {
		t.Errorf("host joined own challenge: err = %v, want ErrSelfParticipation", err)
	}
}

func TestChallengeServiceJoinRequiresMembership(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	teamA := f.partRepo.addTeam("alice")

	if _, err := f.svc.Join(ctx, "mallory", f.challengeID, teamA); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-member joined on the team's behalf: err = %v", err)
	}
	if _, err := f.svc.Join(ctx, "alice", f.challengeID, "nope"); !errors.Is(err, ErrParticipantTeamNotFound) {
		t.Errorf("join with unknown team: err = %v", err)
	}
	if _, err := f.svc.Join(ctx, "alice", "nope", teamA); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("join of unknown challenge: err = %v", err)
	}
}

func TestChallengeServiceListByTime(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	now := time.Now()

	// The fixture challenge is live; add a past, a future and a draft.
	f.challRepo.Create(ctx, &repository.Challenge{
		Title: "past", CreatorTeamID: f.teamID, Published: true,
		StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0),
	})
	f.challRepo.Create(ctx, &repository.Challenge{
		Title: "future", CreatorTeamID: f.teamID, Published: true,
		StartDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 2, 0),
	})
	f.challRepo.Create(ctx, &repository.Challenge{
		Title: "draft", CreatorTeamID: f.teamID, Published: false,
		StartDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 2, 0),
	})

	tests := []struct {
		segment string
		want    int
	}{
		{types.ChallengePast, 1},
		{types.ChallengePresent, 1},
		{types.ChallengeFuture, 1},
		{types.ChallengeAll, 3},
	}
	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			got, err := f.svc.ListByTime(ctx, tt.segment)
			if err != nil {
				t.Fatalf("ListByTime(%s) failed: %v", tt.segment, err)
			}
			if len(got) != tt.want {
				t.Errorf("ListByTime(%s) returned %d challenges, want %d", tt.segment, len(got), tt.want)
			}
		})
	}

	if _, err := f.svc.ListByTime(ctx, "SOMEDAY"); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("ListByTime(SOMEDAY): err = %v, want ErrInvalidTime", err)
	}
}

func TestChallengeServiceListByFilter(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	teamA := f.partRepo.addTeam("alice")
	if _, err := f.svc.Join(ctx, "alice", f.challengeID, teamA); err != nil {
		t.Fatalf("seed join failed: %v", err)
	}

	t.Run("by host team id", func(t *testing.T) {
		got, err := f.svc.ListByFilter(ctx, "", rules.FilterRequest{HostTeamID: f.teamID})
		if err != nil {
			t.Fatalf("ListByFilter failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != f.challengeID {
			t.Errorf("ListByFilter returned %d challenges", len(got))
		}
	})

	t.Run("by participant team id", func(t *testing.T) {
		got, err := f.svc.ListByFilter(ctx, "", rules.FilterRequest{ParticipantTeamID: teamA})
		if err != nil {
			t.Fatalf("ListByFilter failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("ListByFilter returned %d challenges, want 1", len(got))
		}
	})

	t.Run("host mode", func(t *testing.T) {
		got, err := f.svc.ListByFilter(ctx, "admin", rules.FilterRequest{Mode: rules.ModeHost})
		if err != nil {
			t.Fatalf("ListByFilter failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("host mode returned %d challenges, want 1", len(got))
		}
	})

	t.Run("participant mode", func(t *testing.T) {
		got, err := f.svc.ListByFilter(ctx, "alice", rules.FilterRequest{Mode: rules.ModeParticipant})
		if err != nil {
			t.Fatalf("ListByFilter failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("participant mode returned %d challenges, want 1", len(got))
		}
	})

	t.Run("missing participant team", func(t *testing.T) {
		_, err := f.svc.ListByFilter(ctx, "", rules.FilterRequest{ParticipantTeamID: "nope"})
		if !errors.Is(err, ErrParticipantTeamNotFound) {
			t.Errorf("err = %v, want ErrParticipantTeamNotFound", err)
		}
	})

	t.Run("two selectors is invalid", func(t *testing.T) {
		_, err := f.svc.ListByFilter(ctx, "", rules.FilterRequest{HostTeamID: f.teamID, Mode: rules.ModeHost})
		if !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("err = %v, want ErrInvalidFilter", err)
		}
	})
}

func TestChallengeServiceListParticipantTeamIDs(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	teamA := f.partRepo.addTeam("alice")
	if _, err := f.svc.Join(ctx, "alice", f.challengeID, teamA); err != nil {
		t.Fatalf("seed join failed: %v", err)
	}

	ids, err := f.svc.ListParticipantTeamIDs(ctx, f.challengeID)
	if err != nil {
		t.Fatalf("ListParticipantTeamIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != teamA {
		t.Errorf("ListParticipantTeamIDs = %v, want [%s]", ids, teamA)
	}

	if _, err := f.svc.ListParticipantTeamIDs(ctx, "nope"); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("unknown challenge: err = %v", err)
	}
}
