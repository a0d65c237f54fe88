// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"time"

	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/types"
	"golang.org/x/crypto/bcrypt"
)

func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	existing, _ := repos.User.FindByEmail(ctx, "asha.rai@evalarena.io")
	if existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data with real scenarios...")

	// ============================================
	// CREATE USERS (5 real participants)
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// 1. ASHA - Host team creator (admin)
	asha := &repository.User{
		Email:    "asha.rai@evalarena.io",
		Password: string(password),
		Name:     "Asha Rai",
	}
	repos.User.Create(ctx, asha)

	// 2. DIPESH - Accepted write host
	dipesh := &repository.User{
		Email:    "dipesh.karki@evalarena.io",
		Password: string(password),
		Name:     "Dipesh Karki",
	}
	repos.User.Create(ctx, dipesh)

	// 3. SITA - Invited host, still pending
	sita := &repository.User{
		Email:    "sita.gurung@evalarena.io",
		Password: string(password),
		Name:     "Sita Gurung",
	}
	repos.User.Create(ctx, sita)

	// 4. RAJAN - Participant team creator
	rajan := &repository.User{
		Email:    "rajan.thapa@evalarena.io",
		Password: string(password),
		Name:     "Rajan Thapa",
	}
	repos.User.Create(ctx, rajan)

	// 5. MAYA - Member of two participant teams (overlap scenario)
	maya := &repository.User{
		Email:    "maya.shrestha@evalarena.io",
		Password: string(password),
		Name:     "Maya Shrestha",
	}
	repos.User.Create(ctx, maya)

	log.Printf("✅ Created 5 users: Asha (host admin), Dipesh (host write), Sita (host pending), Rajan (participant lead), Maya (overlapping member)")

	// ============================================
	// SCENARIO 1: HOST TEAM
	// Asha creates "Vision Lab" and invites Dipesh and Sita
	// ============================================
	visionLab := &repository.HostTeam{
		TeamName:  "Vision Lab",
		CreatedBy: asha.ID,
	}
	repos.HostTeam.Create(ctx, visionLab)

	repos.HostTeam.AddHost(ctx, &repository.ChallengeHost{
		TeamID:     visionLab.ID,
		UserID:     asha.ID,
		Status:     types.HostStatusAccepted,
		Permission: types.PermissionAdmin,
	})
	repos.HostTeam.AddHost(ctx, &repository.ChallengeHost{
		TeamID:     visionLab.ID,
		UserID:     dipesh.ID,
		Status:     types.HostStatusAccepted,
		Permission: types.PermissionWrite,
	})
	// Sita has not accepted yet, so she carries no authority
	repos.HostTeam.AddHost(ctx, &repository.ChallengeHost{
		TeamID:     visionLab.ID,
		UserID:     sita.ID,
		Status:     types.HostStatusRequested,
		Permission: types.PermissionRead,
	})

	log.Printf("✅ Created host team: Vision Lab")
	log.Printf("   └─ Hosts: Asha (admin), Dipesh (write), Sita (requested)")

	// ============================================
	// SCENARIO 2: CHALLENGES IN EVERY TIME BUCKET
	// One past, one present, one future, one unpublished draft
	// ============================================
	now := time.Now()

	classification := &repository.Challenge{
		Title:            "Image Classification Arena 2025",
		ShortDescription: "Classify images across 1000 categories",
		Description:      "Benchmark your classifier on our held-out evaluation set.",
		StartDate:        now.AddDate(0, -6, 0),
		EndDate:          now.AddDate(0, -3, 0),
		CreatorTeamID:    visionLab.ID,
		Published:        true,
		EnableForum:      true,
	}
	repos.Challenge.Create(ctx, classification)

	segmentation := &repository.Challenge{
		Title:            "Semantic Segmentation Sprint",
		ShortDescription: "Pixel-level labels for urban street scenes",
		Description:      "Submit segmentation masks for the test cities.",
		StartDate:        now.AddDate(0, 0, -14),
		EndDate:          now.AddDate(0, 1, 0),
		CreatorTeamID:    visionLab.ID,
		Published:        true,
		EnableForum:      true,
	}
	repos.Challenge.Create(ctx, segmentation)

	detection := &repository.Challenge{
		Title:            "Object Detection Open",
		ShortDescription: "Detect and localize objects in the wild",
		StartDate:        now.AddDate(0, 2, 0),
		EndDate:          now.AddDate(0, 5, 0),
		CreatorTeamID:    visionLab.ID,
		Published:        true,
	}
	repos.Challenge.Create(ctx, detection)

	draft := &repository.Challenge{
		Title:            "Captioning Challenge (draft)",
		ShortDescription: "Not announced yet",
		StartDate:        now.AddDate(0, 3, 0),
		EndDate:          now.AddDate(0, 6, 0),
		CreatorTeamID:    visionLab.ID,
		Published:        false,
	}
	repos.Challenge.Create(ctx, draft)

	log.Printf("✅ Created 4 challenges:")
	log.Printf("   ├─ Image Classification Arena 2025 (past)")
	log.Printf("   ├─ Semantic Segmentation Sprint (present)")
	log.Printf("   ├─ Object Detection Open (future)")
	log.Printf("   └─ Captioning Challenge (unpublished draft)")

	// ============================================
	// SCENARIO 3: PHASES, SPLITS AND LEADERBOARDS
	// Segmentation Sprint gets a public dev phase and a hidden test phase
	// ============================================
	devPhase := &repository.ChallengePhase{
		ChallengeID:          segmentation.ID,
		Name:                 "Dev Phase",
		Description:          "Open development phase with daily feedback",
		Codename:             "dev",
		LeaderboardPublic:    true,
		IsPublic:             true,
		StartDate:            segmentation.StartDate,
		EndDate:              now.AddDate(0, 0, 14),
		MaxSubmissionsPerDay: 5,
		MaxSubmissions:       100,
	}
	repos.Phase.Create(ctx, devPhase)

	testPhase := &repository.ChallengePhase{
		ChallengeID:          segmentation.ID,
		Name:                 "Test Phase",
		Description:          "Final evaluation phase, hidden until launch",
		Codename:             "test",
		IsPublic:             false,
		StartDate:            now.AddDate(0, 0, 14),
		EndDate:              segmentation.EndDate,
		MaxSubmissionsPerDay: 2,
		MaxSubmissions:       10,
	}
	repos.Phase.Create(ctx, testPhase)

	valSplit := &repository.DatasetSplit{Name: "Validation Split", Codename: "val"}
	repos.Phase.CreateSplit(ctx, valSplit)
	testSplit := &repository.DatasetSplit{Name: "Test Split", Codename: "test"}
	repos.Phase.CreateSplit(ctx, testSplit)

	leaderboard := &repository.Leaderboard{
		Schema: []byte(`{"labels": ["mIoU", "Accuracy"], "default_order_by": "mIoU"}`),
	}
	repos.Phase.CreateLeaderboard(ctx, leaderboard)

	repos.Phase.CreatePhaseSplit(ctx, &repository.ChallengePhaseSplit{
		PhaseID:       devPhase.ID,
		SplitID:       valSplit.ID,
		LeaderboardID: leaderboard.ID,
		Visibility:    types.VisibilityPublic,
	})
	repos.Phase.CreatePhaseSplit(ctx, &repository.ChallengePhaseSplit{
		PhaseID:       testPhase.ID,
		SplitID:       testSplit.ID,
		LeaderboardID: leaderboard.ID,
		Visibility:    types.VisibilityHost,
	})

	log.Printf("✅ Created 2 phases, 2 dataset splits, 1 leaderboard for Segmentation Sprint")

	// ============================================
	// SCENARIO 4: PARTICIPANT TEAMS
	// Rajan's team has joined the sprint; Maya sits on both teams,
	// so "Gradient Gang" is blocked from joining the same challenge
	// ============================================
	pixelPushers := &repository.ParticipantTeam{
		TeamName:  "Pixel Pushers",
		CreatedBy: rajan.ID,
	}
	repos.ParticipantTeam.Create(ctx, pixelPushers)
	repos.ParticipantTeam.AddMember(ctx, &repository.Participant{
		TeamID: pixelPushers.ID,
		UserID: rajan.ID,
		Status: types.ParticipantSelf,
	})
	repos.ParticipantTeam.AddMember(ctx, &repository.Participant{
		TeamID: pixelPushers.ID,
		UserID: maya.ID,
		Status: types.ParticipantAccepted,
	})

	gradientGang := &repository.ParticipantTeam{
		TeamName:  "Gradient Gang",
		CreatedBy: maya.ID,
	}
	repos.ParticipantTeam.Create(ctx, gradientGang)
	repos.ParticipantTeam.AddMember(ctx, &repository.Participant{
		TeamID: gradientGang.ID,
		UserID: maya.ID,
		Status: types.ParticipantSelf,
	})

	repos.Challenge.AddParticipantTeam(ctx, &repository.ChallengeParticipantTeam{
		ChallengeID: segmentation.ID,
		TeamID:      pixelPushers.ID,
	})

	log.Printf("✅ Created 2 participant teams:")
	log.Printf("   ├─ Pixel Pushers (Rajan, Maya) - joined Segmentation Sprint")
	log.Printf("   └─ Gradient Gang (Maya) - blocked from the sprint by Maya's overlap")

	// ============================================
	// FINAL SUMMARY
	// ============================================
	log.Println("")
	log.Println("🎉 ============================================")
	log.Println("🎉 SEED COMPLETE - SCENARIO SUMMARY")
	log.Println("🎉 ============================================")
	log.Println("")
	log.Println("👤 ASHA RAI (asha.rai@evalarena.io)")
	log.Println("   Role: HOST ADMIN on Vision Lab")
	log.Println("   ✅ Can update, disable and delete every Vision Lab challenge")
	log.Println("")
	log.Println("👤 DIPESH KARKI (dipesh.karki@evalarena.io)")
	log.Println("   Role: HOST WRITE on Vision Lab")
	log.Println("   ✅ Can create and update challenges, ❌ cannot delete them")
	log.Println("")
	log.Println("👤 SITA GURUNG (sita.gurung@evalarena.io)")
	log.Println("   Role: PENDING HOST on Vision Lab")
	log.Println("   ❌ No authority until she accepts the invitation")
	log.Println("")
	log.Println("👤 RAJAN THAPA (rajan.thapa@evalarena.io)")
	log.Println("   Role: CREATOR of Pixel Pushers")
	log.Println("   ✅ Pixel Pushers already participates in Segmentation Sprint")
	log.Println("")
	log.Println("👤 MAYA SHRESTHA (maya.shrestha@evalarena.io)")
	log.Println("   Role: MEMBER of Pixel Pushers, CREATOR of Gradient Gang")
	log.Println("   ❌ Gradient Gang cannot join the sprint while Maya overlaps")
	log.Println("")
	log.Println("🎯 Test Credentials:")
	log.Println("   Email: any of the above")
	log.Println("   Password: password123")
	log.Println("")
}
