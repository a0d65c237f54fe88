package service

import (
	"errors"

	"github.com/evalarena/arena-backend/internal/config"
	"github.com/evalarena/arena-backend/internal/db"
	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/socket"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")

	// Missing-entity sentinels, one per aggregate so handlers can frame
	// the "<Entity> does not exist" responses.
	ErrChallengeNotFound       = errors.New("challenge does not exist")
	ErrHostTeamNotFound        = errors.New("challenge host team does not exist")
	ErrParticipantTeamNotFound = errors.New("participant team does not exist")
	ErrPhaseNotFound           = errors.New("challenge phase does not exist")
	ErrSplitNotFound           = errors.New("dataset split does not exist")
	ErrLeaderboardNotFound     = errors.New("leaderboard does not exist")

	// Participation rejections
	ErrSelfParticipation = errors.New("host team cannot participate in its own challenge")
	ErrMemberConflict    = errors.New("team member already participates in the challenge")

	// Listing filter rejections
	ErrInvalidFilter = errors.New("invalid url pattern")
	ErrInvalidTime   = errors.New("wrong url pattern")

	ErrCodenameConflict = errors.New("phase codename already in use")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth            AuthService
	HostTeam        HostTeamService
	ParticipantTeam ParticipantTeamService
	Challenge       ChallengeService
	Phase           PhaseService
	Broadcaster     *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Cache       *db.RedisDB
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	challengeService := NewChallengeService(
		deps.Repos.Challenge,
		deps.Repos.HostTeam,
		deps.Repos.ParticipantTeam,
		deps.Cache,
		deps.Broadcaster,
	)

	return &Services{
		Auth:            NewAuthService(deps.Config, deps.Repos.User),
		HostTeam:        NewHostTeamService(deps.Repos.HostTeam, deps.Repos.User, deps.Broadcaster),
		ParticipantTeam: NewParticipantTeamService(deps.Repos.ParticipantTeam, deps.Repos.User, deps.Broadcaster),
		Challenge:       challengeService,
		Phase: NewPhaseService(
			deps.Repos.Phase,
			deps.Repos.Challenge,
			deps.Repos.HostTeam,
			deps.Broadcaster,
		),
		Broadcaster: deps.Broadcaster,
	}
}
