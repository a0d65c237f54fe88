package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	User            UserRepository
	HostTeam        HostTeamRepository
	ParticipantTeam ParticipantTeamRepository
	Challenge       ChallengeRepository
	Phase           PhaseRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:            NewUserRepository(pool),
		HostTeam:        NewHostTeamRepository(pool),
		ParticipantTeam: NewParticipantTeamRepository(pool),
		Challenge:       NewChallengeRepository(pool),
		Phase:           NewPhaseRepository(pool),
	}
}
