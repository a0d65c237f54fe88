package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Host Team Models
// ============================================

// HostTeam represents a team that creates and administers challenges
type HostTeam struct {
	ID        string
	TeamName  string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
	Hosts     []*ChallengeHost
}

// ChallengeHost represents a user's role on a host team
type ChallengeHost struct {
	ID         string
	UserID     string
	TeamID     string
	Status     string // requested, accepted, rejected
	Permission string // read, write, admin
	CreatedAt  time.Time
	User       *User
}

// ============================================
// Host Team Repository Interface
// ============================================

// HostTeamRepository defines host team data operations
type HostTeamRepository interface {
	Create(ctx context.Context, team *HostTeam) error
	FindByID(ctx context.Context, id string) (*HostTeam, error)
	FindByUserID(ctx context.Context, userID string) ([]*HostTeam, error)
	Update(ctx context.Context, team *HostTeam) error
	Delete(ctx context.Context, id string) error

	// Host operations
	AddHost(ctx context.Context, host *ChallengeHost) error
	FindHosts(ctx context.Context, teamID string) ([]*ChallengeHost, error)
	FindHost(ctx context.Context, teamID, userID string) (*ChallengeHost, error)
	UpdateHost(ctx context.Context, teamID, userID, status, permission string) error
	RemoveHost(ctx context.Context, teamID, userID string) error
}

// ============================================
// PostgreSQL Host Team Repository Implementation
// ============================================

type pgHostTeamRepository struct {
	pool *pgxpool.Pool
}

// NewHostTeamRepository creates a new PostgreSQL host team repository
func NewHostTeamRepository(pool *pgxpool.Pool) HostTeamRepository {
	return &pgHostTeamRepository{pool: pool}
}

func (r *pgHostTeamRepository) Create(ctx context.Context, team *HostTeam) error {
	query := `
		INSERT INTO host_teams (team_name, created_by)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, team.TeamName, team.CreatedBy).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *pgHostTeamRepository) FindByID(ctx context.Context, id string) (*HostTeam, error) {
	query := `
		SELECT id, team_name, created_by, created_at, updated_at
		FROM host_teams WHERE id = $1
	`
	team := &HostTeam{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.TeamName, &team.CreatedBy, &team.CreatedAt, &team.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *pgHostTeamRepository) FindByUserID(ctx context.Context, userID string) ([]*HostTeam, error) {
	query := `
		SELECT t.id, t.team_name, t.created_by, t.created_at, t.updated_at
		FROM host_teams t
		INNER JOIN challenge_hosts h ON t.id = h.team_id
		WHERE h.user_id = $1 AND h.status = 'accepted'
		ORDER BY t.team_name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*HostTeam
	for rows.Next() {
		team := &HostTeam{}
		if err := rows.Scan(
			&team.ID, &team.TeamName, &team.CreatedBy, &team.CreatedAt, &team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

func (r *pgHostTeamRepository) Update(ctx context.Context, team *HostTeam) error {
	query := `
		UPDATE host_teams SET team_name = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, team.ID, team.TeamName)
	return err
}

func (r *pgHostTeamRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM host_teams WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgHostTeamRepository) AddHost(ctx context.Context, host *ChallengeHost) error {
	query := `
		INSERT INTO challenge_hosts (user_id, team_id, status, permission)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, host.UserID, host.TeamID, host.Status, host.Permission).
		Scan(&host.ID, &host.CreatedAt)
}

func (r *pgHostTeamRepository) FindHosts(ctx context.Context, teamID string) ([]*ChallengeHost, error) {
	query := `
		SELECT h.id, h.user_id, h.team_id, h.status, h.permission, h.created_at,
		       u.id, u.email, u.name
		FROM challenge_hosts h
		INNER JOIN users u ON h.user_id = u.id
		WHERE h.team_id = $1
		ORDER BY h.created_at
	`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hosts []*ChallengeHost
	for rows.Next() {
		host := &ChallengeHost{User: &User{}}
		if err := rows.Scan(
			&host.ID, &host.UserID, &host.TeamID, &host.Status, &host.Permission, &host.CreatedAt,
			&host.User.ID, &host.User.Email, &host.User.Name,
		); err != nil {
			return nil, err
		}
		hosts = append(hosts, host)
	}
	return hosts, nil
}

func (r *pgHostTeamRepository) FindHost(ctx context.Context, teamID, userID string) (*ChallengeHost, error) {
	query := `
		SELECT id, user_id, team_id, status, permission, created_at
		FROM challenge_hosts WHERE team_id = $1 AND user_id = $2
	`
	host := &ChallengeHost{}
	err := r.pool.QueryRow(ctx, query, teamID, userID).Scan(
		&host.ID, &host.UserID, &host.TeamID, &host.Status, &host.Permission, &host.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return host, nil
}

func (r *pgHostTeamRepository) UpdateHost(ctx context.Context, teamID, userID, status, permission string) error {
	query := `
		UPDATE challenge_hosts SET status = $3, permission = $4
		WHERE team_id = $1 AND user_id = $2
	`
	_, err := r.pool.Exec(ctx, query, teamID, userID, status, permission)
	return err
}

func (r *pgHostTeamRepository) RemoveHost(ctx context.Context, teamID, userID string) error {
	query := `DELETE FROM challenge_hosts WHERE team_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, teamID, userID)
	return err
}
