package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Participant Team Models
// ============================================

// ParticipantTeam represents a team that competes in challenges
type ParticipantTeam struct {
	ID        string
	TeamName  string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
	Members   []*Participant
}

// Participant represents a user's membership on a participant team
type Participant struct {
	ID        string
	UserID    string
	TeamID    string
	Status    string // self, pending, accepted, denied
	CreatedAt time.Time
	User      *User
}

// ============================================
// Participant Team Repository Interface
// ============================================

// ParticipantTeamRepository defines participant team data operations
type ParticipantTeamRepository interface {
	Create(ctx context.Context, team *ParticipantTeam) error
	FindByID(ctx context.Context, id string) (*ParticipantTeam, error)
	FindByUserID(ctx context.Context, userID string) ([]*ParticipantTeam, error)
	Update(ctx context.Context, team *ParticipantTeam) error
	Delete(ctx context.Context, id string) error

	// Member operations
	AddMember(ctx context.Context, member *Participant) error
	FindMembers(ctx context.Context, teamID string) ([]*Participant, error)
	FindMember(ctx context.Context, teamID, userID string) (*Participant, error)
	FindMemberUserIDs(ctx context.Context, teamID string) ([]string, error)
	RemoveMember(ctx context.Context, teamID, userID string) error
}

// ============================================
// PostgreSQL Participant Team Repository Implementation
// ============================================

type pgParticipantTeamRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantTeamRepository creates a new PostgreSQL participant team repository
func NewParticipantTeamRepository(pool *pgxpool.Pool) ParticipantTeamRepository {
	return &pgParticipantTeamRepository{pool: pool}
}

func (r *pgParticipantTeamRepository) Create(ctx context.Context, team *ParticipantTeam) error {
	query := `
		INSERT INTO participant_teams (team_name, created_by)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, team.TeamName, team.CreatedBy).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *pgParticipantTeamRepository) FindByID(ctx context.Context, id string) (*ParticipantTeam, error) {
	query := `
		SELECT id, team_name, created_by, created_at, updated_at
		FROM participant_teams WHERE id = $1
	`
	team := &ParticipantTeam{}
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

func (r *pgParticipantTeamRepository) FindByUserID(ctx context.Context, userID string) ([]*ParticipantTeam, error) {
	query := `
		SELECT t.id, t.team_name, t.created_by, t.created_at, t.updated_at
		FROM participant_teams t
		INNER JOIN participants p ON t.id = p.team_id
		WHERE p.user_id = $1 AND p.status IN ('self', 'accepted')
		ORDER BY t.team_name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*ParticipantTeam
	for rows.Next() {
		team := &ParticipantTeam{}
		if err := rows.Scan(
			&team.ID, &team.TeamName, &team.CreatedBy, &team.CreatedAt, &team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

func (r *pgParticipantTeamRepository) Update(ctx context.Context, team *ParticipantTeam) error {
	query := `
		UPDATE participant_teams SET team_name = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, team.ID, team.TeamName)
	return err
}

func (r *pgParticipantTeamRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM participant_teams WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgParticipantTeamRepository) AddMember(ctx context.Context, member *Participant) error {
	query := `
		INSERT INTO participants (user_id, team_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, member.UserID, member.TeamID, member.Status).
		Scan(&member.ID, &member.CreatedAt)
}

func (r *pgParticipantTeamRepository) FindMembers(ctx context.Context, teamID string) ([]*Participant, error) {
	query := `
		SELECT p.id, p.user_id, p.team_id, p.status, p.created_at,
		       u.id, u.email, u.name
		FROM participants p
		INNER JOIN users u ON p.user_id = u.id
		WHERE p.team_id = $1
		ORDER BY p.created_at
	`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Participant
	for rows.Next() {
		member := &Participant{User: &User{}}
		if err := rows.Scan(
			&member.ID, &member.UserID, &member.TeamID, &member.Status, &member.CreatedAt,
			&member.User.ID, &member.User.Email, &member.User.Name,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (r *pgParticipantTeamRepository) FindMember(ctx context.Context, teamID, userID string) (*Participant, error) {
	query := `
		SELECT id, user_id, team_id, status, created_at
		FROM participants WHERE team_id = $1 AND user_id = $2
	`
	member := &Participant{}
	err := r.pool.QueryRow(ctx, query, teamID, userID).Scan(
		&member.ID, &member.UserID, &member.TeamID, &member.Status, &member.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *pgParticipantTeamRepository) FindMemberUserIDs(ctx context.Context, teamID string) ([]string, error) {
	query := `
		SELECT user_id FROM participants
		WHERE team_id = $1 AND status IN ('self', 'accepted')
	`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	return userIDs, nil
}

func (r *pgParticipantTeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	query := `DELETE FROM participants WHERE team_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, teamID, userID)
	return err
}
