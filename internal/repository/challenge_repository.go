package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Challenge Models
// ============================================

// Challenge represents a time-boxed competition hosted by a host team
type Challenge struct {
	ID                   string
	Title                string
	ShortDescription     string
	Description          string
	TermsAndConditions   string
	SubmissionGuidelines string
	EvaluationDetails    string
	Image                *string
	StartDate            time.Time
	EndDate              time.Time
	CreatorTeamID        string
	Published            bool
	EnableForum          bool
	AnonymousLeaderboard bool
	Disabled             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ChallengeParticipantTeam links a participant team to a challenge it joined
type ChallengeParticipantTeam struct {
	ID          string
	ChallengeID string
	TeamID      string
	CreatedAt   time.Time
}

// ============================================
// Challenge Repository Interface
// ============================================

// ChallengeRepository defines challenge data operations
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *Challenge) error
	FindByID(ctx context.Context, id string) (*Challenge, error)
	FindByCreatorTeam(ctx context.Context, teamID string) ([]*Challenge, error)
	FindByCreatorTeams(ctx context.Context, teamIDs []string) ([]*Challenge, error)
	FindPublished(ctx context.Context) ([]*Challenge, error)
	Update(ctx context.Context, challenge *Challenge) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
	Delete(ctx context.Context, id string) error

	// Participation mapping operations
	AddParticipantTeam(ctx context.Context, mapping *ChallengeParticipantTeam) error
	FindParticipantTeamIDs(ctx context.Context, challengeID string) ([]string, error)
	FindMapping(ctx context.Context, challengeID, teamID string) (*ChallengeParticipantTeam, error)
	FindByParticipantTeams(ctx context.Context, teamIDs []string) ([]*Challenge, error)
}

// ============================================
// PostgreSQL Challenge Repository Implementation
// ============================================

type pgChallengeRepository struct {
	pool *pgxpool.Pool
}

// NewChallengeRepository creates a new PostgreSQL challenge repository
func NewChallengeRepository(pool *pgxpool.Pool) ChallengeRepository {
	return &pgChallengeRepository{pool: pool}
}

const challengeColumns = `
	id, title, short_description, description, terms_and_conditions,
	submission_guidelines, evaluation_details, image, start_date, end_date,
	creator_team_id, published, enable_forum, anonymous_leaderboard, disabled,
	created_at, updated_at
`

func scanChallenge(row pgx.Row) (*Challenge, error) {
	c := &Challenge{}
	err := row.Scan(
		&c.ID, &c.Title, &c.ShortDescription, &c.Description, &c.TermsAndConditions,
		&c.SubmissionGuidelines, &c.EvaluationDetails, &c.Image, &c.StartDate, &c.EndDate,
		&c.CreatorTeamID, &c.Published, &c.EnableForum, &c.AnonymousLeaderboard, &c.Disabled,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgChallengeRepository) Create(ctx context.Context, challenge *Challenge) error {
	query := `
		INSERT INTO challenges (
			title, short_description, description, terms_and_conditions,
			submission_guidelines, evaluation_details, image, start_date, end_date,
			creator_team_id, published, enable_forum, anonymous_leaderboard
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		challenge.Title, challenge.ShortDescription, challenge.Description,
		challenge.TermsAndConditions, challenge.SubmissionGuidelines, challenge.EvaluationDetails,
		challenge.Image, challenge.StartDate, challenge.EndDate,
		challenge.CreatorTeamID, challenge.Published, challenge.EnableForum,
		challenge.AnonymousLeaderboard,
	).Scan(&challenge.ID, &challenge.CreatedAt, &challenge.UpdatedAt)
}

func (r *pgChallengeRepository) FindByID(ctx context.Context, id string) (*Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	challenge, err := scanChallenge(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return challenge, nil
}

func (r *pgChallengeRepository) FindByCreatorTeam(ctx context.Context, teamID string) ([]*Challenge, error) {
	query := `
		SELECT ` + challengeColumns + ` FROM challenges
		WHERE creator_team_id = $1
		ORDER BY created_at DESC
	`
	return r.queryChallenges(ctx, query, teamID)
}

func (r *pgChallengeRepository) FindByCreatorTeams(ctx context.Context, teamIDs []string) ([]*Challenge, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + challengeColumns + ` FROM challenges
		WHERE creator_team_id = ANY($1)
		ORDER BY created_at DESC
	`
	return r.queryChallenges(ctx, query, teamIDs)
}

func (r *pgChallengeRepository) FindPublished(ctx context.Context) ([]*Challenge, error) {
	query := `
		SELECT ` + challengeColumns + ` FROM challenges
		WHERE published = TRUE AND disabled = FALSE
		ORDER BY start_date DESC
	`
	return r.queryChallenges(ctx, query)
}

func (r *pgChallengeRepository) Update(ctx context.Context, challenge *Challenge) error {
	query := `
		UPDATE challenges SET
			title = $2, short_description = $3, description = $4,
			terms_and_conditions = $5, submission_guidelines = $6, evaluation_details = $7,
			image = $8, start_date = $9, end_date = $10, published = $11,
			enable_forum = $12, anonymous_leaderboard = $13, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		challenge.ID, challenge.Title, challenge.ShortDescription, challenge.Description,
		challenge.TermsAndConditions, challenge.SubmissionGuidelines, challenge.EvaluationDetails,
		challenge.Image, challenge.StartDate, challenge.EndDate, challenge.Published,
		challenge.EnableForum, challenge.AnonymousLeaderboard,
	)
	return err
}

func (r *pgChallengeRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	query := `UPDATE challenges SET disabled = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, disabled)
	return err
}

func (r *pgChallengeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM challenges WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgChallengeRepository) AddParticipantTeam(ctx context.Context, mapping *ChallengeParticipantTeam) error {
	query := `
		INSERT INTO challenge_participant_teams (challenge_id, team_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, mapping.ChallengeID, mapping.TeamID).
		Scan(&mapping.ID, &mapping.CreatedAt)
}

func (r *pgChallengeRepository) FindParticipantTeamIDs(ctx context.Context, challengeID string) ([]string, error) {
	query := `SELECT team_id FROM challenge_participant_teams WHERE challenge_id = $1`
	rows, err := r.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teamIDs []string
	for rows.Next() {
		var teamID string
		if err := rows.Scan(&teamID); err != nil {
			return nil, err
		}
		teamIDs = append(teamIDs, teamID)
	}
	return teamIDs, nil
}

func (r *pgChallengeRepository) FindMapping(ctx context.Context, challengeID, teamID string) (*ChallengeParticipantTeam, error) {
	query := `
		SELECT id, challenge_id, team_id, created_at
		FROM challenge_participant_teams
		WHERE challenge_id = $1 AND team_id = $2
	`
	mapping := &ChallengeParticipantTeam{}
	err := r.pool.QueryRow(ctx, query, challengeID, teamID).Scan(
		&mapping.ID, &mapping.ChallengeID, &mapping.TeamID, &mapping.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func (r *pgChallengeRepository) FindByParticipantTeams(ctx context.Context, teamIDs []string) ([]*Challenge, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + challengeColumns + ` FROM challenges c
		WHERE c.id IN (
			SELECT challenge_id FROM challenge_participant_teams WHERE team_id = ANY($1)
		)
		ORDER BY c.start_date DESC
	`
	return r.queryChallenges(ctx, query, teamIDs)
}

func (r *pgChallengeRepository) queryChallenges(ctx context.Context, query string, args ...interface{}) ([]*Challenge, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []*Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, challenge)
	}
	return challenges, nil
}
