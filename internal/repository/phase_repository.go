package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Challenge Phase Models
// ============================================

// ChallengePhase represents a submission window within a challenge
type ChallengePhase struct {
	ID                   string
	ChallengeID          string
	Name                 string
	Description          string
	Codename             string
	LeaderboardPublic    bool
	IsPublic             bool
	StartDate            time.Time
	EndDate              time.Time
	TestAnnotation       *string
	MaxSubmissionsPerDay int
	MaxSubmissions       int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DatasetSplit represents a named slice of a challenge dataset
type DatasetSplit struct {
	ID        string
	Name      string
	Codename  string
	CreatedAt time.Time
}

// Leaderboard holds the scoring schema for a phase split
type Leaderboard struct {
	ID        string
	Schema    []byte
	CreatedAt time.Time
}

// ChallengePhaseSplit joins a phase, a dataset split and a leaderboard
type ChallengePhaseSplit struct {
	ID            string
	PhaseID       string
	SplitID       string
	LeaderboardID string
	Visibility    string // host, owner_and_host, public
	CreatedAt     time.Time

	Split *DatasetSplit
}

// ============================================
// Phase Repository Interface
// ============================================

// PhaseRepository defines challenge phase data operations
type PhaseRepository interface {
	Create(ctx context.Context, phase *ChallengePhase) error
	FindByID(ctx context.Context, id string) (*ChallengePhase, error)
	FindByChallenge(ctx context.Context, challengeID string) ([]*ChallengePhase, error)
	FindByCodename(ctx context.Context, challengeID, codename string) (*ChallengePhase, error)
	Update(ctx context.Context, phase *ChallengePhase) error
	Delete(ctx context.Context, id string) error

	// Dataset split operations
	CreateSplit(ctx context.Context, split *DatasetSplit) error
	FindSplitByID(ctx context.Context, id string) (*DatasetSplit, error)
	FindAllSplits(ctx context.Context) ([]*DatasetSplit, error)

	// Leaderboard operations
	CreateLeaderboard(ctx context.Context, lb *Leaderboard) error
	FindLeaderboardByID(ctx context.Context, id string) (*Leaderboard, error)

	// Phase split operations
	CreatePhaseSplit(ctx context.Context, ps *ChallengePhaseSplit) error
	FindPhaseSplits(ctx context.Context, phaseID string) ([]*ChallengePhaseSplit, error)
	FindPhaseSplit(ctx context.Context, phaseID, splitID string) (*ChallengePhaseSplit, error)
}

// ============================================
// PostgreSQL Phase Repository Implementation
// ============================================

type pgPhaseRepository struct {
	pool *pgxpool.Pool
}

// NewPhaseRepository creates a new PostgreSQL phase repository
func NewPhaseRepository(pool *pgxpool.Pool) PhaseRepository {
	return &pgPhaseRepository{pool: pool}
}

const phaseColumns = `
	id, challenge_id, name, description, codename, leaderboard_public, is_public,
	start_date, end_date, test_annotation, max_submissions_per_day, max_submissions,
	created_at, updated_at
`

func scanPhase(row pgx.Row) (*ChallengePhase, error) {
	p := &ChallengePhase{}
	err := row.Scan(
		&p.ID, &p.ChallengeID, &p.Name, &p.Description, &p.Codename,
		&p.LeaderboardPublic, &p.IsPublic, &p.StartDate, &p.EndDate,
		&p.TestAnnotation, &p.MaxSubmissionsPerDay, &p.MaxSubmissions,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgPhaseRepository) Create(ctx context.Context, phase *ChallengePhase) error {
	query := `
		INSERT INTO challenge_phases (
			challenge_id, name, description, codename, leaderboard_public, is_public,
			start_date, end_date, test_annotation, max_submissions_per_day, max_submissions
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		phase.ChallengeID, phase.Name, phase.Description, phase.Codename,
		phase.LeaderboardPublic, phase.IsPublic, phase.StartDate, phase.EndDate,
		phase.TestAnnotation, phase.MaxSubmissionsPerDay, phase.MaxSubmissions,
	).Scan(&phase.ID, &phase.CreatedAt, &phase.UpdatedAt)
}

func (r *pgPhaseRepository) FindByID(ctx context.Context, id string) (*ChallengePhase, error) {
	query := `SELECT ` + phaseColumns + ` FROM challenge_phases WHERE id = $1`
	phase, err := scanPhase(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return phase, nil
}

func (r *pgPhaseRepository) FindByChallenge(ctx context.Context, challengeID string) ([]*ChallengePhase, error) {
	query := `
		SELECT ` + phaseColumns + ` FROM challenge_phases
		WHERE challenge_id = $1
		ORDER BY start_date
	`
	rows, err := r.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []*ChallengePhase
	for rows.Next() {
		phase, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, phase)
	}
	return phases, nil
}

func (r *pgPhaseRepository) FindByCodename(ctx context.Context, challengeID, codename string) (*ChallengePhase, error) {
	query := `SELECT ` + phaseColumns + ` FROM challenge_phases WHERE challenge_id = $1 AND codename = $2`
	phase, err := scanPhase(r.pool.QueryRow(ctx, query, challengeID, codename))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return phase, nil
}

func (r *pgPhaseRepository) Update(ctx context.Context, phase *ChallengePhase) error {
	query := `
		UPDATE challenge_phases SET
			name = $2, description = $3, codename = $4, leaderboard_public = $5,
			is_public = $6, start_date = $7, end_date = $8, test_annotation = $9,
			max_submissions_per_day = $10, max_submissions = $11, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		phase.ID, phase.Name, phase.Description, phase.Codename, phase.LeaderboardPublic,
		phase.IsPublic, phase.StartDate, phase.EndDate, phase.TestAnnotation,
		phase.MaxSubmissionsPerDay, phase.MaxSubmissions,
	)
	return err
}

func (r *pgPhaseRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM challenge_phases WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgPhaseRepository) CreateSplit(ctx context.Context, split *DatasetSplit) error {
	query := `
		INSERT INTO dataset_splits (name, codename)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, split.Name, split.Codename).
		Scan(&split.ID, &split.CreatedAt)
}

func (r *pgPhaseRepository) FindSplitByID(ctx context.Context, id string) (*DatasetSplit, error) {
	query := `SELECT id, name, codename, created_at FROM dataset_splits WHERE id = $1`
	split := &DatasetSplit{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&split.ID, &split.Name, &split.Codename, &split.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return split, nil
}

func (r *pgPhaseRepository) FindAllSplits(ctx context.Context) ([]*DatasetSplit, error) {
	query := `SELECT id, name, codename, created_at FROM dataset_splits ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var splits []*DatasetSplit
	for rows.Next() {
		split := &DatasetSplit{}
		if err := rows.Scan(&split.ID, &split.Name, &split.Codename, &split.CreatedAt); err != nil {
			return nil, err
		}
		splits = append(splits, split)
	}
	return splits, nil
}

func (r *pgPhaseRepository) CreateLeaderboard(ctx context.Context, lb *Leaderboard) error {
	query := `
		INSERT INTO leaderboards (schema)
		VALUES ($1)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, lb.Schema).Scan(&lb.ID, &lb.CreatedAt)
}

func (r *pgPhaseRepository) FindLeaderboardByID(ctx context.Context, id string) (*Leaderboard, error) {
	query := `SELECT id, schema, created_at FROM leaderboards WHERE id = $1`
	lb := &Leaderboard{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&lb.ID, &lb.Schema, &lb.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lb, nil
}

func (r *pgPhaseRepository) CreatePhaseSplit(ctx context.Context, ps *ChallengePhaseSplit) error {
	query := `
		INSERT INTO challenge_phase_splits (phase_id, split_id, leaderboard_id, visibility)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, ps.PhaseID, ps.SplitID, ps.LeaderboardID, ps.Visibility).
		Scan(&ps.ID, &ps.CreatedAt)
}

func (r *pgPhaseRepository) FindPhaseSplits(ctx context.Context, phaseID string) ([]*ChallengePhaseSplit, error) {
	query := `
		SELECT ps.id, ps.phase_id, ps.split_id, ps.leaderboard_id, ps.visibility, ps.created_at,
		       s.id, s.name, s.codename, s.created_at
		FROM challenge_phase_splits ps
		INNER JOIN dataset_splits s ON ps.split_id = s.id
		WHERE ps.phase_id = $1
		ORDER BY s.name
	`
	rows, err := r.pool.Query(ctx, query, phaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phaseSplits []*ChallengePhaseSplit
	for rows.Next() {
		ps := &ChallengePhaseSplit{Split: &DatasetSplit{}}
		if err := rows.Scan(
			&ps.ID, &ps.PhaseID, &ps.SplitID, &ps.LeaderboardID, &ps.Visibility, &ps.CreatedAt,
			&ps.Split.ID, &ps.Split.Name, &ps.Split.Codename, &ps.Split.CreatedAt,
		); err != nil {
			return nil, err
		}
		phaseSplits = append(phaseSplits, ps)
	}
	return phaseSplits, nil
}

func (r *pgPhaseRepository) FindPhaseSplit(ctx context.Context, phaseID, splitID string) (*ChallengePhaseSplit, error) {
	query := `
		SELECT id, phase_id, split_id, leaderboard_id, visibility, created_at
		FROM challenge_phase_splits
		WHERE phase_id = $1 AND split_id = $2
	`
	ps := &ChallengePhaseSplit{}
	err := r.pool.QueryRow(ctx, query, phaseID, splitID).Scan(
		&ps.ID, &ps.PhaseID, &ps.SplitID, &ps.LeaderboardID, &ps.Visibility, &ps.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ps, nil
}
