package models

import "time"

// ============================================
// Auth DTOs
// ============================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================
// Team DTOs
// ============================================

type CreateTeamRequest struct {
	TeamName string `json:"team_name" binding:"required,min=2"`
}

type UpdateTeamRequest struct {
	TeamName string `json:"team_name" binding:"required,min=2"`
}

type HostTeamResponse struct {
	ID        string               `json:"id"`
	TeamName  string               `json:"team_name"`
	CreatedBy string               `json:"created_by"`
	Hosts     []HostMemberResponse `json:"hosts,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type HostMemberResponse struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	TeamID     string        `json:"team_id"`
	Status     string        `json:"status"`
	Permission string        `json:"permission"`
	User       *UserResponse `json:"user,omitempty"`
}

type AddHostRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	Permission string `json:"permission" binding:"required,oneof=read write admin"`
}

type UpdateHostRequest struct {
	Status     *string `json:"status,omitempty" binding:"omitempty,oneof=requested accepted rejected"`
	Permission *string `json:"permission,omitempty" binding:"omitempty,oneof=read write admin"`
}

type ParticipantTeamResponse struct {
	ID        string                      `json:"id"`
	TeamName  string                      `json:"team_name"`
	CreatedBy string                      `json:"created_by"`
	Members   []ParticipantMemberResponse `json:"members,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
}

type ParticipantMemberResponse struct {
	ID     string        `json:"id"`
	UserID string        `json:"user_id"`
	TeamID string        `json:"team_id"`
	Status string        `json:"status"`
	User   *UserResponse `json:"user,omitempty"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ============================================
// Challenge DTOs
// ============================================

type CreateChallengeRequest struct {
	Title                string     `json:"title" binding:"required"`
	ShortDescription     string     `json:"short_description"`
	Description          string     `json:"description"`
	TermsAndConditions   string     `json:"terms_and_conditions"`
	SubmissionGuidelines string     `json:"submission_guidelines"`
	EvaluationDetails    string     `json:"evaluation_details"`
	Image                *string    `json:"image"`
	StartDate            time.Time  `json:"start_date" binding:"required"`
	EndDate              time.Time  `json:"end_date" binding:"required"`
	Published            bool       `json:"published"`
	EnableForum          *bool      `json:"enable_forum"`
	AnonymousLeaderboard bool       `json:"anonymous_leaderboard"`
}

type UpdateChallengeRequest struct {
	Title                *string    `json:"title"`
	ShortDescription     *string    `json:"short_description"`
	Description          *string    `json:"description"`
	TermsAndConditions   *string    `json:"terms_and_conditions"`
	SubmissionGuidelines *string    `json:"submission_guidelines"`
	EvaluationDetails    *string    `json:"evaluation_details"`
	Image                *string    `json:"image"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	Published            *bool      `json:"published"`
	EnableForum          *bool      `json:"enable_forum"`
	AnonymousLeaderboard *bool      `json:"anonymous_leaderboard"`
}

type ChallengeResponse struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	ShortDescription     string    `json:"short_description"`
	Description          string    `json:"description"`
	TermsAndConditions   string    `json:"terms_and_conditions"`
	SubmissionGuidelines string    `json:"submission_guidelines"`
	EvaluationDetails    string    `json:"evaluation_details"`
	Image                *string   `json:"image"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	CreatorTeamID        string    `json:"creator"`
	Published            bool      `json:"published"`
	EnableForum          bool      `json:"enable_forum"`
	AnonymousLeaderboard bool      `json:"anonymous_leaderboard"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ============================================
// Participation DTOs
// ============================================

type JoinResponse struct {
	ChallengeID       string `json:"challenge_id"`
	ParticipantTeamID string `json:"participant_team_id"`
}

type JoinExistsResponse struct {
	Message           string `json:"message"`
	ChallengeID       string `json:"challenge_id"`
	ParticipantTeamID string `json:"participant_team_id"`
}

// ============================================
// Phase DTOs
// ============================================

type CreatePhaseRequest struct {
	Name                 string     `json:"name" binding:"required"`
	Description          string     `json:"description"`
	Codename             *string    `json:"codename"`
	LeaderboardPublic    bool       `json:"leaderboard_public"`
	IsPublic             bool       `json:"is_public"`
	StartDate            time.Time  `json:"start_date" binding:"required"`
	EndDate              time.Time  `json:"end_date" binding:"required"`
	TestAnnotation       *string    `json:"test_annotation"`
	MaxSubmissionsPerDay *int       `json:"max_submissions_per_day"`
	MaxSubmissions       *int       `json:"max_submissions"`
}

type UpdatePhaseRequest struct {
	Name                 *string    `json:"name"`
	Description          *string    `json:"description"`
	Codename             *string    `json:"codename"`
	LeaderboardPublic    *bool      `json:"leaderboard_public"`
	IsPublic             *bool      `json:"is_public"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	TestAnnotation       *string    `json:"test_annotation"`
	MaxSubmissionsPerDay *int       `json:"max_submissions_per_day"`
	MaxSubmissions       *int       `json:"max_submissions"`
}

type PhaseResponse struct {
	ID                   string    `json:"id"`
	ChallengeID          string    `json:"challenge"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Codename             string    `json:"codename"`
	LeaderboardPublic    bool      `json:"leaderboard_public"`
	IsPublic             bool      `json:"is_public"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	IsActive             bool      `json:"is_active"`
	MaxSubmissionsPerDay int       `json:"max_submissions_per_day"`
	MaxSubmissions       int       `json:"max_submissions"`
}

// ============================================
// Split and Leaderboard DTOs
// ============================================

type CreateSplitRequest struct {
	Name     string `json:"name" binding:"required"`
	Codename string `json:"codename" binding:"required"`
}

type SplitResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

type CreateLeaderboardRequest struct {
	Schema map[string]interface{} `json:"schema" binding:"required"`
}

type LeaderboardResponse struct {
	ID     string                 `json:"id"`
	Schema map[string]interface{} `json:"schema"`
}

type CreatePhaseSplitRequest struct {
	SplitID       string `json:"dataset_split" binding:"required"`
	LeaderboardID string `json:"leaderboard" binding:"required"`
	Visibility    string `json:"visibility" binding:"required,oneof=host owner_and_host public"`
}

type PhaseSplitResponse struct {
	ID            string `json:"id"`
	PhaseID       string `json:"challenge_phase"`
	SplitID       string `json:"dataset_split"`
	SplitName     string `json:"dataset_split_name"`
	LeaderboardID string `json:"leaderboard"`
	Visibility    string `json:"visibility"`
}
