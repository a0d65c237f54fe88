package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/evalarena/arena-backend/internal/models"
	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/rules"
	"github.com/evalarena/arena-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth            *AuthHandler
	HostTeam        *HostTeamHandler
	ParticipantTeam *ParticipantTeamHandler
	Challenge       *ChallengeHandler
	Phase           *PhaseHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:            &AuthHandler{authService: services.Auth},
		HostTeam:        &HostTeamHandler{teamService: services.HostTeam},
		ParticipantTeam: &ParticipantTeamHandler{teamService: services.ParticipantTeam},
		Challenge:       &ChallengeHandler{challengeService: services.Challenge},
		Phase:           &PhaseHandler{phaseService: services.Phase},
	}
}

// handleServiceError maps service sentinels to the API's response
// framings: missing entities answer 406 with an "<Entity> does not
// exist" body, permission denials answer 403 with a fixed apology.
func handleServiceError(c *gin.Context, err error) {
	switch err {
	case service.ErrChallengeNotFound:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "Challenge does not exist"})
	case service.ErrHostTeamNotFound:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "ChallengeHostTeam does not exist"})
	case service.ErrParticipantTeamNotFound:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "ParticipantTeam does not exist"})
	case service.ErrPhaseNotFound:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "ChallengePhase does not exist"})
	case service.ErrSplitNotFound:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "DatasetSplit does not exist"})
	case service.ErrLeaderboardNotFound:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "Leaderboard does not exist"})
	case service.ErrUserNotFound:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "User does not exist"})
	case service.ErrSelfParticipation:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "Sorry, You cannot participate in your own challenge!"})
	case service.ErrMemberConflict:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "Sorry, other team members have already participated in the Challenge. Please participate with a different team!"})
	case service.ErrInvalidFilter:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "Invalid url pattern!"})
	case service.ErrInvalidTime:
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "Wrong url pattern!"})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Sorry, you are not allowed to perform this operation!"})
	case service.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case service.ErrInvalidCredentials:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case service.ErrUserExists:
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case service.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	case service.ErrCodenameConflict:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phase codename already in use"})
	case service.ErrInvalidToken:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toHostTeamResponse(t *repository.HostTeam) models.HostTeamResponse {
	resp := models.HostTeamResponse{
		ID:        t.ID,
		TeamName:  t.TeamName,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}
	for _, h := range t.Hosts {
		resp.Hosts = append(resp.Hosts, toHostMemberResponse(h))
	}
	return resp
}

func toHostMemberResponse(h *repository.ChallengeHost) models.HostMemberResponse {
	resp := models.HostMemberResponse{
		ID:         h.ID,
		UserID:     h.UserID,
		TeamID:     h.TeamID,
		Status:     h.Status,
		Permission: h.Permission,
	}
	if h.User != nil {
		user := toUserResponse(h.User)
		resp.User = &user
	}
	return resp
}

func toParticipantTeamResponse(t *repository.ParticipantTeam) models.ParticipantTeamResponse {
	resp := models.ParticipantTeamResponse{
		ID:        t.ID,
		TeamName:  t.TeamName,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}
	for _, m := range t.Members {
		resp.Members = append(resp.Members, toParticipantMemberResponse(m))
	}
	return resp
}

func toParticipantMemberResponse(m *repository.Participant) models.ParticipantMemberResponse {
	resp := models.ParticipantMemberResponse{
		ID:     m.ID,
		UserID: m.UserID,
		TeamID: m.TeamID,
		Status: m.Status,
	}
	if m.User != nil {
		user := toUserResponse(m.User)
		resp.User = &user
	}
	return resp
}

func toChallengeResponse(ch *repository.Challenge) models.ChallengeResponse {
	classification := rules.Classify(rules.TimeWindow{Start: ch.StartDate, End: ch.EndDate}, time.Now())
	return models.ChallengeResponse{
		ID:                   ch.ID,
		Title:                ch.Title,
		ShortDescription:     ch.ShortDescription,
		Description:          ch.Description,
		TermsAndConditions:   ch.TermsAndConditions,
		SubmissionGuidelines: ch.SubmissionGuidelines,
		EvaluationDetails:    ch.EvaluationDetails,
		Image:                ch.Image,
		StartDate:            ch.StartDate,
		EndDate:              ch.EndDate,
		CreatorTeamID:        ch.CreatorTeamID,
		Published:            ch.Published,
		EnableForum:          ch.EnableForum,
		AnonymousLeaderboard: ch.AnonymousLeaderboard,
		IsActive:             classification.Active,
		CreatedAt:            ch.CreatedAt,
		UpdatedAt:            ch.UpdatedAt,
	}
}

func toChallengeResponses(challenges []*repository.Challenge) []models.ChallengeResponse {
	out := make([]models.ChallengeResponse, 0, len(challenges))
	for _, ch := range challenges {
		out = append(out, toChallengeResponse(ch))
	}
	return out
}

func toPhaseResponse(p *repository.ChallengePhase) models.PhaseResponse {
	classification := rules.Classify(rules.TimeWindow{Start: p.StartDate, End: p.EndDate}, time.Now())
	return models.PhaseResponse{
		ID:                   p.ID,
		ChallengeID:          p.ChallengeID,
		Name:                 p.Name,
		Description:          p.Description,
		Codename:             p.Codename,
		LeaderboardPublic:    p.LeaderboardPublic,
		IsPublic:             p.IsPublic,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		IsActive:             classification.Active,
		MaxSubmissionsPerDay: p.MaxSubmissionsPerDay,
		MaxSubmissions:       p.MaxSubmissions,
	}
}

func toSplitResponse(s *repository.DatasetSplit) models.SplitResponse {
	return models.SplitResponse{
		ID:       s.ID,
		Name:     s.Name,
		Codename: s.Codename,
	}
}

func toLeaderboardResponse(lb *repository.Leaderboard) models.LeaderboardResponse {
	resp := models.LeaderboardResponse{ID: lb.ID}
	if err := json.Unmarshal(lb.Schema, &resp.Schema); err != nil {
		log.Printf("⚠️  Leaderboard %s has an unreadable schema: %v", lb.ID, err)
		resp.Schema = map[string]interface{}{}
	}
	return resp
}

func toPhaseSplitResponse(ps *repository.ChallengePhaseSplit) models.PhaseSplitResponse {
	resp := models.PhaseSplitResponse{
		ID:            ps.ID,
		PhaseID:       ps.PhaseID,
		SplitID:       ps.SplitID,
		LeaderboardID: ps.LeaderboardID,
		Visibility:    ps.Visibility,
	}
	if ps.Split != nil {
		resp.SplitName = ps.Split.Name
	}
	return resp
}
