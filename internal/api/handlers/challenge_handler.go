package handlers

import (
	"net/http"
	"strings"

	"github.com/evalarena/arena-backend/internal/api/middleware"
	"github.com/evalarena/arena-backend/internal/models"
	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/rules"
	"github.com/evalarena/arena-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ChallengeHandler handles challenge HTTP requests
type ChallengeHandler struct {
	challengeService service.ChallengeService
}

// Create creates a challenge under a host team
func (h *ChallengeHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enableForum := true
	if req.EnableForum != nil {
		enableForum = *req.EnableForum
	}

	challenge := &repository.Challenge{
		Title:                req.Title,
		ShortDescription:     req.ShortDescription,
		Description:          req.Description,
		TermsAndConditions:   req.TermsAndConditions,
		SubmissionGuidelines: req.SubmissionGuidelines,
		EvaluationDetails:    req.EvaluationDetails,
		Image:                req.Image,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Published:            req.Published,
		EnableForum:          enableForum,
		AnonymousLeaderboard: req.AnonymousLeaderboard,
	}

	created, err := h.challengeService.Create(c.Request.Context(), userID, c.Param("team_id"), challenge)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toChallengeResponse(created))
}

// ListByHostTeam lists a host team's challenges
func (h *ChallengeHandler) ListByHostTeam(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	challenges, err := h.challengeService.ListByHostTeam(c.Request.Context(), userID, c.Param("team_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponses(challenges))
}

// GetScoped returns a challenge addressed through its host team
func (h *ChallengeHandler) GetScoped(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	challenge, err := h.challengeService.GetScoped(c.Request.Context(), userID, c.Param("team_id"), c.Param("challenge_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(challenge))
}

// Update replaces a challenge's editable fields
func (h *ChallengeHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge, err := h.challengeService.GetScoped(c.Request.Context(), userID, c.Param("team_id"), c.Param("challenge_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	challenge.Title = req.Title
	challenge.ShortDescription = req.ShortDescription
	challenge.Description = req.Description
	challenge.TermsAndConditions = req.TermsAndConditions
	challenge.SubmissionGuidelines = req.SubmissionGuidelines
	challenge.EvaluationDetails = req.EvaluationDetails
	challenge.Image = req.Image
	challenge.StartDate = req.StartDate
	challenge.EndDate = req.EndDate
	challenge.Published = req.Published
	if req.EnableForum != nil {
		challenge.EnableForum = *req.EnableForum
	}
	challenge.AnonymousLeaderboard = req.AnonymousLeaderboard

	updated, err := h.challengeService.UpdateScoped(c.Request.Context(), userID, c.Param("team_id"), challenge)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(updated))
}

// Patch applies a partial update to a challenge
func (h *ChallengeHandler) Patch(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge, err := h.challengeService.GetScoped(c.Request.Context(), userID, c.Param("team_id"), c.Param("challenge_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Title != nil {
		challenge.Title = *req.Title
	}
	if req.ShortDescription != nil {
		challenge.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.TermsAndConditions != nil {
		challenge.TermsAndConditions = *req.TermsAndConditions
	}
	if req.SubmissionGuidelines != nil {
		challenge.SubmissionGuidelines = *req.SubmissionGuidelines
	}
	if req.EvaluationDetails != nil {
		challenge.EvaluationDetails = *req.EvaluationDetails
	}
	if req.Image != nil {
		challenge.Image = req.Image
	}
	if req.StartDate != nil {
		challenge.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		challenge.EndDate = *req.EndDate
	}
	if req.Published != nil {
		challenge.Published = *req.Published
	}
	if req.EnableForum != nil {
		challenge.EnableForum = *req.EnableForum
	}
	if req.AnonymousLeaderboard != nil {
		challenge.AnonymousLeaderboard = *req.AnonymousLeaderboard
	}

	updated, err := h.challengeService.UpdateScoped(c.Request.Context(), userID, c.Param("team_id"), challenge)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(updated))
}

// Delete removes a challenge
func (h *ChallengeHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	err := h.challengeService.DeleteScoped(c.Request.Context(), userID, c.Param("team_id"), c.Param("challenge_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge deleted"})
}

// Get returns a challenge by id, outside any host team scope
func (h *ChallengeHandler) Get(c *gin.Context) {
	challenge, err := h.challengeService.Get(c.Request.Context(), c.Param("challenge_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(challenge))
}

// Disable withdraws a challenge; only the creator team's admins may do this
func (h *ChallengeHandler) Disable(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.challengeService.Disable(c.Request.Context(), userID, c.Param("challenge_id")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge disabled"})
}

// ListByTime lists published challenges by temporal bucket
func (h *ChallengeHandler) ListByTime(c *gin.Context) {
	segment := strings.ToUpper(c.Param("time_segment"))

	challenges, err := h.challengeService.ListByTime(c.Request.Context(), segment)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponses(challenges))
}

// ListByFilter lists challenges through exactly one team selector
func (h *ChallengeHandler) ListByFilter(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	req := rules.FilterRequest{
		HostTeamID:        c.Query("host_team"),
		ParticipantTeamID: c.Query("participant_team"),
		Mode:              c.Query("mode"),
	}

	challenges, err := h.challengeService.ListByFilter(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponses(challenges))
}

// Join maps a participant team to a challenge. A repeat join answers
// 200 with the existing mapping instead of an error.
func (h *ChallengeHandler) Join(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	result, err := h.challengeService.Join(c.Request.Context(), userID, c.Param("challenge_id"), c.Param("team_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if !result.Created {
		c.JSON(http.StatusOK, models.JoinExistsResponse{
			Message:           "Team already exists",
			ChallengeID:       result.ChallengeID,
			ParticipantTeamID: result.TeamID,
		})
		return
	}

	c.JSON(http.StatusCreated, models.JoinResponse{
		ChallengeID:       result.ChallengeID,
		ParticipantTeamID: result.TeamID,
	})
}

// ListParticipantTeams lists the ids of teams mapped to a challenge
func (h *ChallengeHandler) ListParticipantTeams(c *gin.Context) {
	teamIDs, err := h.challengeService.ListParticipantTeamIDs(c.Request.Context(), c.Param("challenge_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participant_team_ids": teamIDs})
}
