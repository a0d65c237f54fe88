package handlers

import (
	"net/http"

	"github.com/evalarena/arena-backend/internal/api/middleware"
	"github.com/evalarena/arena-backend/internal/models"
	"github.com/evalarena/arena-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ParticipantTeamHandler handles participant team HTTP requests
type ParticipantTeamHandler struct {
	teamService service.ParticipantTeamService
}

// Create creates a new participant team with the caller as its first member
func (h *ParticipantTeamHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), userID, req.TeamName)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toParticipantTeamResponse(team))
}

// List returns the caller's participant teams
func (h *ParticipantTeamHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	teams, err := h.teamService.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.ParticipantTeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toParticipantTeamResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns a single participant team with its members
func (h *ParticipantTeamHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	team, err := h.teamService.Get(c.Request.Context(), userID, c.Param("team_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toParticipantTeamResponse(team))
}

// Update renames a participant team
func (h *ParticipantTeamHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamService.Update(c.Request.Context(), userID, c.Param("team_id"), req.TeamName)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toParticipantTeamResponse(team))
}

// Delete removes a participant team
func (h *ParticipantTeamHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), userID, c.Param("team_id")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant team deleted"})
}

// AddMember adds a user to the team
func (h *ParticipantTeamHandler) AddMember(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.teamService.AddMember(c.Request.Context(), userID, c.Param("team_id"), req.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toParticipantMemberResponse(member))
}

// ListMembers lists a team's members
func (h *ParticipantTeamHandler) ListMembers(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	members, err := h.teamService.ListMembers(c.Request.Context(), userID, c.Param("team_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.ParticipantMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toParticipantMemberResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

// RemoveMember removes a user from the team
func (h *ParticipantTeamHandler) RemoveMember(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	err := h.teamService.RemoveMember(c.Request.Context(), userID, c.Param("team_id"), c.Param("user_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
