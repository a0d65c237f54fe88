package handlers

import (
	"net/http"

	"github.com/evalarena/arena-backend/internal/api/middleware"
	"github.com/evalarena/arena-backend/internal/models"
	"github.com/evalarena/arena-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// HostTeamHandler handles host team HTTP requests
type HostTeamHandler struct {
	teamService service.HostTeamService
}

// Create creates a new host team with the caller as admin host
func (h *HostTeamHandler) Create(c *gin.Context) {
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

	c.JSON(http.StatusCreated, toHostTeamResponse(team))
}

// List returns the caller's host teams
func (h *HostTeamHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	teams, err := h.teamService.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.HostTeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toHostTeamResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns a single host team with its hosts
func (h *HostTeamHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	team, err := h.teamService.Get(c.Request.Context(), userID, c.Param("team_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHostTeamResponse(team))
}

// Update renames a host team
func (h *HostTeamHandler) Update(c *gin.Context) {
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

	c.JSON(http.StatusOK, toHostTeamResponse(team))
}

// Delete removes a host team
func (h *HostTeamHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), userID, c.Param("team_id")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Host team deleted"})
}

// AddHost invites a user to a host team
func (h *HostTeamHandler) AddHost(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.AddHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	host, err := h.teamService.AddHost(c.Request.Context(), userID, c.Param("team_id"), req.UserID, req.Permission)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHostMemberResponse(host))
}

// ListHosts lists a team's hosts
func (h *HostTeamHandler) ListHosts(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	hosts, err := h.teamService.ListHosts(c.Request.Context(), userID, c.Param("team_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.HostMemberResponse, 0, len(hosts))
	for _, host := range hosts {
		out = append(out, toHostMemberResponse(host))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateHost changes a host's status or permission
func (h *HostTeamHandler) UpdateHost(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.teamService.UpdateHost(c.Request.Context(), userID, c.Param("team_id"), c.Param("user_id"), req.Status, req.Permission)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Host updated"})
}

// RemoveHost removes a host from a team
func (h *HostTeamHandler) RemoveHost(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	err := h.teamService.RemoveHost(c.Request.Context(), userID, c.Param("team_id"), c.Param("user_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Host removed"})
}
