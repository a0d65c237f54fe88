package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/evalarena/arena-backend/internal/api/middleware"
	"github.com/evalarena/arena-backend/internal/models"
	"github.com/evalarena/arena-backend/internal/repository"
	"github.com/evalarena/arena-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Default submission ceilings, matching the storage defaults
const defaultMaxSubmissions = 100000

// PhaseHandler handles challenge phase HTTP requests
type PhaseHandler struct {
	phaseService service.PhaseService
}

// List lists a challenge's phases; non-hosts only see public ones
func (h *PhaseHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	phases, err := h.phaseService.List(c.Request.Context(), userID, c.Param("challenge_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.PhaseResponse, 0, len(phases))
	for _, p := range phases {
		out = append(out, toPhaseResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

// Create adds a phase to a challenge
func (h *PhaseHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phase := &repository.ChallengePhase{
		Name:                 req.Name,
		Description:          req.Description,
		Codename:             "Phase Code Name",
		LeaderboardPublic:    req.LeaderboardPublic,
		IsPublic:             req.IsPublic,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		TestAnnotation:       req.TestAnnotation,
		MaxSubmissionsPerDay: defaultMaxSubmissions,
		MaxSubmissions:       defaultMaxSubmissions,
	}
	if req.Codename != nil {
		phase.Codename = *req.Codename
	}
	if req.MaxSubmissionsPerDay != nil {
		phase.MaxSubmissionsPerDay = *req.MaxSubmissionsPerDay
	}
	if req.MaxSubmissions != nil {
		phase.MaxSubmissions = *req.MaxSubmissions
	}

	created, err := h.phaseService.Create(c.Request.Context(), userID, c.Param("challenge_id"), phase)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPhaseResponse(created))
}

// Get returns a single phase
func (h *PhaseHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	phase, err := h.phaseService.Get(c.Request.Context(), userID, c.Param("challenge_id"), c.Param("phase_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPhaseResponse(phase))
}

// Update applies a partial update to a phase; PUT and PATCH share this
// handler since absent fields keep their stored values either way
func (h *PhaseHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phase, err := h.phaseService.Get(c.Request.Context(), userID, c.Param("challenge_id"), c.Param("phase_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Name != nil {
		phase.Name = *req.Name
	}
	if req.Description != nil {
		phase.Description = *req.Description
	}
	if req.Codename != nil {
		phase.Codename = *req.Codename
	}
	if req.LeaderboardPublic != nil {
		phase.LeaderboardPublic = *req.LeaderboardPublic
	}
	if req.IsPublic != nil {
		phase.IsPublic = *req.IsPublic
	}
	if req.StartDate != nil {
		phase.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		phase.EndDate = *req.EndDate
	}
	if req.TestAnnotation != nil {
		phase.TestAnnotation = req.TestAnnotation
	}
	if req.MaxSubmissionsPerDay != nil {
		phase.MaxSubmissionsPerDay = *req.MaxSubmissionsPerDay
	}
	if req.MaxSubmissions != nil {
		phase.MaxSubmissions = *req.MaxSubmissions
	}

	updated, err := h.phaseService.Update(c.Request.Context(), userID, c.Param("challenge_id"), phase)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPhaseResponse(updated))
}

// Delete removes a phase
func (h *PhaseHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	err := h.phaseService.Delete(c.Request.Context(), userID, c.Param("challenge_id"), c.Param("phase_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge phase deleted"})
}

// ============================================
// Dataset Splits and Leaderboards
// ============================================

// CreateSplit registers a dataset split
func (h *PhaseHandler) CreateSplit(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	var req models.CreateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	split, err := h.phaseService.CreateSplit(c.Request.Context(), req.Name, req.Codename)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSplitResponse(split))
}

// ListSplits lists all dataset splits
func (h *PhaseHandler) ListSplits(c *gin.Context) {
	splits, err := h.phaseService.ListSplits(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.SplitResponse, 0, len(splits))
	for _, s := range splits {
		out = append(out, toSplitResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// CreateLeaderboard registers a leaderboard schema
func (h *PhaseHandler) CreateLeaderboard(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	var req models.CreateLeaderboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schema, err := json.Marshal(req.Schema)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leaderboard schema"})
		return
	}

	lb, err := h.phaseService.CreateLeaderboard(c.Request.Context(), schema)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLeaderboardResponse(lb))
}

// ============================================
// Phase Splits
// ============================================

// CreatePhaseSplit binds a dataset split and leaderboard to a phase
func (h *PhaseHandler) CreatePhaseSplit(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreatePhaseSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ps := &repository.ChallengePhaseSplit{
		SplitID:       req.SplitID,
		LeaderboardID: req.LeaderboardID,
		Visibility:    req.Visibility,
	}

	created, err := h.phaseService.CreatePhaseSplit(c.Request.Context(), userID, c.Param("challenge_id"), c.Param("phase_id"), ps)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPhaseSplitResponse(created))
}

// ListPhaseSplits lists a phase's splits, visibility filtered
func (h *PhaseHandler) ListPhaseSplits(c *gin.Context) {
	userID := middleware.GetUserID(c)

	splits, err := h.phaseService.ListPhaseSplits(c.Request.Context(), userID, c.Param("challenge_id"), c.Param("phase_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.PhaseSplitResponse, 0, len(splits))
	for _, ps := range splits {
		out = append(out, toPhaseSplitResponse(ps))
	}
	c.JSON(http.StatusOK, out)
}
