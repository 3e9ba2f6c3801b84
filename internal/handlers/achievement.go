package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mindhaven/mindhaven-api/internal/dto"
	apierrors "github.com/mindhaven/mindhaven-api/internal/errors"
	"github.com/mindhaven/mindhaven-api/internal/middleware"
	"github.com/mindhaven/mindhaven-api/internal/services"
	"github.com/mindhaven/mindhaven-api/internal/utils"
)

// AchievementHandler serves the goal catalog and the per-user goal engine
// endpoints.
type AchievementHandler struct {
	achievementService *services.AchievementService
	goalService        *services.GoalService
}

// NewAchievementHandler creates a new AchievementHandler.
func NewAchievementHandler(achievementService *services.AchievementService, goalService *services.GoalService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
		goalService:        goalService,
	}
}

// CurrentGoals returns the caller's pending goals grouped by cadence.
func (h *AchievementHandler) CurrentGoals(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, h.goalService.GetCurrentGoals(userID))
}

// ListAll returns a page of the goal catalog, optionally filtered by
// category.
func (h *AchievementHandler) ListAll(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	achievements, total, err := h.achievementService.List(c.Query("category"), params.Offset, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list achievements")
		return
	}

	c.JSON(http.StatusOK, dto.ToAchievementListResponse(achievements, params, total))
}

// Categories returns the cadences present in the catalog with their counts.
func (h *AchievementHandler) Categories(c *gin.Context) {
	counts, err := h.achievementService.Categories()
	if err != nil {
		apierrors.InternalError(c, "Failed to load categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": counts,
	})
}

// RecentCompleted returns the caller's most recently completed goals.
func (h *AchievementHandler) RecentCompleted(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	c.JSON(http.StatusOK, gin.H{
		"achievements": h.goalService.GetRecentCompleted(userID, limit),
	})
}

// Get returns one catalog entry.
func (h *AchievementHandler) Get(c *gin.Context) {
	achievementID, err := parseID(c, "id")
	if err != nil {
		return
	}

	achievement, err := h.achievementService.Get(achievementID)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAchievementDTO(*achievement))
}

// Complete marks one of the caller's pending goals as done and awards its
// points.
func (h *AchievementHandler) Complete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	achievementID, err := parseID(c, "id")
	if err != nil {
		return
	}

	result, err := h.goalService.CompleteAchievement(userID, achievementID)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Progress returns the caller's completion counts per cadence and their
// all-time points.
func (h *AchievementHandler) Progress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, h.goalService.GetProgress(userID))
}

func respondGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAchievementNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrGoalNotPending),
		errors.Is(err, services.ErrDuplicateGoal):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidFrequency),
		errors.Is(err, services.ErrNoDataRows):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
