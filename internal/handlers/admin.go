package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mindhaven/mindhaven-api/internal/dto"
	apierrors "github.com/mindhaven/mindhaven-api/internal/errors"
	"github.com/mindhaven/mindhaven-api/internal/middleware"
	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/services"
	"github.com/mindhaven/mindhaven-api/internal/utils"
)

// maxUploadBytes caps the accepted spreadsheet size at 5 MiB.
const maxUploadBytes = 5 << 20

// AdminHandler serves the admin and moderator operations: batch goal
// assignment, account administration, catalog management, and dashboards.
type AdminHandler struct {
	goalService        *services.GoalService
	userService        *services.UserService
	achievementService *services.AchievementService
	scheduler          *services.GoalScheduler
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(goalService *services.GoalService, userService *services.UserService, achievementService *services.AchievementService, scheduler *services.GoalScheduler) *AdminHandler {
	return &AdminHandler{
		goalService:        goalService,
		userService:        userService,
		achievementService: achievementService,
		scheduler:          scheduler,
	}
}

// AssignDaily assigns a fresh daily goal cycle to every active user.
func (h *AdminHandler) AssignDaily(c *gin.Context) {
	summary, err := h.goalService.AssignDailyGoals(nil)
	h.respondAssignment(c, summary, err)
}

// AssignWeekly assigns a fresh weekly goal cycle to every active user.
func (h *AdminHandler) AssignWeekly(c *gin.Context) {
	summary, err := h.goalService.AssignWeeklyGoals(nil)
	h.respondAssignment(c, summary, err)
}

// AssignMonthly assigns a fresh monthly goal cycle to every active user.
func (h *AdminHandler) AssignMonthly(c *gin.Context) {
	summary, err := h.goalService.AssignMonthlyGoals(nil)
	h.respondAssignment(c, summary, err)
}

// Reassign rebuilds the pending goals for one user. With no frequency query
// parameter all three cadences are reassigned.
func (h *AdminHandler) Reassign(c *gin.Context) {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return
	}

	if raw := c.Query("frequency"); raw != "" {
		frequency := models.Frequency(raw)
		if !frequency.Valid() {
			apierrors.BadRequest(c, "frequency must be daily, weekly, or monthly")
			return
		}
		var summary *services.AssignmentSummary
		switch frequency {
		case models.FrequencyDaily:
			summary, err = h.goalService.AssignDailyGoals(&userID)
		case models.FrequencyWeekly:
			summary, err = h.goalService.AssignWeeklyGoals(&userID)
		case models.FrequencyMonthly:
			summary, err = h.goalService.AssignMonthlyGoals(&userID)
		}
		h.respondAssignment(c, summary, err)
		return
	}

	result, err := h.goalService.AssignGoalsForNewUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to reassign goals")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) respondAssignment(c *gin.Context, summary *services.AssignmentSummary, err error) {
	if err != nil {
		apierrors.InternalError(c, "Failed to assign goals")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Activate re-enables a disabled account.
func (h *AdminHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables an account without deleting it.
func (h *AdminHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AdminHandler) setActive(c *gin.Context, active bool) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	userID, err := parseID(c, "user_id")
	if err != nil {
		return
	}

	user, err := h.userService.SetActive(userID, active, actor)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Unlock clears a login lockout so the user can sign in again.
func (h *AdminHandler) Unlock(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	userID, err := parseID(c, "user_id")
	if err != nil {
		return
	}

	user, err := h.userService.Unlock(userID, actor)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Promote raises a user to moderator.
func (h *AdminHandler) Promote(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	userID, err := parseID(c, "user_id")
	if err != nil {
		return
	}

	user, err := h.userService.Promote(userID, actor)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Demote lowers a moderator back to a regular user.
func (h *AdminHandler) Demote(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	userID, err := parseID(c, "user_id")
	if err != nil {
		return
	}

	user, err := h.userService.Demote(userID, actor)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Stats returns the organization dashboard summary.
func (h *AdminHandler) Stats(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.userService.Stats(actor)
	if err != nil {
		apierrors.InternalError(c, "Failed to load statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SearchUsers matches a query against the organization's users.
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.userService.Search(c.Query("q"), actor, params.Offset, params.Limit)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SchedulerJobs lists the registered cron jobs and their next run times.
func (h *AdminHandler) SchedulerJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"jobs": h.scheduler.Jobs(),
	})
}

// CreateAchievement adds one entry to the goal catalog.
func (h *AdminHandler) CreateAchievement(c *gin.Context) {
	type CreateGoalRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		PointValue  int    `json:"point_value" binding:"required,min=1"`
		Duration    string `json:"duration"`
		Frequency   string `json:"frequency" binding:"required"`
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	achievement, err := h.achievementService.Create(services.CreateGoalInput{
		Title:         req.Title,
		Description:   req.Description,
		PointValue:    req.PointValue,
		DurationLabel: req.Duration,
		Frequency:     models.Frequency(req.Frequency),
	})
	if err != nil {
		respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAchievementDTO(*achievement))
}

// DeleteAchievement removes one entry from the goal catalog.
func (h *AdminHandler) DeleteAchievement(c *gin.Context) {
	achievementID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.achievementService.Delete(achievementID); err != nil {
		respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Achievement deleted successfully",
	})
}

// UploadAchievements imports catalog entries from an Excel file.
func (h *AdminHandler) UploadAchievements(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.achievementService.Import(file)
	if err != nil {
		respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PreviewAchievements parses an Excel file and reports what an import would
// do, without writing anything.
func (h *AdminHandler) PreviewAchievements(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	rows, err := h.achievementService.PreviewImport(file)
	if err != nil {
		respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rows": rows,
	})
}

func (h *AdminHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A spreadsheet file is required")
		return nil, false
	}
	if header.Size > maxUploadBytes {
		apierrors.BadRequest(c, "File is too large")
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		apierrors.InternalError(c, "Failed to read uploaded file")
		return nil, false
	}
	return file, true
}
