package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mindhaven/mindhaven-api/internal/dto"
	apierrors "github.com/mindhaven/mindhaven-api/internal/errors"
	"github.com/mindhaven/mindhaven-api/internal/middleware"
	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/services"
	"github.com/mindhaven/mindhaven-api/internal/utils"
)

// UserHandler coordinates user management HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List returns the users in the caller's organization.
func (h *UserHandler) List(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	users, err := h.userService.List(actor, params.Offset, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params))
}

// Get returns one user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	user, err := h.userService.Get(userID, actor)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Update edits a user's profile.
func (h *UserHandler) Update(c *gin.Context) {
	type UpdateRequest struct {
		Email    *string `json:"email" binding:"omitempty,email"`
		FullName *string `json:"full_name"`
		Role     *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
	}

	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateInput{
		Email:    req.Email,
		FullName: req.FullName,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.Update(userID, input, actor)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Delete removes a user from the organization.
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.userService.Delete(userID, actor); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// parseID reads a uint64 path parameter, writing the error response itself.
func parseID(c *gin.Context, param string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, err
	}
	return id, nil
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotInCustomer):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUserPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCannotModifySelf),
		errors.Is(err, services.ErrCannotModifyAdmin):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSearchQueryTooShort):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
