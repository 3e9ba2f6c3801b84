package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mindhaven/mindhaven-api/internal/auth"
	"github.com/mindhaven/mindhaven-api/internal/dto"
	apierrors "github.com/mindhaven/mindhaven-api/internal/errors"
	"github.com/mindhaven/mindhaven-api/internal/middleware"
	"github.com/mindhaven/mindhaven-api/internal/services"
)

// CustomerHandler coordinates tenant signup and lookup handlers.
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// Register is the public signup endpoint. It creates the organization
// together with its first admin account.
func (h *CustomerHandler) Register(c *gin.Context) {
	type RegisterCustomerRequest struct {
		CompanyName      string `json:"company_name" binding:"required"`
		CompanyEmail     string `json:"company_email" binding:"required,email"`
		ContactPerson    string `json:"contact_person"`
		PhoneNumber      string `json:"phone_number"`
		Address          string `json:"address"`
		SubscriptionPlan string `json:"subscription_plan"`
		MaxUsers         int    `json:"max_users"`
		AdminUsername    string `json:"admin_username" binding:"required,min=3,max=50"`
		AdminEmail       string `json:"admin_email" binding:"required,email"`
		AdminFullName    string `json:"admin_full_name" binding:"required"`
		AdminPassword    string `json:"admin_password" binding:"required"`
	}

	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	customer, admin, err := h.customerService.Register(services.RegisterCustomerInput{
		CompanyName:      req.CompanyName,
		CompanyEmail:     req.CompanyEmail,
		ContactPerson:    req.ContactPerson,
		PhoneNumber:      req.PhoneNumber,
		Address:          req.Address,
		SubscriptionPlan: req.SubscriptionPlan,
		MaxUsers:         req.MaxUsers,
		AdminUsername:    req.AdminUsername,
		AdminEmail:       req.AdminEmail,
		AdminFullName:    req.AdminFullName,
		AdminPassword:    req.AdminPassword,
	})
	if err != nil {
		respondCustomerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"customer": dto.ToCustomerDTO(*customer),
		"admin":    dto.ToUserDTO(*admin),
	})
}

// GetCurrent returns the caller's own organization.
func (h *CustomerHandler) GetCurrent(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	customer, err := h.customerService.Get(actor.CustomerID)
	if err != nil {
		respondCustomerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerDTO(*customer))
}

func respondCustomerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation),
		errors.Is(err, auth.ErrWeakPassword):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCompanyNameTaken),
		errors.Is(err, services.ErrCompanyEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCustomerNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
