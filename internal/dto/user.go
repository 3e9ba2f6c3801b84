package dto

import (
	"time"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64          `json:"id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	FullName   string          `json:"full_name"`
	Role       models.UserRole `json:"role"`
	IsActive   bool            `json:"is_active"`
	IsVerified bool            `json:"is_verified"`
	CustomerID uint64          `json:"customer_id"`
	LastLogin  *time.Time      `json:"last_login"`
	CreatedAt  time.Time       `json:"created_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users    []UserDTO `json:"users"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// CustomerDTO represents a customer organization in API responses
type CustomerDTO struct {
	ID               uint64    `json:"id"`
	CompanyName      string    `json:"company_name"`
	CompanyEmail     string    `json:"company_email"`
	ContactPerson    string    `json:"contact_person"`
	PhoneNumber      string    `json:"phone_number"`
	Address          string    `json:"address"`
	SubscriptionPlan string    `json:"subscription_plan"`
	MaxUsers         int       `json:"max_users"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       user.Role,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CustomerID: user.CustomerID,
		LastLogin:  user.LastLogin,
		CreatedAt:  user.CreatedAt,
	}
}

// ToUserListResponse converts a slice of users to UserListResponse
func ToUserListResponse(users []models.User, params utils.PaginationParams) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return UserListResponse{
		Users:    items,
		Page:     params.Page,
		PageSize: params.Limit,
	}
}

// ToCustomerDTO converts a Customer model to CustomerDTO
func ToCustomerDTO(customer models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:               customer.ID,
		CompanyName:      customer.CompanyName,
		CompanyEmail:     customer.CompanyEmail,
		ContactPerson:    customer.ContactPerson,
		PhoneNumber:      customer.PhoneNumber,
		Address:          customer.Address,
		SubscriptionPlan: customer.SubscriptionPlan,
		MaxUsers:         customer.MaxUsers,
		IsActive:         customer.IsActive,
		CreatedAt:        customer.CreatedAt,
	}
}
