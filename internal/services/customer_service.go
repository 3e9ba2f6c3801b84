package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/mindhaven/mindhaven-api/internal/auth"
	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCompanyNameTaken  = errors.New("company name is already registered")
	ErrCompanyEmailTaken = errors.New("company email is already registered")
	ErrCustomerNotFound  = errors.New("customer not found")
)

// CustomerService handles tenant signup and lookup.
type CustomerService struct {
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	goalService  *GoalService
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo repository.CustomerRepository, userRepo repository.UserRepository, goalService *GoalService) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		userRepo:     userRepo,
		goalService:  goalService,
	}
}

// RegisterCustomerInput carries the public tenant signup form.
type RegisterCustomerInput struct {
	CompanyName      string
	CompanyEmail     string
	ContactPerson    string
	PhoneNumber      string
	Address          string
	SubscriptionPlan string
	MaxUsers         int
	AdminUsername    string
	AdminEmail       string
	AdminFullName    string
	AdminPassword    string
}

// Register creates a customer together with its first admin account and
// assigns the admin an initial set of goals.
func (s *CustomerService) Register(input RegisterCustomerInput) (*models.Customer, *models.User, error) {
	if input.CompanyName == "" || input.CompanyEmail == "" {
		return nil, nil, errors.New("company name and email are required")
	}
	if err := auth.ValidateEmail(input.CompanyEmail); err != nil {
		return nil, nil, err
	}
	if err := auth.ValidateUsername(input.AdminUsername); err != nil {
		return nil, nil, err
	}
	if err := auth.ValidateEmail(input.AdminEmail); err != nil {
		return nil, nil, err
	}
	if err := auth.ValidateFullName(input.AdminFullName); err != nil {
		return nil, nil, err
	}
	if err := auth.ValidatePassword(input.AdminPassword); err != nil {
		return nil, nil, err
	}

	if _, err := s.customerRepo.FindByCompanyName(input.CompanyName); err == nil {
		return nil, nil, ErrCompanyNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check company name: %w", err)
	}
	if _, err := s.customerRepo.FindByCompanyEmail(input.CompanyEmail); err == nil {
		return nil, nil, ErrCompanyEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check company email: %w", err)
	}
	if _, err := s.userRepo.FindByUsername(input.AdminUsername); err == nil {
		return nil, nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(input.AdminEmail); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.AdminPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	plan := input.SubscriptionPlan
	if plan == "" {
		plan = "basic"
	}
	maxUsers := input.MaxUsers
	if maxUsers <= 0 {
		maxUsers = 50
	}

	customer := &models.Customer{
		CompanyName:      input.CompanyName,
		CompanyEmail:     input.CompanyEmail,
		ContactPerson:    input.ContactPerson,
		PhoneNumber:      input.PhoneNumber,
		Address:          input.Address,
		SubscriptionPlan: plan,
		MaxUsers:         maxUsers,
		IsActive:         true,
		AdminUsername:    input.AdminUsername,
		AdminEmail:       input.AdminEmail,
	}
	admin := &models.User{
		Username:     input.AdminUsername,
		Email:        input.AdminEmail,
		FullName:     input.AdminFullName,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
	}

	if err := s.customerRepo.CreateWithAdmin(customer, admin); err != nil {
		return nil, nil, err
	}

	if s.goalService != nil {
		if _, err := s.goalService.AssignGoalsForNewUser(admin.ID); err != nil {
			log.Printf("initial goal assignment failed for admin %d: %v", admin.ID, err)
		}
	}

	return customer, admin, nil
}

// Get loads one customer by ID.
func (s *CustomerService) Get(customerID uint64) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}
