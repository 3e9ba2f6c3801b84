package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotInCustomer        = errors.New("user not found in your organization")
	ErrCannotModifySelf     = errors.New("cannot perform this action on your own account")
	ErrCannotModifyAdmin    = errors.New("cannot change admin role")
	ErrSearchQueryTooShort  = errors.New("search query must be at least 2 characters")
	ErrUserPermissionDenied = errors.New("not authorized to access this user")
)

// searchScanLimit bounds how many tenant users one search or stats call loads.
const searchScanLimit = 1000

// UserService handles customer-scoped user management.
type UserService struct {
	userRepo        repository.UserRepository
	customerRepo    repository.CustomerRepository
	achievementRepo repository.AchievementRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, customerRepo repository.CustomerRepository, achievementRepo repository.AchievementRepository) *UserService {
	return &UserService{
		userRepo:        userRepo,
		customerRepo:    customerRepo,
		achievementRepo: achievementRepo,
	}
}

// List returns users in the actor's customer.
func (s *UserService) List(actor *models.User, offset, limit int) ([]models.User, error) {
	users, err := s.userRepo.ListByCustomer(actor.CustomerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get returns one user. Regular users may only view themselves; admins and
// moderators may view anyone inside their own customer.
func (s *UserService) Get(userID uint64, actor *models.User) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleModerator && actor.ID != userID {
		return nil, ErrUserPermissionDenied
	}

	user, err := s.findInCustomer(userID, actor.CustomerID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateInput represents the mutable profile fields.
type UpdateInput struct {
	Email    *string
	FullName *string
	Role     *models.UserRole
}

// Update edits a user's profile. Regular users may only edit themselves and
// may not change roles.
func (s *UserService) Update(userID uint64, input UpdateInput, actor *models.User) (*models.User, error) {
	isStaff := actor.Role == models.RoleAdmin || actor.Role == models.RoleModerator
	if !isStaff {
		if actor.ID != userID {
			return nil, ErrUserPermissionDenied
		}
		if input.Role != nil {
			return nil, ErrUserPermissionDenied
		}
	}

	user, err := s.findInCustomer(userID, actor.CustomerID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(userID uint64, actor *models.User) error {
	if userID == actor.ID {
		return ErrCannotModifySelf
	}

	if _, err := s.findInCustomer(userID, actor.CustomerID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// SetActive activates or deactivates an account. Deactivating your own
// account is rejected.
func (s *UserService) SetActive(userID uint64, active bool, actor *models.User) (*models.User, error) {
	if !active && userID == actor.ID {
		return nil, ErrCannotModifySelf
	}

	user, err := s.findInCustomer(userID, actor.CustomerID)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Promote raises a regular user to moderator. Admin accounts are off-limits.
func (s *UserService) Promote(userID uint64, actor *models.User) (*models.User, error) {
	user, err := s.findInCustomer(userID, actor.CustomerID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, ErrCannotModifyAdmin
	}

	user.Role = models.RoleModerator
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Demote lowers a moderator back to a regular user. Admin accounts and the
// actor's own account are off-limits.
func (s *UserService) Demote(userID uint64, actor *models.User) (*models.User, error) {
	if userID == actor.ID {
		return nil, ErrCannotModifySelf
	}

	user, err := s.findInCustomer(userID, actor.CustomerID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, ErrCannotModifyAdmin
	}

	user.Role = models.RoleUser
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Unlock clears a lockout caused by failed login attempts.
func (s *UserService) Unlock(userID uint64, actor *models.User) (*models.User, error) {
	user, err := s.findInCustomer(userID, actor.CustomerID)
	if err != nil {
		return nil, err
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SearchResult holds one page of user search matches.
type SearchResult struct {
	Results    []models.User `json:"results"`
	TotalFound int           `json:"total_found"`
	Query      string        `json:"query"`
}

// Search matches a query against usernames, emails, and full names within the
// actor's customer.
func (s *UserService) Search(query string, actor *models.User, offset, limit int) (*SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < 2 {
		return nil, ErrSearchQueryTooShort
	}

	users, err := s.userRepo.ListByCustomer(actor.CustomerID, 0, searchScanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	q := strings.ToLower(trimmed)
	var matches []models.User
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.Username), q) ||
			strings.Contains(strings.ToLower(user.Email), q) ||
			strings.Contains(strings.ToLower(user.FullName), q) {
			matches = append(matches, user)
		}
	}

	start := offset
	if start > len(matches) {
		start = len(matches)
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}

	return &SearchResult{
		Results:    matches[start:end],
		TotalFound: len(matches),
		Query:      trimmed,
	}, nil
}

// AdminStats is the admin dashboard summary for one customer.
type AdminStats struct {
	CustomerID          uint64         `json:"customer_id"`
	CompanyName         string         `json:"company_name"`
	TotalUsers          int            `json:"total_users"`
	ActiveUsers         int            `json:"active_users"`
	InactiveUsers       int            `json:"inactive_users"`
	UserRoles           map[string]int `json:"user_roles"`
	TotalAchievements   int64          `json:"total_achievements"`
	DailyAchievements   int64          `json:"daily_achievements"`
	WeeklyAchievements  int64          `json:"weekly_achievements"`
	MonthlyAchievements int64          `json:"monthly_achievements"`
}

// Stats builds the admin dashboard statistics for the actor's customer.
func (s *UserService) Stats(actor *models.User) (*AdminStats, error) {
	customer, err := s.customerRepo.FindByID(actor.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	users, err := s.userRepo.ListByCustomer(actor.CustomerID, 0, searchScanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	stats := &AdminStats{
		CustomerID:  actor.CustomerID,
		CompanyName: customer.CompanyName,
		TotalUsers:  len(users),
		UserRoles:   map[string]int{"admins": 0, "moderators": 0, "regular_users": 0},
	}
	for _, user := range users {
		if user.IsActive {
			stats.ActiveUsers++
		}
		switch user.Role {
		case models.RoleAdmin:
			stats.UserRoles["admins"]++
		case models.RoleModerator:
			stats.UserRoles["moderators"]++
		default:
			stats.UserRoles["regular_users"]++
		}
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers

	counts, err := s.achievementRepo.CountByFrequency()
	if err != nil {
		return nil, fmt.Errorf("failed to count achievements: %w", err)
	}
	stats.DailyAchievements = counts[models.FrequencyDaily]
	stats.WeeklyAchievements = counts[models.FrequencyWeekly]
	stats.MonthlyAchievements = counts[models.FrequencyMonthly]
	stats.TotalAchievements = stats.DailyAchievements + stats.WeeklyAchievements + stats.MonthlyAchievements

	return stats, nil
}

// findInCustomer loads a user and verifies tenant membership.
func (s *UserService) findInCustomer(userID, customerID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.CustomerID != customerID {
		return nil, ErrNotInCustomer
	}
	return user, nil
}
