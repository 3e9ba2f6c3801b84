package repository

import (
	"time"

	"github.com/mindhaven/mindhaven-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindActive returns active users. With a non-nil userID it returns at
	// most that one user, and only if the user is active.
	FindActive(userID *uint64) ([]models.User, error)

	// ListByCustomer lists users belonging to a customer with pagination
	ListByCustomer(customerID uint64, offset, limit int) ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete soft deletes a user and their goal assignments
	Delete(id uint64) error
}

// CustomerRepository defines the interface for tenant data access
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(id uint64) (*models.Customer, error)

	// FindByCompanyName finds a customer by company name
	FindByCompanyName(name string) (*models.Customer, error)

	// FindByCompanyEmail finds a customer by company email
	FindByCompanyEmail(email string) (*models.Customer, error)

	// CreateWithAdmin creates a customer and its admin user atomically
	CreateWithAdmin(customer *models.Customer, admin *models.User) error

	// CountUsers counts the users belonging to a customer
	CountUsers(customerID uint64) (int64, error)
}

// AchievementFilter holds filtering options for listing catalog entries
type AchievementFilter struct {
	Category string
	Offset   int
	Limit    int
}

// AchievementRepository defines the interface for the achievement catalog
type AchievementRepository interface {
	// Create adds a catalog entry
	Create(achievement *models.Achievement) error

	// FindByID finds an achievement by ID
	FindByID(id uint64) (*models.Achievement, error)

	// FindByFrequency returns all achievements of one cadence
	FindByFrequency(frequency models.Frequency) ([]models.Achievement, error)

	// FindByTitleAndDuration looks up an entry by its import identity
	FindByTitleAndDuration(title string, duration int) (*models.Achievement, error)

	// List returns catalog entries matching the filter plus the total count
	List(filter AchievementFilter) ([]models.Achievement, int64, error)

	// CountByFrequency returns entry counts grouped by cadence
	CountByFrequency() (map[models.Frequency]int64, error)

	// Delete removes a catalog entry
	Delete(id uint64) error
}

// CurrentGoal is a pending assignment joined with its catalog entry.
type CurrentGoal struct {
	AchievementID uint64           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	PointValue    int              `json:"points"`
	Duration      int              `json:"duration"`
	Frequency     models.Frequency `json:"category"`
	DueDate       *time.Time       `json:"due_date"`
	AssignedAt    time.Time        `json:"assigned_at"`
}

// CompletedGoal is a completed assignment joined with its catalog entry.
type CompletedGoal struct {
	AchievementID uint64     `json:"id"`
	Title         string     `json:"title"`
	PointValue    int        `json:"points"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// GoalRepository defines the interface for goal assignment data access.
// Multi-statement operations run inside Transaction so an entire cadence batch
// commits or rolls back as one unit.
type GoalRepository interface {
	// Transaction runs fn against a transaction-bound repository
	Transaction(fn func(tx GoalRepository) error) error

	// DeletePending removes a user's pending assignments for one cadence
	DeletePending(userID uint64, frequency models.Frequency) error

	// CreateAssignments inserts assignment rows
	CreateAssignments(assignments []models.GoalAssignment) error

	// CompletePending transitions the pending (user, achievement) row to
	// completed and returns the number of rows updated
	CompletePending(userID, achievementID uint64, completedAt time.Time) (int64, error)

	// CountPending counts a user's live pending assignments for one cadence
	CountPending(userID uint64, frequency models.Frequency, now time.Time) (int64, error)

	// CountCompletedSince counts a user's completions for one cadence within
	// a trailing window
	CountCompletedSince(userID uint64, frequency models.Frequency, since time.Time) (int64, error)

	// SumCompletedPoints sums point values over all-time completions
	SumCompletedPoints(userID uint64) (int64, error)

	// ExpireOverdue transitions every overdue pending row to expired and
	// returns the number of rows updated
	ExpireOverdue(now time.Time) (int64, error)

	// FindCurrentGoals returns a user's live pending goals with catalog data
	FindCurrentGoals(userID uint64, now time.Time) ([]CurrentGoal, error)

	// FindRecentCompleted returns a user's most recent completions
	FindRecentCompleted(userID uint64, limit int) ([]CompletedGoal, error)
}
