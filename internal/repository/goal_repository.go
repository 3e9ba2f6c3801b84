package repository

import (
	"time"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"gorm.io/gorm"
)

// GormGoalRepository is a GORM implementation of GoalRepository
type GormGoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &GormGoalRepository{db: db}
}

// Transaction runs fn against a transaction-bound repository. A non-nil error
// from fn rolls back everything fn did.
func (r *GormGoalRepository) Transaction(fn func(tx GoalRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormGoalRepository{db: tx})
	})
}

// DeletePending removes a user's pending assignments for one cadence
func (r *GormGoalRepository) DeletePending(userID uint64, frequency models.Frequency) error {
	subQuery := r.db.Model(&models.Achievement{}).
		Select("id").
		Where("frequency = ?", frequency)

	return r.db.
		Where("user_id = ? AND status = ? AND achievement_id IN (?)",
			userID, models.GoalStatusPending, subQuery).
		Delete(&models.GoalAssignment{}).Error
}

// CreateAssignments inserts assignment rows
func (r *GormGoalRepository) CreateAssignments(assignments []models.GoalAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.Create(&assignments).Error
}

// CompletePending transitions the pending (user, achievement) row to completed
func (r *GormGoalRepository) CompletePending(userID, achievementID uint64, completedAt time.Time) (int64, error) {
	result := r.db.Model(&models.GoalAssignment{}).
		Where("user_id = ? AND achievement_id = ? AND status = ?",
			userID, achievementID, models.GoalStatusPending).
		Updates(map[string]interface{}{
			"status":       models.GoalStatusCompleted,
			"completed_at": completedAt,
		})
	return result.RowsAffected, result.Error
}

// CountPending counts a user's live pending assignments for one cadence
func (r *GormGoalRepository) CountPending(userID uint64, frequency models.Frequency, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.GoalAssignment{}).
		Joins("JOIN achievements ON achievements.id = goal_assignments.achievement_id").
		Where("goal_assignments.user_id = ? AND goal_assignments.status = ?", userID, models.GoalStatusPending).
		Where("achievements.frequency = ?", frequency).
		Where("goal_assignments.due_date > ?", now).
		Count(&count).Error
	return count, err
}

// CountCompletedSince counts a user's completions for one cadence since a point in time
func (r *GormGoalRepository) CountCompletedSince(userID uint64, frequency models.Frequency, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.GoalAssignment{}).
		Joins("JOIN achievements ON achievements.id = goal_assignments.achievement_id").
		Where("goal_assignments.user_id = ? AND goal_assignments.status = ?", userID, models.GoalStatusCompleted).
		Where("achievements.frequency = ?", frequency).
		Where("goal_assignments.completed_at >= ?", since).
		Count(&count).Error
	return count, err
}

// SumCompletedPoints sums point values over all-time completions
func (r *GormGoalRepository) SumCompletedPoints(userID uint64) (int64, error) {
	var total int64
	err := r.db.Model(&models.GoalAssignment{}).
		Joins("JOIN achievements ON achievements.id = goal_assignments.achievement_id").
		Where("goal_assignments.user_id = ? AND goal_assignments.status = ?", userID, models.GoalStatusCompleted).
		Select("COALESCE(SUM(achievements.point_value), 0)").
		Scan(&total).Error
	return total, err
}

// ExpireOverdue transitions every overdue pending row to expired
func (r *GormGoalRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.GoalAssignment{}).
		Where("status = ? AND due_date < ?", models.GoalStatusPending, now).
		Update("status", models.GoalStatusExpired)
	return result.RowsAffected, result.Error
}

// FindCurrentGoals returns a user's live pending goals with catalog data
func (r *GormGoalRepository) FindCurrentGoals(userID uint64, now time.Time) ([]CurrentGoal, error) {
	var goals []CurrentGoal
	err := r.db.Model(&models.GoalAssignment{}).
		Select(`achievements.id AS achievement_id, achievements.title, achievements.description,
			achievements.point_value, achievements.duration, achievements.frequency,
			goal_assignments.due_date, goal_assignments.assigned_at`).
		Joins("JOIN achievements ON achievements.id = goal_assignments.achievement_id").
		Where("goal_assignments.user_id = ? AND goal_assignments.status = ?", userID, models.GoalStatusPending).
		Where("goal_assignments.due_date > ?", now).
		Order("achievements.frequency, goal_assignments.assigned_at").
		Scan(&goals).Error
	return goals, err
}

// FindRecentCompleted returns a user's most recent completions
func (r *GormGoalRepository) FindRecentCompleted(userID uint64, limit int) ([]CompletedGoal, error) {
	var completed []CompletedGoal
	err := r.db.Model(&models.GoalAssignment{}).
		Select(`achievements.id AS achievement_id, achievements.title,
			achievements.point_value, goal_assignments.completed_at`).
		Joins("JOIN achievements ON achievements.id = goal_assignments.achievement_id").
		Where("goal_assignments.user_id = ? AND goal_assignments.status = ?", userID, models.GoalStatusCompleted).
		Order("goal_assignments.completed_at DESC").
		Limit(limit).
		Scan(&completed).Error
	return completed, err
}
