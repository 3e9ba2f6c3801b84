package models

import "time"

type GoalStatus string

const (
	GoalStatusPending   GoalStatus = "pending"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusExpired   GoalStatus = "expired"
)

// GoalAssignment pairs a user with an achievement for one assignment cycle.
// Rows carry a surrogate key rather than a (user, achievement) composite key:
// a user completes the same achievement across many cycles, and those
// completed rows must coexist for all-time point totals. At most one pending
// row per (user, achievement) is guaranteed by the engine's transactional
// delete-then-insert cycle.
//
// Status only moves forward: pending -> completed or pending -> expired.
type GoalAssignment struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	UserID        uint64     `gorm:"not null;index:idx_goal_assignments_user_achievement_status" json:"user_id"`
	AchievementID uint64     `gorm:"not null;index:idx_goal_assignments_user_achievement_status" json:"achievement_id"`
	Status        GoalStatus `gorm:"type:varchar(50);not null;default:'pending';index:idx_goal_assignments_user_achievement_status" json:"status"`
	DueDate       *time.Time `json:"due_date"`
	AssignedAt    time.Time  `json:"assigned_at"`
	CompletedAt   *time.Time `json:"completed_at"`

	// Relations
	User        User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}
