package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Goal assignment indexes for the engine's hot paths
		{"goal_assignments", "idx_goal_assignments_user_id", "user_id"},
		{"goal_assignments", "idx_goal_assignments_achievement_id", "achievement_id"},
		{"goal_assignments", "idx_goal_assignments_status", "status"},
		{"goal_assignments", "idx_goal_assignments_due_date", "due_date"},

		// Achievement catalog lookups by cadence
		{"achievements", "idx_achievements_frequency", "frequency"},

		// Tenant-scoped user listings
		{"users", "idx_users_customer_id", "customer_id"},
		{"users", "idx_users_is_active", "is_active"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
