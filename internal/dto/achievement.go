package dto

import (
	"time"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/utils"
)

// AchievementDTO represents a catalog entry in API responses. The cadence is
// exposed as "category" on the wire.
type AchievementDTO struct {
	ID          uint64           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	PointValue  int              `json:"point_value"`
	Duration    int              `json:"duration"`
	Category    models.Frequency `json:"category"`
	CreatedAt   time.Time        `json:"created_at"`
}

// AchievementListResponse represents a paginated slice of the catalog
type AchievementListResponse struct {
	Achievements []AchievementDTO `json:"achievements"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	TotalCount   int64            `json:"total_count"`
	TotalPages   int              `json:"total_pages"`
}

// ToAchievementDTO converts an Achievement model to AchievementDTO
func ToAchievementDTO(achievement models.Achievement) AchievementDTO {
	return AchievementDTO{
		ID:          achievement.ID,
		Title:       achievement.Title,
		Description: achievement.Description,
		PointValue:  achievement.PointValue,
		Duration:    achievement.Duration,
		Category:    achievement.Frequency,
		CreatedAt:   achievement.CreatedAt,
	}
}

// ToAchievementListResponse converts a slice of achievements to AchievementListResponse
func ToAchievementListResponse(achievements []models.Achievement, params utils.PaginationParams, totalCount int64) AchievementListResponse {
	items := make([]AchievementDTO, len(achievements))
	for i, achievement := range achievements {
		items[i] = ToAchievementDTO(achievement)
	}
	return AchievementListResponse{
		Achievements: items,
		Page:         params.Page,
		PageSize:     params.Limit,
		TotalCount:   totalCount,
		TotalPages:   params.TotalPages(totalCount),
	}
}
