package repository

import (
	"github.com/mindhaven/mindhaven-api/internal/models"
	"gorm.io/gorm"
)

// GormAchievementRepository is a GORM implementation of AchievementRepository
type GormAchievementRepository struct {
	db *gorm.DB
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &GormAchievementRepository{db: db}
}

// Create adds a catalog entry
func (r *GormAchievementRepository) Create(achievement *models.Achievement) error {
	return r.db.Create(achievement).Error
}

// FindByID finds an achievement by ID
func (r *GormAchievementRepository) FindByID(id uint64) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := r.db.First(&achievement, id).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

// FindByFrequency returns all achievements of one cadence
func (r *GormAchievementRepository) FindByFrequency(frequency models.Frequency) ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := r.db.Where("frequency = ?", frequency).Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

// FindByTitleAndDuration looks up an entry by its import identity
func (r *GormAchievementRepository) FindByTitleAndDuration(title string, duration int) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := r.db.Where("title = ? AND duration = ?", title, duration).
		First(&achievement).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

// List returns catalog entries matching the filter plus the total count
func (r *GormAchievementRepository) List(filter AchievementFilter) ([]models.Achievement, int64, error) {
	var achievements []models.Achievement

	query := r.db.Model(&models.Achievement{})
	if filter.Category != "" {
		query = query.Where("frequency LIKE ?", "%"+filter.Category+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("achievements.created_at").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&achievements).Error; err != nil {
		return nil, 0, err
	}

	return achievements, total, nil
}

// CountByFrequency returns entry counts grouped by cadence
func (r *GormAchievementRepository) CountByFrequency() (map[models.Frequency]int64, error) {
	var rows []struct {
		Frequency models.Frequency
		Count     int64
	}
	err := r.db.Model(&models.Achievement{}).
		Select("frequency, COUNT(id) AS count").
		Group("frequency").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Frequency]int64, len(rows))
	for _, row := range rows {
		counts[row.Frequency] = row.Count
	}
	return counts, nil
}

// Delete removes a catalog entry
func (r *GormAchievementRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Achievement{}, id).Error
}
