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
	ErrInvalidFrequency = errors.New("frequency must be daily, weekly, or monthly")
	ErrDuplicateGoal    = errors.New("a goal with this title and duration already exists")
)

// durationLabels maps the labels accepted on manual goal creation to minutes.
var durationLabels = map[string]int{
	"1-day":    1440,
	"1-week":   10080,
	"1-month":  43200,
	"3-months": 129600,
	"6-months": 259200,
	"1-year":   525600,
	"ongoing":  0,
}

// defaultDurationMinutes is used when the label is missing or unknown.
const defaultDurationMinutes = 60

// AchievementService manages the goal catalog.
type AchievementService struct {
	achievementRepo repository.AchievementRepository
}

// NewAchievementService creates a new AchievementService.
func NewAchievementService(achievementRepo repository.AchievementRepository) *AchievementService {
	return &AchievementService{achievementRepo: achievementRepo}
}

// List returns a filtered page of the catalog plus the total match count.
func (s *AchievementService) List(category string, offset, limit int) ([]models.Achievement, int64, error) {
	achievements, total, err := s.achievementRepo.List(repository.AchievementFilter{
		Category: category,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, total, nil
}

// Categories returns the distinct cadences present in the catalog with counts.
func (s *AchievementService) Categories() (map[models.Frequency]int64, error) {
	counts, err := s.achievementRepo.CountByFrequency()
	if err != nil {
		return nil, fmt.Errorf("failed to count achievements: %w", err)
	}
	return counts, nil
}

// Get loads one catalog entry.
func (s *AchievementService) Get(achievementID uint64) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.FindByID(achievementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("failed to find achievement: %w", err)
	}
	return achievement, nil
}

// CreateGoalInput is the manual catalog entry form.
type CreateGoalInput struct {
	Title         string
	Description   string
	PointValue    int
	DurationLabel string
	Frequency     models.Frequency
}

// Create adds one entry to the catalog. Title plus resolved duration must be
// unique.
func (s *AchievementService) Create(input CreateGoalInput) (*models.Achievement, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	if input.PointValue <= 0 {
		return nil, errors.New("point value must be positive")
	}
	if !input.Frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	duration, ok := durationLabels[input.DurationLabel]
	if !ok {
		duration = defaultDurationMinutes
	}

	if _, err := s.achievementRepo.FindByTitleAndDuration(title, duration); err == nil {
		return nil, ErrDuplicateGoal
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate goal: %w", err)
	}

	achievement := &models.Achievement{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		PointValue:  input.PointValue,
		Duration:    duration,
		Frequency:   input.Frequency,
	}
	if err := s.achievementRepo.Create(achievement); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return achievement, nil
}

// Delete removes one entry from the catalog.
func (s *AchievementService) Delete(achievementID uint64) error {
	if _, err := s.Get(achievementID); err != nil {
		return err
	}
	if err := s.achievementRepo.Delete(achievementID); err != nil {
		return fmt.Errorf("failed to delete achievement: %w", err)
	}
	return nil
}
