package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
)

var (
	ErrGoalNotPending      = errors.New("achievement not found or already completed")
	ErrAchievementNotFound = errors.New("achievement not found")
)

// GoalService is the goal assignment and progress-tracking engine. It hands
// out random achievement goals per cadence, tracks completion state, computes
// progress, and expires overdue goals.
type GoalService struct {
	goalRepo        repository.GoalRepository
	userRepo        repository.UserRepository
	achievementRepo repository.AchievementRepository
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo repository.GoalRepository, userRepo repository.UserRepository, achievementRepo repository.AchievementRepository) *GoalService {
	return &GoalService{
		goalRepo:        goalRepo,
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
	}
}

// AssignmentSummary reports the outcome of one assignment batch.
type AssignmentSummary struct {
	UsersAssigned int      `json:"assigned_to_users"`
	GoalsAssigned int      `json:"total_goals_assigned"`
	Errors        []string `json:"errors"`
}

// OnboardingResult reports the outcome of a per-user all-cadence assignment.
type OnboardingResult struct {
	Daily   *AssignmentSummary `json:"daily"`
	Weekly  *AssignmentSummary `json:"weekly"`
	Monthly *AssignmentSummary `json:"monthly"`
}

// CompletionResult is returned when a user completes a goal.
type CompletionResult struct {
	Message       string    `json:"message"`
	PointsEarned  int       `json:"points_earned"`
	AchievementID uint64    `json:"achievement_id"`
	UserID        uint64    `json:"user_id"`
	CompletedAt   time.Time `json:"completed_at"`
}

// CadenceProgress is one cadence's slice of a user's progress.
type CadenceProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Assigned  int `json:"assigned"`
}

// Progress is a user's per-cadence progress plus their all-time point total.
type Progress struct {
	Daily       CadenceProgress `json:"daily"`
	Weekly      CadenceProgress `json:"weekly"`
	Monthly     CadenceProgress `json:"monthly"`
	TotalPoints int             `json:"total_points"`
}

// CurrentGoals groups a user's live pending goals by cadence.
type CurrentGoals struct {
	Daily   []repository.CurrentGoal `json:"daily"`
	Weekly  []repository.CurrentGoal `json:"weekly"`
	Monthly []repository.CurrentGoal `json:"monthly"`
}

// AssignDailyGoals assigns the daily quota of random goals. A nil userID
// targets every active user.
func (s *GoalService) AssignDailyGoals(userID *uint64) (*AssignmentSummary, error) {
	return s.assignWithCommit(models.FrequencyDaily, userID)
}

// AssignWeeklyGoals assigns the weekly quota of random goals.
func (s *GoalService) AssignWeeklyGoals(userID *uint64) (*AssignmentSummary, error) {
	return s.assignWithCommit(models.FrequencyWeekly, userID)
}

// AssignMonthlyGoals assigns the monthly quota of random goals.
func (s *GoalService) AssignMonthlyGoals(userID *uint64) (*AssignmentSummary, error) {
	return s.assignWithCommit(models.FrequencyMonthly, userID)
}

// AssignGoalsForNewUser assigns all three cadences to one user in a single
// transaction. Used at registration time and by the admin reassign trigger.
func (s *GoalService) AssignGoalsForNewUser(userID uint64) (*OnboardingResult, error) {
	result := &OnboardingResult{}

	err := s.goalRepo.Transaction(func(tx repository.GoalRepository) error {
		for _, frequency := range models.Frequencies {
			summary, err := s.assignByFrequency(tx, frequency, &userID)
			if err != nil {
				return err
			}
			switch frequency {
			case models.FrequencyDaily:
				result.Daily = summary
			case models.FrequencyWeekly:
				result.Weekly = summary
			case models.FrequencyMonthly:
				result.Monthly = summary
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error assigning goals for new user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to assign goals for new user: %w", err)
	}

	return result, nil
}

// assignWithCommit runs one cadence batch as a single commit/rollback unit.
func (s *GoalService) assignWithCommit(frequency models.Frequency, userID *uint64) (*AssignmentSummary, error) {
	var summary *AssignmentSummary

	err := s.goalRepo.Transaction(func(tx repository.GoalRepository) error {
		var err error
		summary, err = s.assignByFrequency(tx, frequency, userID)
		return err
	})
	if err != nil {
		log.Printf("Error in assign_%s_goals: %v", frequency, err)
		return nil, fmt.Errorf("failed to assign %s goals: %w", frequency, err)
	}

	return summary, nil
}

// assignByFrequency runs the assignment cycle for one cadence against tx.
// Per-user failures are recorded in the summary and never abort the batch;
// only resolution failures (user set, catalog) propagate.
func (s *GoalService) assignByFrequency(tx repository.GoalRepository, frequency models.Frequency, userID *uint64) (*AssignmentSummary, error) {
	users, err := s.userRepo.FindActive(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active users: %w", err)
	}
	if len(users) == 0 {
		return &AssignmentSummary{Errors: []string{"no active users found to assign goals to"}}, nil
	}

	catalog, err := s.achievementRepo.FindByFrequency(frequency)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s achievements: %w", frequency, err)
	}
	if len(catalog) == 0 {
		msg := fmt.Sprintf("no '%s' achievements exist in the database, cannot assign any", frequency)
		log.Printf("Warning: %s", msg)
		return &AssignmentSummary{Errors: []string{msg}}, nil
	}

	summary := &AssignmentSummary{}

	for i := range users {
		assigned, err := s.assignCycle(tx, users[i].ID, frequency, catalog)
		if err != nil {
			msg := fmt.Sprintf("error assigning %s goals to user %d: %v", frequency, users[i].ID, err)
			summary.Errors = append(summary.Errors, msg)
			log.Print(msg)
			continue
		}
		summary.UsersAssigned++
		summary.GoalsAssigned += assigned
	}

	return summary, nil
}

// assignCycle resets and re-assigns one user's goals for one cadence: delete
// pending rows, sample min(catalog, quota) achievements without replacement,
// insert fresh pending rows due one cadence window from now.
func (s *GoalService) assignCycle(tx repository.GoalRepository, userID uint64, frequency models.Frequency, catalog []models.Achievement) (int, error) {
	if err := tx.DeletePending(userID, frequency); err != nil {
		return 0, err
	}

	numToSelect := frequency.Quota()
	if len(catalog) < numToSelect {
		numToSelect = len(catalog)
	}
	if numToSelect == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	dueDate := now.Add(frequency.Window())

	assignments := make([]models.GoalAssignment, 0, numToSelect)
	for _, idx := range rand.Perm(len(catalog))[:numToSelect] {
		assignments = append(assignments, models.GoalAssignment{
			UserID:        userID,
			AchievementID: catalog[idx].ID,
			Status:        models.GoalStatusPending,
			DueDate:       &dueDate,
			AssignedAt:    now,
		})
	}

	if err := tx.CreateAssignments(assignments); err != nil {
		return 0, err
	}

	return numToSelect, nil
}

// CompleteAchievement transitions a user's pending goal to completed and
// reports the points earned. Fails with ErrGoalNotPending when there is no
// pending row for the pair.
func (s *GoalService) CompleteAchievement(userID, achievementID uint64) (*CompletionResult, error) {
	var result *CompletionResult

	err := s.goalRepo.Transaction(func(tx repository.GoalRepository) error {
		completedAt := time.Now().UTC()

		affected, err := tx.CompletePending(userID, achievementID, completedAt)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrGoalNotPending
		}

		achievement, err := s.achievementRepo.FindByID(achievementID)
		if err != nil {
			return ErrAchievementNotFound
		}

		result = &CompletionResult{
			Message:       fmt.Sprintf("Achievement '%s' completed!", achievement.Title),
			PointsEarned:  achievement.PointValue,
			AchievementID: achievementID,
			UserID:        userID,
			CompletedAt:   completedAt,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrGoalNotPending) || errors.Is(err, ErrAchievementNotFound) {
			return nil, err
		}
		log.Printf("Error completing achievement %d for user %d: %v", achievementID, userID, err)
		return nil, fmt.Errorf("failed to complete achievement: %w", err)
	}

	return result, nil
}

// GetProgress computes per-cadence completed/assigned counts and the all-time
// point total. Progress display must never hard-fail, so any query error
// yields the zero-filled default.
func (s *GoalService) GetProgress(userID uint64) *Progress {
	now := time.Now().UTC()

	windowStarts := map[models.Frequency]time.Time{
		models.FrequencyDaily:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		models.FrequencyWeekly:  now.Add(-7 * 24 * time.Hour),
		models.FrequencyMonthly: now.Add(-30 * 24 * time.Hour),
	}

	progress := zeroProgress()

	for _, frequency := range models.Frequencies {
		assigned, err := s.goalRepo.CountPending(userID, frequency, now)
		if err != nil {
			log.Printf("Error getting user progress: %v", err)
			return zeroProgress()
		}

		completed, err := s.goalRepo.CountCompletedSince(userID, frequency, windowStarts[frequency])
		if err != nil {
			log.Printf("Error getting user progress: %v", err)
			return zeroProgress()
		}

		cadence := CadenceProgress{
			Completed: int(completed),
			Total:     frequency.Quota(),
			Assigned:  int(assigned),
		}
		switch frequency {
		case models.FrequencyDaily:
			progress.Daily = cadence
		case models.FrequencyWeekly:
			progress.Weekly = cadence
		case models.FrequencyMonthly:
			progress.Monthly = cadence
		}
	}

	totalPoints, err := s.goalRepo.SumCompletedPoints(userID)
	if err != nil {
		log.Printf("Error getting user progress: %v", err)
		return zeroProgress()
	}
	progress.TotalPoints = int(totalPoints)

	return progress
}

func zeroProgress() *Progress {
	return &Progress{
		Daily:   CadenceProgress{Total: models.FrequencyDaily.Quota()},
		Weekly:  CadenceProgress{Total: models.FrequencyWeekly.Quota()},
		Monthly: CadenceProgress{Total: models.FrequencyMonthly.Quota()},
	}
}

// SweepExpired transitions every overdue pending goal to expired and returns
// the number of rows updated. Expiry is best-effort maintenance: failures are
// logged and swallowed.
func (s *GoalService) SweepExpired() int64 {
	count, err := s.goalRepo.ExpireOverdue(time.Now().UTC())
	if err != nil {
		log.Printf("Error cleaning up expired goals: %v", err)
		return 0
	}
	log.Printf("Marked %d goals as expired", count)
	return count
}

// GetCurrentGoals returns a user's live pending goals grouped by cadence.
// Errors degrade to empty groups rather than failing the display.
func (s *GoalService) GetCurrentGoals(userID uint64) *CurrentGoals {
	goals := &CurrentGoals{
		Daily:   []repository.CurrentGoal{},
		Weekly:  []repository.CurrentGoal{},
		Monthly: []repository.CurrentGoal{},
	}

	rows, err := s.goalRepo.FindCurrentGoals(userID, time.Now().UTC())
	if err != nil {
		log.Printf("Error getting user goals: %v", err)
		return goals
	}

	for _, row := range rows {
		switch row.Frequency {
		case models.FrequencyDaily:
			goals.Daily = append(goals.Daily, row)
		case models.FrequencyWeekly:
			goals.Weekly = append(goals.Weekly, row)
		case models.FrequencyMonthly:
			goals.Monthly = append(goals.Monthly, row)
		}
	}

	return goals
}

// GetRecentCompleted returns a user's latest completed achievements, newest
// first. Errors degrade to an empty list.
func (s *GoalService) GetRecentCompleted(userID uint64, limit int) []repository.CompletedGoal {
	if limit <= 0 {
		limit = 10
	}

	completed, err := s.goalRepo.FindRecentCompleted(userID, limit)
	if err != nil {
		log.Printf("Error getting recent achievements: %v", err)
		return []repository.CompletedGoal{}
	}
	return completed
}
