package services

import (
	"testing"
	"time"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoalService(t *testing.T) *GoalService {
	db, err := openTestDB()
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Customer{},
		&models.User{},
		&models.Achievement{},
		&models.GoalAssignment{},
	)
	require.NoError(t, err)

	return NewGoalService(
		repository.NewGoalRepository(db),
		repository.NewUserRepository(db),
		repository.NewAchievementRepository(db),
	)
}

func TestSchedulerRegistersAllJobs(t *testing.T) {
	scheduler := NewGoalScheduler(newTestGoalService(t))

	err := scheduler.Start()
	require.NoError(t, err)
	defer scheduler.Stop()

	jobs := scheduler.Jobs()
	require.Len(t, jobs, 4)

	ids := make(map[string]bool, len(jobs))
	now := time.Now()
	for _, job := range jobs {
		ids[job.ID] = true
		assert.True(t, job.NextRun.After(now), "job %s should have a future next run", job.ID)
	}
	assert.True(t, ids["daily_goals_assignment"])
	assert.True(t, ids["weekly_goals_assignment"])
	assert.True(t, ids["monthly_goals_assignment"])
	assert.True(t, ids["cleanup_expired_goals"])
}

func TestSchedulerStopIsIdempotentWithoutStart(t *testing.T) {
	scheduler := NewGoalScheduler(newTestGoalService(t))
	scheduler.Stop()
	assert.Empty(t, scheduler.Jobs())
}
