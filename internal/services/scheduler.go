package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron specs for the four maintenance jobs.
const (
	dailyAssignmentSpec   = "1 0 * * *" // every day 00:01
	weeklyAssignmentSpec  = "1 0 * * 1" // Monday 00:01
	monthlyAssignmentSpec = "1 0 1 * *" // 1st of month 00:01
	expirySweepSpec       = "59 23 * * *" // every day 23:59
)

// JobStatus describes one scheduled job for the status surface.
type JobStatus struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run"`
}

// GoalScheduler drives the cadence assignment jobs and the expiry sweep on a
// background cron. It is an explicit instance owned by main's lifecycle, not
// a package global: create it at startup, Stop it at shutdown.
type GoalScheduler struct {
	cron    *cron.Cron
	goals   *GoalService
	entries map[string]cron.EntryID
}

// NewGoalScheduler creates a scheduler around the goal engine.
func NewGoalScheduler(goals *GoalService) *GoalScheduler {
	return &GoalScheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		goals:   goals,
		entries: make(map[string]cron.EntryID),
	}
}

// Start registers the jobs and starts the cron loop.
func (s *GoalScheduler) Start() error {
	jobs := []struct {
		id   string
		spec string
		run  func()
	}{
		{"daily_goals_assignment", dailyAssignmentSpec, s.runDailyAssignment},
		{"weekly_goals_assignment", weeklyAssignmentSpec, s.runWeeklyAssignment},
		{"monthly_goals_assignment", monthlyAssignmentSpec, s.runMonthlyAssignment},
		{"cleanup_expired_goals", expirySweepSpec, s.runExpirySweep},
	}

	for _, job := range jobs {
		entryID, err := s.cron.AddFunc(job.spec, job.run)
		if err != nil {
			return err
		}
		s.entries[job.id] = entryID
	}

	s.cron.Start()
	log.Println("Goal scheduler started")
	return nil
}

// Stop stops the cron loop. Running jobs finish before Stop returns.
func (s *GoalScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Goal scheduler stopped")
}

// Jobs returns the registered jobs and their next run times.
func (s *GoalScheduler) Jobs() []JobStatus {
	statuses := make([]JobStatus, 0, len(s.entries))
	for id, entryID := range s.entries {
		entry := s.cron.Entry(entryID)
		statuses = append(statuses, JobStatus{
			ID:      id,
			Name:    id,
			NextRun: entry.Next,
		})
	}
	return statuses
}

// Job failures are logged and never crash the scheduler loop.

func (s *GoalScheduler) runDailyAssignment() {
	summary, err := s.goals.AssignDailyGoals(nil)
	if err != nil {
		log.Printf("Error in daily goals assignment: %v", err)
		return
	}
	log.Printf("Daily goals assigned: users=%d goals=%d errors=%d",
		summary.UsersAssigned, summary.GoalsAssigned, len(summary.Errors))
}

func (s *GoalScheduler) runWeeklyAssignment() {
	summary, err := s.goals.AssignWeeklyGoals(nil)
	if err != nil {
		log.Printf("Error in weekly goals assignment: %v", err)
		return
	}
	log.Printf("Weekly goals assigned: users=%d goals=%d errors=%d",
		summary.UsersAssigned, summary.GoalsAssigned, len(summary.Errors))
}

func (s *GoalScheduler) runMonthlyAssignment() {
	summary, err := s.goals.AssignMonthlyGoals(nil)
	if err != nil {
		log.Printf("Error in monthly goals assignment: %v", err)
		return
	}
	log.Printf("Monthly goals assigned: users=%d goals=%d errors=%d",
		summary.UsersAssigned, summary.GoalsAssigned, len(summary.Errors))
}

func (s *GoalScheduler) runExpirySweep() {
	count := s.goals.SweepExpired()
	log.Printf("Cleaned up %d expired goals", count)
}
