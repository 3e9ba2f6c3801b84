package models

import "time"

// Frequency is the cadence an achievement is assigned on. It fixes both the
// number of goals handed out per cycle and the due-date window.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Frequencies lists all cadences in assignment order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// Valid reports whether f is a known cadence.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Quota is the fixed number of goals assigned per cycle for this cadence.
func (f Frequency) Quota() int {
	switch f {
	case FrequencyDaily:
		return 5
	case FrequencyWeekly:
		return 3
	case FrequencyMonthly:
		return 2
	}
	return 0
}

// Window is the due-date window for goals of this cadence. Monthly is a flat
// 30 days, not a calendar month.
func (f Frequency) Window() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Achievement is a catalog entry. Rows are created by admins or the Excel
// import and are never mutated by the goal engine.
type Achievement struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	PointValue  int       `gorm:"not null" json:"point_value"`
	Duration    int       `gorm:"not null" json:"duration"` // minutes
	Frequency   Frequency `gorm:"type:varchar(50);not null;index" json:"frequency"`
	CreatedAt   time.Time `json:"created_at"`
}
