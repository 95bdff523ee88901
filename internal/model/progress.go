package model

import (
	"database/sql/driver"
	"time"
)

// CurrentPlanID is the fixed key of the singleton current-plan row.
const CurrentPlanID = "current"

type DaySet []int

func (d DaySet) Value() (driver.Value, error) { return jsonValue(d) }
func (d *DaySet) Scan(src any) error          { return jsonScan(d, src) }

func (d DaySet) Contains(day int) bool {
	for _, v := range d {
		if v == day {
			return true
		}
	}
	return false
}

// Add returns the set with day included. Adding a present day is a no-op.
func (d DaySet) Add(day int) DaySet {
	if d.Contains(day) {
		return d
	}
	return append(d, day)
}

// Remove returns the set with day excluded.
func (d DaySet) Remove(day int) DaySet {
	out := d[:0]
	for _, v := range d {
		if v != day {
			out = append(out, v)
		}
	}
	return out
}

// Progress is the durable state of a user's advancement through one plan.
// CurrentDay never drops below the highest day ever completed.
type Progress struct {
	PlanID        string    `json:"planId" db:"plan_id"`
	CurrentDay    int       `json:"currentDay" db:"current_day"`
	StartedAt     time.Time `json:"startedDate" db:"started_at"`
	CompletedDays DaySet    `json:"completedDays" db:"completed_days"`
	LastAccessed  time.Time `json:"lastAccessed" db:"last_accessed"`
}

// CurrentPlan is the singleton cursor the dashboard widget reads: which plan is
// active and at which day. Last write wins.
type CurrentPlan struct {
	ID          string    `json:"-" db:"id"`
	PlanID      string    `json:"planId" db:"plan_id"`
	Day         int       `json:"day" db:"day"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}

// SavedPlan is a bookmark; the save date enables chronological listing.
type SavedPlan struct {
	PlanID  string    `json:"planId" db:"plan_id"`
	SavedAt time.Time `json:"savedDate" db:"saved_at"`
}
