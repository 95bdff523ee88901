package model

import (
	"database/sql/driver"
	"time"
)

// ScriptureReference addresses a passage: a whole chapter, a single verse, or a
// verse range. At most one of Verse and StartVerse/EndVerse is set.
type ScriptureReference struct {
	Book       string `json:"book"`
	Chapter    int    `json:"chapter"`
	Verse      int    `json:"verse,omitempty"`
	StartVerse int    `json:"startVerse,omitempty"`
	EndVerse   int    `json:"endVerse,omitempty"`
}

// Bounds resolves the reference to a verse range. ok is false for a
// whole-chapter reference.
func (r ScriptureReference) Bounds() (start, end int, ok bool) {
	if r.Verse > 0 {
		return r.Verse, r.Verse, true
	}
	if r.StartVerse > 0 && r.EndVerse > 0 {
		return r.StartVerse, r.EndVerse, true
	}
	return 0, 0, false
}

type DailyReading struct {
	Day        int                  `json:"day"`
	Title      string               `json:"dayTitle,omitempty"`
	Devotional string               `json:"devotional"`
	Scripture  []ScriptureReference `json:"scripture"`
}

type Readings []DailyReading

func (r Readings) Value() (driver.Value, error) { return jsonValue(r) }
func (r *Readings) Scan(src any) error          { return jsonScan(r, src) }

// Plan is a denormalized cached copy of a catalog entry, written to the store
// when a plan is started so reading continues offline. The catalog owns the
// canonical copy.
type Plan struct {
	PlanID      string    `json:"planId" db:"plan_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Duration    int       `json:"duration" db:"duration"`
	Category    string    `json:"category" db:"category"`
	Aligned     bool      `json:"aligned" db:"aligned"`
	Featured    bool      `json:"featured" db:"featured"`
	Readings    Readings  `json:"readings" db:"readings"`
	CachedAt    time.Time `json:"-" db:"cached_at"`
}

// Reading returns the daily reading for the given day, nil if out of range.
func (p *Plan) Reading(day int) *DailyReading {
	for i := range p.Readings {
		if p.Readings[i].Day == day {
			return &p.Readings[i]
		}
	}
	return nil
}
