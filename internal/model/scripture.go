package model

import (
	"database/sql/driver"
	"sort"
	"time"
)

type VerseMap map[int]string

func (m VerseMap) Value() (driver.Value, error) { return jsonValue(m) }
func (m *VerseMap) Scan(src any) error          { return jsonScan(m, src) }

// Numbers returns the verse numbers present, ascending.
func (m VerseMap) Numbers() []int {
	nums := make([]int, 0, len(m))
	for n := range m {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// CachedChapter holds one chapter of downloaded scripture text, keyed by
// (book, chapter). Content is assumed immutable; entries are never expired.
type CachedChapter struct {
	Book     string    `json:"book" db:"book"`
	Chapter  int       `json:"chapter" db:"chapter"`
	Verses   VerseMap  `json:"verses" db:"verses"`
	CachedAt time.Time `json:"cachedDate" db:"cached_at"`
}
