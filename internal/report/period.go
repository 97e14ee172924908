package report

import (
	"fmt"
	"time"
)

// Period is a calendar year, or one month of it when Month is non-zero.
type Period struct {
	Year  int
	Month int
}

// Range returns the half-open [start, end) interval covered by p, in UTC.
func (p Period) Range() (time.Time, time.Time) {
	if p.Month == 0 {
		start := time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether the calendar day of t falls inside p.
func (p Period) Contains(t time.Time) bool {
	if t.Year() != p.Year {
		return false
	}
	return p.Month == 0 || int(t.Month()) == p.Month
}

// Prev and Next step by a month, or by a year for whole-year periods.
func (p Period) Prev() Period {
	if p.Month == 0 {
		return Period{Year: p.Year - 1}
	}
	t := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Next() Period {
	if p.Month == 0 {
		return Period{Year: p.Year + 1}
	}
	t := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) String() string {
	if p.Month == 0 {
		return fmt.Sprintf("%d", p.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}
