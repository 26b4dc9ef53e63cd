package world

import "fmt"

// MonthsPerYear is the number of monthly ticks in a simulated year.
const MonthsPerYear = 12

// Timestamp is a point in simulated time at month granularity.
// Month runs 1..12.
type Timestamp struct {
	Year  uint32 `json:"year"`
	Month uint32 `json:"month"`
}

// YearStart returns the first month of the given year.
func YearStart(year uint32) Timestamp {
	return Timestamp{Year: year, Month: 1}
}

// IsYearStart reports whether t is the first month of its year.
func (t Timestamp) IsYearStart() bool {
	return t.Month == 1
}

// Next returns the following month.
func (t Timestamp) Next() Timestamp {
	if t.Month >= MonthsPerYear {
		return Timestamp{Year: t.Year + 1, Month: 1}
	}
	return Timestamp{Year: t.Year, Month: t.Month + 1}
}

// Before reports whether t is strictly earlier than o.
func (t Timestamp) Before(o Timestamp) bool {
	if t.Year != o.Year {
		return t.Year < o.Year
	}
	return t.Month < o.Month
}

// YearsSince returns whole calendar years between o and t, zero if o is later.
func (t Timestamp) YearsSince(o Timestamp) uint32 {
	if t.Year < o.Year {
		return 0
	}
	return t.Year - o.Year
}

func (t Timestamp) String() string {
	return fmt.Sprintf("Y%d M%02d", t.Year, t.Month)
}
