// Package model defines the core domain types for Y-9C filing data.
package model

import (
	"fmt"
	"time"
)

// FinancialRecord is one reported value for one line item in one quarterly
// filing. Records are unique on (RSSDID, ReportDate, Code) and are only ever
// replaced, never deleted.
type FinancialRecord struct {
	ReportDate time.Time
	RSSDID     string
	Code       string
	Value      float64
	Year       int
	Quarter    int
}

// Institution identifies a reporting bank holding company.
type Institution struct {
	RSSDID           string
	Name             string
	City             string
	State            string
	EntityType       string
	PrimaryRegulator string
	ParentRSSDID     string
}

// LoadStatus is the terminal state recorded for a (year, quarter) load attempt.
type LoadStatus string

// Load statuses.
const (
	LoadCompleted       LoadStatus = "completed"
	LoadNoData          LoadStatus = "no_data"
	LoadNoMatchingCodes LoadStatus = "no_matching_codes"
)

// IsValid reports whether the status is one of the known terminal states.
func (s LoadStatus) IsValid() bool {
	switch s {
	case LoadCompleted, LoadNoData, LoadNoMatchingCodes:
		return true
	}
	return false
}

// LoadResult records the outcome of loading one quarterly filing.
type LoadResult struct {
	SourceFile    string
	Status        LoadStatus
	Year          int
	Quarter       int
	RecordsLoaded int
}

// quarterEnds maps a quarter number to its fixed month and day.
var quarterEnds = map[int]struct {
	month time.Month
	day   int
}{
	1: {time.March, 31},
	2: {time.June, 30},
	3: {time.September, 30},
	4: {time.December, 31},
}

// ReportDate returns the quarter-end report date for a (year, quarter) pair.
// The mapping is fixed: Q1=03-31, Q2=06-30, Q3=09-30, Q4=12-31.
func ReportDate(year, quarter int) (time.Time, error) {
	end, ok := quarterEnds[quarter]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid quarter: %d", quarter)
	}
	return time.Date(year, end.month, end.day, 0, 0, 0, 0, time.UTC), nil
}

// CurrentQuarter returns the calendar quarter containing t.
func CurrentQuarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// QuartersElapsed returns how many quarters of year have begun as of t: 4
// for past years, the quarter containing t for the current year, and 0 for
// future years.
func QuartersElapsed(year int, t time.Time) int {
	switch {
	case year < t.Year():
		return 4
	case year > t.Year():
		return 0
	default:
		return CurrentQuarter(t)
	}
}
