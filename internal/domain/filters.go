package domain

import (
	"fmt"
	"strings"
	"time"
)

// FilterError reports a malformed query parameter.
type FilterError struct {
	Param string
	Value string
}

func NewFilterError(param string, value any) *FilterError {
	return &FilterError{Param: param, Value: fmt.Sprint(value)}
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid value %q for query parameter %q", e.Value, e.Param)
}

// PlayFilters narrows the play list. Each non-empty field is one filter dimension;
// dimensions are combined with AND, IDs inside a dimension with OR.
type PlayFilters struct {
	Title    string
	GenreIDs []int
	ActorIDs []int
}

func (f PlayFilters) Matches(p Play) bool {
	if f.Title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Title)) {
		return false
	}

	if len(f.GenreIDs) > 0 && !p.hasGenre(f.GenreIDs) {
		return false
	}

	if len(f.ActorIDs) > 0 && !p.hasActor(f.ActorIDs) {
		return false
	}

	return true
}

type PerformanceFilters struct {
	PlayIDs []int
	Date    *time.Time
}

// DayRange returns the half-open [start, end) interval covered by the date filter.
func (f PerformanceFilters) DayRange() (time.Time, time.Time) {
	start := f.Date.UTC().Truncate(24 * time.Hour)
	return start, start.Add(24 * time.Hour)
}

func (f PerformanceFilters) Matches(p Performance) bool {
	if len(f.PlayIDs) > 0 {
		found := false
		for _, id := range f.PlayIDs {
			if p.PlayID == id {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	if f.Date != nil {
		start, end := f.DayRange()
		showTime := p.ShowTime.UTC()

		if showTime.Before(start) || !showTime.Before(end) {
			return false
		}
	}

	return true
}
