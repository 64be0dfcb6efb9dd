package domain

import (
	"context"
	"time"
)

type Performance struct {
	ID            int
	PlayID        int
	TheatreHallID int
	ShowTime      time.Time
}

// PerformanceSummary is a performance row of the list view, with the raw figures
// needed to compute seat availability.
type PerformanceSummary struct {
	Performance
	PlayTitle    string
	PlayImage    string
	HallName     string
	HallCapacity int
	TicketsSold  int
}

type PerformanceDetail struct {
	Performance
	Play        Play
	Hall        TheatreHall
	TakenPlaces []SeatPosition
}

type SeatPosition struct {
	Row  int
	Seat int
}

type PerformanceRepository interface {
	GetAll(ctx context.Context, filters PerformanceFilters) ([]PerformanceSummary, error)
	GetById(ctx context.Context, id int) (*PerformanceDetail, error)
	Create(ctx context.Context, performance *Performance) error
	Update(ctx context.Context, performance *Performance) error
	Delete(ctx context.Context, id int) error
	// GetHalls maps each existing performance ID to the hall it is shown in.
	// IDs that do not exist are absent from the result.
	GetHalls(ctx context.Context, performanceIDs []int) (map[int]TheatreHall, error)
	// CountTickets returns the capacity of the performance's hall and the number of
	// tickets sold for it.
	CountTickets(ctx context.Context, performanceID int) (capacity int, sold int, err error)
}
