package domain

import (
	"context"
	"time"
)

type Reservation struct {
	ID        int
	UserID    int
	CreatedAt time.Time
	Tickets   []Ticket
}

type Ticket struct {
	ID            int
	Row           int
	Seat          int
	PerformanceID int
	ReservationID int
	Performance   *TicketPerformance
}

// TicketPerformance is the read-only performance information shown with a ticket.
type TicketPerformance struct {
	ID              int
	PlayTitle       string
	TheatreHallName string
	ShowTime        time.Time
}

type ReservationRepository interface {
	// Create persists the reservation and all of its tickets as one unit.
	Create(ctx context.Context, reservation *Reservation) error
	GetByUserId(ctx context.Context, userId int, pagination Pagination) ([]Reservation, *Metadata, error)
	GetByIdAndUserId(ctx context.Context, id, userId int) (*Reservation, error)
}

type TicketRepository interface {
	GetAll(ctx context.Context) ([]Ticket, error)
	GetById(ctx context.Context, id int) (*Ticket, error)
	// GetByPerformanceIds returns every persisted ticket of the given performances.
	GetByPerformanceIds(ctx context.Context, performanceIDs []int) ([]Ticket, error)
	Create(ctx context.Context, ticket *Ticket) error
	Update(ctx context.Context, ticket *Ticket) error
	Delete(ctx context.Context, id int) error
}
