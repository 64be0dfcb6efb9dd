package domain

import "context"

type TheatreHall struct {
	ID         int
	Name       string
	Rows       int
	SeatsInRow int
}

// Capacity is the number of seats in the hall.
func (h TheatreHall) Capacity() int {
	return h.Rows * h.SeatsInRow
}

// Contains reports whether the 1-based (row, seat) position exists in the hall.
func (h TheatreHall) Contains(row, seat int) bool {
	return row >= 1 && row <= h.Rows && seat >= 1 && seat <= h.SeatsInRow
}

type TheatreHallRepository interface {
	GetAll(ctx context.Context) ([]TheatreHall, error)
	GetById(ctx context.Context, id int) (*TheatreHall, error)
	Create(ctx context.Context, hall *TheatreHall) error
}
