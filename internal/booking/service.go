// Package booking enforces that a seat of a performance is sold at most once and
// computes seat availability.
//
// Writers take the lock of every performance they touch before reading the taken
// seats, and hold it until the write is committed. The unique constraint on
// tickets(performance_id, seat_row, seat_number) stays the final arbiter: a
// violation at commit time surfaces as domain.ErrIntegrityConflict.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/metinatakli/theatre-reservation-system/internal/domain"
	"github.com/metinatakli/theatre-reservation-system/internal/lock"
)

type Service struct {
	performances domain.PerformanceRepository
	halls        domain.TheatreHallRepository
	reservations domain.ReservationRepository
	tickets      domain.TicketRepository
	locker       lock.Locker
	logger       *slog.Logger
}

func NewService(
	performances domain.PerformanceRepository,
	halls domain.TheatreHallRepository,
	reservations domain.ReservationRepository,
	tickets domain.TicketRepository,
	locker lock.Locker,
	logger *slog.Logger,
) *Service {
	return &Service{
		performances: performances,
		halls:        halls,
		reservations: reservations,
		tickets:      tickets,
		locker:       locker,
		logger:       logger,
	}
}

// CreateReservation books all requested seats for ownerID, or none of them.
func (s *Service) CreateReservation(ctx context.Context, ownerID int, requests []TicketRequest) (*domain.Reservation, error) {
	if len(requests) == 0 {
		return nil, &ValidationError{Index: -1, Field: "tickets", Message: "at least one ticket is required"}
	}

	performanceIDs := distinctPerformanceIDs(requests)

	halls, err := s.resolveHalls(ctx, performanceIDs)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockAll(ctx, performanceIDs)
	if err != nil {
		return nil, err
	}
	defer unlock()

	taken, err := s.tickets.GetByPerformanceIds(ctx, performanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load taken seats: %w", err)
	}

	err = Validate(requests, halls, taken)
	if err != nil {
		bookingRejections.WithLabelValues("validation").Inc()
		return nil, err
	}

	reservation := &domain.Reservation{
		UserID:  ownerID,
		Tickets: make([]domain.Ticket, len(requests)),
	}

	for i, req := range requests {
		reservation.Tickets[i] = domain.Ticket{
			Row:           req.Row,
			Seat:          req.Seat,
			PerformanceID: req.PerformanceID,
		}
	}

	err = s.reservations.Create(ctx, reservation)
	if err != nil {
		if errors.Is(err, domain.ErrIntegrityConflict) {
			bookingRejections.WithLabelValues("conflict").Inc()
		}

		return nil, err
	}

	reservationsCreated.Inc()
	ticketsBooked.Add(float64(len(reservation.Tickets)))

	return reservation, nil
}

// CreateTicket books a single seat for an existing reservation. It applies the
// same checks as CreateReservation.
func (s *Service) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	return s.writeTicket(ctx, ticket, s.tickets.Create)
}

// UpdateTicket moves an existing ticket to another seat or performance.
func (s *Service) UpdateTicket(ctx context.Context, ticket *domain.Ticket) error {
	return s.writeTicket(ctx, ticket, s.tickets.Update)
}

func (s *Service) writeTicket(
	ctx context.Context,
	ticket *domain.Ticket,
	write func(context.Context, *domain.Ticket) error) error {

	requests := []TicketRequest{{
		PerformanceID: ticket.PerformanceID,
		Row:           ticket.Row,
		Seat:          ticket.Seat,
	}}
	performanceIDs := []int{ticket.PerformanceID}

	halls, err := s.resolveHalls(ctx, performanceIDs)
	if err != nil {
		return err
	}

	unlock, err := s.lockAll(ctx, performanceIDs)
	if err != nil {
		return err
	}
	defer unlock()

	taken, err := s.tickets.GetByPerformanceIds(ctx, performanceIDs)
	if err != nil {
		return fmt.Errorf("failed to load taken seats: %w", err)
	}

	// an updated ticket does not collide with its own current seat
	if ticket.ID != 0 {
		taken = slices.DeleteFunc(taken, func(t domain.Ticket) bool {
			return t.ID == ticket.ID
		})
	}

	err = Validate(requests, halls, taken)
	if err != nil {
		bookingRejections.WithLabelValues("validation").Inc()
		return err
	}

	err = write(ctx, ticket)
	if errors.Is(err, domain.ErrIntegrityConflict) {
		bookingRejections.WithLabelValues("conflict").Inc()
	}

	return err
}

// UpdatePerformance saves performance and refuses to move it to a hall in which
// one of its sold seats does not exist.
func (s *Service) UpdatePerformance(ctx context.Context, performance *domain.Performance) error {
	hall, err := s.halls.GetById(ctx, performance.TheatreHallID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("theatre hall %d: %w", performance.TheatreHallID, domain.ErrInvalidReference)
		}

		return err
	}

	unlock, err := s.lockAll(ctx, []int{performance.ID})
	if err != nil {
		return err
	}
	defer unlock()

	taken, err := s.tickets.GetByPerformanceIds(ctx, []int{performance.ID})
	if err != nil {
		return fmt.Errorf("failed to load taken seats: %w", err)
	}

	for _, t := range taken {
		if !hall.Contains(t.Row, t.Seat) {
			return &ValidationError{
				Index:   -1,
				Field:   "theatre_hall",
				Message: fmt.Sprintf("sold seat (row %d, seat %d) does not exist in hall %q", t.Row, t.Seat, hall.Name),
			}
		}
	}

	return s.performances.Update(ctx, performance)
}

// AvailableSeats returns the capacity of the performance's hall minus the tickets
// sold for it.
func (s *Service) AvailableSeats(ctx context.Context, performanceID int) (int, error) {
	capacity, sold, err := s.performances.CountTickets(ctx, performanceID)
	if err != nil {
		return 0, err
	}

	available, err := Available(capacity, sold)
	if err != nil {
		s.logger.Error("inconsistent seat availability", "performance_id", performanceID, "error", err)
		return 0, err
	}

	return available, nil
}

func (s *Service) resolveHalls(ctx context.Context, performanceIDs []int) (map[int]domain.TheatreHall, error) {
	halls, err := s.performances.GetHalls(ctx, performanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load performance halls: %w", err)
	}

	for _, id := range performanceIDs {
		if _, ok := halls[id]; !ok {
			return nil, fmt.Errorf("performance %d: %w", id, domain.ErrRecordNotFound)
		}
	}

	return halls, nil
}

// lockAll takes the locks in ascending performance order so that two requests
// spanning the same performances cannot wait on each other.
func (s *Service) lockAll(ctx context.Context, performanceIDs []int) (func(), error) {
	ids := slices.Clone(performanceIDs)
	slices.Sort(ids)

	unlocks := make([]func(), 0, len(ids))
	unlockAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, id := range ids {
		unlock, err := s.locker.Lock(ctx, id)
		if err != nil {
			unlockAll()

			if errors.Is(err, lock.ErrNotAcquired) {
				bookingRejections.WithLabelValues("lock_timeout").Inc()
				return nil, fmt.Errorf("performance %d is busy: %w", id, domain.ErrIntegrityConflict)
			}

			return nil, fmt.Errorf("failed to lock performance %d: %w", id, err)
		}

		unlocks = append(unlocks, unlock)
	}

	return unlockAll, nil
}

func distinctPerformanceIDs(requests []TicketRequest) []int {
	seen := make(map[int]struct{}, len(requests))
	ids := make([]int, 0, len(requests))

	for _, req := range requests {
		if _, ok := seen[req.PerformanceID]; ok {
			continue
		}

		seen[req.PerformanceID] = struct{}{}
		ids = append(ids, req.PerformanceID)
	}

	return ids
}
