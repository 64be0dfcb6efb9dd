package booking

import (
	"fmt"

	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

type TicketRequest struct {
	PerformanceID int
	Row           int
	Seat          int
}

// ValidationError identifies the ticket of a request that cannot be booked.
// Index is the position of the ticket in the request, or -1 when the error
// concerns the request as a whole.
type ValidationError struct {
	Index   int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return e.Message
	}

	return fmt.Sprintf("ticket %d: %s", e.Index, e.Message)
}

type seatKey struct {
	performanceID int
	row           int
	seat          int
}

// Validate checks ticket requests against the halls of their performances and
// the tickets already persisted for those performances. halls must contain every
// performance referenced by requests.
func Validate(requests []TicketRequest, halls map[int]domain.TheatreHall, taken []domain.Ticket) error {
	if len(requests) == 0 {
		return &ValidationError{Index: -1, Field: "tickets", Message: "at least one ticket is required"}
	}

	occupied := make(map[seatKey]struct{}, len(taken))
	for _, t := range taken {
		occupied[seatKey{t.PerformanceID, t.Row, t.Seat}] = struct{}{}
	}

	requested := make(map[seatKey]struct{}, len(requests))

	for i, req := range requests {
		hall, ok := halls[req.PerformanceID]
		if !ok {
			return fmt.Errorf("performance %d: %w", req.PerformanceID, domain.ErrRecordNotFound)
		}

		if req.Row < 1 || req.Row > hall.Rows {
			return &ValidationError{
				Index:   i,
				Field:   "row",
				Message: fmt.Sprintf("row must be in range [1, %d]", hall.Rows),
			}
		}

		if req.Seat < 1 || req.Seat > hall.SeatsInRow {
			return &ValidationError{
				Index:   i,
				Field:   "seat",
				Message: fmt.Sprintf("seat must be in range [1, %d]", hall.SeatsInRow),
			}
		}

		key := seatKey{req.PerformanceID, req.Row, req.Seat}

		if _, dup := requested[key]; dup {
			return &ValidationError{Index: i, Field: "seat", Message: "duplicate within request"}
		}

		if _, ok := occupied[key]; ok {
			return &ValidationError{Index: i, Field: "seat", Message: "seat already taken"}
		}

		requested[key] = struct{}{}
	}

	return nil
}

// Available returns the number of free seats of a performance. A negative figure
// can only come from corrupted data and is reported as an error.
func Available(capacity, sold int) (int, error) {
	available := capacity - sold
	if available < 0 {
		return 0, fmt.Errorf("%w: capacity %d, sold %d", domain.ErrInconsistentAvailability, capacity, sold)
	}

	return available, nil
}
