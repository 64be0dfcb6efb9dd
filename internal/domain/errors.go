package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateRecord   = errors.New("record already exists")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidReference  = errors.New("referenced record does not exist")
	ErrEditConflict      = errors.New("edit conflict")

	// ErrIntegrityConflict is returned when a concurrent writer claimed one of the
	// requested seats first. Callers may retry the whole request.
	ErrIntegrityConflict = errors.New("one or more seats were booked by a concurrent request")

	// ErrInconsistentAvailability means more tickets exist for a performance than
	// its hall can seat.
	ErrInconsistentAvailability = errors.New("ticket count exceeds hall capacity")
)
