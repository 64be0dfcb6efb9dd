package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

type PostgresTicketRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTicketRepository(db *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{
		db: db,
	}
}

func (p *PostgresTicketRepository) GetAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `
		SELECT id, seat_row, seat_number, performance_id, reservation_id
		FROM tickets
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanTicket)
}

func (p *PostgresTicketRepository) GetById(ctx context.Context, id int) (*domain.Ticket, error) {
	query := `
		SELECT id, seat_row, seat_number, performance_id, reservation_id
		FROM tickets
		WHERE id = $1
	`

	rows, err := p.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}

	ticket, err := pgx.CollectExactlyOneRow(rows, scanTicket)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &ticket, nil
}

func (p *PostgresTicketRepository) GetByPerformanceIds(ctx context.Context, performanceIDs []int) ([]domain.Ticket, error) {
	query := `
		SELECT id, seat_row, seat_number, performance_id, reservation_id
		FROM tickets
		WHERE performance_id = ANY($1)
	`

	rows, err := p.db.Query(ctx, query, nonNilIDs(performanceIDs))
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanTicket)
}

func (p *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (seat_row, seat_number, performance_id, reservation_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := p.db.QueryRow(
		ctx,
		query,
		ticket.Row,
		ticket.Seat,
		ticket.PerformanceID,
		ticket.ReservationID).Scan(&ticket.ID)

	return mapTicketWriteError(err)
}

func (p *PostgresTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		UPDATE tickets
		SET seat_row = $1, seat_number = $2, performance_id = $3, reservation_id = $4
		WHERE id = $5
		RETURNING id
	`

	err := p.db.QueryRow(
		ctx,
		query,
		ticket.Row,
		ticket.Seat,
		ticket.PerformanceID,
		ticket.ReservationID,
		ticket.ID).Scan(&ticket.ID)

	return mapTicketWriteError(err)
}

func (p *PostgresTicketRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func mapTicketWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrRecordNotFound
	case isUniqueViolation(err):
		return domain.ErrIntegrityConflict
	case isForeignKeyViolation(err):
		return domain.ErrInvalidReference
	default:
		return err
	}
}

func scanTicket(row pgx.CollectableRow) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := row.Scan(&ticket.ID, &ticket.Row, &ticket.Seat, &ticket.PerformanceID, &ticket.ReservationID)
	return ticket, err
}
