package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

// ticketsOf aggregates the tickets of the reservation aliased "r" together with
// the performance each one is for.
const ticketsOf = `COALESCE((
		SELECT jsonb_agg(jsonb_build_object(
			'id', t.id,
			'row', t.seat_row,
			'seat', t.seat_number,
			'performanceId', t.performance_id,
			'reservationId', t.reservation_id,
			'performance', jsonb_build_object(
				'id', pf.id,
				'playTitle', p.title,
				'theatreHallName', h.name,
				'showTime', pf.show_time
			)
		) ORDER BY t.id)
		FROM tickets t
		JOIN performances pf ON pf.id = t.performance_id
		JOIN plays p ON p.id = pf.play_id
		JOIN theatre_halls h ON h.id = pf.theatre_hall_id
		WHERE t.reservation_id = r.id), '[]')`

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

func (p *PostgresReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO reservations (user_id)
			VALUES ($1)
			RETURNING id, created_at
		`

		err := tx.QueryRow(ctx, query, reservation.UserID).Scan(&reservation.ID, &reservation.CreatedAt)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO tickets (seat_row, seat_number, performance_id, reservation_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`

		batch := &pgx.Batch{}

		for i := range reservation.Tickets {
			ticket := &reservation.Tickets[i]
			ticket.ReservationID = reservation.ID

			batch.Queue(query, ticket.Row, ticket.Seat, ticket.PerformanceID, ticket.ReservationID).
				QueryRow(func(row pgx.Row) error {
					return row.Scan(&ticket.ID)
				})
		}

		return tx.SendBatch(ctx, batch).Close()
	})

	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrIntegrityConflict
		case isForeignKeyViolation(err):
			return domain.ErrInvalidReference
		default:
			return err
		}
	}

	return nil
}

func (p *PostgresReservationRepository) GetByUserId(
	ctx context.Context,
	userId int,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), r.id, r.user_id, r.created_at, ` + ticketsOf + `
		FROM reservations r
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userId, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	totalRecords := 0

	for rows.Next() {
		var reservation domain.Reservation

		err := rows.Scan(
			&totalRecords,
			&reservation.ID,
			&reservation.UserID,
			&reservation.CreatedAt,
			&reservation.Tickets,
		)
		if err != nil {
			return nil, nil, err
		}

		reservations = append(reservations, reservation)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return reservations, metadata, nil
}

func (p *PostgresReservationRepository) GetByIdAndUserId(
	ctx context.Context,
	id, userId int) (*domain.Reservation, error) {

	query := `
		SELECT r.id, r.user_id, r.created_at, ` + ticketsOf + `
		FROM reservations r
		WHERE r.id = $1 AND r.user_id = $2
	`

	var reservation domain.Reservation

	err := p.db.QueryRow(ctx, query, id, userId).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.CreatedAt,
		&reservation.Tickets,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &reservation, nil
}
