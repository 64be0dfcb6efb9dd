package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

type PostgresPerformanceRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPerformanceRepository(db *pgxpool.Pool) *PostgresPerformanceRepository {
	return &PostgresPerformanceRepository{
		db: db,
	}
}

func (p *PostgresPerformanceRepository) GetAll(
	ctx context.Context,
	filters domain.PerformanceFilters) ([]domain.PerformanceSummary, error) {

	query := `
		SELECT
			pf.id,
			pf.play_id,
			pf.theatre_hall_id,
			pf.show_time,
			p.title,
			p.image,
			h.name,
			h.rows * h.seats_in_row,
			(SELECT COUNT(*) FROM tickets t WHERE t.performance_id = pf.id)
		FROM performances pf
		JOIN plays p ON p.id = pf.play_id
		JOIN theatre_halls h ON h.id = pf.theatre_hall_id
		WHERE (cardinality($1::bigint[]) = 0 OR pf.play_id = ANY($1))
		AND ($2::timestamptz IS NULL OR (pf.show_time >= $2 AND pf.show_time < $3))
		ORDER BY pf.show_time, pf.id
	`

	var start, end *time.Time
	if filters.Date != nil {
		from, to := filters.DayRange()
		start, end = &from, &to
	}

	rows, err := p.db.Query(ctx, query, nonNilIDs(filters.PlayIDs), start, end)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PerformanceSummary, error) {
		var summary domain.PerformanceSummary

		err := row.Scan(
			&summary.ID,
			&summary.PlayID,
			&summary.TheatreHallID,
			&summary.ShowTime,
			&summary.PlayTitle,
			&summary.PlayImage,
			&summary.HallName,
			&summary.HallCapacity,
			&summary.TicketsSold,
		)

		return summary, err
	})
}

func (p *PostgresPerformanceRepository) GetById(ctx context.Context, id int) (*domain.PerformanceDetail, error) {
	query := `
		SELECT
			pf.id,
			pf.play_id,
			pf.theatre_hall_id,
			pf.show_time,
			p.id,
			p.title,
			p.description,
			p.image,
			` + genresOf + `,
			` + actorsOf + `,
			h.id,
			h.name,
			h.rows,
			h.seats_in_row,
			COALESCE((
				SELECT jsonb_agg(jsonb_build_object(
					'row', t.seat_row,
					'seat', t.seat_number
				) ORDER BY t.seat_row, t.seat_number)
				FROM tickets t
				WHERE t.performance_id = pf.id), '[]')
		FROM performances pf
		JOIN plays p ON p.id = pf.play_id
		JOIN theatre_halls h ON h.id = pf.theatre_hall_id
		WHERE pf.id = $1
	`

	var detail domain.PerformanceDetail

	err := p.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.PlayID,
		&detail.TheatreHallID,
		&detail.ShowTime,
		&detail.Play.ID,
		&detail.Play.Title,
		&detail.Play.Description,
		&detail.Play.Image,
		&detail.Play.Genres,
		&detail.Play.Actors,
		&detail.Hall.ID,
		&detail.Hall.Name,
		&detail.Hall.Rows,
		&detail.Hall.SeatsInRow,
		&detail.TakenPlaces,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &detail, nil
}

func (p *PostgresPerformanceRepository) Create(ctx context.Context, performance *domain.Performance) error {
	query := `
		INSERT INTO performances (play_id, theatre_hall_id, show_time)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := p.db.QueryRow(
		ctx,
		query,
		performance.PlayID,
		performance.TheatreHallID,
		performance.ShowTime).Scan(&performance.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidReference
		}

		return err
	}

	return nil
}

func (p *PostgresPerformanceRepository) Update(ctx context.Context, performance *domain.Performance) error {
	query := `
		UPDATE performances
		SET play_id = $1, theatre_hall_id = $2, show_time = $3
		WHERE id = $4
	`

	tag, err := p.db.Exec(
		ctx,
		query,
		performance.PlayID,
		performance.TheatreHallID,
		performance.ShowTime,
		performance.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidReference
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresPerformanceRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM performances WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresPerformanceRepository) GetHalls(
	ctx context.Context,
	performanceIDs []int) (map[int]domain.TheatreHall, error) {

	query := `
		SELECT pf.id, h.id, h.name, h.rows, h.seats_in_row
		FROM performances pf
		JOIN theatre_halls h ON h.id = pf.theatre_hall_id
		WHERE pf.id = ANY($1)
	`

	rows, err := p.db.Query(ctx, query, nonNilIDs(performanceIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	halls := make(map[int]domain.TheatreHall, len(performanceIDs))

	for rows.Next() {
		var (
			performanceID int
			hall          domain.TheatreHall
		)

		err = rows.Scan(&performanceID, &hall.ID, &hall.Name, &hall.Rows, &hall.SeatsInRow)
		if err != nil {
			return nil, err
		}

		halls[performanceID] = hall
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return halls, nil
}

func (p *PostgresPerformanceRepository) CountTickets(ctx context.Context, performanceID int) (int, int, error) {
	query := `
		SELECT h.rows * h.seats_in_row, (SELECT COUNT(*) FROM tickets t WHERE t.performance_id = pf.id)
		FROM performances pf
		JOIN theatre_halls h ON h.id = pf.theatre_hall_id
		WHERE pf.id = $1
	`

	var capacity, sold int

	err := p.db.QueryRow(ctx, query, performanceID).Scan(&capacity, &sold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, domain.ErrRecordNotFound
		}

		return 0, 0, err
	}

	return capacity, sold, nil
}
