package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

// genresOf and actorsOf aggregate the associations of the play aliased "p".
const (
	genresOf = `COALESCE((
			SELECT jsonb_agg(jsonb_build_object('id', g.id, 'name', g.name) ORDER BY g.id)
			FROM play_genres pg
			JOIN genres g ON g.id = pg.genre_id
			WHERE pg.play_id = p.id), '[]')`

	actorsOf = `COALESCE((
			SELECT jsonb_agg(jsonb_build_object(
				'id', a.id,
				'firstName', a.first_name,
				'lastName', a.last_name
			) ORDER BY a.id)
			FROM play_actors pa
			JOIN actors a ON a.id = pa.actor_id
			WHERE pa.play_id = p.id), '[]')`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresPlayRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPlayRepository(db *pgxpool.Pool) *PostgresPlayRepository {
	return &PostgresPlayRepository{
		db: db,
	}
}

func (p *PostgresPlayRepository) GetAll(ctx context.Context, filters domain.PlayFilters) ([]domain.Play, error) {
	query := `
		SELECT p.id, p.title, p.description, p.image, ` + genresOf + `, ` + actorsOf + `
		FROM plays p
		WHERE ($1::text = '' OR p.title ILIKE '%' || $1 || '%')
		AND (cardinality($2::bigint[]) = 0 OR EXISTS (
			SELECT 1 FROM play_genres fg
			WHERE fg.play_id = p.id AND fg.genre_id = ANY($2)))
		AND (cardinality($3::bigint[]) = 0 OR EXISTS (
			SELECT 1 FROM play_actors fa
			WHERE fa.play_id = p.id AND fa.actor_id = ANY($3)))
		ORDER BY p.id
	`

	rows, err := p.db.Query(
		ctx,
		query,
		likeEscaper.Replace(filters.Title),
		nonNilIDs(filters.GenreIDs),
		nonNilIDs(filters.ActorIDs))

	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanPlay)
}

func (p *PostgresPlayRepository) GetById(ctx context.Context, id int) (*domain.Play, error) {
	query := `
		SELECT p.id, p.title, p.description, p.image, ` + genresOf + `, ` + actorsOf + `
		FROM plays p
		WHERE p.id = $1
	`

	rows, err := p.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}

	play, err := pgx.CollectExactlyOneRow(rows, scanPlay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &play, nil
}

func (p *PostgresPlayRepository) Create(ctx context.Context, play *domain.Play) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO plays (title, description, image)
			VALUES ($1, $2, $3)
			RETURNING id
		`

		err := tx.QueryRow(ctx, query, play.Title, play.Description, play.Image).Scan(&play.ID)
		if err != nil {
			return err
		}

		genreRows := make([][]any, 0, len(play.Genres))
		for _, genre := range play.Genres {
			genreRows = append(genreRows, []any{play.ID, genre.ID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"play_genres"},
			[]string{"play_id", "genre_id"},
			pgx.CopyFromRows(genreRows),
		)
		if err != nil {
			return err
		}

		actorRows := make([][]any, 0, len(play.Actors))
		for _, actor := range play.Actors {
			actorRows = append(actorRows, []any{play.ID, actor.ID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"play_actors"},
			[]string{"play_id", "actor_id"},
			pgx.CopyFromRows(actorRows),
		)

		return err
	})

	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrInvalidReference
		case isUniqueViolation(err):
			return domain.ErrDuplicateRecord
		default:
			return err
		}
	}

	return nil
}

func (p *PostgresPlayRepository) UpdateImage(ctx context.Context, id int, image string) error {
	query := `UPDATE plays SET image = $1 WHERE id = $2`

	tag, err := p.db.Exec(ctx, query, image, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func scanPlay(row pgx.CollectableRow) (domain.Play, error) {
	var play domain.Play

	err := row.Scan(
		&play.ID,
		&play.Title,
		&play.Description,
		&play.Image,
		&play.Genres,
		&play.Actors,
	)

	return play, err
}
