package domain

import "context"

type Play struct {
	ID          int
	Title       string
	Description string
	Image       string
	Genres      []Genre
	Actors      []Actor
}

func (p Play) hasGenre(ids []int) bool {
	for _, g := range p.Genres {
		for _, id := range ids {
			if g.ID == id {
				return true
			}
		}
	}

	return false
}

func (p Play) hasActor(ids []int) bool {
	for _, a := range p.Actors {
		for _, id := range ids {
			if a.ID == id {
				return true
			}
		}
	}

	return false
}

type PlayRepository interface {
	GetAll(ctx context.Context, filters PlayFilters) ([]Play, error)
	GetById(ctx context.Context, id int) (*Play, error)
	// Create inserts the play together with its genre and actor associations.
	// Only the IDs of play.Genres and play.Actors are read.
	Create(ctx context.Context, play *Play) error
	UpdateImage(ctx context.Context, id int, image string) error
}
