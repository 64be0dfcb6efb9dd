package mocks

import (
	"context"

	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

type MockGenreRepo struct {
	domain.GenreRepository
	GetAllFunc func(ctx context.Context) ([]domain.Genre, error)
	CreateFunc func(ctx context.Context, genre *domain.Genre) error
}

func (m *MockGenreRepo) GetAll(ctx context.Context) ([]domain.Genre, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockGenreRepo) Create(ctx context.Context, genre *domain.Genre) error {
	return m.CreateFunc(ctx, genre)
}

type MockActorRepo struct {
	domain.ActorRepository
	GetAllFunc func(ctx context.Context) ([]domain.Actor, error)
	CreateFunc func(ctx context.Context, actor *domain.Actor) error
}

func (m *MockActorRepo) GetAll(ctx context.Context) ([]domain.Actor, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockActorRepo) Create(ctx context.Context, actor *domain.Actor) error {
	return m.CreateFunc(ctx, actor)
}

type MockTheatreHallRepo struct {
	domain.TheatreHallRepository
	GetAllFunc  func(ctx context.Context) ([]domain.TheatreHall, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.TheatreHall, error)
	CreateFunc  func(ctx context.Context, hall *domain.TheatreHall) error
}

func (m *MockTheatreHallRepo) GetAll(ctx context.Context) ([]domain.TheatreHall, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockTheatreHallRepo) GetById(ctx context.Context, id int) (*domain.TheatreHall, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockTheatreHallRepo) Create(ctx context.Context, hall *domain.TheatreHall) error {
	return m.CreateFunc(ctx, hall)
}
