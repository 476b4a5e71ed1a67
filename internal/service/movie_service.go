// Package service holds the movie domain operations and the event
// publishers they notify.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iliyamo/movielist/internal/model"
	"github.com/iliyamo/movielist/internal/queue"
	"github.com/iliyamo/movielist/internal/repository"
)

// MovieRepository is the storage gateway contract.  Lookups report a
// missing record with repository.ErrMovieNotFound; DeleteByID succeeds when
// nothing matches.
type MovieRepository interface {
	FindAll(ctx context.Context) ([]model.Movie, error)
	FindByID(ctx context.Context, id uint64) (*model.Movie, error)
	FindByTitle(ctx context.Context, title string) (*model.Movie, error)
	Insert(ctx context.Context, m *model.Movie) error
	DeleteByID(ctx context.Context, id uint64) error
}

// EventPublisher delivers movie events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.MovieEvent) error
}

// MovieService is a thin layer over the gateway.  Its only rule is that an
// absent record is returned as a nil movie rather than an error.
type MovieService struct {
	repo MovieRepository
	pub  EventPublisher
	log  *slog.Logger
}

// NewMovieService wires the gateway and an optional publisher.  A nil
// publisher disables events and a nil logger falls back to slog.Default.
func NewMovieService(repo MovieRepository, pub EventPublisher, log *slog.Logger) *MovieService {
	if repo == nil {
		panic("nil repository passed to NewMovieService")
	}
	if pub == nil {
		pub = NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &MovieService{repo: repo, pub: pub, log: log}
}

// List returns every movie; never nil.
func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return movies, nil
}

// GetByID returns the movie or nil when no record has that id.
func (s *MovieService) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	m, err := s.repo.FindByID(ctx, id)
	return absentIfNotFound(m, err, "get movie by id")
}

// GetByTitle returns the first movie with exactly that title, or nil.
func (s *MovieService) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	m, err := s.repo.FindByTitle(ctx, title)
	return absentIfNotFound(m, err, "get movie by title")
}

// Insert stores the movie and returns it with the assigned id.  Any id on
// the input is ignored.
func (s *MovieService) Insert(ctx context.Context, m model.Movie) (*model.Movie, error) {
	m.ID = 0
	if err := s.repo.Insert(ctx, &m); err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	s.publish(ctx, queue.MovieEvent{
		Type:     queue.MovieCreated,
		MovieID:  m.ID,
		Title:    m.Title,
		Year:     m.Year,
		Director: m.Director,
		Rating:   m.Rating,
	})
	return &m, nil
}

// Delete removes the movie without checking that it exists.
func (s *MovieService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	s.publish(ctx, queue.MovieEvent{Type: queue.MovieDeleted, MovieID: id})
	return nil
}

// publish never fails the caller; the write has already been committed.
func (s *MovieService) publish(ctx context.Context, ev queue.MovieEvent) {
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("publish movie event failed", "type", ev.Type, "movie_id", ev.MovieID, "error", err)
	}
}

func absentIfNotFound(m *model.Movie, err error, op string) (*model.Movie, error) {
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}
