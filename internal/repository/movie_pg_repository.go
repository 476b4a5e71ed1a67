package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movielist/internal/model"
)

// PGMovieRepo is the PostgreSQL movie gateway built on sqlx.
type PGMovieRepo struct {
	db *sqlx.DB
}

func NewPGMovieRepo(db *sqlx.DB) *PGMovieRepo {
	return &PGMovieRepo{db: db}
}

func (r *PGMovieRepo) FindAll(ctx context.Context) ([]model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY id`

	var rows []movieRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}

	movies := make([]model.Movie, len(rows))
	for i, row := range rows {
		movies[i] = row.toModel()
	}
	return movies, nil
}

func (r *PGMovieRepo) FindByID(ctx context.Context, id uint64) (*model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	var row movieRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to load movie by id: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

func (r *PGMovieRepo) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE title = $1 ORDER BY id LIMIT 1`

	var row movieRow
	if err := r.db.GetContext(ctx, &row, query, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to load movie by title: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

func (r *PGMovieRepo) Insert(ctx context.Context, m *model.Movie) error {
	query := `
		INSERT INTO movies (title, description, year, director, rating)
		VALUES (:title, :description, :year, :director, :rating)
		RETURNING id
	`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var id uint64
	if err := stmt.GetContext(ctx, &id, rowFromModel(*m)); err != nil {
		return fmt.Errorf("failed to store movie: %w", err)
	}
	m.ID = id
	return nil
}

func (r *PGMovieRepo) DeleteByID(ctx context.Context, id uint64) error {
	query := `DELETE FROM movies WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	return nil
}
