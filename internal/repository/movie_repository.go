// Package repository contains data access logic separated from HTTP handlers.
// This file defines the MySQL movie gateway used by default.  It performs
// plain CRUD against the `movies` table and reports missing rows with
// ErrMovieNotFound.
package repository

import (
	"context"      // context carries request deadlines into DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors.Is is used to detect sql.ErrNoRows
	"fmt"          // fmt wraps driver errors with the failing operation

	"github.com/iliyamo/movielist/internal/model"
)

// MovieRepo encapsulates all MySQL queries related to movies.  It depends on
// a sql.DB connection which should be configured elsewhere.
type MovieRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// FindAll returns every stored movie ordered by id.  An empty table yields
// an empty, non-nil slice.
func (r *MovieRepo) FindAll(ctx context.Context) ([]model.Movie, error) {
	const q = "SELECT " + movieColumns + " FROM movies ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return out, nil
}

// FindByID fetches a movie by its primary key.  It returns ErrMovieNotFound
// if no row is found.
func (r *MovieRepo) FindByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = "SELECT " + movieColumns + " FROM movies WHERE id = ?"
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("load movie %d: %w", id, err)
	}
	return m, nil
}

// FindByTitle fetches the first movie (lowest id) whose title matches
// exactly.  It returns ErrMovieNotFound if no row matches.  The comparison
// is forced to utf8mb4_bin so tables created with a case-insensitive
// default collation still match byte for byte.
func (r *MovieRepo) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	const q = "SELECT " + movieColumns + " FROM movies WHERE title = ? COLLATE utf8mb4_bin ORDER BY id LIMIT 1"
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("load movie by title: %w", err)
	}
	return m, nil
}

// Insert stores a new movie.  On success the movie's ID field is populated
// with the auto-generated value.
func (r *MovieRepo) Insert(ctx context.Context, m *model.Movie) error {
	const q = "INSERT INTO movies (title, description, year, director, rating) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Year, m.Director, m.Rating)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read movie id: %w", err)
	}
	m.ID = uint64(id)
	return nil
}

// DeleteByID removes the movie with the given id.  Deleting a missing row is
// not an error.
func (r *MovieRepo) DeleteByID(ctx context.Context, id uint64) error {
	const q = "DELETE FROM movies WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete movie %d: %w", id, err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(s rowScanner) (*model.Movie, error) {
	var m model.Movie
	if err := s.Scan(&m.ID, &m.Title, &m.Description, &m.Year, &m.Director, &m.Rating); err != nil {
		return nil, err
	}
	return &m, nil
}
