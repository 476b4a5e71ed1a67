package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/iliyamo/movielist/internal/model"
)

// GormMovieRepo is the movie gateway used with the SQLite driver.  Any gorm
// dialect works; the server only wires it to SQLite.
type GormMovieRepo struct {
	db *gorm.DB
}

func NewGormMovieRepo(db *gorm.DB) *GormMovieRepo {
	return &GormMovieRepo{db: db}
}

func (r *GormMovieRepo) FindAll(ctx context.Context) ([]model.Movie, error) {
	var rows []movieRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}

	movies := make([]model.Movie, len(rows))
	for i, row := range rows {
		movies[i] = row.toModel()
	}
	return movies, nil
}

func (r *GormMovieRepo) FindByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var row movieRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to load movie by id: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

func (r *GormMovieRepo) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	var row movieRow
	err := r.db.WithContext(ctx).Where("title = ?", title).Order("id").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to load movie by title: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

func (r *GormMovieRepo) Insert(ctx context.Context, m *model.Movie) error {
	row := rowFromModel(*m)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store movie: %w", err)
	}
	m.ID = row.ID
	return nil
}

func (r *GormMovieRepo) DeleteByID(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(&movieRow{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	return nil
}

// AutoMigrate creates or updates the movies table for the gorm gateway.
func (r *GormMovieRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&movieRow{})
}
