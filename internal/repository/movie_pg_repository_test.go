package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movielist/internal/model"
)

type pgResources struct {
	mock sqlmock.Sqlmock
	repo *PGMovieRepo
	ctx  context.Context
}

func initPGResources(t *testing.T) *pgResources {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &pgResources{
		mock: mock,
		repo: NewPGMovieRepo(sqlx.NewDb(db, "sqlmock")),
		ctx:  context.Background(),
	}
}

func TestPGMovieRepoFindAll(t *testing.T) {
	r := initPGResources(t)
	r.mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, year, director, rating FROM movies ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(movieRowColumns).
			AddRow(1, "Inception", "A thriller", "2010", "Nolan", 9).
			AddRow(2, "The Matrix", "Sci-fi action", "1999", "Wachowskis", 10))

	movies, err := r.repo.FindAll(r.ctx)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "The Matrix", movies[1].Title)
	assert.NoError(t, r.mock.ExpectationsWereMet())
}

func TestPGMovieRepoFindByID(t *testing.T) {
	testCases := []struct {
		name        string
		setupMocks  func(r *pgResources)
		expectErr   error
		expectTitle string
	}{
		{
			name: "Should load movie",
			setupMocks: func(r *pgResources) {
				r.mock.ExpectQuery(regexp.QuoteMeta("FROM movies WHERE id = $1")).
					WithArgs(uint64(1)).
					WillReturnRows(sqlmock.NewRows(movieRowColumns).
						AddRow(1, "Inception", "A thriller", "2010", "Nolan", 9))
			},
			expectTitle: "Inception",
		},
		{
			name: "Should map no rows to ErrMovieNotFound",
			setupMocks: func(r *pgResources) {
				r.mock.ExpectQuery(regexp.QuoteMeta("FROM movies WHERE id = $1")).
					WithArgs(uint64(1)).
					WillReturnError(sql.ErrNoRows)
			},
			expectErr: ErrMovieNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := initPGResources(t)
			tc.setupMocks(r)

			m, err := r.repo.FindByID(r.ctx, 1)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectTitle, m.Title)
		})
	}
}

func TestPGMovieRepoFindByTitleNotFound(t *testing.T) {
	r := initPGResources(t)
	r.mock.ExpectQuery(regexp.QuoteMeta("FROM movies WHERE title = $1 ORDER BY id LIMIT 1")).
		WithArgs("NonExistent").
		WillReturnRows(sqlmock.NewRows(movieRowColumns))

	m, err := r.repo.FindByTitle(r.ctx, "NonExistent")
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestPGMovieRepoInsertReturnsID(t *testing.T) {
	r := initPGResources(t)
	m := &model.Movie{Title: "Inception", Description: "A thriller", Year: "2010", Director: "Nolan", Rating: 9}

	r.mock.ExpectPrepare("INSERT INTO movies").
		ExpectQuery().
		WithArgs(m.Title, m.Description, m.Year, m.Director, m.Rating).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	require.NoError(t, r.repo.Insert(r.ctx, m))
	assert.Equal(t, uint64(11), m.ID)
	assert.NoError(t, r.mock.ExpectationsWereMet())
}

func TestPGMovieRepoDeleteByID(t *testing.T) {
	r := initPGResources(t)
	r.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id = $1")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, r.repo.DeleteByID(r.ctx, 5))

	r.mock.ExpectExec("DELETE FROM movies").
		WillReturnError(errors.New("delete error"))
	err := r.repo.DeleteByID(r.ctx, 5)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete movie")
}
