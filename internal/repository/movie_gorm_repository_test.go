package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movielist/internal/database"
	"github.com/iliyamo/movielist/internal/model"
)

func newGormRepo(t *testing.T) *GormMovieRepo {
	db, err := database.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := NewGormMovieRepo(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func TestGormMovieRepoRoundTrip(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	in := model.Movie{Title: "Inception", Description: "A mind-bending thriller", Year: "2010", Director: "Christopher Nolan", Rating: 9}
	stored := in
	require.NoError(t, repo.Insert(ctx, &stored))
	assert.Equal(t, uint64(1), stored.ID)

	got, err := repo.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.True(t, in.Equal(*got))
	assert.Equal(t, stored.ID, got.ID)

	byTitle, err := repo.FindByTitle(ctx, "Inception")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, byTitle.ID)

	require.NoError(t, repo.DeleteByID(ctx, stored.ID))
	require.NoError(t, repo.DeleteByID(ctx, stored.ID))

	_, err = repo.FindByID(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestGormMovieRepoFindByTitleReturnsFirstMatch(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	first := model.Movie{Title: "Dune", Year: "1984", Director: "David Lynch", Rating: 6}
	second := model.Movie{Title: "Dune", Year: "2021", Director: "Denis Villeneuve", Rating: 8}
	require.NoError(t, repo.Insert(ctx, &first))
	require.NoError(t, repo.Insert(ctx, &second))

	got, err := repo.FindByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.FindByTitle(ctx, "dune")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestGormMovieRepoListReturnsAllInserted(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()

	titles := []string{"Alien", "Heat", "Memento"}
	for _, title := range titles {
		m := model.Movie{Title: title}
		require.NoError(t, repo.Insert(ctx, &m))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(titles))
	for i, m := range all {
		assert.Equal(t, titles[i], m.Title)
	}
}
