package repository

import "github.com/iliyamo/movielist/internal/model"

// movieColumns lists the selected columns in scan order.
const movieColumns = "id, title, description, year, director, rating"

// movieRow is the storage shape of a movie.  The db tags serve sqlx and the
// gorm tags serve the SQLite gateway; both map onto the same `movies` table.
type movieRow struct {
	ID          uint64 `db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Title       string `db:"title" gorm:"column:title;size:255;not null;default:''"`
	Description string `db:"description" gorm:"column:description;type:text;not null;default:''"`
	Year        string `db:"year" gorm:"column:year;size:32;not null;default:''"`
	Director    string `db:"director" gorm:"column:director;size:255;not null;default:''"`
	Rating      int    `db:"rating" gorm:"column:rating;not null;default:0"`
}

// TableName pins the gorm table name to `movies`.
func (movieRow) TableName() string { return "movies" }

func (r movieRow) toModel() model.Movie {
	return model.Movie{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Year:        r.Year,
		Director:    r.Director,
		Rating:      r.Rating,
	}
}

func rowFromModel(m model.Movie) movieRow {
	return movieRow{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Year:        m.Year,
		Director:    m.Director,
		Rating:      m.Rating,
	}
}
