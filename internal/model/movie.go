package model

// Movie is the single catalog entry served by the API.  It corresponds to a
// row in the `movies` table.
//
// Fields:
//  ID          – primary key, assigned by the database on insert (0 before).
//  Title       – free-form title; not unique.
//  Description – free-form synopsis.
//  Year        – release year kept as text, never parsed.
//  Director    – free-form director name.
//  Rating      – integer rating without an enforced range.
type Movie struct {
    ID          uint64 `json:"id"`          // movies.id
    Title       string `json:"title"`       // movies.title
    Description string `json:"description"` // movies.description
    Year        string `json:"year"`        // movies.year
    Director    string `json:"director"`    // movies.director
    Rating      int    `json:"rating"`      // movies.rating
}

// Equal reports whether two movies describe the same film.  The ID is not
// part of the comparison, so two separately persisted copies are equal.
func (m Movie) Equal(o Movie) bool {
    return m.Title == o.Title &&
        m.Description == o.Description &&
        m.Year == o.Year &&
        m.Director == o.Director &&
        m.Rating == o.Rating
}
