// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in MovieEvent.Type.
const (
    MovieCreated = "movie.created"
    MovieDeleted = "movie.deleted"
)

// MovieEvent is published after a catalog write succeeds.  It carries enough
// of the movie for downstream consumers to log or index the change without
// querying the database.  Delete events only know the id.
type MovieEvent struct {
    Type       string `json:"type"`
    MovieID    uint64 `json:"movie_id"`
    Title      string `json:"title,omitempty"`
    Year       string `json:"year,omitempty"`
    Director   string `json:"director,omitempty"`
    Rating     int    `json:"rating,omitempty"`
    OccurredAt string `json:"occurred_at"`
}
