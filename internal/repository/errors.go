// Package repository defines error types that are reused across the movie
// gateways. These sentinel values allow higher layers such as the service
// and handlers to distinguish an absent record from a storage failure.
package repository

import "errors"

// ErrMovieNotFound is returned when a lookup by id or title matches no
// row. The service translates it into an absent value.
var ErrMovieNotFound = errors.New("movie not found")

