package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema DDL per driver.  Columns mirror model.Movie; text columns default to
// the empty string so partially filled payloads still scan into Go strings.
// The MySQL title column is binary collated: title lookups are exact, never
// case or accent folded.
const (
	mysqlMoviesDDL = `CREATE TABLE IF NOT EXISTS movies (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title       VARCHAR(255) COLLATE utf8mb4_bin NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		year        VARCHAR(32) NOT NULL DEFAULT '',
		director    VARCHAR(255) NOT NULL DEFAULT '',
		rating      INT NOT NULL DEFAULT 0,
		INDEX idx_movies_title (title)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	postgresMoviesDDL = `CREATE TABLE IF NOT EXISTS movies (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(255) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		year        VARCHAR(32) NOT NULL DEFAULT '',
		director    VARCHAR(255) NOT NULL DEFAULT '',
		rating      INTEGER NOT NULL DEFAULT 0
	)`

	postgresTitleIndexDDL = `CREATE INDEX IF NOT EXISTS idx_movies_title ON movies (title)`
)

// EnsureSchema creates the movies table for the given driver ("mysql" or
// "postgres") when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case "mysql":
		stmts = []string{mysqlMoviesDDL}
	case "postgres":
		stmts = []string{postgresMoviesDDL, postgresTitleIndexDDL}
	default:
		return fmt.Errorf("unsupported driver for schema: %q", driver)
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
