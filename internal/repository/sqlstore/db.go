// Package sqlstore implements the repository interfaces on sqlx. The same
// queries run against PostgreSQL and the embedded SQLite engine: statements
// are written with ? bindvars and passed through Rebind, and the few DDL
// differences are isolated in the dialect helpers below.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the database named by url. A postgres:// or
// postgresql:// URL selects the PostgreSQL driver; anything else is treated
// as a SQLite file path, so a bare filename gives each service its own
// single-file database with no external server.
func Open(url string) (*sqlx.DB, error) {
	driver, dsn := resolveDSN(url)
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == "sqlite" {
		// The embedded engine serializes writers; a single connection
		// avoids SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func resolveDSN(url string) (driver, dsn string) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", url
	case strings.HasPrefix(url, "sqlite://"):
		return "sqlite", "file:" + strings.TrimPrefix(url, "sqlite://") + "?_pragma=foreign_keys(1)"
	default:
		return "sqlite", "file:" + url + "?_pragma=foreign_keys(1)"
	}
}

// serialPK is the auto-incrementing integer primary key column for the
// connected dialect.
func serialPK(db *sqlx.DB) string {
	if db.DriverName() == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// insertID runs an INSERT and returns the generated id, using RETURNING on
// PostgreSQL and LastInsertId on SQLite. The query must not carry its own
// RETURNING clause.
func insertID(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	if ext.DriverName() == "postgres" {
		var id int64
		err := ext.QueryRowxContext(ctx, ext.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := ext.ExecContext(ctx, ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// getErr maps a row lookup failure: no rows becomes a not-found domain
// error, anything else is wrapped.
func getErr(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}

// pageClause returns LIMIT/OFFSET for 1-based pagination.
func pageClause(page, perPage int) (limit, offset int) {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}
