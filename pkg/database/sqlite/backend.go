package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	gomigratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	sqlite "github.com/mattn/go-sqlite3"
	"github.com/terrycain/station-tv-server/pkg/database/sqlstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Backend struct {
	*sqlstore.Store
}

// NewSQLiteBackend opens the database file and brings its schema up to date. A single connection
// keeps writers from tripping over sqlite's file lock.
func NewSQLiteBackend(connectionString string) (*Backend, error) {
	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	backend := &Backend{Store: &sqlstore.Store{DB: db, Q: queries, IsUnique: isUnique}}
	if err = backend.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *Backend) Type() string { return "sqlite" }

func (b *Backend) Migrate() error {
	driver, err := gomigratesqlite.WithInstance(b.DB, &gomigratesqlite.Config{})
	if err != nil {
		return err
	}
	return sqlstore.Migrate(migrations, "migrations", "sqlite", driver)
}

func (b *Backend) Close() error { return b.DB.Close() }

func isUnique(err error) bool {
	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) {
		return errors.Is(sqliteErr.ExtendedCode, sqlite.ErrConstraintUnique) ||
			errors.Is(sqliteErr.ExtendedCode, sqlite.ErrConstraintPrimaryKey)
	}
	return false
}
