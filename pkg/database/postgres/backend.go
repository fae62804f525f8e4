package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	gomigratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/lib/pq"
	"github.com/terrycain/station-tv-server/pkg/database/sqlstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

const uniqueViolation = "23505"

type Backend struct {
	*sqlstore.Store
}

func NewPostgresBackend(connectionString string) (*Backend, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	backend := &Backend{Store: &sqlstore.Store{DB: db, Q: queries, IsUnique: isUnique}}
	if err = backend.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *Backend) Type() string { return "postgres" }

func (b *Backend) Migrate() error {
	driver, err := gomigratepostgres.WithInstance(b.DB, &gomigratepostgres.Config{})
	if err != nil {
		return err
	}
	return sqlstore.Migrate(migrations, "migrations", "postgres", driver)
}

func (b *Backend) Close() error { return b.DB.Close() }

func isUnique(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
