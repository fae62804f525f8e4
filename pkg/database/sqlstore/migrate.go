package sqlstore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

// Migrate applies the embedded migrations under dir. backend names the driver for migrate and
// for the logs.
func Migrate(migrations fs.FS, dir, backend string, driver database.Driver) error {
	source, err := iofs.New(migrations, dir)
	if err != nil {
		return fmt.Errorf("load %s migrations: %w", backend, err)
	}
	m, err := migrate.NewWithInstance("iofs", source, backend, driver)
	if err != nil {
		return fmt.Errorf("init %s migrations: %w", backend, err)
	}

	log.Info().Str("backend", backend).Msg("Starting database migrations")
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", backend, err)
	}
	version, dirty, _ := m.Version()
	log.Info().Str("backend", backend).Uint("version", version).Bool("dirty", dirty).Msg("Finished database migrations")

	return nil
}
