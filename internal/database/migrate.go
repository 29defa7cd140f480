package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending migration for driver.
// It uses its own connection because closing the migrator closes the database.
func Migrate(driver Driver, dsn string) error {
	var (
		conn     *sql.DB
		instance migratedb.Driver
		err      error
	)

	switch driver {
	case DriverPostgres:
		if conn, err = sql.Open("postgres", dsn); err != nil {
			return fmt.Errorf("open migration database: %w", err)
		}
		instance, err = migratepg.WithInstance(conn, &migratepg.Config{})
	case DriverSQLite:
		if conn, err = sql.Open("sqlite", SQLiteDSN(dsn)); err != nil {
			return fmt.Errorf("open migration database: %w", err)
		}
		instance, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unsupported database driver: %q", driver)
	}
	if err != nil {
		conn.Close()
		return fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(driver))
	if err != nil {
		instance.Close()
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(driver), instance)
	if err != nil {
		instance.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
