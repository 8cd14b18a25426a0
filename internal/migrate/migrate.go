// Package migrate applies the versioned SQL schema embedded in the binary.
package migrate

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed sql/*.sql
var scripts embed.FS

// ErrDirty is returned when a previous migration failed half-way.
var ErrDirty = errors.New("database is in dirty state")

// Status describes the schema version recorded in the database.
type Status struct {
	Version uint
	Dirty   bool
}

// Migrator runs schema migrations against a PostgreSQL database.
type Migrator struct {
	db     *sql.DB
	m      *migrate.Migrate
	logger *slog.Logger
}

// New opens a dedicated database/sql connection and prepares the migrator.
// The caller must Close it.
func New(databaseURL string, logger *slog.Logger) (*Migrator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(scripts, "sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{db: db, m: m, logger: logger.With("component", "migrate")}, nil
}

// Status reports the current schema version. Version is 0 on an empty database.
func (g *Migrator) Status() (Status, error) {
	version, dirty, err := g.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Up applies all pending migrations.
func (g *Migrator) Up() error {
	before, err := g.Status()
	if err != nil {
		return err
	}
	if before.Dirty {
		return fmt.Errorf("%w at version %d", ErrDirty, before.Version)
	}

	if err := g.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	after, err := g.Status()
	if err != nil {
		return err
	}

	g.logger.Info("migrations applied",
		"from_version", before.Version,
		"to_version", after.Version,
	)
	return nil
}

// Down rolls back the given number of migrations.
func (g *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	if err := g.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	g.logger.Info("migrations rolled back", "steps", steps)
	return nil
}

// Close releases the migrator and its database connection.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr, g.db.Close())
}

// Up is a convenience wrapper that applies all pending migrations and closes the migrator.
func Up(databaseURL string, logger *slog.Logger) error {
	g, err := New(databaseURL, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	return g.Up()
}
