// Package migration creates the schema on startup so the service is usable
// out of the box for local and self-hosted deployments.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	profiledomain "github.com/smallbiznis/subsense/internal/profile/domain"
	reminderdomain "github.com/smallbiznis/subsense/internal/reminder/domain"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"gorm.io/gorm"
)

// RunMigrations applies the embedded SQL migrations against postgres.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate builds the schema from the models for the embedded sqlite
// backend, where the versioned SQL does not apply.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&profiledomain.Profile{},
		&reminderdomain.ReminderSettings{},
		&reminderdomain.ReminderEvent{},
	)
}
