package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/mylist/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file from the template when missing, then initializes the
// configured store. For sqlite this runs all migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	if config.Database.Driver != shared.DriverSQLite {
		r.logger.Info("no migrations needed", "driver", config.Database.Driver)
		return r.writePlain("%s store needs no setup\n", config.Database.Driver)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.NewMigrator(db).Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writeOK("database ready at %s", config.Database.Path)
}

// SetupConfig writes the example configuration to --output.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		return fmt.Errorf("%w: --output must not be empty", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writeOK("configuration written to %s", path)
}

// MigrateUp applies pending migrations.
func (r *Runner) MigrateUp(ctx context.Context, cmd *cli.Command) error {
	db, err := r.migrationDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.NewMigrator(db).Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return r.writeOK("migrations applied")
}

// MigrateRollback rolls back the most recently applied migration.
func (r *Runner) MigrateRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.migrationDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.NewMigrator(db).Rollback(ctx); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return r.writeOK("rolled back most recent migration")
}

// MigrateStatus prints every known migration and whether it is applied.
func (r *Runner) MigrateStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.migrationDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := shared.NewMigrator(db).Status(ctx)
	if err != nil {
		return err
	}

	for _, s := range status {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		if err := r.writePlain("%04d  %-32s %s\n", s.Version, s.Name, state); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) migrationDatabase(cmd *cli.Command) (*sql.DB, error) {
	config, err := r.resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	if config.Database.Driver != shared.DriverSQLite {
		return nil, fmt.Errorf("%w: migrations apply to the %s driver only, got %s",
			shared.ErrInvalidConfig, shared.DriverSQLite, config.Database.Driver)
	}

	return r.openDatabase(config)
}

func (r *Runner) openDatabase(config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	return db, nil
}
