package main

import (
	"errors"
	"fmt"

	"github.com/St1cky1/task-manager/internal/config"
	"github.com/St1cky1/task-manager/internal/infrastructure/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMigrateCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Database migration commands",
		Long:    `Manage the postgres schema. The sqlite driver migrates itself on start.`,
	}

	cmd.AddCommand(
		newMigrateUpCommand(configFile),
		newMigrateDownCommand(configFile),
	)

	return cmd
}

func newMigrateUpCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadMigrateConfig(*configFile)
			if err != nil {
				return err
			}
			return runMigrations(cfg, log)
		},
	}
}

func newMigrateDownCommand(configFile *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadMigrateConfig(*configFile)
			if err != nil {
				return err
			}

			m, err := migrate.New(cfg.Migrations, cfg.Postgres.URL())
			if err != nil {
				return fmt.Errorf("failed to init migrations: %w", err)
			}
			defer m.Close()

			if all {
				err = m.Down()
			} else {
				err = m.Steps(-1)
			}
			if err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("failed to roll back: %w", err)
			}

			version, dirty, _ := m.Version()
			log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrations rolled back")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "roll back every migration")
	return cmd
}

func loadMigrateConfig(configFile string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		return nil, nil, fmt.Errorf("migrate supports the %s driver only, got %s", config.DriverPostgres, cfg.Storage.Driver)
	}
	return cfg, logger.New(cfg.Logger), nil
}

// runMigrations applies pending migrations; an up-to-date schema is not an error.
func runMigrations(cfg *config.Config, log logrus.FieldLogger) error {
	m, err := migrate.New(cfg.Migrations, cfg.Postgres.URL())
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrations applied")
	return nil
}
