package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"prepwise/internal/infrastructure/config"
	"prepwise/internal/infrastructure/database"
	"prepwise/internal/infrastructure/migration"
	"prepwise/internal/shared/logger"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply pending migrations, roll back, and check status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initEnv(); err != nil {
				return err
			}
			defer database.Close()

			strategy := migration.NewGooseStrategy(scriptsPath())
			manager := migration.NewManagerWithStrategy(strategy)
			return manager.Migrate(database.Get(), migration.Models()...)
		},
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initEnv(); err != nil {
				return err
			}
			defer database.Close()

			strategy := migration.NewGooseStrategy(scriptsPath()).(*migration.GooseStrategy)
			return strategy.Down(database.Get(), steps)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initEnv(); err != nil {
				return err
			}
			defer database.Close()

			strategy := migration.NewGooseStrategy(scriptsPath()).(*migration.GooseStrategy)
			return strategy.Status(database.Get())
		},
	}
}

func initEnv() error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

func scriptsPath() string {
	path, _ := filepath.Abs("./internal/infrastructure/migration/scripts")
	return path
}
