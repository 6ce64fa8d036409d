package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/infrastructure/migration"
	"github.com/fueltire/receipts/internal/infrastructure/persistence"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the settings store schema",
		Long: "Apply or roll back the embedded settings store migrations.\n" +
			"The database comes from [database] in config.toml and FTS_DATABASE_* variables.",
	}

	withMigrator := func(fn func(*migration.Migrator, []string) error) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, args []string) error {
			return runMigrator(v, args, fn)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "step <n>",
			Short: "Apply n migrations, negative n rolls back (use -- before a negative n)",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(m *migration.Migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(m *migration.Migrator, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(version)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrator(v, nil, func(m *migration.Migrator, _ []string) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					state := "clean"
					if dirty {
						state = "dirty"
					}
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d (%s)\n", version, state)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the embedded migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				names, err := migration.List()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			},
		},
	)
	return cmd
}

// runMigrator opens the configured settings store and hands a migrator to fn
func runMigrator(v *viper.Viper, args []string, fn func(*migration.Migrator, []string) error) error {
	cfg, log, err := loadConfig(v)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.OpenSQL(&cfg.Database)
	if err != nil {
		return err
	}

	m, err := migration.New(db, cfg.Database.Driver, log.Named("migrate"))
	if err != nil {
		_ = db.Close()
		return err
	}
	// closing the migrator closes db as well
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	log.Info("Settings store opened", zap.String("driver", cfg.Database.Driver))
	return fn(m, args)
}
