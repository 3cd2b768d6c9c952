package migration

import (
	"errors"
	"fmt"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"path"
	"strconv"
)

const migrationDir = "migrations/mysql"

func newMigrate(rootDir string, databaseURL string) *migrate.Migrate {
	sourceURL := "file://" + path.Join(rootDir, migrationDir)
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		panic(err)
	}
	return m
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// MigrateUpForTesting runs all up migrations, panics on error
func MigrateUpForTesting(rootDir string, databaseURL string) {
	m := newMigrate(rootDir, databaseURL)
	defer func() { _, _ = m.Close() }()

	if err := ignoreNoChange(m.Up()); err != nil {
		panic(err)
	}
}

// MigrateCommand returns the root migrate command with up, down and force sub commands
func MigrateCommand(databaseURL string) *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "database migration",
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "migrate up to the latest version",
			RunE: func(cmd *cobra.Command, args []string) error {
				m := newMigrate(".", databaseURL)
				defer func() { _, _ = m.Close() }()
				return ignoreNoChange(m.Up())
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "migrate down by number of steps, default 1",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) > 0 {
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid steps %q: %w", args[0], err)
					}
					steps = n
				}

				m := newMigrate(".", databaseURL)
				defer func() { _, _ = m.Close() }()
				return ignoreNoChange(m.Steps(-steps))
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "force set the migration version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}

				m := newMigrate(".", databaseURL)
				defer func() { _, _ = m.Close() }()
				return m.Force(version)
			},
		},
	)
	return root
}
