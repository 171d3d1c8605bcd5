package main

import (
	"database/sql"
	"embed"
	"fmt"
	"os"

	"event-booking/pkg/config"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var dir string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the event booking database schema",
	Long:  "Apply, roll back and inspect the goose migrations shared by the auth and core services.",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "read migrations from this directory instead of the embedded set")

	rootCmd.AddCommand(
		gooseCmd("up", "Apply all pending migrations", func(db *sql.DB, d string) error {
			return goose.Up(db, d)
		}),
		gooseCmd("down", "Roll back the latest migration", func(db *sql.DB, d string) error {
			return goose.Down(db, d)
		}),
		gooseCmd("status", "Print the state of every migration", func(db *sql.DB, d string) error {
			return goose.Status(db, d)
		}),
		createCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func gooseCmd(use, short string, run func(db *sql.DB, dir string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := run(db, migrationsDir()); err != nil {
				return fmt.Errorf("goose %s: %w", use, err)
			}
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Scaffold a new SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := dir
			if target == "" {
				target = "cmd/migrate/migrations"
			}
			if err := goose.Create(nil, target, args[0], "sql"); err != nil {
				return fmt.Errorf("failed to create migration: %w", err)
			}
			return nil
		},
	}
}

func migrationsDir() string {
	if dir != "" {
		goose.SetBaseFS(nil)
		return dir
	}
	goose.SetBaseFS(embeddedMigrations)
	return "migrations"
}

func openDB() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}
	return db, nil
}
