package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"placeprep/internal/config"
	"placeprep/internal/database"
	"placeprep/internal/database/migration"
	dbpostgres "placeprep/internal/database/postgres"
	"placeprep/internal/database/seeder"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	migrationsDir string
	timeout       time.Duration
	onlySeeders   []string
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the placement database schema and seed data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db database.DB) error {
			if err := runner().Run(ctx, db.SQLDB()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Printf("migrations applied")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply pending migrations, then load practice topics and questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db database.DB) error {
			if err := runner().Run(ctx, db.SQLDB()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			all := seeder.Runner{Seeders: seeder.Defaults(), Logger: log.New(os.Stdout, "", log.LstdFlags)}
			r, err := all.Select(onlySeeders...)
			if err != nil {
				return err
			}
			return r.Run(ctx, db)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether each has been applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db database.DB) error {
			st, err := runner().Status(ctx, db.SQLDB())
			if err != nil {
				return err
			}

			return renderStatus(cmd.OutOrStdout(), st)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "read migrations from this directory instead of the embedded set")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")

	seedCmd.Flags().StringSliceVar(&onlySeeders, "only", nil, "run only these seeders (topics, questions)")

	rootCmd.AddCommand(upCmd, seedCmd, statusCmd)
}

func runner() migration.Runner {
	return migration.Runner{Dir: migrationsDir}
}

func withDB(cmd *cobra.Command, fn func(ctx context.Context, db database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	return fn(ctx, db)
}

func renderStatus(w io.Writer, st []migration.Status) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Version", "Name", "Applied At", "Note"})
	for _, s := range st {
		applied, note := "pending", ""
		if s.AppliedAt != nil {
			applied = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		if s.Drifted {
			note = "checksum changed"
		}
		if err := table.Append([]string{strconv.FormatInt(s.Version, 10), s.Name, applied, note}); err != nil {
			return err
		}
	}
	return table.Render()
}
