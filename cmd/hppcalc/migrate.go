package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/hpp/internal/db"
	"github.com/Simplici0/hpp/internal/migrations"
	"github.com/Simplici0/hpp/internal/seed"
)

var (
	flagDBPath      string
	flagSeedCompany string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Apply pending schema migrations to the server's sqlite database, optionally seeding a default pricing rule.",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&flagDBPath, "db", "./dev.db", "sqlite database path")
	migrateCmd.Flags().StringVar(&flagSeedCompany, "seed-company", "", "Seed a default pricing rule for this company")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	database, err := db.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return err
	}
	version, err := migrations.Version(database)
	if err != nil {
		return err
	}
	fmt.Printf("  Schema version: %d\n", version)

	if flagSeedCompany != "" {
		stats, err := seed.Run(database, seed.Config{CompanyID: flagSeedCompany})
		if err != nil {
			return err
		}
		fmt.Printf("  Seeded %d pricing rule(s) for %s\n", stats.Inserts, flagSeedCompany)
	}
	return nil
}
