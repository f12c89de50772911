package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservations/database"
)

func newMigrateCmd() *cobra.Command {
	var seed bool
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema, optionally seeding tables and the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			if seed {
				if err := database.Seed(cmd.Context(), store, database.SeedOptions{
					TableCapacities: cfg.TableCapacities,
					AdminEmail:      cfg.AdminEmail,
					AdminPassword:   cfg.AdminPassword,
				}); err != nil {
					return err
				}
			}
			fmt.Fprintln(os.Stdout, "schema up to date")
			return nil
		},
	}
	c.Flags().BoolVar(&seed, "seed", true, "seed the table pool and admin account when missing")
	return c
}
