package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/models"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage the table pool",
	}
	cmd.AddCommand(newTablesAddCmd())
	cmd.AddCommand(newTablesListCmd())
	return cmd
}

func newTablesAddCmd() *cobra.Command {
	var capacity int
	c := &cobra.Command{
		Use:   "add",
		Short: "Add a table with the given capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			t := models.Table{Capacity: capacity}
			if err := store.CreateTable(cmd.Context(), &t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created table %d (capacity %d)\n", t.ID, t.Capacity)
			return nil
		},
	}
	c.Flags().IntVar(&capacity, "capacity", 0, "number of seats")
	_ = c.MarkFlagRequired("capacity")
	return c
}

func newTablesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tables, smallest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()
			return printTables(cmd, store)
		},
	}
}

func printTables(cmd *cobra.Command, store *database.Store) error {
	tables, err := store.ListTables(cmd.Context())
	if err != nil {
		return err
	}
	return writeTables(cmd.OutOrStdout(), tables)
}

func writeTables(out io.Writer, tables []models.Table) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCAPACITY")
	for _, t := range tables {
		fmt.Fprintf(w, "%d\t%d\n", t.ID, t.Capacity)
	}
	return w.Flush()
}
