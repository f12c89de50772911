package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
)

func newReservationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "Inspect reservations",
	}
	cmd.AddCommand(newReservationsListCmd())
	return cmd
}

func newReservationsListCmd() *cobra.Command {
	var date string
	c := &cobra.Command{
		Use:   "list",
		Short: "List the reservations of one date (default today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			day := models.DateOf(time.Now(), cfg.Location)
			if date != "" {
				if day, err = models.ParseDate(date); err != nil {
					return err
				}
			}

			svc := services.NewReservationService(store, services.WithLocation(cfg.Location))
			rs, err := svc.ReservationsOn(cmd.Context(), services.Requester{Role: models.RoleAdmin}, day)
			if err != nil {
				return err
			}
			return writeReservations(cmd.OutOrStdout(), rs)
		},
	}
	c.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD")
	return c
}

func writeReservations(out io.Writer, rs []models.Reservation) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLOT\tTABLE\tGUESTS\tCUSTOMER")
	for _, r := range rs {
		name := "-"
		if r.Customer != nil {
			name = r.Customer.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", r.ID, r.TimeSlot, r.TableID, r.NumberOfGuests, name)
	}
	if len(rs) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	return w.Flush()
}
