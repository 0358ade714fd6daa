package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debasish218/pg-manager/services"
)

// ErrOccupancyDrift makes check-occupancy exit non-zero when drift is found.
var ErrOccupancyDrift = errors.New("occupancy drift detected")

func CheckOccupancyCmd() *cobra.Command {
	var accountID uint
	cmd := &cobra.Command{
		Use:   "check-occupancy",
		Short: "Report rooms whose occupied count disagrees with their active tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return errors.New("--account is required")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			drift, err := services.NewRoomService(db).Audit(cmd.Context(), accountID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(drift) == 0 {
				fmt.Fprintln(out, "occupancy consistent")
				return nil
			}
			for _, d := range drift {
				fmt.Fprintf(out, "room %d: occupiedBeds=%d activeTenants=%d\n", d.RoomNumber, d.OccupiedBeds, d.ActiveTenants)
			}
			return fmt.Errorf("%w in %d room(s)", ErrOccupancyDrift, len(drift))
		},
	}
	cmd.Flags().UintVar(&accountID, "account", 0, "account id")
	return cmd
}
