package cmd

import (
	"fmt"

	"github.com/elyor0529/membuf/internal/output"
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

func addScanCommand(rootCmd *cobra.Command) {
	var size uint64
	var min, max uint64

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Find where a buffer of a given size would land, without creating it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			geometry, err := resolveGeometry()
			if err != nil {
				return err
			}
			_, newPages := resolveTarget()
			window, err := buildWindow(min, max)
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{"size": size, "window": window.String()}).Debug("scanning for placement")
			result, err := geometry.Place(newPages(), size, window)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.PrintJSON(cmd.OutOrStdout(), map[string]uint64{
					"address":    result.Address,
					"total_size": result.TotalSize,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "address=%#x total_size=%d\n", result.Address, result.TotalSize)
			return nil
		},
	}

	flags := scanCmd.Flags()
	flags.Uint64Var(&size, "size", 256, "Payload size in bytes to place room for")
	flags.Uint64Var(&min, "min", 0, "Lower bound of the search window")
	flags.Uint64Var(&max, "max", ^uint64(0), "Upper bound of the search window")

	rootCmd.AddCommand(scanCmd)
}
