package cmd

import (
	"github.com/elyor0529/membuf"
	"github.com/elyor0529/membuf/internal/output"
	"github.com/spf13/cobra"
)

func addDiscoverCommand(rootCmd *cobra.Command) {
	var min, max, minFree uint64
	var noCache bool

	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "List existing buffers visible in the target process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			geometry, err := resolveGeometry()
			if err != nil {
				return err
			}
			source, newPages := resolveTarget()
			h := membuf.NewHelper(source, newPages, geometry)

			window, err := buildWindow(min, max)
			if err != nil {
				return err
			}
			buffers, err := h.GetBuffersInRange(minFree, window, !noCache)
			if err != nil {
				return err
			}

			return output.PrintBuffers(cmd.OutOrStdout(), buffers)
		},
	}

	flags := discoverCmd.Flags()
	flags.Uint64Var(&min, "min", 0, "Lower bound of the search window")
	flags.Uint64Var(&max, "max", ^uint64(0), "Upper bound of the search window")
	flags.Uint64Var(&minFree, "min-free", 0, "Only list buffers with at least this many free bytes")
	flags.BoolVar(&noCache, "no-cache", false, "Force a fresh scan instead of reusing the cached buffer list")

	rootCmd.AddCommand(discoverCmd)
}
