package cmd

import (
	"github.com/elyor0529/membuf"
	"github.com/elyor0529/membuf/internal/config"
	"github.com/elyor0529/membuf/internal/output"
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

func addCreateCommand(rootCmd *cobra.Command) {
	var size uint64
	var min, max uint64
	var retries int
	var alignment uint32

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new buffer sized to hold at least --size bytes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("retries") {
				retries = cfg.DefaultRetries
			}
			if !cmd.Flags().Changed("min") {
				min = cfg.DefaultMin
			}
			if !cmd.Flags().Changed("max") {
				max = cfg.DefaultMax
			}
			if !cmd.Flags().Changed("alignment") {
				alignment = cfg.DefaultAlignment
			}

			geometry, err := resolveGeometry()
			if err != nil {
				return err
			}
			source, newPages := resolveTarget()
			window, err := buildWindow(min, max)
			if err != nil {
				return err
			}

			h := membuf.NewHelper(source, newPages, geometry)
			log.WithFields(log.Fields{"size": size, "retries": retries, "alignment": alignment}).Debug("creating buffer")
			buf, err := h.CreateBufferAligned(size, window, retries, alignment)
			if err != nil {
				return err
			}

			snap, err := output.SnapshotOf(buf)
			if err != nil {
				return err
			}
			return output.PrintBuffer(cmd.OutOrStdout(), snap)
		},
	}

	flags := createCmd.Flags()
	flags.Uint64Var(&size, "size", 4096, "Payload size in bytes; header overhead is added on top")
	flags.Uint64Var(&min, "min", 0, "Lower bound of the search window")
	flags.Uint64Var(&max, "max", ^uint64(0), "Upper bound of the search window")
	flags.IntVar(&retries, "retries", 3, "Placement attempts before giving up")
	flags.Uint32Var(&alignment, "alignment", membuf.DefaultAlignment, "Header alignment in bytes for append offsets")

	rootCmd.AddCommand(createCmd)
}
