package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/elyor0529/membuf"
	"github.com/elyor0529/membuf/internal/output"
	"github.com/spf13/cobra"
)

func addAppendCommand(rootCmd *cobra.Command) {
	var addr uint64
	var hexData string

	appendCmd := &cobra.Command{
		Use:   "append",
		Short: "Append bytes to an existing buffer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hex.DecodeString(hexData)
			if err != nil {
				return fmt.Errorf("decoding --hex: %w", err)
			}

			source, _ := resolveTarget()
			buf, ok := membuf.FromAddress(source, addr)
			if !ok {
				return membuf.ErrNotABuffer
			}

			written, err := buf.Append(data)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.PrintJSON(cmd.OutOrStdout(), map[string]uint64{"address": written})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes at %#x\n", len(data), written)
			return nil
		},
	}

	flags := appendCmd.Flags()
	flags.Uint64Var(&addr, "addr", 0, "Address of the buffer's magic/header (required)")
	flags.StringVar(&hexData, "hex", "", "Hex-encoded payload to append (required)")
	appendCmd.MarkFlagRequired("addr")
	appendCmd.MarkFlagRequired("hex")

	rootCmd.AddCommand(appendCmd)
}
