package cmd

import (
	"github.com/elyor0529/membuf"
	"github.com/elyor0529/membuf/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func addInspectCommand(rootCmd *cobra.Command) {
	var min, max, minFree uint64

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Browse discovered buffers in a terminal UI",
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
			p := tea.NewProgram(tui.NewApp(h, window, minFree), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	flags := inspectCmd.Flags()
	flags.Uint64Var(&min, "min", 0, "Lower bound of the search window")
	flags.Uint64Var(&max, "max", ^uint64(0), "Upper bound of the search window")
	flags.Uint64Var(&minFree, "min-free", 0, "Only show buffers with at least this many free bytes")

	rootCmd.AddCommand(inspectCmd)
}
