package cmd

import (
	"fmt"
	"os"

	"github.com/elyor0529/membuf/internal/config"
	"github.com/elyor0529/membuf/internal/output"
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

var Version = "dev"

var (
	jsonFlag    bool
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool
	ConfigDir   string
	PID         int
)

func NewRootCmd() *cobra.Command {
	cmd := newRootCmd()
	addConfigCommands(cmd)
	addScanCommand(cmd)
	addCreateCommand(cmd)
	addDiscoverCommand(cmd)
	addAppendCommand(cmd)
	addInspectCommand(cmd)
	return cmd
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "membufctl",
		Short:         "Inspect and drive range-constrained memory buffers",
		Long:          "membufctl — scan, create, and browse range-constrained virtual memory buffers in a local or remote process.",
		Version:       fmt.Sprintf("membufctl v%s", Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verboseFlag && quietFlag {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			if jsonFlag {
				quietFlag = true
			}
			output.SetFlags(jsonFlag, quietFlag, verboseFlag)

			config.SetConfigDir(ConfigDir)
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				level = log.WarnLevel
			}
			if verboseFlag {
				level = log.DebugLevel
			}
			if quietFlag {
				level = log.ErrorLevel
			}
			log.SetLevel(level)
			log.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pflags := rootCmd.PersistentFlags()
	pflags.BoolVarP(&jsonFlag, "json", "j", false, "Output as JSON")
	pflags.BoolVarP(&verboseFlag, "verbose", "v", false, "Debug-level logging to stderr")
	pflags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	pflags.BoolVar(&noColorFlag, "no-color", false, "Accepted for compatibility; has no effect on output")
	pflags.StringVar(&ConfigDir, "config-dir", "", "Override config directory (default: ~/.membuf)")
	pflags.IntVar(&PID, "pid", 0, "Target process ID (0 = current process)")

	if v := os.Getenv("MEMBUF_HOME"); v != "" && ConfigDir == "" {
		ConfigDir = v
	}
	if os.Getenv("NO_COLOR") != "" {
		noColorFlag = true
	}
	if os.Getenv("MEMBUF_JSON") == "1" {
		jsonFlag = true
	}

	return rootCmd
}

func Execute() error {
	cmd := NewRootCmd()
	return cmd.Execute()
}
