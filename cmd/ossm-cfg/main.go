// Ossm-cfg is a configuration utility for OSSM sensor-monitoring controllers.
//
// It talks J1939 over CAN to configure sensor inputs: SPN assignments,
// thermistor and transducer calibrations, thermocouple types, and persistent
// save/reset. It also includes a live telemetry dashboard for the
// controller's periodic broadcasts.
//
// Usage:
//
//	ossm-cfg [command] [flags]
//
// Running without arguments launches the live telemetry monitor.
// See 'ossm-cfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ossmdev/ossmcfg/internal/logging"
	"github.com/ossmdev/ossmcfg/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ossm-cfg",
	Short: "OSSM Controller Configuration Utility",
	Long: `A standalone utility for configuring OSSM sensor-monitoring controllers.

Provides SPN assignment, calibration presets, raw calibration parameters,
persistent save/reset, and a live telemetry dashboard, all over J1939 CAN
(directly via SocketCAN or through an ossm-bridge WebSocket relay).

If no command is specified, the live monitor will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the monitor when no subcommand provided
		return runMonitor(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ossm-cfg %s (commit: %s)\n", version.Version, version.Commit)
	},
}
