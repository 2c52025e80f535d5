// Ossm-bridge relays a SocketCAN interface over WebSocket.
//
// It lets ossm-cfg run on machines without CAN hardware: the bridge runs on
// the host with the CAN adapter (typically a Raspberry Pi near the engine
// bay) and advertises itself via mDNS so clients can find it with
// 'ossm-cfg scan'.
//
// Usage:
//
//	ossm-bridge serve [flags]
//
// See 'ossm-bridge serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ossmdev/ossmcfg/internal/discovery"
	"github.com/ossmdev/ossmcfg/internal/server"
	"github.com/ossmdev/ossmcfg/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ossm-bridge",
	Short: "OSSM CAN-over-WebSocket bridge",
	Long: `A relay daemon exposing a SocketCAN interface over WebSocket.

Run ossm-bridge on the machine physically connected to the CAN bus. Remote
ossm-cfg clients connect with --bridge host:port, or discover the bridge
automatically via mDNS.

Note: For controller configuration and monitoring, use the 'ossm-cfg' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host         string
	port         int
	canInterface string
	instanceName string
	logLevel     string
	noMDNS       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bridge",
	Long: `Start relaying the CAN interface to WebSocket clients.

The bridge is a pure relay and never interprets frames, so any number of
monitor and configuration sessions can share the bus through it. Unless
--no-mdns is given, it advertises an "` + discovery.ServiceType + `" service
so clients can discover it without manual addressing.`,
	Example: `  # Relay can0 on the default port
  ossm-bridge serve

  # Relay a different interface with debug logging
  ossm-bridge serve --interface can1 --log-level debug

  # Custom instance name shown by 'ossm-cfg scan'
  ossm-bridge serve --name garage

  # No mDNS advertisement (clients must use --bridge host:port)
  ossm-bridge serve --no-mdns`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", discovery.DefaultPort, "WebSocket port")
	serveCmd.Flags().StringVar(&canInterface, "interface", "can0", "SocketCAN interface to relay")
	serveCmd.Flags().StringVar(&instanceName, "name", "", "mDNS instance name (default: hostname)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "Disable mDNS advertisement")
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := server.New(&server.Config{
		Host:      host,
		Port:      port,
		Interface: canInterface,
		Name:      instanceName,
		LogLevel:  logLevel,
		NoMDNS:    noMDNS,
	})
	if err != nil {
		return err
	}
	return srv.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ossm-bridge %s (commit: %s)\n", version.Version, version.Commit)
	},
}
