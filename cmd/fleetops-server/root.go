package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fleetops-server",
	Short: "Drone fleet operations server",
	Long:  "fleetops-server runs the fleet telemetry hub: REST API, websocket fan-out, airspace checks, and telemetry synthesis.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
