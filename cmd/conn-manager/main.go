// Conn-manager keeps an embedded device's uplink in the desired state.
//
// It owns the connect/disconnect lifecycle against an MQTT broker, buffers
// diagnostic log lines while offline, drives the provisioning-mode indicator
// circuit from connection state, and serves a small HTTP status page.
//
// Usage:
//
//	conn-manager run [flags]
//
// See 'conn-manager run --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "conn-manager",
	Short: "Device connectivity lifecycle manager",
	Long: `Conn-manager centralizes the "are we online" decision for an embedded
network device: it arbitrates connect/disconnect requests, reconciles the
believed link state against the transport with a polling watchdog, defers
work until connectivity exists, buffers diagnostics while offline, and
drives the provisioning-mode indicator circuit.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(runCmd)
}
