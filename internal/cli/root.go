// Package cli defines the cobra command tree for gatehouse.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/gatehouse/internal/client"
)

var (
	flagFormat string
	flagServer string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gate",
		Short:         "Run and operate a property gatehouse",
		Long:          "A tool for guards and property managers. Register visitors, check them in and out at the gate, and run the gatehouse API that tracks residents, facilities and announcements.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "gatehouse API URL (default: config, GATE_SERVER_URL or http://localhost:8080)")

	root.AddCommand(
		newServeCmd(),
		newRegisterCmd(),
		newCheckInCmd(),
		newCheckOutCmd(),
		newVisitorsCmd(),
		newSweepCmd(),
		newTokenCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the gatehouse API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
