// Command ringbuf drives a fixed-capacity ring buffer with a simulated sensor.
//
// Usage:
//
//	ringbuf scenario            walk through the protected write/read protocol
//	ringbuf run [flags]         sample a sensor into a ring buffer and drain it
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ringbuf",
	Short:         "Fixed-capacity ring buffer toolkit",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newScenarioCmd())
	rootCmd.AddCommand(newRunCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
