// Package cmd provides the command-line interface for basplib-redirect.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "basplib-redirect",
	Short: "Counts down and then sends the browser to the BASPLib pages.",
	Long: `basplib-redirect shows a short countdown and then navigates to ` +
		`https://basp-group.github.io/BASPLib/index.html. The countdown can be ` +
		`shown on stdout or a full-screen terminal, and optionally served as ` +
		`a web page by the built-in monitor.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It runs the exit handlers, such as trace flushes, before
// leaving.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
