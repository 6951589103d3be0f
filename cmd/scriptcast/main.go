/*
scriptcast records terminal sessions from scripts instead of live typing.
A script describes the session line by line; the recorder turns it into an
asciicast, optionally executing the commands for real to capture their
output. Diagnostics go to a log file so the cast on stdout stays clean.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scriptcast/scriptcast/internal/cfg"
	"github.com/scriptcast/scriptcast/internal/logging"
)

var (
	verbose bool
	logDest string
)

var rootCmd = &cobra.Command{
	Use:           "scriptcast",
	Short:         "Record terminal sessions from scripts",
	Version:       cfg.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.ToFile(logDest, verbose)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scriptcast version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scriptcast %s\n", cfg.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logDest, "log", "/tmp/scriptcast.log", "Log file destination")
	rootCmd.AddCommand(recordCmd, playCmd, serveCmd, initCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scriptcast: %s\n", err)
		os.Exit(1)
	}
}
