package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scriptcast/scriptcast/internal/logging"
	"github.com/scriptcast/scriptcast/pkg/server"
)

var (
	serveHost string
	serveDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a directory of casts over HTTP",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Foreground process; logs belong on stderr here.
		logging.ToStderr(verbose)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := server.New(serveHost, serveDir)
		if err != nil {
			return err
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sig
			s.Stop()
		}()
		return s.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost:3000", "Host address to serve on")
	serveCmd.Flags().StringVar(&serveDir, "dir", ".", "Directory containing .cast files")
}
