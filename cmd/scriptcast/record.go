package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/scriptcast/scriptcast/pkg/asciicast"
	"github.com/scriptcast/scriptcast/pkg/engine"
	"github.com/scriptcast/scriptcast/pkg/script"
)

var (
	recordOutput    string
	recordExecute   bool
	recordTimestamp bool
)

var recordCmd = &cobra.Command{
	Use:   "record [script]",
	Short: "Record a script into an asciicast",
	Long: `Record reads a script from the given file (or stdin) and writes an
asciicast v2 recording to stdout or the file given with --output.

By default commands are only simulated. With --execute each command
statement is run in a fresh shell and its output captured into the cast.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "", "Write the cast to this file instead of stdout")
	recordCmd.Flags().BoolVarP(&recordExecute, "execute", "x", false, "Execute command statements and capture their output")
	recordCmd.Flags().BoolVarP(&recordTimestamp, "timestamp", "t", false, "Stamp the recording header with the current time")
}

func runRecord(cmd *cobra.Command, args []string) error {
	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	if recordOutput != "" {
		f, err := os.Create(recordOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	parser := script.NewParser(in)
	parser.Probe = termSize
	header, err := parser.Header()
	if err != nil {
		return err
	}

	cast := asciicast.NewWriter(out)
	eng, err := engine.New(header, cast, engine.Options{
		Execute:   recordExecute,
		Timestamp: recordTimestamp,
	})
	if err != nil {
		return err
	}

	// A signal kills the running shell so the recording ends cleanly.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		<-sig
		eng.Kill()
	}()

	runErr := eng.Run(parser)
	if err := cast.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// termSize probes the attached terminal for "auto" script dimensions.
func termSize() (int, int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fd = int(os.Stderr.Fd())
		if !term.IsTerminal(fd) {
			return 0, 0, false
		}
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}
