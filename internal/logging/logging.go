/*
Logging setup for the scriptcast binaries. Recordings write the asciicast to
stdout, so diagnostics always go to a file (or stderr for the server).
*/
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// ToFile sends all log output to the given file, creating it if needed.
func ToFile(dest string, verbose bool) error {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	configure(verbose)
	return nil
}

// ToStderr keeps log output on stderr, for long-running foreground commands.
func ToStderr(verbose bool) {
	log.SetOutput(os.Stderr)
	configure(verbose)
}

func configure(verbose bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
