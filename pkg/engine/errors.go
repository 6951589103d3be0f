package engine

import (
	"fmt"

	"github.com/scriptcast/scriptcast/pkg/script"
)

// ExitStatusError reports a command whose exit code violated the statement's
// expect policy. It halts the remaining statements; events already written
// stay written.
type ExitStatusError struct {
	Expected script.Expect
	Actual   int
	Command  string
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("command %q: expected %s, got exit code %d",
		e.Command, e.Expected, e.Actual)
}

// SpawnError reports a shell process that could not be started. Fatal: the
// remaining statements are not attempted.
type SpawnError struct {
	Shell string
	Err   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Shell, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
