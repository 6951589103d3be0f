/*
Package ptyexec runs a single shell command under a pseudo terminal and
exposes its merged stdout/stderr stream plus the eventual exit code.

The PTY gives the child a real terminal: line-buffered tools behave the way
they do interactively, and the line discipline converts \n to \r\n, which is
exactly what a terminal recording wants.
*/
package ptyexec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	ptyDevice "github.com/creack/pty"
)

// Cmd is a live PTY-backed command.
type Cmd struct {
	cmd *exec.Cmd
	f   *os.File
}

// Start spawns `shell -c command` in a fresh PTY rooted at dir. env is the
// complete environment of the child; pass a restricted set rather than
// os.Environ().
func Start(shell, command, dir string, env []string) (*Cmd, error) {
	cmd := exec.Command(shell, "-c", command)
	cmd.Dir = dir
	cmd.Env = env
	f, err := ptyDevice.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("start %s -c %q: %w", shell, command, err)
	}
	return &Cmd{cmd: cmd, f: f}, nil
}

// Read reads the next chunk of the child's merged output. Returns io.EOF
// once the child has exited and the stream drained; on Linux the kernel
// reports that condition as EIO on the master side.
func (c *Cmd) Read(b []byte) (int, error) {
	n, err := c.f.Read(b)
	if err != nil && errors.Is(err, syscall.EIO) {
		return n, io.EOF
	}
	return n, err
}

// Wait blocks until the child exits and returns its exit code. The PTY
// master is closed afterwards.
func (c *Cmd) Wait() (int, error) {
	defer c.f.Close()
	err := c.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Stop terminates the child and its whole process group. The PTY child is a
// session leader, so a negative-pid signal reaches any foreground job it
// spawned. SIGTERM first; shells tend to ignore it, hence the SIGKILL.
func (c *Cmd) Stop() error {
	if c.cmd.Process == nil {
		return nil
	}
	pid := c.cmd.Process.Pid
	_ = syscall.Kill(-pid, syscall.SIGTERM)
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	return c.f.Close()
}
