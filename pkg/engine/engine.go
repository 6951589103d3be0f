/*
Package engine executes parsed script statements in order, producing a timed
asciicast event stream.

The engine owns a virtual clock. Simulated typing (prompts, per-character
command text, print statements) advances it deterministically; captured
process output is spliced onto the same timeline using wall-clock time
elapsed since the spawn. Statements never run concurrently; the only
concurrency is the capture goroutine reading process output while the
process runs.
*/
package engine

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/scriptcast/scriptcast/internal/cfg"
	"github.com/scriptcast/scriptcast/pkg/asciicast"
	"github.com/scriptcast/scriptcast/pkg/ptyexec"
	"github.com/scriptcast/scriptcast/pkg/script"
)

// Options configures a run.
type Options struct {
	// Execute spawns real shells for command statements. When false the
	// engine only simulates the typing.
	Execute bool
	// Timestamp stamps the recording header with the current unix time.
	Timestamp bool
}

// Engine consumes statements strictly in order and writes events to a cast
// writer. Each statement is consumed exactly once.
type Engine struct {
	header *script.Header
	cast   *asciicast.Writer
	opts   Options

	clock time.Duration
	dir   string
	env   []string

	mu      sync.Mutex
	current *ptyexec.Cmd
}

// New creates an engine for one recording. The working directory starts at
// the process's current directory.
func New(header *script.Header, cast *asciicast.Writer, opts Options) (*Engine, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return &Engine{
		header: header,
		cast:   cast,
		opts:   opts,
		dir:    dir,
		env:    captureEnv(header.Capture),
	}, nil
}

// Dir returns the engine's tracked working directory.
func (e *Engine) Dir() string {
	return e.dir
}

// Run writes the recording header and executes statements from p until the
// script is exhausted or a statement fails. Events written before a failure
// stay written; callers flush the cast writer either way.
func (e *Engine) Run(p *script.Parser) error {
	header, err := p.Header()
	if err != nil {
		return err
	}
	if err := e.cast.WriteHeader(e.castHeader(header)); err != nil {
		return err
	}
	for {
		st, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := e.runStatement(st); err != nil {
			return err
		}
	}
}

// Kill terminates the currently running shell process, if any, including its
// process group. Safe to call from a signal handler goroutine.
func (e *Engine) Kill() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		_ = e.current.Stop()
	}
}

func (e *Engine) setCurrent(c *ptyexec.Cmd) {
	e.mu.Lock()
	e.current = c
	e.mu.Unlock()
}

// castHeader builds the asciicast header from the script header and options.
func (e *Engine) castHeader(h *script.Header) *asciicast.Header {
	out := asciicast.NewHeader(h.Width, h.Height)
	out.Title = h.Title
	if h.Idle > 0 {
		out.IdleTimeLimit = h.Idle.Seconds()
	}
	if e.opts.Timestamp {
		out.Timestamp = time.Now().Unix()
	}
	if env := captureEnvMap(h.Capture); len(env) > 0 {
		out.Env = env
	}
	return out
}

func (e *Engine) runStatement(st script.Statement) error {
	switch s := st.(type) {
	case *script.WaitStatement:
		// Time between statements, as opposed to lag within one.
		e.clock += s.Duration
		return nil
	case *script.MarkerStatement:
		return e.cast.Marker(e.clock, s.Label)
	case *script.PrintStatement:
		return e.runPrint(s)
	case *script.CommandStatement:
		return e.runCommand(s)
	}
	return fmt.Errorf("unhandled statement type %T", st)
}

// output emits one output event at the current virtual clock.
func (e *Engine) output(data string) error {
	return e.cast.Output(e.clock, data)
}

// typeText emits one output event per character, advancing the clock by the
// typing interval after each.
func (e *Engine) typeText(text string, interval time.Duration) error {
	for _, r := range text {
		if err := e.output(string(r)); err != nil {
			return err
		}
		e.clock += interval
	}
	return nil
}

// runPrint types the text followed by a newline. A hidden print produces no
// events at all.
func (e *Engine) runPrint(s *script.PrintStatement) error {
	if s.Config.Hidden {
		return nil
	}
	e.clock += s.Config.StartLag
	if err := e.typeText(s.Text, s.Config.Interval); err != nil {
		return err
	}
	if err := e.output("\r\n"); err != nil {
		return err
	}
	e.clock += s.Config.EndLag
	return nil
}

// runCommand displays the prompt and simulated typing, then (in execute
// mode) runs the command and captures its output. Hidden affects only the
// display: execution and the exit status check still happen.
func (e *Engine) runCommand(s *script.CommandStatement) error {
	conf := s.Config
	if !conf.Hidden {
		if err := e.output(conf.Prompt); err != nil {
			return err
		}
		e.clock += conf.StartLag
		for i, line := range s.Lines {
			if i > 0 {
				if err := e.output(conf.SecondaryPrompt); err != nil {
					return err
				}
			}
			text := line
			if i < len(s.Lines)-1 {
				text += conf.LineSplit
			}
			if err := e.typeText(text, conf.Interval); err != nil {
				return err
			}
			if err := e.output("\r\n"); err != nil {
				return err
			}
		}
	}
	if !e.opts.Execute {
		e.clock += conf.EndLag
		return nil
	}

	command := s.Text()
	handled, err := e.runBuiltin(command)
	if err != nil {
		return err
	}
	if handled {
		e.clock += conf.EndLag
		return nil
	}

	code, err := e.capture(command)
	if err != nil {
		return err
	}
	e.clock += conf.EndLag
	if !expectSatisfied(conf.Expect, code) {
		return &ExitStatusError{Expected: conf.Expect, Actual: code, Command: command}
	}
	return nil
}

// chunk is one read of process output with its wall-clock offset from spawn.
type chunk struct {
	data    string
	elapsed time.Duration
}

// capture spawns the shell and streams its merged output onto the virtual
// timeline, returning the exit code. The reader goroutine feeds a bounded
// channel; the engine drains it and then blocks on process exit.
func (e *Engine) capture(command string) (int, error) {
	log.WithFields(log.Fields{"shell": e.header.Shell, "dir": e.dir}).
		Debugf("executing %q", command)
	cmd, err := ptyexec.Start(e.header.Shell, command, e.dir, e.env)
	if err != nil {
		return 0, &SpawnError{Shell: e.header.Shell, Err: err}
	}
	e.setCurrent(cmd)
	defer e.setCurrent(nil)

	base := e.clock
	start := time.Now()
	out := make(chan chunk, cfg.CaptureQueueSize)
	go func() {
		buf := make([]byte, cfg.CaptureBufferSize)
		for {
			n, err := cmd.Read(buf)
			if n > 0 {
				out <- chunk{data: string(buf[:n]), elapsed: time.Since(start)}
			}
			if err != nil {
				// io.EOF when the child exits; anything else also ends
				// the capture, and Wait reports the real failure.
				close(out)
				return
			}
		}
	}()

	for c := range out {
		t := base + c.elapsed
		if t < e.clock {
			t = e.clock
		}
		if err := e.cast.Output(t, c.data); err != nil {
			_ = cmd.Stop()
			return 0, err
		}
		e.clock = t
	}

	code, err := cmd.Wait()
	if err != nil {
		return 0, fmt.Errorf("wait for %s: %w", e.header.Shell, err)
	}
	if total := base + time.Since(start); total > e.clock {
		e.clock = total
	}
	return code, nil
}

func expectSatisfied(expect script.Expect, code int) bool {
	switch expect {
	case script.ExpectSuccess:
		return code == 0
	case script.ExpectFailure:
		return code != 0
	}
	return true
}

// captureEnv builds the restricted child environment from the header's
// capture set. Unset variables are omitted.
func captureEnv(names []string) []string {
	env := make([]string, 0, len(names))
	for _, name := range names {
		if v, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+v)
		}
	}
	return env
}

func captureEnvMap(names []string) map[string]string {
	env := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := os.LookupEnv(name); ok {
			env[name] = v
		}
	}
	return env
}

// Clock returns the current virtual clock. Mostly useful for tests.
func (e *Engine) Clock() time.Duration {
	return e.clock
}
