package engine

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcast/scriptcast/pkg/asciicast"
	"github.com/scriptcast/scriptcast/pkg/script"
)

// record runs a script through the engine and returns the written lines.
func record(t *testing.T, text string, opts Options) ([]string, error) {
	t.Helper()
	var buf bytes.Buffer
	p := script.NewParser(strings.NewReader(text))
	cast := asciicast.NewWriter(&buf)
	e, err := New(mustHeader(t, text), cast, opts)
	require.NoError(t, err)
	runErr := e.Run(p)
	require.NoError(t, cast.Flush())
	out := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if out[0] == "" {
		out = nil
	}
	return out, runErr
}

func mustHeader(t *testing.T, text string) *script.Header {
	t.Helper()
	h, err := script.NewParser(strings.NewReader(text)).Header()
	require.NoError(t, err)
	return h
}

func events(t *testing.T, lines []string) []asciicast.Event {
	t.Helper()
	var out []asciicast.Event
	for _, line := range lines[1:] {
		var ev asciicast.Event
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		out = append(out, ev)
	}
	return out
}

func TestDryRunTypesCommand(t *testing.T) {
	lines, err := record(t, `$ echo "Hi"`, Options{})
	require.NoError(t, err)

	evs := events(t, lines)
	// Prompt, one event per character of `echo "Hi"`, then the newline.
	require.Len(t, evs, 1+9+1)
	assert.Equal(t, asciicast.Event{Time: 0, Code: asciicast.Output, Data: "$ "}, evs[0])
	var typed strings.Builder
	for i, ev := range evs[1:10] {
		typed.WriteString(ev.Data)
		// 100ms default spacing, starting at the prompt's time.
		assert.Equal(t, time.Duration(i)*100*time.Millisecond, ev.Time)
	}
	assert.Equal(t, `echo "Hi"`, typed.String())
	assert.Equal(t, "\r\n", evs[10].Data)
	assert.Equal(t, 900*time.Millisecond, evs[10].Time)
}

func TestHeaderReflectsScript(t *testing.T) {
	text := "---\nwidth: 100\nheight: 30\ntitle: Demo\nidle: 2s\ncapture: []\n---\n"
	lines, err := record(t, text, Options{})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	var h asciicast.Header
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &h))
	assert.Equal(t, 2, h.Version)
	assert.Equal(t, 100, h.Width)
	assert.Equal(t, 30, h.Height)
	assert.Equal(t, "Demo", h.Title)
	assert.Equal(t, 2.0, h.IdleTimeLimit)
	assert.Zero(t, h.Timestamp)
}

func TestWaitAdvancesClockWithoutEvents(t *testing.T) {
	lines, err := record(t, "~2s\n!after\n", Options{})
	require.NoError(t, err)
	evs := events(t, lines)
	require.Len(t, evs, 1)
	assert.Equal(t, asciicast.Marker, evs[0].Code)
	assert.Equal(t, "after", evs[0].Data)
	assert.Equal(t, 2*time.Second, evs[0].Time)
}

func TestMarkerDoesNotAdvanceClock(t *testing.T) {
	lines, err := record(t, "!a\n!b\n", Options{})
	require.NoError(t, err)
	evs := events(t, lines)
	require.Len(t, evs, 2)
	assert.Equal(t, evs[0].Time, evs[1].Time)
}

func TestPrintTiming(t *testing.T) {
	text := "@interval 10ms\n@start-lag 1s\n%hi\n"
	lines, err := record(t, text, Options{})
	require.NoError(t, err)
	evs := events(t, lines)
	require.Len(t, evs, 3)
	assert.Equal(t, time.Second, evs[0].Time)
	assert.Equal(t, "h", evs[0].Data)
	assert.Equal(t, time.Second+10*time.Millisecond, evs[1].Time)
	assert.Equal(t, "i", evs[1].Data)
	assert.Equal(t, "\r\n", evs[2].Data)
	assert.Equal(t, time.Second+20*time.Millisecond, evs[2].Time)
}

func TestHiddenPrintEmitsNothing(t *testing.T) {
	lines, err := record(t, "@hidden\n%secret\n", Options{})
	require.NoError(t, err)
	require.Len(t, lines, 1) // header only
}

func TestHiddenCommandDryRun(t *testing.T) {
	lines, err := record(t, "@hidden\n$ echo hi\n", Options{})
	require.NoError(t, err)
	require.Len(t, lines, 1) // header only
}

func TestMultiLineCommandDisplay(t *testing.T) {
	text := "@interval 0\n$ echo a \\\n> b\n"
	lines, err := record(t, text, Options{})
	require.NoError(t, err)
	evs := events(t, lines)
	var display strings.Builder
	for _, ev := range evs {
		display.WriteString(ev.Data)
	}
	// Prompt, first line with its split marker, newline, secondary prompt,
	// continuation line, newline.
	assert.Equal(t, "$ echo a \\\r\n> b\r\n", display.String())
}

func TestExecuteCapturesOutput(t *testing.T) {
	text := "---\nshell: sh\n---\n@interval 0\n$ echo hello\n"
	lines, err := record(t, text, Options{Execute: true})
	require.NoError(t, err)
	evs := events(t, lines)
	var all strings.Builder
	for _, ev := range evs {
		all.WriteString(ev.Data)
	}
	assert.Contains(t, all.String(), "hello\r\n")
	// Times never regress.
	for i := 1; i < len(evs); i++ {
		assert.GreaterOrEqual(t, evs[i].Time, evs[i-1].Time)
	}
}

func TestHiddenCommandStillExecutes(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	text := "---\nshell: sh\n---\n@hidden\n$ touch " + marker + "\n"
	lines, err := record(t, text, Options{Execute: true})
	require.NoError(t, err)
	require.Len(t, lines, 1) // no display events
	_, statErr := os.Stat(marker)
	assert.NoError(t, statErr, "hidden command must still run")
}

func TestExpectFailureOnSuccess(t *testing.T) {
	text := "---\nshell: sh\n---\n@interval 0\n@expect failure\n$ true\n"
	_, err := record(t, text, Options{Execute: true})
	var exitErr *ExitStatusError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, script.ExpectFailure, exitErr.Expected)
	assert.Equal(t, 0, exitErr.Actual)
}

func TestExpectFailureSatisfied(t *testing.T) {
	text := "---\nshell: sh\n---\n@interval 0\n@expect failure\n$ false\n"
	_, err := record(t, text, Options{Execute: true})
	assert.NoError(t, err)
}

func TestExpectAny(t *testing.T) {
	text := "---\nshell: sh\n---\n@interval 0\n@@expect any\n$ false\n$ true\n"
	_, err := record(t, text, Options{Execute: true})
	assert.NoError(t, err)
}

func TestFailedExpectationHaltsButKeepsOutput(t *testing.T) {
	text := "---\nshell: sh\n---\n@interval 0\n%before\n@expect failure\n$ true\n$ echo never\n"
	lines, err := record(t, text, Options{Execute: true})
	require.Error(t, err)
	var all strings.Builder
	for _, ev := range events(t, lines) {
		all.WriteString(ev.Data)
	}
	assert.Contains(t, all.String(), "before")
	assert.NotContains(t, all.String(), "never")
}

func TestSpawnFailure(t *testing.T) {
	text := "---\nshell: /no/such/shell\n---\n@interval 0\n$ echo hi\n"
	_, err := record(t, text, Options{Execute: true})
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
}

func TestExitStatusTimesOrdered(t *testing.T) {
	// Output captured from a sleeping process lands after the typed text.
	text := "---\nshell: sh\n---\n@interval 0\n$ sleep 0.2; echo done\n"
	lines, err := record(t, text, Options{Execute: true})
	require.NoError(t, err)
	evs := events(t, lines)
	var all strings.Builder
	for _, ev := range evs {
		all.WriteString(ev.Data)
	}
	assert.Contains(t, all.String(), "done")
	last := evs[len(evs)-1]
	assert.GreaterOrEqual(t, last.Time, 200*time.Millisecond)
}
