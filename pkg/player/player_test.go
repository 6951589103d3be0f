package player

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcast/scriptcast/pkg/asciicast"
)

const sampleCast = `{"version":2,"width":80,"height":24,"title":"demo"}
[0.000000,"o","$ "]
[0.100000,"o","ls\r\n"]
[0.200000,"i","x"]
[0.300000,"m","section"]
[5.300000,"o","done\r\n"]
`

func TestLoad(t *testing.T) {
	cast, err := Load(strings.NewReader(sampleCast))
	require.NoError(t, err)
	assert.Equal(t, 80, cast.Header.Width)
	assert.Equal(t, "demo", cast.Header.Title)
	require.Len(t, cast.Events, 5)
	assert.Equal(t, asciicast.Marker, cast.Events[3].Code)
	assert.Equal(t, 5300*time.Millisecond, cast.Duration())
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	_, err := Load(strings.NewReader(`{"version":1,"width":80,"height":24}`))
	assert.ErrorContains(t, err, "version")
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadBadEventLine(t *testing.T) {
	_, err := Load(strings.NewReader("{\"version\":2,\"width\":80,\"height\":24}\nnot json\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestPlayWritesOnlyOutput(t *testing.T) {
	cast, err := Load(strings.NewReader(sampleCast))
	require.NoError(t, err)

	var out bytes.Buffer
	var slept []time.Duration
	p := New(&out)
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, p.Play(cast))
	assert.Equal(t, "$ ls\r\ndone\r\n", out.String())
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		100 * time.Millisecond,
		100 * time.Millisecond,
		5 * time.Second,
	}, slept)
}

func TestPlaySpeed(t *testing.T) {
	cast, err := Load(strings.NewReader(sampleCast))
	require.NoError(t, err)

	var slept time.Duration
	p := New(&out{})
	p.Speed = 2
	p.sleep = func(d time.Duration) { slept += d }

	require.NoError(t, p.Play(cast))
	assert.Equal(t, 2650*time.Millisecond, slept)
}

func TestPlayMaxIdle(t *testing.T) {
	cast, err := Load(strings.NewReader(sampleCast))
	require.NoError(t, err)

	var slept time.Duration
	p := New(&out{})
	p.MaxIdle = time.Second
	p.sleep = func(d time.Duration) { slept += d }

	require.NoError(t, p.Play(cast))
	// Three real gaps of 100ms plus the 5s gap capped at 1s.
	assert.Equal(t, 1300*time.Millisecond, slept)
}

func TestPlayHeaderIdleLimit(t *testing.T) {
	text := strings.Replace(sampleCast,
		`"title":"demo"`, `"title":"demo","idle_time_limit":0.5`, 1)
	cast, err := Load(strings.NewReader(text))
	require.NoError(t, err)

	var slept time.Duration
	p := New(&out{})
	p.sleep = func(d time.Duration) { slept += d }

	require.NoError(t, p.Play(cast))
	assert.Equal(t, 800*time.Millisecond, slept)
}

type out struct{}

func (*out) Write(p []byte) (int, error) { return len(p), nil }
