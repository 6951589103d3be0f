package asciicast

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSerialize(t *testing.T) {
	h := NewHeader(80, 24)
	h.IdleTimeLimit = 2.5
	h.Title = "Test"
	b, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t,
		`{"version":2,"width":80,"height":24,"idle_time_limit":2.5,"title":"Test"}`,
		string(b))
}

func TestHeaderOmitsUnsetFields(t *testing.T) {
	b, err := json.Marshal(NewHeader(80, 24))
	require.NoError(t, err)
	assert.Equal(t, `{"version":2,"width":80,"height":24}`, string(b))
}

func TestEventSerialize(t *testing.T) {
	cases := []struct {
		ev   Event
		want string
	}{
		{Event{0, Output, "Output event"}, `[0.000000,"o","Output event"]`},
		{Event{time.Second, Input, "Input event"}, `[1.000000,"i","Input event"]`},
		{Event{time.Second + time.Microsecond, Marker, "Marker event"}, `[1.000001,"m","Marker event"]`},
		{Event{100 * time.Millisecond, Output, "e"}, `[0.100000,"o","e"]`},
		{Event{0, Output, "line\r\n"}, `[0.000000,"o","line\r\n"]`},
		{Event{0, Output, `quote " here`}, `[0.000000,"o","quote \" here"]`},
	}
	for _, c := range cases {
		b, err := json.Marshal(c.ev)
		require.NoError(t, err)
		assert.Equal(t, c.want, string(b))
	}
}

func TestEventRoundTrip(t *testing.T) {
	in := Event{Time: 1500 * time.Millisecond, Code: Output, Data: "hi\r\n"}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	var out Event
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestWriterStreams(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	h := NewHeader(80, 24)
	h.Title = "Demo"
	require.NoError(t, w.WriteHeader(h))
	require.NoError(t, w.Output(0, "$ "))
	require.NoError(t, w.Output(100*time.Millisecond, "e"))
	require.NoError(t, w.Marker(200*time.Millisecond, "done"))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `{"version":2,"width":80,"height":24,"title":"Demo"}`, lines[0])
	assert.Equal(t, `[0.000000,"o","$ "]`, lines[1])
	assert.Equal(t, `[0.100000,"o","e"]`, lines[2])
	assert.Equal(t, `[0.200000,"m","done"]`, lines[3])
}

func TestWriterHeaderDiscipline(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.ErrorIs(t, w.Output(0, "x"), ErrHeaderNotWritten)
	require.NoError(t, w.WriteHeader(NewHeader(80, 24)))
	assert.ErrorIs(t, w.WriteHeader(NewHeader(80, 24)), ErrHeaderWritten)
}

func TestWriterRejectsTimeRegression(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(NewHeader(80, 24)))
	require.NoError(t, w.Output(time.Second, "a"))
	// Equal times are fine; going backwards is not.
	require.NoError(t, w.Output(time.Second, "b"))
	assert.Error(t, w.Output(500*time.Millisecond, "c"))
}
