package asciicast

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrHeaderNotWritten is returned when an event is written before the header.
var ErrHeaderNotWritten = errors.New("asciicast: header not written")

// ErrHeaderWritten is returned when the header is written twice.
var ErrHeaderWritten = errors.New("asciicast: header already written")

// Writer streams an asciicast to an io.Writer, one line at a time. It never
// buffers previously written events: memory use is independent of recording
// length. Event times must be non-decreasing.
type Writer struct {
	bw            *bufio.Writer
	headerWritten bool
	last          time.Duration
}

// NewWriter creates a streaming asciicast writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteHeader serializes the header as the first line. It must be called
// exactly once, before any event.
func (w *Writer) WriteHeader(h *Header) error {
	if w.headerWritten {
		return ErrHeaderWritten
	}
	b, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	w.headerWritten = true
	return nil
}

// WriteEvent appends one event record. Events arriving out of time order are
// rejected; the recording's timeline is strictly non-decreasing.
func (w *Writer) WriteEvent(e Event) error {
	if !w.headerWritten {
		return ErrHeaderNotWritten
	}
	if e.Time < w.last {
		return fmt.Errorf("asciicast: event time %v before %v", e.Time, w.last)
	}
	b, err := e.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	w.last = e.Time
	return nil
}

// Output writes an output event at the given time.
func (w *Writer) Output(t time.Duration, data string) error {
	return w.WriteEvent(Event{Time: t, Code: Output, Data: data})
}

// Input writes an input event at the given time.
func (w *Writer) Input(t time.Duration, data string) error {
	return w.WriteEvent(Event{Time: t, Code: Input, Data: data})
}

// Marker writes a marker event at the given time.
func (w *Writer) Marker(t time.Duration, label string) error {
	return w.WriteEvent(Event{Time: t, Code: Marker, Data: label})
}

// Flush pushes any buffered line to the underlying writer. Callers flush on
// both success and failure: a partial recording is still a valid recording.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
