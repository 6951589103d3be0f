/*
Package asciicast models and streams asciicast v2 content
(https://docs.asciinema.org/manual/asciicast/v2/): one JSON header line
followed by newline-delimited [time, code, data] event records.
*/
package asciicast

import (
	"encoding/json"
	"fmt"
	"time"
)

// Header is the asciicast v2 header, serialized once as the first line of a
// recording.
type Header struct {
	Version       int               `json:"version"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Timestamp     int64             `json:"timestamp,omitempty"`
	IdleTimeLimit float64           `json:"idle_time_limit,omitempty"`
	Title         string            `json:"title,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
}

// NewHeader returns a version-2 header with the given dimensions.
func NewHeader(width, height int) *Header {
	return &Header{Version: 2, Width: width, Height: height}
}

// EventCode is the type tag of an event record.
type EventCode string

const (
	// Output is data written to the terminal.
	Output EventCode = "o"
	// Input is data read from the terminal.
	Input EventCode = "i"
	// Marker is a named point on the timeline.
	Marker EventCode = "m"
)

// Event is a single timed record. Time is the offset from the beginning of
// the recording.
type Event struct {
	Time time.Duration
	Code EventCode
	Data string
}

// MarshalJSON serializes the event as a three-element array with the time in
// seconds at a fixed six decimal places, matching the asciinema tooling.
func (e Event) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	code, err := json.Marshal(string(e.Code))
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "[%.6f,%s,%s]", e.Time.Seconds(), code, data), nil
}

// UnmarshalJSON parses a serialized event record.
func (e *Event) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("event record has %d elements, want 3", len(raw))
	}
	var seconds float64
	if err := json.Unmarshal(raw[0], &seconds); err != nil {
		return fmt.Errorf("event time: %w", err)
	}
	var code string
	if err := json.Unmarshal(raw[1], &code); err != nil {
		return fmt.Errorf("event code: %w", err)
	}
	if err := json.Unmarshal(raw[2], &e.Data); err != nil {
		return fmt.Errorf("event data: %w", err)
	}
	e.Time = time.Duration(seconds * float64(time.Second))
	e.Code = EventCode(code)
	return nil
}
