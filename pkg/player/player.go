/*
Package player replays recorded casts to a terminal. It honors the recorded
event timing, optionally scaled by a speed factor and capped by an idle
limit, so long recorded pauses do not stall playback.
*/
package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/scriptcast/scriptcast/pkg/asciicast"
)

// Cast is a fully loaded recording.
type Cast struct {
	Header asciicast.Header
	Events []asciicast.Event
}

// Duration returns the time of the last event.
func (c *Cast) Duration() time.Duration {
	if len(c.Events) == 0 {
		return 0
	}
	return c.Events[len(c.Events)-1].Time
}

// Load reads a cast: a header line followed by one event per line. Blank
// trailing lines are tolerated.
func Load(r io.Reader) (*Cast, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty cast file")
	}
	var cast Cast
	if err := json.Unmarshal(sc.Bytes(), &cast.Header); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	if cast.Header.Version != 2 {
		return nil, fmt.Errorf("unsupported cast version %d", cast.Header.Version)
	}

	line := 1
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var ev asciicast.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return nil, fmt.Errorf("parse event at line %d: %w", line, err)
		}
		cast.Events = append(cast.Events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &cast, nil
}

// Player replays a cast's output events to Out with the recorded timing.
type Player struct {
	// Out receives the raw terminal data.
	Out io.Writer
	// Speed scales playback; 2 plays twice as fast. Zero means 1.
	Speed float64
	// MaxIdle caps the gap between consecutive events. Zero means no cap,
	// unless the cast header declares an idle time limit.
	MaxIdle time.Duration

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// New creates a player writing to out.
func New(out io.Writer) *Player {
	return &Player{Out: out, Speed: 1, sleep: time.Sleep}
}

// Play replays the cast from start to finish. Input and marker events shape
// the timeline but produce no output.
func (p *Player) Play(cast *Cast) error {
	speed := p.Speed
	if speed <= 0 {
		speed = 1
	}
	maxIdle := p.MaxIdle
	if maxIdle == 0 && cast.Header.IdleTimeLimit > 0 {
		maxIdle = time.Duration(cast.Header.IdleTimeLimit * float64(time.Second))
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var last time.Duration
	for _, ev := range cast.Events {
		gap := ev.Time - last
		last = ev.Time
		if maxIdle > 0 && gap > maxIdle {
			gap = maxIdle
		}
		if gap > 0 {
			sleep(time.Duration(float64(gap) / speed))
		}
		if ev.Code != asciicast.Output {
			continue
		}
		if _, err := io.WriteString(p.Out, ev.Data); err != nil {
			return err
		}
	}
	return nil
}
