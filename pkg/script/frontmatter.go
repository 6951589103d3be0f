package script

import (
	"encoding/json"
	"strings"
	"time"
)

// Header carries the recording-wide metadata declared by the front matter
// block. It is created once, before any statement exists, and is immutable
// thereafter.
type Header struct {
	// Width and Height are the terminal dimensions of the recording.
	Width  int
	Height int
	// Title of the recording, empty when undeclared.
	Title string
	// Shell used to run command statements. Defaults to "bash".
	Shell string
	// Quit is the command a long-lived session would end with. Advisory;
	// each command statement runs in its own shell invocation.
	Quit string
	// Idle is the advisory idle time limit for downstream players. Zero
	// means undeclared.
	Idle time.Duration
	// Capture lists the environment variable names exposed to spawned
	// shells and recorded in the asciicast header.
	Capture []string
}

// SizeProbe reports the dimensions of the attached terminal, or ok=false
// when there is none.
type SizeProbe func() (width, height int, ok bool)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

func defaultHeader() *Header {
	return &Header{
		Width:   defaultWidth,
		Height:  defaultHeight,
		Shell:   "bash",
		Quit:    "exit",
		Capture: []string{"SHELL", "TERM"},
	}
}

// frontMatter accumulates the key-value block while detecting duplicates.
type frontMatter struct {
	header *Header
	seen   map[string]bool
	probe  SizeProbe
}

func newFrontMatter(probe SizeProbe) *frontMatter {
	return &frontMatter{
		header: defaultHeader(),
		seen:   make(map[string]bool),
		probe:  probe,
	}
}

// setField parses one interior "key: value" line. Keys match
// case-insensitively against the fixed key set.
func (f *frontMatter) setField(s string, line int) *Error {
	key, value, found := strings.Cut(s, ":")
	if !found {
		return errAt(ErrInvalidArgument, line, "expected key: value pair")
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if f.seen[key] {
		return errAt(ErrDuplicateFrontMatterKey, line, key)
	}
	f.seen[key] = true

	switch key {
	case "width":
		w, err := f.parseDimension(value, defaultWidth, true)
		if err != nil {
			return errAt(ErrInvalidArgument, line, err.Error())
		}
		f.header.Width = w
	case "height":
		h, err := f.parseDimension(value, defaultHeight, false)
		if err != nil {
			return errAt(ErrInvalidArgument, line, err.Error())
		}
		f.header.Height = h
	case "title":
		t, err := parseLooseString(value)
		if err != nil {
			return errAt(ErrInvalidArgument, line, err.Error())
		}
		f.header.Title = t
	case "shell":
		sh, err := parseLooseString(value)
		if err != nil {
			return errAt(ErrInvalidArgument, line, err.Error())
		}
		f.header.Shell = sh
	case "quit":
		q, err := parseLooseString(value)
		if err != nil {
			return errAt(ErrInvalidArgument, line, err.Error())
		}
		f.header.Quit = q
	case "idle":
		d, err := parseDuration(value)
		if err != nil {
			return errAt(ErrInvalidArgument, line, err.Error())
		}
		f.header.Idle = d
	case "capture":
		var names []string
		if err := json.Unmarshal([]byte(value), &names); err != nil {
			return errAt(ErrInvalidArgument, line,
				`expected a list of strings, e.g. ["SHELL", "TERM"]`)
		}
		f.header.Capture = names
	default:
		return errAt(ErrUnknownConfigKey, line, key)
	}
	return nil
}

// parseDimension handles the "auto" sentinel for width/height, probing the
// attached terminal and falling back to the documented default.
func (f *frontMatter) parseDimension(value string, def int, wantWidth bool) (int, error) {
	if value == "auto" {
		if f.probe != nil {
			if w, h, ok := f.probe(); ok {
				if wantWidth {
					return w, nil
				}
				return h, nil
			}
		}
		return def, nil
	}
	return parsePositiveInt(value)
}
