package script

import "time"

// Expect is the exit status policy for a command statement.
type Expect int

const (
	// ExpectSuccess requires exit code 0.
	ExpectSuccess Expect = iota
	// ExpectFailure requires a non-zero exit code.
	ExpectFailure
	// ExpectAny accepts any exit code.
	ExpectAny
)

func (e Expect) String() string {
	switch e {
	case ExpectSuccess:
		return "success"
	case ExpectFailure:
		return "failure"
	case ExpectAny:
		return "any"
	}
	return "unknown"
}

// Config is the per-statement configuration snapshot. Statements carry it by
// value; mutating the resolver afterwards never affects an issued snapshot.
type Config struct {
	// Prompt is shown before the first physical line of a command.
	Prompt string
	// SecondaryPrompt is shown before continuation lines.
	SecondaryPrompt string
	// LineSplit is the marker whose presence at the end of a line signals
	// that a continuation follows. It is display-only; execution joins the
	// physical lines with a space.
	LineSplit string
	// Hidden suppresses the display of a command, or the entirety of a
	// print statement.
	Hidden bool
	// Expect is the exit status policy.
	Expect Expect
	// Interval is the simulated typing delay between characters.
	Interval time.Duration
	// StartLag delays after the prompt, before typing begins.
	StartLag time.Duration
	// EndLag delays after the statement's visible activity ends.
	EndLag time.Duration
}

func defaultConfig() Config {
	return Config{
		Prompt:          "$ ",
		SecondaryPrompt: "> ",
		LineSplit:       " \\",
		Hidden:          false,
		Expect:          ExpectSuccess,
		Interval:        100 * time.Millisecond,
		StartLag:        0,
		EndLag:          0,
	}
}

// configPatch is a sparse overlay over Config. Nil fields are "not set".
type configPatch struct {
	prompt          *string
	secondaryPrompt *string
	lineSplit       *string
	hidden          *bool
	expect          *Expect
	interval        *time.Duration
	startLag        *time.Duration
	endLag          *time.Duration
}

func (p *configPatch) isEmpty() bool {
	return p.prompt == nil && p.secondaryPrompt == nil && p.lineSplit == nil &&
		p.hidden == nil && p.expect == nil && p.interval == nil &&
		p.startLag == nil && p.endLag == nil
}

func (p *configPatch) applyTo(c *Config) {
	if p.prompt != nil {
		c.Prompt = *p.prompt
	}
	if p.secondaryPrompt != nil {
		c.SecondaryPrompt = *p.secondaryPrompt
	}
	if p.lineSplit != nil {
		c.LineSplit = *p.lineSplit
	}
	if p.hidden != nil {
		c.Hidden = *p.hidden
	}
	if p.expect != nil {
		c.Expect = *p.expect
	}
	if p.interval != nil {
		c.Interval = *p.interval
	}
	if p.startLag != nil {
		c.StartLag = *p.startLag
	}
	if p.endLag != nil {
		c.EndLag = *p.endLag
	}
}

// resolver owns the only two live configuration layers: the persistent layer
// mutated by '@@' instructions, and the pending temporary overlay populated
// by '@' instructions and consumed whole by the next eligible statement.
type resolver struct {
	persistent Config
	temporary  configPatch
}

func newResolver() resolver {
	return resolver{persistent: defaultConfig()}
}

// set applies one parsed config instruction to the persistent layer or the
// temporary overlay.
func (r *resolver) set(in *instruction) *Error {
	patch, err := parseConfigKey(in)
	if err != nil {
		return err
	}
	if in.kind == instrPersistentConfig {
		patch.applyTo(&r.persistent)
		return nil
	}
	// Later temporary instructions override earlier ones key by key.
	mergePatch(&r.temporary, patch)
	return nil
}

// consume computes the effective configuration for an eligible statement and
// clears the whole temporary overlay, relevant or not.
func (r *resolver) consume() Config {
	effective := r.persistent
	r.temporary.applyTo(&effective)
	r.temporary = configPatch{}
	return effective
}

func mergePatch(dst, src *configPatch) {
	if src.prompt != nil {
		dst.prompt = src.prompt
	}
	if src.secondaryPrompt != nil {
		dst.secondaryPrompt = src.secondaryPrompt
	}
	if src.lineSplit != nil {
		dst.lineSplit = src.lineSplit
	}
	if src.hidden != nil {
		dst.hidden = src.hidden
	}
	if src.expect != nil {
		dst.expect = src.expect
	}
	if src.interval != nil {
		dst.interval = src.interval
	}
	if src.startLag != nil {
		dst.startLag = src.startLag
	}
	if src.endLag != nil {
		dst.endLag = src.endLag
	}
}

// parseConfigKey turns a config instruction into a sparse patch, validating
// the key and parsing the value per the key's declared type.
func parseConfigKey(in *instruction) (*configPatch, *Error) {
	patch := &configPatch{}
	switch in.key {
	case "prompt":
		s, err := parseLooseString(in.value)
		if err != nil {
			return nil, errAt(ErrInvalidArgument, in.line, err.Error())
		}
		patch.prompt = &s
	case "secondary", "secondary-prompt":
		s, err := parseLooseString(in.value)
		if err != nil {
			return nil, errAt(ErrInvalidArgument, in.line, err.Error())
		}
		patch.secondaryPrompt = &s
	case "continuation", "line-continuation":
		s, err := parseLooseString(in.value)
		if err != nil {
			return nil, errAt(ErrInvalidArgument, in.line, err.Error())
		}
		patch.lineSplit = &s
	case "hidden":
		// Bare "@hidden" means true.
		b := true
		if in.value != "" {
			var err error
			if b, err = parseBool(in.value); err != nil {
				return nil, errAt(ErrInvalidArgument, in.line, err.Error())
			}
		}
		patch.hidden = &b
	case "expect":
		// Bare "@expect" means success.
		e := ExpectSuccess
		switch in.value {
		case "", "success":
		case "failure":
			e = ExpectFailure
		case "any":
			e = ExpectAny
		default:
			return nil, errAt(ErrInvalidArgument, in.line,
				"expected success, failure or any, got "+in.value)
		}
		patch.expect = &e
	case "interval", "start-lag", "end-lag":
		d, err := parseDuration(in.value)
		if err != nil {
			return nil, errAt(ErrInvalidArgument, in.line, err.Error())
		}
		switch in.key {
		case "interval":
			patch.interval = &d
		case "start-lag":
			patch.startLag = &d
		case "end-lag":
			patch.endLag = &d
		}
	default:
		return nil, errAt(ErrUnknownConfigKey, in.line, in.key)
	}
	return patch, nil
}
