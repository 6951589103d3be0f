/*
Package script parses scriptcast scripts: line-based descriptions of a
simulated terminal session. A script is an optional '---'-delimited front
matter block followed by instruction lines dispatched on their prefix:

	@@key value   persistent configuration
	@key value    temporary configuration (next eligible statement only)
	%text         print text as simulated typing
	!label        marker event
	$ text        shell command
	> text        continuation of a multi-line command
	~duration     advance the virtual clock
	#...          comment

The parser streams statements one at a time; memory use is independent of
script length.
*/
package script

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// Statement is one logical unit consumed by the execution engine. The set of
// variants is closed: Command, Print, Marker, Wait.
type Statement interface {
	stmt()
}

// CommandStatement is a shell command, possibly spanning multiple physical
// lines via continuations.
type CommandStatement struct {
	// Lines holds the author-visible physical lines. For every line but the
	// last, the line-split marker has been stripped; joining Lines with the
	// snapshot's LineSplit reproduces the author-visible text.
	Lines []string
	// Config is the snapshot resolved when the statement opened.
	Config Config
	// Line is the 1-based line number of the opening '$' instruction.
	Line int
}

// PrintStatement emits literal text as simulated typing.
type PrintStatement struct {
	Text   string
	Config Config
	Line   int
}

// MarkerStatement emits a zero-duration marker event.
type MarkerStatement struct {
	Label string
	Line  int
}

// WaitStatement advances the virtual clock without emitting events.
type WaitStatement struct {
	Duration time.Duration
	Line     int
}

func (*CommandStatement) stmt() {}
func (*PrintStatement) stmt()   {}
func (*MarkerStatement) stmt()  {}
func (*WaitStatement) stmt()    {}

// Text returns the command text handed to the shell: the physical lines
// joined by a single space.
func (s *CommandStatement) Text() string {
	return strings.Join(s.Lines, " ")
}

// Parser turns a script into a header plus a stream of statements. Parsing
// is fail-fast: after any error, Next keeps returning that error.
type Parser struct {
	// Probe resolves "auto" width/height declarations. Optional; when nil,
	// auto falls back to 80x24.
	Probe SizeProbe

	sc      *bufio.Scanner
	line    int
	header  *Header
	res     resolver
	pending *instruction
	done    bool
	err     error
}

// NewParser creates a parser reading raw script text from r.
func NewParser(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Parser{sc: sc, res: newResolver()}
}

// nextLine returns the next raw line, or ok=false at EOF.
func (p *Parser) nextLine() (string, bool) {
	if !p.sc.Scan() {
		return "", false
	}
	p.line++
	return p.sc.Text(), true
}

// Header parses the leading front matter block (if any) and returns the
// resolved header. Idempotent; called implicitly by the first Next.
func (p *Parser) Header() (*Header, error) {
	if p.header != nil || p.err != nil {
		return p.header, p.err
	}
	h, err := p.parseFrontMatter()
	if err != nil {
		p.err = err
		return nil, err
	}
	p.header = h
	return h, nil
}

// parseFrontMatter consumes lines up to and including the closing '---'.
// When the first non-blank, non-comment line is not '---', defaults apply
// and the line is pushed back for instruction parsing.
func (p *Parser) parseFrontMatter() (*Header, error) {
	fm := newFrontMatter(p.Probe)
	for {
		raw, ok := p.nextLine()
		if !ok {
			return fm.header, nil
		}
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if s != "---" {
			// No front matter block; re-parse this line as an instruction.
			in, perr := parseInstruction(raw, p.line)
			if perr != nil {
				return nil, perr
			}
			p.pending = in
			return fm.header, nil
		}
		break
	}
	// Inside the block: key-value pairs until the closing delimiter.
	for {
		raw, ok := p.nextLine()
		if !ok {
			return nil, errAt(ErrUnterminatedFrontMatter, p.line+1, "")
		}
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if s == "---" {
			return fm.header, nil
		}
		if err := fm.setField(s, p.line); err != nil {
			return nil, err
		}
	}
}

// next returns the next classified instruction, honoring a pushed-back one.
func (p *Parser) next() (*instruction, *Error, bool) {
	if p.pending != nil {
		in := p.pending
		p.pending = nil
		return in, nil, true
	}
	raw, ok := p.nextLine()
	if !ok {
		return nil, nil, false
	}
	in, err := parseInstruction(raw, p.line)
	return in, err, true
}

// Next returns the next statement, or io.EOF when the script is exhausted.
func (p *Parser) Next() (Statement, error) {
	if _, err := p.Header(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	if p.done {
		return nil, io.EOF
	}
	st, err := p.nextStatement()
	if err != nil {
		p.err = err
		return nil, err
	}
	if st == nil {
		p.done = true
		return nil, io.EOF
	}
	return st, nil
}

func (p *Parser) nextStatement() (Statement, error) {
	for {
		in, perr, ok := p.next()
		if perr != nil {
			return nil, perr
		}
		if !ok {
			return nil, nil
		}
		switch in.kind {
		case instrEmpty, instrComment:
			continue
		case instrPersistentConfig, instrTemporaryConfig:
			if err := p.res.set(in); err != nil {
				return nil, err
			}
		case instrPrint:
			return &PrintStatement{Text: in.text, Config: p.res.consume(), Line: in.line}, nil
		case instrMarker:
			return &MarkerStatement{Label: in.text, Line: in.line}, nil
		case instrWait:
			return &WaitStatement{Duration: in.duration, Line: in.line}, nil
		case instrContinuation:
			return nil, errAt(ErrDanglingContinuation, in.line, "")
		case instrCommand:
			return p.assembleCommand(in)
		}
	}
}

// assembleCommand folds a '$' instruction and its trailing '>' continuations
// into one statement. The configuration snapshot is resolved at the opening
// line; the snapshot's LineSplit gates continuation folding.
func (p *Parser) assembleCommand(open *instruction) (Statement, error) {
	cfg := p.res.consume()
	st := &CommandStatement{Config: cfg, Line: open.line}
	st.Lines = append(st.Lines, open.text)
	for cfg.LineSplit != "" && strings.HasSuffix(st.Lines[len(st.Lines)-1], cfg.LineSplit) {
		in, perr, ok := p.next()
		if perr != nil {
			return nil, perr
		}
		if !ok {
			// EOF ends the statement; the trailing marker stays visible.
			return st, nil
		}
		if in.kind != instrContinuation {
			// Any other instruction ends the statement.
			p.pending = in
			return st, nil
		}
		last := &st.Lines[len(st.Lines)-1]
		*last = strings.TrimSuffix(*last, cfg.LineSplit)
		st.Lines = append(st.Lines, in.text)
	}
	return st, nil
}
