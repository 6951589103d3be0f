package script

import "fmt"

// ErrorKind classifies a script parse error.
type ErrorKind int

const (
	// ErrUnknownInstruction means the line starts with an unrecognized prefix.
	ErrUnknownInstruction ErrorKind = iota
	// ErrInvalidArgument means an instruction argument failed typed parsing.
	ErrInvalidArgument
	// ErrDanglingContinuation means a '>' line has no open multi-line command
	// to attach to.
	ErrDanglingContinuation
	// ErrUnterminatedFrontMatter means the closing '---' was never found.
	ErrUnterminatedFrontMatter
	// ErrUnknownConfigKey means a '@'/'@@' or front matter key is not recognized.
	ErrUnknownConfigKey
	// ErrDuplicateFrontMatterKey means a front matter key appeared twice.
	ErrDuplicateFrontMatterKey
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownInstruction:
		return "unknown instruction"
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrDanglingContinuation:
		return "dangling continuation"
	case ErrUnterminatedFrontMatter:
		return "unterminated front matter"
	case ErrUnknownConfigKey:
		return "unknown configuration key"
	case ErrDuplicateFrontMatterKey:
		return "duplicate front matter key"
	}
	return "unknown error"
}

// Error is a script parse error. Parsing is fail-fast: the first Error aborts
// the whole parse.
type Error struct {
	Kind ErrorKind
	// Line is 1-based. For an unterminated front matter block it points one
	// past the last line of input.
	Line int
	// Detail carries extra context, e.g. the expected argument type.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Detail)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Kind)
}

func errAt(kind ErrorKind, line int, detail string) *Error {
	return &Error{Kind: kind, Line: line, Detail: detail}
}
