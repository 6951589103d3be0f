package script

import (
	"strings"
	"time"
)

// instructionKind enumerates every line form the script grammar knows. The
// set is closed; consumers switch exhaustively over it.
type instructionKind int

const (
	instrEmpty instructionKind = iota
	instrComment
	instrPersistentConfig // @@key value
	instrTemporaryConfig  // @key value
	instrPrint            // %text
	instrMarker           // !label
	instrCommand          // $ text
	instrContinuation     // > text
	instrWait             // ~duration
)

// instruction is one classified script line. Never mutated after creation.
type instruction struct {
	kind instructionKind
	line int

	// key/value for config instructions.
	key   string
	value string
	// text for print/marker/command/continuation.
	text string
	// duration for wait.
	duration time.Duration
}

// parseInstruction classifies a single raw line by its first one or two
// characters. Front matter lines are handled separately and never reach here.
func parseInstruction(raw string, line int) (*instruction, *Error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return &instruction{kind: instrEmpty, line: line}, nil
	}
	rest := strings.TrimSpace(s[1:])
	switch s[0] {
	case '@':
		kind := instrTemporaryConfig
		if strings.HasPrefix(rest, "@") {
			kind = instrPersistentConfig
			rest = strings.TrimSpace(rest[1:])
		}
		key, value, err := splitConfigArg(rest, line)
		if err != nil {
			return nil, err
		}
		return &instruction{kind: kind, line: line, key: key, value: value}, nil
	case '%':
		text, err := parseLooseString(rest)
		if err != nil {
			return nil, errAt(ErrInvalidArgument, line, err.Error())
		}
		return &instruction{kind: instrPrint, line: line, text: text}, nil
	case '!':
		return &instruction{kind: instrMarker, line: line, text: rest}, nil
	case '#':
		return &instruction{kind: instrComment, line: line}, nil
	case '$':
		return &instruction{kind: instrCommand, line: line, text: rest}, nil
	case '>':
		return &instruction{kind: instrContinuation, line: line, text: rest}, nil
	case '~':
		d, err := parseDuration(rest)
		if err != nil {
			return nil, errAt(ErrInvalidArgument, line, err.Error())
		}
		return &instruction{kind: instrWait, line: line, duration: d}, nil
	}
	return nil, errAt(ErrUnknownInstruction, line, "")
}

// splitConfigArg splits "key value" after the '@'/'@@' prefix was stripped.
// The value may be empty; some keys have an implied value.
func splitConfigArg(s string, line int) (string, string, *Error) {
	if s == "" {
		return "", "", errAt(ErrInvalidArgument, line, "expected configuration key")
	}
	key, value, _ := strings.Cut(s, " ")
	return key, strings.TrimSpace(value), nil
}
