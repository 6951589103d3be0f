package script

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Typed argument parsers. All of them expect input already trimmed of
// surrounding whitespace; the returned errors name the expected type so the
// caller can wrap them with a line number.

// parseBool accepts exactly "true" or "false".
func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("expected boolean (true/false), got %q", s)
}

// parseInt accepts an optional sign followed by digits.
func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", s)
	}
	return v, nil
}

// parsePositiveInt is parseInt restricted to values >= 1.
func parsePositiveInt(s string) (int, error) {
	v, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("expected positive integer, got %q", s)
	}
	return v, nil
}

// parseDuration accepts digits followed by a unit in {s, ms, us}. The unit
// may be omitted only when the numeral is 0.
func parseDuration(s string) (time.Duration, error) {
	split := len(s)
	for i, c := range s {
		if c < '0' || c > '9' {
			split = i
			break
		}
	}
	num, unit := s[:split], s[split:]
	if num == "" {
		return 0, fmt.Errorf("expected duration (e.g. 100ms), got %q", s)
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected duration (e.g. 100ms), got %q", s)
	}
	switch unit {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "ms":
		return time.Duration(n) * time.Millisecond, nil
	case "us":
		return time.Duration(n) * time.Microsecond, nil
	case "":
		if n == 0 {
			return 0, nil
		}
	}
	return 0, fmt.Errorf("expected duration unit s, ms or us, got %q", s)
}

// parseQuoted parses a double-quoted string. The only valid escapes are \"
// and \\; any other backslash sequence is an error, as is trailing text
// after the closing quote.
func parseQuoted(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' {
		return "", fmt.Errorf("expected quoted string, got %q", s)
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '"':
			if i != len(s)-1 {
				return "", fmt.Errorf("unexpected text after closing quote in %q", s)
			}
			return b.String(), nil
		case '\\':
			i++
			if i >= len(s) || (s[i] != '"' && s[i] != '\\') {
				return "", fmt.Errorf("invalid escape sequence in %q", s)
			}
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return "", fmt.Errorf("missing closing quote in %q", s)
}

// parseLooseString parses s as a quoted string when it starts and ends with
// a double quote, and returns the trimmed raw text verbatim otherwise.
func parseLooseString(s string) (string, error) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return parseQuoted(s)
	}
	return s, nil
}
