package shell

import (
	"strings"
	"unicode"
)

type parseState int

const (
	stateOutside parseState = iota
	stateSingleQuote
	stateDoubleQuote
)

// tokenBuffer accumulates one token. quoted marks a token opened by a quote
// so that "" and '' still produce an (empty) argument.
type tokenBuffer struct {
	builder strings.Builder
	quoted  bool
}

func (tb *tokenBuffer) appendRune(r rune) {
	tb.builder.WriteRune(r)
}

func (tb *tokenBuffer) flush(args []string) []string {
	if tb.builder.Len() == 0 && !tb.quoted {
		return args
	}
	args = append(args, tb.builder.String())
	tb.builder.Reset()
	tb.quoted = false
	return args
}

func handleStateOutside(ch rune, state parseState, tb *tokenBuffer, escaping bool, args []string) (parseState, bool, []string) {
	if escaping {
		tb.appendRune(ch)
		return state, false, args
	}

	switch {
	case unicode.IsSpace(ch):
		args = tb.flush(args)
	case ch == '\'':
		tb.quoted = true
		state = stateSingleQuote
	case ch == '"':
		tb.quoted = true
		state = stateDoubleQuote
	case ch == '\\':
		escaping = true
	default:
		tb.appendRune(ch)
	}
	return state, escaping, args
}

func handleStateSingleQuote(ch rune, state parseState, tb *tokenBuffer, escaping bool, args []string) (parseState, bool, []string) {
	if ch == '\'' {
		return stateOutside, escaping, args
	}
	tb.appendRune(ch)
	return state, escaping, args
}

func handleStateDoubleQuote(ch rune, state parseState, tb *tokenBuffer, escaping bool, args []string) (parseState, bool, []string) {
	if escaping {
		if ch != '\\' && ch != '"' && ch != '$' {
			tb.appendRune('\\')
		}
		tb.appendRune(ch)
		return state, false, args
	}

	switch ch {
	case '"':
		state = stateOutside
	case '\\':
		escaping = true
	default:
		tb.appendRune(ch)
	}
	return state, escaping, args
}

// split breaks an already expanded line into arguments.
func split(line string) ([]string, error) {
	var tb tokenBuffer
	args := []string{}

	state := stateOutside
	escaping := false

	for _, ch := range line {
		switch state {
		case stateOutside:
			state, escaping, args = handleStateOutside(ch, state, &tb, escaping, args)
		case stateSingleQuote:
			state, escaping, args = handleStateSingleQuote(ch, state, &tb, escaping, args)
		case stateDoubleQuote:
			state, escaping, args = handleStateDoubleQuote(ch, state, &tb, escaping, args)
		}
	}

	if state != stateOutside {
		return nil, ErrUnclosedQuote
	}
	if escaping {
		return nil, ErrDanglingEscape
	}
	return tb.flush(args), nil
}

// Tokenize expands variables in line and splits it into arguments. A blank
// line yields no arguments. On error no arguments are returned.
func Tokenize(line string, env LookupFunc) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	return split(Expand(line, env))
}
