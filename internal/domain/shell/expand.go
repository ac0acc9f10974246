package shell

import (
	"os"
	"strings"
)

// LookupFunc returns the value of an environment variable.
type LookupFunc func(name string) (string, bool)

// OSEnv reads the process environment.
func OSEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnv serves variables from a fixed map.
func MapEnv(vars map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// Secondary names consulted when the primary variable is unset or empty.
var envFallbacks = map[string]string{
	"HOME": "USERPROFILE",
	"USER": "USERNAME",
}

// LookupVar resolves name through env, applying the HOME and USER fallbacks.
// Undefined variables are empty.
func LookupVar(env LookupFunc, name string) string {
	if env == nil {
		return ""
	}
	if v, ok := env(name); ok && v != "" {
		return v
	}
	if fallback, ok := envFallbacks[name]; ok {
		if v, ok := env(fallback); ok {
			return v
		}
	}
	return ""
}

// Expand substitutes $NAME and ${NAME} references in line. It runs before
// splitting, so quotes in the line are kept for the tokenizer. A backslash
// before $ keeps the reference literal. An unquoted reference that expands to
// nothing becomes '' so it still produces an argument.
func Expand(line string, env LookupFunc) string {
	var b strings.Builder
	b.Grow(len(line))

	state := stateOutside
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\':
			b.WriteByte(c)
			// Inside single quotes only \$ is special here; \' still closes
			// the quote for the tokenizer.
			if i+1 < len(line) && (state != stateSingleQuote || line[i+1] == '$') {
				i++
				b.WriteByte(line[i])
			}
		case c == '\'' && state != stateDoubleQuote:
			if state == stateSingleQuote {
				state = stateOutside
			} else {
				state = stateSingleQuote
			}
			b.WriteByte(c)
		case c == '"' && state != stateSingleQuote:
			if state == stateDoubleQuote {
				state = stateOutside
			} else {
				state = stateDoubleQuote
			}
			b.WriteByte(c)
		case c == '$':
			name, width := varName(line[i+1:])
			if width == 0 {
				b.WriteByte(c)
				continue
			}
			i += width
			value := LookupVar(env, name)
			if value == "" && state == stateOutside {
				b.WriteString("''")
				continue
			}
			b.WriteString(value)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// varName parses the reference following a '$' and returns the variable
// name and how many bytes it spans. width is 0 when s does not start a
// reference; an empty "${}" is not one.
func varName(s string) (name string, width int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end <= 1 {
			return "", 0
		}
		return s[1:end], end + 1
	}
	if s == "" || !isNameStart(s[0]) {
		return "", 0
	}
	n := 1
	for n < len(s) && isNameChar(s[n]) {
		n++
	}
	return s[:n], n
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
