package compose

import (
	"fmt"
	"strings"
)

// Expand interpolates s the way Compose does:
//
//	$VAR, ${VAR}        value of VAR, empty when unset
//	${VAR:-default}     default when VAR is unset or empty
//	${VAR-default}      default when VAR is unset
//	${VAR:?message}     error when VAR is unset or empty
//	${VAR?message}      error when VAR is unset
//	${VAR:+alt}         alt when VAR is set and not empty
//	${VAR+alt}          alt when VAR is set
//	$$                  a literal $
//
// Defaults and alternatives are interpolated themselves.
func Expand(s string, vars map[string]string) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '$' || i+1 == len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		switch next := s[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i += 2

		case next == '{':
			end := closingBrace(s, i+2)
			if end < 0 {
				return "", fmt.Errorf("invalid interpolation format for %q: missing closing brace", s)
			}
			v, err := expandBraced(s[i+2:end], vars)
			if err != nil {
				return "", err
			}
			b.WriteString(v)
			i = end + 1

		case isNameStart(next):
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			b.WriteString(vars[s[i+1:j]])
			i = j

		default:
			b.WriteByte('$')
			i++
		}
	}
	return b.String(), nil
}

// expandBraced resolves the body of a ${...} reference.
func expandBraced(body string, vars map[string]string) (string, error) {
	n := 0
	for n < len(body) && isNameChar(body[n]) {
		n++
	}
	name, rest := body[:n], body[n:]
	if name == "" || !isNameStart(name[0]) {
		return "", fmt.Errorf("invalid interpolation format for ${%s}", body)
	}
	value, set := vars[name]
	if rest == "" {
		return value, nil
	}

	colon := strings.HasPrefix(rest, ":")
	if colon {
		rest = rest[1:]
	}
	if rest == "" {
		return "", fmt.Errorf("invalid interpolation format for ${%s}", body)
	}
	op, arg := rest[0], rest[1:]
	present := set && (!colon || value != "")

	switch op {
	case '-':
		if present {
			return value, nil
		}
		return Expand(arg, vars)
	case '?':
		if present {
			return value, nil
		}
		msg, err := Expand(arg, vars)
		if err != nil {
			return "", err
		}
		return "", fmt.Errorf("required variable %s is missing a value: %s", name, msg)
	case '+':
		if present {
			return Expand(arg, vars)
		}
		return "", nil
	default:
		return "", fmt.Errorf("invalid interpolation format for ${%s}", body)
	}
}

// closingBrace returns the index of the brace that closes a ${ whose body
// starts at from, accounting for nested references, or -1.
func closingBrace(s string, from int) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch {
		case s[i] == '$' && i+1 < len(s) && s[i+1] == '{':
			depth++
			i++
		case s[i] == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
