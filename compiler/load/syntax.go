package load

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/syssam/photon/runtime/dmmf"
)

var (
	identRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	numberRe = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	callRe   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\((.*)\)$`)
	namedRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.*)$`)
)

// attribute is a single "@name(args)" or "@@name(args)" annotation.
type attribute struct {
	Name string
	Args []string
}

// arg returns the named argument, falling back to the positional argument
// at index pos (-1 for none).
func (a attribute) arg(name string, pos int) (string, bool) {
	positional := 0
	for _, raw := range a.Args {
		if m := namedRe.FindStringSubmatch(raw); m != nil {
			if m[1] == name {
				return m[2], true
			}
			continue
		}
		if positional == pos {
			return raw, true
		}
		positional++
	}
	return "", false
}

// parseAttributes splits the attribute section of a line.
func parseAttributes(s string) ([]attribute, error) {
	var attrs []attribute
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == ' ' || c == '\t':
			i++
			continue
		case c != '@':
			return nil, fmt.Errorf("unexpected %q", s[i:])
		}
		j := i + 1
		for j < len(s) && (isIdentByte(s[j]) || s[j] == '@' || s[j] == '.') {
			j++
		}
		attr := attribute{Name: s[i:j]}
		if j < len(s) && s[j] == '(' {
			end, err := closingParen(s, j)
			if err != nil {
				return nil, err
			}
			attr.Args = splitArgs(s[j+1 : end])
			j = end + 1
		}
		attrs = append(attrs, attr)
		i = j
	}
	return attrs, nil
}

// closingParen returns the index of the parenthesis closing the one at open.
func closingParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '"':
			end, err := closingQuote(s, i)
			if err != nil {
				return 0, err
			}
			i = end
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced parentheses in %q", s[open:])
}

func closingQuote(s string, open int) (int, error) {
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i, nil
		}
	}
	return 0, fmt.Errorf("unterminated string in %q", s[open:])
}

// splitArgs splits s on top-level commas.
func splitArgs(s string) []string {
	var (
		args  []string
		depth int
		start int
		quote bool
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quote && c == '\\':
			i++
		case c == '"':
			quote = !quote
		case quote:
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" || len(args) > 0 {
		args = append(args, last)
	}
	return args
}

// stripComment removes a trailing "//" comment outside string literals.
func stripComment(s string) string {
	quote := false
	for i := 0; i < len(s); i++ {
		switch {
		case quote && s[i] == '\\':
			i++
		case s[i] == '"':
			quote = !quote
		case !quote && s[i] == '/' && i+1 < len(s) && s[i+1] == '/':
			return strings.TrimSpace(s[:i])
		}
	}
	return s
}

// listValue parses "[a, b]" into its unquoted elements.
func listValue(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, fmt.Errorf("expected a list, got %q", raw)
	}
	var out []string
	for _, item := range splitArgs(raw[1 : len(raw)-1]) {
		v, err := unquote(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// unquote returns string literals unquoted and identifiers as is.
func unquote(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, `"`) {
		return strconv.Unquote(raw)
	}
	return raw, nil
}

func parseDefault(raw string) (*dmmf.Default, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, `"`):
		s, err := strconv.Unquote(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid default %s: %w", raw, err)
		}
		return &dmmf.Default{Kind: dmmf.DefaultString, Value: s}, nil
	case raw == "true" || raw == "false":
		return &dmmf.Default{Kind: dmmf.DefaultBoolean, Value: raw}, nil
	case numberRe.MatchString(raw):
		return &dmmf.Default{Kind: dmmf.DefaultNumber, Value: raw}, nil
	case identRe.MatchString(raw):
		return &dmmf.Default{Kind: dmmf.DefaultEnum, Value: raw}, nil
	}
	if m := callRe.FindStringSubmatch(raw); m != nil {
		return &dmmf.Default{Kind: dmmf.DefaultFunction, Value: m[1], Args: splitArgs(m[2])}, nil
	}
	return nil, fmt.Errorf("unsupported default %s", raw)
}

func isIdentByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
