package browser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EscapeBytes makes b safe to print on one terminal line. Printable UTF-8 is
// kept as is; backslash, control characters, non-printable runes and
// invalid bytes become Go-style escapes. UnescapeString reverses it.
func EscapeBytes(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		switch {
		case r == utf8.RuneError && size <= 1:
			fmt.Fprintf(&sb, `\x%02x`, b[0])
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < utf8.RuneSelf && !unicode.IsPrint(r):
			fmt.Fprintf(&sb, `\x%02x`, r)
		case !unicode.IsPrint(r):
			if r > 0xFFFF {
				fmt.Fprintf(&sb, `\U%08x`, r)
			} else {
				fmt.Fprintf(&sb, `\u%04x`, r)
			}
		default:
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}

// UnescapeString decodes the output of EscapeBytes back to the raw bytes.
func UnescapeString(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("trailing backslash at offset %d", i)
		}
		i++
		switch s[i] {
		case '\\':
			out = append(out, '\\')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'x':
			v, err := parseHex(s, i+1, 2)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(v))
			i += 2
		case 'u':
			v, err := parseHex(s, i+1, 4)
			if err != nil {
				return nil, err
			}
			out = utf8.AppendRune(out, rune(v))
			i += 4
		case 'U':
			v, err := parseHex(s, i+1, 8)
			if err != nil {
				return nil, err
			}
			out = utf8.AppendRune(out, rune(v))
			i += 8
		default:
			return nil, fmt.Errorf("unknown escape \\%c at offset %d", s[i], i-1)
		}
	}
	return out, nil
}

func parseHex(s string, start, n int) (uint64, error) {
	if start+n > len(s) {
		return 0, fmt.Errorf("short escape at offset %d", start)
	}
	v, err := strconv.ParseUint(s[start:start+n], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad escape at offset %d: %w", start, err)
	}
	return v, nil
}
