package processor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// decodeJS returns the value of a JavaScript string or template chunk body.
// It reports false for legacy octal escapes, malformed escapes and lone
// surrogates, whose value cannot be re-encoded faithfully.
func decodeJS(body string) (string, bool) {
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", false
		}

		e := body[i+1]
		i += 2
		switch e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if i < len(body) && body[i] >= '0' && body[i] <= '9' {
				return "", false
			}
			b.WriteByte(0)
		case 'x':
			if i+2 > len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i:i+2], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u':
			r, n, ok := decodeJSUnicode(body[i:])
			if !ok {
				return "", false
			}
			i += n
			if utf16.IsSurrogate(r) {
				if r >= 0xDC00 || !strings.HasPrefix(body[i:], `\u`) {
					return "", false
				}
				lo, m, ok := decodeJSUnicode(body[i+2:])
				if !ok {
					return "", false
				}
				r = utf16.DecodeRune(r, lo)
				if r == utf8.RuneError {
					return "", false
				}
				i += 2 + m
			}
			b.WriteRune(r)
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\n':
		default:
			if e >= '1' && e <= '9' {
				return "", false
			}
			r, size := utf8.DecodeRuneInString(body[i-1:])
			i += size - 1
			if r == '\u2028' || r == '\u2029' {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String(), true
}

// decodeJSUnicode parses the part of a \u escape after the "u".
func decodeJSUnicode(s string) (rune, int, bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0, false
		}
		return rune(v), end + 1, true
	}
	if len(s) < 4 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), 4, true
}

// escapeJSQuoted encodes a value for the body of a quoted JavaScript string.
// Backslashes go first, then the literal's own quote, then line terminators.
func escapeJSQuoted(s string, quote byte) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\u2028' || r == '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		case r < 0x20 && r != '\t':
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeJSTemplate encodes a value for a static template chunk.
func escapeJSTemplate(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '`':
			b.WriteString("\\`")
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\$`)
		case c == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// decodePython returns the value of a non-raw Python string body. Unknown
// escapes keep their backslash. It reports false for named escapes and for
// bytes literals holding non-ASCII values.
func decodePython(body string, bytesLit bool) (string, bool) {
	if !strings.Contains(body, `\`) {
		return body, !bytesLit || isASCII(body)
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", false
		}

		e := body[i+1]
		i += 2
		switch e {
		case '\n':
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i - 1
			for j < len(body) && j < i+2 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i-1:j], 8, 32)
			b.WriteRune(rune(v))
			i = j
		case 'x':
			if i+2 > len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i:i+2], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u', 'U':
			if bytesLit {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			n := 4
			if e == 'U' {
				n = 8
			}
			if i+n > len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i:i+n], 16, 32)
			if err != nil || v > utf8.MaxRune {
				return "", false
			}
			b.WriteRune(rune(v))
			i += n
		case 'N':
			if bytesLit {
				b.WriteString(`\N`)
				continue
			}
			return "", false
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}

	value := b.String()
	if bytesLit && !isASCII(value) {
		return "", false
	}
	return value, true
}

// escapePython encodes a value for the body of a Python string.
// Single-quoted bodies also escape line terminators; triple-quoted bodies
// escape the last quote of any run of three and a trailing quote.
func escapePython(s string, quote byte, triple bool) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	run := 0
	for _, r := range s {
		if r == rune(quote) {
			if !triple {
				b.WriteByte('\\')
				b.WriteByte(quote)
				continue
			}
			run++
			if run == 3 {
				b.WriteByte('\\')
				run = 0
			}
			b.WriteByte(quote)
			continue
		}
		run = 0

		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n' && !triple:
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case (r < 0x20 && r != '\t' && r != '\n') || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if triple && run > 0 {
		out = out[:len(out)-1] + `\` + string(quote)
	}
	return out
}
