package gemini

import (
	"bytes"
	"strconv"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// unescape decodes C-style backslash escapes: \b \f \n \r \t \v, up to three
// octal digits, and any other escaped byte standing for itself (which covers
// \" \\ and \/). A trailing lone backslash ends the text. ModeStrict also
// decodes \uXXXX, including surrogate pairs.
func unescape(raw []byte, mode Mode) string {
	if bytes.IndexByte(raw, '\\') < 0 {
		return string(raw)
	}

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}

		i++
		if i == len(raw) {
			break
		}
		switch c = raw[i]; c {
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// Truncates to a byte like the unsigned char it replaces.
			var value byte
			digits := 0
			for digits < 3 && i < len(raw) && raw[i] >= '0' && raw[i] <= '7' {
				value = value*8 + (raw[i] - '0')
				i++
				digits++
			}
			i--
			out = append(out, value)
		case 'u':
			if mode != ModeLegacy {
				if r, size, ok := decodeUnicodeEscape(raw[i+1:]); ok {
					out = utf8.AppendRune(out, r)
					i += size
					continue
				}
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// decodeUnicodeEscape reads the four hex digits following \u, joining a
// following \uXXXX low surrogate when there is one. size counts the bytes
// consumed after the 'u'.
func decodeUnicodeEscape(raw []byte) (r rune, size int, ok bool) {
	if len(raw) < 4 {
		return 0, 0, false
	}
	high, err := strconv.ParseUint(string(raw[:4]), 16, 32)
	if err != nil {
		return 0, 0, false
	}
	r = rune(high)
	if utf16.IsSurrogate(r) && len(raw) >= 10 && raw[4] == '\\' && raw[5] == 'u' {
		if low, err := strconv.ParseUint(string(raw[6:10]), 16, 32); err == nil {
			if joined := utf16.DecodeRune(r, rune(low)); joined != unicode.ReplacementChar {
				return joined, 10, true
			}
		}
	}
	return r, 4, true
}
