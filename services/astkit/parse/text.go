// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parse

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// stripQuotes removes the surrounding quote characters of a string token.
func stripQuotes(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	switch raw[0] {
	case '"', '\'', '`':
		if raw[len(raw)-1] == raw[0] {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// decodeString resolves the escape sequences of a JavaScript string or
// template body. It reports false when an escape is malformed, in which
// case the returned string holds what was decoded before it.
func decodeString(s string) (string, bool) {
	if !strings.ContainsRune(s, '\\') {
		return s, true
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		ch := s[i]
		if ch != '\\' {
			b.WriteByte(ch)
			i++
			continue
		}
		i++
		if i >= len(s) {
			return b.String(), false
		}
		esc := s[i]
		i++
		switch esc {
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
			if i < len(s) && s[i] >= '0' && s[i] <= '9' {
				return b.String(), false
			}
			b.WriteByte(0)
		case '\r':
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if i+2 > len(s) {
				return b.String(), false
			}
			v, err := strconv.ParseUint(s[i:i+2], 16, 8)
			if err != nil {
				return b.String(), false
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u':
			r, n, ok := decodeUnicodeEscape(s[i:])
			if !ok {
				return b.String(), false
			}
			i += n
			// Surrogate pairs written as two \u escapes.
			if r >= 0xD800 && r <= 0xDBFF && strings.HasPrefix(s[i:], `\u`) {
				if lo, m, ok := decodeUnicodeEscape(s[i+2:]); ok && lo >= 0xDC00 && lo <= 0xDFFF {
					r = (r-0xD800)<<10 + (lo - 0xDC00) + 0x10000
					i += 2 + m
				}
			}
			if !utf8.ValidRune(r) {
				r = utf8.RuneError
			}
			b.WriteRune(r)
		default:
			// Line separators and any other character escape to themselves.
			b.WriteByte(esc)
		}
	}
	return b.String(), true
}

// decodeUnicodeEscape decodes the part of a \u escape after the "u":
// either four hex digits or a braced code point.
func decodeUnicodeEscape(s string) (rune, int, bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > 0x10FFFF {
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
