// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// EscapeKey returns rawKey in a form usable as an object-literal key.
//
// Canonical numbers ("1", "1.5") and identifier names (including reserved
// words and non-ASCII letters) are returned unchanged. Anything else is
// returned as a JSON string literal: "1_2" becomes `"1_2"`.
func EscapeKey(rawKey string) string {
	if f, err := strconv.ParseFloat(rawKey, 64); err == nil && FormatNumber(f) == rawKey {
		return rawKey
	}
	if IsIdentifierName(rawKey) {
		return rawKey
	}
	return jsonQuote(rawKey)
}

// jsonQuote quotes s like JSON.stringify, leaving <, > and & alone.
func jsonQuote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// IsIdentifierName reports whether s is an ECMAScript IdentifierName.
// Reserved words are IdentifierNames.
func IsIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIDStart(r) {
				return false
			}
			continue
		}
		if !isIDContinue(r) {
			return false
		}
	}
	return true
}

func isIDStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) ||
		unicode.Is(unicode.Other_ID_Start, r)
}

func isIDContinue(r rune) bool {
	return isIDStart(r) || r == '\u200c' || r == '\u200d' ||
		unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc) ||
		unicode.Is(unicode.Other_ID_Continue, r)
}
