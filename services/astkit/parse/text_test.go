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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", "abc", "abc", true},
		{"simple escapes", `a\tb\nc`, "a\tb\nc", true},
		{"quote", `it\'s`, "it's", true},
		{"hex", `\x41`, "A", true},
		{"unicode", `\u00e9`, "é", true},
		{"code point", `\u{1F600}`, "😀", true},
		{"surrogate pair", `\uD83D\uDE00`, "😀", true},
		{"line continuation", "a\\\nb", "ab", true},
		{"nul", `\0`, "\x00", true},
		{"bad hex", `\xZZ`, "", false},
		{"truncated", `a\`, "a", false},
		{"legacy octal", `\01`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeString(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "abc", stripQuotes(`"abc"`))
	assert.Equal(t, "abc", stripQuotes(`'abc'`))
	assert.Equal(t, "", stripQuotes(`''`))
	assert.Equal(t, "'", stripQuotes(`'`))
	assert.Equal(t, `"abc'`, stripQuotes(`"abc'`))
}

func TestPascal(t *testing.T) {
	assert.Equal(t, "TypePredicateAnnotation", pascal("type_predicate_annotation"))
	assert.Equal(t, "Asserts", pascal("asserts"))
}
