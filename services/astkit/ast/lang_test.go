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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLang(t *testing.T) {
	tests := map[string]string{
		"foo.js":              "js",
		"foo.ts":              "ts",
		"foo.mts":             "mts",
		"foo.cts":             "cts",
		"foo.d.ts":            "dts",
		"foo.d.mts":           "dts",
		"foo.json":            "json",
		"foo.vue":             "vue",
		"foo.vue?type=script": "vue",
		"dir/foo.tsx":         "tsx",
		"Makefile":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, GetLang(in), in)
	}
}

func TestIsDts(t *testing.T) {
	assert.True(t, IsDts("foo.d.ts"))
	assert.True(t, IsDts("foo.d.mts"))
	assert.True(t, IsDts("foo.d.cts?raw"))
	assert.False(t, IsDts("foo.ts"))
	assert.False(t, IsDts("foo.d.js"))
}

func TestIsTs(t *testing.T) {
	for _, lang := range []string{"ts", "cts", "mts", "tsx", "dts"} {
		assert.True(t, IsTs(lang), lang)
	}
	for _, lang := range []string{"jsx", "cjs", "js", ""} {
		assert.False(t, IsTs(lang), lang)
	}
}

func TestIsJSX(t *testing.T) {
	assert.True(t, IsJSX("jsx"))
	assert.True(t, IsJSX("tsx"))
	assert.True(t, IsJSX("mtsx"))
	assert.False(t, IsJSX("ts"))
	assert.False(t, IsJSX("js"))
}
