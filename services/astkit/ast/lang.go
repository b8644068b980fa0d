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
	"path"
	"regexp"
	"strings"
)

// Language identifiers returned by GetLang for the JavaScript family.
const (
	LangJS  = "js"
	LangJSX = "jsx"
	LangTS  = "ts"
	LangTSX = "tsx"
	LangDTS = "dts"
)

var (
	dtsPattern    = regexp.MustCompile(`\.d\.[cm]?ts(\?.*)?$`)
	tsLangPattern = regexp.MustCompile(`^[cm]?tsx?$`)
	jsxPattern    = regexp.MustCompile(`^[cm]?[jt]sx$`)
)

// GetLang returns the language of filename: "dts" for declaration files,
// otherwise the extension without its dot and without any "?query" suffix
// ("foo.mts" → "mts", "foo.vue?type=script" → "vue").
func GetLang(filename string) string {
	if IsDts(filename) {
		return LangDTS
	}
	name, _, _ := strings.Cut(filename, "?")
	return strings.TrimPrefix(path.Ext(name), ".")
}

// IsDts reports whether filename is a TypeScript declaration file.
func IsDts(filename string) bool {
	return dtsPattern.MatchString(filename)
}

// IsTs reports whether lang is a TypeScript dialect (ts, mts, cts, tsx,
// mtsx, ctsx or dts).
func IsTs(lang string) bool {
	return lang != "" && (lang == LangDTS || tsLangPattern.MatchString(lang))
}

// IsJSX reports whether lang is a JSX-enabled extension (jsx, tsx and their
// m/c variants).
func IsJSX(lang string) bool {
	return jsxPattern.MatchString(lang)
}
