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
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for parse failure categories. Check with errors.Is.
var (
	// ErrParseFailed indicates that no usable tree was produced, or that the
	// tree contains syntax errors and error recovery is off.
	ErrParseFailed = errors.New("parse failed")

	// ErrInvalidContent indicates input that is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")

	// ErrFileTooLarge is returned when input exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")

	// ErrNilContext is returned when a nil context is passed.
	ErrNilContext = errors.New("nil context")

	// ErrNotExpression is returned by ParseExpression when the input is not
	// a single expression.
	ErrNotExpression = errors.New("not a single expression")
)

// ParseError is one syntax diagnostic.
//
// Example:
//
//	var pe *parse.ParseError
//	if errors.As(err, &pe) {
//	    fmt.Printf("%s:%d:%d: %s\n", pe.FilePath, pe.Line, pe.Column, pe.Message)
//	}
type ParseError struct {
	// FilePath is the file name given with WithFilename, or empty.
	FilePath string `json:"filePath,omitempty" yaml:"filePath,omitempty"`

	// Line is 1-based; 0 when unknown.
	Line int `json:"line" yaml:"line"`

	// Column is the 0-based byte column.
	Column int `json:"column" yaml:"column"`

	// Index is the byte offset of the error in the source.
	Index int `json:"index" yaml:"index"`

	// Message describes the problem.
	Message string `json:"message" yaml:"message"`

	// Cause is the underlying error, if any.
	Cause error `json:"-" yaml:"-"`
}

// Error formats the diagnostic as "file:line:column: message", dropping the
// parts that are unknown.
func (e *ParseError) Error() string {
	loc := e.FilePath
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", loc, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// SyntaxErrors is returned by Parse when the source has syntax errors and
// error recovery is off. It matches ErrParseFailed with errors.Is.
type SyntaxErrors struct {
	Errors []*ParseError
}

// Error lists the first diagnostic and a count of the rest.
func (e *SyntaxErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "syntax error"
	case 1:
		return "syntax error: " + e.Errors[0].Error()
	}
	var b strings.Builder
	b.WriteString("syntax errors: ")
	b.WriteString(e.Errors[0].Error())
	fmt.Fprintf(&b, " (and %d more)", len(e.Errors)-1)
	return b.String()
}

// Is reports ErrParseFailed as a match.
func (e *SyntaxErrors) Is(target error) bool {
	return target == ErrParseFailed
}

// Unwrap exposes the individual diagnostics to errors.As.
func (e *SyntaxErrors) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		out[i] = pe
	}
	return out
}

// IsSyntaxError reports whether err carries parse diagnostics.
func IsSyntaxError(err error) bool {
	var se *SyntaxErrors
	return errors.As(err, &se)
}
