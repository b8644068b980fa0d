// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CommandResult wraps command output with metadata for JSON and YAML.
type CommandResult struct {
	APIVersion string       `json:"api_version" yaml:"api_version"`
	Command    string       `json:"command" yaml:"command"`
	RunID      string       `json:"run_id" yaml:"run_id"`
	Timestamp  time.Time    `json:"timestamp" yaml:"timestamp"`
	DurationMs int64        `json:"duration_ms" yaml:"duration_ms"`
	Success    bool         `json:"success" yaml:"success"`
	Files      []FileReport `json:"files" yaml:"files"`
}

// Colors match the Aleutian terminal palette.
var (
	colorTeal    = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#5A7A84")
)

// styles are the lipgloss styles of one text rendering.
type styles struct {
	file    lipgloss.Style
	section lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

// newStyles builds styles for w. mode is "always", "never" or "auto"; auto
// colors only when w is a terminal.
func newStyles(w io.Writer, mode string) styles {
	r := lipgloss.NewRenderer(w)
	if !useColor(w, mode) {
		r.SetColorProfile(termenv.Ascii)
	} else if mode == "always" {
		r.SetColorProfile(termenv.ANSI256)
	}
	return styles{
		file:    r.NewStyle().Bold(true).Foreground(colorTeal),
		section: r.NewStyle().Bold(true),
		name:    r.NewStyle().Foreground(colorTeal),
		muted:   r.NewStyle().Foreground(colorMuted),
		warning: r.NewStyle().Foreground(colorWarning),
		err:     r.NewStyle().Foreground(colorError),
	}
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// exitCode returns CLIExitFindings when any report failed.
func exitCode(reports []FileReport) int {
	for _, r := range reports {
		if r.Failed() {
			return CLIExitFindings
		}
	}
	return CLIExitSuccess
}

// writeReports writes reports in the configured format and returns the
// exit code for them.
func (a *app) writeReports(command string, start time.Time, reports []FileReport) int {
	code := exitCode(reports)
	var err error
	switch a.cfg.Output.Format {
	case FormatJSON, FormatYAML:
		result := CommandResult{
			APIVersion: "1.0",
			Command:    command,
			RunID:      a.runID,
			Timestamp:  time.Now().UTC(),
			DurationMs: time.Since(start).Milliseconds(),
			Success:    code == CLIExitSuccess,
			Files:      reports,
		}
		err = encode(a.stdout, a.cfg.Output.Format, result)
	default:
		err = renderText(a.stdout, newStyles(a.stdout, a.cfg.Output.Color), command, reports)
	}
	if err != nil {
		a.logger.Error("failed to write output", "error", err)
		return CLIExitError
	}
	return code
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// renderText writes the human-readable form of reports.
func renderText(w io.Writer, st styles, command string, reports []FileReport) error {
	var b strings.Builder
	for _, rep := range reports {
		if command == "lang" {
			renderLang(&b, st, rep)
			continue
		}
		b.WriteString(st.file.Render(rep.File))
		if rep.Lang != "" {
			b.WriteString(" " + st.muted.Render("("+rep.Lang+")"))
		}
		b.WriteByte('\n')
		if rep.Failed() {
			b.WriteString("  " + st.err.Render("error: "+rep.Error) + "\n")
			continue
		}
		for _, d := range rep.Diagnostics {
			b.WriteString("  " + st.warning.Render("warning: "+d) + "\n")
		}
		switch command {
		case "refs", "idents":
			renderIdentifiers(&b, st, rep.Identifiers, command == "idents")
		case "bindings":
			renderBindings(&b, st, rep)
		case "scopes":
			renderScopes(&b, st, rep.Scopes)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderIdentifiers(b *strings.Builder, st styles, ids []Identifier, flags bool) {
	if len(ids) == 0 {
		b.WriteString("  " + st.muted.Render("none") + "\n")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(b, "  %s  %s", st.muted.Render(fmt.Sprintf("%4d:%-3d", id.Line, id.Column)), st.name.Render(id.Name))
		if flags {
			var tags []string
			if id.Reference {
				tags = append(tags, "reference")
			}
			if id.Local {
				tags = append(tags, "local")
			}
			tags = append(tags, "in "+id.Parent)
			b.WriteString("  " + st.muted.Render(strings.Join(tags, ", ")))
		}
		b.WriteByte('\n')
	}
}

func renderBindings(b *strings.Builder, st styles, rep FileReport) {
	b.WriteString("  " + st.section.Render("imports") + "\n")
	if len(rep.Imports) == 0 {
		b.WriteString("    " + st.muted.Render("none") + "\n")
	}
	for _, imp := range rep.Imports {
		fmt.Fprintf(b, "    %s %s %s from %q", st.name.Render(imp.Local), st.muted.Render("<-"), imp.Imported, imp.Source)
		if imp.IsType {
			b.WriteString(" " + st.muted.Render("[type]"))
		}
		b.WriteByte('\n')
	}

	b.WriteString("  " + st.section.Render("exports") + "\n")
	if len(rep.Exports) == 0 {
		b.WriteString("    " + st.muted.Render("none") + "\n")
	}
	for _, exp := range rep.Exports {
		fmt.Fprintf(b, "    %s %s %s", st.name.Render(exp.Exported), st.muted.Render("<-"), exp.Local)
		if exp.Source != nil {
			fmt.Fprintf(b, " from %q", *exp.Source)
		}
		if exp.IsType {
			b.WriteString(" " + st.muted.Render("[type]"))
		}
		b.WriteByte('\n')
	}
}

func renderScopes(b *strings.Builder, st styles, scopes []ScopeReport) {
	for _, s := range scopes {
		indent := strings.Repeat("  ", s.Depth+1)
		label := s.Kind
		if s.Node != "" {
			label = fmt.Sprintf("%s %s:%d", s.Kind, s.Node, s.Line)
		}
		names := st.muted.Render("-")
		if len(s.Names) > 0 {
			names = st.name.Render(strings.Join(s.Names, ", "))
		}
		fmt.Fprintf(b, "%s%s  %s\n", indent, st.section.Render(label), names)
	}
}

func renderLang(b *strings.Builder, st styles, rep FileReport) {
	l := rep.Language
	if l == nil {
		return
	}
	var features []string
	if l.Options.TypeScript {
		features = append(features, "typescript")
	}
	if l.Options.JSX {
		features = append(features, "jsx")
	}
	if l.Options.DTS {
		features = append(features, "dts")
	}
	if l.Options.Decorators {
		features = append(features, "decorators")
	}
	lang := l.Lang
	if lang == "" {
		lang = "?"
	}
	fmt.Fprintf(b, "%s  %s  %s  %s\n",
		st.file.Render(rep.File),
		st.name.Render(lang),
		l.Options.Grammar,
		st.muted.Render(strings.Join(features, ",")))
}
