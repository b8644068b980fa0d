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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const refsSource = "function f(a) { const c = a + b; return c }\nf(x)\n"

// isolate runs the test in an empty directory with an empty home so that
// no astkit.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func runCLI(ctx context.Context, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func decodeResult(t *testing.T, out string) CommandResult {
	t.Helper()
	var result CommandResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	return result
}

func names(ids []Identifier) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Name)
	}
	return out
}

func TestRefs_JSON(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "a.js", refsSource)

	out, stderr, err := runCLI(context.Background(), "refs", "-o", "json", path)
	require.NoError(t, err, stderr)

	result := decodeResult(t, out)
	assert.Equal(t, "refs", result.Command)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "js", result.Files[0].Lang)
	assert.Equal(t, []string{"b", "f", "x"}, names(result.Files[0].Identifiers))
	assert.Equal(t, 2, result.Files[0].Identifiers[2].Line)

	assert.Contains(t, stderr, "analysis complete")
	assert.Contains(t, stderr, "run_id="+result.RunID)
}

func TestRefs_Text(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "a.js", refsSource)

	out, _, err := runCLI(context.Background(), "refs", "--color", "never", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "(js)")
	assert.Contains(t, out, "2:0")
}

func TestRefs_ConfigKnownIDs(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "a.js", refsSource)
	writeFile(t, dir, "astkit.yaml", "walk:\n  known_ids: [x]\noutput:\n  format: json\n")

	out, _, err := runCLI(context.Background(), "refs", path)
	require.NoError(t, err)
	result := decodeResult(t, out)
	assert.Equal(t, []string{"b", "f"}, names(result.Files[0].Identifiers))
}

func TestRefs_MultipleFilesKeepOrder(t *testing.T) {
	dir := isolate(t)
	var paths []string
	for _, name := range []string{"c.js", "a.ts", "b.jsx"} {
		paths = append(paths, writeFile(t, dir, name, "use(value)\n"))
	}

	out, _, err := runCLI(context.Background(), append([]string{"refs", "-o", "json"}, paths...)...)
	require.NoError(t, err)
	result := decodeResult(t, out)
	require.Len(t, result.Files, 3)
	for i, rep := range result.Files {
		assert.Equal(t, paths[i], rep.File)
		assert.Equal(t, []string{"use", "value"}, names(rep.Identifiers))
	}
}

func TestRefs_SyntaxErrorExitCode(t *testing.T) {
	dir := isolate(t)
	good := writeFile(t, dir, "good.js", "a\n")
	bad := writeFile(t, dir, "bad.js", "let = ;\n")

	out, _, err := runCLI(context.Background(), "refs", "-o", "json", good, bad)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, CLIExitFindings, exitErr.Code)

	result := decodeResult(t, out)
	assert.False(t, result.Success)
	assert.False(t, result.Files[0].Failed())
	assert.True(t, result.Files[1].Failed())
}

func TestRefs_ErrorRecovery(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, dir, "bad.js", "let = ;\nfoo(bar)\n")

	out, _, err := runCLI(context.Background(), "refs", "--recover", "-o", "json", bad)
	require.NoError(t, err)
	result := decodeResult(t, out)
	assert.NotEmpty(t, result.Files[0].Diagnostics)
	assert.Contains(t, names(result.Files[0].Identifiers), "bar")
}

func TestRefs_MissingFile(t *testing.T) {
	dir := isolate(t)
	_, stderr, err := runCLI(context.Background(), "refs", filepath.Join(dir, "missing.js"))
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, CLIExitFindings, exitErr.Code)
	assert.Contains(t, stderr, "failed to read file")
}

func TestIdents_Classification(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "a.js", refsSource)

	out, _, err := runCLI(context.Background(), "idents", "-o", "json", path)
	require.NoError(t, err)
	ids := decodeResult(t, out).Files[0].Identifiers

	find := func(name string, ref bool) *Identifier {
		for i := range ids {
			if ids[i].Name == name && ids[i].Reference == ref {
				return &ids[i]
			}
		}
		return nil
	}
	free := find("b", true)
	require.NotNil(t, free)
	assert.False(t, free.Local)

	param := find("a", true)
	require.NotNil(t, param)
	assert.True(t, param.Local)

	decl := find("f", false)
	require.NotNil(t, decl)
	assert.Equal(t, "FunctionDeclaration", decl.Parent)
}

func TestBindings_YAML(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "mod.ts", `import def, { a as b, type T } from "lib"
import * as ns from "./ns"
export { b as c }
export default function main() {}
export * from "./all"
export interface Shape {}
`)

	out, stderr, err := runCLI(context.Background(), "bindings", "-o", "yaml", path)
	require.NoError(t, err, stderr)

	var result CommandResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &result), out)
	rep := result.Files[0]

	locals := make([]string, 0, len(rep.Imports))
	for _, imp := range rep.Imports {
		locals = append(locals, imp.Local)
	}
	assert.Equal(t, []string{"T", "b", "def", "ns"}, locals)
	assert.Equal(t, "a", rep.Imports[1].Imported)
	assert.True(t, rep.Imports[0].IsType)

	exported := make([]string, 0, len(rep.Exports))
	for _, exp := range rep.Exports {
		exported = append(exported, exp.Exported)
	}
	assert.Equal(t, []string{"*", "Shape", "c", "default"}, exported)
}

func TestBindings_Text(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "mod.js", "import x from 'y'\nexport const z = x\n")

	out, _, err := runCLI(context.Background(), "bindings", "--color", "never", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imports")
	assert.Contains(t, out, `from "y"`)
	assert.Contains(t, out, "exports")
}

func TestScopes(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "s.js", "var top = 1\nfunction f(p) { let inner; { const deep = 2 } }\ntry {} catch (e) {}\n")

	out, _, err := runCLI(context.Background(), "scopes", "-o", "json", path)
	require.NoError(t, err)
	scopes := decodeResult(t, out).Files[0].Scopes
	require.NotEmpty(t, scopes)

	assert.Equal(t, "root", scopes[0].Kind)
	assert.Equal(t, []string{"f", "top"}, scopes[0].Names)

	var fn, catch *ScopeReport
	for i := range scopes {
		switch scopes[i].Node {
		case "FunctionDeclaration":
			fn = &scopes[i]
		case "CatchClause":
			catch = &scopes[i]
		}
	}
	require.NotNil(t, fn)
	assert.Equal(t, "function", fn.Kind)
	assert.Equal(t, 1, fn.Depth)
	assert.Equal(t, []string{"inner", "p"}, fn.Names)
	require.NotNil(t, catch)
	assert.Equal(t, "block", catch.Kind)
	assert.Equal(t, []string{"e"}, catch.Names)
}

func TestScopes_RequiresOneFile(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(context.Background(), "scopes", "a.js", "b.js")
	assert.Error(t, err)
}

func TestLang(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(context.Background(), "lang", "-o", "json", "a.tsx", "types.d.ts", "x.mjs")
	require.NoError(t, err)
	files := decodeResult(t, out).Files
	require.Len(t, files, 3)

	assert.Equal(t, "tsx", files[0].Lang)
	assert.True(t, files[0].Language.IsTS)
	assert.True(t, files[0].Language.Options.JSX)

	assert.Equal(t, "dts", files[1].Lang)
	assert.True(t, files[1].Language.IsDTS)

	assert.Equal(t, "mjs", files[2].Lang)
	assert.False(t, files[2].Language.IsTS)
}

func TestLang_FlagOverride(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(context.Background(), "lang", "--lang", "ts", "-o", "json", "a.js")
	require.NoError(t, err)
	assert.Equal(t, "ts", decodeResult(t, out).Files[0].Lang)
}

func TestInvalidFlagValue(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(context.Background(), "lang", "--format", "xml", "a.js")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, CLIExitError, exitErr.Code)
	assert.Contains(t, err.Error(), "output.format")
}

func TestInvalidConfigFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "astkit.yaml", "parse:\n  unknown: true\n")
	_, _, err := runCLI(context.Background(), "lang", "a.js")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, CLIExitError, exitErr.Code)
}

func TestMetricsTextfile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "a.js", refsSource)
	metrics := filepath.Join(dir, "astkit.prom")

	_, stderr, err := runCLI(context.Background(), "refs", "--metrics-textfile", metrics, "-o", "json", path)
	require.NoError(t, err, stderr)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "astkit_cli_files_total")
	assert.Contains(t, string(data), `command="refs"`)
}

func TestLogLevelDebug(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "a.js", "a\n")
	_, stderr, err := runCLI(context.Background(), "refs", "--log-level", "debug", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "configuration loaded")
	assert.Contains(t, stderr, "file analyzed")
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRefs_Watch(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "w.js", "first()\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"refs", "--watch", "--color", "never", path})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "first")
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("second()\n"), 0600)
		return strings.Contains(stdout.String(), "second")
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Contains(t, stderr.String(), "files changed")
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
