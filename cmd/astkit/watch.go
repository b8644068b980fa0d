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
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long to wait for more events before re-analyzing.
const watchDebounce = 100 * time.Millisecond

// watch analyzes paths once, then again for every batch of changes until
// ctx is canceled.
//
// # Description
//
// The parent directories are watched rather than the files so that
// editors which save by renaming a temporary file over the original are
// still seen. Events are debounced and only the changed files are
// re-analyzed. Files that fail to parse do not stop the watch.
func (a *app) watch(ctx context.Context, command string, paths []string, analyze analyzer) error {
	if err := a.analyzeCommand(ctx, command, paths, analyze); fatal(ctx, err) {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &ExitError{Code: CLIExitError, Wrapped: fmt.Errorf("create watcher: %w", err)}
	}
	defer watcher.Close()

	targets := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return &ExitError{Code: CLIExitError, Wrapped: err}
		}
		targets[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return &ExitError{Code: CLIExitError, Wrapped: fmt.Errorf("watch %s: %w", dir, err)}
		}
	}
	a.logger.Info("watching for changes", "files", len(targets), "dirs", len(dirs))

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			arg, ok := targets[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			pending[arg] = true
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)

			a.logger.Info("files changed", "files", changed)
			if err := a.analyzeCommand(ctx, command, changed, analyze); fatal(ctx, err) {
				return err
			}
		}
	}
}

// fatal reports whether err from one analysis round should end the watch.
// Files that failed to parse and cancellation do not.
func fatal(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == CLIExitFindings {
		return false
	}
	return true
}
