package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/streampad/cli/pkg/console"
	"github.com/streampad/cli/pkg/validation"
)

// watchAndValidate watches the package directories and revalidates on file
// changes. An initial validation runs before watching starts; afterwards only
// packages whose files changed are revalidated. Validation findings keep the
// watch alive, only watcher failures end it.
func watchAndValidate(paths []string, v *validation.Validator, verbose bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range paths {
		if err := addRecursive(watcher, root); err != nil {
			return err
		}
	}

	fmt.Println(console.FormatInfoMessage(fmt.Sprintf("Watching %d package(s) for changes...", len(paths))))
	if verbose {
		fmt.Println("Press Ctrl+C to stop watching.")
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Debouncing setup
	const debounceDelay = 300 * time.Millisecond
	var debounceTimer *time.Timer
	dirty := make(map[string]struct{})
	revalidate := make(chan struct{}, 1)

	if err := runValidation(paths, v, verbose); err != nil && !errors.Is(err, ErrValidationFailed) {
		fmt.Println(console.FormatWarningMessage(fmt.Sprintf("Initial validation failed: %v", err)))
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			// New directories inside a package need their own watch.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}

			if !relevantChange(event) {
				continue
			}
			root := owningRoot(paths, event.Name)
			if root == "" {
				continue
			}
			if verbose {
				fmt.Println(console.FormatVerboseMessage(fmt.Sprintf("Detected change: %s (%s)", event.Name, event.Op)))
			}

			dirty[root] = struct{}{}

			// Reset debounce timer
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case revalidate <- struct{}{}:
				default:
				}
			})

		case <-revalidate:
			roots := make([]string, 0, len(dirty))
			for root := range dirty {
				roots = append(roots, root)
			}
			sort.Strings(roots)
			dirty = make(map[string]struct{})
			if len(roots) == 0 {
				continue
			}

			fmt.Println(console.FormatProgressMessage(fmt.Sprintf("Revalidating %d package(s)...", len(roots))))
			if err := runValidation(roots, v, verbose); err != nil && !errors.Is(err, ErrValidationFailed) {
				fmt.Println(console.FormatWarningMessage(fmt.Sprintf("Revalidation failed: %v", err)))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if verbose {
				fmt.Println(console.FormatWarningMessage(fmt.Sprintf("Watcher error: %v", err)))
			}

		case <-sigChan:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		}
	}
}

// addRecursive watches root and every directory below it.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

// relevantChange reports whether the event can change validation results.
func relevantChange(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// owningRoot maps a changed file to the watched package it belongs to.
func owningRoot(roots []string, name string) string {
	for _, root := range roots {
		if name == root || strings.HasPrefix(name, root+string(os.PathSeparator)) {
			return root
		}
	}
	return ""
}
