package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestOwningRoot(t *testing.T) {
	sep := string(os.PathSeparator)
	roots := []string{"a.spPlugin", "b" + sep + "c.spPlugin"}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"root itself", "a.spPlugin", "a.spPlugin"},
		{"file inside root", "a.spPlugin" + sep + "manifest.json", "a.spPlugin"},
		{"nested file", "b" + sep + "c.spPlugin" + sep + "imgs" + sep + "x.png", "b" + sep + "c.spPlugin"},
		{"sibling with shared prefix", "a.spPlugin2" + sep + "manifest.json", ""},
		{"unrelated path", "elsewhere" + sep + "file", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := owningRoot(roots, tc.path); got != tc.want {
				t.Errorf("owningRoot(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestRelevantChange(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want bool
	}{
		{fsnotify.Write, true},
		{fsnotify.Create, true},
		{fsnotify.Remove, true},
		{fsnotify.Rename, true},
		{fsnotify.Chmod, false},
	}

	for _, tc := range tests {
		event := fsnotify.Event{Name: "manifest.json", Op: tc.op}
		if got := relevantChange(event); got != tc.want {
			t.Errorf("relevantChange(%v) = %v, want %v", tc.op, got, tc.want)
		}
	}
}

func TestAddRecursive(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "imgs", "deep")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "manifest.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		t.Fatalf("addRecursive: %v", err)
	}

	watched := watcher.WatchList()
	for _, dir := range []string{root, filepath.Join(root, "imgs"), deep} {
		found := false
		for _, w := range watched {
			if w == dir {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s is not watched; watch list: %v", dir, watched)
		}
	}
}
