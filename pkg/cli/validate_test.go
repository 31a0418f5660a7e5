package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/streampad/cli/pkg/validation"
)

const testManifest = `{
  "UUID": "com.example.hello",
  "Name": "Hello",
  "Version": "1.0.0",
  "Author": "Example",
  "Icon": "icon",
  "CodePath": "app.js",
  "SDKVersion": 2,
  "OS": [{ "Platform": "windows" }],
  "Software": { "MinimumVersion": "6" },
  "Actions": [
    {
      "UUID": "com.example.hello.say",
      "Name": "Say",
      "Icon": "act",
      "States": [{ "Image": "img" }]
    }
  ]
}`

func helloFiles() map[string]string {
	return map[string]string{
		"manifest.json": testManifest,
		"app.js":        "export default {};\n",
		"icon.svg":      "<svg/>",
		"act.svg":       "<svg/>",
		"img.svg":       "<svg/>",
	}
}

func writePlugin(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", full, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
	return root
}

func TestValidatePlugins(t *testing.T) {
	t.Run("clean package", func(t *testing.T) {
		root := writePlugin(t, "com.example.hello.spPlugin", helloFiles())

		if err := ValidatePlugins([]string{root}, ValidateOptions{}); err != nil {
			t.Errorf("ValidatePlugins = %v, want nil", err)
		}
	})

	t.Run("package with errors", func(t *testing.T) {
		files := helloFiles()
		delete(files, "manifest.json")
		root := writePlugin(t, "com.example.hello.spPlugin", files)

		err := ValidatePlugins([]string{root}, ValidateOptions{})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("ValidatePlugins = %v, want ErrValidationFailed", err)
		}
	})

	t.Run("one bad package among good ones", func(t *testing.T) {
		good := writePlugin(t, "com.example.hello.spPlugin", helloFiles())
		bad := filepath.Join(t.TempDir(), "com.example.ghost.spPlugin")

		err := ValidatePlugins([]string{good, bad}, ValidateOptions{})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("ValidatePlugins = %v, want ErrValidationFailed", err)
		}
	})

	t.Run("verbose run", func(t *testing.T) {
		good := writePlugin(t, "com.example.hello.spPlugin", helloFiles())
		other := writePlugin(t, "com.example.other.spPlugin", helloFiles())

		if err := ValidatePlugins([]string{good, other}, ValidateOptions{Verbose: true}); err != nil {
			t.Errorf("ValidatePlugins = %v, want nil", err)
		}
	})
}

func TestValidateConcurrentKeepsOrder(t *testing.T) {
	v, err := validation.New(validation.Options{})
	if err != nil {
		t.Fatalf("building validator: %v", err)
	}

	paths := []string{
		writePlugin(t, "com.example.a.spPlugin", helloFiles()),
		writePlugin(t, "com.example.b.spPlugin", helloFiles()),
		writePlugin(t, "com.example.c.spPlugin", helloFiles()),
	}

	results := validateConcurrent(v, paths)
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.path != paths[i] {
			t.Errorf("result %d is %s, want %s", i, r.path, paths[i])
		}
		if r.err != nil {
			t.Errorf("result %d failed: %v", i, r.err)
		}
	}
}

func TestVersionInfo(t *testing.T) {
	defer SetVersionInfo(GetVersion())

	SetVersionInfo("9.9.9")
	if got := GetVersion(); got != "9.9.9" {
		t.Errorf("GetVersion = %q, want 9.9.9", got)
	}
}
