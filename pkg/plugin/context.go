// Package plugin loads a plugin package from disk into a read-only context:
// the parsed manifest, its schema report, and every layout document the
// manifest references. Rules consume the context; they never touch the file
// system for document content themselves.
package plugin

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/streampad/cli/pkg/constants"
	"github.com/streampad/cli/pkg/document"
	"github.com/streampad/cli/pkg/schema"
)

// Schemas holds the compiled schema set for one validator instance. The
// cache is explicit and caller-owned; nothing is memoized globally.
type Schemas struct {
	Manifest *schema.Schema
	Layout   *schema.Schema
}

// LoadSchemas compiles the embedded schemas.
func LoadSchemas() (*Schemas, error) {
	manifest, err := schema.CompileManifest()
	if err != nil {
		return nil, err
	}
	layout, err := schema.CompileLayout()
	if err != nil {
		return nil, err
	}
	return &Schemas{Manifest: manifest, Layout: layout}, nil
}

// FileContext is one JSON document of the package together with everything
// the load produced for it. Exactly one of Missing, ParseErr or Document is
// meaningful: a missing file has no parse error, a parse failure has no
// document, and a parsed document carries its schema report.
type FileContext struct {
	Path        string
	Missing     bool
	ParseErr    *document.ParseError
	Document    *document.Document
	Violations  []schema.Violation
	Annotations schema.Annotations
}

// LayoutContext is one distinct layout file referenced by the manifest.
// Layout is nil unless the file parsed.
type LayoutContext struct {
	File   *FileContext
	Layout *Layout
}

// Context is the read-only input of the rule pipeline.
type Context struct {
	// RootPath is the package directory as given on the command line.
	RootPath string
	// ID is the identifier derived from the directory name, without the
	// package suffix.
	ID string
	// ManifestFile is always present; check Missing/ParseErr before use.
	ManifestFile *FileContext
	// Manifest is the typed view of the manifest document, nil when the
	// document is unavailable.
	Manifest *Manifest
	// Layouts lists the referenced layout files, deduplicated by cleaned
	// path, in first-reference order.
	Layouts []*LayoutContext
}

// BuildContext loads the manifest and every referenced layout. Expected
// problems (missing files, invalid JSON, schema violations) are recorded in
// the contexts; only unexpected faults such as permission errors are
// returned.
func BuildContext(rootPath string, schemas *Schemas) (*Context, error) {
	ctx := &Context{
		RootPath: rootPath,
		ID:       DeriveID(rootPath),
	}

	manifestPath := filepath.Join(rootPath, constants.ManifestFileName)
	if info, err := os.Stat(rootPath); err != nil || !info.IsDir() {
		// Nothing to load; the path rule reports the problem.
		ctx.ManifestFile = &FileContext{Path: manifestPath, Missing: true}
		return ctx, nil
	}

	fc, err := loadFile(manifestPath, schemas.Manifest)
	if err != nil {
		return nil, err
	}
	ctx.ManifestFile = fc
	if fc.Document == nil {
		return ctx, nil
	}

	ctx.Manifest = manifestView(fc.Document)

	seen := make(map[string]bool)
	for _, action := range ctx.Manifest.Actions {
		ref, ok := action.Layout.AsString()
		if !ok || strings.HasPrefix(ref, constants.ReservedLayoutPrefix) {
			continue
		}
		path := filepath.Join(rootPath, filepath.FromSlash(ref))
		if seen[path] {
			continue
		}
		seen[path] = true

		layoutFile, err := loadFile(path, schemas.Layout)
		if err != nil {
			return nil, err
		}
		lc := &LayoutContext{File: layoutFile}
		if layoutFile.Document != nil {
			lc.Layout = layoutView(layoutFile.Document)
		}
		ctx.Layouts = append(ctx.Layouts, lc)
	}

	return ctx, nil
}

// DeriveID extracts the plugin identifier from the package directory name:
// "com.acme.counter.spPlugin" -> "com.acme.counter".
func DeriveID(rootPath string) string {
	return strings.TrimSuffix(filepath.Base(rootPath), constants.PluginSuffix)
}

// loadFile reads and parses one document and runs its schema. Values the
// schema rejected as wrongly typed are dropped from the tree so rules cannot
// act on them; their locations stay addressable.
func loadFile(path string, sch *schema.Schema) (*FileContext, error) {
	fc := &FileContext{Path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fc.Missing = true
			return fc, nil
		}
		return nil, err
	}

	doc, err := document.Parse(path, raw)
	if err != nil {
		var parseErr *document.ParseError
		if errors.As(err, &parseErr) {
			fc.ParseErr = parseErr
			return fc, nil
		}
		return nil, err
	}
	fc.Document = doc

	report := sch.Check(doc.Data())
	fc.Violations = report.Violations
	fc.Annotations = report.Annotations
	for _, v := range report.Violations {
		if v.Keyword == "type" {
			doc.Invalidate(v.Pointer)
		}
	}
	return fc, nil
}
