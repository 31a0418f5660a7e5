package schema

import (
	_ "embed"
)

//go:embed schemas/manifest.json
var manifestSchemaJSON []byte

//go:embed schemas/layout.json
var layoutSchemaJSON []byte

// CompileManifest compiles the embedded plugin manifest schema.
func CompileManifest() (*Schema, error) {
	return Compile("manifest.json", manifestSchemaJSON)
}

// CompileLayout compiles the embedded encoder layout schema.
func CompileLayout() (*Schema, error) {
	return Compile("layout.json", layoutSchemaJSON)
}
