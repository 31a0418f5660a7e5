package validation

import (
	"fmt"

	"github.com/streampad/cli/pkg/constants"
	"github.com/streampad/cli/pkg/plugin"
	"github.com/streampad/cli/pkg/schema"
)

// checkManifest reports the manifest's existence, parseability and schema
// violations. Missing and unparseable manifests are critical; without a
// manifest the remaining rules have nothing to check.
func checkManifest(ctx *plugin.Context, res *Result) error {
	fc := ctx.ManifestFile
	if fc.Missing {
		res.Critical(fc.Path, Entry{
			Message:    fmt.Sprintf("%s not found", constants.ManifestFileName),
			Suggestion: fmt.Sprintf("create a %s in the package directory", constants.ManifestFileName),
		})
		return nil
	}
	if fc.ParseErr != nil {
		res.Critical(fc.Path, Entry{
			Message:    "must be valid JSON",
			Suggestion: fc.ParseErr.Err.Error(),
		})
		return nil
	}

	for _, v := range fc.Violations {
		msg, loc := schema.Translate(v, fc.Annotations, fc.Document)
		entry := Entry{Message: msg, Location: &loc}
		// A manifest without its identifier gets the directory-derived one
		// suggested; the two are expected to match anyway.
		if v.Keyword == "required" && v.Pointer == "" && v.Property == "UUID" {
			entry.Suggestion = fmt.Sprintf("add \"UUID\": %q", ctx.ID)
		}
		res.Error(fc.Path, entry)
	}
	return nil
}
