package validation

import (
	"github.com/streampad/cli/pkg/plugin"
	"github.com/streampad/cli/pkg/schema"
)

// checkLayoutDocuments reports parse failures and schema violations for every
// layout document referenced by the manifest. Missing files are skipped here;
// the file-reference rule already reported them against the manifest.
func checkLayoutDocuments(ctx *plugin.Context, res *Result) error {
	for _, lc := range ctx.Layouts {
		fc := lc.File
		if fc.Missing {
			continue
		}
		if fc.ParseErr != nil {
			res.Critical(fc.Path, Entry{
				Message:    "must be valid JSON",
				Suggestion: fc.ParseErr.Err.Error(),
			})
			continue
		}
		for _, v := range fc.Violations {
			msg, loc := schema.Translate(v, fc.Annotations, fc.Document)
			res.Error(fc.Path, Entry{Message: msg, Location: &loc})
		}
	}
	return nil
}

// checkLayoutKeys enforces key uniqueness among the items of each layout.
// Keys are optional; only items that declare one participate.
func checkLayoutKeys(ctx *plugin.Context, res *Result) error {
	for _, lc := range ctx.Layouts {
		if lc.Layout == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, item := range lc.Layout.Items {
			key, ok := item.Key.AsString()
			if !ok {
				continue
			}
			if seen[key] {
				loc := item.Key.Location()
				res.Error(lc.File.Path, Entry{
					Message:  loc.Keyed("must be unique"),
					Location: &loc,
				})
				continue
			}
			seen[key] = true
		}
	}
	return nil
}
