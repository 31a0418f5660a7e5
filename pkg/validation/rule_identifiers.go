package validation

import (
	"fmt"
	"strings"

	"github.com/streampad/cli/pkg/plugin"
)

// checkActionIdentifiers enforces that action identifiers are unique and
// namespaced under the plugin's own identifier. On duplicates the second
// and later occurrences are flagged; the first declaration is authoritative.
func checkActionIdentifiers(ctx *plugin.Context, res *Result) error {
	if ctx.Manifest == nil {
		return nil
	}
	fc := ctx.ManifestFile

	pluginID := ctx.ID
	if uuid, ok := ctx.Manifest.UUID.AsString(); ok {
		pluginID = uuid
	}
	expectedPrefix := pluginID + "."

	seen := make(map[string]bool)
	for _, action := range ctx.Manifest.Actions {
		uuid, ok := action.UUID.AsString()
		if !ok {
			continue
		}
		loc := action.UUID.Location()
		if seen[uuid] {
			res.Error(fc.Path, Entry{
				Message:  loc.Keyed("must be unique"),
				Location: &loc,
			})
		} else {
			seen[uuid] = true
		}
		if !strings.HasPrefix(uuid, expectedPrefix) {
			res.Warning(fc.Path, Entry{
				Message:  loc.Keyed(fmt.Sprintf("should start with %s", expectedPrefix)),
				Location: &loc,
			})
		}
	}
	return nil
}
