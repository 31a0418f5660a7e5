package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/streampad/cli/pkg/constants"
	"github.com/streampad/cli/pkg/plugin"
)

// identifierPattern is the character set allowed in a package identifier:
// lowercase alphanumerics, hyphens, underscores and periods.
var identifierPattern = regexp.MustCompile(`^[a-z0-9\-_.]+$`)

// checkPackagePath verifies the package directory itself: it must exist, be
// a directory, carry the package suffix, and derive a well-formed
// identifier. A missing or non-directory path is critical; nothing else
// about the package can be checked.
func checkPackagePath(ctx *plugin.Context, res *Result) error {
	info, err := os.Stat(ctx.RootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Critical(ctx.RootPath, Entry{Message: "directory not found"})
			return nil
		}
		return err
	}
	if !info.IsDir() {
		res.Critical(ctx.RootPath, Entry{Message: "must be a directory"})
		return nil
	}

	base := filepath.Base(ctx.RootPath)
	if !strings.HasSuffix(base, constants.PluginSuffix) {
		res.Error(ctx.RootPath, Entry{
			Message:    fmt.Sprintf("name must end with %s", constants.PluginSuffix),
			Suggestion: fmt.Sprintf("rename the directory to %s%s", base, constants.PluginSuffix),
		})
	}
	if !identifierPattern.MatchString(ctx.ID) {
		res.Error(ctx.RootPath, Entry{
			Message: "name must use reverse-DNS format with lowercase alphanumeric characters, hyphens, underscores and periods",
		})
	}
	return nil
}
