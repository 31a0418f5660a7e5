package validation

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/streampad/cli/pkg/constants"
	"github.com/streampad/cli/pkg/plugin"
	"github.com/streampad/cli/pkg/schema"
)

// checkFileReferences resolves every file-path-annotated value of the
// manifest against the package directory. Values without their extension are
// tried against the accepted extensions in declared order; the first match
// wins and further matches are reported as ambiguity. Reserved $-references
// are checked against the built-in layout list instead of disk. Resolved
// bitmap images additionally want a high-resolution companion.
func checkFileReferences(ctx *plugin.Context, res *Result) error {
	fc := ctx.ManifestFile
	if fc.Document == nil {
		return nil
	}

	warnedHighRes := make(map[string]bool)
	for _, pointer := range filePathPointers(fc) {
		ann := fc.Annotations[pointer]
		node := fc.Document.At(pointer)
		declared, ok := node.AsString()
		if !ok {
			// Schema already reported the wrongly typed value.
			continue
		}
		if strings.HasPrefix(declared, constants.ReservedLayoutPrefix) {
			if !slices.Contains(constants.ReservedLayouts, declared) {
				loc := node.Location()
				res.Error(fc.Path, Entry{
					Message:    loc.Keyed("is not a built-in layout"),
					Location:   &loc,
					Suggestion: "built-in layouts: " + strings.Join(constants.ReservedLayouts, ", "),
				})
			}
			continue
		}
		loc := node.Location()

		candidates := resolveCandidates(ctx.RootPath, declared, ann.FilePath)
		if len(candidates) == 0 {
			res.Error(fc.Path, Entry{
				Message:    loc.Keyed("file not found"),
				Location:   &loc,
				Suggestion: acceptedExtensions(ann),
			})
			continue
		}
		if len(candidates) > 1 {
			res.Warning(fc.Path, Entry{
				Message:    loc.Keyed("matches multiple candidate files"),
				Location:   &loc,
				Suggestion: fmt.Sprintf("keeping %s", candidates[0]),
			})
		}

		kept := candidates[0]
		ext := strings.ToLower(path.Ext(kept))
		if ext != ".png" && ext != ".gif" {
			continue
		}
		resolved := filepath.Join(ctx.RootPath, filepath.FromSlash(kept))
		if warnedHighRes[resolved] {
			continue
		}
		highRes := strings.TrimSuffix(kept, path.Ext(kept)) + constants.HighResSuffix + path.Ext(kept)
		if fileExists(filepath.Join(ctx.RootPath, filepath.FromSlash(highRes))) {
			continue
		}
		warnedHighRes[resolved] = true
		res.Warning(resolved, Entry{
			Message:    fmt.Sprintf("should have high-resolution (%s) variant", constants.HighResSuffix),
			Suggestion: fmt.Sprintf("create %s", highRes),
		})
	}
	return nil
}

// filePathPointers lists the annotated pointers in document order, so the
// reported entries follow the manifest's declaration order regardless of
// map iteration.
func filePathPointers(fc *plugin.FileContext) []string {
	var pointers []string
	for pointer, ann := range fc.Annotations {
		if ann.FilePath != nil {
			pointers = append(pointers, pointer)
		}
	}
	sort.Slice(pointers, func(i, j int) bool {
		a := fc.Document.LocationAt(pointers[i])
		b := fc.Document.LocationAt(pointers[j])
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return pointers[i] < pointers[j]
	})
	return pointers
}

// resolveCandidates returns the package-relative paths the declared value
// resolves to, in extension order.
func resolveCandidates(root, declared string, spec *schema.FilePathSpec) []string {
	if spec.IncludeExtension {
		if !hasAcceptedExtension(declared, spec.Extensions) {
			return nil
		}
		if fileExists(filepath.Join(root, filepath.FromSlash(declared))) {
			return []string{declared}
		}
		return nil
	}

	var candidates []string
	for _, ext := range spec.Extensions {
		candidate := declared + ext
		if fileExists(filepath.Join(root, filepath.FromSlash(candidate))) {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

func hasAcceptedExtension(declared string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(declared))
	for _, accepted := range extensions {
		if ext == strings.ToLower(accepted) {
			return true
		}
	}
	return false
}

func acceptedExtensions(ann schema.Annotation) string {
	if ann.FilePath == nil || len(ann.FilePath.Extensions) == 0 {
		return ""
	}
	s := "accepted extensions: " + strings.Join(ann.FilePath.Extensions, ", ")
	if len(ann.ImageDimensions) == 2 {
		s += fmt.Sprintf("; expected size %dx%d", ann.ImageDimensions[0], ann.ImageDimensions[1])
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
