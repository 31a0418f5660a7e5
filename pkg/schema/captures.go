package schema

import (
	"strconv"
	"strings"

	"github.com/streampad/cli/pkg/document"
)

// Capture keywords annotate instance paths without constraining them. The
// structural evaluator ignores them entirely; this collector walks the raw
// schema alongside the instance and records, per JSON pointer, what the
// schema declared for the values that actually exist in the document.
const (
	captureErrorMessage    = "errorMessage"
	captureFilePath        = "filePath"
	captureImageDimensions = "imageDimensions"
)

// FilePathSpec describes how a declared path resolves to a file on disk.
type FilePathSpec struct {
	// Extensions are tried in declared order when the value omits its own.
	Extensions []string
	// IncludeExtension means the declared value already carries the
	// extension and must resolve literally.
	IncludeExtension bool
}

// Annotation is the set of captures attached to one instance path.
type Annotation struct {
	ErrorMessage    string
	FilePath        *FilePathSpec
	ImageDimensions []int // width, height
}

// Annotations maps RFC 6901 instance pointers to their captures. Lookups on
// a nil map are fine and yield the zero Annotation.
type Annotations map[string]Annotation

// maxRefDepth bounds $ref chasing so a cyclic schema cannot hang the walk.
const maxRefDepth = 32

// Annotate collects capture annotations for the instance paths present in
// data. The result is independent of any previous call.
func (s *Schema) Annotate(data any) Annotations {
	anns := make(Annotations)
	root, ok := s.doc.(map[string]any)
	if !ok {
		return anns
	}
	collectCaptures(root, data, "", anns, root, 0)
	return anns
}

func collectCaptures(schemaNode any, instance any, pointer string, anns Annotations, root map[string]any, depth int) {
	if depth > maxRefDepth {
		return
	}
	node, ok := schemaNode.(map[string]any)
	if !ok {
		return
	}

	recordCaptures(node, pointer, anns)

	if ref, ok := node["$ref"].(string); ok {
		if target := resolveRef(root, ref); target != nil {
			collectCaptures(target, instance, pointer, anns, root, depth+1)
		}
	}

	for _, combinator := range []string{"allOf", "anyOf", "oneOf"} {
		if branches, ok := node[combinator].([]any); ok {
			for _, branch := range branches {
				collectCaptures(branch, instance, pointer, anns, root, depth+1)
			}
		}
	}

	switch inst := instance.(type) {
	case map[string]any:
		props, ok := node["properties"].(map[string]any)
		if !ok {
			return
		}
		for name, propSchema := range props {
			value, present := inst[name]
			if !present {
				continue
			}
			childPtr := pointer + "/" + document.EscapePointerSegment(name)
			collectCaptures(propSchema, value, childPtr, anns, root, depth+1)
		}
	case []any:
		itemSchema, ok := node["items"]
		if !ok {
			return
		}
		for i, item := range inst {
			childPtr := pointer + "/" + strconv.Itoa(i)
			collectCaptures(itemSchema, item, childPtr, anns, root, depth+1)
		}
	}
}

// recordCaptures merges the capture keywords of one schema node into the
// annotation for pointer. First writer wins, so an inline capture takes
// precedence over one pulled in through $ref.
func recordCaptures(node map[string]any, pointer string, anns Annotations) {
	ann := anns[pointer]
	changed := false

	if msg, ok := node[captureErrorMessage].(string); ok && ann.ErrorMessage == "" {
		ann.ErrorMessage = msg
		changed = true
	}
	if spec, ok := node[captureFilePath].(map[string]any); ok && ann.FilePath == nil {
		fp := &FilePathSpec{}
		if exts, ok := spec["extensions"].([]any); ok {
			for _, e := range exts {
				if s, ok := e.(string); ok {
					fp.Extensions = append(fp.Extensions, s)
				}
			}
		}
		if include, ok := spec["includeExtension"].(bool); ok {
			fp.IncludeExtension = include
		}
		ann.FilePath = fp
		changed = true
	}
	if dims, ok := node[captureImageDimensions].([]any); ok && ann.ImageDimensions == nil && len(dims) == 2 {
		w, wok := dims[0].(float64)
		h, hok := dims[1].(float64)
		if wok && hok {
			ann.ImageDimensions = []int{int(w), int(h)}
			changed = true
		}
	}

	if changed {
		anns[pointer] = ann
	}
}

// resolveRef follows an intra-document reference like "#/$defs/imagePath".
func resolveRef(root map[string]any, ref string) any {
	if !strings.HasPrefix(ref, "#/") {
		return nil
	}
	var current any = root
	for _, segment := range strings.Split(ref[2:], "/") {
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[segment]
		if !ok {
			return nil
		}
	}
	return current
}
