// Package schema compiles the embedded JSON schemas and turns validation
// failures into structured violations addressed by JSON pointer. Besides the
// standard structural keywords it understands three non-validating "capture"
// keywords (errorMessage, filePath, imageDimensions) that annotate instance
// paths for the semantic rules instead of constraining them.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/streampad/cli/pkg/document"
)

// Violation is one structural schema failure, reduced to the fields the
// diagnostic translator needs.
type Violation struct {
	Keyword  string   // failed keyword, e.g. "type", "required", "pattern"
	Pointer  string   // RFC 6901 pointer of the failing instance node
	Property string   // property name for required/additionalProperties
	Types    []string // accepted types for "type"
	Allowed  []any    // accepted values for "enum"
	Pattern  string   // source regexp for "pattern"
	Limit    float64  // numeric bound for minimum/maximum/minItems/maxItems
	Message  string   // evaluator-supplied message for keywords without a translation
}

// Report is the outcome of checking one document: structural violations plus
// the capture annotations collected along the instance paths that exist in
// the document. Annotations never carry over between documents; every Check
// call builds a fresh set.
type Report struct {
	Violations  []Violation
	Annotations Annotations
}

// Schema is a compiled schema plus its raw decoded form. The raw form is
// walked alongside instances to resolve capture annotations and violation
// parameters (accepted types, enum values, bounds).
type Schema struct {
	name     string
	compiled *jsonschema.Schema
	doc      any
}

// Compile parses and compiles a schema document. The name is used as the
// resource URL and in compile errors.
func Compile(name string, raw []byte) (*Schema, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	url := "https://schemas.streampad.dev/" + name
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	return &Schema{name: name, compiled: compiled, doc: doc}, nil
}

// Check validates data and collects capture annotations for it.
func (s *Schema) Check(data any) Report {
	return Report{
		Violations:  s.Validate(data),
		Annotations: s.Annotate(data),
	}
}

// Validate returns the structural violations of data, sorted by instance
// pointer. The underlying evaluator reports causes in schema-evaluation
// order, which is not stable across runs; sorting keeps repeated validations
// of the same document identical.
func (s *Schema) Validate(data any) []Violation {
	err := s.compiled.Validate(data)
	if err == nil {
		return nil
	}
	var valErr *jsonschema.ValidationError
	if !errors.As(err, &valErr) {
		return []Violation{{Message: err.Error()}}
	}

	var violations []Violation
	s.flattenCauses(valErr, data, &violations)
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Pointer != b.Pointer {
			return a.Pointer < b.Pointer
		}
		if a.Keyword != b.Keyword {
			return a.Keyword < b.Keyword
		}
		if a.Property != b.Property {
			return a.Property < b.Property
		}
		return a.Message < b.Message
	})
	return violations
}

// flattenCauses walks the cause tree down to its leaves. Branch nodes only
// provide evaluation context; the leaves carry the keywords users need to
// hear about.
func (s *Schema) flattenCauses(valErr *jsonschema.ValidationError, data any, out *[]Violation) {
	if len(valErr.Causes) == 0 {
		*out = append(*out, s.violationsOf(valErr, data)...)
		return
	}
	for _, cause := range valErr.Causes {
		s.flattenCauses(cause, data, out)
	}
}

// violationsOf converts one leaf error. The evaluator names the failed
// keyword and the instance path; the parameters users see (accepted types,
// enum values, bounds) are read back from our own schema document, and
// required/additionalProperties failures are split so each property gets its
// own diagnostic.
func (s *Schema) violationsOf(valErr *jsonschema.ValidationError, data any) []Violation {
	segments := valErr.InstanceLocation
	pointer := document.PointerOf(segments)
	keyword := keywordOf(valErr)
	sub := s.subschemaAt(segments)

	switch keyword {
	case "type":
		if types := typeList(sub["type"]); len(types) > 0 {
			return []Violation{{Keyword: "type", Pointer: pointer, Types: types}}
		}
	case "enum":
		if allowed, ok := sub["enum"].([]any); ok {
			return []Violation{{Keyword: "enum", Pointer: pointer, Allowed: allowed}}
		}
	case "pattern":
		if pattern, ok := sub["pattern"].(string); ok {
			return []Violation{{Keyword: "pattern", Pointer: pointer, Pattern: pattern}}
		}
	case "required":
		required, _ := sub["required"].([]any)
		instance, _ := instanceAt(data, segments).(map[string]any)
		var violations []Violation
		for _, r := range required {
			name, ok := r.(string)
			if !ok {
				continue
			}
			if _, present := instance[name]; !present {
				violations = append(violations, Violation{Keyword: "required", Pointer: pointer, Property: name})
			}
		}
		if len(violations) > 0 {
			return violations
		}
	case "additionalProperties":
		if violations := s.additionalPropertyViolations(sub, data, segments, pointer); len(violations) > 0 {
			return violations
		}
	case "minItems", "maxItems", "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum":
		if limit, ok := sub[keyword].(float64); ok {
			return []Violation{{Keyword: keyword, Pointer: pointer, Limit: limit}}
		}
	case "uniqueItems":
		return []Violation{{Keyword: "uniqueItems", Pointer: pointer}}
	}

	return []Violation{{Keyword: keyword, Pointer: pointer, Message: engineMessage(valErr)}}
}

// additionalPropertyViolations names the unexpected properties of an object.
// The evaluator may report the failure either at the object or at each
// offending property; both shapes end up as one violation per property,
// addressed at the object with the property recorded separately.
func (s *Schema) additionalPropertyViolations(sub map[string]any, data any, segments []string, pointer string) []Violation {
	if instance, ok := instanceAt(data, segments).(map[string]any); ok {
		declared, _ := sub["properties"].(map[string]any)
		var offending []string
		for name := range instance {
			if _, known := declared[name]; !known {
				offending = append(offending, name)
			}
		}
		sort.Strings(offending)
		violations := make([]Violation, 0, len(offending))
		for _, name := range offending {
			violations = append(violations, Violation{Keyword: "additionalProperties", Pointer: pointer, Property: name})
		}
		return violations
	}

	// Failure reported at the property itself: the object is its parent.
	if len(segments) > 0 {
		parent := document.PointerOf(segments[:len(segments)-1])
		return []Violation{{Keyword: "additionalProperties", Pointer: parent, Property: segments[len(segments)-1]}}
	}
	return nil
}

// keywordOf derives the keyword name from the evaluation path,
// e.g. ["items", "type"] -> "type".
func keywordOf(valErr *jsonschema.ValidationError) string {
	if valErr.ErrorKind == nil {
		return ""
	}
	path := valErr.ErrorKind.KeywordPath()
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

// engineMessage extracts the human part of the evaluator's own rendering,
// dropping the "at '/path':" framing when present.
func engineMessage(valErr *jsonschema.ValidationError) string {
	msg := valErr.Error()
	if i := strings.LastIndex(msg, "': "); i >= 0 {
		return msg[i+3:]
	}
	return msg
}

// subschemaAt walks the raw schema document to the subschema governing an
// instance path, following properties, items and $ref. Returns an empty map
// when the path leads outside the schema (e.g. an unexpected property).
func (s *Schema) subschemaAt(segments []string) map[string]any {
	root, ok := s.doc.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	node := deref(root, root, 0)
	for _, segment := range segments {
		props, _ := node["properties"].(map[string]any)
		if child, ok := props[segment].(map[string]any); ok {
			node = deref(root, child, 0)
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			if items, ok := node["items"].(map[string]any); ok {
				node = deref(root, items, 0)
				continue
			}
		}
		return map[string]any{}
	}
	return node
}

// deref follows $ref chains, bounded against cycles.
func deref(root, node map[string]any, depth int) map[string]any {
	if depth > maxRefDepth {
		return node
	}
	ref, ok := node["$ref"].(string)
	if !ok {
		return node
	}
	target, ok := resolveRef(root, ref).(map[string]any)
	if !ok {
		return node
	}
	return deref(root, target, depth+1)
}

// instanceAt walks decoded instance data along raw path segments.
func instanceAt(data any, segments []string) any {
	current := data
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			current = node[segment]
		case []any:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			current = node[i]
		default:
			return nil
		}
	}
	return current
}

// typeList normalizes the schema "type" keyword, which is a string or a
// list of strings.
func typeList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var types []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
		return types
	default:
		return nil
	}
}
