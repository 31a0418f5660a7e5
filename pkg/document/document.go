// Package document parses JSON configuration files into a tree that keeps
// the source position of every value. Documents are parsed twice: once with
// a strict JSON decoder for the data, and once through the YAML parser
// (JSON is a YAML subset) whose AST carries per-token line and column
// information.
package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// Kind identifies the JSON type a Value holds. Invalid marks a node whose
// declared value was rejected (for example by a schema type check); its
// location survives but its payload does not.
type Kind int

const (
	Invalid Kind = iota
	Null
	Bool
	Number
	String
	Object
	Array
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "invalid"
	}
}

// Location is the source position of a value, 1-based, together with the
// two addressing forms used elsewhere: the RFC 6901 pointer and the
// human-readable key path (e.g. "Actions[0].UUID").
type Location struct {
	Line    int
	Column  int
	Pointer string
	Key     string
}

// Keyed prefixes msg with the human-readable key path, if there is one.
// "must be a string" becomes "Actions[0].UUID must be a string".
func (l Location) Keyed(msg string) string {
	if l.Key == "" {
		return msg
	}
	return l.Key + " " + msg
}

// Value is one node of a parsed document. All accessors are safe to call
// on a nil receiver, so lookups can be chained without intermediate checks:
//
//	doc.Root().Field("Actions").Index(0).Field("UUID").AsString()
type Value struct {
	kind   Kind
	str    string
	num    float64
	boolv  bool
	fields map[string]*Value
	keys   []string
	items  []*Value
	loc    Location
}

// Kind returns Invalid for nil values.
func (v *Value) Kind() Kind {
	if v == nil {
		return Invalid
	}
	return v.kind
}

// Location returns the zero Location for nil values.
func (v *Value) Location() Location {
	if v == nil {
		return Location{}
	}
	return v.loc
}

// Field returns the named member of an object, or nil if v is nil, not an
// object, or has no such member.
func (v *Value) Field(name string) *Value {
	if v == nil || v.kind != Object {
		return nil
	}
	return v.fields[name]
}

// Keys returns the member names of an object in declaration order.
func (v *Value) Keys() []string {
	if v == nil || v.kind != Object {
		return nil
	}
	return v.keys
}

// Index returns the i-th element of an array, or nil when out of range.
func (v *Value) Index(i int) *Value {
	if v == nil || v.kind != Array || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Len returns the element count of an array, or 0 for anything else.
func (v *Value) Len() int {
	if v == nil || v.kind != Array {
		return 0
	}
	return len(v.items)
}

// AsString reports the string payload and whether v actually is a string.
func (v *Value) AsString() (string, bool) {
	if v == nil || v.kind != String {
		return "", false
	}
	return v.str, true
}

// AsNumber reports the numeric payload and whether v actually is a number.
func (v *Value) AsNumber() (float64, bool) {
	if v == nil || v.kind != Number {
		return 0, false
	}
	return v.num, true
}

// AsBool reports the boolean payload and whether v actually is a boolean.
func (v *Value) AsBool() (bool, bool) {
	if v == nil || v.kind != Bool {
		return false, false
	}
	return v.boolv, true
}

// IsNull reports whether v is an explicit JSON null.
func (v *Value) IsNull() bool {
	return v != nil && v.kind == Null
}

// ParseError reports a document that is not valid JSON. It carries no
// position: parse failures cover the whole file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is a parsed JSON file. Data holds the plain decoded form used
// for schema validation; the Value tree mirrors it with locations attached.
type Document struct {
	Path  string
	root  *Value
	data  any
	index map[string]*Value
}

// Parse decodes text as JSON and builds the located value tree. The path is
// recorded for diagnostics only; the file is not read here.
func Parse(path string, text []byte) (*Document, error) {
	var data any
	if err := json.Unmarshal(text, &data); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	// Duplicate object keys are valid JSON; the position pass must accept
	// them like the data pass does (last value wins).
	file, err := parser.ParseBytes(text, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(file.Docs) == 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("empty document")}
	}
	d := &Document{
		Path:  path,
		data:  data,
		index: make(map[string]*Value),
	}
	d.root = d.build(file.Docs[0].Body, "", "")
	return d, nil
}

// Root returns the top-level value.
func (d *Document) Root() *Value {
	return d.root
}

// Data returns the plain decoded document for schema validation.
func (d *Document) Data() any {
	return d.data
}

// At returns the value at an RFC 6901 pointer, or nil if the pointer does
// not address a node of this document. The index survives Invalidate, so
// rejected values can still be addressed.
func (d *Document) At(pointer string) *Value {
	return d.index[pointer]
}

// LocationAt resolves a pointer to its source location. When the exact
// pointer is unknown it walks up to the nearest known ancestor, so that
// diagnostics always land somewhere sensible.
func (d *Document) LocationAt(pointer string) Location {
	for {
		if v, ok := d.index[pointer]; ok {
			return v.loc
		}
		i := strings.LastIndex(pointer, "/")
		if i < 0 {
			return Location{Line: 1, Column: 1}
		}
		pointer = pointer[:i]
	}
}

// Invalidate drops the payload of the value at pointer while keeping its
// location. Used for values the schema rejected as wrongly typed: rules
// must not read them, but diagnostics still need to point at them.
func (d *Document) Invalidate(pointer string) {
	v, ok := d.index[pointer]
	if !ok {
		return
	}
	v.kind = Invalid
	v.str = ""
	v.num = 0
	v.boolv = false
	v.fields = nil
	v.keys = nil
	v.items = nil
}

func (d *Document) build(node ast.Node, pointer, key string) *Value {
	v := &Value{loc: locationOf(node, pointer, key)}
	d.index[pointer] = v

	switch n := node.(type) {
	case *ast.MappingNode:
		d.buildObject(v, n.Values, pointer, key)
	case *ast.MappingValueNode:
		// single-pair mapping
		d.buildObject(v, []*ast.MappingValueNode{n}, pointer, key)
	case *ast.SequenceNode:
		v.kind = Array
		for i, item := range n.Values {
			childPtr := pointer + "/" + strconv.Itoa(i)
			childKey := fmt.Sprintf("%s[%d]", key, i)
			v.items = append(v.items, d.build(item, childPtr, childKey))
		}
	case *ast.StringNode:
		v.kind = String
		v.str = n.Value
	case *ast.LiteralNode:
		v.kind = String
		if n.Value != nil {
			v.str = n.Value.Value
		}
	case *ast.IntegerNode:
		v.kind = Number
		switch num := n.Value.(type) {
		case int64:
			v.num = float64(num)
		case uint64:
			v.num = float64(num)
		}
	case *ast.FloatNode:
		v.kind = Number
		v.num = n.Value
	case *ast.BoolNode:
		v.kind = Bool
		v.boolv = n.Value
	case *ast.NullNode:
		v.kind = Null
	}
	return v
}

func (d *Document) buildObject(v *Value, pairs []*ast.MappingValueNode, pointer, key string) {
	v.kind = Object
	v.fields = make(map[string]*Value, len(pairs))
	for _, pair := range pairs {
		if pair.Key == nil || pair.Value == nil {
			continue
		}
		name := nodeStringValue(pair.Key)
		childPtr := pointer + "/" + EscapePointerSegment(name)
		childKey := name
		if key != "" {
			childKey = key + "." + name
		}
		if _, exists := v.fields[name]; !exists {
			v.keys = append(v.keys, name)
		}
		v.fields[name] = d.build(pair.Value, childPtr, childKey)
	}
}

func locationOf(node ast.Node, pointer, key string) Location {
	loc := Location{Pointer: pointer, Key: key}
	if tok := node.GetToken(); tok != nil && tok.Position != nil {
		loc.Line = tok.Position.Line
		loc.Column = tok.Position.Column
	}
	return loc
}

// nodeStringValue extracts the string form of a mapping key node.
func nodeStringValue(node ast.Node) string {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value
	case *ast.IntegerNode:
		return fmt.Sprintf("%d", n.Value)
	case *ast.FloatNode:
		return fmt.Sprintf("%g", n.Value)
	case *ast.BoolNode:
		return fmt.Sprintf("%t", n.Value)
	default:
		if tok := node.GetToken(); tok != nil {
			return tok.Value
		}
		return ""
	}
}

// EscapePointerSegment escapes one path segment per RFC 6901.
func EscapePointerSegment(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

// PointerOf joins instance path segments into an RFC 6901 pointer.
// An empty slice addresses the document root.
func PointerOf(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(EscapePointerSegment(s))
	}
	return b.String()
}
