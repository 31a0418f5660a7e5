package schema

import (
	"testing"

	"github.com/streampad/cli/pkg/document"
)

const translateFixture = `{
  "UUID": "Bad UUID",
  "Software": 3,
  "OS": [
    { "Platform": "linux" }
  ],
  "Actions": [
    { "Name": "Increment" }
  ],
  "Extra": true
}`

func TestTranslateMessages(t *testing.T) {
	doc, err := document.Parse("manifest.json", []byte(translateFixture))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}

	tests := []struct {
		name      string
		violation Violation
		anns      Annotations
		message   string
		line      int
	}{
		{
			name:      "type with article a",
			violation: Violation{Keyword: "type", Pointer: "/UUID", Types: []string{"string"}},
			message:   "UUID must be a string",
			line:      2,
		},
		{
			name:      "type with article an",
			violation: Violation{Keyword: "type", Pointer: "/Software", Types: []string{"object"}},
			message:   "Software must be an object",
			line:      3,
		},
		{
			name:      "type with alternatives",
			violation: Violation{Keyword: "type", Pointer: "/Software", Types: []string{"integer", "string"}},
			message:   "Software must be a integer or string",
			line:      3,
		},
		{
			name:      "enum with two values",
			violation: Violation{Keyword: "enum", Pointer: "/OS/0/Platform", Allowed: []any{"mac", "windows"}},
			message:   "OS[0].Platform must be mac or windows",
			line:      5,
		},
		{
			name:      "enum with three values",
			violation: Violation{Keyword: "enum", Pointer: "/OS/0/Platform", Allowed: []any{"top", "middle", "bottom"}},
			message:   "OS[0].Platform must be top, middle or bottom",
			line:      5,
		},
		{
			name:      "enum with numbers",
			violation: Violation{Keyword: "enum", Pointer: "/OS/0/Platform", Allowed: []any{0.0, 1.0, 7.0}},
			message:   "OS[0].Platform must be 0, 1 or 7",
			line:      5,
		},
		{
			name:      "required at root has no prefix",
			violation: Violation{Keyword: "required", Pointer: "", Property: "Name"},
			message:   "must contain property: Name",
			line:      1,
		},
		{
			name:      "required nested",
			violation: Violation{Keyword: "required", Pointer: "/Actions/0", Property: "Icon"},
			message:   "Actions[0] must contain property: Icon",
			line:      8,
		},
		{
			name:      "additional property points at the offender",
			violation: Violation{Keyword: "additionalProperties", Pointer: "", Property: "Extra"},
			message:   "must not contain property: Extra",
			line:      10,
		},
		{
			name:      "additional properties without a name",
			violation: Violation{Keyword: "additionalProperties", Pointer: "/Actions/0"},
			message:   "Actions[0] must not contain additional properties",
			line:      8,
		},
		{
			name:      "pattern without override",
			violation: Violation{Keyword: "pattern", Pointer: "/UUID", Pattern: "^[a-z.]+$"},
			message:   "UUID must match pattern ^[a-z.]+$",
			line:      2,
		},
		{
			name:      "pattern with captured override",
			violation: Violation{Keyword: "pattern", Pointer: "/UUID", Pattern: "^[a-z.]+$"},
			anns:      Annotations{"/UUID": {ErrorMessage: "must use reverse-DNS format"}},
			message:   "UUID must use reverse-DNS format",
			line:      2,
		},
		{
			name:      "minItems singular",
			violation: Violation{Keyword: "minItems", Pointer: "/Actions", Limit: 1},
			message:   "Actions must contain at least 1 item",
			line:      7,
		},
		{
			name:      "minItems plural",
			violation: Violation{Keyword: "minItems", Pointer: "/Actions", Limit: 4},
			message:   "Actions must contain at least 4 items",
			line:      7,
		},
		{
			name:      "maxItems",
			violation: Violation{Keyword: "maxItems", Pointer: "/Actions", Limit: 2},
			message:   "Actions must contain not more than 2 items",
			line:      7,
		},
		{
			name:      "minimum",
			violation: Violation{Keyword: "minimum", Pointer: "/UUID", Limit: 6},
			message:   "UUID must be greater than or equal to 6",
			line:      2,
		},
		{
			name:      "exclusiveMinimum",
			violation: Violation{Keyword: "exclusiveMinimum", Pointer: "/UUID", Limit: 0},
			message:   "UUID must be greater than 0",
			line:      2,
		},
		{
			name:      "maximum",
			violation: Violation{Keyword: "maximum", Pointer: "/UUID", Limit: 18},
			message:   "UUID must be less than or equal to 18",
			line:      2,
		},
		{
			name:      "exclusiveMaximum with fraction",
			violation: Violation{Keyword: "exclusiveMaximum", Pointer: "/UUID", Limit: 0.5},
			message:   "UUID must be less than 0.5",
			line:      2,
		},
		{
			name:      "uniqueItems",
			violation: Violation{Keyword: "uniqueItems", Pointer: "/Actions"},
			message:   "Actions must not contain duplicate items",
			line:      7,
		},
		{
			name:      "unknown keyword uses evaluator message",
			violation: Violation{Keyword: "minLength", Pointer: "/UUID", Message: "length must be >= 1"},
			message:   "UUID length must be >= 1",
			line:      2,
		},
		{
			name:      "unknown keyword without message",
			violation: Violation{Keyword: "contains", Pointer: "/UUID"},
			message:   "UUID is invalid",
			line:      2,
		},
		{
			name:      "unindexed pointer falls back to the nearest ancestor",
			violation: Violation{Keyword: "type", Pointer: "/Actions/0/Missing", Types: []string{"string"}},
			message:   "Actions[0] must be a string",
			line:      8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, loc := Translate(tt.violation, tt.anns, doc)
			if msg != tt.message {
				t.Errorf("Message = %q, expected %q", msg, tt.message)
			}
			if loc.Line != tt.line {
				t.Errorf("Line = %d, expected %d", loc.Line, tt.line)
			}
		})
	}
}
