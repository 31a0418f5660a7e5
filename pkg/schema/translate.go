package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/streampad/cli/pkg/document"
)

// Translate turns a Violation into a user-facing message and the source
// location it belongs to. Messages follow a fixed keyword table; whatever
// the table does not cover falls back to the evaluator's own wording. When
// the violating path has a human-readable key it prefixes the message, e.g.
// "Actions[0].UUID must be a string".
func Translate(v Violation, anns Annotations, doc *document.Document) (string, document.Location) {
	loc := doc.LocationAt(v.Pointer)
	prefix := loc.Key

	var msg string
	switch v.Keyword {
	case "type":
		msg = "must be " + article(v.Types) + strings.Join(v.Types, " or ")
	case "enum":
		msg = "must be " + alternatives(v.Allowed)
	case "required":
		msg = "must contain property: " + v.Property
	case "additionalProperties":
		if v.Property == "" {
			msg = "must not contain additional properties"
			break
		}
		msg = "must not contain property: " + v.Property
		// Point at the offending property itself when it can be found.
		if node := doc.At(v.Pointer + "/" + document.EscapePointerSegment(v.Property)); node != nil {
			loc = node.Location()
		}
	case "pattern":
		if override := anns[v.Pointer].ErrorMessage; override != "" {
			msg = override
		} else {
			msg = "must match pattern " + v.Pattern
		}
	case "minItems":
		msg = "must contain at least " + countedItems(v.Limit)
	case "maxItems":
		msg = "must contain not more than " + countedItems(v.Limit)
	case "minimum":
		msg = "must be greater than or equal to " + formatNumber(v.Limit)
	case "exclusiveMinimum":
		msg = "must be greater than " + formatNumber(v.Limit)
	case "maximum":
		msg = "must be less than or equal to " + formatNumber(v.Limit)
	case "exclusiveMaximum":
		msg = "must be less than " + formatNumber(v.Limit)
	case "uniqueItems":
		msg = "must not contain duplicate items"
	default:
		msg = v.Message
		if msg == "" {
			msg = "is invalid"
		}
	}

	if prefix != "" {
		msg = prefix + " " + msg
	}
	return msg, loc
}

// article picks "a"/"an" for the first accepted type. Only "object" takes
// "an"; everything else keeps "a", matching the established output.
func article(types []string) string {
	if len(types) > 0 && types[0] == "object" {
		return "an "
	}
	return "a "
}

// alternatives joins allowed values as "A, B or C".
func alternatives(values []any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, formatValue(v))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}

func countedItems(limit float64) string {
	n := int(limit)
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatValue renders an allowed enum value without JSON quoting; the
// established output reads "must be Keypad or Encoder", not "...\"Keypad\"".
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return formatNumber(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}
