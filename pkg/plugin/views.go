package plugin

import (
	"github.com/streampad/cli/pkg/document"
)

// Manifest is the typed view of the manifest fields the semantic rules care
// about. Every field is a document node; nodes for absent or schema-rejected
// values are nil or invalid, and the nil-safe accessors make both read as
// "not there".
type Manifest struct {
	UUID    *document.Value
	URL     *document.Value
	Actions []Action
}

// Action is one entry of the manifest's Actions array.
type Action struct {
	Value  *document.Value
	UUID   *document.Value
	Layout *document.Value // Encoder.layout reference, nil when not declared
}

// Layout is the typed view of an encoder layout document.
type Layout struct {
	ID    *document.Value
	Items []LayoutItem
}

// LayoutItem is one drawable item of a layout.
type LayoutItem struct {
	Value  *document.Value
	Key    *document.Value
	Rect   *document.Value
	ZOrder *document.Value
}

// Rect reports the item's rectangle as x, y, width, height. ok is false
// unless all four entries are numbers.
func (li LayoutItem) Rect4() (x, y, w, h float64, ok bool) {
	r := li.Rect
	if r.Len() != 4 {
		return 0, 0, 0, 0, false
	}
	values := make([]float64, 4)
	for i := 0; i < 4; i++ {
		n, numOK := r.Index(i).AsNumber()
		if !numOK {
			return 0, 0, 0, 0, false
		}
		values[i] = n
	}
	return values[0], values[1], values[2], values[3], true
}

// Z reports the item's stacking order, defaulting to 0 when not declared.
func (li LayoutItem) Z() float64 {
	z, ok := li.ZOrder.AsNumber()
	if !ok {
		return 0
	}
	return z
}

func manifestView(doc *document.Document) *Manifest {
	root := doc.Root()
	m := &Manifest{
		UUID: root.Field("UUID"),
		URL:  root.Field("URL"),
	}
	actions := root.Field("Actions")
	for i := 0; i < actions.Len(); i++ {
		node := actions.Index(i)
		action := Action{
			Value: node,
			UUID:  node.Field("UUID"),
		}
		if encoder := node.Field("Encoder"); encoder != nil {
			action.Layout = encoder.Field("layout")
		}
		m.Actions = append(m.Actions, action)
	}
	return m
}

func layoutView(doc *document.Document) *Layout {
	root := doc.Root()
	l := &Layout{ID: root.Field("id")}
	items := root.Field("items")
	for i := 0; i < items.Len(); i++ {
		node := items.Index(i)
		l.Items = append(l.Items, LayoutItem{
			Value:  node,
			Key:    node.Field("key"),
			Rect:   node.Field("rect"),
			ZOrder: node.Field("zOrder"),
		})
	}
	return l
}
