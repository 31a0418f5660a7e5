package validation

import (
	"fmt"

	"github.com/streampad/cli/pkg/constants"
	"github.com/streampad/cli/pkg/document"
	"github.com/streampad/cli/pkg/plugin"
)

type rect struct {
	x, y, w, h float64
}

func (r rect) intersects(other rect) bool {
	return !(other.x+other.w <= r.x || other.x >= r.x+r.w ||
		other.y+other.h <= r.y || other.y >= r.y+r.h)
}

type placedItem struct {
	rect rect
	z    float64
	name string
	loc  document.Location
}

// checkLayoutGeometry verifies that every item rectangle fits on the layout
// canvas and that no two items at the same zOrder overlap. Overlaps are
// reported on the later-declared item, naming the earlier one.
func checkLayoutGeometry(ctx *plugin.Context, res *Result) error {
	canvasW := float64(constants.LayoutCanvasWidth)
	canvasH := float64(constants.LayoutCanvasHeight)

	for _, lc := range ctx.Layouts {
		if lc.Layout == nil {
			continue
		}

		var placed []placedItem
		for i, item := range lc.Layout.Items {
			x, y, w, h, ok := item.Rect4()
			if !ok {
				continue
			}
			loc := item.Rect.Location()
			placed = append(placed, placedItem{
				rect: rect{x: x, y: y, w: w, h: h},
				z:    item.Z(),
				name: layoutItemName(item, i),
				loc:  loc,
			})

			if x < 0 || y < 0 || x+w > canvasW || y+h > canvasH {
				res.Error(lc.File.Path, Entry{
					Message: loc.Keyed(fmt.Sprintf("must fit within the %dx%d canvas",
						constants.LayoutCanvasWidth, constants.LayoutCanvasHeight)),
					Location: &loc,
				})
			}
		}

		for i := len(placed) - 1; i > 0; i-- {
			for j := i - 1; j >= 0; j-- {
				if placed[i].z != placed[j].z {
					continue
				}
				if placed[i].rect.intersects(placed[j].rect) {
					loc := placed[i].loc
					res.Error(lc.File.Path, Entry{
						Message: loc.Keyed(fmt.Sprintf("must not overlap %q at the same zOrder",
							placed[j].name)),
						Location: &loc,
					})
				}
			}
		}
	}
	return nil
}

func layoutItemName(item plugin.LayoutItem, index int) string {
	if key, ok := item.Key.AsString(); ok {
		return key
	}
	return fmt.Sprintf("item %d", index)
}
