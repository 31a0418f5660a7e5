package constants

// CLIName is the binary name used in user-facing output and examples
const CLIName = "streampad"

// PluginSuffix is the directory suffix every plugin package must carry
const PluginSuffix = ".spPlugin"

// ManifestFileName is the root document of a plugin package
const ManifestFileName = "manifest.json"

// HighResSuffix marks the high-resolution variant of a bitmap image,
// e.g. icon.png and icon@2x.png
const HighResSuffix = "@2x"

// ReservedLayoutPrefix marks built-in encoder layout identifiers that do not
// resolve to files inside the package
const ReservedLayoutPrefix = "$"

// Canvas dimensions (in points) available to encoder layout items
const (
	LayoutCanvasWidth  = 200
	LayoutCanvasHeight = 100
)

// ZOrderMax is the highest stacking position a layout item may declare
const ZOrderMax = 700

// ReservedLayouts contains the built-in encoder layouts shipped with the
// StreamPad software
var ReservedLayouts = []string{
	"$X1",
	"$A0",
	"$A1",
	"$B1",
	"$B2",
	"$C1",
}
