package layout

import (
	"math"

	"github.com/inodb/vibe-region/internal/feature"
)

// Offsets are left and right page margins expressed as fractions of the page
// width. Negative values mean the region overflows that side of the page.
type Offsets struct {
	Left  float64
	Right float64
}

// OffsetsFor places the midpoint of center in the middle of a page that is
// pageWidthPx wide, drawing scale nucleotides per page unit.
func OffsetsFor(extent Extent, center *feature.Feature, pageWidthPx, scale float64) Offsets {
	pageUnits := pageWidthPx / scale
	mid := center.Mid()

	leftSpan := math.Abs(mid - float64(extent.Start))
	rightSpan := math.Abs(mid - float64(extent.End))

	rightOffset := pageUnits/2 - leftSpan/scale
	leftOffset := pageUnits/2 - rightSpan/scale

	return Offsets{
		Left:  leftOffset / pageUnits,
		Right: rightOffset / pageUnits,
	}
}
