// Package layout computes where a region diagram's features land on the page.
package layout

import (
	"errors"

	"github.com/inodb/vibe-region/internal/feature"
)

// ErrEmptyInput is returned when an extent is requested for no features.
var ErrEmptyInput = errors.New("layout: no features to lay out")

// Extent is the coordinate span covered by a set of features.
// Start holds the largest coordinate and End the smallest, so Start >= End.
type Extent struct {
	Start int64
	End   int64
}

// Width returns the number of nucleotides between the extent bounds.
func (e Extent) Width() int64 {
	return e.Start - e.End
}

// ExtentOf returns the extent spanned by features. Both endpoints of every
// feature are considered since their order depends on strand.
func ExtentOf(features []*feature.Feature) (Extent, error) {
	if len(features) == 0 {
		return Extent{}, ErrEmptyInput
	}
	e := Extent{Start: features[0].High(), End: features[0].Low()}
	for _, f := range features[1:] {
		e.Start = max(e.Start, f.Start, f.End)
		e.End = min(e.End, f.Start, f.End)
	}
	return e, nil
}
