// Package render lays out and rasterizes region diagrams.
package render

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"gonum.org/v1/plot/palette"

	"github.com/inodb/vibe-region/internal/feature"
	"github.com/inodb/vibe-region/internal/layout"
)

var (
	// CenterBorder outlines the center feature and no other.
	CenterBorder color.Color = color.RGBA{R: 0xff, A: 0xff}
	// DefaultBorder outlines every other feature.
	DefaultBorder color.Color = color.White
	// Background fills the canvas.
	Background color.Color = color.White
	// Foreground is used for labels.
	Foreground color.Color = color.Black
)

// CenterFeatureNotFoundError is returned when the requested center feature is
// not among the features to render.
type CenterFeatureNotFoundError struct {
	ID string
}

func (e *CenterFeatureNotFoundError) Error() string {
	return fmt.Sprintf("center feature %q not found", e.ID)
}

// ColorLookup resolves a cluster to its fill color.
type ColorLookup interface {
	Color(id feature.ClusterID) (color.Color, error)
}

// LegendSource is a palette that also names the cluster behind each of its
// colors, in the same order.
type LegendSource interface {
	palette.Palette
	Clusters() []feature.ClusterID
}

// LegendEntry is one cluster swatch of the legend.
type LegendEntry struct {
	Label string
	Color color.Color
}

// Options configures the page and glyph geometry.
type Options struct {
	Height      int     // Page height in pixels
	Scale       float64 // Nucleotides per page unit
	TrackHeight float64 // Fraction of page height used by arrows
	ShaftHeight float64 // Arrow shaft height as a fraction of the arrow height
	HeadLength  float64 // Arrow head length as a fraction of the arrow height
	LabelSize   float64 // Label font size in points
	LabelAngle  float64 // Label rotation in degrees, counter-clockwise
}

// DefaultOptions returns the standard diagram geometry.
func DefaultOptions() Options {
	return Options{
		Height:      225,
		Scale:       20,
		TrackHeight: 0.4,
		ShaftHeight: 0.3,
		HeadLength:  0.3,
		LabelSize:   14,
		LabelAngle:  20,
	}
}

// Glyph is a feature placed on the page.
type Glyph struct {
	ID     string
	X0     float64 // Pixel x of the feature's low coordinate
	X1     float64 // Pixel x of the feature's high coordinate
	Strand feature.Strand
	Fill   color.Color
	Border color.Color
	Label  string // Empty when labels are off
	Center bool
}

// Diagram is a fully laid out region ready for rasterizing.
type Diagram struct {
	Width   int
	Height  int
	Extent  layout.Extent
	Offsets layout.Offsets
	Glyphs  []Glyph
	Legend  []LegendEntry // Drawn upright in the top-left corner, even when flipped
	Flip    bool // Rotate 180 degrees after drawing; set for reverse-strand centers
	opts    Options
}

// Layout places features on a page width pixels wide so that the feature with
// id centerID is horizontally centered. With showLabels, arrows carry their
// cluster ID and, when colors is a LegendSource, a cluster legend is added.
func Layout(features []*feature.Feature, colors ColorLookup, centerID string, width int, showLabels bool, opts Options) (*Diagram, error) {
	var center *feature.Feature
	for _, f := range features {
		if f.ID == centerID {
			center = f
			break
		}
	}
	if center == nil {
		return nil, &CenterFeatureNotFoundError{ID: centerID}
	}

	if opts.Scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", opts.Scale)
	}

	extent, err := layout.ExtentOf(features)
	if err != nil {
		return nil, err
	}
	offsets := layout.OffsetsFor(extent, center, float64(width), opts.Scale)

	d := &Diagram{
		Width:   width,
		Height:  opts.Height,
		Extent:  extent,
		Offsets: offsets,
		Glyphs:  make([]Glyph, 0, len(features)),
		Flip:    center.IsReverseStrand(),
		opts:    opts,
	}

	for _, f := range features {
		fill, err := colors.Color(f.Cluster)
		if err != nil {
			return nil, err
		}
		g := Glyph{
			ID:     f.ID,
			X0:     d.X(f.Low()),
			X1:     d.X(f.High()),
			Strand: f.Strand,
			Fill:   fill,
			Border: DefaultBorder,
			Center: f == center,
		}
		if g.Center {
			g.Border = CenterBorder
		}
		if showLabels {
			g.Label = f.Cluster.String()
		}
		d.Glyphs = append(d.Glyphs, g)
	}

	if src, ok := colors.(LegendSource); ok && showLabels {
		d.Legend = legendFor(src)
	}
	return d, nil
}

func legendFor(src LegendSource) []LegendEntry {
	ids := src.Clusters()
	colors := src.Colors()
	entries := make([]LegendEntry, 0, len(ids))
	for i, id := range ids {
		entries = append(entries, LegendEntry{Label: id.String(), Color: colors[i]})
	}
	return entries
}

// X maps a nucleotide coordinate to a pixel column.
func (d *Diagram) X(coord int64) float64 {
	w := float64(d.Width)
	left := d.Offsets.Left * w
	right := w - d.Offsets.Right*w
	span := d.Extent.Width()
	if span == 0 {
		return left
	}
	return left + float64(coord-d.Extent.End)/float64(span)*(right-left)
}

// TrackY returns the vertical center line of the arrows.
func (d *Diagram) TrackY() float64 {
	return float64(d.Height) * 0.6
}

// Arrow returns the outline of g as a directional arrow. The head spans the
// full arrow height and is never longer than the feature.
func (d *Diagram) Arrow(g Glyph) []gg.Point {
	cy := d.TrackY()
	h := float64(d.Height) * d.opts.TrackHeight
	shaft := h * d.opts.ShaftHeight / 2
	head := min(h*d.opts.HeadLength, g.X1-g.X0)

	// Outline for a forward arrow from tail to tip and back.
	tail, tip, neck := g.X0, g.X1, g.X1-head
	if g.Strand == feature.Reverse {
		tail, tip, neck = g.X1, g.X0, g.X0+head
	}
	return []gg.Point{
		{X: tail, Y: cy - shaft},
		{X: neck, Y: cy - shaft},
		{X: neck, Y: cy - h/2},
		{X: tip, Y: cy},
		{X: neck, Y: cy + h/2},
		{X: neck, Y: cy + shaft},
		{X: tail, Y: cy + shaft},
	}
}

// Center returns the center glyph.
func (d *Diagram) Center() Glyph {
	for _, g := range d.Glyphs {
		if g.Center {
			return g
		}
	}
	return Glyph{}
}
