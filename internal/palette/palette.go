// Package palette assigns visually distinct, reproducible colors to clusters.
package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"

	"github.com/inodb/vibe-region/internal/feature"
)

const (
	// saturationOffset keeps colors away from the washed-out low-saturation range.
	saturationOffset = 0.2
	// value is the fixed HSV brightness shared by every cluster color.
	value = 0.7
)

// UnmappedClusterError is returned when a cluster has no entry in a ColorMap.
type UnmappedClusterError struct {
	Cluster feature.ClusterID
}

func (e *UnmappedClusterError) Error() string {
	return fmt.Sprintf("no color assigned to cluster %s", e.Cluster)
}

// ColorMap maps cluster IDs to colors. It implements palette.Palette, listing
// colors in ascending cluster order.
type ColorMap struct {
	ids    []feature.ClusterID
	colors map[feature.ClusterID]colorful.Color
}

var _ palette.Palette = (*ColorMap)(nil)

// ColorMapFor builds a color map for the distinct IDs in ids. Input order and
// duplicates do not affect the result.
//
// Colors come from a perm x perm grid of hue and saturation, perm = ceil(sqrt(N)),
// with brightness fixed. Grid cells are taken hue-major and assigned to the
// sorted IDs, so each ID receives a distinct (hue, saturation) pair.
func ColorMapFor(ids []feature.ClusterID) *ColorMap {
	distinct := make([]feature.ClusterID, 0, len(ids))
	seen := make(map[feature.ClusterID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	feature.SortClusters(distinct)

	n := len(distinct)
	perm := int(math.Ceil(math.Sqrt(float64(n))))

	m := &ColorMap{
		ids:    distinct,
		colors: make(map[feature.ClusterID]colorful.Color, n),
	}
	i := 0
	for h := 0; h < perm && i < n; h++ {
		hue := float64(h) / float64(perm)
		for s := 0; s < perm && i < n; s++ {
			sat := float64(s)/float64(perm) + saturationOffset
			m.colors[distinct[i]] = colorful.Hsv(hue*360, sat, value)
			i++
		}
	}
	return m
}

// Len returns the number of mapped clusters.
func (m *ColorMap) Len() int {
	return len(m.ids)
}

// Clusters returns the mapped cluster IDs in ascending order.
func (m *ColorMap) Clusters() []feature.ClusterID {
	return append([]feature.ClusterID(nil), m.ids...)
}

// RGB returns the normalized color for id. Channels are not clamped and may
// fall slightly outside [0, 1] for saturations above 1.
func (m *ColorMap) RGB(id feature.ClusterID) (colorful.Color, error) {
	c, ok := m.colors[id]
	if !ok {
		return colorful.Color{}, &UnmappedClusterError{Cluster: id}
	}
	return c, nil
}

// Color returns the displayable color for id, clamped to [0, 1] per channel.
// From 82 clusters on, the grid has two saturations at or above 1, and at hues
// that are multiples of 1/6 both clamp to the same displayed color. RGB stays
// distinct for every cluster.
func (m *ColorMap) Color(id feature.ClusterID) (color.Color, error) {
	c, err := m.RGB(id)
	if err != nil {
		return nil, err
	}
	return c.Clamped(), nil
}

// Colors implements palette.Palette.
func (m *ColorMap) Colors() []color.Color {
	out := make([]color.Color, len(m.ids))
	for i, id := range m.ids {
		out[i] = m.colors[id].Clamped()
	}
	return out
}

// Hex returns the map as #rrggbb strings. Like Color, two clusters can share
// a hex string once the map holds 82 or more clusters.
func (m *ColorMap) Hex() map[feature.ClusterID]string {
	out := make(map[feature.ClusterID]string, len(m.colors))
	for id, c := range m.colors {
		out[id] = RGBToHex(c)
	}
	return out
}

// RGBToHex converts a normalized RGB color to #rrggbb, rounding each channel
// and clamping it to [0, 255].
func RGBToHex(c colorful.Color) string {
	return c.Clamped().Hex()
}
