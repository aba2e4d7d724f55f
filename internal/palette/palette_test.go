package palette

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-region/internal/feature"
)

func clusters(ids ...int) []feature.ClusterID {
	out := make([]feature.ClusterID, len(ids))
	for i, id := range ids {
		out[i] = feature.Cluster(id)
	}
	return out
}

func TestColorMapFor_Deterministic(t *testing.T) {
	a := ColorMapFor(append(clusters(5, 3, 9, 1), feature.Unassigned))
	b := ColorMapFor(append([]feature.ClusterID{feature.Unassigned}, clusters(9, 1, 1, 3, 5)...))

	require.Equal(t, 5, a.Len())
	assert.Equal(t, a.Hex(), b.Hex())
	for _, id := range a.Clusters() {
		ca, err := a.RGB(id)
		require.NoError(t, err)
		cb, err := b.RGB(id)
		require.NoError(t, err)
		assert.Equal(t, ca, cb, "cluster %s", id)
	}
}

func TestColorMapFor_SortedAssignment(t *testing.T) {
	m := ColorMapFor(clusters(30, 10, 20))
	assert.Equal(t, clusters(10, 20, 30), m.Clusters())

	// perm = 2: the first cell is hue 0, saturation 0.2.
	first, err := m.RGB(feature.Cluster(10))
	require.NoError(t, err)
	assert.InDelta(t, 0.7, first.R, 1e-9)
	assert.InDelta(t, 0.56, first.G, 1e-9)
	assert.InDelta(t, 0.56, first.B, 1e-9)

	// Second cell keeps hue 0 and moves to saturation 0.7.
	second, err := m.RGB(feature.Cluster(20))
	require.NoError(t, err)
	assert.InDelta(t, 0.7, second.R, 1e-9)
	assert.InDelta(t, 0.21, second.B, 1e-9)
}

func TestColorMapFor_UnassignedHasStableColor(t *testing.T) {
	m := ColorMapFor([]feature.ClusterID{feature.Cluster(4), feature.Unassigned})
	assert.Equal(t, feature.Unassigned, m.Clusters()[0])
	_, err := m.Color(feature.Unassigned)
	assert.NoError(t, err)
}

func TestColorMapFor_Distinct(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 99, 1000, 10000} {
		ids := make([]feature.ClusterID, n)
		for i := range ids {
			ids[i] = feature.Cluster(i)
		}
		m := ColorMapFor(ids)
		require.Equal(t, n, m.Len())

		seen := make(map[colorful.Color]feature.ClusterID, n)
		for _, id := range ids {
			c, err := m.RGB(id)
			require.NoError(t, err)
			prev, dup := seen[c]
			require.False(t, dup, "n=%d: clusters %s and %s share a color", n, prev, id)
			seen[c] = id
		}
	}
}

func sequentialClusters(n int) []feature.ClusterID {
	ids := make([]feature.ClusterID, n)
	for i := range ids {
		ids[i] = feature.Cluster(i)
	}
	return ids
}

func TestColorMap_HexDistinctBelow82(t *testing.T) {
	for n := 1; n <= 81; n++ {
		hex := ColorMapFor(sequentialClusters(n)).Hex()
		seen := make(map[string]bool, n)
		for _, h := range hex {
			seen[h] = true
		}
		assert.Len(t, seen, n, "n=%d", n)
	}
}

func TestColorMap_HexCoincidesFrom82(t *testing.T) {
	m := ColorMapFor(sequentialClusters(82))
	hex := m.Hex()

	// Saturations 1.0 and 1.1 at hue 0 and hue 1/2 clamp to the same color.
	assert.Equal(t, "#b30000", hex[feature.Cluster(8)])
	assert.Equal(t, "#b30000", hex[feature.Cluster(9)])
	assert.Equal(t, "#00b3b3", hex[feature.Cluster(58)])
	assert.Equal(t, "#00b3b3", hex[feature.Cluster(59)])

	seen := make(map[string]bool, len(hex))
	for _, h := range hex {
		seen[h] = true
	}
	assert.Len(t, seen, 80)

	c8, err := m.RGB(feature.Cluster(8))
	require.NoError(t, err)
	c9, err := m.RGB(feature.Cluster(9))
	require.NoError(t, err)
	assert.NotEqual(t, c8, c9, "unclamped colors stay distinct")

	d8, err := m.Color(feature.Cluster(8))
	require.NoError(t, err)
	d9, err := m.Color(feature.Cluster(9))
	require.NoError(t, err)
	r8, g8, b8, _ := d8.RGBA()
	r9, g9, b9, _ := d9.RGBA()
	assert.Equal(t, [3]uint32{r8, g8, b8}, [3]uint32{r9, g9, b9})
}

func TestColorMapFor_Empty(t *testing.T) {
	m := ColorMapFor(nil)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Colors())
}

func TestColorMap_Unmapped(t *testing.T) {
	m := ColorMapFor(clusters(1, 2))
	_, err := m.Color(feature.Cluster(3))
	var unmapped *UnmappedClusterError
	require.True(t, errors.As(err, &unmapped))
	assert.Equal(t, feature.Cluster(3), unmapped.Cluster)
	assert.Contains(t, err.Error(), "3")
}

func TestColorMap_PaletteOrder(t *testing.T) {
	m := ColorMapFor(clusters(2, 1))
	cols := m.Colors()
	require.Len(t, cols, 2)
	c1, _ := m.Color(feature.Cluster(1))
	assert.Equal(t, c1, cols[0])
}

func TestRGBToHex(t *testing.T) {
	assert.Equal(t, "#000000", RGBToHex(colorful.Color{}))
	assert.Equal(t, "#ffffff", RGBToHex(colorful.Color{R: 1, G: 1, B: 1}))
	assert.Equal(t, "#b38f8f", RGBToHex(colorful.Color{R: 0.7, G: 0.56, B: 0.56}))
	assert.Equal(t, "#b30000", RGBToHex(colorful.Color{R: 0.7, G: -0.14, B: -0.14}), "negative channels clamp")
}

func TestRGBToHex_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		c := colorful.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
		back, err := colorful.Hex(RGBToHex(c))
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(back.R-c.R), 1.0/255)
		assert.LessOrEqual(t, math.Abs(back.G-c.G), 1.0/255)
		assert.LessOrEqual(t, math.Abs(back.B-c.B), 1.0/255)
	}
}
