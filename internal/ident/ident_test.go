package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"fig|83333.1.peg.4", "fig_83333_1_peg_4"},
		{"NC_000913.3", "NC_000913_3"},
		{"../etc/passwd", "___etc_passwd"},
		{"plain123", "plain123"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Sanitize(tt.input), "Sanitize(%q)", tt.input)
	}
}

func TestSplitSearchHitID(t *testing.T) {
	loc, err := SplitSearchHitID("contig7_1200_400")
	require.NoError(t, err)
	assert.Equal(t, HitLocation{Contig: "contig7", Start: 1200, Stop: 400}, loc)

	loc, err = SplitSearchHitID("NC_000913_3_100_900")
	require.NoError(t, err)
	assert.Equal(t, "NC_000913_3", loc.Contig, "contig keeps its own underscores")
	assert.Equal(t, int64(100), loc.Start)
	assert.Equal(t, int64(900), loc.Stop)
}

func TestSplitSearchHitID_Malformed(t *testing.T) {
	for _, id := range []string{"", "contig", "contig_100", "_100_200", "contig_abc_200", "contig_100_xyz"} {
		_, err := SplitSearchHitID(id)
		assert.ErrorIs(t, err, ErrMalformedHitID, "id %q", id)
	}
}
