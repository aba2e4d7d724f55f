// Package feature defines the genomic spans drawn on a region diagram.
package feature

// Strand is the orientation of a feature on its contig.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

// StrandOf returns Forward when start < stop, Reverse otherwise.
func StrandOf(start, stop int64) Strand {
	if start < stop {
		return Forward
	}
	return Reverse
}

// Feature represents a gene or search hit on a reference sequence.
// Start and End may be stored in either order; callers must not assume Start <= End.
type Feature struct {
	ID      string    // Unique within a rendering request
	Start   int64     // First endpoint
	End     int64     // Second endpoint
	Strand  Strand    // +1 (forward) or -1 (reverse)
	Cluster ClusterID // Cluster membership for the current run
}

// New creates a feature with no cluster assigned.
func New(id string, start, end int64, strand Strand) *Feature {
	return &Feature{ID: id, Start: start, End: end, Strand: strand}
}

// IsReverseStrand returns true if the feature is on the reverse strand.
func (f *Feature) IsReverseStrand() bool {
	return f.Strand == Reverse
}

// Low returns the smaller of the two endpoints.
func (f *Feature) Low() int64 {
	return min(f.Start, f.End)
}

// High returns the larger of the two endpoints.
func (f *Feature) High() int64 {
	return max(f.Start, f.End)
}

// Mid returns the midpoint of the feature span.
func (f *Feature) Mid() float64 {
	return float64(f.High()-f.Low())/2 + float64(f.Low())
}

// Clusters returns the distinct cluster IDs present in features.
func Clusters(features []*Feature) []ClusterID {
	seen := make(map[ClusterID]bool, len(features))
	var ids []ClusterID
	for _, f := range features {
		if !seen[f.Cluster] {
			seen[f.Cluster] = true
			ids = append(ids, f.Cluster)
		}
	}
	return ids
}
