package store

import "sort"

// intervalIndex answers range-overlap queries over genes on one contig using
// a sorted-slice approach. Genes are indexed once and never modified.
type intervalIndex struct {
	intervals []interval
	maxEnd    []int64 // maxEnd[i] = max(high) for intervals[:i+1]
}

type interval struct {
	low  int64
	high int64
	id   string
}

func buildIntervalIndex(genes []GeneRecord) *intervalIndex {
	if len(genes) == 0 {
		return &intervalIndex{}
	}

	intervals := make([]interval, len(genes))
	for i, g := range genes {
		intervals[i] = interval{low: min(g.Start, g.Stop), high: max(g.Start, g.Stop), id: g.ID}
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].low != intervals[j].low {
			return intervals[i].low < intervals[j].low
		}
		return intervals[i].id < intervals[j].id
	})

	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].high
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = max(maxEnd[i-1], intervals[i].high)
	}

	return &intervalIndex{intervals: intervals, maxEnd: maxEnd}
}

// overlapping returns IDs of genes overlapping [lo, hi], ordered by low coordinate.
func (x *intervalIndex) overlapping(lo, hi int64) []string {
	// Candidates are [0, end): every later interval starts after hi.
	end := sort.Search(len(x.intervals), func(i int) bool {
		return x.intervals[i].low > hi
	})

	first := end
	for i := end - 1; i >= 0; i-- {
		// Nothing at or before i reaches lo.
		if x.maxEnd[i] < lo {
			break
		}
		first = i
	}

	var ids []string
	for _, iv := range x.intervals[first:end] {
		if iv.high >= lo {
			ids = append(ids, iv.id)
		}
	}
	return ids
}
