package store

import (
	"context"
	"fmt"

	"github.com/inodb/vibe-region/internal/feature"
	"github.com/inodb/vibe-region/internal/ident"
)

// Memory serves gene lookups from records held in memory, for rendering
// straight from annotation files without a database.
type Memory struct {
	genes    map[string]GeneRecord
	contigs  map[string]*intervalIndex
	clusters map[string]map[string]int // run -> gene -> cluster
}

// NewMemory indexes records and cluster assignments. Duplicate genes and
// duplicate (run, gene) assignments keep the first occurrence.
func NewMemory(records []GeneRecord, assignments []ClusterAssignment) *Memory {
	m := &Memory{
		genes:    make(map[string]GeneRecord, len(records)),
		contigs:  make(map[string]*intervalIndex),
		clusters: make(map[string]map[string]int),
	}

	byContig := make(map[string][]GeneRecord)
	for _, g := range records {
		if _, dup := m.genes[g.ID]; dup {
			continue
		}
		m.genes[g.ID] = g
		byContig[g.Contig] = append(byContig[g.Contig], g)
	}
	for contig, genes := range byContig {
		m.contigs[contig] = buildIntervalIndex(genes)
	}

	for _, a := range assignments {
		run, ok := m.clusters[a.RunID]
		if !ok {
			run = make(map[string]int)
			m.clusters[a.RunID] = run
		}
		if _, dup := run[a.GeneID]; !dup {
			run[a.GeneID] = a.ClusterID
		}
	}
	return m
}

// GeneInfo returns records for ids in request order. Unknown IDs are skipped.
func (m *Memory) GeneInfo(_ context.Context, ids []string) ([]GeneRecord, error) {
	var records []GeneRecord
	for _, id := range ids {
		if g, ok := m.genes[id]; ok {
			records = append(records, g)
		}
	}
	return records, nil
}

// GeneNeighborhood has the same semantics as Store.GeneNeighborhood.
func (m *Memory) GeneNeighborhood(ctx context.Context, geneID, runID string, window int64) ([]Neighbor, error) {
	g, ok := m.genes[geneID]
	if !ok {
		return nil, nil
	}

	ids, err := m.GenesInRegion(ctx, g.Contig, min(g.Start, g.Stop)-window, max(g.Start, g.Stop)+window)
	if err != nil {
		return nil, err
	}

	neighbors := make([]Neighbor, 0, len(ids))
	for _, id := range ids {
		n := Neighbor{GeneRecord: m.genes[id]}
		if c, ok := m.clusters[runID][id]; ok {
			n.Cluster = feature.Cluster(c)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, nil
}

// GenesInRegion returns IDs of genes on contig overlapping [lo, hi].
func (m *Memory) GenesInRegion(_ context.Context, contig string, lo, hi int64) ([]string, error) {
	idx, ok := m.contigs[contig]
	if !ok {
		return nil, nil
	}
	return idx.overlapping(min(lo, hi), max(lo, hi)), nil
}

// SanitizedContigs maps sanitized contig names to their original names.
func (m *Memory) SanitizedContigs(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.contigs))
	for contig := range m.contigs {
		out[ident.Sanitize(contig)] = contig
	}
	return out, nil
}

// Gene returns the record for a single gene, or ErrGeneNotFound.
func (m *Memory) Gene(_ context.Context, id string) (GeneRecord, error) {
	g, ok := m.genes[id]
	if !ok {
		return GeneRecord{}, fmt.Errorf("%w: %s", ErrGeneNotFound, id)
	}
	return g, nil
}
