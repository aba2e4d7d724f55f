// Package assemble builds the feature sets drawn on region diagrams.
package assemble

import (
	"context"

	"go.uber.org/zap"

	"github.com/inodb/vibe-region/internal/feature"
	"github.com/inodb/vibe-region/internal/ident"
	"github.com/inodb/vibe-region/internal/store"
)

const (
	// DefaultNeighborhoodWindow is the flank, in nucleotides, searched around a gene.
	DefaultNeighborhoodWindow = 10000
	// DefaultHitWindow is the flank searched around a search hit for annotated genes.
	DefaultHitWindow = 200000
)

// GeneSource defines the gene lookups needed to assemble features.
type GeneSource interface {
	Gene(ctx context.Context, id string) (store.GeneRecord, error)
	GeneInfo(ctx context.Context, ids []string) ([]store.GeneRecord, error)
	GeneNeighborhood(ctx context.Context, geneID, runID string, window int64) ([]store.Neighbor, error)
	GenesInRegion(ctx context.Context, contig string, lo, hi int64) ([]string, error)
	SanitizedContigs(ctx context.Context) (map[string]string, error)
}

// Assembler resolves genes and search hits to the features around them.
type Assembler struct {
	src                GeneSource
	neighborhoodWindow int64
	hitWindow          int64
	logger             *zap.Logger
}

// NewAssembler creates an assembler reading from src.
func NewAssembler(src GeneSource) *Assembler {
	return &Assembler{
		src:                src,
		neighborhoodWindow: DefaultNeighborhoodWindow,
		hitWindow:          DefaultHitWindow,
		logger:             zap.NewNop(),
	}
}

// SetNeighborhoodWindow sets the flank searched around a gene for neighbors.
func (a *Assembler) SetNeighborhoodWindow(window int64) {
	a.neighborhoodWindow = window
}

// SetHitWindow sets the flank searched around a search hit for annotated genes.
func (a *Assembler) SetHitWindow(window int64) {
	a.hitWindow = window
}

// SetLogger sets the logger for warning and info messages.
func (a *Assembler) SetLogger(l *zap.Logger) {
	a.logger = l
}

// GeneCentered returns geneID and its neighbors, each tagged with its cluster
// in runID. When the source reports no neighborhood, only the gene itself is
// returned, unclustered; a gene the source does not know yields ErrGeneNotFound.
func (a *Assembler) GeneCentered(ctx context.Context, geneID, runID string) ([]*feature.Feature, error) {
	neighbors, err := a.src.GeneNeighborhood(ctx, geneID, runID, a.neighborhoodWindow)
	if err != nil {
		return nil, err
	}

	if len(neighbors) == 0 {
		g, err := a.src.Gene(ctx, geneID)
		if err != nil {
			return nil, err
		}
		return []*feature.Feature{g.Feature()}, nil
	}

	features := make([]*feature.Feature, 0, len(neighbors))
	for _, n := range neighbors {
		f := n.Feature()
		f.Cluster = n.Cluster
		features = append(features, f)
	}
	return features, nil
}

// HitCentered returns a synthetic feature for the search hit hitID together
// with the neighborhood of the annotated gene nearest to it. The hit feature is
// last and unclustered. When no gene lies within the hit window, the hit is
// returned alone and a warning is logged.
func (a *Assembler) HitCentered(ctx context.Context, hitID, runID string) ([]*feature.Feature, error) {
	loc, err := ident.SplitSearchHitID(hitID)
	if err != nil {
		return nil, err
	}

	contigs, err := a.src.SanitizedContigs(ctx)
	if err != nil {
		return nil, err
	}
	contig := loc.Contig
	if original, ok := contigs[contig]; ok {
		contig = original
	}

	hit := feature.New(hitID, loc.Start, loc.Stop, feature.StrandOf(loc.Start, loc.Stop))

	lo, hi := hit.Low()-a.hitWindow, hit.High()+a.hitWindow
	ids, err := a.src.GenesInRegion(ctx, contig, lo, hi)
	if err != nil {
		return nil, err
	}
	var records []store.GeneRecord
	if len(ids) > 0 {
		records, err = a.src.GeneInfo(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	if len(records) == 0 {
		a.logger.Warn("no neighboring genes found for search hit",
			zap.String("hit", hitID),
			zap.Int64("window", a.hitWindow),
			zap.String("contig", contig))
		return []*feature.Feature{hit}, nil
	}

	nearest := nearestGene(records, loc)
	a.logger.Debug("nearest gene to search hit",
		zap.String("hit", hitID),
		zap.String("gene", nearest.ID))

	features, err := a.GeneCentered(ctx, nearest.ID, runID)
	if err != nil {
		return nil, err
	}
	return append(features, hit), nil
}

// nearestGene returns the record with the smallest distance between any of its
// endpoints and any endpoint of loc. Ties keep the earlier record.
func nearestGene(records []store.GeneRecord, loc ident.HitLocation) store.GeneRecord {
	best := records[0]
	bestDist := endpointDistance(best, loc)
	for _, g := range records[1:] {
		if d := endpointDistance(g, loc); d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}

func endpointDistance(g store.GeneRecord, loc ident.HitLocation) int64 {
	return min(
		abs(g.Start-loc.Start), abs(g.Stop-loc.Start),
		abs(g.Start-loc.Stop), abs(g.Stop-loc.Stop),
	)
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
