package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-region/internal/feature"
	"github.com/inodb/vibe-region/internal/ident"
)

// GeneRecord is a gene as stored in the annotation database.
type GeneRecord struct {
	ID         string
	Organism   string
	Contig     string
	Start      int64
	Stop       int64
	Strand     feature.Strand
	Annotation string
}

// Feature converts the record to an unclustered feature.
func (g GeneRecord) Feature() *feature.Feature {
	return feature.New(g.ID, g.Start, g.Stop, g.Strand)
}

// Neighbor is a gene in a neighborhood, tagged with its cluster for one run.
type Neighbor struct {
	GeneRecord
	Cluster feature.ClusterID
}

// ClusterAssignment places a gene in a cluster for a clustering run.
type ClusterAssignment struct {
	RunID     string
	ClusterID int
	GeneID    string
}

const geneColumns = `gene_id, organism, contig_id, start_pos, stop_pos, strand, annotation`

// AddGenes batch-inserts gene records using the Appender API.
// Duplicate gene IDs within records keep the first occurrence.
func (s *Store) AddGenes(ctx context.Context, records []GeneRecord) error {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(records))
	return s.appendRows(ctx, "genes", func(app *goduckdb.Appender) error {
		for _, g := range records {
			if seen[g.ID] {
				continue
			}
			seen[g.ID] = true
			if err := app.AppendRow(g.ID, g.Organism, g.Contig, g.Start, g.Stop, int8(g.Strand), g.Annotation); err != nil {
				return fmt.Errorf("append gene %s: %w", g.ID, err)
			}
		}
		return nil
	})
}

// AddClusters batch-inserts cluster assignments. Duplicate (run, gene) pairs
// keep the first occurrence.
func (s *Store) AddClusters(ctx context.Context, assignments []ClusterAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	type key struct{ run, gene string }
	seen := make(map[key]bool, len(assignments))
	return s.appendRows(ctx, "clusters", func(app *goduckdb.Appender) error {
		for _, a := range assignments {
			k := key{a.RunID, a.GeneID}
			if seen[k] {
				continue
			}
			seen[k] = true
			if err := app.AppendRow(a.RunID, int32(a.ClusterID), a.GeneID); err != nil {
				return fmt.Errorf("append cluster for %s: %w", a.GeneID, err)
			}
		}
		return nil
	})
}

func (s *Store) appendRows(ctx context.Context, table string, fill func(*goduckdb.Appender) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	return appender.Flush()
}

// ClearGenes removes all genes and cluster assignments.
func (s *Store) ClearGenes() error {
	if _, err := s.db.Exec("DELETE FROM clusters"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM genes")
	return err
}

// GeneCount returns the number of stored genes.
func (s *Store) GeneCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM genes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count genes: %w", err)
	}
	return n, nil
}

// GeneInfo returns records for ids in request order. Unknown IDs are skipped.
func (s *Store) GeneInfo(ctx context.Context, ids []string) ([]GeneRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+geneColumns+` FROM genes WHERE gene_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query genes: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]GeneRecord, len(ids))
	for rows.Next() {
		g, err := scanGene(rows, nil)
		if err != nil {
			return nil, err
		}
		byID[g.ID] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genes: %w", err)
	}

	records := make([]GeneRecord, 0, len(byID))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			records = append(records, g)
			delete(byID, id)
		}
	}
	return records, nil
}

// Gene returns the record for a single gene, or ErrGeneNotFound.
func (s *Store) Gene(ctx context.Context, id string) (GeneRecord, error) {
	records, err := s.GeneInfo(ctx, []string{id})
	if err != nil {
		return GeneRecord{}, err
	}
	if len(records) == 0 {
		return GeneRecord{}, fmt.Errorf("%w: %s", ErrGeneNotFound, id)
	}
	return records[0], nil
}

// GeneNeighborhood returns the genes on the same contig as geneID whose span
// overlaps the gene extended by window nucleotides on each side, including
// the gene itself. Each neighbor carries its cluster for runID. The result is
// empty when geneID is unknown.
func (s *Store) GeneNeighborhood(ctx context.Context, geneID, runID string, window int64) ([]Neighbor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		n.gene_id, n.organism, n.contig_id, n.start_pos, n.stop_pos, n.strand, n.annotation,
		c.cluster_id
		FROM genes g
		JOIN genes n ON n.contig_id = g.contig_id
			AND greatest(n.start_pos, n.stop_pos) >= least(g.start_pos, g.stop_pos) - ?
			AND least(n.start_pos, n.stop_pos) <= greatest(g.start_pos, g.stop_pos) + ?
		LEFT JOIN clusters c ON c.gene_id = n.gene_id AND c.run_id = ?
		WHERE g.gene_id = ?
		ORDER BY least(n.start_pos, n.stop_pos), n.gene_id`,
		window, window, runID, geneID)
	if err != nil {
		return nil, fmt.Errorf("query neighborhood: %w", err)
	}
	defer rows.Close()

	var neighbors []Neighbor
	for rows.Next() {
		var cluster sql.NullInt64
		g, err := scanGene(rows, &cluster)
		if err != nil {
			return nil, err
		}
		n := Neighbor{GeneRecord: g}
		if cluster.Valid {
			n.Cluster = feature.Cluster(int(cluster.Int64))
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate neighborhood: %w", err)
	}
	return neighbors, nil
}

// GenesInRegion returns IDs of genes on contig overlapping [lo, hi].
func (s *Store) GenesInRegion(ctx context.Context, contig string, lo, hi int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT gene_id FROM genes
		WHERE contig_id = ?
			AND greatest(start_pos, stop_pos) >= ?
			AND least(start_pos, stop_pos) <= ?
		ORDER BY least(start_pos, stop_pos), gene_id`,
		contig, min(lo, hi), max(lo, hi))
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan gene id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate region: %w", err)
	}
	return ids, nil
}

// SanitizedContigs maps sanitized contig names to the names stored in the database.
func (s *Store) SanitizedContigs(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT contig_id FROM genes")
	if err != nil {
		return nil, fmt.Errorf("query contigs: %w", err)
	}
	defer rows.Close()

	contigs := make(map[string]string)
	for rows.Next() {
		var contig string
		if err := rows.Scan(&contig); err != nil {
			return nil, fmt.Errorf("scan contig: %w", err)
		}
		contigs[ident.Sanitize(contig)] = contig
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contigs: %w", err)
	}
	return contigs, nil
}

// scanGene reads the geneColumns, plus an optional trailing cluster column.
func scanGene(rows *sql.Rows, cluster *sql.NullInt64) (GeneRecord, error) {
	var (
		g      GeneRecord
		strand int8
	)
	dest := []any{&g.ID, &g.Organism, &g.Contig, &g.Start, &g.Stop, &strand, &g.Annotation}
	if cluster != nil {
		dest = append(dest, cluster)
	}
	if err := rows.Scan(dest...); err != nil {
		return GeneRecord{}, fmt.Errorf("scan gene: %w", err)
	}
	g.Strand = feature.Strand(strand)
	return g, nil
}
