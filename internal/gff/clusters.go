package gff

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/vibe-region/internal/store"
)

// LoadClusters reads a cluster table with rows run_id<TAB>cluster_id<TAB>gene_id.
func LoadClusters(path string) ([]store.ClusterAssignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cluster file: %w", err)
	}
	defer f.Close()

	return ParseClusters(f)
}

// ParseClusters parses cluster rows. Blank and '#' lines are skipped; any other
// malformed row is an error.
func ParseClusters(r io.Reader) ([]store.ClusterAssignment, error) {
	scanner := bufio.NewScanner(r)

	var assignments []store.ClusterAssignment
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", lineNum, len(fields))
		}
		clusterID, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse cluster id: %w", lineNum, err)
		}
		assignments = append(assignments, store.ClusterAssignment{
			RunID:     fields[0],
			ClusterID: clusterID,
			GeneID:    fields[2],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan clusters: %w", err)
	}
	return assignments, nil
}
