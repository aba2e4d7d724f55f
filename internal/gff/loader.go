// Package gff loads gene annotations and cluster tables into the gene store.
package gff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/vibe-region/internal/feature"
	"github.com/inodb/vibe-region/internal/store"
)

// DefaultFeatureType is the column-3 feature type read as genes.
const DefaultFeatureType = "gene"

// idAttributes are tried in order to name a gene.
var idAttributes = []string{"ID", "gene_id", "locus_tag", "Name", "gene_name"}

// annotationAttributes are tried in order to describe a gene.
var annotationAttributes = []string{"product", "gene_name", "Name", "gene"}

// Loader reads gene features from a GTF or GFF3 file.
type Loader struct {
	path        string
	organism    string
	featureType string
}

// NewLoader creates a loader for path. Gzipped input is detected by a .gz suffix.
func NewLoader(path string) *Loader {
	return &Loader{path: path, featureType: DefaultFeatureType}
}

// SetOrganism sets the organism recorded for every loaded gene.
func (l *Loader) SetOrganism(organism string) {
	l.organism = organism
}

// SetFeatureType selects which feature type (e.g. "gene", "CDS") is loaded.
func (l *Loader) SetFeatureType(featureType string) {
	l.featureType = featureType
}

// Load parses the file and returns its gene records.
func (l *Loader) Load() ([]store.GeneRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.Parse(reader)
}

// Parse reads gene records from GTF or GFF3 content. Malformed lines and
// features without an identifier are skipped.
func (l *Loader) Parse(reader io.Reader) ([]store.GeneRecord, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var records []store.GeneRecord
	for scanner.Scan() {
		line := scanner.Text()

		if line == "##FASTA" {
			break
		}
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		rec, ok := l.parseLine(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan annotations: %w", err)
	}
	return records, nil
}

// parseLine converts a single tab-separated line to a record when it carries
// the configured feature type.
func (l *Loader) parseLine(line string) (store.GeneRecord, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 || fields[2] != l.featureType {
		return store.GeneRecord{}, false
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return store.GeneRecord{}, false
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return store.GeneRecord{}, false
	}

	attrs := parseAttributes(fields[8])
	id := firstAttr(attrs, idAttributes)
	if id == "" {
		return store.GeneRecord{}, false
	}

	return store.GeneRecord{
		ID:         id,
		Organism:   l.organism,
		Contig:     fields[0],
		Start:      start,
		Stop:       end,
		Strand:     parseStrand(fields[6]),
		Annotation: firstAttr(attrs, annotationAttributes),
	}, true
}

// parseAttributes parses the attribute column of either dialect:
// GTF `key "value"; key "value";` or GFF3 `key=value;key=value`.
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var key, value string
		if eq := strings.Index(part, "="); eq != -1 && !strings.Contains(part[:eq], " ") {
			key = part[:eq]
			value = part[eq+1:]
			if unescaped, err := url.PathUnescape(value); err == nil {
				value = unescaped
			}
		} else {
			idx := strings.Index(part, " ")
			if idx == -1 {
				continue
			}
			key = part[:idx]
			value = strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		}

		attrs[key] = value
	}

	return attrs
}

func firstAttr(attrs map[string]string, keys []string) string {
	for _, k := range keys {
		if v := attrs[k]; v != "" {
			return v
		}
	}
	return ""
}

func parseStrand(s string) feature.Strand {
	if s == "-" {
		return feature.Reverse
	}
	return feature.Forward
}
