package gff

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-region/internal/feature"
)

const gff3Data = `##gff-version 3
NC_000913.3	RefSeq	region	1	4641652	.	+	.	ID=NC_000913.3:1..4641652
NC_000913.3	RefSeq	gene	190	255	.	+	.	ID=gene-b0001;Name=thrL;locus_tag=b0001
NC_000913.3	RefSeq	CDS	190	255	.	+	0	ID=cds-NP_414542.1;product=thr operon leader peptide
NC_000913.3	RefSeq	gene	337	2799	.	+	.	ID=gene-b0002;Name=thrA;product=aspartokinase%2C homoserine dehydrogenase
NC_000913.3	RefSeq	gene	5683	6459	.	-	.	ID=gene-b0006;Name=yaaA
NC_000913.3	RefSeq	gene	notanumber	6459	.	-	.	ID=gene-bad
##FASTA
>NC_000913.3
AGCTTTTCATTCTGACTGCAACGGGCAATATGTC
`

const gtfData = `#!genome-build GRCh38
chr12	HAVANA	gene	25205246	25250936	.	-	.	gene_id "ENSG00000133703.14"; gene_type "protein_coding"; gene_name "KRAS";
chr12	HAVANA	transcript	25205246	25250936	.	-	.	gene_id "ENSG00000133703.14"; transcript_id "ENST00000311936.8";
chr12	HAVANA	gene	25100000	25101000	.	+	.	gene_type "lncRNA";
`

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:  "gtf attributes",
			input: `gene_id "ENSG00000133703"; transcript_id "ENST00000311936"; gene_name "KRAS";`,
			expected: map[string]string{
				"gene_id":       "ENSG00000133703",
				"transcript_id": "ENST00000311936",
				"gene_name":     "KRAS",
			},
		},
		{
			name:  "gff3 attributes",
			input: `ID=gene-b0002;Name=thrA;product=aspartokinase%2C homoserine dehydrogenase`,
			expected: map[string]string{
				"ID":      "gene-b0002",
				"Name":    "thrA",
				"product": "aspartokinase, homoserine dehydrogenase",
			},
		},
		{
			name:     "gtf value containing equals",
			input:    `note "a=b";`,
			expected: map[string]string{"note": "a=b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseAttributes(tt.input)
			for key, want := range tt.expected {
				assert.Equal(t, want, result[key], "parseAttributes()[%q]", key)
			}
		})
	}
}

func TestParse_GFF3(t *testing.T) {
	l := NewLoader("")
	l.SetOrganism("E. coli K-12")
	records, err := l.Parse(strings.NewReader(gff3Data))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "gene-b0001", records[0].ID)
	assert.Equal(t, "NC_000913.3", records[0].Contig)
	assert.Equal(t, int64(190), records[0].Start)
	assert.Equal(t, int64(255), records[0].Stop)
	assert.Equal(t, feature.Forward, records[0].Strand)
	assert.Equal(t, "E. coli K-12", records[0].Organism)
	assert.Equal(t, "thrL", records[0].Annotation)

	assert.Equal(t, "aspartokinase, homoserine dehydrogenase", records[1].Annotation)
	assert.Equal(t, feature.Reverse, records[2].Strand)
}

func TestParse_FeatureType(t *testing.T) {
	l := NewLoader("")
	l.SetFeatureType("CDS")
	records, err := l.Parse(strings.NewReader(gff3Data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cds-NP_414542.1", records[0].ID)
	assert.Equal(t, "thr operon leader peptide", records[0].Annotation)
}

func TestParse_GTF(t *testing.T) {
	records, err := NewLoader("").Parse(strings.NewReader(gtfData))
	require.NoError(t, err)
	require.Len(t, records, 1, "transcript lines and genes without id are skipped")
	assert.Equal(t, "ENSG00000133703.14", records[0].ID)
	assert.Equal(t, "chr12", records[0].Contig)
	assert.Equal(t, "KRAS", records[0].Annotation)
	assert.Equal(t, feature.Reverse, records[0].Strand)
}

func TestLoad_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.gff3.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(gff3Data))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	records, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.gff3")).Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
