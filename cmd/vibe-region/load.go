package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-region/internal/gff"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load gene annotations and cluster assignments into the gene database",
	}

	var (
		organism    string
		featureType string
		replace     bool
	)
	genes := &cobra.Command{
		Use:   "genes <annotation.gff3|annotation.gtf>[.gz]",
		Short: "Load genes from a GFF3 or GTF file",
		Example: `  vibe-region load genes --organism "E. coli K-12" GCF_000005845.2_genomic.gff.gz
  vibe-region load genes --feature-type CDS annotation.gff3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if replace {
				if err := s.ClearGenes(); err != nil {
					return fmt.Errorf("clearing genes: %w", err)
				}
			}

			loader := gff.NewLoader(args[0])
			loader.SetOrganism(organism)
			loader.SetFeatureType(featureType)
			records, err := loader.Load()
			if err != nil {
				return err
			}
			if err := s.AddGenes(cmd.Context(), records); err != nil {
				return fmt.Errorf("storing genes: %w", err)
			}

			total, err := s.GeneCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d genes (%d in %s)\n", len(records), total, s.Path())
			return nil
		},
	}
	genes.Flags().StringVar(&organism, "organism", "", "organism name recorded for each gene")
	genes.Flags().StringVar(&featureType, "feature-type", gff.DefaultFeatureType, "feature type to load as genes")
	genes.Flags().BoolVar(&replace, "replace", false, "remove existing genes and clusters first")

	clusters := &cobra.Command{
		Use:   "clusters <clusters.tsv>",
		Short: "Load cluster assignments (run_id, cluster_id, gene_id per line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			assignments, err := gff.LoadClusters(args[0])
			if err != nil {
				return err
			}
			if err := s.AddClusters(cmd.Context(), assignments); err != nil {
				return fmt.Errorf("storing clusters: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d cluster assignments\n", len(assignments))
			return nil
		},
	}

	cmd.AddCommand(genes, clusters)
	return cmd
}
