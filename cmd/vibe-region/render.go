package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-region/internal/assemble"
	"github.com/inodb/vibe-region/internal/feature"
	"github.com/inodb/vibe-region/internal/gff"
	"github.com/inodb/vibe-region/internal/palette"
	"github.com/inodb/vibe-region/internal/render"
	"github.com/inodb/vibe-region/internal/store"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a region diagram",
		Long: `Render a PNG region diagram centered on a gene or a search hit.
The path of each written image is printed to stdout.`,
	}

	flags := cmd.PersistentFlags()
	flags.String("run", "", "cluster run used to color genes (required)")
	flags.Int("width", 0, "image width in pixels (default from render.width)")
	flags.Bool("labels", false, "label arrows with cluster ids")
	flags.String("output-dir", "", "output directory (default: OS temp directory)")
	flags.Bool("unique", false, "write each image into its own random subdirectory")
	flags.String("annotations", "", "read genes from a GFF3/GTF file instead of the database")
	flags.String("clusters", "", "cluster assignments TSV used with --annotations")
	flags.Bool("print-colors", false, "print each cluster's color as cluster<TAB>#rrggbb after the image path")
	_ = cmd.MarkPersistentFlagRequired("run")
	_ = viper.BindPFlag("render.width", flags.Lookup("width"))
	_ = viper.BindPFlag("render.labels", flags.Lookup("labels"))
	_ = viper.BindPFlag("output.dir", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("output.unique", flags.Lookup("unique"))

	cmd.AddCommand(&cobra.Command{
		Use:     "gene <gene-id>",
		Short:   "Render a gene and its neighbors",
		Example: `  vibe-region render gene --run run1 fig|83333.1.peg.4`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRenderEnv(cmd, func(env *renderEnv) error {
				features, err := env.assembler.GeneCentered(cmd.Context(), args[0], env.runID)
				if err != nil {
					return err
				}
				return env.draw(cmd.OutOrStdout(), features, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "hit <hit-id>",
		Short: "Render a search hit and the neighbors of its nearest gene",
		Long: `Render a sequence-search hit identified as contig_start_stop together with the
neighborhood of the nearest annotated gene. A start greater than stop marks a
reverse-strand hit.`,
		Example: `  vibe-region render hit --run run1 NC_000913_3_12163_13200`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRenderEnv(cmd, func(env *renderEnv) error {
				features, err := env.assembler.HitCentered(cmd.Context(), args[0], env.runID)
				if err != nil {
					return err
				}
				return env.draw(cmd.OutOrStdout(), features, args[0])
			})
		},
	})

	batch := &cobra.Command{
		Use:   "batch <ids-file>",
		Short: "Render one diagram per gene id listed in a file ('-' for stdin)",
		Long: `Render one gene-centered diagram per listed gene id, in list order. Each
line of output is the gene id and the image path, tab separated. Genes that
cannot be assembled or rendered are logged and skipped, and the command fails
once the list is done.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRenderEnv(cmd, func(env *renderEnv) error {
				return env.batch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0])
			})
		},
	}
	cmd.AddCommand(batch)

	return cmd
}

// renderEnv holds the collaborators shared by the render subcommands.
type renderEnv struct {
	assembler   *assemble.Assembler
	renderer    *render.Renderer
	logger      *zap.Logger
	runID       string
	width       int
	labels      bool
	printColors bool
}

func withRenderEnv(cmd *cobra.Command, fn func(*renderEnv) error) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	src, closeSrc, err := openGeneSource(cmd)
	if err != nil {
		return err
	}
	defer closeSrc()

	runID, _ := cmd.Flags().GetString("run")

	asm := assemble.NewAssembler(src)
	asm.SetNeighborhoodWindow(viper.GetInt64("neighborhood.window"))
	asm.SetHitWindow(viper.GetInt64("hit.window"))
	asm.SetLogger(logger)

	var placement render.Placement = render.DirPlacement{Dir: viper.GetString("output.dir")}
	if viper.GetBool("output.unique") {
		placement = render.UniqueDirPlacement{Dir: viper.GetString("output.dir")}
	}
	r := render.NewRenderer(placement)
	opts := r.Options()
	opts.Height = viper.GetInt("render.height")
	opts.Scale = viper.GetFloat64("render.scale")
	r.SetOptions(opts)
	r.SetLogger(logger)

	width := viper.GetInt("render.width")
	if width <= 0 {
		return fmt.Errorf("render width must be positive, got %d", width)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("render scale must be positive, got %g", opts.Scale)
	}
	if opts.Height <= 0 {
		return fmt.Errorf("render height must be positive, got %d", opts.Height)
	}
	printColors, _ := cmd.Flags().GetBool("print-colors")

	return fn(&renderEnv{
		assembler:   asm,
		renderer:    r,
		logger:      logger,
		runID:       runID,
		width:       width,
		labels:      viper.GetBool("render.labels"),
		printColors: printColors,
	})
}

// openGeneSource returns the gene database, or an in-memory source when
// --annotations names an annotation file.
func openGeneSource(cmd *cobra.Command) (assemble.GeneSource, func(), error) {
	annotations, _ := cmd.Flags().GetString("annotations")
	clustersPath, _ := cmd.Flags().GetString("clusters")
	if annotations == "" {
		if clustersPath != "" {
			return nil, nil, fmt.Errorf("--clusters requires --annotations")
		}
		s, err := openStore()
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}

	records, err := gff.NewLoader(annotations).Load()
	if err != nil {
		return nil, nil, err
	}
	var assignments []store.ClusterAssignment
	if clustersPath != "" {
		if assignments, err = gff.LoadClusters(clustersPath); err != nil {
			return nil, nil, err
		}
	}
	return store.NewMemory(records, assignments), func() {}, nil
}

func (e *renderEnv) draw(w io.Writer, features []*feature.Feature, centerID string) error {
	colors := palette.ColorMapFor(feature.Clusters(features))
	path, err := e.renderer.Render(features, colors, centerID, e.width, e.labels)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, path)
	if e.printColors {
		hex := colors.Hex()
		for _, id := range colors.Clusters() {
			fmt.Fprintf(w, "%s\t%s\n", id, hex[id])
		}
	}
	return nil
}

// batch renders one gene-centered diagram per listed gene, in list order.
// Failed genes are logged and skipped; the command fails if any gene failed.
func (e *renderEnv) batch(ctx context.Context, stdin io.Reader, w io.Writer, path string) error {
	ids, err := readIDs(stdin, path)
	if err != nil {
		return err
	}

	failed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := e.renderGene(ctx, id)
		if err != nil {
			e.logger.Warn("failed to render gene", zap.String("gene", id), zap.Error(err))
			failed++
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", id, out); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d genes failed", failed, len(ids))
	}
	return nil
}

func (e *renderEnv) renderGene(ctx context.Context, geneID string) (string, error) {
	features, err := e.assembler.GeneCentered(ctx, geneID, e.runID)
	if err != nil {
		return "", err
	}
	colors := palette.ColorMapFor(feature.Clusters(features))
	return e.renderer.Render(features, colors, geneID, e.width, e.labels)
}

// readIDs reads one identifier per line, skipping blanks and duplicates so
// no diagram in a batch overwrites another.
func readIDs(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open id list: %w", err)
		}
		defer f.Close()
		r = f
	}

	seen := make(map[string]bool)
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read id list: %w", err)
	}
	return ids, nil
}
