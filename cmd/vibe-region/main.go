// Package main provides the vibe-region command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-region/internal/assemble"
	"github.com/inodb/vibe-region/internal/render"
	"github.com/inodb/vibe-region/internal/store"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vibe-region",
		Short: "Draw genomic region diagrams around genes and search hits",
		Long: `vibe-region renders a strip of arrows for the genes around a gene of interest
or a sequence-search hit, colored by cluster membership, with the gene of
interest centered and outlined.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.vibe-region.yaml)")
	cmd.PersistentFlags().String("db", "", "gene database path (default ~/.vibe-region/genes.duckdb)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	_ = viper.BindPFlag("db", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// setDefaults registers every configuration key with its default.
func setDefaults() {
	viper.SetDefault("db", defaultDBPath())
	viper.SetDefault("output.dir", "")
	viper.SetDefault("output.unique", false)
	viper.SetDefault("render.width", 1200)
	viper.SetDefault("render.height", render.DefaultOptions().Height)
	viper.SetDefault("render.scale", render.DefaultOptions().Scale)
	viper.SetDefault("render.labels", false)
	viper.SetDefault("neighborhood.window", assemble.DefaultNeighborhoodWindow)
	viper.SetDefault("hit.window", assemble.DefaultHitWindow)
}

func initConfig() error {
	setDefaults()

	viper.SetEnvPrefix("VIBE_REGION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".vibe-region")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "genes.duckdb"
	}
	return filepath.Join(home, ".vibe-region", "genes.duckdb")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openStore opens the configured gene database.
func openStore() (*store.Store, error) {
	s, err := store.Open(viper.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("opening gene database: %w", err)
	}
	return s, nil
}
