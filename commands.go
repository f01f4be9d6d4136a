package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildfunctions/genetix/pkg/engine"
	"github.com/wildfunctions/genetix/pkg/pool"
	"github.com/wildfunctions/genetix/pkg/storage"
	"github.com/wildfunctions/genetix/pkg/strategy"
)

var (
	logLevel string

	rootCmd = &cobra.Command{
		Use:           "genetix",
		Short:         "Evolve symbolic expressions that fit sampled data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run an evolutionary search over a data sample",
		Long: `Run loads the configuration file (YAML, TOML or JSON), applies GENETIX_*
environment variables and then command-line flags, and fits the sample given
by --data (CSV with x,y columns) or --formula.`,
		RunE: runSearch, // cmd_run.go
	}

	sampleCmd = &cobra.Command{
		Use:   "sample",
		Short: "Write a CSV sample of a formula",
		RunE:  runSample, // cmd_tools.go
	}

	genfileCmd = &cobra.Command{
		Use:   "genfile",
		Short: "Inspect generation archive files",
	}
	genfileDumpCmd = &cobra.Command{
		Use:   "dump [path]",
		Short: "Print the records of an archive with their offsets",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenfileDump, // cmd_tools.go
	}

	historyCmd = &cobra.Command{
		Use:   "history [run-id]",
		Short: "List stored runs, or the generations of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory, // cmd_tools.go
	}
)

// run flags
var (
	configPath  string
	dataPath    string
	formula     string
	sampleFrom  float64
	sampleTo    float64
	samplePts   int
	archivePath string
	storeKind   string
	storePath   string
	metricsAddr string
	format      string
	verbose     bool
	topK        int
	derivative  bool
	runCfg      = engine.DefaultConfig()
)

// tool flags
var (
	sampleFormula    string
	sampleStart      float64
	sampleEnd        float64
	sampleCount      int
	outPath          string
	dumpOffset       int64
	dumpLimit        int
	historyStore     string
	historyStorePath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	}

	f := runCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (.yaml, .yml, .toml, .json)")
	f.StringVar(&dataPath, "data", "", "CSV sample with x,y columns")
	f.StringVar(&formula, "formula", "", "sample this formula instead of --data")
	f.Float64Var(&sampleFrom, "from", -5, "first x of the --formula sample")
	f.Float64Var(&sampleTo, "to", 5, "last x of the --formula sample")
	f.IntVar(&samplePts, "points", 41, "points in the --formula sample")
	f.StringVar(&archivePath, "archive", "", "append the best expression of each generation to this genfile")
	f.StringVar(&storeKind, "store", "", "record the run in a store ("+strings.Join(storage.Kinds, ", ")+")")
	f.StringVar(&storePath, "store-path", "genetix.db", "SQLite file or Badger directory")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	f.StringVar(&format, "format", "text", "report format (text, json)")
	f.BoolVarP(&verbose, "verbose", "v", false, "print progress per generation")
	f.IntVar(&topK, "top", 5, "number of best expressions to report")
	f.BoolVar(&derivative, "derivative", false, "report the derivative of each best expression")

	f.StringVar(&runCfg.Model, "model", runCfg.Model, "evolution model ("+strings.Join(strategy.Names(), ", ")+")")
	f.StringVar(&runCfg.Pool, "pool", runCfg.Pool, "operator pool ("+strings.Join(pool.Names(), ", ")+")")
	f.IntVar(&runCfg.GenerationSize, "population", runCfg.GenerationSize, "candidates per generation")
	f.IntVar(&runCfg.GenerationLimit, "generations", runCfg.GenerationLimit, "generation limit")
	f.Float64Var(&runCfg.MutationProbability, "mutation", runCfg.MutationProbability, "mutation probability")
	f.Float64Var(&runCfg.CrossingProbability, "crossing", runCfg.CrossingProbability, "crossing probability")
	f.Float64Var(&runCfg.ReproductionProbability, "reproduction", runCfg.ReproductionProbability, "reproduction probability (gp)")
	f.Float64Var(&runCfg.SelectionProbability, "selection", runCfg.SelectionProbability, "selection probability (gp)")
	f.IntVar(&runCfg.MinFunctionLength, "min-length", runCfg.MinFunctionLength, "minimum expression length in nodes")
	f.IntVar(&runCfg.MaxFunctionLength, "max-length", runCfg.MaxFunctionLength, "maximum expression length in nodes")
	f.BoolVar(&runCfg.ArbitraryMutations, "arbitrary-mutations", runCfg.ArbitraryMutations, "allow structural mutations")
	f.BoolVar(&runCfg.ArbitraryCrossings, "arbitrary-crossings", runCfg.ArbitraryCrossings, "allow crossing between nodes of different arity")
	f.Float64Var(&runCfg.Epsilon, "epsilon", runCfg.Epsilon, "stop once the best fitness is at or below this")
	f.Uint64Var(&runCfg.Seed, "seed", runCfg.Seed, "random seed (0 = random)")
	f.IntVar(&runCfg.Workers, "workers", runCfg.Workers, "parallel fitness workers")
	f.IntVar(&runCfg.CacheSize, "cache", runCfg.CacheSize, "fitness cache entries (0 disables)")
	f.DurationVar(&runCfg.ProgressInterval, "progress-interval", runCfg.ProgressInterval, "minimum time between progress events")

	sf := sampleCmd.Flags()
	sf.StringVar(&sampleFormula, "formula", "", "formula in x")
	sf.Float64Var(&sampleStart, "from", -5, "first x")
	sf.Float64Var(&sampleEnd, "to", 5, "last x")
	sf.IntVar(&sampleCount, "points", 41, "number of points")
	sf.StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	_ = sampleCmd.MarkFlagRequired("formula")

	genfileDumpCmd.Flags().Int64Var(&dumpOffset, "offset", 0, "byte offset of the first record")
	genfileDumpCmd.Flags().IntVarP(&dumpLimit, "limit", "n", 0, "maximum records to print (0 = all)")
	genfileCmd.AddCommand(genfileDumpCmd)

	historyCmd.Flags().StringVar(&historyStore, "store", "sqlite", "store kind ("+strings.Join(storage.Kinds, ", ")+")")
	historyCmd.Flags().StringVar(&historyStorePath, "store-path", "genetix.db", "SQLite file or Badger directory")

	rootCmd.AddCommand(runCmd, sampleCmd, genfileCmd, historyCmd)
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
