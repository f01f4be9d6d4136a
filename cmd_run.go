package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/genetix/pkg/engine"
	"github.com/wildfunctions/genetix/pkg/genfile"
	"github.com/wildfunctions/genetix/pkg/sample"
	"github.com/wildfunctions/genetix/pkg/storage"
)

// configFlags maps run flags onto the config fields they override.
var configFlags = map[string]func(dst *engine.Config, src engine.Config){
	"model":               func(d *engine.Config, s engine.Config) { d.Model = s.Model },
	"pool":                func(d *engine.Config, s engine.Config) { d.Pool = s.Pool },
	"population":          func(d *engine.Config, s engine.Config) { d.GenerationSize = s.GenerationSize },
	"generations":         func(d *engine.Config, s engine.Config) { d.GenerationLimit = s.GenerationLimit },
	"mutation":            func(d *engine.Config, s engine.Config) { d.MutationProbability = s.MutationProbability },
	"crossing":            func(d *engine.Config, s engine.Config) { d.CrossingProbability = s.CrossingProbability },
	"reproduction":        func(d *engine.Config, s engine.Config) { d.ReproductionProbability = s.ReproductionProbability },
	"selection":           func(d *engine.Config, s engine.Config) { d.SelectionProbability = s.SelectionProbability },
	"min-length":          func(d *engine.Config, s engine.Config) { d.MinFunctionLength = s.MinFunctionLength },
	"max-length":          func(d *engine.Config, s engine.Config) { d.MaxFunctionLength = s.MaxFunctionLength },
	"arbitrary-mutations": func(d *engine.Config, s engine.Config) { d.ArbitraryMutations = s.ArbitraryMutations },
	"arbitrary-crossings": func(d *engine.Config, s engine.Config) { d.ArbitraryCrossings = s.ArbitraryCrossings },
	"epsilon":             func(d *engine.Config, s engine.Config) { d.Epsilon = s.Epsilon },
	"seed":                func(d *engine.Config, s engine.Config) { d.Seed = s.Seed },
	"workers":             func(d *engine.Config, s engine.Config) { d.Workers = s.Workers },
	"cache":               func(d *engine.Config, s engine.Config) { d.CacheSize = s.CacheSize },
	"progress-interval":   func(d *engine.Config, s engine.Config) { d.ProgressInterval = s.ProgressInterval },
}

// resolveConfig layers defaults, the config file, GENETIX_* variables and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, path string, flagged engine.Config) (engine.Config, error) {
	cfg, err := engine.LoadConfig(path)
	if err != nil {
		return engine.Config{}, err
	}
	for name, apply := range configFlags {
		if cmd.Flags().Changed(name) {
			apply(&cfg, flagged)
		}
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

func loadSample() (sample.Sample, error) {
	switch {
	case dataPath != "" && formula != "":
		return sample.Sample{}, errors.New("use either --data or --formula, not both")
	case dataPath != "":
		f, err := os.Open(dataPath)
		if err != nil {
			return sample.Sample{}, err
		}
		defer f.Close()
		return sample.ReadCSV(f)
	case formula != "":
		return sample.FromFormula(formula, sampleFrom, sampleTo, samplePts)
	}
	return sample.Sample{}, errors.New("no sample: pass --data or --formula")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, configPath, runCfg)
	if err != nil {
		return err
	}
	s, err := loadSample()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	opts := []engine.Option{engine.WithLogger(logger)}

	if archivePath != "" {
		archive, err := genfile.Open(archivePath, genfile.WriteOnly)
		if err != nil {
			return err
		}
		defer archive.Close()
		opts = append(opts, engine.WithArchive(archive))
	}

	if storeKind != "" {
		store, err := storage.NewStore(storeKind, storePath, logger)
		if err != nil {
			return err
		}
		if err := store.Init(ctx); err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, engine.WithStore(store))
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, engine.WithMetrics(engine.NewMetrics(reg)))
		srv := serveMetrics(metricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	e, err := engine.New(cfg, s, opts...)
	if err != nil {
		return err
	}
	if err := e.Start(ctx); err != nil {
		return err
	}
	for ev := range e.Events() {
		if verbose && !ev.Terminal {
			engine.WriteTextProgress(os.Stderr, ev.Progress)
		}
	}
	state, runErr := e.Wait()

	report, err := e.Report(topK, derivative)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		if err := engine.WriteJSONFinal(os.Stdout, report); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	default:
		engine.WriteTextFinal(os.Stdout, report)
	}
	if state == engine.Failed {
		return runErr
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return srv
}
