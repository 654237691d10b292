package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/limaJavier/civics/pkg/config"
	"github.com/limaJavier/civics/pkg/genetic"
	"github.com/limaJavier/civics/pkg/logger"
	"github.com/limaJavier/civics/pkg/metrics"
	"github.com/limaJavier/civics/pkg/model"
	"github.com/limaJavier/civics/pkg/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type generateOptions struct {
	configFile  string
	input       string
	start       string
	end         string
	out         string
	pdf         bool
	snapshots   bool
	metricsAddr string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "civics",
		Short:        "Assign civics substitute teachers to class periods over a school term",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCommand(config.New()))
	return root
}

func newGenerateCommand(v *viper.Viper) *cobra.Command {
	options := generateOptions{}
	command := &cobra.Command{
		Use:   "generate",
		Short: "Search a substitution calendar and write it with its loss statistics",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return generate(command, v, options)
		},
	}

	flags := command.Flags()
	flags.StringVar(&options.configFile, "config", "", "Configuration file (yaml, json or toml)")
	flags.StringVar(&options.input, "input", "", "JSON or YAML input file, or directory holding the CSV input files")
	flags.StringVar(&options.start, "start", "", "First day of the term (dd/mm/yyyy), CSV input only")
	flags.StringVar(&options.end, "end", "", "Last day of the term (dd/mm/yyyy), CSV input only")
	flags.StringVar(&options.out, "out", "output", "Directory where results are written")
	flags.BoolVar(&options.pdf, "pdf", false, "Also render the calendar as a PDF")
	flags.BoolVar(&options.snapshots, "snapshots", false, "Write the best calendar of every generation into generation_N directories")
	flags.StringVar(&options.metricsAddr, "metrics-addr", "", "Address serving Prometheus metrics during the run, e.g. :9090")
	_ = command.MarkFlagRequired("input")
	cobra.CheckErr(config.BindFlags(v, flags))

	return command
}

func generate(command *cobra.Command, v *viper.Viper, options generateOptions) error {
	cfg, err := config.Load(v, options.configFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("cannot build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	input, err := model.LoadInput(options.input, options.start, options.end)
	if err != nil {
		return fmt.Errorf("cannot parse input: %w", err)
	}
	catalog := model.NewCatalog(input)
	log.Info("catalog built",
		zap.Int("classes", len(input.Classes)),
		zap.Int("teachers", len(input.Teachers)),
		zap.Int("schoolDays", len(input.SchoolDays)),
		zap.Int("slots", catalog.Len()),
	)

	engineOptions := []genetic.Option{genetic.WithLogger(log)}

	if options.metricsAddr != "" {
		registry := prometheus.NewRegistry()
		observer, err := metrics.NewObserver(registry)
		if err != nil {
			return fmt.Errorf("cannot register metrics: %w", err)
		}
		engineOptions = append(engineOptions, genetic.WithObserver(observer))

		server := serveMetrics(options.metricsAddr, registry, log)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}()
	}

	var snapshots *report.SnapshotObserver
	if options.snapshots {
		snapshots = report.NewSnapshotObserver(options.out, catalog, log)
		engineOptions = append(engineOptions, genetic.WithObserver(snapshots))
	}

	engine, err := genetic.NewEngine(catalog, cfg.Genetic, engineOptions...)
	if err != nil {
		return err
	}
	result, err := engine.Run()
	if err != nil {
		return fmt.Errorf("an error occurred during calendar construction: %w", err)
	}
	if snapshots != nil && snapshots.Err() != nil {
		log.Warn("some generation snapshots were not written", zap.Error(snapshots.Err()))
	}

	if err := report.WriteResults(options.out, catalog, result.Best); err != nil {
		return err
	}
	if options.pdf {
		if err := report.WritePDF(filepath.Join(options.out, report.PdfFile), catalog, result.Best); err != nil {
			return err
		}
	}

	out := command.OutOrStdout()
	fmt.Fprintf(out, "Generations: %v\n", result.Generations)
	fmt.Fprintf(out, "Early stop: %v\n", result.EarlyStop)
	fmt.Fprintf(out, "Fitness: %.4f\n", result.Fitness)
	return nil
}

func serveMetrics(addr string, registry *prometheus.Registry, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return server
}
