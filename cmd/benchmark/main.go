package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/civics/pkg/config"
	"github.com/limaJavier/civics/pkg/genetic"
	"github.com/limaJavier/civics/pkg/logger"
	"github.com/limaJavier/civics/pkg/model"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const resultsFile = "benchmark_results.csv"

type benchmarkOptions struct {
	input          string
	start          string
	end            string
	out            string
	repetitions    int
	populations    []int
	mutationRates  []float64
	crossoverModes []string
}

// BenchmarkCase is one point of the parameter grid
type BenchmarkCase struct {
	PopulationSize int
	MutationRate   float64
	CrossoverMode  genetic.CrossoverMode
}

type BenchmarkResult struct {
	Input          string  `csv:"Input"`
	Classes        int     `csv:"Classes"`
	Teachers       int     `csv:"Teachers"`
	Slots          int     `csv:"Slots"`
	PopulationSize int     `csv:"PopulationSize"`
	MutationRate   float64 `csv:"MutationRate"`
	CrossoverMode  string  `csv:"CrossoverMode"`
	Repetition     int     `csv:"Repetition"`
	Duration       int64   `csv:"Duration(ms)"`
	Generations    int     `csv:"Generations"`
	EarlyStop      bool    `csv:"EarlyStop"`
	Fitness        float64 `csv:"Fitness"`
	Result         string  `csv:"Result"`
}

func main() {
	if err := newBenchmarkCommand(config.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newBenchmarkCommand(v *viper.Viper) *cobra.Command {
	options := benchmarkOptions{}
	command := &cobra.Command{
		Use:          "benchmark",
		Short:        "Run the search over a grid of parameters and write durations and fitness values as CSV",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, _ []string) error {
			return benchmark(command, v, options)
		},
	}

	flags := command.Flags()
	flags.StringVar(&options.input, "input", "", "JSON or YAML input file, or directory holding the CSV input files")
	flags.StringVar(&options.start, "start", "", "First day of the term (dd/mm/yyyy), CSV input only")
	flags.StringVar(&options.end, "end", "", "Last day of the term (dd/mm/yyyy), CSV input only")
	flags.StringVar(&options.out, "results", resultsFile, "CSV file where results are written")
	flags.IntVar(&options.repetitions, "repetitions", 1, "Runs per grid point")
	flags.IntSliceVar(&options.populations, "populations", []int{100, 300, 500}, "Population sizes to try")
	flags.Float64SliceVar(&options.mutationRates, "mutation-rates", []float64{0.1, 0.3, 0.5}, "Base mutation rates to try")
	flags.StringSliceVar(&options.crossoverModes, "crossover-modes", []string{string(genetic.CrossoverParent), string(genetic.CrossoverUnion)}, "Crossover modes to try")
	_ = command.MarkFlagRequired("input")
	cobra.CheckErr(config.BindFlags(v, flags))

	return command
}

func benchmark(command *cobra.Command, v *viper.Viper, options benchmarkOptions) error {
	cfg, err := config.Load(v, "")
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

	cases := getCases(options.populations, options.mutationRates, lo.Map(options.crossoverModes, func(mode string, _ int) genetic.CrossoverMode {
		return genetic.CrossoverMode(mode)
	}))
	results := make([]BenchmarkResult, 0, len(cases)*options.repetitions)

	for _, benchmarkCase := range cases {
		for repetition := 1; repetition <= options.repetitions; repetition++ {
			fmt.Fprintf(command.OutOrStdout(), "Benchmarking population %v, mutation rate %v, crossover \"%v\", repetition %v\n",
				benchmarkCase.PopulationSize, benchmarkCase.MutationRate, benchmarkCase.CrossoverMode, repetition)

			parameters := benchmarkCase.apply(cfg.Genetic)
			if parameters.Seed != 0 {
				parameters.Seed += int64(repetition - 1)
			}

			result, err := measure(catalog, parameters, log)
			if err != nil {
				return err
			}
			result.Input = options.input
			result.Classes = len(input.Classes)
			result.Teachers = len(input.Teachers)
			result.Slots = catalog.Len()
			result.Repetition = repetition
			results = append(results, result)
		}
	}

	return toCsv(options.out, results)
}

func getCases(populations []int, mutationRates []float64, modes []genetic.CrossoverMode) []BenchmarkCase {
	cases := make([]BenchmarkCase, 0, len(populations)*len(mutationRates)*len(modes))
	for _, population := range populations {
		for _, mutationRate := range mutationRates {
			for _, mode := range modes {
				cases = append(cases, BenchmarkCase{
					PopulationSize: population,
					MutationRate:   mutationRate,
					CrossoverMode:  mode,
				})
			}
		}
	}
	return cases
}

func (benchmarkCase BenchmarkCase) apply(parameters genetic.Parameters) genetic.Parameters {
	parameters.PopulationSize = benchmarkCase.PopulationSize
	parameters.MutationRate = benchmarkCase.MutationRate
	parameters.CrossoverMode = benchmarkCase.CrossoverMode
	return parameters
}

// measure runs the search once. An infeasible catalog is a benchmark outcome, not a failure.
func measure(catalog *model.Catalog, parameters genetic.Parameters, log *zap.Logger) (BenchmarkResult, error) {
	result := BenchmarkResult{
		PopulationSize: parameters.PopulationSize,
		MutationRate:   parameters.MutationRate,
		CrossoverMode:  string(parameters.CrossoverMode),
	}

	engine, err := genetic.NewEngine(catalog, parameters, genetic.WithLogger(log))
	if err != nil {
		return result, err
	}

	start := time.Now()
	outcome, err := engine.Run()
	result.Duration = time.Since(start).Milliseconds()

	switch {
	case err == nil:
		result.Generations = outcome.Generations
		result.EarlyStop = outcome.EarlyStop
		result.Fitness = outcome.Fitness
		result.Result = "solved"
	case errors.Is(err, genetic.ErrNoFeasiblePopulation):
		result.Result = "infeasible"
		log.Warn("benchmark run found no feasible population", zap.Error(err))
	default:
		return result, err
	}
	return result, nil
}

func toCsv(path string, results []BenchmarkResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		return fmt.Errorf("cannot write CSV records: %w", err)
	}
	return nil
}
