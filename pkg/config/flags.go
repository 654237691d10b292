package config

import (
	"strings"

	"github.com/limaJavier/civics/pkg/genetic"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags declares one flag per engine parameter and logging option and binds it to v.
// Flag names are the configuration keys with dashes, e.g. --population-size for genetic.population_size.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	defaults := genetic.DefaultParameters()
	flags.Int(flagName("required_hours"), defaults.RequiredHours, "Substitution hours every class must receive")
	flags.Int(flagName("population_size"), defaults.PopulationSize, "Individuals per generation")
	flags.Int(flagName("generations"), defaults.Generations, "Maximum number of generations")
	flags.Int(flagName("patience"), defaults.Patience, "Generations without improvement before stopping")
	flags.Float64(flagName("mutation_rate"), defaults.MutationRate, "Base probability of reassigning each slot")
	flags.Float64(flagName("crossover_rate"), defaults.CrossoverRate, "Probability of crossing two parents instead of cloning one")
	flags.Float64(flagName("elitism_rate"), defaults.ElitismRate, "Base share of the population carried over unchanged")
	flags.Bool(flagName("allow_self_replacement"), defaults.AllowSelfReplacement, "Let homeroom civics teachers take over their own periods")
	flags.Int(flagName("workers"), defaults.Workers, "Concurrent workers, 0 means one per CPU")
	flags.Int(flagName("max_breed_attempts"), defaults.MaxBreedAttempts, "Offspring attempts per generation, 0 means 50 per individual")
	flags.String(flagName("crossover_mode"), string(defaults.CrossoverMode), `Crossover traversal: "parent" or "union"`)
	flags.Int64(flagName("seed"), defaults.Seed, "Random seed, 0 means time-based")
	flags.String("log-level", "info", "Log level")
	flags.String("log-format", "console", `Log format: "console" or "json"`)

	bindings := map[string]string{"log.level": "log-level", "log.format": "log-format"}
	for _, key := range []string{
		"required_hours", "population_size", "generations", "patience", "mutation_rate", "crossover_rate",
		"elitism_rate", "allow_self_replacement", "workers", "max_breed_attempts", "crossover_mode", "seed",
	} {
		bindings["genetic."+key] = flagName(key)
	}

	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
