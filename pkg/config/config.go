package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/limaJavier/civics/pkg/genetic"
	"github.com/limaJavier/civics/pkg/logger"
	"github.com/spf13/viper"
)

const EnvPrefix = "CIVICS"

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Genetic genetic.Parameters `mapstructure:"genetic"`
	Log     LogConfig          `mapstructure:"log"`
}

// New returns a viper instance holding the defaults and reading CIVICS_* variables, .env included.
// Nested keys map to variables by replacing dots with underscores, e.g. CIVICS_GENETIC_POPULATION_SIZE.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads the optional configuration file into v and decodes the result.
// Flags bound to v take precedence over the environment, which takes precedence over the file.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cannot read configuration file %v: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("cannot decode configuration: %w", err)
	}
	if err := cfg.Genetic.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := genetic.DefaultParameters()
	v.SetDefault("genetic.required_hours", defaults.RequiredHours)
	v.SetDefault("genetic.population_size", defaults.PopulationSize)
	v.SetDefault("genetic.generations", defaults.Generations)
	v.SetDefault("genetic.patience", defaults.Patience)
	v.SetDefault("genetic.mutation_rate", defaults.MutationRate)
	v.SetDefault("genetic.crossover_rate", defaults.CrossoverRate)
	v.SetDefault("genetic.elitism_rate", defaults.ElitismRate)
	v.SetDefault("genetic.allow_self_replacement", defaults.AllowSelfReplacement)
	v.SetDefault("genetic.workers", defaults.Workers)
	v.SetDefault("genetic.max_breed_attempts", defaults.MaxBreedAttempts)
	v.SetDefault("genetic.crossover_mode", string(defaults.CrossoverMode))
	v.SetDefault("genetic.seed", defaults.Seed)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatConsole)
}
