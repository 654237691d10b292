package genetic

import (
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
)

type CrossoverMode string

const (
	// Only the keys of the first parent are traversed
	CrossoverParent CrossoverMode = "parent"
	// The sorted union of both parents' keys is traversed
	CrossoverUnion CrossoverMode = "union"
)

// Parameters configures one optimisation run
type Parameters struct {
	RequiredHours        int           `mapstructure:"required_hours" validate:"gt=0"`
	PopulationSize       int           `mapstructure:"population_size" validate:"gt=0"`
	Generations          int           `mapstructure:"generations" validate:"gt=0"`
	Patience             int           `mapstructure:"patience" validate:"gt=0"`
	MutationRate         float64       `mapstructure:"mutation_rate" validate:"gte=0,lte=1"`
	CrossoverRate        float64       `mapstructure:"crossover_rate" validate:"gte=0,lte=1"`
	ElitismRate          float64       `mapstructure:"elitism_rate" validate:"gte=0,lte=1"`
	AllowSelfReplacement bool          `mapstructure:"allow_self_replacement"`
	Workers              int           `mapstructure:"workers" validate:"gte=0"`            // 0 means one worker per CPU
	MaxBreedAttempts     int           `mapstructure:"max_breed_attempts" validate:"gte=0"` // 0 means 50 attempts per population member
	CrossoverMode        CrossoverMode `mapstructure:"crossover_mode" validate:"oneof=parent union"`
	Seed                 int64         `mapstructure:"seed"` // 0 means time-based
}

func DefaultParameters() Parameters {
	return Parameters{
		RequiredHours:        30,
		PopulationSize:       500,
		Generations:          400,
		Patience:             20,
		MutationRate:         0.5,
		CrossoverRate:        0.8,
		ElitismRate:          0.01,
		AllowSelfReplacement: false,
		CrossoverMode:        CrossoverParent,
	}
}

var parametersValidator = validator.New()

func (parameters Parameters) Validate() error {
	if err := parametersValidator.Struct(parameters); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func (parameters Parameters) workers() int {
	if parameters.Workers == 0 {
		return runtime.NumCPU()
	}
	return parameters.Workers
}

func (parameters Parameters) maxBreedAttempts() int {
	if parameters.MaxBreedAttempts == 0 {
		return 50 * parameters.PopulationSize
	}
	return parameters.MaxBreedAttempts
}

func (parameters Parameters) baseRates() Rates {
	return Rates{Mutation: parameters.MutationRate, Elitism: parameters.ElitismRate}
}
