package analysis

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Config holds the solver-wide simulation parameters. Tolerances and the
// iteration cap apply to every step; they are never tuned per block.
type Config struct {
	TimeStep   float64 `validate:"gt=0"`
	NumSteps   int     `validate:"gt=0"`
	CycleTime  float64 `validate:"gte=0"` // 0 for aperiodic runs
	RhoInf     float64 `validate:"gte=0,lte=1"`
	MaxIter    int     `validate:"gt=0"`
	AbsTol     float64 `validate:"gt=0"`
	RelTol     float64 `validate:"gte=0"` // 0 disables the relative criterion
	SteadyInit bool
}

// DefaultConfig returns the solver defaults; TimeStep and NumSteps must
// still be set by the caller.
func DefaultConfig() Config {
	return Config{
		RhoInf:  0.1,
		MaxIter: 30,
		AbsTol:  1e-8,
	}
}

var validate = validator.New()

// Validate checks the parameter ranges and their consistency. For periodic
// simulations the step size must divide the cardiac cycle length evenly.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &ConfigError{Reason: err.Error()}
	}

	if c.CycleTime > 0 {
		stepsPerCycle := c.CycleTime / c.TimeStep
		if math.Abs(stepsPerCycle-math.Round(stepsPerCycle)) > 1e-9*stepsPerCycle {
			return &ConfigError{Reason: fmt.Sprintf(
				"time step %g does not divide cycle length %g evenly", c.TimeStep, c.CycleTime)}
		}
	}
	return nil
}

// StepsPerCycle is the number of steps in one cardiac cycle, 0 for aperiodic
// configurations.
func (c Config) StepsPerCycle() int {
	if c.CycleTime <= 0 {
		return 0
	}
	return int(math.Round(c.CycleTime / c.TimeStep))
}
