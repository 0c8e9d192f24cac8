package analysis

import (
	"github.com/edp1096/toy-zerod/pkg/block"
	"github.com/edp1096/toy-zerod/pkg/matrix"
	"github.com/edp1096/toy-zerod/pkg/model"
)

const numRampSteps = 10

// solveSteady converges state.Y to the steady solution: all derivative
// contributions off, sources frozen at their mean. A direct solve is tried
// first; if it diverges the sources are ramped up from zero, re-solving at
// each level from the previous one.
func solveSteady(m *model.Model, sys *matrix.System, cfg Config, state *State) error {
	try := func(scale float64) (newtonResult, error) {
		st := &block.Status{
			Time:        0,
			TimeStep:    cfg.TimeStep,
			YdotCoeff:   0,
			Steady:      true,
			SourceScale: scale,
			Y:           state.Y,
			Ydot:        state.Ydot,
		}
		return solveNewton(m, sys, st, cfg.MaxIter, cfg.AbsTol, cfg.RelTol, func(delta []float64) {
			for i := 1; i <= m.NumVars(); i++ {
				state.Y[i] += delta[i]
			}
		})
	}

	res, err := try(1.0)
	if err != nil {
		return &SingularError{Step: -1, Time: 0, Err: err}
	}
	if res.Converged {
		return nil
	}

	// Ramp fallback for a bad zero initial guess.
	for i := range state.Y {
		state.Y[i] = 0
	}
	for k := 1; k <= numRampSteps; k++ {
		scale := float64(k) / float64(numRampSteps)
		res, err = try(scale)
		if err != nil {
			return &SingularError{Step: -1, Time: 0, Err: err}
		}
		if !res.Converged {
			return &ConvergenceError{Step: -1, Time: 0, Iterations: res.Iterations, Residual: res.Residual}
		}
	}
	return nil
}

// Steady is the standalone steady-state analysis, used both as a warm-up for
// pulsatile runs and directly for steady test networks.
type Steady struct {
	model *model.Model
	cfg   Config
	sys   *matrix.System
	state *State
}

func NewSteady(m *model.Model, cfg Config) (*Steady, error) {
	if err := m.Finalize(); err != nil {
		return nil, err
	}
	// A pure steady run has no time axis; fill the unused step fields so the
	// shared validation applies.
	if cfg.TimeStep == 0 {
		cfg.TimeStep = 1
	}
	if cfg.NumSteps == 0 {
		cfg.NumSteps = 1
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sys, err := matrix.NewSystem(m.NumVars())
	if err != nil {
		return nil, err
	}
	sys.SetupElements(m.Pattern())

	return &Steady{
		model: m,
		cfg:   cfg,
		sys:   sys,
		state: NewState(m.NumVars()),
	}, nil
}

func (s *Steady) Execute() (*State, error) {
	s.model.ApplyInitial(s.state.Y)
	if err := solveSteady(s.model, s.sys, s.cfg, s.state); err != nil {
		return nil, err
	}
	return s.state, nil
}

func (s *Steady) Destroy() {
	if s.sys != nil {
		s.sys.Destroy()
	}
}
