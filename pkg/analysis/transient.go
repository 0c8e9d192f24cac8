package analysis

import (
	"errors"
	"time"

	"github.com/edp1096/toy-zerod/pkg/block"
	"github.com/edp1096/toy-zerod/pkg/logging"
	"github.com/edp1096/toy-zerod/pkg/matrix"
	"github.com/edp1096/toy-zerod/pkg/metrics"
	"github.com/edp1096/toy-zerod/pkg/model"
)

// Transient advances the model through a fixed-step pulsatile simulation.
// Stepping is strictly sequential: a step is accepted only after its Newton
// loop converges, then the valve states are re-evaluated for the next step
// and the accepted solution is recorded.
type Transient struct {
	// Optional collaborators, set before Run.
	Logger   logging.Logger
	Metrics  *metrics.Registry
	Segments []string // segment names to record; empty records every vessel
	OnStep   func(step int, time float64, state *State)

	model    *model.Model
	cfg      Config
	scheme   scheme
	sys      *matrix.System
	state    *State
	recorder *recorder

	// Newton trial buffers, reused across steps.
	yAF  []float64
	ydAM []float64
}

func NewTransient(m *model.Model, cfg Config) (*Transient, error) {
	if err := m.Finalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sys, err := matrix.NewSystem(m.NumVars())
	if err != nil {
		return nil, err
	}
	sys.SetupElements(m.Pattern())

	return &Transient{
		model:  m,
		cfg:    cfg,
		scheme: newScheme(cfg.RhoInf),
		sys:    sys,
		state:  NewState(m.NumVars()),
		yAF:    make([]float64, m.NumVars()+1),
		ydAM:   make([]float64, m.NumVars()+1),
	}, nil
}

func (tr *Transient) State() *State { return tr.state }

// Run executes the simulation and returns the recorded series. Any failure
// aborts the whole run; there is no partial result.
func (tr *Transient) Run() (*TimeSeries, error) {
	if tr.Logger == nil {
		tr.Logger = logging.NewNopLogger()
	}
	rec, err := newRecorder(tr.model, tr.Segments)
	if err != nil {
		return nil, err
	}
	tr.recorder = rec

	tr.model.ApplyInitial(tr.state.Y)
	if tr.cfg.SteadyInit {
		if err := solveSteady(tr.model, tr.sys, tr.cfg, tr.state); err != nil {
			return nil, err
		}
		tr.Logger.Info("steady warm-up converged")
	}

	tr.Logger.Info("transient run starting",
		logging.Int("steps", tr.cfg.NumSteps),
		logging.Float64("time_step", tr.cfg.TimeStep),
		logging.Int("unknowns", tr.model.NumVars()),
	)

	start := time.Now()
	totalIters := 0
	tr.recorder.Record(tr.state)

	for n := 0; n < tr.cfg.NumSteps; n++ {
		tn := float64(n) * tr.cfg.TimeStep

		iters, err := tr.step(n, tn)
		totalIters += iters
		if err != nil {
			tr.Logger.Error("step failed", logging.Int("step", n), logging.Err(err))
			if errors.Is(err, ErrConvergence) {
				tr.Metrics.RecordConvergenceFailure()
			}
			return nil, err
		}

		transitions := tr.model.UpdateValves(tr.state.Y)
		if transitions > 0 {
			tr.Metrics.RecordValveTransitions(transitions)
			tr.Logger.Debug("valve transition",
				logging.Int("step", n), logging.Int("count", transitions))
		}

		tr.recorder.Record(tr.state)
		if tr.OnStep != nil {
			tr.OnStep(n, tr.state.Time, tr.state)
		}
	}

	tr.Logger.Info("transient run finished",
		logging.Int("steps", tr.cfg.NumSteps),
		logging.Int("newton_iterations", totalIters),
		logging.Duration("elapsed", time.Since(start)),
	)

	return tr.recorder.Series(), nil
}

// step advances the state from tn by one time step using the
// generalized-alpha corrector around the Newton loop.
func (tr *Transient) step(stepIdx int, tn float64) (int, error) {
	n := tr.model.NumVars()
	dt := tr.cfg.TimeStep
	sc := tr.scheme
	coeff := sc.ydotCoeff(dt)
	stepStart := time.Now()

	y, yd := tr.state.Y, tr.state.Ydot
	for i := 1; i <= n; i++ {
		ydPred := yd[i] * (sc.gamma - 1.0) / sc.gamma
		tr.yAF[i] = y[i]
		tr.ydAM[i] = yd[i] + sc.alphaM*(ydPred-yd[i])
	}

	st := &block.Status{
		Time:        tn + sc.alphaF*dt,
		TimeStep:    dt,
		YdotCoeff:   coeff,
		SourceScale: 1,
		Y:           tr.yAF,
		Ydot:        tr.ydAM,
	}

	res, err := solveNewton(tr.model, tr.sys, st, tr.cfg.MaxIter, tr.cfg.AbsTol, tr.cfg.RelTol,
		func(delta []float64) {
			for i := 1; i <= n; i++ {
				tr.yAF[i] += delta[i]
				tr.ydAM[i] += coeff * delta[i]
			}
		})
	if err != nil {
		return res.Iterations, &SingularError{Step: stepIdx, Time: tn, Err: err}
	}
	if !res.Converged {
		return res.Iterations, &ConvergenceError{
			Step: stepIdx, Time: tn, Iterations: res.Iterations, Residual: res.Residual,
		}
	}

	// Shift the converged intermediate point back to t(n+1) and commit.
	for i := 1; i <= n; i++ {
		y[i] += (tr.yAF[i] - y[i]) / sc.alphaF
		yd[i] += (tr.ydAM[i] - yd[i]) / sc.alphaM
	}
	tr.state.Time = tn + dt

	tr.Metrics.RecordStep(res.Iterations, time.Since(stepStart))
	return res.Iterations, nil
}

func (tr *Transient) Destroy() {
	if tr.sys != nil {
		tr.sys.Destroy()
	}
}
