package analysis

import (
	"github.com/edp1096/toy-zerod/pkg/block"
	"github.com/edp1096/toy-zerod/pkg/matrix"
	"github.com/edp1096/toy-zerod/pkg/model"
)

// scheme holds the generalized-alpha coefficients for a first-order system.
// The spectral radius rhoInf in [0,1] sets the numerical damping of
// high-frequency content: 0 is maximally dissipative, 1 undamped.
type scheme struct {
	alphaM float64
	alphaF float64
	gamma  float64
}

func newScheme(rhoInf float64) scheme {
	alphaM := 0.5 * (3.0 - rhoInf) / (1.0 + rhoInf)
	alphaF := 1.0 / (1.0 + rhoInf)
	return scheme{
		alphaM: alphaM,
		alphaF: alphaF,
		gamma:  0.5 + alphaM - alphaF,
	}
}

// ydotCoeff is the Jacobian weight of the derivative contributions,
// d(ydot)/dy of the corrector update.
func (s scheme) ydotCoeff(dt float64) float64 {
	return s.alphaM / (s.alphaF * s.gamma * dt)
}

// newtonResult is the structured outcome of one Newton loop. Divergence is a
// normal return, not an error; callers decide how to surface it.
type newtonResult struct {
	Converged  bool
	Iterations int
	Residual   float64
}

// solveNewton runs full-step Newton-Raphson on the assembled system:
// assemble J and -F at the trial point, solve J*delta = -F, apply the update.
// Convergence is the max-abs residual falling under the absolute tolerance,
// or under relTol times the first iterate's residual when relTol is set.
func solveNewton(m *model.Model, sys *matrix.System, st *block.Status,
	maxIter int, absTol, relTol float64, update func(delta []float64)) (newtonResult, error) {

	norm0 := 0.0
	norm := 0.0

	for iter := 0; iter < maxIter; iter++ {
		sys.Clear()
		if err := m.Stamp(sys, st); err != nil {
			return newtonResult{Iterations: iter, Residual: norm}, err
		}

		norm = sys.ResidualNorm()
		if iter == 0 {
			norm0 = norm
		}
		if norm < absTol || (relTol > 0 && norm < relTol*norm0) {
			return newtonResult{Converged: true, Iterations: iter, Residual: norm}, nil
		}

		if err := sys.Solve(); err != nil {
			return newtonResult{Iterations: iter, Residual: norm}, err
		}
		update(sys.Solution())
	}

	return newtonResult{Iterations: maxIter, Residual: norm}, nil
}
