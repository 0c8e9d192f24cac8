package block

import (
	"github.com/edp1096/toy-zerod/pkg/matrix"
)

// Block is a lumped circulation element. It owns no nodes; the model wires
// it to shared nodes and assigns its global variable and equation indices.
// Variable order is [P_in, Q_in, ..., P_out, Q_out, ..., internals...].
type Block interface {
	Name() string
	Kind() string
	VarIDs() []int
	EqnIDs() []int
	NumEquations() int
	InternalVarNames() []string
	CheckPorts(inlets, outlets int) error
	AssignDOFs(vars, eqns []int)
	Stamp(sys matrix.Stamper, st *Status) error
}

type BaseBlock struct {
	BlockName string
	Vars      []int
	Eqns      []int
}

func (b *BaseBlock) Name() string  { return b.BlockName }
func (b *BaseBlock) VarIDs() []int { return b.Vars }
func (b *BaseBlock) EqnIDs() []int { return b.Eqns }

func (b *BaseBlock) AssignDOFs(vars, eqns []int) {
	b.Vars = vars
	b.Eqns = eqns
}

// Status carries everything a block needs to stamp its local contribution:
// the evaluation time, the trial solution and its derivative, and the
// Jacobian factor of the integration scheme.
type Status struct {
	Time        float64
	TimeStep    float64
	YdotCoeff   float64   // dJ/dydot weight: alpha_m / (alpha_f * gamma * dt)
	Steady      bool      // drop all time-derivative contributions
	SourceScale float64   // source ramp factor, 1 for a normal run
	Y           []float64 // trial unknowns, 1-based like the matrix
	Ydot        []float64
}

// At returns the trial value of global variable idx.
func (st *Status) At(idx int) float64 { return st.Y[idx] }

// DotAt returns the trial derivative of global variable idx. Steady mode has
// no derivative contributions at all.
func (st *Status) DotAt(idx int) float64 {
	if st.Steady {
		return 0
	}
	return st.Ydot[idx]
}

// sourceValue evaluates a prescribed waveform under the current status:
// frozen at its mean for steady runs, scaled for ramped warm-up.
func sourceValue(w Waveform, st *Status) float64 {
	v := w.Value(st.Time)
	if st.Steady {
		v = w.Mean()
	}
	return v * st.SourceScale
}
