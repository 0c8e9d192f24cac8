package block

import (
	"fmt"

	"github.com/edp1096/toy-zerod/pkg/matrix"
)

type ValveState int

const (
	ValveClosed ValveState = iota
	ValveOpen
)

func (s ValveState) String() string {
	switch s {
	case ValveOpen:
		return "OPEN"
	case ValveClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Valve is a discrete cardiac valve: a near-zero resistance when open and a
// near-infinite one when closed. The state is decided by the transition rule
// in UpdateState once per accepted step; within a step the resistance, and
// with it the Jacobian structure, is fixed.
//
//	Pin - Pout - R(state)*Qin  = 0
//	Qin - Qout                 = 0
//
// OpenPressure and CloseFlow form the anti-chatter hysteresis band: a closed
// valve opens only once the forward gradient exceeds OpenPressure, an open
// valve closes only once the reverse flow exceeds CloseFlow.
type Valve struct {
	BaseBlock
	Ropen        float64
	Rclosed      float64
	OpenPressure float64
	CloseFlow    float64

	state ValveState
}

func NewValve(name string, ropen, rclosed float64) *Valve {
	return &Valve{
		BaseBlock: BaseBlock{BlockName: name},
		Ropen:     ropen,
		Rclosed:   rclosed,
		state:     ValveClosed,
	}
}

func (v *Valve) Kind() string { return "valve" }

func (v *Valve) NumEquations() int { return 2 }

func (v *Valve) InternalVarNames() []string { return nil }

func (v *Valve) CheckPorts(inlets, outlets int) error {
	if inlets != 1 || outlets != 1 {
		return fmt.Errorf("valve %s: requires exactly 1 inlet and 1 outlet", v.BlockName)
	}
	return nil
}

func (v *Valve) State() ValveState { return v.state }

func (v *Valve) SetState(s ValveState) { v.state = s }

func (v *Valve) resistance() float64 {
	if v.state == ValveOpen {
		return v.Ropen
	}
	return v.Rclosed
}

func (v *Valve) Stamp(sys matrix.Stamper, st *Status) error {
	pin, qin, pout, qout := v.Vars[0], v.Vars[1], v.Vars[2], v.Vars[3]
	e0, e1 := v.Eqns[0], v.Eqns[1]
	r := v.resistance()

	// Pin - Pout - R*Qin = 0
	sys.AddElement(e0, pin, 1)
	sys.AddElement(e0, pout, -1)
	sys.AddElement(e0, qin, -r)
	sys.AddRHS(e0, -(st.At(pin) - st.At(pout) - r*st.At(qin)))

	// Qin - Qout = 0
	sys.AddElement(e1, qin, 1)
	sys.AddElement(e1, qout, -1)
	sys.AddRHS(e1, -(st.At(qin) - st.At(qout)))

	return nil
}

// UpdateState applies the transition rule to the committed solution of an
// accepted step. The returned flag reports whether the state changed; the new
// state takes effect with the next step's assembly.
func (v *Valve) UpdateState(y []float64) bool {
	dp := y[v.Vars[0]] - y[v.Vars[2]]
	q := y[v.Vars[1]]

	switch v.state {
	case ValveClosed:
		if dp > v.OpenPressure {
			v.state = ValveOpen
			return true
		}
	case ValveOpen:
		if q < -v.CloseFlow {
			v.state = ValveClosed
			return true
		}
	}
	return false
}
