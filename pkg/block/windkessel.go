package block

import (
	"fmt"

	"github.com/edp1096/toy-zerod/pkg/matrix"
)

// Windkessel is the three-element RCR outlet boundary: proximal resistance
// Rp, compliance C and distal resistance Rd discharging against the distal
// pressure Pd. Internal variable Pc is the pressure at the compliance node:
//
//	P - Rp*Q - Pc                        = 0
//	Q - (Pc - Pd)/Rd - C*dPc/dt          = 0
type Windkessel struct {
	BaseBlock
	Rp float64
	C  float64
	Rd float64
	Pd Waveform
}

func NewWindkessel(name string, rp, c, rd float64, pd Waveform) *Windkessel {
	return &Windkessel{
		BaseBlock: BaseBlock{BlockName: name},
		Rp:        rp,
		C:         c,
		Rd:        rd,
		Pd:        pd,
	}
}

func (w *Windkessel) Kind() string { return "rcr" }

func (w *Windkessel) NumEquations() int { return 2 }

func (w *Windkessel) InternalVarNames() []string { return []string{"pressure_c"} }

func (w *Windkessel) CheckPorts(inlets, outlets int) error {
	if inlets != 1 || outlets != 0 {
		return fmt.Errorf("windkessel %s: requires exactly 1 inlet and no outlet", w.BlockName)
	}
	return nil
}

func (w *Windkessel) Stamp(sys matrix.Stamper, st *Status) error {
	p, q, pc := w.Vars[0], w.Vars[1], w.Vars[2]
	e0, e1 := w.Eqns[0], w.Eqns[1]
	pd := sourceValue(w.Pd, st)

	// P - Rp*Q - Pc = 0
	sys.AddElement(e0, p, 1)
	sys.AddElement(e0, q, -w.Rp)
	sys.AddElement(e0, pc, -1)
	sys.AddRHS(e0, -(st.At(p) - w.Rp*st.At(q) - st.At(pc)))

	// Q - (Pc - Pd)/Rd - C*dPc/dt = 0
	sys.AddElement(e1, q, 1)
	sys.AddElement(e1, pc, -1.0/w.Rd-w.C*st.YdotCoeff)
	sys.AddRHS(e1, -(st.At(q) - (st.At(pc)-pd)/w.Rd - w.C*st.DotAt(pc)))

	return nil
}
