package block

import (
	"fmt"

	"github.com/edp1096/toy-zerod/pkg/matrix"
)

// Chamber is a cardiac chamber with a time-varying elastance and an outflow
// inertance. Internal variable V is the chamber volume:
//
//	Pin - E(t)*(V - Vrest)     = 0
//	dV/dt - Qin + Qout         = 0
//	Pin - Pout - L*dQout/dt    = 0
//
// with E(t) = Emin + (Emax - Emin)*a(t) for the activation a(t).
type Chamber struct {
	BaseBlock
	Emax       float64
	Emin       float64
	Vrest      float64
	L          float64
	Activation Waveform
}

func NewChamber(name string, emax, emin, vrest, l float64, activation Waveform) *Chamber {
	return &Chamber{
		BaseBlock:  BaseBlock{BlockName: name},
		Emax:       emax,
		Emin:       emin,
		Vrest:      vrest,
		L:          l,
		Activation: activation,
	}
}

func (c *Chamber) Kind() string { return "chamber" }

func (c *Chamber) NumEquations() int { return 3 }

func (c *Chamber) InternalVarNames() []string { return []string{"volume"} }

func (c *Chamber) CheckPorts(inlets, outlets int) error {
	if inlets != 1 || outlets != 1 {
		return fmt.Errorf("chamber %s: requires exactly 1 inlet and 1 outlet", c.BlockName)
	}
	return nil
}

// Elastance at time t, frozen at the mean activation for steady runs.
func (c *Chamber) Elastance(st *Status) float64 {
	act := c.Activation.Value(st.Time)
	if st.Steady {
		act = c.Activation.Mean()
	}
	return c.Emin + (c.Emax-c.Emin)*act
}

func (c *Chamber) Stamp(sys matrix.Stamper, st *Status) error {
	pin, qin, pout, qout, vol := c.Vars[0], c.Vars[1], c.Vars[2], c.Vars[3], c.Vars[4]
	e0, e1, e2 := c.Eqns[0], c.Eqns[1], c.Eqns[2]
	elast := c.Elastance(st)

	// Pin - E(t)*(V - Vrest) = 0
	sys.AddElement(e0, pin, 1)
	sys.AddElement(e0, vol, -elast)
	sys.AddRHS(e0, -(st.At(pin) - elast*(st.At(vol)-c.Vrest)))

	// dV/dt - Qin + Qout = 0
	sys.AddElement(e1, vol, st.YdotCoeff)
	sys.AddElement(e1, qin, -1)
	sys.AddElement(e1, qout, 1)
	sys.AddRHS(e1, -(st.DotAt(vol) - st.At(qin) + st.At(qout)))

	// Pin - Pout - L*dQout/dt = 0
	sys.AddElement(e2, pin, 1)
	sys.AddElement(e2, pout, -1)
	sys.AddElement(e2, qout, -c.L*st.YdotCoeff)
	sys.AddRHS(e2, -(st.At(pin) - st.At(pout) - c.L*st.DotAt(qout)))

	return nil
}
