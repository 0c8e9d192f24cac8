package block

import (
	"fmt"

	"github.com/edp1096/toy-zerod/pkg/matrix"
)

// Coronary is the open-loop coronary outlet boundary. Flow passes the
// arterial resistance Ra into a compliance Ca, the microvascular resistance
// Ram into the intramyocardial compliance Cim, and leaves through the venous
// resistance Rv against the venous pressure Pv. Cim charges against the
// time-varying intramyocardial pressure Pim, which compresses the
// microvasculature during systole. Internals Pa and Pb are the pressures at
// the two compliance nodes:
//
//	P - Ra*Q - Pa                                        = 0
//	Q - Ca*dPa/dt - (Pa - Pb)/Ram                        = 0
//	(Pa - Pb)/Ram - Cim*(dPb/dt - dPim/dt) - (Pb-Pv)/Rv  = 0
type Coronary struct {
	BaseBlock
	Ra  float64
	Ca  float64
	Ram float64
	Cim float64
	Rv  float64
	Pv  float64
	Pim Waveform
}

func NewCoronary(name string, ra, ca, ram, cim, rv, pv float64, pim Waveform) *Coronary {
	return &Coronary{
		BaseBlock: BaseBlock{BlockName: name},
		Ra:        ra,
		Ca:        ca,
		Ram:       ram,
		Cim:       cim,
		Rv:        rv,
		Pv:        pv,
		Pim:       pim,
	}
}

func (c *Coronary) Kind() string { return "coronary" }

func (c *Coronary) NumEquations() int { return 3 }

func (c *Coronary) InternalVarNames() []string { return []string{"pressure_a", "pressure_b"} }

func (c *Coronary) CheckPorts(inlets, outlets int) error {
	if inlets != 1 || outlets != 0 {
		return fmt.Errorf("coronary %s: requires exactly 1 inlet and no outlet", c.BlockName)
	}
	return nil
}

func (c *Coronary) Stamp(sys matrix.Stamper, st *Status) error {
	p, q, pa, pb := c.Vars[0], c.Vars[1], c.Vars[2], c.Vars[3]
	e0, e1, e2 := c.Eqns[0], c.Eqns[1], c.Eqns[2]

	dPim := 0.0
	if !st.Steady {
		dPim = c.Pim.Deriv(st.Time) * st.SourceScale
	}

	// P - Ra*Q - Pa = 0
	sys.AddElement(e0, p, 1)
	sys.AddElement(e0, q, -c.Ra)
	sys.AddElement(e0, pa, -1)
	sys.AddRHS(e0, -(st.At(p) - c.Ra*st.At(q) - st.At(pa)))

	// Q - Ca*dPa/dt - (Pa - Pb)/Ram = 0
	sys.AddElement(e1, q, 1)
	sys.AddElement(e1, pa, -c.Ca*st.YdotCoeff-1.0/c.Ram)
	sys.AddElement(e1, pb, 1.0/c.Ram)
	sys.AddRHS(e1, -(st.At(q) - c.Ca*st.DotAt(pa) - (st.At(pa)-st.At(pb))/c.Ram))

	// (Pa - Pb)/Ram - Cim*(dPb/dt - dPim/dt) - (Pb - Pv)/Rv = 0
	sys.AddElement(e2, pa, 1.0/c.Ram)
	sys.AddElement(e2, pb, -1.0/c.Ram-c.Cim*st.YdotCoeff-1.0/c.Rv)
	sys.AddRHS(e2, -((st.At(pa)-st.At(pb))/c.Ram - c.Cim*(st.DotAt(pb)-dPim) - (st.At(pb)-c.Pv)/c.Rv))

	return nil
}
