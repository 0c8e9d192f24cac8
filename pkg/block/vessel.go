package block

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-zerod/internal/consts"
	"github.com/edp1096/toy-zerod/pkg/matrix"
)

// Vessel is one lumped vessel segment: viscous resistance R, wall compliance
// C, blood inertance L and a stenosis coefficient S for the quadratic loss.
// It carries one internal pressure Pc at the compliance node:
//
//	Pin - (R + S*|Qin|)*Qin - Pc        = 0
//	Qin - Qout - C*dPc/dt               = 0
//	Pc - Pout - L*dQout/dt              = 0
type Vessel struct {
	BaseBlock
	R float64
	C float64
	L float64
	S float64
}

func NewVessel(name string, r, c, l, s float64) *Vessel {
	return &Vessel{
		BaseBlock: BaseBlock{BlockName: name},
		R:         r,
		C:         c,
		L:         l,
		S:         s,
	}
}

// PoiseuilleResistance is the fully developed flow resistance of a straight
// segment, 8*mu*length/(pi*radius^4).
func PoiseuilleResistance(length, radius float64) float64 {
	return 8.0 * consts.VISCOSITY * length / (math.Pi * math.Pow(radius, 4))
}

// BloodInertance is the lumped inertance rho*length/(pi*radius^2).
func BloodInertance(length, radius float64) float64 {
	return consts.DENSITY * length / (math.Pi * radius * radius)
}

func (v *Vessel) Kind() string { return "vessel" }

func (v *Vessel) NumEquations() int { return 3 }

func (v *Vessel) InternalVarNames() []string { return []string{"pressure_c"} }

func (v *Vessel) CheckPorts(inlets, outlets int) error {
	if inlets != 1 || outlets != 1 {
		return fmt.Errorf("vessel %s: requires exactly 1 inlet and 1 outlet", v.BlockName)
	}
	return nil
}

func (v *Vessel) Stamp(sys matrix.Stamper, st *Status) error {
	pin, qin, pout, qout, pc := v.Vars[0], v.Vars[1], v.Vars[2], v.Vars[3], v.Vars[4]
	e0, e1, e2 := v.Eqns[0], v.Eqns[1], v.Eqns[2]

	flow := st.At(qin)
	rEff := v.R + v.S*math.Abs(flow)

	// Pin - (R + S*|Qin|)*Qin - Pc = 0
	sys.AddElement(e0, pin, 1)
	sys.AddElement(e0, qin, -(v.R + 2.0*v.S*math.Abs(flow)))
	sys.AddElement(e0, pc, -1)
	sys.AddRHS(e0, -(st.At(pin) - rEff*flow - st.At(pc)))

	// Qin - Qout - C*dPc/dt = 0
	sys.AddElement(e1, qin, 1)
	sys.AddElement(e1, qout, -1)
	sys.AddElement(e1, pc, -v.C*st.YdotCoeff)
	sys.AddRHS(e1, -(flow - st.At(qout) - v.C*st.DotAt(pc)))

	// Pc - Pout - L*dQout/dt = 0
	sys.AddElement(e2, pc, 1)
	sys.AddElement(e2, pout, -1)
	sys.AddElement(e2, qout, -v.L*st.YdotCoeff)
	sys.AddRHS(e2, -(st.At(pc) - st.At(pout) - v.L*st.DotAt(qout)))

	return nil
}
