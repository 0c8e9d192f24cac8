package block

import (
	"fmt"

	"github.com/edp1096/toy-zerod/pkg/matrix"
)

// Junction joins vessel segments at a bifurcation or confluence. It enforces
// conservation of the signed flows and pressure continuity across every
// connected branch. Variable layout follows the wiring order: inlet [P,Q]
// pairs first, then outlet pairs.
type Junction struct {
	BaseBlock
	NumInlets  int
	NumOutlets int
}

func NewJunction(name string) *Junction {
	return &Junction{BaseBlock: BaseBlock{BlockName: name}}
}

func (j *Junction) Kind() string { return "junction" }

func (j *Junction) NumEquations() int { return j.NumInlets + j.NumOutlets }

func (j *Junction) InternalVarNames() []string { return nil }

func (j *Junction) CheckPorts(inlets, outlets int) error {
	if inlets < 1 || outlets < 1 {
		return fmt.Errorf("junction %s: requires at least 1 inlet and 1 outlet", j.BlockName)
	}
	j.NumInlets = inlets
	j.NumOutlets = outlets
	return nil
}

func (j *Junction) Stamp(sys matrix.Stamper, st *Status) error {
	nConn := j.NumInlets + j.NumOutlets

	// Mass: sum(Qin) - sum(Qout) = 0
	e0 := j.Eqns[0]
	balance := 0.0
	for c := 0; c < nConn; c++ {
		q := j.Vars[2*c+1]
		sign := 1.0
		if c >= j.NumInlets {
			sign = -1.0
		}
		sys.AddElement(e0, q, sign)
		balance += sign * st.At(q)
	}
	sys.AddRHS(e0, -balance)

	// Continuity: P of the first inlet equals every other connected pressure.
	p0 := j.Vars[0]
	for c := 1; c < nConn; c++ {
		e := j.Eqns[c]
		p := j.Vars[2*c]
		sys.AddElement(e, p0, 1)
		sys.AddElement(e, p, -1)
		sys.AddRHS(e, -(st.At(p0) - st.At(p)))
	}

	return nil
}
