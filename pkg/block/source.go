package block

import (
	"fmt"

	"github.com/edp1096/toy-zerod/pkg/matrix"
)

// FlowSource prescribes the flow at its single node to a waveform. Wired as
// the upstream side of an inlet node or the downstream side of an outlet.
type FlowSource struct {
	BaseBlock
	Flow Waveform
}

func NewFlowSource(name string, flow Waveform) *FlowSource {
	return &FlowSource{BaseBlock: BaseBlock{BlockName: name}, Flow: flow}
}

func (f *FlowSource) Kind() string { return "flow" }

func (f *FlowSource) NumEquations() int { return 1 }

func (f *FlowSource) InternalVarNames() []string { return nil }

func (f *FlowSource) CheckPorts(inlets, outlets int) error {
	if inlets+outlets != 1 {
		return fmt.Errorf("flow source %s: requires exactly 1 connection", f.BlockName)
	}
	return nil
}

func (f *FlowSource) Stamp(sys matrix.Stamper, st *Status) error {
	q := f.Vars[1]
	e0 := f.Eqns[0]

	sys.AddElement(e0, q, 1)
	sys.AddRHS(e0, -(st.At(q) - sourceValue(f.Flow, st)))

	return nil
}

// PressureSource prescribes the pressure at its single node to a waveform.
type PressureSource struct {
	BaseBlock
	Pressure Waveform
}

func NewPressureSource(name string, pressure Waveform) *PressureSource {
	return &PressureSource{BaseBlock: BaseBlock{BlockName: name}, Pressure: pressure}
}

func (p *PressureSource) Kind() string { return "pressure" }

func (p *PressureSource) NumEquations() int { return 1 }

func (p *PressureSource) InternalVarNames() []string { return nil }

func (p *PressureSource) CheckPorts(inlets, outlets int) error {
	if inlets+outlets != 1 {
		return fmt.Errorf("pressure source %s: requires exactly 1 connection", p.BlockName)
	}
	return nil
}

func (p *PressureSource) Stamp(sys matrix.Stamper, st *Status) error {
	pres := p.Vars[0]
	e0 := p.Eqns[0]

	sys.AddElement(e0, pres, 1)
	sys.AddRHS(e0, -(st.At(pres) - sourceValue(p.Pressure, st)))

	return nil
}
