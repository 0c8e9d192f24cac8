package analysis

import (
	"fmt"

	"github.com/edp1096/toy-zerod/pkg/model"
)

// Segment is the recorded boundary history of one vessel segment, one entry
// per accepted step. The step argument of the accessors supports negative
// indexing from the end, so -1 is the final step.
type Segment struct {
	Name        string
	PressureIn  []float64
	PressureOut []float64
	FlowIn      []float64
	FlowOut     []float64
}

func wrapStep(step, n int) int {
	if step < 0 {
		step += n
	}
	return step
}

func (s *Segment) PressureInAt(step int) float64 {
	return s.PressureIn[wrapStep(step, len(s.PressureIn))]
}

func (s *Segment) PressureOutAt(step int) float64 {
	return s.PressureOut[wrapStep(step, len(s.PressureOut))]
}

func (s *Segment) FlowInAt(step int) float64 {
	return s.FlowIn[wrapStep(step, len(s.FlowIn))]
}

func (s *Segment) FlowOutAt(step int) float64 {
	return s.FlowOut[wrapStep(step, len(s.FlowOut))]
}

// TimeSeries is the sole externally observable artifact of a run: per
// recorded segment and per accepted step, the boundary pressures and flows.
type TimeSeries struct {
	Time     []float64
	names    []string
	segments map[string]*Segment
}

func (ts *TimeSeries) Names() []string { return ts.names }

func (ts *TimeSeries) Len() int { return len(ts.Time) }

func (ts *TimeSeries) Segment(name string) (*Segment, bool) {
	s, ok := ts.segments[name]
	return s, ok
}

func (ts *TimeSeries) TimeAt(step int) float64 {
	return ts.Time[wrapStep(step, len(ts.Time))]
}

// segmentDOFs caches the four boundary variable indices of a recorded block.
type segmentDOFs struct {
	pin, qin, pout, qout int
}

type recorder struct {
	series *TimeSeries
	dofs   []segmentDOFs
}

// newRecorder resolves the segments to record. An empty selection records
// every vessel block; named selections may address any two-port block.
func newRecorder(m *model.Model, names []string) (*recorder, error) {
	rec := &recorder{
		series: &TimeSeries{segments: make(map[string]*Segment)},
	}

	add := func(name string, vars []int) {
		rec.series.names = append(rec.series.names, name)
		rec.series.segments[name] = &Segment{Name: name}
		rec.dofs = append(rec.dofs, segmentDOFs{pin: vars[0], qin: vars[1], pout: vars[2], qout: vars[3]})
	}

	if len(names) == 0 {
		for _, b := range m.Blocks() {
			if b.Kind() == "vessel" {
				add(b.Name(), b.VarIDs())
			}
		}
		return rec, nil
	}

	for _, name := range names {
		found := false
		for _, b := range m.Blocks() {
			if b.Name() != name {
				continue
			}
			if len(b.VarIDs()) < 4 {
				return nil, fmt.Errorf("%w: %s is not a two-port block", ErrUnknownSegment, name)
			}
			add(name, b.VarIDs())
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSegment, name)
		}
	}
	return rec, nil
}

// Record appends the committed state as one accepted step.
func (r *recorder) Record(state *State) {
	r.series.Time = append(r.series.Time, state.Time)
	for i, name := range r.series.names {
		seg := r.series.segments[name]
		d := r.dofs[i]
		seg.PressureIn = append(seg.PressureIn, state.Y[d.pin])
		seg.FlowIn = append(seg.FlowIn, state.Y[d.qin])
		seg.PressureOut = append(seg.PressureOut, state.Y[d.pout])
		seg.FlowOut = append(seg.FlowOut, state.Y[d.qout])
	}
}

func (r *recorder) Series() *TimeSeries { return r.series }
