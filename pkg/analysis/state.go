package analysis

// State is the global solver state: the unknown vector y and its time
// derivative at the current step. Slices are 1-based like the sparse system;
// index 0 is unused.
type State struct {
	Time float64
	Y    []float64
	Ydot []float64
}

func NewState(numVars int) *State {
	return &State{
		Y:    make([]float64, numVars+1),
		Ydot: make([]float64, numVars+1),
	}
}

func (s *State) Clone() *State {
	c := &State{
		Time: s.Time,
		Y:    make([]float64, len(s.Y)),
		Ydot: make([]float64, len(s.Ydot)),
	}
	copy(c.Y, s.Y)
	copy(c.Ydot, s.Ydot)
	return c
}
