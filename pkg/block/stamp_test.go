package block

// fakeSystem collects stamped entries for inspection without a sparse
// backend.
type fakeSystem struct {
	jac map[[2]int]float64
	rhs map[int]float64
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		jac: make(map[[2]int]float64),
		rhs: make(map[int]float64),
	}
}

func (f *fakeSystem) AddElement(i, j int, value float64) {
	f.jac[[2]int{i, j}] += value
}

func (f *fakeSystem) AddRHS(i int, value float64) {
	f.rhs[i] += value
}

// residual returns the stamped residual of equation e. The stamps carry the
// negated residual on the RHS.
func (f *fakeSystem) residual(e int) float64 {
	return -f.rhs[e]
}
