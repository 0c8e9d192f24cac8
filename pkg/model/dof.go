package model

// DOFHandler assigns the global unknown-vector layout: one index per scalar
// unknown and one per equation row. Indices are 1-based to match the sparse
// system.
type DOFHandler struct {
	varNames []string
	varMap   map[string]int
	numEqns  int
}

func newDOFHandler() *DOFHandler {
	return &DOFHandler{varMap: make(map[string]int)}
}

func (h *DOFHandler) RegisterVariable(name string) int {
	if idx, exists := h.varMap[name]; exists {
		return idx
	}
	h.varNames = append(h.varNames, name)
	idx := len(h.varNames)
	h.varMap[name] = idx
	return idx
}

func (h *DOFHandler) RegisterEquations(n int) []int {
	eqns := make([]int, n)
	for i := range eqns {
		h.numEqns++
		eqns[i] = h.numEqns
	}
	return eqns
}

func (h *DOFHandler) Index(name string) (int, bool) {
	idx, ok := h.varMap[name]
	return idx, ok
}

// VarName returns the name of a 1-based variable index.
func (h *DOFHandler) VarName(idx int) string {
	if idx < 1 || idx > len(h.varNames) {
		return ""
	}
	return h.varNames[idx-1]
}

func (h *DOFHandler) NumVars() int { return len(h.varNames) }

func (h *DOFHandler) NumEquations() int { return h.numEqns }
