package matrix

import (
	"fmt"
	"math"

	"github.com/edp1096/sparse"
)

// System is the global linear system of one Newton iteration: the sparse
// Jacobian and the residual right-hand side. Indices are 1-based, matching
// the sparse package convention.
type System struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
}

func NewSystem(size int) (*System, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 false,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               true,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %v", err)
	}

	return &System{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
		config:   config,
	}, nil
}

// SetupElements pre-creates the matrix elements so the fill pattern stays
// fixed across factorizations.
func (s *System) SetupElements(pattern [][2]int) {
	for _, p := range pattern {
		s.matrix.GetElement(int64(p[0]), int64(p[1]))
	}
	for i := 1; i <= s.Size; i++ {
		s.matrix.GetElement(int64(i), int64(i))
	}
}

func (s *System) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > s.Size || j > s.Size {
		fmt.Printf("Warning: Matrix index out of bounds (i=%d, j=%d, size=%d)\n", i, j, s.Size)
		return
	}
	s.matrix.GetElement(int64(i), int64(j)).Real += value
}

func (s *System) AddRHS(i int, value float64) {
	if i <= 0 || i > s.Size {
		fmt.Printf("Warning: RHS index out of bounds (i=%d, size=%d)\n", i, s.Size)
		return
	}
	s.rhs[i] += value
}

func (s *System) Clear() {
	s.matrix.Clear()
	for i := range s.rhs {
		s.rhs[i] = 0
	}
}

// ResidualNorm is the max-abs norm of the right-hand side. The assembler
// stamps the negated residual, so this equals the residual norm.
func (s *System) ResidualNorm() float64 {
	norm := 0.0
	for i := 1; i <= s.Size; i++ {
		if v := math.Abs(s.rhs[i]); v > norm {
			norm = v
		}
	}
	return norm
}

func (s *System) Solve() error {
	var err error

	err = s.matrix.Factor()
	if err != nil {
		return fmt.Errorf("matrix factorization failed: %v", err)
	}

	s.solution, err = s.matrix.Solve(s.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %v", err)
	}

	for i := 1; i <= s.Size; i++ {
		if math.IsNaN(s.solution[i]) || math.IsInf(s.solution[i], 0) {
			return fmt.Errorf("matrix solve produced non-finite value at index %d", i)
		}
	}

	return nil
}

func (s *System) RHS() []float64 {
	return s.rhs
}

func (s *System) Solution() []float64 {
	return s.solution
}

func (s *System) Destroy() {
	if s.matrix != nil {
		s.matrix.Destroy()
	}
}
