package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJunctionMassConservation(t *testing.T) {
	j := NewJunction("bif")
	require.NoError(t, j.CheckPorts(1, 2))
	j.AssignDOFs([]int{1, 2, 3, 4, 5, 6}, []int{1, 2, 3})

	// Inlet carries 5, outlets 2 and 3: balanced, equal pressures.
	y := []float64{0, 600, 5, 600, 2, 600, 3}
	st := &Status{SourceScale: 1, Y: y, Ydot: make([]float64, 7)}

	sys := newFakeSystem()
	require.NoError(t, j.Stamp(sys, st))

	require.InDelta(t, 0, sys.residual(1), 1e-12)
	require.InDelta(t, 0, sys.residual(2), 1e-12)
	require.InDelta(t, 0, sys.residual(3), 1e-12)

	// Signed flow columns: +1 for inlets, -1 for outlets.
	require.Equal(t, 1.0, sys.jac[[2]int{1, 2}])
	require.Equal(t, -1.0, sys.jac[[2]int{1, 4}])
	require.Equal(t, -1.0, sys.jac[[2]int{1, 6}])
}

func TestJunctionImbalanceAndPressureJump(t *testing.T) {
	j := NewJunction("bif")
	require.NoError(t, j.CheckPorts(1, 2))
	j.AssignDOFs([]int{1, 2, 3, 4, 5, 6}, []int{1, 2, 3})

	y := []float64{0, 600, 5, 600, 2, 590, 2}
	st := &Status{SourceScale: 1, Y: y, Ydot: make([]float64, 7)}

	sys := newFakeSystem()
	require.NoError(t, j.Stamp(sys, st))

	require.InDelta(t, 1.0, sys.residual(1), 1e-12)  // 5 - 2 - 2
	require.InDelta(t, 0.0, sys.residual(2), 1e-12)  // 600 - 600
	require.InDelta(t, 10.0, sys.residual(3), 1e-12) // 600 - 590
}

func TestJunctionConfluence(t *testing.T) {
	j := NewJunction("conf")
	require.NoError(t, j.CheckPorts(2, 1))
	j.AssignDOFs([]int{1, 2, 3, 4, 5, 6}, []int{1, 2, 3})

	y := []float64{0, 6100, 5, 6100, 10, 6100, 15}
	st := &Status{SourceScale: 1, Y: y, Ydot: make([]float64, 7)}

	sys := newFakeSystem()
	require.NoError(t, j.Stamp(sys, st))

	require.InDelta(t, 0, sys.residual(1), 1e-12)
	require.Equal(t, 1.0, sys.jac[[2]int{1, 2}])
	require.Equal(t, 1.0, sys.jac[[2]int{1, 4}])
	require.Equal(t, -1.0, sys.jac[[2]int{1, 6}])
}

func TestJunctionArity(t *testing.T) {
	j := NewJunction("j")
	require.Error(t, j.CheckPorts(0, 2))
	require.Error(t, j.CheckPorts(1, 0))
	require.NoError(t, j.CheckPorts(2, 3))
	require.Equal(t, 5, j.NumEquations())
}
