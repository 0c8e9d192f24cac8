package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemSolve2x2(t *testing.T) {
	sys, err := NewSystem(2)
	require.NoError(t, err)
	defer sys.Destroy()

	sys.SetupElements([][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}})

	// [2 1; 1 3] x = [3; 5] -> x = [0.8; 1.4]
	sys.AddElement(1, 1, 2)
	sys.AddElement(1, 2, 1)
	sys.AddElement(2, 1, 1)
	sys.AddElement(2, 2, 3)
	sys.AddRHS(1, 3)
	sys.AddRHS(2, 5)

	require.NoError(t, sys.Solve())
	x := sys.Solution()
	require.InDelta(t, 0.8, x[1], 1e-12)
	require.InDelta(t, 1.4, x[2], 1e-12)
}

func TestSystemAddIsAccumulative(t *testing.T) {
	sys, err := NewSystem(1)
	require.NoError(t, err)
	defer sys.Destroy()

	sys.SetupElements(nil)
	sys.AddElement(1, 1, 2)
	sys.AddElement(1, 1, 3)
	sys.AddRHS(1, 10)
	sys.AddRHS(1, 5)

	require.NoError(t, sys.Solve())
	require.InDelta(t, 3.0, sys.Solution()[1], 1e-12)
}

func TestSystemClear(t *testing.T) {
	sys, err := NewSystem(2)
	require.NoError(t, err)
	defer sys.Destroy()

	sys.SetupElements([][2]int{{1, 2}, {2, 1}})
	sys.AddElement(1, 1, 4)
	sys.AddRHS(1, 8)
	require.InDelta(t, 8.0, sys.ResidualNorm(), 1e-12)

	sys.Clear()
	require.Equal(t, 0.0, sys.ResidualNorm())

	// Pattern survives a clear; a fresh assembly still solves.
	sys.AddElement(1, 1, 2)
	sys.AddElement(2, 2, 2)
	sys.AddRHS(1, 2)
	sys.AddRHS(2, 4)
	require.NoError(t, sys.Solve())
	require.InDelta(t, 1.0, sys.Solution()[1], 1e-12)
	require.InDelta(t, 2.0, sys.Solution()[2], 1e-12)
}

func TestSystemRestampAfterFactor(t *testing.T) {
	sys, err := NewSystem(2)
	require.NoError(t, err)
	defer sys.Destroy()

	sys.SetupElements([][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}})

	stamp := func(b1, b2 float64) {
		sys.Clear()
		sys.AddElement(1, 1, 2)
		sys.AddElement(1, 2, 1)
		sys.AddElement(2, 1, 1)
		sys.AddElement(2, 2, 3)
		sys.AddRHS(1, b1)
		sys.AddRHS(2, b2)
	}

	stamp(3, 5)
	require.NoError(t, sys.Solve())
	require.InDelta(t, 0.8, sys.Solution()[1], 1e-12)

	// Newton re-stamps the same pattern after the matrix has been factored
	// and reordered; assembly must keep working across iterations.
	for k := 2.0; k <= 4.0; k++ {
		stamp(3*k, 5*k)
		require.NoError(t, sys.Solve())
		require.InDelta(t, 0.8*k, sys.Solution()[1], 1e-12)
		require.InDelta(t, 1.4*k, sys.Solution()[2], 1e-12)
	}
}

func TestSystemResidualNorm(t *testing.T) {
	sys, err := NewSystem(3)
	require.NoError(t, err)
	defer sys.Destroy()

	sys.AddRHS(1, -7)
	sys.AddRHS(2, 3)
	require.InDelta(t, 7.0, sys.ResidualNorm(), 1e-12)
}

func TestSystemOutOfBoundsIgnored(t *testing.T) {
	sys, err := NewSystem(2)
	require.NoError(t, err)
	defer sys.Destroy()

	sys.AddElement(0, 1, 1)
	sys.AddElement(3, 1, 1)
	sys.AddRHS(0, 1)
	sys.AddRHS(5, 1)
	require.Equal(t, 0.0, sys.ResidualNorm())
}
