package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func vesselStatus(y []float64, yd []float64, steady bool, coeff float64) *Status {
	return &Status{
		Time:        0,
		TimeStep:    1e-3,
		YdotCoeff:   coeff,
		Steady:      steady,
		SourceScale: 1,
		Y:           y,
		Ydot:        yd,
	}
}

func TestVesselSteadyResistorResidual(t *testing.T) {
	v := NewVessel("branch0_seg0", 100, 0, 0, 0)
	v.AssignDOFs([]int{1, 2, 3, 4, 5}, []int{1, 2, 3})

	// Pin=1100, Qin=5, Pout=600, Qout=5, Pc=600: exact steady solution.
	y := []float64{0, 1100, 5, 600, 5, 600}
	yd := make([]float64, 6)

	sys := newFakeSystem()
	require.NoError(t, v.Stamp(sys, vesselStatus(y, yd, true, 0)))

	require.InDelta(t, 0, sys.residual(1), 1e-12)
	require.InDelta(t, 0, sys.residual(2), 1e-12)
	require.InDelta(t, 0, sys.residual(3), 1e-12)

	require.Equal(t, 1.0, sys.jac[[2]int{1, 1}])
	require.Equal(t, -100.0, sys.jac[[2]int{1, 2}])
	require.Equal(t, -1.0, sys.jac[[2]int{1, 5}])
}

func TestVesselStenosisJacobian(t *testing.T) {
	v := NewVessel("sten", 100, 0, 0, 100)
	v.AssignDOFs([]int{1, 2, 3, 4, 5}, []int{1, 2, 3})

	y := []float64{0, 3600, 5, 600, 5, 600}
	yd := make([]float64, 6)

	sys := newFakeSystem()
	require.NoError(t, v.Stamp(sys, vesselStatus(y, yd, true, 0)))

	// dP = R*Q + S*Q*|Q| = 500 + 2500, so the residual closes at Pin=3600.
	require.InDelta(t, 0, sys.residual(1), 1e-12)
	// d/dQ of (R + S|Q|)Q is R + 2S|Q|.
	require.Equal(t, -(100.0 + 2.0*100.0*5.0), sys.jac[[2]int{1, 2}])
}

func TestVesselStenosisReverseFlow(t *testing.T) {
	v := NewVessel("sten", 100, 0, 0, 100)
	v.AssignDOFs([]int{1, 2, 3, 4, 5}, []int{1, 2, 3})

	// Reverse flow: quadratic loss flips sign through Q*|Q|.
	y := []float64{0, -3000, -5, 0, -5, 0}
	yd := make([]float64, 6)

	sys := newFakeSystem()
	require.NoError(t, v.Stamp(sys, vesselStatus(y, yd, true, 0)))

	// Pin - (R*Q + S*Q|Q|) - Pc = -3000 - (-500 - 2500) - 0 = 0
	require.InDelta(t, 0, sys.residual(1), 1e-12)
	require.Equal(t, -(100.0 + 2.0*100.0*5.0), sys.jac[[2]int{1, 2}])
}

func TestVesselTransientDerivativeTerms(t *testing.T) {
	v := NewVessel("rlc", 100, 2e-4, 1e-3, 0)
	v.AssignDOFs([]int{1, 2, 3, 4, 5}, []int{1, 2, 3})

	coeff := 250.0
	y := []float64{0, 1100, 5, 600, 4, 600}
	yd := []float64{0, 0, 0, 0, 10, 50}

	sys := newFakeSystem()
	require.NoError(t, v.Stamp(sys, vesselStatus(y, yd, false, coeff)))

	// Mass residual: Qin - Qout - C*dPc/dt = 5 - 4 - 2e-4*50
	require.InDelta(t, 5.0-4.0-2e-4*50.0, sys.residual(2), 1e-12)
	require.InDelta(t, -2e-4*coeff, sys.jac[[2]int{2, 5}], 1e-12)

	// Momentum residual: Pc - Pout - L*dQout/dt = 600 - 600 - 1e-3*10
	require.InDelta(t, -1e-3*10.0, sys.residual(3), 1e-12)
	require.InDelta(t, -1e-3*coeff, sys.jac[[2]int{3, 4}], 1e-12)
}

func TestVesselPortArity(t *testing.T) {
	v := NewVessel("v", 1, 0, 0, 0)
	require.Error(t, v.CheckPorts(2, 1))
	require.Error(t, v.CheckPorts(1, 0))
	require.NoError(t, v.CheckPorts(1, 1))
}

func TestPoiseuilleHelpers(t *testing.T) {
	r := PoiseuilleResistance(10, 0.2)
	require.Greater(t, r, 0.0)
	// Doubling the radius cuts the resistance sixteenfold.
	require.InDelta(t, r/16, PoiseuilleResistance(10, 0.4), r*1e-12)

	l := BloodInertance(10, 0.2)
	require.Greater(t, l, 0.0)
	require.InDelta(t, l/4, BloodInertance(10, 0.4), l*1e-12)
}
