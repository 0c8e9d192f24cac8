package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-zerod/pkg/block"
	"github.com/edp1096/toy-zerod/pkg/model"
)

// buildClosedLoopHeart wires the minimal beating circulation: left ventricle,
// aortic valve, aorta, systemic bed, mitral valve, back to the ventricle.
func buildClosedLoopHeart(t *testing.T) (*model.Model, *block.Valve, *block.Valve) {
	t.Helper()
	m := model.New("closed_loop")

	activation := block.CardiacActivation{Period: 0.8, Active: 0.3}
	lv := block.NewChamber("LV", 2.0, 0.05, 10, 1e-4, activation)

	aortic := block.NewValve("aortic", 0.05, 1e4)
	aortic.OpenPressure = 0.5
	aortic.CloseFlow = 1.0
	mitral := block.NewValve("mitral", 0.05, 1e4)
	mitral.OpenPressure = 0.5
	mitral.CloseFlow = 1.0

	aorta := block.NewVessel("aorta", 0.05, 0.05, 1e-4, 0)
	systemic := block.NewVessel("systemic", 1.0, 0.3, 0, 0)

	require.NoError(t, m.AddBlock(lv, []string{"la"}, []string{"lv"}))
	require.NoError(t, m.AddBlock(aortic, []string{"lv"}, []string{"ao"}))
	require.NoError(t, m.AddBlock(aorta, []string{"ao"}, []string{"art"}))
	require.NoError(t, m.AddBlock(systemic, []string{"art"}, []string{"ven"}))
	require.NoError(t, m.AddBlock(mitral, []string{"ven"}, []string{"la"}))
	require.NoError(t, m.Finalize())
	require.NoError(t, m.SetInitial("LV:volume", 150))

	return m, aortic, mitral
}

func TestClosedLoopHeartBeats(t *testing.T) {
	m, aortic, mitral := buildClosedLoopHeart(t)

	cfg := DefaultConfig()
	cfg.TimeStep = 0.002
	cfg.NumSteps = 1600 // four cardiac cycles
	cfg.CycleTime = 0.8
	cfg.AbsTol = 1e-6

	tr, err := NewTransient(m, cfg)
	require.NoError(t, err)
	defer tr.Destroy()

	tr.Segments = []string{"aorta", "systemic"}

	aorticTransitions := 0
	mitralTransitions := 0
	lastAortic := aortic.State()
	lastMitral := mitral.State()
	tr.OnStep = func(step int, tm float64, st *State) {
		if aortic.State() != lastAortic {
			aorticTransitions++
			lastAortic = aortic.State()
		}
		if mitral.State() != lastMitral {
			mitralTransitions++
			lastMitral = mitral.State()
		}
	}

	series, err := tr.Run()
	require.NoError(t, err)
	require.Equal(t, cfg.NumSteps+1, series.Len())

	// Each valve opens and closes again over four beats, without chatter.
	require.GreaterOrEqual(t, aorticTransitions, 2)
	require.GreaterOrEqual(t, mitralTransitions, 2)
	require.LessOrEqual(t, aorticTransitions, 12)
	require.LessOrEqual(t, mitralTransitions, 12)

	// Aortic pressure is pulsatile over the final cycle.
	aortaSeg, ok := series.Segment("aorta")
	require.True(t, ok)
	stepsPerCycle := cfg.StepsPerCycle()
	minP, maxP := math.Inf(1), math.Inf(-1)
	for i := 1; i <= stepsPerCycle; i++ {
		p := aortaSeg.PressureInAt(-i)
		minP = math.Min(minP, p)
		maxP = math.Max(maxP, p)
	}
	require.Greater(t, maxP, minP+1.0)
	require.Greater(t, minP, 0.0)

	// Net flow around the loop is forward.
	sysSeg, _ := series.Segment("systemic")
	meanQ := 0.0
	for i := 1; i <= stepsPerCycle; i++ {
		meanQ += sysSeg.FlowInAt(-i)
	}
	meanQ /= float64(stepsPerCycle)
	require.Greater(t, meanQ, 0.0)
}

func TestClosedLoopVolumeConservation(t *testing.T) {
	m, _, _ := buildClosedLoopHeart(t)

	cfg := DefaultConfig()
	cfg.TimeStep = 0.002
	cfg.NumSteps = 1600
	cfg.CycleTime = 0.8
	cfg.AbsTol = 1e-6

	tr, err := NewTransient(m, cfg)
	require.NoError(t, err)
	defer tr.Destroy()

	_, err = tr.Run()
	require.NoError(t, err)

	// The loop has no sources or sinks: ventricular volume plus the volume
	// stored in the two compliances must stay at the initial 150.
	st := tr.State()
	volIdx, _ := m.VarIndex("LV:volume")
	aortaPc, _ := m.VarIndex("aorta:pressure_c")
	sysPc, _ := m.VarIndex("systemic:pressure_c")

	total := st.Y[volIdx] + 0.05*st.Y[aortaPc] + 0.3*st.Y[sysPc]
	require.InDelta(t, 150.0, total, 150.0*0.05)
	require.Greater(t, st.Y[volIdx], 0.0)
}
