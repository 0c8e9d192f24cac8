package block

import (
	"math"
)

// Waveform is a prescribed time function. Deriv must be the exact analytic
// derivative; it feeds residual terms that carry d/dt of a source.
type Waveform interface {
	Value(t float64) float64
	Deriv(t float64) float64
	Mean() float64
}

type Constant float64

func (c Constant) Value(t float64) float64 { return float64(c) }
func (c Constant) Deriv(t float64) float64 { return 0 }
func (c Constant) Mean() float64           { return float64(c) }

type Sine struct {
	Offset    float64
	Amplitude float64
	Freq      float64
	Phase     float64 // degrees
}

func (s Sine) Value(t float64) float64 {
	phaseRad := s.Phase * math.Pi / 180.0
	return s.Offset + s.Amplitude*math.Sin(2.0*math.Pi*s.Freq*t+phaseRad)
}

func (s Sine) Deriv(t float64) float64 {
	phaseRad := s.Phase * math.Pi / 180.0
	return s.Amplitude * 2.0 * math.Pi * s.Freq * math.Cos(2.0*math.Pi*s.Freq*t+phaseRad)
}

func (s Sine) Mean() float64 { return s.Offset }

// PWL interpolates linearly between sample points. A cyclic waveform repeats
// with period Times[len-1]-Times[0]; an acyclic one holds its end values.
type PWL struct {
	Times  []float64
	Values []float64
	Cyclic bool
}

func NewPWL(times, values []float64, cyclic bool) *PWL {
	return &PWL{Times: times, Values: values, Cyclic: cyclic}
}

func (p *PWL) wrap(t float64) float64 {
	if !p.Cyclic {
		return t
	}
	t0 := p.Times[0]
	period := p.Times[len(p.Times)-1] - t0
	if period <= 0 {
		return t
	}
	return t0 + math.Mod(math.Mod(t-t0, period)+period, period)
}

func (p *PWL) Value(t float64) float64 {
	t = p.wrap(t)
	n := len(p.Times)
	if t <= p.Times[0] {
		return p.Values[0]
	}
	if t >= p.Times[n-1] {
		return p.Values[n-1]
	}
	for i := 1; i < n; i++ {
		if t <= p.Times[i] {
			frac := (t - p.Times[i-1]) / (p.Times[i] - p.Times[i-1])
			return p.Values[i-1] + frac*(p.Values[i]-p.Values[i-1])
		}
	}
	return p.Values[n-1]
}

func (p *PWL) Deriv(t float64) float64 {
	t = p.wrap(t)
	n := len(p.Times)
	if t <= p.Times[0] || t >= p.Times[n-1] {
		return 0
	}
	for i := 1; i < n; i++ {
		if t <= p.Times[i] {
			return (p.Values[i] - p.Values[i-1]) / (p.Times[i] - p.Times[i-1])
		}
	}
	return 0
}

// Mean is the time average over the sampled span (trapezoidal).
func (p *PWL) Mean() float64 {
	n := len(p.Times)
	span := p.Times[n-1] - p.Times[0]
	if span <= 0 {
		return p.Values[0]
	}
	sum := 0.0
	for i := 1; i < n; i++ {
		sum += 0.5 * (p.Values[i] + p.Values[i-1]) * (p.Times[i] - p.Times[i-1])
	}
	return sum / span
}

// CardiacActivation is the normalized chamber activation: a cosine twitch of
// duration Active repeating every Period, zero in between.
type CardiacActivation struct {
	Period float64
	Active float64
}

func (a CardiacActivation) Value(t float64) float64 {
	tau := math.Mod(math.Mod(t, a.Period)+a.Period, a.Period)
	if tau >= a.Active {
		return 0
	}
	return 0.5 * (1.0 - math.Cos(2.0*math.Pi*tau/a.Active))
}

func (a CardiacActivation) Deriv(t float64) float64 {
	tau := math.Mod(math.Mod(t, a.Period)+a.Period, a.Period)
	if tau >= a.Active {
		return 0
	}
	return math.Pi / a.Active * math.Sin(2.0*math.Pi*tau/a.Active)
}

func (a CardiacActivation) Mean() float64 { return 0.5 * a.Active / a.Period }
