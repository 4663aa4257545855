package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveTriangle Wave = iota
	WaveSquare
	WaveSine
	WaveNoise
)

// floor is the gain a decaying sound reaches at its last sample.
const floor = 0.001

// oscillator produces a fixed number of samples of one waveform.
type oscillator struct {
	freq  float64
	phase float64
	left  int
	wave  Wave
	rate  beep.SampleRate
}

// NewOscillator returns a mono (duplicated to both channels) waveform
// lasting d.
func NewOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq: freq,
		left: rate.N(d),
		wave: wave,
		rate: rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.left <= 0 {
			return i, i > 0
		}

		var v float64
		switch o.wave {
		case WaveTriangle:
			v = 4*math.Abs(o.phase-0.5) - 1
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveNoise:
			v = rand.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.left--
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay fades a stream exponentially from full gain to floor over total
// samples.
type decay struct {
	streamer beep.Streamer
	pos      int
	total    int
}

// NewDecay wraps s with an exponential fade lasting d.
func NewDecay(s beep.Streamer, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, total: max(1, rate.N(d))}
}

func (e *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	k := math.Log(floor) / float64(e.total)
	for i := 0; i < n; i++ {
		g := math.Exp(k * float64(min(e.pos, e.total)))
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *decay) Err() error { return e.streamer.Err() }

// withVolume scales s by a linear gain in [0, 1].
// math.Log2(0) is -Inf, so a zero gain is expressed as Silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Tone is a decaying note at the given linear volume.
func Tone(freq float64, d time.Duration, wave Wave, vol float64, rate beep.SampleRate) beep.Streamer {
	return withVolume(NewDecay(NewOscillator(freq, d, wave, rate), d, rate), vol)
}

// Burst is a decaying white-noise hit.
func Burst(d time.Duration, vol float64, rate beep.SampleRate) beep.Streamer {
	return Tone(0, d, WaveNoise, vol, rate)
}
