// Package audio plays the game's sound effects through beep. A Player is a
// sim.Listener, so a running session drives it directly.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

// SampleRate is the output rate used for every effect.
const SampleRate = beep.SampleRate(48000)

// Effect parameters.
const (
	LaneFreq     = 400.0
	ClickFreq    = 500.0
	SelectFreq   = 700.0
	CollectFreq  = 750.0
	NoteDuration = 150 * time.Millisecond
	CollectDur   = 100 * time.Millisecond
	CrashDur     = 250 * time.Millisecond
)

// Sink receives finished effect streams.
type Sink interface {
	Play(s beep.Streamer)
}

// Player turns game events into sounds. Its zero value is silent.
type Player struct {
	sim.NopListener

	mu     sync.Mutex
	sink   Sink
	rate   beep.SampleRate
	volume float64
}

// New creates a player that sends effects to sink at the given volume.
func New(sink Sink, volume float64) *Player {
	p := &Player{sink: sink, rate: SampleRate}
	p.SetVolume(volume)
	return p
}

// SetVolume sets the linear volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = max(0, min(1, v))
}

// Volume returns the current linear volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) play(build func(vol float64, rate beep.SampleRate) beep.Streamer) {
	p.mu.Lock()
	sink, vol, rate := p.sink, p.volume, p.rate
	p.mu.Unlock()

	if sink == nil || vol <= 0 {
		return
	}
	sink.Play(build(vol, rate))
}

// OnLaneChanged plays the lane-shift note.
func (p *Player) OnLaneChanged(int) {
	p.play(func(vol float64, rate beep.SampleRate) beep.Streamer {
		return Tone(LaneFreq, NoteDuration, WaveTriangle, vol, rate)
	})
}

// OnCollect plays the pickup blip.
func (p *Player) OnCollect() {
	p.play(func(vol float64, rate beep.SampleRate) beep.Streamer {
		return Tone(CollectFreq, CollectDur, WaveSquare, vol, rate)
	})
}

// OnCrash plays the noise burst.
func (p *Player) OnCrash() {
	p.play(func(vol float64, rate beep.SampleRate) beep.Streamer {
		return Burst(CrashDur, vol, rate)
	})
}

// Click plays the menu button note.
func (p *Player) Click() {
	p.play(func(vol float64, rate beep.SampleRate) beep.Streamer {
		return Tone(ClickFreq, NoteDuration, WaveTriangle, vol, rate)
	})
}

// Select plays the difficulty selection note.
func (p *Player) Select() {
	p.play(func(vol float64, rate beep.SampleRate) beep.Streamer {
		return Tone(SelectFreq, NoteDuration, WaveTriangle, vol, rate)
	})
}

// speakerSink mixes effects into the system audio device.
type speakerSink struct {
	mixer *beep.Mixer
}

func (s *speakerSink) Play(st beep.Streamer) {
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

var (
	speakerOnce sync.Once
	speakerOut  *speakerSink
	speakerErr  error
)

// Open returns a player on the default audio device. The device is
// initialized once per process. When it cannot be opened the returned
// player is silent and the error says why.
func Open(volume float64) (*Player, error) {
	speakerOnce.Do(func() {
		if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
			speakerErr = err
			return
		}
		speakerOut = &speakerSink{mixer: &beep.Mixer{}}
		speaker.Play(speakerOut.mixer)
	})
	if speakerErr != nil {
		return New(nil, volume), speakerErr
	}
	return New(speakerOut, volume), nil
}

// Close stops whatever is still playing on the default device.
func Close() {
	if speakerOut == nil {
		return
	}
	speaker.Lock()
	speakerOut.mixer.Clear()
	speaker.Unlock()
}

var _ sim.Listener = (*Player)(nil)
