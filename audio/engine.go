// Package audio plays short sound effects through the beep speaker
package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/gridcrawl/core"
)

// DefaultSampleRate is the speaker rate used when Config leaves it unset
const DefaultSampleRate = beep.SampleRate(44100)

// Config holds the runtime audio settings
type Config struct {
	Enabled    bool
	Volume     float64 // linear, 0..1
	SampleRate beep.SampleRate
}

// DefaultConfig returns audio enabled at a low volume
func DefaultConfig() Config {
	return Config{Enabled: true, Volume: 0.3, SampleRate: DefaultSampleRate}
}

// Engine owns the speaker and implements engine.AudioPlayer
// Until Start succeeds it stays silent and Play reports false
type Engine struct {
	format beep.Format
	cache  *soundCache

	running atomic.Bool
	muted   atomic.Bool
	played  atomic.Uint64

	mu     sync.RWMutex
	volume float64
}

// NewEngine creates an engine; disabled configs start muted
func NewEngine(cfg Config) *Engine {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	e := &Engine{
		format: format,
		cache:  newSoundCache(format),
		volume: clampVolume(cfg.Volume),
	}
	e.muted.Store(!cfg.Enabled)
	return e
}

// Start initializes the speaker with a 100ms buffer
// An error leaves the engine silent; callers treat it as non-fatal
func (e *Engine) Start() error {
	if e.running.Load() {
		return fmt.Errorf("audio engine already running")
	}
	rate := e.format.SampleRate
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	e.cache.get(core.SoundBump)
	e.running.Store(true)
	return nil
}

// Stop closes the speaker
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	speaker.Clear()
	speaker.Close()
}

// Play queues a sound, returning false when silent, muted or the type is unknown
func (e *Engine) Play(st core.SoundType) bool {
	if !e.running.Load() || e.muted.Load() {
		return false
	}
	buf := e.cache.get(st)
	if buf == nil {
		return false
	}

	e.mu.RLock()
	vol := e.volume
	e.mu.RUnlock()

	speaker.Play(newVolume(buf.Streamer(0, buf.Len()), vol))
	e.played.Add(1)
	return true
}

// ToggleMute flips the mute state, returning true if sound is now on
func (e *Engine) ToggleMute() bool {
	for {
		old := e.muted.Load()
		if e.muted.CompareAndSwap(old, !old) {
			return old
		}
	}
}

func (e *Engine) IsMuted() bool {
	return e.muted.Load()
}

func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// Played returns the number of sounds handed to the speaker
func (e *Engine) Played() uint64 {
	return e.played.Load()
}

// SetVolume updates the linear volume, clamped to [0,1]
func (e *Engine) SetVolume(vol float64) {
	e.mu.Lock()
	e.volume = clampVolume(vol)
	e.mu.Unlock()
}

func (e *Engine) Volume() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.volume
}

func clampVolume(v float64) float64 {
	return max(0, min(v, 1))
}
