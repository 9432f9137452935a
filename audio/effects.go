package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// squareWave produces a fixed-length mono square tone duplicated to both channels
type squareWave struct {
	freq   float64
	phase  float64
	length int
	pos    int
	rate   beep.SampleRate
}

// NewSquareWave returns a square tone streamer lasting duration
func NewSquareWave(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &squareWave{
		freq:   freq,
		length: rate.N(duration),
		rate:   rate,
	}
}

func (o *squareWave) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.pos >= o.length {
			return i, i > 0
		}
		v := 1.0
		if o.phase >= 0.5 {
			v = -1
		}
		samples[i] = [2]float64{v, v}

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *squareWave) Err() error { return nil }

// envelope applies a linear attack and release to a finite stream
type envelope struct {
	src     beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

// NewEnvelope shapes s with attack and release ramps over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		src:     s,
		total:   rate.N(duration),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

func (e *envelope) gain() float64 {
	g := 1.0
	if e.attack > 0 && e.pos < e.attack {
		g = float64(e.pos) / float64(e.attack)
	}
	if e.release > 0 {
		if left := e.total - e.pos; left < e.release {
			g = min(g, max(float64(left)/float64(e.release), 0))
		}
	}
	return g
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.src.Stream(samples)
	for i := 0; i < n; i++ {
		if e.pos >= e.total {
			return i, i > 0
		}
		g := e.gain()
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.src.Err() }

// newVolume scales a stream linearly; zero or negative volume is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Bump sound shape
const (
	bumpFreq     = 110.0
	bumpDuration = 60 * time.Millisecond
	bumpAttack   = 4 * time.Millisecond
	bumpRelease  = 40 * time.Millisecond
)

// CreateBumpSound is a short low square thud for a move into a wall
func CreateBumpSound(rate beep.SampleRate) beep.Streamer {
	osc := NewSquareWave(bumpFreq, bumpDuration, rate)
	return NewEnvelope(osc, bumpDuration, bumpAttack, bumpRelease, rate)
}
