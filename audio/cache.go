package audio

import (
	"sync"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/gridcrawl/core"
)

// soundCache renders each sound once into a beep.Buffer at unity gain
type soundCache struct {
	mu     sync.Mutex
	format beep.Format
	store  [core.SoundTypeCount]*beep.Buffer
}

func newSoundCache(format beep.Format) *soundCache {
	return &soundCache{format: format}
}

// get returns the rendered buffer, nil for unknown sound types
func (c *soundCache) get(st core.SoundType) *beep.Buffer {
	if st < 0 || st >= core.SoundTypeCount {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if buf := c.store[st]; buf != nil {
		return buf
	}

	buf := beep.NewBuffer(c.format)
	buf.Append(generate(st, c.format.SampleRate))
	c.store[st] = buf
	return buf
}

func generate(st core.SoundType, rate beep.SampleRate) beep.Streamer {
	switch st {
	case core.SoundBump:
		return CreateBumpSound(rate)
	default:
		return beep.Silence(0)
	}
}
