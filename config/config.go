// Package config loads runtime settings from a TOML file layered over defaults
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/gridcrawl/input"
)

// Backends accepted by [game] backend
const (
	BackendTerminal = "terminal"
	BackendWindow   = "window"
	BackendHeadless = "headless"
)

var (
	validBackends = []string{BackendTerminal, BackendWindow, BackendHeadless}
	validColors   = []string{"auto", "truecolor", "256"}
	validLevels   = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
	validFormats  = []string{"text", "json"}
)

// Config is the root of the TOML document
type Config struct {
	Game     Game     `toml:"game"`
	Keys     Keys     `toml:"keys"`
	Audio    Audio    `toml:"audio"`
	Log      Log      `toml:"log"`
	Spectate Spectate `toml:"spectate"`
}

type Game struct {
	Seed          uint64        `toml:"seed"` // 0 picks a random seed
	FrameInterval time.Duration `toml:"frame_interval"`
	Backend       string        `toml:"backend"`
	Color         string        `toml:"color"`
	Walkers       int           `toml:"walkers"`
	Greeting      string        `toml:"greeting"`
	ShowStatus    bool          `toml:"show_status"`
}

// Keys lists key names per action, field layout matches input.Bindings
type Keys struct {
	Left  []string `toml:"left"`
	Right []string `toml:"right"`
	Up    []string `toml:"up"`
	Down  []string `toml:"down"`
	Quit  []string `toml:"quit"`
	Mute  []string `toml:"mute"`
}

type Audio struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"` // empty discards log output
}

type Spectate struct {
	Addr string `toml:"addr"` // empty disables the spectator server
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Game: Game{
			FrameInterval: 50 * time.Millisecond,
			Backend:       BackendTerminal,
			Color:         "auto",
			Walkers:       10,
		},
		Keys: Keys(input.DefaultBindings()),
		Audio: Audio{
			Enabled: true,
			Volume:  0.3,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over Default; a missing file yields the defaults
// Unknown keys are rejected so typos do not pass silently
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(validBackends, c.Game.Backend) {
		errs = append(errs, fmt.Errorf("[game] backend %q not one of %v", c.Game.Backend, validBackends))
	}
	if !slices.Contains(validColors, c.Game.Color) {
		errs = append(errs, fmt.Errorf("[game] color %q not one of %v", c.Game.Color, validColors))
	}
	if c.Game.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("[game] frame_interval must be positive, got %s", c.Game.FrameInterval))
	}
	if c.Game.Walkers < 0 {
		errs = append(errs, fmt.Errorf("[game] walkers must not be negative, got %d", c.Game.Walkers))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("[audio] volume must be in [0,1], got %v", c.Audio.Volume))
	}
	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("[log] level %q not recognized", c.Log.Level))
	}
	if !slices.Contains(validFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("[log] format %q not one of %v", c.Log.Format, validFormats))
	}
	if _, err := c.Keymap(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Keymap builds the input keymap from [keys]
func (c *Config) Keymap() (*input.Keymap, error) {
	return input.NewKeymap(input.Bindings(c.Keys))
}

// Write encodes the configuration as TOML
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes the configuration to path, creating or truncating it
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
