package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridcrawl/audio"
	"github.com/lixenwraith/gridcrawl/config"
	"github.com/lixenwraith/gridcrawl/core"
	"github.com/lixenwraith/gridcrawl/game"
	"github.com/lixenwraith/gridcrawl/input"
	"github.com/lixenwraith/gridcrawl/logger"
	"github.com/lixenwraith/gridcrawl/network"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/terminal"
	"github.com/lixenwraith/gridcrawl/window"
)

const (
	defaultConfigPath = "gridcrawl.toml"
	debugLogPath      = "logs/gridcrawl.log"
	helloText         = "Hello Grid World"
)

// flags holds command-line overrides; zero values leave the config untouched
type flags struct {
	configPath string
	backend    string
	seed       uint64
	spectate   string
	color      string
	debug      bool
	profile    string
	hello      bool
	ticks      int
	dumpConfig bool
}

func parseFlags(fs *flag.FlagSet, args []string) (flags, error) {
	var f flags
	fs.StringVar(&f.configPath, "config", defaultConfigPath, "path to TOML config, a missing file uses defaults")
	fs.StringVar(&f.backend, "backend", "", "display backend: terminal, window, headless")
	fs.Uint64Var(&f.seed, "seed", 0, "map seed, 0 picks one at random")
	fs.StringVar(&f.spectate, "spectate", "", "serve websocket spectators on this address, e.g. :8080")
	fs.StringVar(&f.color, "color", "", "color mode: auto, truecolor, 256")
	fs.BoolVar(&f.debug, "debug", false, "write a debug log to "+debugLogPath)
	fs.StringVar(&f.profile, "profile", "", "write a cpu or mem profile to the working directory")
	fs.BoolVar(&f.hello, "hello", false, "print a greeting over the map")
	fs.IntVar(&f.ticks, "ticks", 0, "headless: stop after this many ticks, 0 runs until interrupted")
	fs.BoolVar(&f.dumpConfig, "dump-config", false, "print the effective config as TOML and exit")
	err := fs.Parse(args)
	return f, err
}

// applyFlags layers set flags over the loaded config
func applyFlags(cfg *config.Config, f flags) {
	if f.backend != "" {
		cfg.Game.Backend = f.backend
	}
	if f.seed != 0 {
		cfg.Game.Seed = f.seed
	}
	if f.spectate != "" {
		cfg.Spectate.Addr = f.spectate
	}
	if f.color != "" {
		cfg.Game.Color = f.color
	}
	if f.hello {
		cfg.Game.Greeting = helloText
	}
	if f.debug {
		cfg.Log.Level = "debug"
		cfg.Game.ShowStatus = true
		if cfg.Log.File == "" {
			cfg.Log.File = debugLogPath
		}
	}
}

// profileOption maps -profile to a pkg/profile mode
func profileOption(mode string) (func(*profile.Profile), error) {
	switch mode {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q, want cpu or mem", mode)
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	f, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "gridcrawl: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if f.dumpConfig {
		return cfg.Write(os.Stdout)
	}

	logFile, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if f.profile != "" {
		opt, err := profileOption(f.profile)
		if err != nil {
			return err
		}
		defer profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	km, err := cfg.Keymap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := status.NewRegistry()
	reg.Text(status.KeyBackend).Store(cfg.Game.Backend)

	opts := game.Options{
		Seed:       cfg.Game.Seed,
		Walkers:    cfg.Game.Walkers,
		Greeting:   cfg.Game.Greeting,
		ShowStatus: cfg.Game.ShowStatus,
		Registry:   reg,
	}

	sound := startAudio(cfg.Audio, reg)
	if sound != nil {
		defer sound.Stop()
		opts.Audio = sound
	}
	toggleMute := func() {
		if sound != nil {
			reg.Flag(status.KeyAudioMuted).Store(!sound.ToggleMute())
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"backend": cfg.Game.Backend,
		"seed":    cfg.Game.Seed,
		"config":  f.configPath,
	}).Info("starting")

	switch cfg.Game.Backend {
	case config.BackendTerminal:
		err = runTerminal(ctx, cfg, km, opts, toggleMute)
	case config.BackendWindow:
		err = runWindow(ctx, cfg, km, opts, toggleMute)
	default:
		err = runHeadless(ctx, cfg, opts, f.ticks)
	}

	logger.Log.WithFields(logrus.Fields(reg.Snapshot())).Info("exit")
	return err
}

func startAudio(cfg config.Audio, reg *status.Registry) *audio.Engine {
	if !cfg.Enabled {
		return nil
	}
	eng := audio.NewEngine(audio.Config{Enabled: true, Volume: cfg.Volume, SampleRate: audio.DefaultSampleRate})
	if err := eng.Start(); err != nil {
		logger.Log.WithError(err).Warn("audio unavailable, continuing without sound")
		return nil
	}
	reg.Flag(status.KeyAudioMuted).Store(eng.IsMuted())
	return eng
}

// startSpectator attaches a websocket presenter when an address is configured
func startSpectator(ctx context.Context, cfg config.Config, s *game.Session) {
	if cfg.Spectate.Addr == "" {
		return
	}
	sp := network.NewSpectator(cfg.Spectate.Addr, s.Metrics)
	s.Driver.AddPresenter(sp)
	core.Go(func() {
		if err := sp.Serve(ctx); err != nil {
			logger.Log.WithError(err).Error("spectator stopped")
		}
	})
}

func runTerminal(ctx context.Context, cfg config.Config, km *input.Keymap, opts game.Options, mute func()) error {
	term, err := terminal.Open(km, cfg.Game.Color)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer term.Fini()

	s := game.Bootstrap(opts, term)
	s.Driver.AddPresenter(term)
	term.OnMute(mute)
	startSpectator(ctx, cfg, s)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	core.Go(func() {
		select {
		case <-term.Done():
			cancel()
		case <-ctx.Done():
		}
	})

	term.Start()
	logger.Log.WithField("color", term.ColorMode().String()).Debug("terminal ready")
	return s.Driver.Run(ctx, cfg.Game.FrameInterval)
}

func runWindow(ctx context.Context, cfg config.Config, km *input.Keymap, opts game.Options, mute func()) error {
	win, err := window.New(km)
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	s := game.Bootstrap(opts, win)
	win.Attach(s.Driver)
	win.OnMute(mute)
	startSpectator(ctx, cfg, s)
	return win.Run("gridcrawl")
}

// runHeadless ticks without a display, for spectating or benchmarking
func runHeadless(ctx context.Context, cfg config.Config, opts game.Options, ticks int) error {
	s := game.Bootstrap(opts, input.NewQueue(0))
	startSpectator(ctx, cfg, s)

	if ticks <= 0 {
		return s.Driver.Run(ctx, cfg.Game.FrameInterval)
	}

	start := time.Now()
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := s.Driver.Tick(); err != nil {
			var te *game.TickError
			if errors.As(err, &te) {
				return te
			}
			logger.Log.WithField("tick", s.Driver.TickCount()).Warn(err)
		}
	}
	logger.Log.WithFields(logrus.Fields{
		"ticks":   s.Driver.TickCount(),
		"elapsed": time.Since(start).String(),
	}).Info("headless run finished")
	return nil
}
