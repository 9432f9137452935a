// Package game drives the per-tick pipeline and assembles a playable session
package game

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/input"
	"github.com/lixenwraith/gridcrawl/logger"
	"github.com/lixenwraith/gridcrawl/render"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/systems"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

// System is a per-tick world update run in declared order
type System interface {
	Name() string
	Run(w *engine.World)
}

// Presenter receives each completed frame
// The frame is reused by the next tick; presenters that keep it must Clone
type Presenter interface {
	Present(f *render.Frame) error
}

// Driver runs ticks: Clear, Input, Systems, Maintain, Render, then hands the frame to presenters
// Ticks are single-threaded; only the input source and presenters cross goroutines
type Driver struct {
	world        *engine.World
	input        input.Source
	systems      []System
	orchestrator *render.RenderOrchestrator
	presenters   []Presenter

	frame *render.Frame
	tick  uint64

	ticks      *atomic.Int64
	tickErrors *atomic.Int64
	cells      *atomic.Int64
	applied    *atomic.Int64
	dropped    *atomic.Int64
	tickMillis *status.Float
}

// NewDriver creates a driver over w; a *status.Registry resource is created if absent
func NewDriver(w *engine.World, src input.Source, orchestrator *render.RenderOrchestrator) *Driver {
	reg, ok := engine.GetResource[*status.Registry](w.Resources())
	if !ok {
		reg = status.NewRegistry()
		engine.AddResource(w.Resources(), reg)
	}

	return &Driver{
		world:        w,
		input:        src,
		orchestrator: orchestrator,
		frame:        render.NewFrame(tilemap.Width, tilemap.Height),

		ticks:      reg.Counter(status.KeyTicks),
		tickErrors: reg.Counter(status.KeyTickErrors),
		cells:      reg.Counter(status.KeyRenderCells),
		applied:    reg.Counter(status.KeyMaintained),
		dropped:    reg.Counter(status.KeyDropped),
		tickMillis: reg.Gauge(status.KeyTickMillis),
	}
}

// AddSystem appends s to the run order
func (d *Driver) AddSystem(s System) {
	d.systems = append(d.systems, s)
}

// AddPresenter appends p to the presenters receiving each frame
func (d *Driver) AddPresenter(p Presenter) {
	d.presenters = append(d.presenters, p)
}

func (d *Driver) World() *engine.World {
	return d.world
}

// Frame returns the frame buffer, valid as the last completed frame between ticks
func (d *Driver) Frame() *render.Frame {
	return d.frame
}

// TickCount returns the number of ticks started
func (d *Driver) TickCount() uint64 {
	return d.tick
}

// Tick runs one full pass of the pipeline
// A panic is returned as *TickError with the command queue discarded; a panic before
// StagePresent means no presenter saw the frame.
// Presenter failures are joined and returned after every presenter has been offered the frame.
func (d *Driver) Tick() (err error) {
	d.tick++
	start := time.Now()
	stage := StageClear
	current := ""

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		discarded := d.world.Commands().Discard()
		d.tickErrors.Add(1)
		te := &TickError{Tick: d.tick, Stage: stage, System: current, Value: r, Stack: debug.Stack()}
		logger.Log.WithFields(logrus.Fields{
			"tick":      d.tick,
			"stage":     stage.String(),
			"system":    current,
			"discarded": discarded,
		}).Errorf("tick aborted: %v", r)
		err = te
	}()

	engine.AddResource(d.world.Resources(), engine.TickResource{Tick: d.tick})

	d.frame.Cls()

	stage = StageInput
	if d.input != nil {
		if key, ok := d.input.Poll(); ok {
			systems.PlayerInput(d.world, key)
		}
	}

	stage = StageSystems
	for _, s := range d.systems {
		current = s.Name()
		s.Run(d.world)
	}
	current = ""

	stage = StageMaintain
	res := d.world.Maintain()
	d.applied.Add(int64(res.Applied))
	d.dropped.Add(int64(res.Dropped))

	stage = StageRender
	d.frame.Tick = d.tick
	n := d.orchestrator.RenderFrame(render.RenderContext{World: d.world, Tick: d.tick}, d.frame)
	d.cells.Add(int64(n))

	d.ticks.Add(1)
	d.tickMillis.Set(float64(time.Since(start).Microseconds()) / 1000)

	stage = StagePresent
	var errs []error
	for _, p := range d.presenters {
		if perr := p.Present(d.frame); perr != nil {
			errs = append(errs, fmt.Errorf("present %T: %w", p, perr))
		}
	}
	return errors.Join(errs...)
}

// Run ticks every interval until ctx is done
// A *TickError stops the loop and is returned; presenter errors are logged and the loop continues
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Tick(); err != nil {
				var te *TickError
				if errors.As(err, &te) {
					return te
				}
				logger.Log.WithField("tick", d.tick).Warn(err)
			}
		}
	}
}
