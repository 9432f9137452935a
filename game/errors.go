package game

import (
	"fmt"
)

// Stage identifies a phase of a tick
type Stage uint8

const (
	StageClear Stage = iota
	StageInput
	StageSystems
	StageMaintain
	StageRender
	StagePresent
)

var stageNames = [...]string{
	StageClear:    "clear",
	StageInput:    "input",
	StageSystems:  "systems",
	StageMaintain: "maintain",
	StageRender:   "render",
	StagePresent:  "present",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// TickError reports a panic recovered inside a tick
// The tick's pending commands were discarded and its frame was not presented
type TickError struct {
	Tick   uint64
	Stage  Stage
	System string // set when Stage is StageSystems
	Value  any
	Stack  []byte
}

func (e *TickError) Error() string {
	if e.System != "" {
		return fmt.Sprintf("tick %d: %s/%s: panic: %v", e.Tick, e.Stage, e.System, e.Value)
	}
	return fmt.Sprintf("tick %d: %s: panic: %v", e.Tick, e.Stage, e.Value)
}

// Unwrap exposes a panic value that was itself an error, such as *engine.BorrowError
func (e *TickError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
