package core

// SoundType represents different sound effects
type SoundType int

const (
	SoundBump SoundType = iota // Move rejected by a wall
	SoundTypeCount
)
