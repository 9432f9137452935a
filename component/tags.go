package component

// PlayerComponent tags entities that receive input-derived movement
// Several tagged entities all receive the same delta
type PlayerComponent struct{}

// LeftMoverComponent tags entities walked west one cell per tick
type LeftMoverComponent struct{}
