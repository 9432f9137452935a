package component

// PositionComponent places an entity on the world grid
type PositionComponent struct {
	X, Y int
}
