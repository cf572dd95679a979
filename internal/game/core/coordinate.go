package core

import "fmt"

// Coordinate represents a cell on the battlefield grid
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a grid index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to a grid index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// DistanceTo calculates the Manhattan distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

// IsAdjacentTo reports whether other is exactly one Manhattan step away
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	return c.DistanceTo(other) == 1
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Sub returns a new coordinate that is the difference between this coordinate and another
func (c Coordinate) Sub(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X - other.X,
		Y: c.Y - other.Y,
	}
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// StepToward returns the two single-axis candidates for moving from c toward
// target by exactly step cells: first along x, then along y. An axis with no
// delta yields c unchanged for that candidate.
func (c Coordinate) StepToward(target Coordinate, step int) [2]Coordinate {
	d := target.Sub(c)
	return [2]Coordinate{
		{X: c.X + sign(d.X)*step, Y: c.Y},
		{X: c.X, Y: c.Y + sign(d.Y)*step},
	}
}
