package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	g := NewGrid(16, 10)
	require.Len(t, g.T, 160)
	for i := range g.T {
		assert.False(t, g.T[i].Blocked)
	}
	assert.Nil(t, g.Tile(NewCoordinate(16, 0)))
	assert.NotNil(t, g.Tile(NewCoordinate(15, 9)))
}

func TestGrid_SetBlocked(t *testing.T) {
	g := NewGrid(4, 4)
	c := NewCoordinate(1, 2)

	g.SetBlocked(c, true)
	assert.True(t, g.IsBlocked(c))
	assert.False(t, g.IsBlocked(NewCoordinate(2, 1)))

	g.SetBlocked(NewCoordinate(-1, 0), true) // ignored
	assert.False(t, g.IsBlocked(NewCoordinate(-1, 0)))

	g.SetBlocked(c, false)
	assert.False(t, g.IsBlocked(c))
}

func TestGrid_Neighbors(t *testing.T) {
	g := NewGrid(16, 10)

	t.Run("range zero is the cell itself", func(t *testing.T) {
		assert.Equal(t, []Coordinate{{5, 5}}, g.Neighbors(NewCoordinate(5, 5), 0))
	})

	t.Run("range one keeps the fixed scan order", func(t *testing.T) {
		expected := []Coordinate{{3, 5}, {4, 4}, {4, 5}, {4, 6}, {5, 5}}
		assert.Equal(t, expected, g.Neighbors(NewCoordinate(4, 5), 1))
	})

	t.Run("diamond size in the open", func(t *testing.T) {
		assert.Len(t, g.Neighbors(NewCoordinate(7, 5), 3), 25)
	})

	t.Run("clipped at the corner", func(t *testing.T) {
		n := g.Neighbors(NewCoordinate(0, 0), 2)
		assert.Len(t, n, 6)
		for _, c := range n {
			assert.True(t, g.InBounds(c))
			assert.LessOrEqual(t, c.DistanceTo(NewCoordinate(0, 0)), 2)
		}
	})

	t.Run("negative range", func(t *testing.T) {
		assert.Empty(t, g.Neighbors(NewCoordinate(1, 1), -1))
	})
}

func TestGrid_Clone(t *testing.T) {
	g := NewGrid(3, 3)
	c := g.Clone()
	c.SetBlocked(NewCoordinate(1, 1), true)
	assert.False(t, g.IsBlocked(NewCoordinate(1, 1)))
	assert.True(t, c.IsBlocked(NewCoordinate(1, 1)))
}
