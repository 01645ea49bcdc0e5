package window

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Placement chooses where a new window appears when the caller gives no
// position.
type Placement interface {
	Place() Position
}

// Area bounds the top-left corner of automatically placed windows. Max
// values are exclusive.
type Area struct {
	MinX int
	MaxX int
	MinY int
	MaxY int
}

// DefaultArea keeps new windows clear of the desktop icon column.
var DefaultArea = Area{MinX: 50, MaxX: 250, MinY: 50, MaxY: 150}

// UniformPlacement scatters windows uniformly over an Area.
type UniformPlacement struct {
	x distuv.Uniform
	y distuv.Uniform
}

// NewUniformPlacement creates a placement drawing from src. A nil src uses
// the global random source.
func NewUniformPlacement(area Area, src rand.Source) *UniformPlacement {
	return &UniformPlacement{
		x: distuv.Uniform{Min: float64(area.MinX), Max: float64(area.MaxX), Src: src},
		y: distuv.Uniform{Min: float64(area.MinY), Max: float64(area.MaxY), Src: src},
	}
}

// Place returns a random position inside the area.
func (p *UniformPlacement) Place() Position {
	return Position{X: int(p.x.Rand()), Y: int(p.y.Rand())}
}

// FixedPlacement always places windows at the same position.
type FixedPlacement Position

// Place returns the fixed position.
func (p FixedPlacement) Place() Position {
	return Position(p)
}
