package bspvis

import "github.com/go-gl/mathgl/mgl32"

// Bounds is a world-space axis-aligned bounding box. It must fully enclose
// the world so the rough portals built from it clip correctly.
type Bounds struct {
	Mins mgl32.Vec3
	Maxs mgl32.Vec3
}

func newBounds() Bounds {
	return Bounds{
		Mins: mgl32.Vec3{mgl32.MaxValue, mgl32.MaxValue, mgl32.MaxValue},
		Maxs: mgl32.Vec3{mgl32.MinValue, mgl32.MinValue, mgl32.MinValue},
	}
}

func (b *Bounds) addPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Mins[i] {
			b.Mins[i] = p[i]
		}
		if p[i] > b.Maxs[i] {
			b.Maxs[i] = p[i]
		}
	}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Mins.Add(b.Maxs).Mul(0.5)
}
