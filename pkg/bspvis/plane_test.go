package bspvis

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaneFromPoints(t *testing.T) {
	t.Parallel()

	p, err := PlaneFromPoints(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	require.NoError(t, err)

	assert.InDelta(t, 0, float64(p.Normal.X()), 1e-6)
	assert.InDelta(t, 0, float64(p.Normal.Y()), 1e-6)
	assert.InDelta(t, 1, float64(p.Normal.Z()), 1e-6)
	assert.InDelta(t, 0, float64(p.Distance), 1e-6)
}

func TestPlaneFromPoints_Degenerate(t *testing.T) {
	t.Parallel()

	a := mgl32.Vec3{1, 2, 3}

	_, err := PlaneFromPoints(a, a, mgl32.Vec3{4, 5, 6})
	assert.ErrorIs(t, err, ErrDegeneratePlane)

	_, err = PlaneFromPoints(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2})
	assert.ErrorIs(t, err, ErrDegeneratePlane)
}

func TestPlaneClassifyPoint(t *testing.T) {
	t.Parallel()

	// plane x = 2
	p := Plane{Normal: mgl32.Vec3{1, 0, 0}, Distance: -2}

	cases := []struct {
		name  string
		point mgl32.Vec3
		want  Side
	}{
		{"front", mgl32.Vec3{5, 0, 0}, SideFront},
		{"back", mgl32.Vec3{-5, 0, 0}, SideBack},
		{"exact", mgl32.Vec3{2, 7, -3}, SideOn},
		{"within epsilon front", mgl32.Vec3{2.0005, 0, 0}, SideOn},
		{"within epsilon back", mgl32.Vec3{1.9995, 0, 0}, SideOn},
		{"just outside epsilon", mgl32.Vec3{2.01, 0, 0}, SideFront},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, p.ClassifyPoint(tc.point, DefaultEpsilon))
		})
	}
}

// Classification must flip between a plane and its inverse for any point
// off the plane.
func TestPlaneInverted_FlipsClassification(t *testing.T) {
	t.Parallel()

	p := Plane{Normal: mgl32.Vec3{0, 1, 0}, Distance: -1}
	inv := p.Inverted()

	points := []mgl32.Vec3{
		{0, 5, 0},
		{0, -5, 0},
		{3, 2, -7},
		{3, 0.5, -7},
	}

	for _, pt := range points {
		side := p.ClassifyPoint(pt, DefaultEpsilon)
		flipped := inv.ClassifyPoint(pt, DefaultEpsilon)

		switch side {
		case SideFront:
			assert.Equal(t, SideBack, flipped)
		case SideBack:
			assert.Equal(t, SideFront, flipped)
		default:
			assert.Equal(t, SideOn, flipped)
		}
	}
}

func TestPlaneClassifyPoints(t *testing.T) {
	t.Parallel()

	// plane z = 0
	p := Plane{Normal: mgl32.Vec3{0, 0, 1}, Distance: 0}

	cases := []struct {
		name   string
		points []mgl32.Vec3
		want   Side
	}{
		{"all front", []mgl32.Vec3{{0, 0, 1}, {1, 0, 2}, {0, 1, 3}}, SideFront},
		{"all back", []mgl32.Vec3{{0, 0, -1}, {1, 0, -2}, {0, 1, -3}}, SideBack},
		{"all on", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, SideOn},
		{"front and on", []mgl32.Vec3{{0, 0, 1}, {1, 0, 0}, {0, 1, 2}}, SideFront},
		{"back and on", []mgl32.Vec3{{0, 0, -1}, {1, 0, 0}, {0, 1, -2}}, SideBack},
		{"spanning", []mgl32.Vec3{{0, 0, 1}, {1, 0, -1}, {0, 1, 2}}, SideSpanning},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, p.ClassifyPoints(tc.points, DefaultEpsilon))
		})
	}
}

func TestPlaneDistanceTo(t *testing.T) {
	t.Parallel()

	p := Plane{Normal: mgl32.Vec3{0, 1, 0}, Distance: -3}

	assert.InDelta(t, 2, float64(p.DistanceTo(mgl32.Vec3{10, 5, -4})), 1e-6)
	assert.InDelta(t, -3, float64(p.DistanceTo(mgl32.Vec3{0, 0, 0})), 1e-6)
}
