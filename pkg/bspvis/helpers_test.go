package bspvis

import "github.com/go-gl/mathgl/mgl32"

// quadTris builds two triangles for the quad a-b-c-d (perimeter order).
// The resulting normal follows the winding: cross(b-a, c-a).
func quadTris(a, b, c, d mgl32.Vec3) []Triangle {
	return []Triangle{
		{
			Positions: [3]mgl32.Vec3{a, b, c},
			TexCoords: [3]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}},
		},
		{
			Positions: [3]mgl32.Vec3{a, c, d},
			TexCoords: [3]mgl32.Vec2{{0, 0}, {1, 1}, {0, 1}},
		},
	}
}

// boxRoomTris builds a closed box between the two corners with all faces
// wound inward.
func boxRoomTris(x1, y1, z1, x2, y2, z2 float32) []Triangle {
	var tris []Triangle

	// floor, ceiling
	tris = append(tris, quadTris(
		mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{x1, y1, z2}, mgl32.Vec3{x2, y1, z2}, mgl32.Vec3{x2, y1, z1})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{x1, y2, z1}, mgl32.Vec3{x2, y2, z1}, mgl32.Vec3{x2, y2, z2}, mgl32.Vec3{x1, y2, z2})...)

	// z walls
	tris = append(tris, quadTris(
		mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{x2, y1, z1}, mgl32.Vec3{x2, y2, z1}, mgl32.Vec3{x1, y2, z1})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{x2, y1, z2}, mgl32.Vec3{x1, y1, z2}, mgl32.Vec3{x1, y2, z2}, mgl32.Vec3{x2, y2, z2})...)

	// x walls
	tris = append(tris, quadTris(
		mgl32.Vec3{x1, y1, z2}, mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{x1, y2, z1}, mgl32.Vec3{x1, y2, z2})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{x2, y1, z1}, mgl32.Vec3{x2, y1, z2}, mgl32.Vec3{x2, y2, z2}, mgl32.Vec3{x2, y2, z1})...)

	return tris
}

// twoRoomTris builds a 20x5x10 shell with a dividing wall at x=0 that has
// a full-height doorway gap for -1 < z < 1. Same layout as
// testdata/sample2.txt.
func twoRoomTris() []Triangle {
	tris := boxRoomTris(-10, 0, -5, 10, 5, 5)

	// dividing wall pieces, normals facing +x
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 5, -5}, mgl32.Vec3{0, 5, -1})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 5, 1}, mgl32.Vec3{0, 5, 5})...)

	return tris
}

// windowRoomTris builds a 10x5x10 room whose east wall at x=0 has a window
// opening for 1 < y < 4, -2 < z < 2, leading into a smaller alcove
// (x 0..10) whose cross-section matches the opening exactly.
func windowRoomTris() []Triangle {
	var tris []Triangle

	// room shell (x -10..0): floor, ceiling
	tris = append(tris, quadTris(
		mgl32.Vec3{-10, 0, -5}, mgl32.Vec3{-10, 0, 5}, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -5})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{-10, 5, -5}, mgl32.Vec3{0, 5, -5}, mgl32.Vec3{0, 5, 5}, mgl32.Vec3{-10, 5, 5})...)

	// room z walls
	tris = append(tris, quadTris(
		mgl32.Vec3{-10, 0, -5}, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 5, -5}, mgl32.Vec3{-10, 5, -5})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 0, 5}, mgl32.Vec3{-10, 0, 5}, mgl32.Vec3{-10, 5, 5}, mgl32.Vec3{0, 5, 5})...)

	// room west wall
	tris = append(tris, quadTris(
		mgl32.Vec3{-10, 0, 5}, mgl32.Vec3{-10, 0, -5}, mgl32.Vec3{-10, 5, -5}, mgl32.Vec3{-10, 5, 5})...)

	// east wall pieces around the window, normals facing -x
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 1, 5}, mgl32.Vec3{0, 1, -5})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 4, -5}, mgl32.Vec3{0, 4, 5}, mgl32.Vec3{0, 5, 5}, mgl32.Vec3{0, 5, -5})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 1, -5}, mgl32.Vec3{0, 1, -2}, mgl32.Vec3{0, 4, -2}, mgl32.Vec3{0, 4, -5})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 1, 2}, mgl32.Vec3{0, 1, 5}, mgl32.Vec3{0, 4, 5}, mgl32.Vec3{0, 4, 2})...)

	// alcove (x 0..10, y 1..4, z -2..2): floor, ceiling
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 1, -2}, mgl32.Vec3{0, 1, 2}, mgl32.Vec3{10, 1, 2}, mgl32.Vec3{10, 1, -2})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 4, -2}, mgl32.Vec3{10, 4, -2}, mgl32.Vec3{10, 4, 2}, mgl32.Vec3{0, 4, 2})...)

	// alcove z walls
	tris = append(tris, quadTris(
		mgl32.Vec3{0, 1, -2}, mgl32.Vec3{10, 1, -2}, mgl32.Vec3{10, 4, -2}, mgl32.Vec3{0, 4, -2})...)
	tris = append(tris, quadTris(
		mgl32.Vec3{10, 1, 2}, mgl32.Vec3{0, 1, 2}, mgl32.Vec3{0, 4, 2}, mgl32.Vec3{10, 4, 2})...)

	// alcove east wall
	tris = append(tris, quadTris(
		mgl32.Vec3{10, 1, -2}, mgl32.Vec3{10, 1, 2}, mgl32.Vec3{10, 4, 2}, mgl32.Vec3{10, 4, -2})...)

	return tris
}

// coplanarQuadTris is the minimal world: two triangles forming a quad on
// the z=-5 plane.
func coplanarQuadTris() []Triangle {
	return quadTris(
		mgl32.Vec3{-1, -1, -5}, mgl32.Vec3{1, -1, -5}, mgl32.Vec3{1, 1, -5}, mgl32.Vec3{-1, 1, -5})
}

func perspectiveFrustum(eye, target mgl32.Vec3, fovDegrees float32) *Frustum {
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(fovDegrees), 1, 0.5, 200)

	return NewFrustum(view, proj)
}

func triangleArea(a, b, c mgl32.Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Len() / 2
}
