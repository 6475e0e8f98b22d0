// Package bspvis implements Quake-style world visibility: BSP tree
// construction over arbitrary triangle soup, derivation of portals between
// the convex leaf cells, and per-frame computation of a Potentially Visible
// Set (PVS) via recursive portal clipping from the viewer's position.
package bspvis

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// DefaultEpsilon is the tolerance band for plane-side classification.
// Widening it trades numerical robustness against extra spurious splits
// during BSP construction; it is a tuning knob, not a bug fix.
const DefaultEpsilon = float32(0.001)

// Side classifies geometry relative to a Plane.
type Side int

const (
	SideOn Side = iota
	SideBack
	SideFront
	SideSpanning // polygons and portals only, never single points
)

func (s Side) String() string {
	switch s {
	case SideOn:
		return "OnPlane"
	case SideBack:
		return "BackSide"
	case SideFront:
		return "FrontSide"
	case SideSpanning:
		return "Spanning"
	default:
		return "InvalidSide"
	}
}

// ErrDegeneratePlane is returned when three points that should define a
// plane are collinear, which would produce a near-zero-length normal and
// silently corrupt all downstream classification.
var ErrDegeneratePlane = errors.New("degenerate plane: points are collinear")

// cross products shorter than this are considered degenerate.
const degenerateNormalLenSq = float32(1e-12)

// Plane is a unit normal plus the signed distance from the origin.
// A point p is on the plane when dot(p, Normal) + Distance == 0.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// PlaneFromPoints derives a plane from three non-collinear points in CCW
// winding order.
func PlaneFromPoints(p1, p2, p3 mgl32.Vec3) (Plane, error) {
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if n.LenSqr() < degenerateNormalLenSq {
		return Plane{}, errors.WithStack(ErrDegeneratePlane)
	}

	p := Plane{Normal: n.Normalize()}
	p.RecalculateDistance(p1)

	return p, nil
}

// RecalculateDistance recomputes the plane distance so that point lies on
// the plane. The normal is left untouched.
func (p *Plane) RecalculateDistance(point mgl32.Vec3) {
	p.Distance = -point.Dot(p.Normal)
}

// DistanceTo returns the signed distance from point to the plane.
// Positive means the point is on the front side (the side the normal
// points toward).
func (p Plane) DistanceTo(point mgl32.Vec3) float32 {
	return point.Dot(p.Normal) + p.Distance
}

// Inverted returns the same plane facing the other way.
func (p Plane) Inverted() Plane {
	return Plane{Normal: p.Normal.Mul(-1), Distance: -p.Distance}
}

// ClassifyPoint returns SideOn, SideBack or SideFront. Points within the
// eps band around the plane are SideOn, not merely near-zero-and-front.
func (p Plane) ClassifyPoint(point mgl32.Vec3, eps float32) Side {
	d := p.DistanceTo(point)

	switch {
	case d > eps:
		return SideFront
	case d < -eps:
		return SideBack
	default:
		return SideOn
	}
}

// ClassifyPoints aggregates the per-point classification of a set of
// points. SideSpanning is returned only when both a strict front point and
// a strict back point exist; points on the plane otherwise defer to
// whichever side the rest agree on.
func (p Plane) ClassifyPoints(points []mgl32.Vec3, eps float32) Side {
	var front, back int

	for _, point := range points {
		switch p.ClassifyPoint(point, eps) {
		case SideFront:
			front++
		case SideBack:
			back++
		}
	}

	switch {
	case front > 0 && back > 0:
		return SideSpanning
	case front > 0:
		return SideFront
	case back > 0:
		return SideBack
	default:
		return SideOn
	}
}

// ClassifyPolygon classifies a vertex-buffer-backed polygon against the
// plane using the same aggregation rules as ClassifyPoints.
func (p Plane) ClassifyPolygon(poly *Polygon, vertexes []DrawVertex, eps float32) Side {
	var front, back int

	for i := 0; i < poly.VertexCount; i++ {
		switch p.ClassifyPoint(poly.VertexCoord(i, vertexes), eps) {
		case SideFront:
			front++
		case SideBack:
			back++
		}
	}

	switch {
	case front > 0 && back > 0:
		return SideSpanning
	case front > 0:
		return SideFront
	case back > 0:
		return SideBack
	default:
		return SideOn
	}
}

// ClassifyTriangleVerts classifies each vertex of a triangulated polygon
// individually. Feeds the splitting routine and partition scoring.
func (p Plane) ClassifyTriangleVerts(poly *Polygon, vertexes []DrawVertex, eps float32) [3]Side {
	if !poly.IsTriangle() {
		panic("bspvis: ClassifyTriangleVerts on non-triangle polygon")
	}

	var out [3]Side
	for i := 0; i < 3; i++ {
		out[i] = p.ClassifyPoint(poly.VertexCoord(i, vertexes), eps)
	}

	return out
}
