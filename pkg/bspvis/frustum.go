package bspvis

import "github.com/go-gl/mathgl/mgl32"

// Frustum plane indices. The PVS walk clips portals against every plane
// except the near one.
const (
	FrustumRight = iota
	FrustumLeft
	FrustumBottom
	FrustumTop
	FrustumFar
	FrustumNear
)

// Frustum is the 6-plane view volume extracted from the combined
// view-projection matrix. Plane normals point inward: a point with positive
// distance to all six planes is inside.
type Frustum struct {
	Planes     [6]Plane
	ClipMatrix mgl32.Mat4
}

// NewFrustum builds a frustum from a view and a projection matrix.
func NewFrustum(view, projection mgl32.Mat4) *Frustum {
	f := &Frustum{}
	f.ComputeClippingPlanes(view, projection)
	return f
}

// ComputeClippingPlanes recomputes the 6 normalized clipping planes from
// the given matrices.
func (f *Frustum) ComputeClippingPlanes(view, projection mgl32.Mat4) {
	f.ClipMatrix = projection.Mul4(view)

	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{
			f.ClipMatrix.At(i, 0),
			f.ClipMatrix.At(i, 1),
			f.ClipMatrix.At(i, 2),
			f.ClipMatrix.At(i, 3),
		}
	}

	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	f.Planes[FrustumRight] = normalizedPlane(r3.Sub(r0))
	f.Planes[FrustumLeft] = normalizedPlane(r3.Add(r0))
	f.Planes[FrustumBottom] = normalizedPlane(r3.Add(r1))
	f.Planes[FrustumTop] = normalizedPlane(r3.Sub(r1))
	f.Planes[FrustumFar] = normalizedPlane(r3.Sub(r2))
	f.Planes[FrustumNear] = normalizedPlane(r3.Add(r2))
}

func normalizedPlane(v mgl32.Vec4) Plane {
	n := mgl32.Vec3{v.X(), v.Y(), v.Z()}
	invLen := 1 / n.Len()

	return Plane{Normal: n.Mul(invLen), Distance: v.W() * invLen}
}

// TestPoint reports whether the point is inside the frustum.
func (f *Frustum) TestPoint(p mgl32.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceTo(p) <= 0 {
			return false
		}
	}
	return true
}

// TestSphere reports whether a sphere intersects the frustum.
func (f *Frustum) TestSphere(center mgl32.Vec3, radius float32) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceTo(center) <= -radius {
			return false
		}
	}
	return true
}

// TestAabb reports whether an axis-aligned box intersects the frustum.
func (f *Frustum) TestAabb(mins, maxs mgl32.Vec3) bool {
	for i := range f.Planes {
		// Most-positive box corner along the plane normal.
		v := mins
		for axis := 0; axis < 3; axis++ {
			if f.Planes[i].Normal[axis] >= 0 {
				v[axis] = maxs[axis]
			}
		}

		if f.Planes[i].DistanceTo(v) <= 0 {
			return false
		}
	}
	return true
}
