package bspvis

import "github.com/go-gl/mathgl/mgl32"

// MaxPortalVerts bounds the winding of a portal polygon. Convex clipping
// can add at most one vertex per plane; exceeding the bound means the
// input geometry violates the portal generator's preconditions.
const MaxPortalVerts = 8

// Portal is a convex polygon lying on a partition plane, connecting two
// adjacent leaf cells. During construction its vertices are rewritten in
// place as it is clipped down; once refined it persists in exactly one
// leaf's portal list, with BackLeaf always the owning leaf.
type Portal struct {
	Plane Plane

	Verts       [MaxPortalVerts]mgl32.Vec3
	VertexCount int
	ID          int

	FrontLeaf *BspNode // leaf on the other side; not owned
	BackLeaf  *BspNode // owning leaf; not owned

	link Link[Portal]
}

// PortalList holds the portals attached to one BSP leaf.
type PortalList = List[Portal, *Portal]

func (p *Portal) linkNode() *Link[Portal] { return &p.link }

// Winding returns the live vertex slice of the portal.
func (p *Portal) Winding() []mgl32.Vec3 { return p.Verts[:p.VertexCount] }

// Center returns the centroid of the portal polygon.
func (p *Portal) Center() mgl32.Vec3 {
	var c mgl32.Vec3
	for _, v := range p.Winding() {
		c = c.Add(v)
	}
	return c.Mul(1 / float32(p.VertexCount))
}

func (p *Portal) setWinding(verts []mgl32.Vec3) {
	if len(verts) < 3 || len(verts) > MaxPortalVerts {
		panic("bspvis: portal winding out of bounds")
	}
	p.VertexCount = copy(p.Verts[:], verts)
}

// invert reverses the portal's vertex order and recomputes its plane to
// face the other way.
func (p *Portal) invert() {
	for i, j := 0, p.VertexCount-1; i < j; i, j = i+1, j-1 {
		p.Verts[i], p.Verts[j] = p.Verts[j], p.Verts[i]
	}
	p.Plane = p.Plane.Inverted()
}

// splitConvex clips a convex winding by a plane. The returned side is the
// aggregate classification of the input; front and back windings are only
// produced for SideSpanning. Well-formed convex input always yields two
// valid windings, anything else is a fatal precondition violation.
func splitConvex(verts []mgl32.Vec3, plane Plane, eps float32) (Side, []mgl32.Vec3, []mgl32.Vec3) {
	side := plane.ClassifyPoints(verts, eps)
	if side != SideSpanning {
		return side, nil, nil
	}

	front := make([]mgl32.Vec3, 0, len(verts)+1)
	back := make([]mgl32.Vec3, 0, len(verts)+1)

	for i := range verts {
		a := verts[i]
		b := verts[(i+1)%len(verts)]
		sideA := plane.ClassifyPoint(a, eps)
		sideB := plane.ClassifyPoint(b, eps)

		if sideA != SideBack {
			front = append(front, a)
		}
		if sideA != SideFront {
			back = append(back, a)
		}

		if (sideA == SideFront && sideB == SideBack) ||
			(sideA == SideBack && sideB == SideFront) {
			da := plane.DistanceTo(a)
			db := plane.DistanceTo(b)
			mid := a.Add(b.Sub(a).Mul(da / (da - db)))

			front = append(front, mid)
			back = append(back, mid)
		}
	}

	if len(front) < 3 || len(back) < 3 {
		panic("bspvis: convex split produced degenerate winding")
	}

	return SideSpanning, front, back
}

// splitPortal splits a portal by a plane into two new pool-allocated
// portals. The original is left untouched; the caller decides whether to
// free it. Both pieces inherit the portal's id and plane.
func (w *World) splitPortal(portal *Portal, plane Plane) (Side, *Portal, *Portal) {
	side, frontVerts, backVerts := splitConvex(portal.Winding(), plane, w.epsilon())
	if side != SideSpanning {
		return side, nil, nil
	}

	front := w.clonePortal(portal)
	front.setWinding(frontVerts)

	back := w.clonePortal(portal)
	back.setWinding(backVerts)

	return SideSpanning, front, back
}
