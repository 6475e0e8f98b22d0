package bspvis

import "github.com/go-gl/mathgl/mgl32"

// DrawVertex is a draw-ready vertex as uploaded to a GPU vertex buffer.
// Position and UV come from the input triangles; normal and color are
// derived during world construction.
type DrawVertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec4
	TexCoord mgl32.Vec2
}

// Polygon is a triangle of world geometry: its owning plane plus a
// (FirstVertex, VertexCount) slice into the world's flat vertex buffer.
// After BSP splitting every polygon in the tree is a triangle.
type Polygon struct {
	Plane Plane

	FirstVertex int
	VertexCount int

	link Link[Polygon]
}

// PolygonList holds the polygons owned by one BSP leaf.
type PolygonList = List[Polygon, *Polygon]

func (p *Polygon) linkNode() *Link[Polygon] { return &p.link }

// IsTriangle reports whether the polygon has exactly three vertices.
func (p *Polygon) IsTriangle() bool { return p.VertexCount == 3 }

// Vertex returns the nth draw vertex of the polygon from the world
// vertex buffer.
func (p *Polygon) Vertex(index int, vertexes []DrawVertex) DrawVertex {
	if index < 0 || p.FirstVertex+index >= len(vertexes) {
		panic("bspvis: polygon vertex index out of range")
	}
	return vertexes[p.FirstVertex+index]
}

// VertexCoord returns the position of the nth vertex of the polygon.
func (p *Polygon) VertexCoord(index int, vertexes []DrawVertex) mgl32.Vec3 {
	return p.Vertex(index, vertexes).Position
}

// lerpDrawVertex interpolates every vertex attribute linearly. t is the
// fraction along the a->b edge, proportional to 3D distance.
func lerpDrawVertex(a, b DrawVertex, t float32) DrawVertex {
	return DrawVertex{
		Position: a.Position.Add(b.Position.Sub(a.Position).Mul(t)),
		Normal:   a.Normal,
		Color:    a.Color.Add(b.Color.Sub(a.Color).Mul(t)),
		TexCoord: a.TexCoord.Add(b.TexCoord.Sub(a.TexCoord).Mul(t)),
	}
}

// splitPolygon splits a triangle that spans the partition plane into 2-3
// new triangles, front pieces and back pieces, with UVs interpolated along
// the split edges. The original polygon is returned to the pool; its
// vertexes stay behind in the buffer as dead weight until the next rebuild.
func (w *World) splitPolygon(poly *Polygon, partition Plane) (front, back []*Polygon) {
	if !poly.IsTriangle() {
		panic("bspvis: splitPolygon on non-triangle polygon")
	}

	eps := w.epsilon()
	sides := partition.ClassifyTriangleVerts(poly, w.Vertexes, eps)

	frontVerts := make([]DrawVertex, 0, 4)
	backVerts := make([]DrawVertex, 0, 4)

	for i := 0; i < 3; i++ {
		a := poly.Vertex(i, w.Vertexes)
		b := poly.Vertex((i+1)%3, w.Vertexes)
		sideA, sideB := sides[i], sides[(i+1)%3]

		if sideA != SideBack {
			frontVerts = append(frontVerts, a)
		}
		if sideA != SideFront {
			backVerts = append(backVerts, a)
		}

		// Edge crossing from one strict side to the other:
		if (sideA == SideFront && sideB == SideBack) ||
			(sideA == SideBack && sideB == SideFront) {
			da := partition.DistanceTo(a.Position)
			db := partition.DistanceTo(b.Position)
			mid := lerpDrawVertex(a, b, da/(da-db))

			frontVerts = append(frontVerts, mid)
			backVerts = append(backVerts, mid)
		}
	}

	if len(frontVerts) < 3 || len(backVerts) < 3 {
		panic("bspvis: splitPolygon produced degenerate geometry")
	}

	front = w.emitTriangleFan(frontVerts, poly.Plane)
	back = w.emitTriangleFan(backVerts, poly.Plane)

	w.freePolygon(poly)

	return front, back
}

// emitTriangleFan appends the winding's vertexes to the world buffer as a
// triangle fan and allocates one polygon per emitted triangle.
func (w *World) emitTriangleFan(verts []DrawVertex, plane Plane) []*Polygon {
	polys := make([]*Polygon, 0, len(verts)-2)

	for i := 1; i+1 < len(verts); i++ {
		poly := w.allocPolygon()
		poly.Plane = plane
		poly.FirstVertex = len(w.Vertexes)
		poly.VertexCount = 3

		w.Vertexes = append(w.Vertexes, verts[0], verts[i], verts[i+1])
		polys = append(polys, poly)
	}

	return polys
}
