package bspvis

import "github.com/go-gl/mathgl/mgl32"

// FindLeaf returns the leaf containing the position, descending into the
// front child when the position lies exactly on a partition plane. Returns
// nil when no tree is built.
func (w *World) FindLeaf(position mgl32.Vec3) *BspNode {
	return w.findLeafRecursive(position, w.Root)
}

func (w *World) findLeafRecursive(position mgl32.Vec3, node *BspNode) *BspNode {
	if node == nil || node.IsLeaf {
		return node
	}

	if node.Partition.ClassifyPoint(position, w.epsilon()) == SideBack {
		return w.findLeafRecursive(position, node.BackNode)
	}
	return w.findLeafRecursive(position, node.FrontNode)
}

// ComputePVS computes the Potentially Visible Set for a new frame: the
// eye's leaf is always visible; every other leaf is visible only if some
// chain of portals starting at the eye's leaf survives clipping against
// the view frustum and the separating planes of the portals already
// traversed. Leaves are marked by frame number, never cleared.
func (w *World) ComputePVS(eye mgl32.Vec3, frustum *Frustum) {
	w.frameNumber++

	leaf := w.FindLeaf(eye)
	if leaf == nil {
		return
	}

	leaf.visFrame = w.frameNumber

	for portal := leaf.Portals.First(); portal != nil; portal = leaf.Portals.Next(portal) {
		if verts, ok := w.clipPortalToFrustum(portal, frustum); ok {
			w.findVisibleLeavesRecursive(eye, verts, portal.FrontLeaf, leaf)
		}
	}
}

// clipPortalToFrustum clips a portal winding against 5 of the 6 frustum
// planes. The near plane is skipped deliberately: portals straddling it
// are still worth walking through, and the separating planes built later
// narrow the beam anyway.
func (w *World) clipPortalToFrustum(portal *Portal, frustum *Frustum) ([]mgl32.Vec3, bool) {
	eps := w.epsilon()
	verts := append([]mgl32.Vec3(nil), portal.Winding()...)

	for i := 0; i < FrustumNear; i++ {
		side, front, _ := splitConvex(verts, frustum.Planes[i], eps)

		switch side {
		case SideBack:
			return nil, false
		case SideSpanning:
			verts = front
		}
	}

	return verts, true
}

// findVisibleLeavesRecursive propagates visibility into the leaf behind
// portalVerts. The view volume through the portal is approximated by one
// separating plane per portal edge, each containing the eye and that edge;
// every onward portal is clipped against all of them and walked through
// only if something survives.
func (w *World) findVisibleLeavesRecursive(eye mgl32.Vec3, portalVerts []mgl32.Vec3, leaf, cameFrom *BspNode) {
	if leaf == nil {
		return
	}

	leaf.visFrame = w.frameNumber

	separators := separatingPlanes(eye, portalVerts)
	if len(separators) == 0 {
		return
	}

	eps := w.epsilon()

	for portal := leaf.Portals.First(); portal != nil; portal = leaf.Portals.Next(portal) {
		if portal.FrontLeaf == cameFrom {
			continue // don't walk straight back
		}

		verts := append([]mgl32.Vec3(nil), portal.Winding()...)
		survived := true

		for _, sep := range separators {
			side, front, _ := splitConvex(verts, sep, eps)
			if side == SideBack {
				survived = false
				break
			}
			if side == SideSpanning {
				verts = front
			}
		}

		if survived {
			w.findVisibleLeavesRecursive(eye, verts, portal.FrontLeaf, leaf)
		}
	}
}

// separatingPlanes builds one plane per portal edge, each containing the
// eye position and the edge, oriented so the portal interior is on the
// front side. Edges collinear with the eye contribute nothing.
func separatingPlanes(eye mgl32.Vec3, verts []mgl32.Vec3) []Plane {
	center := windingCenter(verts)
	planes := make([]Plane, 0, len(verts))

	for i := range verts {
		a := verts[i]
		b := verts[(i+1)%len(verts)]

		plane, err := PlaneFromPoints(eye, a, b)
		if err != nil {
			continue
		}

		if plane.DistanceTo(center) < 0 {
			plane = plane.Inverted()
		}

		planes = append(planes, plane)
	}

	return planes
}

func windingCenter(verts []mgl32.Vec3) mgl32.Vec3 {
	var c mgl32.Vec3
	for _, v := range verts {
		c = c.Add(v)
	}
	return c.Mul(1 / float32(len(verts)))
}

// IsLeafVisible reports whether the leaf was marked visible by the most
// recent ComputePVS call.
func (w *World) IsLeafVisible(leaf *BspNode) bool {
	return leaf != nil && leaf.visFrame == w.frameNumber
}

// CountVisibleLeaves returns how many leaves the current frame's PVS marked
// visible.
func (w *World) CountVisibleLeaves() int {
	n := 0
	for _, leaf := range w.LeafNodes {
		if w.IsLeafVisible(leaf) {
			n++
		}
	}
	return n
}

// VisibleLeaves returns the leaves marked visible by the current frame's
// PVS, in tree order.
func (w *World) VisibleLeaves() []*BspNode {
	var out []*BspNode
	for _, leaf := range w.LeafNodes {
		if w.IsLeafVisible(leaf) {
			out = append(out, leaf)
		}
	}
	return out
}

// FrameNumber returns the monotonically increasing PVS frame counter. It
// survives world rebuilds and is never reset.
func (w *World) FrameNumber() int { return w.frameNumber }

// VisitLeavesFrontToBack walks the tree in eye-relative near-to-far order,
// calling visit for every leaf. Renderers draw a leaf's polygon vertex
// ranges only when IsLeafVisible reports it visible.
func (w *World) VisitLeavesFrontToBack(eye mgl32.Vec3, visit func(*BspNode)) {
	w.visitLeavesRecursive(w.Root, eye, visit)
}

func (w *World) visitLeavesRecursive(node *BspNode, eye mgl32.Vec3, visit func(*BspNode)) {
	if node == nil {
		return
	}

	if node.IsLeaf {
		visit(node)
		return
	}

	if node.Partition.ClassifyPoint(eye, w.epsilon()) == SideBack {
		w.visitLeavesRecursive(node.BackNode, eye, visit)
		w.visitLeavesRecursive(node.FrontNode, eye, visit)
	} else {
		w.visitLeavesRecursive(node.FrontNode, eye, visit)
		w.visitLeavesRecursive(node.BackNode, eye, visit)
	}
}
