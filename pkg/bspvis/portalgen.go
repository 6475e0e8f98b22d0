package bspvis

import "github.com/go-gl/mathgl/mgl32"

// Portal generation runs in three stages once the BSP tree is built:
//
//   - Stage A: one large "rough" portal per partition plane, clipped to the
//     world bounds, then split by every other partition plane until each
//     piece lies entirely on one side of every plane except its own.
//   - Stage B: each rough portal is pushed down the tree into the leaf (or
//     leaves, when coplanar with further partitions) it may border.
//   - Stage C: per leaf, portals that border no second leaf are discarded,
//     the survivors are clipped to the exact shared boundary, re-wound so
//     the owning leaf sits on the front side, and pruned when the partner
//     leaf's geometry shows they open into a solid face.

func (w *World) generatePortals() {
	var working PortalList

	// Stage A: rough portals from the partition planes.
	for _, part := range w.PartitionNodes {
		working.PushBack(w.makeLargePortal(part.Partition))
	}

	for _, part := range w.PartitionNodes {
		for portal := working.First(); portal != nil; {
			next := working.Next(portal)

			side, front, back := w.splitPortal(portal, part.Partition)
			if side == SideSpanning {
				working.Remove(portal)
				w.freePortal(portal)
				working.PushBack(front)
				working.PushBack(back)
			}

			portal = next
		}
	}

	// Ids identify a rough portal across the per-leaf copies made below.
	id := 0
	for portal := working.First(); portal != nil; portal = working.Next(portal) {
		id++
		portal.ID = id
	}

	// Stage B: route every rough portal down to the leaves it touches.
	for portal := working.PopFront(); portal != nil; portal = working.PopFront() {
		w.addPortalToBspNodeRecursive(portal, w.Root)
	}

	// Stage C: refine into true inter-leaf portals.
	for _, leaf := range w.LeafNodes {
		w.findTruePortals(leaf)
	}

	w.PortalCount = 0
	for _, leaf := range w.LeafNodes {
		w.PortalCount += leaf.Portals.Len()
	}
}

// makeLargePortal synthesizes a convex quad lying exactly on the plane and
// spanning the world bounds: the bounding box corners are projected along
// the plane's dominant axis and the missing coordinate is solved from the
// plane equation.
func (w *World) makeLargePortal(plane Plane) *Portal {
	// Dominant axis of the normal; a unit normal guarantees one exists.
	axis := 0
	for i := 1; i < 3; i++ {
		if abs32(plane.Normal[i]) > abs32(plane.Normal[axis]) {
			axis = i
		}
	}

	u := (axis + 1) % 3
	v := (axis + 2) % 3

	corners := [4][2]float32{
		{w.Bounds.Mins[u], w.Bounds.Mins[v]},
		{w.Bounds.Maxs[u], w.Bounds.Mins[v]},
		{w.Bounds.Maxs[u], w.Bounds.Maxs[v]},
		{w.Bounds.Mins[u], w.Bounds.Maxs[v]},
	}

	portal := w.allocPortal()
	portal.Plane = plane
	portal.VertexCount = 4

	for i, c := range corners {
		var p mgl32.Vec3
		p[u] = c[0]
		p[v] = c[1]
		p[axis] = -(plane.Distance + plane.Normal[u]*c[0] + plane.Normal[v]*c[1]) / plane.Normal[axis]
		portal.Verts[i] = p
	}

	// Wind the quad to agree with the plane normal.
	wound := portal.Verts[1].Sub(portal.Verts[0]).Cross(portal.Verts[2].Sub(portal.Verts[0]))
	if wound.Dot(plane.Normal) < 0 {
		portal.Verts[1], portal.Verts[3] = portal.Verts[3], portal.Verts[1]
	}

	return portal
}

// addPortalToBspNodeRecursive walks a portal down the tree. A portal
// coplanar with a partition may border leaves in both halves, so it is
// duplicated; otherwise it routes to one child. Recursion stops at leaves,
// which take ownership.
func (w *World) addPortalToBspNodeRecursive(portal *Portal, node *BspNode) {
	if node.IsLeaf {
		node.Portals.PushBack(portal)
		return
	}

	switch node.Partition.ClassifyPoints(portal.Winding(), w.epsilon()) {
	case SideFront:
		w.addPortalToBspNodeRecursive(portal, node.FrontNode)
	case SideBack:
		w.addPortalToBspNodeRecursive(portal, node.BackNode)
	default:
		// Coplanar (or numerically straddling after stage A).
		clone := w.clonePortal(portal)
		w.addPortalToBspNodeRecursive(portal, node.FrontNode)
		w.addPortalToBspNodeRecursive(clone, node.BackNode)
	}
}

// findTruePortals refines one leaf's portal list: drop portals bordering no
// second leaf, clip the rest to the shared boundary, fix their orientation
// and prune the redundant ones.
func (w *World) findTruePortals(leaf *BspNode) {
	for portal := leaf.Portals.First(); portal != nil; {
		next := leaf.Portals.Next(portal)

		other := w.findPortalPartnerRecursive(w.Root, leaf, portal.ID)
		if other == nil {
			// Artifact of the coarse splitting; borders nothing.
			leaf.Portals.Remove(portal)
			w.freePortal(portal)
		} else {
			portal.FrontLeaf = other
			portal.BackLeaf = leaf
			w.clipPortalToLeaf(portal, leaf, other)
		}

		portal = next
	}

	w.invertNodePortals(leaf)
	w.removeExtraPortals(leaf)
}

// findPortalPartnerRecursive searches the whole tree for a different leaf
// holding a portal with the given id.
func (w *World) findPortalPartnerRecursive(node *BspNode, exclude *BspNode, id int) *BspNode {
	if node == nil {
		return nil
	}

	if node.IsLeaf {
		if node == exclude {
			return nil
		}
		for portal := node.Portals.First(); portal != nil; portal = node.Portals.Next(portal) {
			if portal.ID == id {
				return node
			}
		}
		return nil
	}

	if found := w.findPortalPartnerRecursive(node.FrontNode, exclude, id); found != nil {
		return found
	}
	return w.findPortalPartnerRecursive(node.BackNode, exclude, id)
}

// clipPortalToLeaf shrinks the portal polygon to the boundary shared by the
// two adjacent leaves by clipping it against every face plane of both
// leaves' polygons. Vertices are rewritten in place.
func (w *World) clipPortalToLeaf(portal *Portal, leafA, leafB *BspNode) {
	w.clipPortalToLeafPolys(portal, leafA)
	w.clipPortalToLeafPolys(portal, leafB)
}

func (w *World) clipPortalToLeafPolys(portal *Portal, leaf *BspNode) {
	eps := w.epsilon()

	for poly := leaf.Polygons.First(); poly != nil; poly = leaf.Polygons.Next(poly) {
		side, front, _ := splitConvex(portal.Winding(), poly.Plane, eps)
		if side == SideSpanning {
			portal.setWinding(front)
		}
	}
}

// invertNodePortals re-orients every portal of the leaf so the leaf's own
// geometry lies on the portal's front side, swapping FrontLeaf/BackLeaf so
// BackLeaf is always this leaf.
func (w *World) invertNodePortals(leaf *BspNode) {
	for portal := leaf.Portals.First(); portal != nil; portal = leaf.Portals.Next(portal) {
		if w.leafGeometrySide(leaf, portal.Plane) == SideBack {
			portal.invert()
		}

		if portal.BackLeaf != leaf {
			portal.FrontLeaf, portal.BackLeaf = portal.BackLeaf, portal.FrontLeaf
		}
	}
}

// leafGeometrySide votes on which side of the plane the leaf's polygons
// lie. Spanning and coplanar polygons don't vote.
func (w *World) leafGeometrySide(leaf *BspNode, plane Plane) Side {
	eps := w.epsilon()

	var front, back int

	for poly := leaf.Polygons.First(); poly != nil; poly = leaf.Polygons.Next(poly) {
		switch plane.ClassifyPolygon(poly, w.Vertexes, eps) {
		case SideFront:
			front++
		case SideBack:
			back++
		}
	}

	switch {
	case front > back:
		return SideFront
	case back > front:
		return SideBack
	default:
		return SideOn
	}
}

// removeExtraPortals prunes portals that survived pairing but do not open
// into their partner leaf. A true portal sits on the shared boundary, so
// every face plane of the partner leaf keeps it on the front side; anything
// else is coplanar with solid partner geometry and connects nothing.
func (w *World) removeExtraPortals(leaf *BspNode) {
	eps := w.epsilon()

	for portal := leaf.Portals.First(); portal != nil; {
		next := leaf.Portals.Next(portal)

		keep := true

		for poly := portal.FrontLeaf.Polygons.First(); poly != nil; poly = portal.FrontLeaf.Polygons.Next(poly) {
			if classifyInvertedPortal(portal, poly.Plane, eps) != SideFront {
				keep = false
				break
			}
		}

		if !keep {
			leaf.Portals.Remove(portal)
			w.freePortal(portal)
		}

		portal = next
	}
}

// classifyInvertedPortal classifies the portal winding against a face
// plane. A coplanar winding is resolved by classifying the portal's negated
// normal instead, so a portal lying exactly on a face counts as in front
// only when it faces away from that face.
func classifyInvertedPortal(portal *Portal, plane Plane, eps float32) Side {
	side := plane.ClassifyPoints(portal.Winding(), eps)
	if side == SideOn {
		side = plane.ClassifyPoint(portal.Plane.Normal.Mul(-1), eps)
	}

	return side
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
