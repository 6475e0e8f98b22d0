package bspvis

// BspNode is either an internal partition node (partition plane + two
// children, no polygons or portals) or a leaf (polygon list + portal list,
// no children). Leaf numbering and partition numbering are independent
// sequences starting at 1; an ID of 0 means uninitialized.
type BspNode struct {
	Partition Plane
	Polygons  PolygonList
	Portals   PortalList

	FrontNode *BspNode
	BackNode  *BspNode

	ID     int
	IsLeaf bool

	// Leaf is visible when visFrame matches the world frame counter.
	visFrame int
}

// BuildStats counts how polygons were classified while building the tree.
type BuildStats struct {
	PolysOnPlane   int
	PolysFrontSide int
	PolysBackSide  int
	PolysSpanning  int
}

// selectPartitionFromList scans each candidate polygon's plane as a
// potential splitter, counts every other polygon's triangle vertices on
// each side of it, and picks the plane minimizing |front - back|.
// Best-effort balance, not BSP optimality; the portal generator depends on
// this exact policy. The node becomes a leaf only when no candidate puts
// vertices on both sides. O(n^2) per node.
func (w *World) selectPartitionFromList(polys *PolygonList) (Plane, bool) {
	eps := w.epsilon()

	bestScore := -1
	notSplit := 0
	total := 0

	var best Plane

	for candidate := polys.First(); candidate != nil; candidate = polys.Next(candidate) {
		total++

		var front, back int

		partition := candidate.Plane

		for other := polys.First(); other != nil; other = polys.Next(other) {
			if other == candidate {
				continue
			}

			for _, side := range partition.ClassifyTriangleVerts(other, w.Vertexes, eps) {
				switch side {
				case SideFront:
					front++
				case SideBack:
					back++
				default:
					// On-plane vertices vote by the polygon's facing.
					if partition.ClassifyPoint(other.Plane.Normal, eps) == SideBack {
						back++
					} else {
						front++
					}
				}
			}
		}

		if front == 0 || back == 0 {
			notSplit++
		}

		score := front - back
		if score < 0 {
			score = -score
		}

		if bestScore < 0 || score < bestScore {
			bestScore = score
			best = partition
		}
	}

	return best, notSplit != total
}

// buildBspNodeRecursive turns node into either a leaf keeping the polygons
// as-is, or a partition node distributing every polygon to its children,
// splitting the spanning ones.
func (w *World) buildBspNodeRecursive(node *BspNode, polys *PolygonList) {
	if polys.Empty() {
		panic("bspvis: BSP node built from an empty polygon list")
	}

	partition, ok := w.selectPartitionFromList(polys)
	if !ok {
		w.bspLeafCount++
		node.IsLeaf = true
		node.ID = w.bspLeafCount

		for poly := polys.PopFront(); poly != nil; poly = polys.PopFront() {
			node.Polygons.PushBack(poly)
		}

		return
	}

	w.bspPartitionCount++
	node.Partition = partition
	node.ID = w.bspPartitionCount

	eps := w.epsilon()

	var frontPolys, backPolys PolygonList

	for poly := polys.PopFront(); poly != nil; poly = polys.PopFront() {
		switch partition.ClassifyPolygon(poly, w.Vertexes, eps) {
		case SideFront:
			w.Stats.PolysFrontSide++
			frontPolys.PushBack(poly)

		case SideBack:
			w.Stats.PolysBackSide++
			backPolys.PushBack(poly)

		case SideOn:
			// Keep coplanar geometry out of the half it faces away from.
			w.Stats.PolysOnPlane++
			if poly.Plane.Normal.Dot(partition.Normal) > 0 {
				frontPolys.PushBack(poly)
			} else {
				backPolys.PushBack(poly)
			}

		case SideSpanning:
			w.Stats.PolysSpanning++
			front, back := w.splitPolygon(poly, partition)
			for _, p := range front {
				frontPolys.PushBack(p)
			}
			for _, p := range back {
				backPolys.PushBack(p)
			}
		}
	}

	node.FrontNode = w.allocBspNode()
	w.buildBspNodeRecursive(node.FrontNode, &frontPolys)

	node.BackNode = w.allocBspNode()
	w.buildBspNodeRecursive(node.BackNode, &backPolys)
}

// collectNodesRecursive populates the partition and leaf index slices in
// depth-first pre-order, for O(leaves) traversal without recursion later.
func (w *World) collectNodesRecursive(node *BspNode) {
	if node == nil {
		return
	}

	if node.IsLeaf {
		w.LeafNodes = append(w.LeafNodes, node)
		return
	}

	w.PartitionNodes = append(w.PartitionNodes, node)
	w.collectNodesRecursive(node.FrontNode)
	w.collectNodesRecursive(node.BackNode)
}
