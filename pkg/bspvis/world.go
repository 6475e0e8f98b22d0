package bspvis

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Pool granularities, in objects per block.
const (
	polygonPoolGranularity = 256
	bspNodePoolGranularity = 256
	portalPoolGranularity  = 64
)

// ErrNoGeometry is returned when a world is created from zero triangles.
var ErrNoGeometry = errors.New("no world geometry")

// Config carries the build-time knobs. The zero value builds a full BSP
// tree with the default epsilon.
type Config struct {
	// Epsilon overrides the plane classification tolerance.
	// Zero means DefaultEpsilon. Inherited constant; keep the default
	// for behavioral parity with existing tree shapes.
	Epsilon float32

	// SkipTreeBuild puts all polygons into a single leaf and generates no
	// portals, so the renderer draws everything as one flat list.
	SkipTreeBuild bool
}

// Triangle is the raw world-geometry input: three vertices of position and
// UV, already scaled to world units by the caller.
type Triangle struct {
	Positions [3]mgl32.Vec3
	TexCoords [3]mgl32.Vec2
}

// World owns the vertex buffer, the object pools, the BSP tree and the
// portal graph. One instance drives one single-threaded frame loop; no
// concurrent access is supported.
type World struct {
	// Vertexes is the flat draw-ready vertex buffer every polygon slices
	// into, suitable for direct upload to a GPU vertex buffer.
	Vertexes []DrawVertex

	Bounds Bounds
	Root   *BspNode

	// Populated after tree construction, in depth-first pre-order.
	PartitionNodes []*BspNode
	LeafNodes      []*BspNode

	// PortalCount is the number of portal instances attached to leaves;
	// twin instances on either side of a shared boundary count twice.
	PortalCount int

	Stats BuildStats

	cfg Config

	polygonPool *Pool[Polygon]
	bspNodePool *Pool[BspNode]
	portalPool  *Pool[Portal]

	bspLeafCount      int
	bspPartitionCount int

	frameNumber int
}

// NewWorld creates an empty world with the given configuration.
func NewWorld(cfg Config) *World {
	return &World{
		cfg:         cfg,
		polygonPool: NewPool[Polygon](polygonPoolGranularity),
		bspNodePool: NewPool[BspNode](bspNodePoolGranularity),
		portalPool:  NewPool[Portal](portalPoolGranularity),
	}
}

func (w *World) epsilon() float32 {
	if w.cfg.Epsilon > 0 {
		return w.cfg.Epsilon
	}
	return DefaultEpsilon
}

// LeafCount returns the number of leaf cells in the tree.
func (w *World) LeafCount() int { return w.bspLeafCount }

// PartitionCount returns the number of internal partition nodes.
func (w *World) PartitionCount() int { return w.bspPartitionCount }

// CreateFromTriangles (re)builds the world from a flat triangle list:
// derives per-polygon planes, computes the bounds, partitions the world
// into a BSP tree and generates the inter-leaf portals. On error no
// partial world is left live.
func (w *World) CreateFromTriangles(tris []Triangle) error {
	w.Cleanup()

	if len(tris) == 0 {
		return errors.WithStack(ErrNoGeometry)
	}

	var polys PolygonList

	for i, tri := range tris {
		plane, err := PlaneFromPoints(tri.Positions[0], tri.Positions[1], tri.Positions[2])
		if err != nil {
			w.Cleanup()
			return errors.Wrapf(err, "triangle %d", i)
		}

		poly := w.allocPolygon()
		poly.Plane = plane
		poly.FirstVertex = len(w.Vertexes)
		poly.VertexCount = 3

		color := colorFromNormal(plane.Normal)
		for v := 0; v < 3; v++ {
			w.Vertexes = append(w.Vertexes, DrawVertex{
				Position: tri.Positions[v],
				Normal:   plane.Normal,
				Color:    color,
				TexCoord: tri.TexCoords[v],
			})
		}

		polys.PushBack(poly)
	}

	w.computeBounds()

	w.Root = w.allocBspNode()

	if w.cfg.SkipTreeBuild {
		w.bspLeafCount = 1
		w.Root.IsLeaf = true
		w.Root.ID = 1
		for poly := polys.PopFront(); poly != nil; poly = polys.PopFront() {
			w.Root.Polygons.PushBack(poly)
		}
		w.LeafNodes = append(w.LeafNodes, w.Root)
		return nil
	}

	w.buildBspNodeRecursive(w.Root, &polys)
	w.collectNodesRecursive(w.Root)
	w.generatePortals()

	return nil
}

// Cleanup drains all pools and resets the tree to its initial empty state,
// ready for a rebuild. The PVS frame counter is intentionally left alone.
func (w *World) Cleanup() {
	w.polygonPool.Drain()
	w.bspNodePool.Drain()
	w.portalPool.Drain()

	w.Vertexes = nil
	w.Bounds = Bounds{}
	w.Root = nil
	w.PartitionNodes = nil
	w.LeafNodes = nil
	w.PortalCount = 0
	w.Stats = BuildStats{}
	w.bspLeafCount = 0
	w.bspPartitionCount = 0
}

func (w *World) computeBounds() {
	b := newBounds()
	for i := range w.Vertexes {
		b.addPoint(w.Vertexes[i].Position)
	}
	w.Bounds = b
}

// Debug colors shade by facing so adjacent faces stay distinguishable.
func colorFromNormal(n mgl32.Vec3) mgl32.Vec4 {
	return mgl32.Vec4{
		0.5 + 0.5*n.X(),
		0.5 + 0.5*n.Y(),
		0.5 + 0.5*n.Z(),
		1,
	}
}

func (w *World) allocPolygon() *Polygon { return w.polygonPool.Allocate() }

func (w *World) freePolygon(poly *Polygon) { w.polygonPool.Free(poly) }

func (w *World) allocBspNode() *BspNode { return w.bspNodePool.Allocate() }

func (w *World) allocPortal() *Portal { return w.portalPool.Allocate() }

func (w *World) freePortal(portal *Portal) { w.portalPool.Free(portal) }

// clonePortal deep-copies a portal's geometry and id into a fresh instance
// with no list membership and no leaf references.
func (w *World) clonePortal(portal *Portal) *Portal {
	clone := w.allocPortal()
	clone.Plane = portal.Plane
	clone.Verts = portal.Verts
	clone.VertexCount = portal.VertexCount
	clone.ID = portal.ID

	return clone
}

// PoolStats reports allocator activity for one object pool.
type PoolStats struct {
	TotalAllocs int
	TotalFrees  int
	Live        int
	Blocks      int
}

// PolygonPoolStats returns allocator stats for the polygon pool.
func (w *World) PolygonPoolStats() PoolStats { return poolStats(w.polygonPool) }

// BspNodePoolStats returns allocator stats for the BSP node pool.
func (w *World) BspNodePoolStats() PoolStats { return poolStats(w.bspNodePool) }

// PortalPoolStats returns allocator stats for the portal pool.
func (w *World) PortalPoolStats() PoolStats { return poolStats(w.portalPool) }

func poolStats[T any](p *Pool[T]) PoolStats {
	return PoolStats{
		TotalAllocs: p.TotalAllocs(),
		TotalFrees:  p.TotalFrees(),
		Live:        p.Live(),
		Blocks:      p.Blocks(),
	}
}
