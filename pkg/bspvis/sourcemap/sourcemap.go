// Package sourcemap converts Source-engine BSP maps (github.com/galaco/bsp)
// into the flat triangle soup consumed by bspvis, so real game maps can
// feed the BSP/portal/PVS pipeline.
package sourcemap

import (
	"github.com/galaco/bsp"
	"github.com/galaco/bsp/lumps"
	vpk "github.com/galaco/vpk2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/saiko-tech/bsp-vis/pkg/bspvis"
)

const (
	maxFaceEdges = 32
	// texels per world unit for the planar-projected UVs.
	uvScale = float32(1.0 / 128.0)
)

// Triangles loads a .bsp file and returns its world faces fan-triangulated
// into bspvis input triangles.
func Triangles(path string) ([]bspvis.Triangle, error) {
	bspfile, err := bsp.ReadFromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read bsp file %q", path)
	}

	return faceTriangles(bspfile), nil
}

// TrianglesWithProps additionally merges the collision meshes of the map's
// static props, resolved from the map's pakfile and the given VPK archive
// prefixes. Props whose models cannot be found are skipped and reported
// via MissingModelsError alongside the triangles that did load.
func TrianglesWithProps(path string, vpkPaths ...string) ([]bspvis.Triangle, error) {
	bspfile, err := bsp.ReadFromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read bsp file %q", path)
	}

	vpks := make([]*vpk.VPK, 0, len(vpkPaths))

	for _, prefix := range vpkPaths {
		v, err := vpk.Open(vpk.MultiVPK(prefix))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open vpk %q", prefix)
		}
		vpks = append(vpks, v)
	}

	tris := faceTriangles(bspfile)

	propTris, err := propTriangles(bspfile, vpks)
	tris = append(tris, propTris...)

	return tris, err
}

func faceTriangles(bspfile *bsp.Bsp) []bspvis.Triangle {
	surfaces := bspfile.Lump(bsp.LumpFaces).(*lumps.Face).GetData()
	surfEdges := bspfile.Lump(bsp.LumpSurfEdges).(*lumps.Surfedge).GetData()
	vertices := bspfile.Lump(bsp.LumpVertexes).(*lumps.Vertex).GetData()
	edges := bspfile.Lump(bsp.LumpEdges).(*lumps.Edge).GetData()
	planes := bspfile.Lump(bsp.LumpPlanes).(*lumps.Planes).GetData()

	var tris []bspvis.Triangle

	for _, surface := range surfaces {
		firstEdge := int(surface.FirstEdge)
		numEdges := int(surface.NumEdges)

		if numEdges < 3 || numEdges > maxFaceEdges || surface.TexInfo <= 0 {
			continue
		}

		winding := make([]mgl32.Vec3, numEdges)

		for i := 0; i < numEdges; i++ {
			edgeIndex := surfEdges[firstEdge+i]
			if edgeIndex >= 0 {
				winding[i] = vertices[edges[edgeIndex][0]]
			} else {
				winding[i] = vertices[edges[-edgeIndex][1]]
			}
		}

		tris = append(tris, fanTriangulate(winding, planes[surface.Planenum].Normal)...)
	}

	return tris
}

// fanTriangulate splits a convex face winding into triangles with UVs
// planar-projected along the face normal's dominant axis.
func fanTriangulate(winding []mgl32.Vec3, normal mgl32.Vec3) []bspvis.Triangle {
	tris := make([]bspvis.Triangle, 0, len(winding)-2)

	for i := 1; i+1 < len(winding); i++ {
		tris = append(tris, bspvis.Triangle{
			Positions: [3]mgl32.Vec3{winding[0], winding[i], winding[i+1]},
			TexCoords: [3]mgl32.Vec2{
				projectUV(winding[0], normal),
				projectUV(winding[i], normal),
				projectUV(winding[i+1], normal),
			},
		})
	}

	return tris
}

func projectUV(p, normal mgl32.Vec3) mgl32.Vec2 {
	axis := 0
	for i := 1; i < 3; i++ {
		if abs32(normal[i]) > abs32(normal[axis]) {
			axis = i
		}
	}

	return mgl32.Vec2{p[(axis+1)%3] * uvScale, p[(axis+2)%3] * uvScale}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
