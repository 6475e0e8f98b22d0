// Command bspinfo builds the BSP/portal structures for a world map and
// prints the build statistics, optionally computing a PVS from a given eye
// position.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/bsp-vis/pkg/bspvis"
	"github.com/saiko-tech/bsp-vis/pkg/bspvis/sourcemap"
)

func main() {
	var (
		sourceBsp = flag.Bool("source-bsp", false, "treat the input as a Source-engine .bsp instead of a text datafile")
		scale     = flag.Float64("scale", 1.0, "uniform scale applied to datafile positions")
		skipTree  = flag.Bool("skip-tree", false, "skip BSP construction, keep everything in one leaf")
		eyeFlag   = flag.String("eye", "", "eye position 'x,y,z'; computes a PVS looking at the world center")
		fov       = flag.Float64("fov", 60, "vertical field of view in degrees for the PVS frustum")
	)

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <mapfile>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	path := flag.Arg(0)

	var (
		tris []bspvis.Triangle
		err  error
	)

	if *sourceBsp {
		tris, err = sourcemap.Triangles(path)
	} else {
		tris, err = bspvis.LoadTriangles(path, float32(*scale))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	world := bspvis.NewWorld(bspvis.Config{SkipTreeBuild: *skipTree})
	if err := world.CreateFromTriangles(tris); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Input triangles.........: %d\n", len(tris))
	fmt.Printf("Draw vertexes...........: %d\n", len(world.Vertexes))
	fmt.Printf("Polygons <OnPlane>......: %d\n", world.Stats.PolysOnPlane)
	fmt.Printf("Polygons <FrontSide>....: %d\n", world.Stats.PolysFrontSide)
	fmt.Printf("Polygons <BackSide>.....: %d\n", world.Stats.PolysBackSide)
	fmt.Printf("Polygons <Spanning>.....: %d\n", world.Stats.PolysSpanning)
	fmt.Printf("Num portals.............: %d\n", world.PortalCount)
	fmt.Printf("Num BSP leaves..........: %d\n", world.LeafCount())
	fmt.Printf("Num BSP partitions......: %d\n", world.PartitionCount())
	fmt.Printf("World bounds............: %v .. %v\n", world.Bounds.Mins, world.Bounds.Maxs)

	if *eyeFlag != "" {
		eye, err := parseVec3(*eyeFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		view := mgl32.LookAtV(eye, world.Bounds.Center(), mgl32.Vec3{0, 1, 0})
		proj := mgl32.Perspective(mgl32.DegToRad(float32(*fov)), 4.0/3.0, 0.5, 1000)

		world.ComputePVS(eye, bspvis.NewFrustum(view, proj))

		currentLeaf := world.FindLeaf(eye)
		fmt.Printf("Current BSP leaf........: %d\n", currentLeaf.ID)
		fmt.Printf("Visible BSP leaves......: %d\n", world.CountVisibleLeaves())
	}
}

func parseVec3(s string) (mgl32.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("bad eye position %q, want 'x,y,z'", s)
	}

	var v mgl32.Vec3

	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("bad eye position %q: %v", s, err)
		}
		v[i] = float32(f)
	}

	return v, nil
}
