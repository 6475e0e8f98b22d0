package bspvis_test

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/bsp-vis/pkg/bspvis"
)

func ExampleWorld_ComputePVS() {
	world := bspvis.NewWorld(bspvis.Config{})

	err := world.CreateFromDatafile("../../testdata/sample2.txt", 1)
	if err != nil {
		panic(err)
	}

	eye := mgl32.Vec3{-5, 2.5, 0}
	view := mgl32.LookAtV(eye, mgl32.Vec3{5, 2.5, 0}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 4.0/3.0, 0.5, 1000)

	world.ComputePVS(eye, bspvis.NewFrustum(view, proj))

	fmt.Println("leaves:", world.LeafCount())
	fmt.Println("portals:", world.PortalCount)
	fmt.Println("visible:", world.CountVisibleLeaves())
	// Output:
	// leaves: 2
	// portals: 2
	// visible: 2
}
