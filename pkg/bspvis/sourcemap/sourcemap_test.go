package sourcemap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangles_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Triangles(filepath.Join(t.TempDir(), "nope.bsp"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.bsp")
}

func TestTriangles_NotABspFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage.bsp")
	require.NoError(t, os.WriteFile(path, []byte("this is not a bsp file"), 0o644))

	_, err := Triangles(path)
	assert.Error(t, err)
}

func TestTrianglesWithProps_MissingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := TrianglesWithProps(filepath.Join(dir, "nope.bsp"), filepath.Join(dir, "pak01"))
	assert.Error(t, err)
}

func TestProjectUV(t *testing.T) {
	t.Parallel()

	// +z dominant normal projects onto the xy plane
	uv := projectUV(mgl32.Vec3{128, 256, 7}, mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 1, float64(uv.X()), 1e-6)
	assert.InDelta(t, 2, float64(uv.Y()), 1e-6)

	// -x dominant normal projects onto the yz plane
	uv = projectUV(mgl32.Vec3{7, 128, 384}, mgl32.Vec3{-1, 0, 0})
	assert.InDelta(t, 1, float64(uv.X()), 1e-6)
	assert.InDelta(t, 3, float64(uv.Y()), 1e-6)
}

func TestFanTriangulate(t *testing.T) {
	t.Parallel()

	winding := []mgl32.Vec3{{0, 0, 0}, {4, 0, 0}, {4, 4, 0}, {0, 4, 0}}

	tris := fanTriangulate(winding, mgl32.Vec3{0, 0, 1})
	require.Len(t, tris, 2)

	assert.Equal(t, winding[0], tris[0].Positions[0])
	assert.Equal(t, winding[1], tris[0].Positions[1])
	assert.Equal(t, winding[2], tris[0].Positions[2])
	assert.Equal(t, winding[0], tris[1].Positions[0])
	assert.Equal(t, winding[2], tris[1].Positions[1])
	assert.Equal(t, winding[3], tris[1].Positions[2])
}
