package bspvis

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// floats per triangle in a world datafile: 3 vertices of x y z u v.
const triangleFloats = 15

// LoadTriangles parses a world map datafile: whitespace-separated floats,
// fifteen per triangle (three vertices of x y z u v), with '#' starting a
// comment. Positions are multiplied by scale.
func LoadTriangles(path string, scale float32) ([]Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open world datafile %q", path)
	}

	defer f.Close()

	var floats []float32

	scanner := bufio.NewScanner(f)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		for _, field := range strings.Fields(line) {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "%s:%d: bad value %q", path, lineNo, field)
			}
			floats = append(floats, float32(v))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read world datafile %q", path)
	}

	if len(floats) == 0 || len(floats)%triangleFloats != 0 {
		return nil, errors.Errorf("%s: expected a multiple of %d values, got %d",
			path, triangleFloats, len(floats))
	}

	tris := make([]Triangle, 0, len(floats)/triangleFloats)

	for i := 0; i < len(floats); i += triangleFloats {
		var tri Triangle
		for v := 0; v < 3; v++ {
			o := i + v*5
			tri.Positions[v] = mgl32.Vec3{floats[o], floats[o+1], floats[o+2]}.Mul(scale)
			tri.TexCoords[v] = mgl32.Vec2{floats[o+3], floats[o+4]}
		}
		tris = append(tris, tri)
	}

	return tris, nil
}

// CreateFromDatafile loads a world map datafile and builds the world from
// it. On failure the world is left empty, never partially constructed.
func (w *World) CreateFromDatafile(path string, scale float32) error {
	tris, err := LoadTriangles(path, scale)
	if err != nil {
		return err
	}

	return w.CreateFromTriangles(tris)
}
