package sourcemap

import (
	"fmt"
	"io"
	"strings"

	"github.com/galaco/bsp"
	"github.com/galaco/bsp/lumps"
	"github.com/galaco/bsp/primitives/game"
	"github.com/galaco/studiomodel"
	"github.com/galaco/studiomodel/mdl"
	"github.com/galaco/studiomodel/phy"
	"github.com/galaco/studiomodel/vtx"
	"github.com/galaco/studiomodel/vvd"
	vpk "github.com/galaco/vpk2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/saiko-tech/bsp-vis/pkg/bspvis"
)

// MissingModelsError reports static props whose model files could not be
// resolved from the pakfile or the VPK archives.
type MissingModelsError struct {
	missingModels []string
}

func (m MissingModelsError) Error() string {
	return fmt.Sprintf(`missing models: ("%s")`, strings.Join(m.missingModels, `", "`))
}

func readModelPart[T any](fs virtualFileSystem, filePath string, reader func(io.Reader) (T, error)) (T, error) {
	var def T

	f, err := fs.open(filePath)
	if err != nil {
		return def, errors.Wrapf(err, "failed to open prop part file %q", filePath)
	}

	defer f.Close()

	part, err := reader(f)
	if err != nil {
		return def, errors.Wrapf(err, "failed to read prop part from %q", filePath)
	}

	return part, nil
}

func readModel(fs virtualFileSystem, filePath string) (*studiomodel.StudioModel, error) {
	prop := strings.Split(filePath, ".mdl")[0]

	mdlData, err := readModelPart(fs, prop+".mdl", mdl.ReadFromStream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read mdl")
	}

	vvdData, err := readModelPart(fs, prop+".vvd", vvd.ReadFromStream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read vvd")
	}

	vtxData, err := readModelPart(fs, prop+".dx90.vtx", vtx.ReadFromStream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read vtx")
	}

	phyData, err := readModelPart(fs, prop+".phy", phy.ReadFromStream)
	if err != nil && !errors.Is(err, errFileNotFound) { // .phy is optional
		return nil, errors.Wrap(err, "failed to read phy")
	}

	return &studiomodel.StudioModel{
		Filename: prop,
		Mdl:      mdlData,
		Vvd:      vvdData,
		Vtx:      vtxData,
		Phy:      phyData,
	}, nil
}

// propTriangles returns the collision meshes of every placed static prop,
// transformed to world space and triangulated for bspvis. Props without a
// resolvable model contribute nothing; their names come back wrapped in
// MissingModelsError.
func propTriangles(bspfile *bsp.Bsp, vpks []*vpk.VPK) ([]bspvis.Triangle, error) {
	fs := vfs{
		pakfile: bspfile.Lump(bsp.LumpPakfile).(*lumps.Pakfile).GetData(),
		vpks:    vpks,
	}

	gameLump := bspfile.Lump(bsp.LumpGame).(*lumps.Game).GetData()
	spLump := gameLump.GetStaticPropLump()

	var (
		models        []*studiomodel.StudioModel
		missingModels []string
	)

	for _, name := range spLump.DictLump.Name {
		model, err := readModel(fs, name)
		if err != nil {
			missingModels = append(missingModels, name)
			models = append(models, nil)

			continue
		}

		models = append(models, model)
	}

	var tris []bspvis.Triangle

	for _, p := range spLump.PropLumps {
		model := models[p.GetPropType()]
		if model == nil || model.Phy == nil {
			continue
		}

		tris = append(tris, propMeshTriangles(p, model.Phy)...)
	}

	if len(missingModels) > 0 {
		return tris, MissingModelsError{missingModels: missingModels}
	}

	return tris, nil
}

func propMeshTriangles(prop game.IStaticPropDataLump, phyData *phy.Phy) []bspvis.Triangle {
	angleMatrices := []mgl32.Mat4{
		mgl32.Rotate3DX(prop.GetAngles()[0]).Mat4(),
		mgl32.Rotate3DY(prop.GetAngles()[1]).Mat4(),
		mgl32.Rotate3DZ(prop.GetAngles()[2]).Mat4(),
	}

	tris := make([]bspvis.Triangle, 0, len(phyData.TriangleFaces))

	for _, t := range phyData.TriangleFaces {
		corners := [3]mgl32.Vec3{
			prop.GetOrigin().Add(phyVertexToWorld(phyData.Vertices[t.V1].Vec3())),
			prop.GetOrigin().Add(phyVertexToWorld(phyData.Vertices[t.V2].Vec3())),
			prop.GetOrigin().Add(phyVertexToWorld(phyData.Vertices[t.V3].Vec3())),
		}

		for _, mat := range angleMatrices {
			for i := range corners {
				corners[i] = mgl32.TransformCoordinate(corners[i], mat)
			}
		}

		normal := corners[1].Sub(corners[0]).Cross(corners[2].Sub(corners[0]))

		tris = append(tris, bspvis.Triangle{
			Positions: corners,
			TexCoords: [3]mgl32.Vec2{
				projectUV(corners[0], normal),
				projectUV(corners[1], normal),
				projectUV(corners[2], normal),
			},
		})
	}

	return tris
}

// phyVertexToWorld converts a .phy vertex from meters in physics space to
// Source world units (inches, z-up).
func phyVertexToWorld(v mgl32.Vec3) (out mgl32.Vec3) {
	out[0] = 1 / 0.0254 * v[2]
	out[1] = 1 / 0.0254 * -v[0]
	out[2] = 1 / 0.0254 * -v[1]

	return out
}
