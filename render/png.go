package render

import (
	"errors"
	"fmt"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures a PNG preview. The mesh is first fitted into a bi-unit
// cube centered at the origin so the camera works for any model size.
type View struct {
	Width, Height int
	// Supersample renders at this multiple of the output size before
	// downsampling. Zero means 1.
	Supersample int

	Eye, LookAt, Up r3.Vec
	Near, Far       float64
	// FovY is the vertical field of view in degrees.
	FovY float64
	// Color and Background are hex colors such as "#468966".
	Color, Background string
	// Wireframe also draws the mesh Lines.
	Wireframe bool
}

// DefaultView looks at the model from a corner above it.
func DefaultView() View {
	return View{
		Width:       1024,
		Height:      768,
		Supersample: 2,
		Eye:         r3.Vec{X: 3, Y: 3, Z: 3},
		Up:          r3.Vec{Y: 1},
		Near:        1,
		Far:         10,
		FovY:        30,
		Color:       "#468966",
		Background:  "#FFF8E3",
	}
}

// SavePNG renders a Phong shaded preview of m to path.
func SavePNG(path string, m *Mesh, view View) error {
	if m.NumTriangles() == 0 {
		return errors.New("render: empty mesh")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return fmt.Errorf("render: bad image size %dx%d", view.Width, view.Height)
	}
	scale := view.Supersample
	if scale < 1 {
		scale = 1
	}
	var (
		eye    = fauxV(view.Eye)
		center = fauxV(view.LookAt)
		up     = fauxV(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	mesh := toFauxgl(m, view.Wireframe)
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.FovY, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(view.Width), uint(view.Height), image, resize.Bilinear)
	if err := fauxgl.SavePNG(path, image); err != nil {
		return fmt.Errorf("render: writing %s: %w", path, err)
	}
	return nil
}

func fauxV(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }

func toFauxgl(m *Mesh, lines bool) *fauxgl.Mesh {
	vertex := func(i uint32) fauxgl.Vertex {
		return fauxgl.Vertex{Position: fauxV(m.Positions[i]), Normal: fauxV(m.Normals[i])}
	}
	tris := make([]*fauxgl.Triangle, m.NumTriangles())
	for i := range tris {
		tris[i] = fauxgl.NewTriangle(vertex(m.Indices[3*i]), vertex(m.Indices[3*i+1]), vertex(m.Indices[3*i+2]))
	}
	var ls []*fauxgl.Line
	if lines {
		ls = make([]*fauxgl.Line, len(m.Lines))
		for i, l := range m.Lines {
			ls[i] = fauxgl.NewLine(vertex(l[0]), vertex(l[1]))
		}
	}
	return fauxgl.NewMesh(tris, ls)
}
