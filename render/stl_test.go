package render_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/subd/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLCreateWriteRead(t *testing.T) {
	m := render.ToMesh(cube(), render.Options{})
	path := filepath.Join(t.TempDir(), "cube.stl")
	if err := render.CreateSTL(path, m.Reader()); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(bfile) != 84+50*12 {
		t.Errorf("got %d bytes", len(bfile))
	}
	var b bytes.Buffer
	if err := render.WriteSTL(&b, m.Triangles()); err != nil {
		t.Fatal(err)
	}
	if b.String() != string(bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	model, err := render.ReadSTL(bytes.NewReader(bfile))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) != 12 {
		t.Errorf("read %d triangles", len(model))
	}
}

func TestSTLEmpty(t *testing.T) {
	if err := render.WriteSTL(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected error writing no triangles")
	}
	var m render.Mesh
	if err := render.CreateSTL(filepath.Join(t.TempDir(), "empty.stl"), m.Reader()); err == nil {
		t.Error("expected error creating an empty STL")
	}
}

func TestRenderAll(t *testing.T) {
	m := render.ToMesh(cube(), render.Options{})
	got, err := render.RenderAll(m.Reader())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != m.NumTriangles() {
		t.Errorf("got %d triangles", len(got))
	}
}

func TestFromTriangles(t *testing.T) {
	m := render.ToMesh(cube(), render.Options{})
	var b bytes.Buffer
	if err := render.WriteSTL(&b, m.Triangles()); err != nil {
		t.Fatal(err)
	}
	model, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	flat := render.FromTriangles(model)
	if flat.NumTriangles() != 12 || len(flat.Positions) != 36 {
		t.Fatalf("got %d triangles and %d positions", flat.NumTriangles(), len(flat.Positions))
	}
	centre := flat.Bounds().Center()
	for i := 0; i < flat.NumTriangles(); i++ {
		p, n := flat.Positions[3*i], flat.Normals[3*i]
		if r3.Dot(n, r3.Sub(p, centre)) <= 0 {
			t.Errorf("triangle %d normal %v points inwards", i, n)
		}
	}
}

func TestReadSTLErrors(t *testing.T) {
	var good bytes.Buffer
	m := render.ToMesh(cube(), render.Options{})
	if err := render.WriteSTL(&good, m.Triangles()); err != nil {
		t.Fatal(err)
	}
	nan := m.Triangles()
	nan[3][1].X = math.NaN()
	var bad bytes.Buffer
	if err := render.WriteSTL(&bad, nan); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		data []byte
	}{
		{name: "no header", data: good.Bytes()[:40]},
		{name: "truncated", data: good.Bytes()[:good.Len()-10]},
		{name: "nan vertex", data: bad.Bytes()},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := render.ReadSTL(bytes.NewReader(test.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
