package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.RenderAll implementation.
func RenderAll(r Renderer) ([]r3.Triangle, error) {
	var err error
	var nt int
	result := make([]r3.Triangle, 0, 1<<12)
	buf := make([]r3.Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// Reader returns a Renderer streaming the triangles of m.
func (m *Mesh) Reader() Renderer {
	return &meshReader{m: m}
}

type meshReader struct {
	m    *Mesh
	next int
}

func (r *meshReader) ReadTriangles(t []r3.Triangle) (int, error) {
	n := 0
	for n < len(t) && r.next < r.m.NumTriangles() {
		for j := 0; j < 3; j++ {
			t[n][j] = r.m.Positions[r.m.Indices[3*r.next+j]]
		}
		n++
		r.next++
	}
	if r.next == r.m.NumTriangles() {
		return n, io.EOF
	}
	return n, nil
}

// FromTriangles returns a flat shaded mesh with three render vertices per
// triangle, such as one read back from an STL file.
func FromTriangles(tris []r3.Triangle) *Mesh {
	m := &Mesh{
		Positions: make([]r3.Vec, 0, 3*len(tris)),
		Normals:   make([]r3.Vec, 0, 3*len(tris)),
		Indices:   make([]uint32, 0, 3*len(tris)),
	}
	for _, t := range tris {
		n := triangleNormal(t)
		for _, p := range t {
			m.Indices = append(m.Indices, uint32(len(m.Positions)))
			m.Positions = append(m.Positions, p)
			m.Normals = append(m.Normals, n)
		}
	}
	return m
}
