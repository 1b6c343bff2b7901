// Package render converts subdivision surfaces to triangle meshes for
// display and export to STL and PNG.
package render

import (
	"github.com/soypat/subd"
	"github.com/soypat/subd/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams triangles. ReadTriangles returns io.EOF once exhausted.
type Renderer interface {
	ReadTriangles(t []r3.Triangle) (int, error)
}

// Options controls ToMesh.
type Options struct {
	// SplitNormals emits one render vertex per smooth fan around each vertex
	// so the shading creases along sharp edges.
	SplitNormals bool
	// IncludeSharp and IncludeSmooth select which edges go into Lines.
	IncludeSharp  bool
	IncludeSmooth bool
	// SplitAngleDegrees, when positive, also treats edges whose faces meet at
	// more than this angle as sharp.
	SplitAngleDegrees float64
	// EdgeFilter, if set, decides which edges go into Lines instead of
	// IncludeSharp and IncludeSmooth.
	EdgeFilter func(s *subd.Surface, e subd.EdgeIdx) bool
	// FaceFilter, if set, drops faces for which it returns false.
	FaceFilter func(s *subd.Surface, f subd.FaceIdx) bool
}

// Mesh is an indexed triangle mesh. Triangles wind counter-clockwise when
// seen from outside.
type Mesh struct {
	Positions []r3.Vec
	Normals   []r3.Vec
	// Indices holds three entries per triangle.
	Indices []uint32
	Lines   [][2]uint32
}

// NumTriangles returns the number of triangles in m.
func (m *Mesh) NumTriangles() int { return len(m.Indices) / 3 }

// Triangles returns the triangles of m by value.
func (m *Mesh) Triangles() []r3.Triangle {
	out := make([]r3.Triangle, m.NumTriangles())
	for i := range out {
		for j := 0; j < 3; j++ {
			out[i][j] = m.Positions[m.Indices[3*i+j]]
		}
	}
	return out
}

// Bounds returns the bounds of the mesh positions.
func (m *Mesh) Bounds() d3.Box {
	if len(m.Positions) == 0 {
		return d3.Box{}
	}
	return d3.Set(m.Positions).Bounds()
}

// ToMesh triangulates every face of s as a fan around its first corner.
func ToMesh(s *subd.Surface, opts Options) *Mesh {
	t := &tessellator{
		s:      s,
		opts:   opts,
		m:      &Mesh{},
		corner: make(map[corner]uint32),
		first:  make(map[subd.VertIdx]uint32),
	}
	for _, v := range s.VertIdxs() {
		if opts.SplitNormals {
			t.addFans(v)
		} else {
			t.addSmooth(v)
		}
	}
	for _, f := range s.FaceIdxs() {
		if opts.FaceFilter != nil && !opts.FaceFilter(s, f) {
			continue
		}
		face := s.Face(f)
		c0 := t.corner[corner{f, face.Verts[0]}]
		for i := 1; i+1 < len(face.Verts); i++ {
			ci := t.corner[corner{f, face.Verts[i]}]
			cn := t.corner[corner{f, face.Verts[i+1]}]
			// Faces wind clockwise, so the fan is flipped.
			t.m.Indices = append(t.m.Indices, c0, cn, ci)
		}
	}
	for _, e := range s.EdgeIdxs() {
		include := opts.IncludeSmooth
		if t.sharp(e) {
			include = opts.IncludeSharp
		}
		if opts.EdgeFilter != nil {
			include = opts.EdgeFilter(s, e)
		}
		if include {
			edge := s.Edge(e)
			t.m.Lines = append(t.m.Lines, [2]uint32{t.first[edge.Start], t.first[edge.End]})
		}
	}
	return t.m
}

type corner struct {
	f subd.FaceIdx
	v subd.VertIdx
}

type tessellator struct {
	s    *subd.Surface
	opts Options
	m    *Mesh
	// corner maps each face corner to its render vertex and first maps
	// each vertex to its lowest numbered render vertex.
	corner map[corner]uint32
	first  map[subd.VertIdx]uint32
}

func (t *tessellator) sharp(e subd.EdgeIdx) bool {
	if t.s.Edge(e).Sharp {
		return true
	}
	return t.opts.SplitAngleDegrees > 0 && t.s.EdgeDihedral(e) > t.opts.SplitAngleDegrees
}

func (t *tessellator) emit(pos, normal r3.Vec) uint32 {
	idx := uint32(len(t.m.Positions))
	t.m.Positions = append(t.m.Positions, pos)
	t.m.Normals = append(t.m.Normals, normal)
	return idx
}

func (t *tessellator) addSmooth(v subd.VertIdx) {
	idx := t.emit(t.s.Vert(v).Pos, t.s.VertNormal(v))
	t.first[v] = idx
	for _, f := range t.s.Vert(v).Faces {
		t.corner[corner{f, v}] = idx
	}
}

// addFans walks the faces around v, which lie between consecutive edges,
// and starts a new render vertex after every sharp edge.
func (t *tessellator) addFans(v subd.VertIdx) {
	vert := t.s.Vert(v)
	n := len(vert.Faces)
	start := -1
	for i, e := range vert.Edges {
		if t.sharp(e) {
			start = i
			break
		}
	}
	if start < 0 || n == 0 {
		t.addSmooth(v)
		return
	}
	var fan []subd.FaceIdx
	flush := func() {
		var sum r3.Vec
		for _, f := range fan {
			sum = r3.Add(sum, t.s.FaceNormal(f))
		}
		idx := t.emit(vert.Pos, d3.UnitOrZero(sum))
		if _, ok := t.first[v]; !ok {
			t.first[v] = idx
		}
		for _, f := range fan {
			t.corner[corner{f, v}] = idx
		}
		fan = fan[:0]
	}
	for k := 0; k < n; k++ {
		i := (start + k) % n
		if k > 0 && t.sharp(vert.Edges[i]) {
			flush()
		}
		fan = append(fan, vert.Faces[i])
	}
	flush()
}
