// Package subd implements closed polyhedral surface meshes stored as
// index-linked arenas of vertices, edges and faces.
//
// Every edge borders exactly two faces: the face that traverses it from
// Start to End (Forwards) and the face that traverses it from End to Start
// (Backwards). Faces wind clockwise when seen from outside the surface.
// Each vertex keeps its incident edges and faces in cyclic order such that
// Faces[i] lies between Edges[i] and Edges[i+1].
//
// Surfaces are assembled with a Builder and frozen into a Surface with
// Builder.Build, which validates all cross references when debug checks
// are enabled (the default; build with the subdrelease tag to disable them).
package subd

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// VertIdx indexes a vertex within its owning Builder or Surface.
type VertIdx int

// EdgeIdx indexes an edge within its owning Builder or Surface.
type EdgeIdx int

// FaceIdx indexes a face within its owning Builder or Surface.
type FaceIdx int

const (
	NoVert VertIdx = -1
	NoEdge EdgeIdx = -1
	NoFace FaceIdx = -1
)

// Identity is an opaque provenance token naming the generator that produced
// a face. Identities are compared with ==, so they must be comparable values,
// typically pointers to the generating object.
type Identity interface{}

// Vert is a mesh vertex.
type Vert struct {
	Pos r3.Vec
	// Edges and Faces are index-parallel once sorted:
	// Faces[i] lies between Edges[i] and Edges[i+1].
	Edges []EdgeIdx
	Faces []FaceIdx
	// Sharp vertices are never moved by subdivision.
	Sharp bool
	Tag   string
}

// Valence returns the number of incident edges.
func (v *Vert) Valence() int { return len(v.Edges) }

func (v *Vert) clone() *Vert {
	c := *v
	c.Edges = append([]EdgeIdx(nil), v.Edges...)
	c.Faces = append([]FaceIdx(nil), v.Faces...)
	return &c
}

// Edge joins two vertices and borders two faces.
type Edge struct {
	Start, End VertIdx
	// Forwards is the face traversing Start->End, Backwards the one traversing End->Start.
	Forwards, Backwards FaceIdx
	// Sharp and Tag are author metadata propagated to the edges an edge is split into.
	Sharp bool
	Tag   string
}

// Other returns the endpoint of e that is not v.
func (e *Edge) Other(v VertIdx) VertIdx {
	switch v {
	case e.Start:
		return e.End
	case e.End:
		return e.Start
	}
	panic(fmt.Sprintf("subd: vertex %d is not an endpoint of edge %d->%d", v, e.Start, e.End))
}

// OtherFace returns the face across e from f.
func (e *Edge) OtherFace(f FaceIdx) FaceIdx {
	switch f {
	case e.Forwards:
		return e.Backwards
	case e.Backwards:
		return e.Forwards
	}
	panic(fmt.Sprintf("subd: face %d does not border edge %d->%d", f, e.Start, e.End))
}

// Departing returns the face which leaves v along e when walking
// clockwise around v as seen from outside.
func (e *Edge) Departing(v VertIdx) FaceIdx {
	switch v {
	case e.Start:
		return e.Forwards
	case e.End:
		return e.Backwards
	}
	panic(fmt.Sprintf("subd: vertex %d is not an endpoint of edge %d->%d", v, e.Start, e.End))
}

// Faces returns the set face slots of e.
func (e *Edge) Faces() []FaceIdx {
	fs := make([]FaceIdx, 0, 2)
	if e.Forwards != NoFace {
		fs = append(fs, e.Forwards)
	}
	if e.Backwards != NoFace {
		fs = append(fs, e.Backwards)
	}
	return fs
}

// HasEnd reports whether v is an endpoint of e.
func (e *Edge) HasEnd(v VertIdx) bool { return e.Start == v || e.End == v }

// clearFace empties whichever face slot refers to f.
func (e *Edge) clearFace(f FaceIdx) {
	if e.Forwards == f {
		e.Forwards = NoFace
	}
	if e.Backwards == f {
		e.Backwards = NoFace
	}
}

// Face is a polygon given as a cyclic sequence of vertices where
// Edges[i] connects Verts[i] and Verts[i+1].
type Face struct {
	Verts []VertIdx
	Edges []EdgeIdx
	Tag   string
	// Identities is the set of generators this face originated from.
	Identities []Identity
}

// Canonicalize rotates the vertex and edge sequences together so the
// smallest vertex index comes first. Faces built from the same cyclic
// sequence in the same winding are then equal element by element.
func (f *Face) Canonicalize() {
	if len(f.Verts) == 0 {
		return
	}
	where := 0
	for i, v := range f.Verts {
		if v < f.Verts[where] {
			where = i
		}
	}
	if where == 0 {
		return
	}
	f.Verts = append(f.Verts[where:len(f.Verts):len(f.Verts)], f.Verts[:where]...)
	if len(f.Edges) == len(f.Verts) {
		f.Edges = append(f.Edges[where:len(f.Edges):len(f.Edges)], f.Edges[:where]...)
	}
}

// Equal reports whether f and g visit the same vertices in the same cyclic order.
// Both faces are expected to be canonical.
func (f *Face) Equal(g *Face) bool {
	if len(f.Verts) != len(g.Verts) {
		return false
	}
	for i := range f.Verts {
		if f.Verts[i] != g.Verts[i] {
			return false
		}
	}
	return true
}

// EdgeIndex returns the position of e in the face edge list or -1.
func (f *Face) EdgeIndex(e EdgeIdx) int {
	for i, fe := range f.Edges {
		if fe == e {
			return i
		}
	}
	return -1
}

// VertIndex returns the position of v in the face vertex list or -1.
func (f *Face) VertIndex(v VertIdx) int {
	for i, fv := range f.Verts {
		if fv == v {
			return i
		}
	}
	return -1
}

// HasIdentity reports whether id is one of the face's generators.
func (f *Face) HasIdentity(id Identity) bool {
	for _, fid := range f.Identities {
		if fid == id {
			return true
		}
	}
	return false
}

// AddIdentity adds id to the identity set if not already present.
func (f *Face) AddIdentity(id Identity) {
	if id == nil || f.HasIdentity(id) {
		return
	}
	f.Identities = append(f.Identities, id)
}

func (f *Face) clone() *Face {
	c := *f
	c.Verts = append([]VertIdx(nil), f.Verts...)
	c.Edges = append([]EdgeIdx(nil), f.Edges...)
	c.Identities = append([]Identity(nil), f.Identities...)
	return &c
}

// Corner describes one vertex of a face being inserted together with the
// metadata for the edge leaving it towards the next corner. The metadata
// is only applied if that edge does not exist yet.
type Corner struct {
	Vert  VertIdx
	Sharp bool
	Tag   string
}

// FaceProps is the face-level metadata given on insertion.
type FaceProps struct {
	Tag        string
	Identities []Identity
}

func removeEdgeIdx(s []EdgeIdx, e EdgeIdx) []EdgeIdx {
	out := s[:0]
	for _, x := range s {
		if x != e {
			out = append(out, x)
		}
	}
	return out
}

func removeFaceIdx(s []FaceIdx, f FaceIdx) []FaceIdx {
	out := s[:0]
	for _, x := range s {
		if x != f {
			out = append(out, x)
		}
	}
	return out
}
