package subd

import (
	"github.com/soypat/subd/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Surface is a finished closed mesh. Its topology never changes; edit it by
// obtaining a Builder with the Builder method.
//
// Normals, centroids and bounds are computed on first request and cached,
// so a Surface must not be queried concurrently until every cache it will
// be queried for has been filled.
type Surface struct {
	verts []*Vert
	edges []*Edge
	faces []*Face
	nv    int
	ne    int
	nf    int

	faceNormal []cached
	faceCenter []cached
	vertNormal []cached
}

type cached struct {
	ok bool
	v  r3.Vec
}

func (s *Surface) lazy(cache *[]cached, n, i int, compute func() r3.Vec) r3.Vec {
	if *cache == nil {
		*cache = make([]cached, n)
	}
	c := &(*cache)[i]
	if !c.ok {
		c.v, c.ok = compute(), true
	}
	return c.v
}

// NumVerts returns the number of live vertices.
func (s *Surface) NumVerts() int { return s.nv }

// NumEdges returns the number of live edges.
func (s *Surface) NumEdges() int { return s.ne }

// NumFaces returns the number of live faces.
func (s *Surface) NumFaces() int { return s.nf }

// VertCap returns one more than the highest vertex index ever assigned.
func (s *Surface) VertCap() int { return len(s.verts) }

// Vert returns the vertex at v or nil. The result must not be modified.
func (s *Surface) Vert(v VertIdx) *Vert {
	if v < 0 || int(v) >= len(s.verts) {
		return nil
	}
	return s.verts[v]
}

// Edge returns the edge at e or nil. The result must not be modified.
func (s *Surface) Edge(e EdgeIdx) *Edge {
	if e < 0 || int(e) >= len(s.edges) {
		return nil
	}
	return s.edges[e]
}

// Face returns the face at f or nil. The result must not be modified.
func (s *Surface) Face(f FaceIdx) *Face {
	if f < 0 || int(f) >= len(s.faces) {
		return nil
	}
	return s.faces[f]
}

// VertIdxs returns the indices of all live vertices in ascending order.
func (s *Surface) VertIdxs() []VertIdx { return liveIdxs[VertIdx](s.verts, s.nv) }

// EdgeIdxs returns the indices of all live edges in ascending order.
func (s *Surface) EdgeIdxs() []EdgeIdx { return liveIdxs[EdgeIdx](s.edges, s.ne) }

// FaceIdxs returns the indices of all live faces in ascending order.
func (s *Surface) FaceIdxs() []FaceIdx { return liveIdxs[FaceIdx](s.faces, s.nf) }

// FacePositions returns the corner positions of f in winding order.
func (s *Surface) FacePositions(f FaceIdx) []r3.Vec {
	face := s.faces[f]
	pts := make([]r3.Vec, len(face.Verts))
	for i, v := range face.Verts {
		pts[i] = s.verts[v].Pos
	}
	return pts
}

// FaceNormal returns the outward unit normal of f.
func (s *Surface) FaceNormal(f FaceIdx) r3.Vec {
	return s.lazy(&s.faceNormal, len(s.faces), int(f), func() r3.Vec {
		return PolygonNormal(s.FacePositions(f))
	})
}

// FaceCentroid returns the mean of the corners of f.
func (s *Surface) FaceCentroid(f FaceIdx) r3.Vec {
	return s.lazy(&s.faceCenter, len(s.faces), int(f), func() r3.Vec {
		return Centroid(s.FacePositions(f))
	})
}

// FaceBounds returns the axis aligned bounds of f.
func (s *Surface) FaceBounds(f FaceIdx) d3.Box {
	return d3.Set(s.FacePositions(f)).Bounds()
}

// VertNormal returns the normalized mean of the normals of the faces around v.
func (s *Surface) VertNormal(v VertIdx) r3.Vec {
	return s.lazy(&s.vertNormal, len(s.verts), int(v), func() r3.Vec {
		var sum r3.Vec
		for _, f := range s.verts[v].Faces {
			sum = r3.Add(sum, s.FaceNormal(f))
		}
		return d3.UnitOrZero(sum)
	})
}

// EdgeNormal returns the normalized mean of the normals of the two faces of e.
func (s *Surface) EdgeNormal(e EdgeIdx) r3.Vec {
	edge := s.edges[e]
	return d3.UnitOrZero(r3.Add(s.FaceNormal(edge.Forwards), s.FaceNormal(edge.Backwards)))
}

// EdgeMid returns the midpoint of e.
func (s *Surface) EdgeMid(e EdgeIdx) r3.Vec {
	edge := s.edges[e]
	return d3.Mid(s.verts[edge.Start].Pos, s.verts[edge.End].Pos)
}

// EdgeLength returns the distance between the endpoints of e.
func (s *Surface) EdgeLength(e EdgeIdx) float64 {
	edge := s.edges[e]
	return r3.Norm(r3.Sub(s.verts[edge.End].Pos, s.verts[edge.Start].Pos))
}

// EdgeDihedral returns the angle in degrees between the normals of the two
// faces of e. Flat edges give 0.
func (s *Surface) EdgeDihedral(e EdgeIdx) float64 {
	edge := s.edges[e]
	return DihedralDegrees(s.FaceNormal(edge.Forwards), s.FaceNormal(edge.Backwards))
}

// Bounds returns the axis aligned bounds of every live vertex.
// The bounds of an empty surface are the zero box.
func (s *Surface) Bounds() d3.Box {
	pts := make(d3.Set, 0, s.nv)
	for _, v := range s.verts {
		if v != nil {
			pts = append(pts, v.Pos)
		}
	}
	if len(pts) == 0 {
		return d3.Box{}
	}
	return pts.Bounds()
}

// Builder returns a new Builder holding a deep copy of s with the same indices.
// The surface remains usable.
func (s *Surface) Builder() *Builder {
	b := NewBuilder()
	b.verts = make([]*Vert, len(s.verts))
	for i, v := range s.verts {
		if v != nil {
			b.verts[i] = v.clone()
		}
	}
	b.edges = make([]*Edge, len(s.edges))
	for i, e := range s.edges {
		if e == nil {
			continue
		}
		c := *e
		b.edges[i] = &c
		b.made[[2]VertIdx{c.Start, c.End}] = EdgeIdx(i)
	}
	b.faces = make([]*Face, len(s.faces))
	for i, f := range s.faces {
		if f != nil {
			b.faces[i] = f.clone()
		}
	}
	b.nv, b.ne, b.nf = s.nv, s.ne, s.nf
	return b
}
