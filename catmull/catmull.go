// Package catmull implements Catmull-Clark subdivision of closed surfaces
// with sharp edges, creases and corner vertices.
package catmull

import (
	"github.com/soypat/subd"
	"github.com/soypat/subd/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Subdivide returns the surface obtained by one Catmull-Clark pass over s.
// s is not modified.
//
// Every vertex of s keeps its index in the result, repositioned according to
// the number of author-sharp edges meeting at it. Face-points and edge-points
// are appended after them. Each face with n edges becomes n quads which copy
// the face's tag and identities. Halves of a split edge inherit its sharpness
// and tag.
func Subdivide(s *subd.Surface) *subd.Surface {
	b := subd.NewBuilder()
	for i := 0; i < s.VertCap(); i++ {
		vert := s.Vert(subd.VertIdx(i))
		if vert == nil {
			// Keep the index slot so original indices survive.
			b.DeleteVert(b.AddVert(subd.Vert{}))
			continue
		}
		b.AddVert(subd.Vert{Pos: vert.Pos, Sharp: vert.Sharp, Tag: vert.Tag})
	}

	facePoint := make(map[subd.FaceIdx]subd.VertIdx, s.NumFaces())
	for _, f := range s.FaceIdxs() {
		facePoint[f] = b.AddVert(subd.Vert{Pos: s.FaceCentroid(f)})
	}
	fpPos := func(f subd.FaceIdx) r3.Vec { return b.Vert(facePoint[f]).Pos }

	edgePoint := make(map[subd.EdgeIdx]subd.VertIdx, s.NumEdges())
	for _, e := range s.EdgeIdxs() {
		edge := s.Edge(e)
		pos := s.EdgeMid(e)
		if !edge.Sharp {
			pos = d3.Set{
				s.Vert(edge.Start).Pos,
				s.Vert(edge.End).Pos,
				fpPos(edge.Forwards),
				fpPos(edge.Backwards),
			}.Mean()
		}
		edgePoint[e] = b.AddVert(subd.Vert{Pos: pos})
	}

	for _, v := range s.VertIdxs() {
		b.SetVertPos(v, reposition(s, v, fpPos))
	}

	for _, f := range s.FaceIdxs() {
		face := s.Face(f)
		props := subd.FaceProps{Tag: face.Tag, Identities: face.Identities}
		n := len(face.Edges)
		for i, e := range face.Edges {
			prev := face.Edges[(i+n-1)%n]
			edge, prevEdge := s.Edge(e), s.Edge(prev)
			b.InsertFace([]subd.Corner{
				{Vert: face.Verts[i], Sharp: edge.Sharp, Tag: edge.Tag},
				{Vert: edgePoint[e]},
				{Vert: facePoint[f]},
				{Vert: edgePoint[prev], Sharp: prevEdge.Sharp, Tag: prevEdge.Tag},
			}, props)
		}
	}

	b.SortAllVerts(subd.Strict)
	return b.Build()
}

// SubdivideN applies Subdivide n times. n <= 0 returns s.
func SubdivideN(s *subd.Surface, n int) *subd.Surface {
	for i := 0; i < n; i++ {
		s = Subdivide(s)
	}
	return s
}

// reposition returns the new position of an original vertex.
func reposition(s *subd.Surface, v subd.VertIdx, facePoint func(subd.FaceIdx) r3.Vec) r3.Vec {
	vert := s.Vert(v)
	n := len(vert.Edges)
	var creaseEnds []r3.Vec
	for _, e := range vert.Edges {
		if edge := s.Edge(e); edge.Sharp {
			creaseEnds = append(creaseEnds, s.Vert(edge.Other(v)).Pos)
		}
	}
	k := len(creaseEnds)
	switch {
	case vert.Sharp || k > 2 || n == 0:
		return vert.Pos
	case k == 2:
		// Crease rule.
		return r3.Add(r3.Scale(0.75, vert.Pos), r3.Scale(0.125, r3.Add(creaseEnds[0], creaseEnds[1])))
	}
	// Smooth rule: (F + 2R + (n-3)P) / n.
	var fsum, rsum r3.Vec
	for _, f := range vert.Faces {
		fsum = r3.Add(fsum, facePoint(f))
	}
	for _, e := range vert.Edges {
		rsum = r3.Add(rsum, s.EdgeMid(e))
	}
	fn := float64(n)
	F := r3.Scale(1/fn, fsum)
	R := r3.Scale(1/fn, rsum)
	pos := r3.Add(F, r3.Scale(2, R))
	pos = r3.Add(pos, r3.Scale(fn-3, vert.Pos))
	return r3.Scale(1/fn, pos)
}
