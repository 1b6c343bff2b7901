package subd

import "fmt"

// SortMode selects how SortVert treats a vertex shared by more than one fan.
type SortMode int

const (
	// Strict panics when a vertex's edges do not form a single cycle.
	Strict SortMode = iota
	// Permissive splits every further cycle off onto a clone of the vertex.
	Permissive
)

func (m SortMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	}
	return fmt.Sprintf("SortMode(%d)", int(m))
}

// SortVert rewrites the edge and face lists of v into clockwise cyclic order
// so that Faces[i] lies between Edges[i] and Edges[i+1]. The walk starts at
// the first listed edge and steps to the preceding edge of each departing face.
//
// When the walk closes without consuming every incident edge the vertex
// joins several fans. In Permissive mode the remaining edges and their faces
// are moved onto a new vertex at the same position which is then sorted the
// same way. The indices of all such clones are returned. Strict mode panics.
// Vertices without edges are left untouched.
func (b *Builder) SortVert(v VertIdx, mode SortMode) []VertIdx {
	var clones []VertIdx
	for {
		edges, faces := b.sortFan(v)
		if len(edges) == 0 {
			return clones
		}
		if mode == Strict {
			panic(fmt.Sprintf("subd: vertex %d is shared by more than one fan", v))
		}
		v = b.splitVert(v, edges, faces)
		clones = append(clones, v)
	}
}

// SortAllVerts sorts every live vertex and returns any clones split off.
func (b *Builder) SortAllVerts(mode SortMode) []VertIdx {
	var clones []VertIdx
	for _, v := range b.VertIdxs() {
		clones = append(clones, b.SortVert(v, mode)...)
	}
	return clones
}

// sortFan orders the first fan around v and returns the edges and faces
// which were not part of it.
func (b *Builder) sortFan(v VertIdx) (leftEdges []EdgeIdx, leftFaces []FaceIdx) {
	vert := b.mustVert(v)
	if len(vert.Edges) == 0 {
		return nil, nil
	}
	start := vert.Edges[0]
	tourEdges := make([]EdgeIdx, 0, len(vert.Edges))
	tourFaces := make([]FaceIdx, 0, len(vert.Edges))
	e := start
	for {
		edge := b.mustEdge(e)
		var f FaceIdx
		switch v {
		case edge.Start:
			f = edge.Forwards
		case edge.End:
			f = edge.Backwards
		default:
			panic(fmt.Sprintf("subd: vertex %d lists edge %d which does not touch it", v, e))
		}
		if f == NoFace {
			panic(fmt.Sprintf("subd: edge %d has no face departing vertex %d", e, v))
		}
		face := b.mustFace(f)
		i := face.EdgeIndex(e)
		if i < 0 {
			panic(fmt.Sprintf("subd: face %d does not list its edge %d", f, e))
		}
		tourEdges = append(tourEdges, e)
		tourFaces = append(tourFaces, f)
		n := len(face.Edges)
		e = face.Edges[(i+n-1)%n]
		if e == start {
			break
		}
		if len(tourEdges) > len(vert.Edges) {
			panic(fmt.Sprintf("subd: walk around vertex %d does not close", v))
		}
	}
	inTour := make(map[EdgeIdx]bool, len(tourEdges))
	for _, e := range tourEdges {
		inTour[e] = true
	}
	for _, e := range vert.Edges {
		if !inTour[e] {
			leftEdges = append(leftEdges, e)
		}
	}
	if len(leftEdges) == 0 {
		vert.Edges, vert.Faces = tourEdges, tourFaces
		return nil, nil
	}
	inFan := make(map[FaceIdx]bool, len(tourFaces))
	for _, f := range tourFaces {
		inFan[f] = true
	}
	for _, f := range vert.Faces {
		if !inFan[f] {
			leftFaces = append(leftFaces, f)
		}
	}
	vert.Edges, vert.Faces = tourEdges, tourFaces
	return leftEdges, leftFaces
}

// splitVert moves edges and faces from v onto a new vertex at the same position.
func (b *Builder) splitVert(v VertIdx, edges []EdgeIdx, faces []FaceIdx) VertIdx {
	orig := b.mustVert(v)
	clone := b.AddVert(Vert{
		Pos:   orig.Pos,
		Edges: edges,
		Faces: faces,
		Sharp: orig.Sharp,
		Tag:   orig.Tag,
	})
	for _, e := range edges {
		edge := b.mustEdge(e)
		start, end := edge.Start, edge.End
		if start == v {
			start = clone
		}
		if end == v {
			end = clone
		}
		b.SetEdgeEnds(e, start, end)
	}
	for _, f := range faces {
		face := b.mustFace(f)
		for i, fv := range face.Verts {
			if fv == v {
				face.Verts[i] = clone
			}
		}
		face.Canonicalize()
	}
	return clone
}
