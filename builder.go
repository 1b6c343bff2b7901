package subd

import (
	"fmt"

	"github.com/soypat/subd/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Builder is the mutable phase of a surface. A Builder is consumed by Build
// and must not be used afterwards. A Builder is not safe for concurrent use.
//
// Entity pointers returned by Vert, Edge and Face remain valid for the
// lifetime of the Builder, until the entity is removed.
type Builder struct {
	verts []*Vert
	edges []*Edge
	faces []*Face
	nv    int
	ne    int
	nf    int
	// made indexes every edge by its (Start, End) orientation.
	made map[[2]VertIdx]EdgeIdx
	pool *VertexPool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{made: make(map[[2]VertIdx]EdgeIdx)}
}

func (b *Builder) init() {
	if b.made == nil {
		b.made = make(map[[2]VertIdx]EdgeIdx)
	}
}

// NumVerts returns the number of live vertices.
func (b *Builder) NumVerts() int { return b.nv }

// NumEdges returns the number of live edges.
func (b *Builder) NumEdges() int { return b.ne }

// NumFaces returns the number of live faces.
func (b *Builder) NumFaces() int { return b.nf }

// FaceCap returns one more than the highest face index ever assigned.
func (b *Builder) FaceCap() int { return len(b.faces) }

// Vert returns the vertex at v or nil if it was removed or never existed.
func (b *Builder) Vert(v VertIdx) *Vert {
	if v < 0 || int(v) >= len(b.verts) {
		return nil
	}
	return b.verts[v]
}

// Edge returns the edge at e or nil if it was removed or never existed.
func (b *Builder) Edge(e EdgeIdx) *Edge {
	if e < 0 || int(e) >= len(b.edges) {
		return nil
	}
	return b.edges[e]
}

// Face returns the face at f or nil if it was removed or never existed.
func (b *Builder) Face(f FaceIdx) *Face {
	if f < 0 || int(f) >= len(b.faces) {
		return nil
	}
	return b.faces[f]
}

// VertIdxs returns the indices of all live vertices in ascending order.
func (b *Builder) VertIdxs() []VertIdx { return liveIdxs[VertIdx](b.verts, b.nv) }

// EdgeIdxs returns the indices of all live edges in ascending order.
func (b *Builder) EdgeIdxs() []EdgeIdx { return liveIdxs[EdgeIdx](b.edges, b.ne) }

// FaceIdxs returns the indices of all live faces in ascending order.
func (b *Builder) FaceIdxs() []FaceIdx { return liveIdxs[FaceIdx](b.faces, b.nf) }

func liveIdxs[I ~int, T any](items []*T, n int) []I {
	idxs := make([]I, 0, n)
	for i, it := range items {
		if it != nil {
			idxs = append(idxs, I(i))
		}
	}
	return idxs
}

// AddVert appends a vertex and returns its index.
func (b *Builder) AddVert(v Vert) VertIdx {
	b.verts = append(b.verts, &v)
	b.nv++
	return VertIdx(len(b.verts) - 1)
}

// AddEdge appends an edge and returns its index. The edge is registered in the
// orientation index but not linked to its endpoints.
func (b *Builder) AddEdge(e Edge) EdgeIdx {
	b.init()
	b.edges = append(b.edges, &e)
	b.ne++
	idx := EdgeIdx(len(b.edges) - 1)
	if e.Start != NoVert && e.End != NoVert {
		b.made[[2]VertIdx{e.Start, e.End}] = idx
	}
	return idx
}

// AddFace canonicalizes and appends a face and returns its index.
// The face is not linked to its vertices or edges.
func (b *Builder) AddFace(f Face) FaceIdx {
	f.Canonicalize()
	b.faces = append(b.faces, &f)
	b.nf++
	return FaceIdx(len(b.faces) - 1)
}

// FacePositions returns the corner positions of f in winding order.
func (b *Builder) FacePositions(f FaceIdx) []r3.Vec {
	face := b.mustFace(f)
	pts := make([]r3.Vec, len(face.Verts))
	for i, v := range face.Verts {
		pts[i] = b.mustVert(v).Pos
	}
	return pts
}

// FaceNormal returns the outward unit normal of f. It is not cached.
func (b *Builder) FaceNormal(f FaceIdx) r3.Vec {
	return PolygonNormal(b.FacePositions(f))
}

// FaceBounds returns the axis aligned bounds of f.
func (b *Builder) FaceBounds(f FaceIdx) d3.Box {
	return d3.Set(b.FacePositions(f)).Bounds()
}

// SetVertPos moves a vertex.
func (b *Builder) SetVertPos(v VertIdx, pos r3.Vec) {
	b.mustVert(v).Pos = pos
}

// FindEdge returns the edge running from start to end, or NoEdge.
func (b *Builder) FindEdge(start, end VertIdx) EdgeIdx {
	if e, ok := b.made[[2]VertIdx{start, end}]; ok {
		return e
	}
	return NoEdge
}

// SetEdgeEnds reassigns the endpoints of e and reindexes it under its new
// orientation unless another edge already holds that orientation.
// Vertex edge lists are not touched.
func (b *Builder) SetEdgeEnds(e EdgeIdx, start, end VertIdx) {
	edge := b.mustEdge(e)
	b.unindex(e)
	edge.Start, edge.End = start, end
	key := [2]VertIdx{start, end}
	if _, taken := b.made[key]; !taken && start != NoVert && end != NoVert {
		b.made[key] = e
	}
}

func (b *Builder) unindex(e EdgeIdx) {
	edge := b.edges[e]
	key := [2]VertIdx{edge.Start, edge.End}
	if got, ok := b.made[key]; ok && got == e {
		delete(b.made, key)
	}
}

// InsertFace adds a face through the strict insertion protocol: every edge must be
// traversed forwards exactly once and backwards exactly once over all insertions.
// An edge already existing in the reverse orientation is reused as this face's
// Backwards edge, otherwise a new edge is created with the corner's metadata.
// Traversing an existing orientation a second time panics.
func (b *Builder) InsertFace(corners []Corner, props FaceProps) FaceIdx {
	return b.insertFace(corners, props, false)
}

// InsertFacePermissive is like InsertFace but first reuses an edge existing in the
// same orientation whose Forwards slot is free. It is used to add faces into a
// region of an already finished surface, such as when punching holes.
func (b *Builder) InsertFacePermissive(corners []Corner, props FaceProps) FaceIdx {
	return b.insertFace(corners, props, true)
}

func (b *Builder) insertFace(corners []Corner, props FaceProps, permissive bool) FaceIdx {
	b.init()
	n := len(corners)
	if n < 3 {
		panic(fmt.Sprintf("subd: face needs at least 3 corners, got %d", n))
	}
	verts := make([]VertIdx, n)
	edges := make([]EdgeIdx, n)
	forwards := make([]bool, n)
	for i, c := range corners {
		next := corners[(i+1)%n].Vert
		verts[i] = c.Vert
		fwd := [2]VertIdx{c.Vert, next}
		if e, ok := b.made[fwd]; ok {
			if !permissive || b.edges[e].Forwards != NoFace {
				panic(fmt.Sprintf("subd: edge %d->%d traversed forwards twice", c.Vert, next))
			}
			edges[i], forwards[i] = e, true
			continue
		}
		if e, ok := b.made[[2]VertIdx{next, c.Vert}]; ok {
			if b.edges[e].Backwards != NoFace {
				panic(fmt.Sprintf("subd: edge %d->%d traversed backwards twice", next, c.Vert))
			}
			edges[i] = e
			continue
		}
		e := b.AddEdge(Edge{
			Start:     c.Vert,
			End:       next,
			Forwards:  NoFace,
			Backwards: NoFace,
			Sharp:     c.Sharp,
			Tag:       c.Tag,
		})
		sv, ev := b.mustVert(c.Vert), b.mustVert(next)
		sv.Edges = append(sv.Edges, e)
		ev.Edges = append(ev.Edges, e)
		edges[i], forwards[i] = e, true
	}
	f := b.AddFace(Face{
		Verts:      verts,
		Edges:      edges,
		Tag:        props.Tag,
		Identities: append([]Identity(nil), props.Identities...),
	})
	for _, v := range verts {
		vert := b.verts[v]
		vert.Faces = append(vert.Faces, f)
	}
	for i, e := range edges {
		if forwards[i] {
			b.edges[e].Forwards = f
		} else {
			b.edges[e].Backwards = f
		}
	}
	return f
}

// RemoveAndUnlinkFace detaches f from its edges' face slots and its vertices'
// face lists, then deletes the face.
func (b *Builder) RemoveAndUnlinkFace(f FaceIdx) {
	face := b.mustFace(f)
	for _, e := range face.Edges {
		if edge := b.Edge(e); edge != nil {
			edge.clearFace(f)
		}
	}
	for _, v := range face.Verts {
		if vert := b.Vert(v); vert != nil {
			vert.Faces = removeFaceIdx(vert.Faces, f)
		}
	}
	b.faces[f] = nil
	b.nf--
}

// RemoveAndUnlinkEdge detaches e from its faces' edge lists and its endpoints'
// edge lists, then deletes the edge.
func (b *Builder) RemoveAndUnlinkEdge(e EdgeIdx) {
	edge := b.mustEdge(e)
	for _, f := range edge.Faces() {
		if face := b.Face(f); face != nil {
			face.Edges = removeEdgeIdx(face.Edges, e)
		}
	}
	for _, v := range [2]VertIdx{edge.Start, edge.End} {
		if vert := b.Vert(v); vert != nil {
			vert.Edges = removeEdgeIdx(vert.Edges, e)
		}
	}
	b.DeleteEdge(e)
}

// RemoveAndUnlinkVert detaches v from the endpoint slots of its edges and from the
// vertex lists of its faces, then deletes it. The edges are left dangling with a
// NoVert endpoint, which is only valid as a step towards deleting them too.
func (b *Builder) RemoveAndUnlinkVert(v VertIdx) {
	vert := b.mustVert(v)
	for _, e := range vert.Edges {
		edge := b.Edge(e)
		if edge == nil {
			continue
		}
		start, end := edge.Start, edge.End
		if start == v {
			start = NoVert
		}
		if end == v {
			end = NoVert
		}
		b.SetEdgeEnds(e, start, end)
	}
	for _, f := range vert.Faces {
		face := b.Face(f)
		if face == nil {
			continue
		}
		if i := face.VertIndex(v); i >= 0 {
			face.Verts[i] = NoVert
		}
	}
	b.DeleteVert(v)
}

// DeleteEdge deletes the edge record without touching anything referring to it.
func (b *Builder) DeleteEdge(e EdgeIdx) {
	b.mustEdge(e)
	b.unindex(e)
	b.edges[e] = nil
	b.ne--
}

// DeleteVert deletes the vertex record without touching anything referring to it.
func (b *Builder) DeleteVert(v VertIdx) {
	b.mustVert(v)
	b.verts[v] = nil
	b.nv--
}

// Concat deep-copies every live entity of s into the builder, remapping all
// references. The copied entities form components disjoint from the existing
// ones; no geometry is merged.
func (b *Builder) Concat(s *Surface) {
	b.concat(s.verts, s.edges, s.faces)
}

func (b *Builder) concat(verts []*Vert, edges []*Edge, faces []*Face) {
	b.init()
	vmap := make(map[VertIdx]VertIdx, len(verts))
	emap := make(map[EdgeIdx]EdgeIdx, len(edges))
	fmap := make(map[FaceIdx]FaceIdx, len(faces))
	// Indices are assigned before any references are rewritten.
	for i, v := range verts {
		if v != nil {
			vmap[VertIdx(i)] = VertIdx(len(b.verts) + len(vmap))
		}
	}
	for i, e := range edges {
		if e != nil {
			emap[EdgeIdx(i)] = EdgeIdx(len(b.edges) + len(emap))
		}
	}
	for i, f := range faces {
		if f != nil {
			fmap[FaceIdx(i)] = FaceIdx(len(b.faces) + len(fmap))
		}
	}
	mv := func(v VertIdx) VertIdx {
		if nv, ok := vmap[v]; ok {
			return nv
		}
		return NoVert
	}
	me := func(e EdgeIdx) EdgeIdx {
		if ne, ok := emap[e]; ok {
			return ne
		}
		return NoEdge
	}
	mf := func(f FaceIdx) FaceIdx {
		if nf, ok := fmap[f]; ok {
			return nf
		}
		return NoFace
	}
	for _, v := range verts {
		if v == nil {
			continue
		}
		c := v.clone()
		for i := range c.Edges {
			c.Edges[i] = me(c.Edges[i])
		}
		for i := range c.Faces {
			c.Faces[i] = mf(c.Faces[i])
		}
		b.verts = append(b.verts, c)
		b.nv++
	}
	for _, e := range edges {
		if e == nil {
			continue
		}
		c := *e
		c.Start, c.End = mv(c.Start), mv(c.End)
		c.Forwards, c.Backwards = mf(c.Forwards), mf(c.Backwards)
		b.AddEdge(c)
	}
	for _, f := range faces {
		if f == nil {
			continue
		}
		c := f.clone()
		for i := range c.Verts {
			c.Verts[i] = mv(c.Verts[i])
		}
		for i := range c.Edges {
			c.Edges[i] = me(c.Edges[i])
		}
		c.Canonicalize()
		b.faces = append(b.faces, c)
		b.nf++
	}
}

// Build validates the builder when debug checks are enabled and freezes it into
// a Surface. An invariant violation panics. The builder must not be used afterwards.
func (b *Builder) Build() *Surface {
	if debugChecks {
		if err := b.Validate(); err != nil {
			panic(err)
		}
	}
	s := &Surface{
		verts: b.verts,
		edges: b.edges,
		faces: b.faces,
		nv:    b.nv,
		ne:    b.ne,
		nf:    b.nf,
	}
	*b = Builder{}
	return s
}

func (b *Builder) mustVert(v VertIdx) *Vert {
	vert := b.Vert(v)
	if vert == nil {
		panic(fmt.Sprintf("subd: no vertex %d", v))
	}
	return vert
}

func (b *Builder) mustEdge(e EdgeIdx) *Edge {
	edge := b.Edge(e)
	if edge == nil {
		panic(fmt.Sprintf("subd: no edge %d", e))
	}
	return edge
}

func (b *Builder) mustFace(f FaceIdx) *Face {
	face := b.Face(f)
	if face == nil {
		panic(fmt.Sprintf("subd: no face %d", f))
	}
	return face
}
