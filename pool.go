package subd

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// PoolTolerance is the distance below which two submitted positions are
// considered the same vertex.
const PoolTolerance = 1e-6

// VertexPool maps positions to vertex indices so that generators submitting
// polygon soup share corners between faces.
type VertexPool struct {
	tree kdtree.Tree
	tol2 float64
}

// NewVertexPool returns a pool matching positions within tol of each other.
func NewVertexPool(tol float64) *VertexPool {
	return &VertexPool{tol2: tol * tol}
}

// Find returns the vertex stored closest to pos if within tolerance.
func (p *VertexPool) Find(pos r3.Vec) (VertIdx, bool) {
	if p.tree.Root == nil {
		return NoVert, false
	}
	got, d2 := p.tree.Nearest(&poolPoint{pos: pos})
	if got == nil || d2 > p.tol2 {
		return NoVert, false
	}
	return got.(*poolPoint).v, true
}

// Add records that v sits at pos.
func (p *VertexPool) Add(pos r3.Vec, v VertIdx) {
	p.tree.Insert(&poolPoint{pos: pos, v: v}, false)
}

// Len returns the number of positions in the pool.
func (p *VertexPool) Len() int { return p.tree.Count }

type poolPoint struct {
	pos r3.Vec
	v   VertIdx
}

var _ kdtree.Comparable = (*poolPoint)(nil)

func (p *poolPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*poolPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	case 2:
		return p.pos.Z - q.pos.Z
	}
	panic("unreachable")
}

func (p *poolPoint) Dims() int { return 3 }

func (p *poolPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.pos, c.(*poolPoint).pos))
}

// VertAt returns the vertex at pos, creating it if the builder's pool has none.
func (b *Builder) VertAt(pos r3.Vec) VertIdx {
	if b.pool == nil {
		b.pool = NewVertexPool(PoolTolerance)
	}
	if v, ok := b.pool.Find(pos); ok {
		return v
	}
	v := b.AddVert(Vert{Pos: pos})
	b.pool.Add(pos, v)
	return v
}

// BeginFace submits a polygon given by its corner positions in clockwise order.
// Corners are shared with earlier submissions through VertAt. sharp[i] and
// tags[i] describe the edge leaving corner i; either slice may be nil.
// Every face of a closed surface must be submitted before the vertices are sorted.
func (b *Builder) BeginFace(positions []r3.Vec, sharp []bool, tags []string, faceTag string, id Identity) FaceIdx {
	corners := make([]Corner, len(positions))
	for i, pos := range positions {
		corners[i].Vert = b.VertAt(pos)
		if sharp != nil {
			corners[i].Sharp = sharp[i]
		}
		if tags != nil {
			corners[i].Tag = tags[i]
		}
	}
	props := FaceProps{Tag: faceTag}
	if id != nil {
		props.Identities = []Identity{id}
	}
	return b.InsertFace(corners, props)
}
