package merge

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/soypat/subd"
	"github.com/soypat/subd/internal/d3"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// faceEntry is a face indexed by its inflated bounds.
type faceEntry struct {
	f    subd.FaceIdx
	rect rtreego.Rect
}

func (e *faceEntry) Bounds() rtreego.Rect { return e.rect }

func boxRect(box d3.Box) rtreego.Rect {
	size := box.Size()
	r, err := rtreego.NewRect(
		rtreego.Point{box.Min.X, box.Min.Y, box.Min.Z},
		[]float64{size.X, size.Y, size.Z},
	)
	if err != nil {
		// Boxes are inflated before conversion so every side is positive.
		panic(err)
	}
	return r
}

// mergeFaces fuses face pairs until a full pass finds none and returns
// the number of pairs fused.
func (m *Engine) mergeFaces(b *subd.Builder, log *zap.Logger) int {
	total := 0
	for {
		n := m.mergeFacesPass(b, log)
		total += n
		if n == 0 {
			return total
		}
	}
}

func (m *Engine) mergeFacesPass(b *subd.Builder, log *zap.Logger) int {
	tol := m.tolerance()
	faces := b.FaceIdxs()
	if len(faces) < 2 {
		return 0
	}
	tree := rtreego.NewTree(3, 4, 16)
	rects := make(map[subd.FaceIdx]rtreego.Rect, len(faces))
	for _, f := range faces {
		e := &faceEntry{f: f, rect: boxRect(b.FaceBounds(f).Enlarge(tol))}
		rects[f] = e.rect
		tree.Insert(e)
	}

	fused := 0
	for _, f1 := range faces {
		if b.Face(f1) == nil {
			continue
		}
		hits := tree.SearchIntersect(rects[f1])
		candidates := make([]subd.FaceIdx, 0, len(hits))
		for _, h := range hits {
			if f2 := h.(*faceEntry).f; f2 != f1 {
				candidates = append(candidates, f2)
			}
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
		for _, f2 := range candidates {
			if b.Face(f1) == nil {
				break
			}
			if b.Face(f2) == nil || !m.mergeTargets(b, f1, f2) {
				continue
			}
			log.Debug("fusing faces", zap.Int("leaving", int(f1)), zap.Int("remaining", int(f2)))
			fuse(b, f1, f2)
			checkBuilder(b, "fusing faces")
			fused++
		}
	}
	return fused
}

func (m *Engine) mergeTargets(b *subd.Builder, f1, f2 subd.FaceIdx) bool {
	face1, face2 := b.Face(f1), b.Face(f2)
	if len(face1.Verts) != len(face2.Verts) {
		return false
	}
	if m.forbiddenPair(face1.Identities, face2.Identities) {
		return false
	}
	return geometryMergeable(b, f1, f2)
}

// geometryMergeable reports whether two faces lie on top of each other
// facing opposite ways.
func geometryMergeable(b *subd.Builder, f1, f2 subd.FaceIdx) bool {
	if r3.Dot(b.FaceNormal(f1), b.FaceNormal(f2)) > normalDotLimit {
		return false
	}
	pts1, pts2 := b.FacePositions(f1), b.FacePositions(f2)
	used := make([]bool, len(pts2))
outer:
	for _, p1 := range pts1 {
		for j, p2 := range pts2 {
			if !used[j] && r3.Norm2(r3.Sub(p1, p2)) < vertDist2 {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// fuse removes two coincident faces and joins the surfaces around them.
// The vertices and edges of f2 survive; those of f1 are spliced into them.
func fuse(b *subd.Builder, f1, f2 subd.FaceIdx) {
	face1, face2 := b.Face(f1), b.Face(f2)
	pairs := pairEdges(b, face1.Edges, face2.Edges)
	b.RemoveAndUnlinkFace(f1)
	b.RemoveAndUnlinkFace(f2)

	for _, p := range pairs {
		leaving, remaining := p[0], p[1]
		if leaving != remaining {
			splice(b, leaving, remaining)
			continue
		}
		// Already shared from an earlier fuse where several parts meet
		// along one edge. Drop it once no face borders it.
		edge := b.Edge(leaving)
		if edge == nil || len(edge.Faces()) > 0 {
			continue
		}
		for _, v := range [2]subd.VertIdx{edge.Start, edge.End} {
			if vert := b.Vert(v); vert != nil {
				vert.Edges = without(vert.Edges, leaving)
			}
		}
		b.DeleteEdge(leaving)
	}

	remaining := make(map[subd.VertIdx]bool, len(face2.Verts))
	for _, v := range face2.Verts {
		if vert := b.Vert(v); vert != nil && len(vert.Faces) > 0 {
			remaining[v] = true
		}
	}
	for _, v := range face2.Verts {
		if remaining[v] {
			b.SortVert(v, subd.Permissive)
		}
	}
	for _, v := range append(append([]subd.VertIdx(nil), face1.Verts...), face2.Verts...) {
		if !remaining[v] && b.Vert(v) != nil {
			b.DeleteVert(v)
		}
	}
}

// pairEdges matches the edges of two coincident faces. The faces wind in
// opposite directions so edges1 is walked forwards and edges2 backwards
// from the closest pair of edge midpoints.
func pairEdges(b *subd.Builder, edges1, edges2 []subd.EdgeIdx) [][2]subd.EdgeIdx {
	n := len(edges1)
	i1, i2 := closestEdgePair(b, edges1, edges2)
	pairs := make([][2]subd.EdgeIdx, n)
	for i := range pairs {
		pairs[i] = [2]subd.EdgeIdx{
			edges1[(i1+i)%n],
			edges2[(i2-i+n)%n],
		}
	}
	return pairs
}

// closestEdgePair hill climbs both edge cycles towards the pair of edges
// with the closest midpoints.
func closestEdgePair(b *subd.Builder, edges1, edges2 []subd.EdgeIdx) (i1, i2 int) {
	n := len(edges1)
	d2 := func(i, j int) float64 {
		return r3.Norm2(r3.Sub(edgeMid(b, edges1[i]), edgeMid(b, edges2[j])))
	}
	best := d2(0, 0)
	for changed := true; changed; {
		changed = false
		for _, step := range [2]int{1, n - 1} {
			if d := d2((i1+step)%n, i2); d < best {
				i1, best, changed = (i1+step)%n, d, true
				break
			}
		}
		for _, step := range [2]int{1, n - 1} {
			if d := d2(i1, (i2+step)%n); d < best {
				i2, best, changed = (i2+step)%n, d, true
				break
			}
		}
	}
	return i1, i2
}

func edgeMid(b *subd.Builder, e subd.EdgeIdx) r3.Vec {
	edge := b.Edge(e)
	return d3.Mid(b.Vert(edge.Start).Pos, b.Vert(edge.End).Pos)
}

// splice joins leaving into remaining. Each endpoint of leaving is replaced
// by the nearer endpoint of remaining, the face still bordering leaving moves
// onto the free slot of remaining and leaving is deleted.
func splice(b *subd.Builder, leaving, remaining subd.EdgeIdx) {
	le, re := b.Edge(leaving), b.Edge(remaining)
	l1, l2 := le.Start, le.End
	r1, r2 := re.Start, re.End
	p := b.Vert(l1).Pos
	if d3.OrthoDist(p, b.Vert(r1).Pos) >= d3.OrthoDist(p, b.Vert(r2).Pos) {
		r1, r2 = r2, r1
	}
	swapVert(b, l1, r1, leaving)
	swapVert(b, l2, r2, leaving)

	moving := le.Forwards
	if moving == subd.NoFace {
		moving = le.Backwards
	}
	if moving != subd.NoFace {
		if re.Forwards == subd.NoFace {
			re.Forwards = moving
		} else {
			re.Backwards = moving
		}
		face := b.Face(moving)
		for i, e := range face.Edges {
			if e == leaving {
				face.Edges[i] = remaining
			}
		}
	}
	b.DeleteEdge(leaving)
}

// swapVert moves every reference to from onto to and merges the edge and face
// lists of from into those of to, dropping the leaving edge.
func swapVert(b *subd.Builder, from, to subd.VertIdx, leaving subd.EdgeIdx) {
	tv := b.Vert(to)
	if from == to {
		tv.Edges = without(tv.Edges, leaving)
		return
	}
	fv := b.Vert(from)
	for _, e := range fv.Edges {
		if e == leaving {
			continue
		}
		edge := b.Edge(e)
		start, end := edge.Start, edge.End
		if start == from {
			start = to
		}
		if end == from {
			end = to
		}
		b.SetEdgeEnds(e, start, end)
	}
	for _, f := range fv.Faces {
		face := b.Face(f)
		for i, v := range face.Verts {
			if v == from {
				face.Verts[i] = to
			}
		}
		face.Canonicalize()
	}
	tv.Edges = without(union(tv.Edges, fv.Edges), leaving)
	tv.Faces = union(tv.Faces, fv.Faces)
	fv.Edges, fv.Faces = nil, nil
}

func union[T comparable](a, b []T) []T {
	seen := make(map[T]bool, len(a)+len(b))
	out := make([]T, 0, len(a)+len(b))
	for _, s := range [2][]T{a, b} {
		for _, x := range s {
			if !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		}
	}
	return out
}

func without[T comparable](s []T, x T) []T {
	out := make([]T, 0, len(s))
	for _, y := range s {
		if y != x {
			out = append(out, y)
		}
	}
	return out
}
