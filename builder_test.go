package subd_test

import (
	"strings"
	"testing"

	"github.com/soypat/subd"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cube corners and faces in clockwise winding seen from outside.
var (
	cubeCorners = [8]r3.Vec{
		{X: -.5, Y: -.5, Z: -.5}, // 0 bottom back left
		{X: .5, Y: -.5, Z: -.5},  // 1 bottom back right
		{X: .5, Y: .5, Z: -.5},   // 2 top back right
		{X: -.5, Y: .5, Z: -.5},  // 3 top back left
		{X: -.5, Y: -.5, Z: .5},  // 4 bottom front left
		{X: .5, Y: -.5, Z: .5},   // 5 bottom front right
		{X: .5, Y: .5, Z: .5},    // 6 top front right
		{X: -.5, Y: .5, Z: .5},   // 7 top front left
	}
	cubeFaces = [6][4]int{
		{7, 3, 2, 6}, // top
		{4, 5, 1, 0}, // bottom
		{4, 7, 6, 5}, // front
		{3, 0, 1, 2}, // back
		{5, 6, 2, 1}, // right
		{7, 4, 0, 3}, // left
	}
)

func cubeBuilder(offset r3.Vec) *subd.Builder {
	b := subd.NewBuilder()
	for _, f := range cubeFaces {
		pts := make([]r3.Vec, len(f))
		for i, c := range f {
			pts[i] = r3.Add(cubeCorners[c], offset)
		}
		b.BeginFace(pts, nil, nil, "", nil)
	}
	b.SortAllVerts(subd.Strict)
	return b
}

func TestCubeClosed(t *testing.T) {
	s := cubeBuilder(r3.Vec{}).Build()
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if s.NumVerts() != 8 || s.NumEdges() != 12 || s.NumFaces() != 6 {
		t.Fatalf("got %d verts, %d edges, %d faces", s.NumVerts(), s.NumEdges(), s.NumFaces())
	}
	for _, e := range s.EdgeIdxs() {
		edge := s.Edge(e)
		if edge.Forwards == subd.NoFace || edge.Backwards == subd.NoFace {
			t.Errorf("edge %d is open", e)
		}
	}
	for _, v := range s.VertIdxs() {
		vert := s.Vert(v)
		if len(vert.Edges) != 3 || len(vert.Faces) != 3 {
			t.Errorf("vert %d has %d edges and %d faces", v, len(vert.Edges), len(vert.Faces))
		}
	}
	for _, f := range s.FaceIdxs() {
		// Centred on the origin, every outward normal points along the centroid.
		if r3.Dot(s.FaceNormal(f), s.FaceCentroid(f)) <= 0 {
			t.Errorf("face %d normal %v points inwards", f, s.FaceNormal(f))
		}
	}
}

func TestConcat(t *testing.T) {
	cube := cubeBuilder(r3.Vec{}).Build()
	t.Run("empty", func(t *testing.T) {
		b := subd.NewBuilder()
		b.Concat(cube)
		got := b.Build()
		if got.NumVerts() != cube.NumVerts() || got.NumEdges() != cube.NumEdges() || got.NumFaces() != cube.NumFaces() {
			t.Fatal("concat with empty builder changed entity counts")
		}
		for _, v := range cube.VertIdxs() {
			if got.Vert(v).Pos != cube.Vert(v).Pos {
				t.Errorf("vert %d moved", v)
			}
		}
		for _, f := range cube.FaceIdxs() {
			if !got.Face(f).Equal(cube.Face(f)) {
				t.Errorf("face %d differs: %v != %v", f, got.Face(f).Verts, cube.Face(f).Verts)
			}
		}
	})
	t.Run("append empty", func(t *testing.T) {
		b := cube.Builder()
		b.Concat(subd.NewBuilder().Build())
		got := b.Build()
		if err := got.Validate(); err != nil {
			t.Fatal(err)
		}
		if got.NumVerts() != cube.NumVerts() || got.NumEdges() != cube.NumEdges() || got.NumFaces() != cube.NumFaces() {
			t.Fatal("concat of an empty surface changed entity counts")
		}
		for _, v := range cube.VertIdxs() {
			if got.Vert(v).Pos != cube.Vert(v).Pos {
				t.Errorf("vert %d moved", v)
			}
		}
		for _, e := range cube.EdgeIdxs() {
			want, edge := cube.Edge(e), got.Edge(e)
			if edge.Start != want.Start || edge.End != want.End ||
				edge.Forwards != want.Forwards || edge.Backwards != want.Backwards {
				t.Errorf("edge %d differs: %+v != %+v", e, *edge, *want)
			}
		}
		for _, f := range cube.FaceIdxs() {
			if !got.Face(f).Equal(cube.Face(f)) {
				t.Errorf("face %d differs: %v != %v", f, got.Face(f).Verts, cube.Face(f).Verts)
			}
		}
	})
	t.Run("disjoint", func(t *testing.T) {
		b := cube.Builder()
		b.Concat(cubeBuilder(r3.Vec{X: 3}).Build())
		got := b.Build()
		if err := got.Validate(); err != nil {
			t.Fatal(err)
		}
		if got.NumVerts() != 16 || got.NumEdges() != 24 || got.NumFaces() != 12 {
			t.Fatalf("got %d verts, %d edges, %d faces", got.NumVerts(), got.NumEdges(), got.NumFaces())
		}
	})
}

func TestFaceCanonical(t *testing.T) {
	for _, test := range []struct {
		a, b []subd.VertIdx
		eq   bool
	}{
		{a: []subd.VertIdx{3, 1, 2, 0}, b: []subd.VertIdx{0, 3, 1, 2}, eq: true},
		{a: []subd.VertIdx{1, 2, 0, 3}, b: []subd.VertIdx{2, 0, 3, 1}, eq: true},
		{a: []subd.VertIdx{5, 6, 7}, b: []subd.VertIdx{7, 5, 6}, eq: true},
		{a: []subd.VertIdx{5, 6, 7}, b: []subd.VertIdx{7, 6, 5}, eq: false},
		{a: []subd.VertIdx{1, 2, 3}, b: []subd.VertIdx{1, 2, 3, 4}, eq: false},
	} {
		fa := subd.Face{Verts: append([]subd.VertIdx(nil), test.a...)}
		fb := subd.Face{Verts: append([]subd.VertIdx(nil), test.b...)}
		fa.Canonicalize()
		fb.Canonicalize()
		if fa.Equal(&fb) != test.eq {
			t.Errorf("%v == %v: want %v", test.a, test.b, test.eq)
		}
	}
}

func TestCanonicalKeepsEdges(t *testing.T) {
	f := subd.Face{
		Verts: []subd.VertIdx{4, 2, 9},
		Edges: []subd.EdgeIdx{10, 11, 12},
	}
	f.Canonicalize()
	if f.Verts[0] != 2 || f.Edges[0] != 11 || f.Edges[2] != 10 {
		t.Errorf("got verts %v edges %v", f.Verts, f.Edges)
	}
}

func TestInsertFaceTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic inserting the same orientation twice")
		}
	}()
	b := subd.NewBuilder()
	var corners []subd.Corner
	for _, p := range []r3.Vec{{}, {X: 1}, {Y: 1}} {
		corners = append(corners, subd.Corner{Vert: b.VertAt(p)})
	}
	b.InsertFace(corners, subd.FaceProps{})
	b.InsertFace(corners, subd.FaceProps{})
}

func TestEdgeMetadata(t *testing.T) {
	b := subd.NewBuilder()
	pts := make([]r3.Vec, 4)
	for i, c := range cubeFaces[0] {
		pts[i] = cubeCorners[c]
	}
	f := b.BeginFace(pts, []bool{true, false, false, false}, []string{"a", "", "", ""}, "top", "id")
	face := b.Face(f)
	if face.Tag != "top" || !face.HasIdentity("id") {
		t.Errorf("face metadata lost: %+v", face)
	}
	e := b.FindEdge(b.VertAt(pts[0]), b.VertAt(pts[1]))
	if e == subd.NoEdge {
		t.Fatal("edge not indexed")
	}
	if edge := b.Edge(e); !edge.Sharp || edge.Tag != "a" {
		t.Errorf("edge metadata lost: %+v", edge)
	}
}

// tetra inserts a closed tetrahedron using apex a shared by the caller.
func tetra(b *subd.Builder, a subd.VertIdx, offset r3.Vec) {
	bv := b.VertAt(r3.Add(offset, r3.Vec{X: 1}))
	cv := b.VertAt(r3.Add(offset, r3.Vec{Y: 1}))
	dv := b.VertAt(r3.Add(offset, r3.Vec{Z: 1}))
	for _, f := range [][3]subd.VertIdx{{a, bv, cv}, {a, cv, dv}, {a, dv, bv}, {bv, dv, cv}} {
		b.InsertFace([]subd.Corner{{Vert: f[0]}, {Vert: f[1]}, {Vert: f[2]}}, subd.FaceProps{})
	}
}

func bowtie() (*subd.Builder, subd.VertIdx) {
	b := subd.NewBuilder()
	apex := b.VertAt(r3.Vec{})
	tetra(b, apex, r3.Vec{})
	tetra(b, apex, r3.Vec{X: -1, Y: -1, Z: -1})
	return b, apex
}

func TestSortVert(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		b, apex := bowtie()
		defer func() {
			if recover() == nil {
				t.Error("expected panic sorting a vertex shared by two fans")
			}
		}()
		b.SortVert(apex, subd.Strict)
	})
	t.Run("permissive", func(t *testing.T) {
		b, apex := bowtie()
		clones := b.SortVert(apex, subd.Permissive)
		if len(clones) != 1 {
			t.Fatalf("want 1 clone, got %d", len(clones))
		}
		b.SortAllVerts(subd.Strict)
		if b.Vert(clones[0]).Pos != b.Vert(apex).Pos {
			t.Error("clone moved")
		}
		if b.Vert(apex).Valence() != 3 || b.Vert(clones[0]).Valence() != 3 {
			t.Error("fans not split evenly")
		}
		if err := b.Validate(); err != nil {
			t.Fatal(err)
		}
		s := b.Build()
		if s.NumVerts() != 8 || s.NumFaces() != 8 {
			t.Errorf("got %d verts %d faces", s.NumVerts(), s.NumFaces())
		}
	})
}

func TestRemoveAndUnlinkFace(t *testing.T) {
	b := cubeBuilder(r3.Vec{})
	f := b.FaceIdxs()[0]
	edges := append([]subd.EdgeIdx(nil), b.Face(f).Edges...)
	b.RemoveAndUnlinkFace(f)
	if b.Face(f) != nil || b.NumFaces() != 5 {
		t.Fatal("face not removed")
	}
	for _, e := range edges {
		if len(b.Edge(e).Faces()) != 1 {
			t.Errorf("edge %d still references %d faces", e, len(b.Edge(e).Faces()))
		}
	}
	err := b.Validate()
	if err == nil {
		t.Fatal("open surface validated")
	}
	if !strings.Contains(err.Error(), "open") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSurfaceBuilderIsCopy(t *testing.T) {
	s := cubeBuilder(r3.Vec{}).Build()
	v := s.VertIdxs()[0]
	orig := s.Vert(v).Pos
	b := s.Builder()
	b.SetVertPos(v, r3.Vec{X: 10})
	b.RemoveAndUnlinkFace(b.FaceIdxs()[0])
	if s.Vert(v).Pos != orig || s.NumFaces() != 6 {
		t.Error("editing the builder changed the surface")
	}
	if err := s.Validate(); err != nil {
		t.Error(err)
	}
}

func TestVertexPool(t *testing.T) {
	b := subd.NewBuilder()
	a := b.VertAt(r3.Vec{X: 1, Y: 2, Z: 3})
	for _, test := range []struct {
		pos  r3.Vec
		same bool
	}{
		{pos: r3.Vec{X: 1, Y: 2, Z: 3}, same: true},
		{pos: r3.Vec{X: 1 + subd.PoolTolerance/2, Y: 2, Z: 3}, same: true},
		{pos: r3.Vec{X: 1, Y: 2, Z: 3.1}, same: false},
		{pos: r3.Vec{}, same: false},
	} {
		got := b.VertAt(test.pos)
		if (got == a) != test.same {
			t.Errorf("VertAt(%v) = %d, first vertex %d, want same=%v", test.pos, got, a, test.same)
		}
	}
	if b.NumVerts() != 3 {
		t.Errorf("want 3 verts, got %d", b.NumVerts())
	}
}
