package cylinder

import (
	"fmt"
	"math"

	"github.com/soypat/subd"
	"github.com/soypat/subd/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Builder stacks sections into a closed surface.
type Builder struct {
	// Identity is recorded on every generated face. Nil records none.
	Identity subd.Identity

	sections []*Section
}

// AddSection appends s to the stack and returns it.
func (b *Builder) AddSection(s *Section) *Section {
	s.index = len(b.sections)
	b.sections = append(b.sections, s)
	return s
}

// Sections returns the sections in stacking order.
func (b *Builder) Sections() []*Section { return b.sections }

// Skipped records a requested hole that was not made.
type Skipped struct {
	Section, Sector int
	Reason          string
}

func (s Skipped) String() string {
	return fmt.Sprintf("section %d sector %d: %s", s.Section, s.Sector, s.Reason)
}

// Build generates the surface. It returns nil when fewer than two sections
// were added. Holes that could not be made are reported and left out.
//
// Walking up the outside and back down the bore, end caps face down at the
// first section and up at the last. A hollow last section whose predecessor
// is solid is capped as if solid.
//
// Every section must have the same number of sectors. Build panics otherwise.
func (b *Builder) Build() (*subd.Surface, []Skipped) {
	if len(b.sections) < 2 {
		return nil, nil
	}
	g := &build{
		b:     subd.NewBuilder(),
		faces: make(map[faceKey]subd.FaceIdx),
		id:    b.Identity,
	}
	var (
		transform            d3.Transform
		prevOuter, prevInner *loop
	)
	last := len(b.sections) - 1
	for i, sect := range b.sections {
		transform = transform.Mul(sect.Transform)
		hollow := sect.Solidity == Hollow
		if i == last && prevInner == nil {
			hollow = false
		}
		outer := g.sectionLoop(sect, transform, sect.Radius, Outside)
		var inner *loop
		if hollow {
			inner = g.sectionLoop(sect, transform, sect.Radius-sect.Thickness, Inside)
		}

		if i == 0 {
			if hollow {
				g.join(inner, outer, joinBasic, -1)
			} else {
				g.fill(outer, down)
			}
		} else {
			g.join(prevOuter, outer, joinBasic, -1)
			switch {
			case prevInner != nil && hollow:
				g.join(inner, prevInner, joinBasic, -1)
			case prevInner != nil:
				g.fill(prevInner, down)
			case hollow:
				g.fill(inner, up)
			}
			if i == last {
				if hollow {
					g.join(outer, inner, joinBasic, -1)
				} else {
					g.fill(outer, up)
				}
			}
		}
		prevOuter, prevInner = outer, inner
	}

	for _, sect := range b.sections[:last] {
		for sector := 0; sector < sect.Sectors; sector++ {
			hole := sect.sectorProps(sector).Hole
			if hole == nil {
				continue
			}
			if reason := g.hole(sect, sector, *hole); reason != "" {
				g.skipped = append(g.skipped, Skipped{Section: sect.index, Sector: sector, Reason: reason})
			}
		}
	}

	g.b.SortAllVerts(subd.Strict)
	return g.b.Build(), g.skipped
}

type faceKey struct {
	section, sector, subSector int
	topo                       Topology
}

// loop is a ring of vertices belonging to one section.
type loop struct {
	verts []subd.VertIdx
	topo  Topology
	sect  *Section
}

func (l *loop) reversed() *loop {
	n := len(l.verts)
	r := &loop{verts: make([]subd.VertIdx, n), topo: l.topo, sect: l.sect}
	for i, v := range l.verts {
		r.verts[n-1-i] = v
	}
	return r
}

// shifted returns l rotated so that it starts at index start.
func (l *loop) shifted(start int) *loop {
	n := len(l.verts)
	r := &loop{verts: make([]subd.VertIdx, n), topo: l.topo, sect: l.sect}
	for i := range r.verts {
		r.verts[i] = l.verts[(start+i)%n]
	}
	return r
}

type build struct {
	b       *subd.Builder
	faces   map[faceKey]subd.FaceIdx
	id      subd.Identity
	skipped []Skipped
}

// sectionLoop places sect.Sectors vertices on a circle in the XZ plane and
// transforms them into position. Every loop gets its own vertices.
func (g *build) sectionLoop(sect *Section, t d3.Transform, radius float64, topo Topology) *loop {
	l := &loop{verts: make([]subd.VertIdx, sect.Sectors), topo: topo, sect: sect}
	for i := range l.verts {
		a := float64(i) * 2 * math.Pi / float64(sect.Sectors)
		p := r3.Vec{X: math.Cos(a) * radius, Z: math.Sin(a) * radius}
		props := sect.vertProps(i, topo)
		l.verts[i] = g.b.AddVert(subd.Vert{Pos: t.Transform(p), Sharp: props.Sharp, Tag: props.Tag})
	}
	return l
}

type joinMode int

const (
	joinBasic joinMode = iota
	joinHoleEdge
	joinHoleInterior
)

// join bridges two equal length loops rotating the same way with quads
// {first[i], first[i+1], second[i+1], second[i]}. Axial edges belong to the
// first loop's section. Hole joins rotate second to start at the vertex
// closest to first[0], insert permissively and key faces by sector and
// loop index.
func (g *build) join(first, second *loop, mode joinMode, sector int) {
	n := len(first.verts)
	if len(second.verts) != n {
		panic(fmt.Sprintf("cylinder: joining loops of %d and %d vertices", n, len(second.verts)))
	}
	if mode != joinBasic {
		second = second.shifted(g.closest(second, g.b.Vert(first.verts[0]).Pos))
	}
	topo := first.topo
	if second.topo != topo {
		topo = Crossing
	}
	along, across := Circumferential, Axial
	switch mode {
	case joinHoleEdge:
		along, across = HoleEdge, HoleDiagonal
	case joinHoleInterior:
		along, across = Hole, Hole
	}
	fs, ss := first.sect, second.sect
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		ring := [4]subd.VertIdx{first.verts[i], first.verts[next], second.verts[next], second.verts[i]}
		props := [4]func() EdgeProps{
			func() EdgeProps { return fs.edgeProps(i, first.topo, along) },
			func() EdgeProps { return fs.edgeProps(next, topo, across) },
			func() EdgeProps { return ss.edgeProps(i, second.topo, along) },
			func() EdgeProps { return fs.edgeProps(i, topo, across) },
		}
		corners := make([]subd.Corner, 4)
		for j := range corners {
			corners[j] = g.corner(ring[j], ring[(j+1)%4], props[j])
		}
		key := faceKey{section: fs.index, sector: i, subSector: -1, topo: topo}
		if topo == Inside {
			// The bore is walked downwards, so name inside faces after the lower section.
			key.section = ss.index
		}
		if mode != joinBasic {
			key.sector, key.subSector = sector, i
		}
		g.addFace(corners, fs.faceProps(i, topo), key, mode != joinBasic)
	}
}

type facing int

const (
	up facing = iota
	down
)

// fill caps a loop with a single polygon.
func (g *build) fill(l *loop, f facing) {
	n := len(l.verts)
	corners := make([]subd.Corner, n)
	for j := range corners {
		// Corner j sits at loop position k and leaves along loop edge e.
		k, next, e := j, (j+1)%n, j
		if f == down {
			k = n - 1 - j
			next = (k - 1 + n) % n
			e = next
		}
		corners[j] = g.corner(l.verts[k], l.verts[next], func() EdgeProps {
			return l.sect.edgeProps(e, l.topo, Circumferential)
		})
	}
	key := faceKey{section: l.sect.index, sector: -1, subSector: int(f), topo: l.topo}
	g.addFace(corners, l.sect.faceProps(-1, l.topo), key, false)
}

// corner asks for edge props only when the edge from v to next is new.
func (g *build) corner(v, next subd.VertIdx, props func() EdgeProps) subd.Corner {
	c := subd.Corner{Vert: v}
	if g.b.FindEdge(v, next) == subd.NoEdge && g.b.FindEdge(next, v) == subd.NoEdge {
		p := props()
		c.Sharp, c.Tag = p.Sharp, p.Tag
	}
	return c
}

func (g *build) addFace(corners []subd.Corner, props FaceProps, key faceKey, permissive bool) {
	if _, dup := g.faces[key]; dup {
		panic(fmt.Sprintf("cylinder: face %+v generated twice", key))
	}
	fp := subd.FaceProps{Tag: props.Tag}
	if g.id != nil {
		fp.Identities = []subd.Identity{g.id}
	}
	var f subd.FaceIdx
	if permissive {
		f = g.b.InsertFacePermissive(corners, fp)
	} else {
		f = g.b.InsertFace(corners, fp)
	}
	g.faces[key] = f
}

// closest returns the index of the vertex of l nearest to p.
func (g *build) closest(l *loop, p r3.Vec) int {
	best, bestD2 := 0, math.Inf(1)
	for i, v := range l.verts {
		if d2 := r3.Norm2(r3.Sub(g.b.Vert(v).Pos, p)); d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	return best
}

func (g *build) faceLoop(f subd.FaceIdx, topo Topology, sect *Section) *loop {
	face := g.b.Face(f)
	return &loop{verts: append([]subd.VertIdx(nil), face.Verts...), topo: topo, sect: sect}
}
