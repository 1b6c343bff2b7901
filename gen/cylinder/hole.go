package cylinder

import (
	"math"

	"github.com/soypat/subd"
	"github.com/soypat/subd/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// holeMargin is how much larger than the hole radius the face must be.
const holeMargin = 1.05

// hole replaces the outer and inner wall faces of a sector with a quad
// tunnel between them. It returns why the hole cannot be made, or "".
func (g *build) hole(sect *Section, sector int, props HoleProps) string {
	if sect.Solidity != Hollow {
		return "section is solid"
	}
	outerKey := faceKey{section: sect.index, sector: sector, subSector: -1, topo: Outside}
	innerKey := faceKey{section: sect.index, sector: sector, subSector: -1, topo: Inside}
	outerFace, ok := g.faces[outerKey]
	if !ok {
		return "outer face already modified"
	}
	innerFace, ok := g.faces[innerKey]
	if !ok {
		return "no bore behind the sector"
	}

	var outerHole, innerHole *loop
	if props.Clearance > 0 {
		outerHole = g.insetLoop(outerFace, props.Clearance, Outside, sect)
		if outerHole == nil {
			return "outer face too small for clearance"
		}
		innerHole = g.insetLoop(innerFace, props.Clearance, Inside, sect)
		if innerHole == nil {
			g.dropVerts(outerHole)
			return "inner face too small for clearance"
		}
		innerHole = innerHole.reversed()
	} else {
		outerPts, innerPts := g.b.FacePositions(outerFace), g.b.FacePositions(innerFace)
		outerCentre, innerCentre := subd.Centroid(outerPts), subd.Centroid(innerPts)
		if faceRadius(outerPts, outerCentre) < props.Radius*holeMargin {
			return "outer face too small for radius"
		}
		if faceRadius(innerPts, innerCentre) < props.Radius*holeMargin {
			return "inner face too small for radius"
		}
		y := subd.PolygonNormal(outerPts)
		x := r3.Unit(r3.Sub(outerPts[0], outerPts[1]))
		z := r3.Cross(y, x)
		outerHole = g.holeLoop(sect, props.Radius, outerCentre, x, z, Outside)
		innerHole = g.holeLoop(sect, props.Radius, innerCentre, x, z, Inside)
	}

	outerRing := g.faceLoop(outerFace, Outside, sect)
	innerRing := g.faceLoop(innerFace, Inside, sect).reversed()
	g.removeFace(outerFace, outerKey)
	g.removeFace(innerFace, innerKey)

	g.join(outerRing, outerHole, joinHoleEdge, sector)
	g.join(innerHole, innerRing, joinHoleEdge, sector)
	// Last, so edges shared with the mouths keep their HoleEdge props.
	g.join(outerHole, innerHole, joinHoleInterior, sector)
	return ""
}

// holeLoop places four vertices at radius around centre in the plane spanned
// by x and z, with corners on the diagonals. The loop winds the same way as
// the punched outer face.
func (g *build) holeLoop(sect *Section, radius float64, centre, x, z r3.Vec, topo Topology) *loop {
	const n = 4
	l := &loop{verts: make([]subd.VertIdx, n), topo: topo, sect: sect}
	for i := 0; i < n; i++ {
		a := math.Pi/4 + float64(i)*2*math.Pi/n
		p := r3.Add(centre, r3.Add(r3.Scale(math.Cos(a)*radius, x), r3.Scale(math.Sin(a)*radius, z)))
		props := sect.vertProps(i, topo)
		l.verts[i] = g.b.AddVert(subd.Vert{Pos: p, Sharp: props.Sharp, Tag: props.Tag})
	}
	return l.reversed()
}

// insetLoop moves each corner of f towards the face along both of its edges
// by clearance. It returns nil unless every edge is longer than two
// clearances, since shorter edges would cross the inset corners.
func (g *build) insetLoop(f subd.FaceIdx, clearance float64, topo Topology, sect *Section) *loop {
	pts := g.b.FacePositions(f)
	n := len(pts)
	minLen2 := 4 * clearance * clearance
	// toPrev[i] points from corner i to corner i-1.
	toPrev := make([]r3.Vec, n)
	for i, p := range pts {
		d := r3.Sub(pts[(i-1+n)%n], p)
		if r3.Norm2(d) <= minLen2 {
			return nil
		}
		toPrev[i] = r3.Unit(d)
	}
	l := &loop{verts: make([]subd.VertIdx, n), topo: topo, sect: sect}
	for i, p := range pts {
		shift := r3.Sub(toPrev[i], toPrev[(i+1)%n])
		l.verts[i] = g.b.AddVert(subd.Vert{Pos: r3.Add(p, r3.Scale(clearance, shift))})
	}
	return l
}

func (g *build) removeFace(f subd.FaceIdx, key faceKey) {
	g.b.RemoveAndUnlinkFace(f)
	delete(g.faces, key)
}

func (g *build) dropVerts(l *loop) {
	for _, v := range l.verts {
		g.b.DeleteVert(v)
	}
}

// faceRadius is the distance from centre to the nearest edge line of a face.
func faceRadius(pts []r3.Vec, centre r3.Vec) float64 {
	r := math.Inf(1)
	for i, a := range pts {
		r = math.Min(r, lineDist(a, pts[(i+1)%len(pts)], centre))
	}
	return r
}

func lineDist(a, b, p r3.Vec) float64 {
	dir := d3.UnitOrZero(r3.Sub(b, a))
	ap := r3.Sub(p, a)
	return r3.Norm(r3.Sub(ap, r3.Scale(r3.Dot(ap, dir), dir)))
}
