// Package cylinder generates surfaces by stacking circular sections along
// a path. Sections may be solid or hollow, and hollow sections may have
// quad holes punched through their walls.
//
// A two section solid is a capped prism. Side view of a longer construct:
//
//	++   .   ++   section 3, hollow
//	| \     / |
//	+  +-.-+  +   section 2, hollow, thicker wall
//	|         |
//	+    .    +   section 1, solid
//	 \       /
//	  +==.==+     section 0, solid, smaller radius
//
// A single section cannot be built since its caps would share every edge.
package cylinder

import (
	"fmt"

	"github.com/soypat/subd/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solidity selects whether a section has a bore.
type Solidity int

const (
	Solid Solidity = iota
	Hollow
)

func (s Solidity) String() string {
	switch s {
	case Solid:
		return "solid"
	case Hollow:
		return "hollow"
	}
	return fmt.Sprintf("Solidity(%d)", int(s))
}

// Topology tells callbacks which surface an element belongs to.
type Topology int

const (
	// Inside is the bore of hollow sections.
	Inside Topology = iota
	// Outside is the outer wall.
	Outside
	// Crossing elements join the inside to the outside, such as annular
	// caps and hole walls, or run along the axis between sections.
	Crossing
)

func (t Topology) String() string {
	switch t {
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	case Crossing:
		return "crossing"
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

// EdgeType tells edge callbacks which way an edge runs.
type EdgeType int

const (
	// Circumferential edges run around a section.
	Circumferential EdgeType = iota
	// Axial edges run between consecutive sections.
	Axial
	// HoleEdge edges run along the face boundary a hole was punched in, or around the hole mouth.
	HoleEdge
	// HoleDiagonal edges join the face boundary to the hole mouth.
	HoleDiagonal
	// Hole edges run through the wall inside a hole.
	Hole
)

func (e EdgeType) String() string {
	switch e {
	case Circumferential:
		return "circumferential"
	case Axial:
		return "axial"
	case HoleEdge:
		return "hole edge"
	case HoleDiagonal:
		return "hole diagonal"
	case Hole:
		return "hole"
	}
	return fmt.Sprintf("EdgeType(%d)", int(e))
}

type VertProps struct {
	Sharp bool
	Tag   string
}

// EdgeProps are carried by an edge and by every edge it is later split into.
type EdgeProps struct {
	Sharp bool
	Tag   string
}

type FaceProps struct {
	Tag string
}

// HoleProps requests a quad hole through the wall of a hollow section.
type HoleProps struct {
	// Radius of the hole corners from the face centre.
	Radius float64
	// Clearance, when positive, overrides Radius: the hole is the punched face
	// inset by Clearance from each corner along both of its edges.
	Clearance float64
}

// SectorProps describes per-sector features.
type SectorProps struct {
	Hole *HoleProps
}

// End caps are reported with index -1 to FacePropsFunc.
type (
	VertPropsFunc   func(s *Section, index int, topo Topology) VertProps
	EdgePropsFunc   func(s *Section, index int, topo Topology, typ EdgeType) EdgeProps
	FacePropsFunc   func(s *Section, index int, topo Topology) FaceProps
	SectorPropsFunc func(s *Section, sector int) SectorProps
)

// Section is one ring of a stacked cylinder.
type Section struct {
	Radius float64
	// Sectors must be the same for every section of a Builder.
	Sectors int
	// Thickness is the wall thickness of hollow sections.
	Thickness float64
	Solidity  Solidity
	// Transform places the section relative to the previous one.
	// The first section is placed relative to the origin.
	Transform d3.Transform

	// Nil callbacks give zero props.
	VertProps   VertPropsFunc
	EdgeProps   EdgePropsFunc
	FaceProps   FacePropsFunc
	SectorProps SectorPropsFunc

	index int
}

// Index returns the position of the section within its builder.
func (s *Section) Index() int { return s.index }

// Step returns a section transform that rotates by the given Euler angles in
// degrees (about Y, then X, then Z) and then advances length along +Y.
func Step(length, xDeg, yDeg, zDeg float64) d3.Transform {
	return d3.EulerTransform(xDeg, yDeg, zDeg, r3.Vec{Y: length})
}

func (s *Section) vertProps(index int, topo Topology) VertProps {
	if s.VertProps == nil {
		return VertProps{}
	}
	return s.VertProps(s, index, topo)
}

func (s *Section) edgeProps(index int, topo Topology, typ EdgeType) EdgeProps {
	if s.EdgeProps == nil {
		return EdgeProps{}
	}
	return s.EdgeProps(s, index, topo, typ)
}

func (s *Section) faceProps(index int, topo Topology) FaceProps {
	if s.FaceProps == nil {
		return FaceProps{}
	}
	return s.FaceProps(s, index, topo)
}

func (s *Section) sectorProps(sector int) SectorProps {
	if s.SectorProps == nil {
		return SectorProps{}
	}
	return s.SectorProps(s, sector)
}
