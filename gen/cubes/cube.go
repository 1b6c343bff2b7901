// Package cubes generates surfaces from unit cubes placed on an integer
// lattice. Cubes in the same merge group fuse at shared faces.
package cubes

import (
	"fmt"

	"github.com/soypat/subd"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis convention: Top/Bottom are +Y/-Y, Front/Back are +Z/-Z and Right/Left are +X/-X.

// VertName names a cube corner.
type VertName int

const (
	TopFrontLeft VertName = iota
	TopFrontRight
	TopBackLeft
	TopBackRight
	BottomFrontLeft
	BottomFrontRight
	BottomBackLeft
	BottomBackRight
	NumVerts int = iota
)

var vertNames = [NumVerts]string{
	"TopFrontLeft", "TopFrontRight", "TopBackLeft", "TopBackRight",
	"BottomFrontLeft", "BottomFrontRight", "BottomBackLeft", "BottomBackRight",
}

func (v VertName) String() string {
	if v < 0 || int(v) >= NumVerts {
		return fmt.Sprintf("VertName(%d)", int(v))
	}
	return vertNames[v]
}

// EdgeName names a cube edge by the two faces it lies between.
type EdgeName int

const (
	TopLeft EdgeName = iota
	TopRight
	TopFront
	TopBack
	BottomLeft
	BottomRight
	BottomFront
	BottomBack
	FrontRight
	FrontLeft
	BackRight
	BackLeft
	NumEdges int = iota
)

var edgeNames = [NumEdges]string{
	"TopLeft", "TopRight", "TopFront", "TopBack",
	"BottomLeft", "BottomRight", "BottomFront", "BottomBack",
	"FrontRight", "FrontLeft", "BackRight", "BackLeft",
}

func (e EdgeName) String() string {
	if e < 0 || int(e) >= NumEdges {
		return fmt.Sprintf("EdgeName(%d)", int(e))
	}
	return edgeNames[e]
}

// FaceName names a cube face.
type FaceName int

const (
	Top FaceName = iota
	Bottom
	Left
	Right
	Front
	Back
	NumFaces int = iota
)

var faceNames = [NumFaces]string{"Top", "Bottom", "Left", "Right", "Front", "Back"}

func (f FaceName) String() string {
	if f < 0 || int(f) >= NumFaces {
		return fmt.Sprintf("FaceName(%d)", int(f))
	}
	return faceNames[f]
}

var vertOffsets = [NumVerts]r3.Vec{
	TopFrontLeft:     {X: -.5, Y: .5, Z: .5},
	TopFrontRight:    {X: .5, Y: .5, Z: .5},
	TopBackLeft:      {X: -.5, Y: .5, Z: -.5},
	TopBackRight:     {X: .5, Y: .5, Z: -.5},
	BottomFrontLeft:  {X: -.5, Y: -.5, Z: .5},
	BottomFrontRight: {X: .5, Y: -.5, Z: .5},
	BottomBackLeft:   {X: -.5, Y: -.5, Z: -.5},
	BottomBackRight:  {X: .5, Y: -.5, Z: -.5},
}

// EdgeVerts lists the two corners joined by each edge.
var EdgeVerts = [NumEdges][2]VertName{
	TopLeft:     {TopBackLeft, TopFrontLeft},
	TopRight:    {TopBackRight, TopFrontRight},
	TopFront:    {TopFrontLeft, TopFrontRight},
	TopBack:     {TopBackLeft, TopBackRight},
	BottomLeft:  {BottomFrontLeft, BottomBackLeft},
	BottomRight: {BottomFrontRight, BottomBackRight},
	BottomFront: {BottomFrontLeft, BottomFrontRight},
	BottomBack:  {BottomBackLeft, BottomBackRight},
	FrontRight:  {BottomFrontRight, TopFrontRight},
	FrontLeft:   {BottomFrontLeft, TopFrontLeft},
	BackRight:   {BottomBackRight, TopBackRight},
	BackLeft:    {BottomBackLeft, TopBackLeft},
}

// FaceVerts lists the corners of each face clockwise seen from outside.
var FaceVerts = [NumFaces][4]VertName{
	Top:    {TopFrontLeft, TopBackLeft, TopBackRight, TopFrontRight},
	Bottom: {BottomFrontLeft, BottomFrontRight, BottomBackRight, BottomBackLeft},
	Left:   {TopFrontLeft, BottomFrontLeft, BottomBackLeft, TopBackLeft},
	Right:  {BottomFrontRight, TopFrontRight, TopBackRight, BottomBackRight},
	Front:  {BottomFrontLeft, TopFrontLeft, TopFrontRight, BottomFrontRight},
	Back:   {TopBackLeft, BottomBackLeft, BottomBackRight, TopBackRight},
}

// FaceEdges lists the edges of each face where FaceEdges[f][i] leaves FaceVerts[f][i].
var FaceEdges = [NumFaces][4]EdgeName{
	Top:    {TopLeft, TopBack, TopRight, TopFront},
	Bottom: {BottomFront, BottomRight, BottomBack, BottomLeft},
	Left:   {FrontLeft, BottomLeft, BackLeft, TopLeft},
	Right:  {FrontRight, TopRight, BackRight, BottomRight},
	Front:  {FrontLeft, TopFront, FrontRight, BottomFront},
	Back:   {BackLeft, BottomBack, BackRight, TopBack},
}

// Cube is a unit cube centred on an integer lattice position. The sharpness
// and tag tables are applied to the generated vertices and edges.
type Cube struct {
	Position [3]int
	Group    int

	VertSharp [NumVerts]bool
	VertTag   [NumVerts]string
	EdgeSharp [NumEdges]bool
	EdgeTag   [NumEdges]string
	FaceTag   [NumFaces]string
}

// Centre returns the position of the cube centre.
func (c *Cube) Centre() r3.Vec {
	return r3.Vec{X: float64(c.Position[0]), Y: float64(c.Position[1]), Z: float64(c.Position[2])}
}

// Vert returns the position of a corner.
func (c *Cube) Vert(v VertName) r3.Vec {
	return r3.Add(c.Centre(), vertOffsets[v])
}

// SetFaceSharp marks every edge of face f sharp.
func (c *Cube) SetFaceSharp(f FaceName) {
	for _, e := range FaceEdges[f] {
		c.EdgeSharp[e] = true
	}
}

// Surface builds the cube on its own as a closed six faced surface.
// Every face carries the cube as its identity.
func (c *Cube) Surface() *subd.Surface {
	b := subd.NewBuilder()
	pts := make([]r3.Vec, 4)
	sharp := make([]bool, 4)
	tags := make([]string, 4)
	for f := FaceName(0); int(f) < NumFaces; f++ {
		for i, v := range FaceVerts[f] {
			pts[i] = c.Vert(v)
			e := FaceEdges[f][i]
			sharp[i] = c.EdgeSharp[e]
			tags[i] = c.EdgeTag[e]
		}
		b.BeginFace(pts, sharp, tags, c.FaceTag[f], c)
	}
	for v := VertName(0); int(v) < NumVerts; v++ {
		vert := b.Vert(b.VertAt(c.Vert(v)))
		vert.Sharp = c.VertSharp[v]
		vert.Tag = c.VertTag[v]
	}
	b.SortAllVerts(subd.Strict)
	return b.Build()
}
