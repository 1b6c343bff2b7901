package cubes

import (
	"github.com/soypat/subd"
	"github.com/soypat/subd/merge"
	"go.uber.org/zap"
)

// Builder collects cubes and merges them into surfaces.
type Builder struct {
	// Logger receives merge diagnostics. Nil disables logging.
	Logger *zap.Logger

	cubes  []*Cube
	forbid [][2]*Cube
}

// AddCube places a cube at pos in the given merge group and returns it so
// its sharpness and tag tables can be set before building.
func (b *Builder) AddCube(pos [3]int, group int) *Cube {
	c := &Cube{Position: pos, Group: group}
	b.cubes = append(b.cubes, c)
	return c
}

// RemoveCube removes every cube at pos together with any forbidden merges naming it.
func (b *Builder) RemoveCube(pos [3]int) {
	kept := b.cubes[:0]
	for _, c := range b.cubes {
		if c.Position != pos {
			kept = append(kept, c)
		}
	}
	b.cubes = kept
	forbid := b.forbid[:0]
	for _, pair := range b.forbid {
		if pair[0].Position != pos && pair[1].Position != pos {
			forbid = append(forbid, pair)
		}
	}
	b.forbid = forbid
}

// Forbid keeps two cubes from fusing even when they share a merge group.
func (b *Builder) Forbid(c1, c2 *Cube) {
	b.forbid = append(b.forbid, [2]*Cube{c1, c2})
}

// Cubes returns the cubes in insertion order.
func (b *Builder) Cubes() []*Cube { return b.cubes }

// Engine returns a merge engine loaded with every cube.
func (b *Builder) Engine() *merge.Engine {
	e := &merge.Engine{Logger: b.Logger}
	for _, c := range b.cubes {
		e.Add(c.Surface(), c.Group, c)
	}
	for _, pair := range b.forbid {
		e.Forbid(pair[0], pair[1])
	}
	return e
}

// Surfaces returns one surface per merge group. Shared faces are fused
// when doMerge is set.
func (b *Builder) Surfaces(doMerge bool) map[int]*subd.Surface {
	return b.Engine().Surfaces(doMerge)
}

// Surface returns every merge group combined into one surface, or nil
// when there are no cubes.
func (b *Builder) Surface(doMerge bool) *subd.Surface {
	return b.Engine().Surface(doMerge)
}
