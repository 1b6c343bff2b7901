// Package merge stitches independently generated closed surfaces together
// where they touch.
//
// Parts are registered with a merge group and a generator identity. Parts in
// different groups never merge. Within a group every pair of coincident,
// oppositely facing faces is fused, so two cubes sharing a face become one
// closed box, unless the faces share an identity or a pair of their
// identities has been forbidden.
//
// When three or more parts meet at a feature and the forbidden relation is
// not transitive, the result depends on the order in which parts were added.
package merge

import (
	"fmt"
	"sort"

	"github.com/soypat/subd"
	"go.uber.org/zap"
)

// DefaultTolerance is the distance by which face bounds are grown when
// searching for merge candidates.
const DefaultTolerance = 1e-2

const (
	// normalDotLimit is the largest normal dot product of two fusable faces.
	normalDotLimit = -0.99
	// vertDist2 is the squared distance under which two corners coincide.
	vertDist2 = 1e-4
)

// Engine merges parts within merge groups. The zero value is ready to use.
type Engine struct {
	// Logger receives debug level merge diagnostics. Nil disables logging.
	Logger *zap.Logger
	// Tolerance grows face bounds for the candidate search.
	// Zero means DefaultTolerance.
	Tolerance float64

	parts     []part
	forbidden map[[2]subd.Identity]struct{}
}

type part struct {
	surface *subd.Surface
	group   int
	id      subd.Identity
}

// Add registers a part. Faces without identities are attributed to id
// when the group is assembled. The engine does not modify s.
func (m *Engine) Add(s *subd.Surface, group int, id subd.Identity) {
	m.parts = append(m.parts, part{surface: s, group: group, id: id})
}

// Forbid prevents faces generated by a from fusing with faces generated by b.
// Identities must be comparable.
func (m *Engine) Forbid(a, b subd.Identity) {
	if m.forbidden == nil {
		m.forbidden = make(map[[2]subd.Identity]struct{})
	}
	m.forbidden[[2]subd.Identity{a, b}] = struct{}{}
	m.forbidden[[2]subd.Identity{b, a}] = struct{}{}
}

// Groups returns the merge groups in order of first appearance.
func (m *Engine) Groups() []int {
	var groups []int
	seen := make(map[int]bool)
	for _, p := range m.parts {
		if !seen[p.group] {
			seen[p.group] = true
			groups = append(groups, p.group)
		}
	}
	return groups
}

// Surfaces assembles one surface per merge group. The parts of a group are
// concatenated in insertion order and, if doMerge is set, fused until no
// further face pair is found.
func (m *Engine) Surfaces(doMerge bool) map[int]*subd.Surface {
	out := make(map[int]*subd.Surface)
	for _, g := range m.Groups() {
		out[g] = m.group(g, doMerge)
	}
	return out
}

// Surface assembles every merge group and concatenates the results in
// ascending group order. It returns nil if no parts were added.
func (m *Engine) Surface(doMerge bool) *subd.Surface {
	if len(m.parts) == 0 {
		return nil
	}
	surfaces := m.Surfaces(doMerge)
	groups := make([]int, 0, len(surfaces))
	for g := range surfaces {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	b := subd.NewBuilder()
	for _, g := range groups {
		b.Concat(surfaces[g])
	}
	return b.Build()
}

func (m *Engine) group(g int, doMerge bool) *subd.Surface {
	log := m.logger().With(zap.Int("group", g))
	b := subd.NewBuilder()
	nparts := 0
	for _, p := range m.parts {
		if p.group != g {
			continue
		}
		first := b.FaceCap()
		b.Concat(p.surface)
		for f := first; f < b.FaceCap(); f++ {
			if face := b.Face(subd.FaceIdx(f)); face != nil && len(face.Identities) == 0 {
				face.AddIdentity(p.id)
			}
		}
		nparts++
	}
	fused := 0
	if doMerge {
		fused = m.mergeFaces(b, log)
		m.mergeEdges(b)
		m.mergeVerts(b)
	}
	log.Debug("assembled merge group",
		zap.Int("parts", nparts),
		zap.Int("fused", fused),
		zap.Int("verts", b.NumVerts()),
		zap.Int("edges", b.NumEdges()),
		zap.Int("faces", b.NumFaces()),
	)
	return b.Build()
}

// mergeEdges is where coincident edges of different parts would be joined.
// Face merging covers every case generated so far.
func (m *Engine) mergeEdges(b *subd.Builder) {}

// mergeVerts is where coincident vertices of different parts would be joined.
func (m *Engine) mergeVerts(b *subd.Builder) {}

func (m *Engine) tolerance() float64 {
	if m.Tolerance > 0 {
		return m.Tolerance
	}
	return DefaultTolerance
}

func (m *Engine) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

// forbiddenPair reports whether faces with the given identity sets may not fuse.
func (m *Engine) forbiddenPair(ids1, ids2 []subd.Identity) bool {
	for _, a := range ids1 {
		for _, b := range ids2 {
			if a == b {
				return true
			}
			if _, ok := m.forbidden[[2]subd.Identity{a, b}]; ok {
				return true
			}
		}
	}
	return false
}

func checkBuilder(b *subd.Builder, when string) {
	if !subd.DebugChecks() {
		return
	}
	if err := b.Validate(); err != nil {
		panic(fmt.Sprintf("merge: invalid surface after %s: %v", when, err))
	}
}
