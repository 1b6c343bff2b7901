package subd

import (
	"fmt"

	"go.uber.org/multierr"
)

// DebugChecks reports whether the package was built with invariant checks enabled.
func DebugChecks() bool { return debugChecks }

// Validate checks every cross reference between vertices, edges and faces and
// that the surface is closed. All violations found are combined into the
// returned error.
func (b *Builder) Validate() error {
	return validate(b.verts, b.edges, b.faces)
}

// Validate checks the invariants of a finished surface. See Builder.Validate.
func (s *Surface) Validate() error {
	return validate(s.verts, s.edges, s.faces)
}

func validate(verts []*Vert, edges []*Edge, faces []*Face) (err error) {
	vertAt := func(v VertIdx) *Vert {
		if v < 0 || int(v) >= len(verts) {
			return nil
		}
		return verts[v]
	}
	edgeAt := func(e EdgeIdx) *Edge {
		if e < 0 || int(e) >= len(edges) {
			return nil
		}
		return edges[e]
	}
	faceAt := func(f FaceIdx) *Face {
		if f < 0 || int(f) >= len(faces) {
			return nil
		}
		return faces[f]
	}

	for i, vert := range verts {
		if vert == nil {
			continue
		}
		v := VertIdx(i)
		if len(vert.Edges) != len(vert.Faces) {
			err = multierr.Append(err, fmt.Errorf("vert %d: %d edges but %d faces", v, len(vert.Edges), len(vert.Faces)))
			continue
		}
		for j, e := range vert.Edges {
			edge := edgeAt(e)
			if edge == nil {
				err = multierr.Append(err, fmt.Errorf("vert %d: missing edge %d", v, e))
				continue
			}
			if !edge.HasEnd(v) {
				err = multierr.Append(err, fmt.Errorf("vert %d: edge %d does not end at it", v, e))
				continue
			}
			f := vert.Faces[j]
			face := faceAt(f)
			if face == nil {
				err = multierr.Append(err, fmt.Errorf("vert %d: missing face %d", v, f))
				continue
			}
			if face.VertIndex(v) < 0 {
				err = multierr.Append(err, fmt.Errorf("vert %d: face %d does not contain it", v, f))
			}
			if edge.Departing(v) != f {
				err = multierr.Append(err, fmt.Errorf("vert %d: face %d does not depart along edge %d", v, f, e))
			}
			next := vert.Edges[(j+1)%len(vert.Edges)]
			if face.EdgeIndex(next) < 0 {
				err = multierr.Append(err, fmt.Errorf("vert %d: face %d does not lie between edges %d and %d", v, f, e, next))
			}
		}
	}

	for i, edge := range edges {
		if edge == nil {
			continue
		}
		e := EdgeIdx(i)
		if edge.Start == edge.End {
			err = multierr.Append(err, fmt.Errorf("edge %d: degenerate at vert %d", e, edge.Start))
		}
		for _, v := range [2]VertIdx{edge.Start, edge.End} {
			vert := vertAt(v)
			if vert == nil {
				err = multierr.Append(err, fmt.Errorf("edge %d: missing vert %d", e, v))
			} else if !containsEdge(vert.Edges, e) {
				err = multierr.Append(err, fmt.Errorf("edge %d: vert %d does not list it", e, v))
			}
		}
		if edge.Forwards == NoFace || edge.Backwards == NoFace {
			err = multierr.Append(err, fmt.Errorf("edge %d: open, forwards=%d backwards=%d", e, edge.Forwards, edge.Backwards))
		}
		for _, f := range edge.Faces() {
			face := faceAt(f)
			if face == nil {
				err = multierr.Append(err, fmt.Errorf("edge %d: missing face %d", e, f))
			} else if face.EdgeIndex(e) < 0 {
				err = multierr.Append(err, fmt.Errorf("edge %d: face %d does not list it", e, f))
			}
		}
	}

	for i, face := range faces {
		if face == nil {
			continue
		}
		f := FaceIdx(i)
		n := len(face.Verts)
		if n < 3 || len(face.Edges) != n {
			err = multierr.Append(err, fmt.Errorf("face %d: %d verts and %d edges", f, n, len(face.Edges)))
			continue
		}
		for j, v := range face.Verts {
			vert := vertAt(v)
			if vert == nil {
				err = multierr.Append(err, fmt.Errorf("face %d: missing vert %d", f, v))
			} else if !containsFace(vert.Faces, f) {
				err = multierr.Append(err, fmt.Errorf("face %d: vert %d does not list it", f, v))
			}
			e := face.Edges[j]
			edge := edgeAt(e)
			if edge == nil {
				err = multierr.Append(err, fmt.Errorf("face %d: missing edge %d", f, e))
				continue
			}
			next := face.Verts[(j+1)%n]
			switch {
			case edge.Start == v && edge.End == next:
				if edge.Forwards != f {
					err = multierr.Append(err, fmt.Errorf("face %d: traverses edge %d forwards but is not its forwards face", f, e))
				}
			case edge.Start == next && edge.End == v:
				if edge.Backwards != f {
					err = multierr.Append(err, fmt.Errorf("face %d: traverses edge %d backwards but is not its backwards face", f, e))
				}
			default:
				err = multierr.Append(err, fmt.Errorf("face %d: edge %d does not join verts %d and %d", f, e, v, next))
			}
		}
	}
	return err
}

func containsEdge(s []EdgeIdx, e EdgeIdx) bool {
	for _, x := range s {
		if x == e {
			return true
		}
	}
	return false
}

func containsFace(s []FaceIdx, f FaceIdx) bool {
	for _, x := range s {
		if x == f {
			return true
		}
	}
	return false
}
