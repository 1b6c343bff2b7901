package d3

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTransform(t *testing.T) {
	const tol = 1e-12
	shift := NewTransform(r3.NewRotation(0, r3.Vec{Z: 1}), r3.Vec{X: 1})
	quarter := EulerTransform(0, 0, 90, r3.Vec{})
	for _, test := range []struct {
		name string
		t    Transform
		in   r3.Vec
		want r3.Vec
	}{
		{name: "identity", t: Transform{}, in: r3.Vec{X: 1, Y: 2, Z: 3}, want: r3.Vec{X: 1, Y: 2, Z: 3}},
		{name: "offset", t: shift, in: r3.Vec{Y: 1}, want: r3.Vec{X: 1, Y: 1}},
		{name: "about z", t: quarter, in: r3.Vec{X: 1}, want: r3.Vec{Y: 1}},
		{name: "about x", t: EulerTransform(90, 0, 0, r3.Vec{}), in: r3.Vec{Y: 1}, want: r3.Vec{Z: 1}},
		{name: "rotate then shift", t: shift.Mul(quarter), in: r3.Vec{X: 1}, want: r3.Vec{X: 1, Y: 1}},
		{name: "shift then rotate", t: quarter.Mul(shift), in: r3.Vec{X: 1}, want: r3.Vec{Y: 2}},
		{name: "identity left", t: Transform{}.Mul(shift), in: r3.Vec{}, want: r3.Vec{X: 1}},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := test.t.Transform(test.in)
			if !EqualWithin(got, test.want, tol) {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestSetBounds(t *testing.T) {
	s := Set{{X: 1, Y: -2}, {Z: 3}, {X: -1, Y: 2, Z: -3}}
	box := s.Bounds()
	if box.Min != (r3.Vec{X: -1, Y: -2, Z: -3}) || box.Max != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("bounds %v", box)
	}
	if box.Center() != (r3.Vec{}) || !box.Contains(r3.Vec{X: 1, Y: 2}) {
		t.Errorf("center %v", box.Center())
	}
	if got := box.Enlarge(1).Size(); got != r3.Add(Elem(2), r3.Vec{X: 2, Y: 4, Z: 6}) {
		t.Errorf("enlarged size %v", got)
	}
	if OrthoDist(r3.Vec{X: 1}, r3.Vec{Y: -3}) != 3 {
		t.Error("chebyshev distance")
	}
}
