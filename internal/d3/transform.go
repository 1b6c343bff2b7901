package d3

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid transformation: a rotation followed by a translation.
// The zero value of Transform is the identity transform.
type Transform struct {
	// rot is stored with the real part offset by one so that
	// the zero Rotation represents no rotation.
	rot    r3.Rotation
	Offset r3.Vec
}

// NewTransform returns the transform rotating by q and then translating by offset.
func NewTransform(q r3.Rotation, offset r3.Vec) Transform {
	q.Real -= 1
	return Transform{rot: q, Offset: offset}
}

// EulerTransform builds a transform from rotations in degrees applied about
// Y, then X, then Z, followed by a translation.
func EulerTransform(xDeg, yDeg, zDeg float64, offset r3.Vec) Transform {
	const deg = math.Pi / 180
	ry := r3.NewRotation(yDeg*deg, r3.Vec{Y: 1})
	rx := r3.NewRotation(xDeg*deg, r3.Vec{X: 1})
	rz := r3.NewRotation(zDeg*deg, r3.Vec{Z: 1})
	q := quat.Mul(quat.Mul(quat.Number(ry), quat.Number(rx)), quat.Number(rz))
	return NewTransform(r3.Rotation(q), offset)
}

// Rotation returns the rotation part of the transform.
func (t Transform) Rotation() r3.Rotation {
	q := t.rot
	q.Real += 1
	return q
}

// Transform applies the Transform to the argument vector
// and returns the result.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	if t.rot != (r3.Rotation{}) {
		v = t.Rotation().Rotate(v)
	}
	return r3.Add(v, t.Offset)
}

// Mul returns the transform equivalent to applying b first and then t.
func (t Transform) Mul(b Transform) Transform {
	if t == (Transform{}) {
		return b
	}
	if b == (Transform{}) {
		return t
	}
	q := quat.Mul(quat.Number(t.Rotation()), quat.Number(b.Rotation()))
	return NewTransform(r3.Rotation(q), t.Transform(b.Offset))
}
