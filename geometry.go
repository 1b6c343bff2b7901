package subd

import (
	"math"

	"github.com/soypat/subd/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// PolygonNormal returns the outward unit normal of a polygon wound clockwise
// when seen from outside. The fan cross products are summed so that slightly
// non-planar polygons average out. Degenerate polygons give the zero vector.
func PolygonNormal(pts []r3.Vec) r3.Vec {
	var sum r3.Vec
	if len(pts) < 3 {
		return sum
	}
	p0 := pts[0]
	for i := 2; i < len(pts); i++ {
		a := r3.Sub(pts[i], p0)
		b := r3.Sub(pts[i-1], p0)
		sum = r3.Add(sum, r3.Cross(a, b))
	}
	return d3.UnitOrZero(sum)
}

// Centroid returns the unweighted mean of pts.
func Centroid(pts []r3.Vec) r3.Vec {
	return d3.Set(pts).Mean()
}

// DihedralDegrees returns the angle in degrees between two unit normals.
// Coplanar faces give 0.
func DihedralDegrees(n1, n2 r3.Vec) float64 {
	c := r3.Dot(n1, n2)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}
