// Package geometry provides the small vector-arithmetic primitives the CA
// pipeline needs: cone membership for cell formation and angular continuity
// for neighbour linking.
package geometry

import "math"

// Vec3 is a position or displacement in detector coordinates.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// InCone reports whether outer lies within a cone of half-angle minAngle
// rooted at inner and axed along the ray from the origin through inner.
//
// ok is false when inner is at the origin, where the axis is undefined; the
// caller must treat that as a DegenerateGeometry event, not as "not in cone".
func InCone(inner, outer Vec3, minAngle float64) (inCone bool, ok bool) {
	innerNorm := inner.Norm()
	if innerNorm == 0 {
		return false, false
	}
	axis := inner.Scale(1 / innerNorm)
	r := outer.Sub(inner)
	d := r.Dot(axis)
	if d <= 0 {
		return false, true
	}
	perp := r.Sub(axis.Scale(d))
	rho := perp.Norm()
	return rho < d*math.Tan(minAngle), true
}

// Angle returns the angle between v and w, clamped to tolerate floating
// point drift at the domain boundary of acos.
//
// ok is false when either vector has zero length, where the angle is
// undefined; the caller must treat that as a DegenerateGeometry event.
func Angle(v, w Vec3) (angle float64, ok bool) {
	nv, nw := v.Norm(), w.Norm()
	if nv == 0 || nw == 0 {
		return 0, false
	}
	cos := v.Dot(w) / (nv * nw)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos), true
}
