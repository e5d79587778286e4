package geometry

import "math"

// CircleArea returns the area of a circle with the given radius. The
// result carries the square of the radius unit.
func CircleArea(radius float64) float64 {
	return math.Pi * radius * radius
}

// fwhmPerSigma is the ratio between the full width at half maximum of a
// Gaussian and its standard deviation, 2*sqrt(2*ln 2).
var fwhmPerSigma = 2.0 * math.Sqrt(2.0*math.Ln2)

// FWHMToStd converts the full width at half maximum of a Gaussian profile
// to its standard deviation, in the same unit.
func FWHMToStd(fwhm float64) float64 {
	return fwhm / fwhmPerSigma
}

// Vec3 is a cartesian vector. The unit is up to the caller (AU for most
// heliocentric photometry helpers).
type Vec3 struct {
	X, Y, Z float64
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Inverse returns the vector pointing the opposite way.
func (v Vec3) Inverse() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// PhaseAngle returns the angle enclosed by v and other at their common
// origin, in radians within [0, pi]. If either vector has zero length the
// angle is undefined and 0 is returned.
func (v Vec3) PhaseAngle(other Vec3) float64 {
	denom := v.Norm() * other.Norm()
	if denom == 0 {
		return 0
	}

	cosGamma := v.Dot(other) / denom
	if cosGamma > 1 {
		cosGamma = 1
	} else if cosGamma < -1 {
		cosGamma = -1
	}
	return math.Acos(cosGamma)
}
