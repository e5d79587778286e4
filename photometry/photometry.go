// Package photometry converts between magnitudes, irradiance and surface
// brightness, and implements the H-G magnitude system for minor bodies.
package photometry

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/solary/geometry"
)

// H-G phase function coefficients (Bowell et al. 1989).
var phaseCoefficients = map[int]struct{ A, B float64 }{
	1: {A: 3.33, B: 0.63},
	2: {A: 1.87, B: 1.22},
}

// AppMagToIrradiance converts an apparent bolometric magnitude to an
// irradiance in W/m^2, given the irradiance i0 of a zero magnitude source.
func AppMagToIrradiance(appMag, i0 float64) float64 {
	return math.Pow(10.0, -0.4*appMag+math.Log10(i0))
}

// SurfaceToIntegratedMag converts a surface brightness (mag/arcsec^2) to the
// integrated magnitude over area (arcsec^2). A larger area yields a brighter,
// numerically smaller, magnitude.
func SurfaceToIntegratedMag(surMag, area float64) float64 {
	return surMag - 2.5*math.Log10(area)
}

// IntegratedToSurfaceMag is the inverse of SurfaceToIntegratedMag.
func IntegratedToSurfaceMag(intMag, area float64) float64 {
	return intMag + 2.5*math.Log10(area)
}

// PhaseFunc evaluates the H-G phase function phi_index (index 1 or 2) for a
// phase angle in radians.
func PhaseFunc(index int, phaseAngle float64) (float64, error) {
	c, ok := phaseCoefficients[index]
	if !ok {
		return 0, fmt.Errorf("phase function index must be 1 or 2, got %d", index)
	}
	return math.Exp(-c.A * math.Pow(math.Tan(0.5*phaseAngle), c.B)), nil
}

// ReducedMag returns the reduced magnitude of a minor body with absolute
// magnitude absMag and slope parameter slopeG, seen at phaseAngle (radians).
func ReducedMag(absMag, slopeG, phaseAngle float64) float64 {
	phi1, _ := PhaseFunc(1, phaseAngle)
	phi2, _ := PhaseFunc(2, phaseAngle)
	return absMag - 2.5*math.Log10((1.0-slopeG)*phi1+slopeG*phi2)
}

// HGAppMag returns the apparent magnitude of a minor body in the H-G system.
// objToObs points from the object to the observer, objToIll from the object
// to the illuminating body; both in AU.
func HGAppMag(absMag, slopeG float64, objToObs, objToIll geometry.Vec3) float64 {
	phase := objToObs.PhaseAngle(objToIll)
	red := ReducedMag(absMag, slopeG, phase)
	return red + 5.0*math.Log10(objToObs.Norm()*objToIll.Norm())
}
