// Package astrodyn collects small astrodynamical property functions for
// minor bodies: Tisserand parameter, apsides, Julian date conversions and
// the sphere of influence.
package astrodyn

import (
	"math"
	"sync"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/solary/constants"
)

// mjdOffset is the difference between Julian Date and Modified Julian Date.
const mjdOffset = 2400000.5

var defaultConstants = sync.OnceValue(constants.Default)

// Tisserand returns the Tisserand parameter of a minor body with semi-major
// axis semMajAxisObj (AU), inclination inc (radians) and eccentricity ecc
// with respect to a major body on an orbit with semi-major axis
// semMajAxisPlanet (AU).
//
// Values between 2 and 3 w.r.t. Jupiter indicate a Jupiter-family comet.
func Tisserand(semMajAxisObj, inc, ecc, semMajAxisPlanet float64) float64 {
	return semMajAxisPlanet/semMajAxisObj +
		2.0*math.Cos(inc)*math.Sqrt((semMajAxisObj/semMajAxisPlanet)*(1.0-ecc*ecc))
}

// JupiterTisserand is Tisserand w.r.t. Jupiter, using the semi-major axis
// from the embedded constants.
func JupiterTisserand(semMajAxisObj, inc, ecc float64) float64 {
	return Tisserand(semMajAxisObj, inc, ecc, defaultConstants().Planets.SemMajAxisJup)
}

// Apoapsis returns the apoapsis distance in the unit of semMajAxis.
func Apoapsis(semMajAxis, ecc float64) float64 {
	return (1.0 + ecc) * semMajAxis
}

// Periapsis returns the periapsis distance in the unit of semMajAxis.
func Periapsis(semMajAxis, ecc float64) float64 {
	return (1.0 - ecc) * semMajAxis
}

// MJDToJD converts a Modified Julian Date to a Julian Date.
func MJDToJD(mjd float64) float64 {
	return mjd + mjdOffset
}

// JDToMJD converts a Julian Date to a Modified Julian Date.
func JDToMJD(jd float64) float64 {
	return jd - mjdOffset
}

// JulianDate returns the Julian Date of t (converted to UTC). The calendar
// formula is only valid for the years 1900 to 2100.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	jd := satellite.JDay(year, int(month), day, hour, minute, sec)
	return jd + float64(t.Nanosecond())/1e9/86400.0
}

// GreenwichSiderealAngle returns the Greenwich mean sidereal angle at t in
// radians, within [0, 2*pi).
func GreenwichSiderealAngle(t time.Time) float64 {
	return satellite.ThetaG_JD(JulianDate(t))
}

// SphereOfInfluence returns the radius of the spherical sphere of influence
// of a minor body (mass minorMass) orbiting a major body (mass majorMass) at
// semi-major axis semMajAxis. The result carries the unit of semMajAxis.
func SphereOfInfluence(semMajAxis, minorMass, majorMass float64) float64 {
	return semMajAxis * math.Pow(minorMass/majorMass, 2.0/5.0)
}
