package astrodyn

import (
	"errors"
	"fmt"
)

// ErrInvalidOrbit is returned by Orbit.Validate.
var ErrInvalidOrbit = errors.New("invalid orbit")

// naifIDs maps supported orbit centres to their NAIF integer codes.
var naifIDs = map[string]int{
	"SSB": 0,
	"Sun": 10,
}

// Orbit is a closed Keplerian orbit described by its periapsis distance.
// Angles are in radians; Periapsis and GravParam share the distance unit.
type Orbit struct {
	Periapsis float64 `json:"rp"`
	Ecc       float64 `json:"ecc"`
	Inc       float64 `json:"inc"`
	LNode     float64 `json:"lnode"`
	ArgP      float64 `json:"argp"`
	Ref       string  `json:"ref"`
	Center    string  `json:"center"`
	GravParam float64 `json:"grav_param"`
}

// Validate checks that the orbit is closed and has a positive periapsis.
func (o *Orbit) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: orbit is nil", ErrInvalidOrbit)
	}
	if !(o.Periapsis > 0) {
		return fmt.Errorf("%w: periapsis must be > 0, got %v", ErrInvalidOrbit, o.Periapsis)
	}
	if o.Ecc < 0 || o.Ecc >= 1 {
		return fmt.Errorf("%w: eccentricity must be in [0, 1), got %v", ErrInvalidOrbit, o.Ecc)
	}
	return nil
}

// SemiMajorAxis derives the semi-major axis from periapsis and eccentricity.
func (o *Orbit) SemiMajorAxis() float64 {
	return o.Periapsis / (1.0 - o.Ecc)
}

// Apoapsis returns the apoapsis distance.
func (o *Orbit) Apoapsis() float64 {
	return Apoapsis(o.SemiMajorAxis(), o.Ecc)
}

// CenterID returns the NAIF ID of the orbit centre and whether it is known.
func (o *Orbit) CenterID() (int, bool) {
	id, ok := naifIDs[o.Center]
	return id, ok
}
