package instrument

import (
	"fmt"

	"github.com/signalsfoundry/solary/geometry"
)

// ReflectorConfig carries the physical parameters of a reflector telescope.
// Diameters and focal length are in metres.
type ReflectorConfig struct {
	MainMirrorDia     float64 `json:"main_mirror_dia"`
	SecMirrorDia      float64 `json:"sec_mirror_dia"`
	OpticalThroughput float64 `json:"optical_throughput"`
	FocalLength       float64 `json:"focal_length"`
}

// Reflector is the optical system of a reflector telescope. It is immutable
// once constructed.
type Reflector struct {
	cfg ReflectorConfig
}

// NewReflector validates cfg and returns the optical system.
//
// The secondary mirror may be absent (diameter 0) but must be smaller than
// the main mirror. The optical throughput covers mirror reflectivity, filter
// transmissivity etc., not the detector quantum efficiency.
func NewReflector(cfg ReflectorConfig) (*Reflector, error) {
	switch {
	case !(cfg.MainMirrorDia > 0):
		return nil, fmt.Errorf("%w: main_mirror_dia must be > 0, got %v", ErrConfiguration, cfg.MainMirrorDia)
	case !(cfg.SecMirrorDia >= 0):
		return nil, fmt.Errorf("%w: sec_mirror_dia must be >= 0, got %v", ErrConfiguration, cfg.SecMirrorDia)
	case cfg.SecMirrorDia >= cfg.MainMirrorDia:
		return nil, fmt.Errorf("%w: sec_mirror_dia (%v) must be smaller than main_mirror_dia (%v)",
			ErrConfiguration, cfg.SecMirrorDia, cfg.MainMirrorDia)
	case !(cfg.OpticalThroughput > 0 && cfg.OpticalThroughput <= 1):
		return nil, fmt.Errorf("%w: optical_throughput must be in (0, 1], got %v", ErrConfiguration, cfg.OpticalThroughput)
	case !(cfg.FocalLength > 0):
		return nil, fmt.Errorf("%w: focal_length must be > 0, got %v", ErrConfiguration, cfg.FocalLength)
	}
	return &Reflector{cfg: cfg}, nil
}

// Config returns a copy of the parameters the reflector was built from.
func (r *Reflector) Config() ReflectorConfig { return r.cfg }

// MainMirrorDia is the main mirror diameter in m.
func (r *Reflector) MainMirrorDia() float64 { return r.cfg.MainMirrorDia }

// SecMirrorDia is the secondary mirror diameter in m.
func (r *Reflector) SecMirrorDia() float64 { return r.cfg.SecMirrorDia }

// OpticalThroughput is the dimensionless throughput in (0, 1].
func (r *Reflector) OpticalThroughput() float64 { return r.cfg.OpticalThroughput }

// FocalLength is the focal length in m.
func (r *Reflector) FocalLength() float64 { return r.cfg.FocalLength }

// MainMirrorArea returns the main mirror area in m^2, assuming a circular mirror.
func (r *Reflector) MainMirrorArea() float64 {
	return geometry.CircleArea(r.cfg.MainMirrorDia / 2.0)
}

// SecMirrorArea returns the secondary mirror area in m^2.
func (r *Reflector) SecMirrorArea() float64 {
	return geometry.CircleArea(r.cfg.SecMirrorDia / 2.0)
}

// CollectingArea returns the photon collecting area in m^2: the main mirror
// minus the obstruction of the secondary.
func (r *Reflector) CollectingArea() float64 {
	return r.MainMirrorArea() - r.SecMirrorArea()
}
