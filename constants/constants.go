// Package constants loads the physical and photometric constants shared by
// the instrument and astrodynamics packages. A default set is embedded in
// the binary; deployments may override it with their own YAML file.
package constants

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed constants.yaml
var defaultConstants []byte

// ErrInvalidConstants is returned when a constants file is malformed or
// carries a non-physical value.
var ErrInvalidConstants = errors.New("invalid constants")

// Photometry holds photometric zero points.
type Photometry struct {
	PhotonFluxV float64 `yaml:"photon_flux_v"` // m^-2 s^-1, 0 mag star, V band
	AppMagIrrI0 float64 `yaml:"appmag_irr_i0"` // W/m^2, 0 mag bolometric
}

// Planets holds planetary orbit constants.
type Planets struct {
	SemMajAxisJup float64 `yaml:"sem_maj_axis_jup"` // AU
}

// Physical holds gravitational and distance constants.
type Physical struct {
	OneAU     float64 `yaml:"one_au"`     // km
	GravConst float64 `yaml:"grav_const"` // km^3 kg^-1 s^-2
	GMEarth   float64 `yaml:"gm_earth"`   // km^3 s^-2
	GMSun     float64 `yaml:"gm_sun"`     // km^3 s^-2
}

// Constants is the full constants record.
type Constants struct {
	Photometry Photometry `yaml:"photometry"`
	Planets    Planets    `yaml:"planets"`
	Physical   Physical   `yaml:"constants"`
}

// EarthMass returns the mass of the Earth in kg.
func (c *Constants) EarthMass() float64 {
	return c.Physical.GMEarth / c.Physical.GravConst
}

// SunMass returns the mass of the Sun in kg.
func (c *Constants) SunMass() float64 {
	return c.Physical.GMSun / c.Physical.GravConst
}

// Default returns the embedded constants. It panics only if the embedded
// file is broken, which is a build defect.
func Default() *Constants {
	c, err := Parse(defaultConstants)
	if err != nil {
		panic(fmt.Errorf("embedded constants: %w", err))
	}
	return c
}

// Load reads constants from r, starting from the embedded defaults so a file
// only needs to carry the values it overrides.
func Load(r io.Reader) (*Constants, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read constants: %w", err)
	}
	return Parse(data)
}

// LoadFile reads constants from a YAML file at path. An empty path yields
// the embedded defaults.
func LoadFile(path string) (*Constants, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open constants %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Parse decodes YAML constants layered over the embedded defaults.
func Parse(data []byte) (*Constants, error) {
	c := &Constants{}
	if err := yaml.Unmarshal(defaultConstants, c); err != nil {
		return nil, fmt.Errorf("%w: defaults: %v", ErrInvalidConstants, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConstants, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Constants) validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"photometry.photon_flux_v", c.Photometry.PhotonFluxV},
		{"photometry.appmag_irr_i0", c.Photometry.AppMagIrrI0},
		{"planets.sem_maj_axis_jup", c.Planets.SemMajAxisJup},
		{"constants.one_au", c.Physical.OneAU},
		{"constants.grav_const", c.Physical.GravConst},
		{"constants.gm_earth", c.Physical.GMEarth},
		{"constants.gm_sun", c.Physical.GMSun},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidConstants, p.name, p.value)
		}
	}
	return nil
}
