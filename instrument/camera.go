package instrument

import "fmt"

// CCDConfig carries the physical parameters of a CCD sensor.
type CCDConfig struct {
	Pixels       [2]int  `json:"pixels"`        // count per dimension (x, y)
	PixelSize    float64 `json:"pixel_size"`    // µm, square pixels
	DarkNoise    float64 `json:"dark_noise"`    // e- s^-1 pixel^-1
	ReadoutNoise float64 `json:"readout_noise"` // e- pixel^-1
	FullWell     float64 `json:"full_well"`     // e-
	QuantumEff   float64 `json:"quantum_eff"`   // (0, 1]
}

// CCD is an immutable camera sensor model.
type CCD struct {
	cfg CCDConfig
}

// NewCCD validates cfg and returns the sensor.
func NewCCD(cfg CCDConfig) (*CCD, error) {
	if cfg.Pixels[0] <= 0 || cfg.Pixels[1] <= 0 {
		return nil, fmt.Errorf("%w: pixels must be positive, got %v", ErrConfiguration, cfg.Pixels)
	}
	if !(cfg.PixelSize > 0) {
		return nil, fmt.Errorf("%w: pixel_size must be > 0, got %v", ErrConfiguration, cfg.PixelSize)
	}
	if !(cfg.DarkNoise >= 0) {
		return nil, fmt.Errorf("%w: dark_noise must be >= 0, got %v", ErrConfiguration, cfg.DarkNoise)
	}
	if !(cfg.ReadoutNoise >= 0) {
		return nil, fmt.Errorf("%w: readout_noise must be >= 0, got %v", ErrConfiguration, cfg.ReadoutNoise)
	}
	if !(cfg.FullWell > 0) {
		return nil, fmt.Errorf("%w: full_well must be > 0, got %v", ErrConfiguration, cfg.FullWell)
	}
	if !(cfg.QuantumEff > 0 && cfg.QuantumEff <= 1) {
		return nil, fmt.Errorf("%w: quantum_eff must be in (0, 1], got %v", ErrConfiguration, cfg.QuantumEff)
	}
	return &CCD{cfg: cfg}, nil
}

func (c *CCD) Config() CCDConfig     { return c.cfg }
func (c *CCD) Pixels() [2]int        { return c.cfg.Pixels }
func (c *CCD) PixelSize() float64    { return c.cfg.PixelSize }
func (c *CCD) DarkNoise() float64    { return c.cfg.DarkNoise }
func (c *CCD) ReadoutNoise() float64 { return c.cfg.ReadoutNoise }
func (c *CCD) FullWell() float64     { return c.cfg.FullWell }
func (c *CCD) QuantumEff() float64   { return c.cfg.QuantumEff }

// TotalPixels returns the number of pixels on the chip.
func (c *CCD) TotalPixels() int {
	return c.cfg.Pixels[0] * c.cfg.Pixels[1]
}

// ChipSize returns the chip size per dimension (x, y) in mm.
func (c *CCD) ChipSize() [2]float64 {
	return [2]float64{
		float64(c.cfg.Pixels[0]) * c.cfg.PixelSize / 1000.0,
		float64(c.cfg.Pixels[1]) * c.cfg.PixelSize / 1000.0,
	}
}

// PixelAreaM2 returns the area of a single pixel in m^2.
func (c *CCD) PixelAreaM2() float64 {
	return c.cfg.PixelSize * c.cfg.PixelSize * 1e-12
}
