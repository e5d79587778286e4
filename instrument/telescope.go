package instrument

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/solary/constants"
	"github.com/signalsfoundry/solary/geometry"
	"github.com/signalsfoundry/solary/photometry"
)

// fovArcminPerRadian is the constant of the imperial FOV rule of thumb
// converted to SI units. It is kept as is for compatibility with published
// FOV tables.
const fovArcminPerRadian = 3436.62

// ComputeFOV returns the field of view in arcsec for a sensor dimension and a
// focal length, both in mm.
func ComputeFOV(sensorDimMM, focalLengthMM float64) float64 {
	return (fovArcminPerRadian * sensorDimMM / focalLengthMM) * 60.0
}

// Telescope combines a reflector and a CCD into an imaging system and models
// the photometric signal and SNR of an observation.
//
// Observation settings (aperture, half flux diameter, exposure time) start
// unset and are changed per observation. A Telescope is not safe for
// concurrent mutation; use one instance per observation or lock externally.
type Telescope struct {
	optics *Reflector
	ccd    *CCD

	// photonFluxV is the photon flux of a 0 mag star in the V band (m^-2 s^-1).
	photonFluxV float64

	// nil = unset
	aperture     *float64 // arcsec
	hfdia        *float64 // arcsec
	exposureTime *float64 // s
}

// NewTelescope composes optics and ccd. The photon flux zero point is taken
// from consts; nil selects the embedded defaults.
func NewTelescope(optics *Reflector, ccd *CCD, consts *constants.Constants) (*Telescope, error) {
	if optics == nil {
		return nil, fmt.Errorf("%w: optics is nil", ErrConfiguration)
	}
	if ccd == nil {
		return nil, fmt.Errorf("%w: ccd is nil", ErrConfiguration)
	}
	if consts == nil {
		consts = constants.Default()
	}
	if !(consts.Photometry.PhotonFluxV > 0) {
		return nil, fmt.Errorf("%w: photon_flux_v must be > 0, got %v", ErrConfiguration, consts.Photometry.PhotonFluxV)
	}
	return &Telescope{
		optics:      optics,
		ccd:         ccd,
		photonFluxV: consts.Photometry.PhotonFluxV,
	}, nil
}

// Optics returns the optical system.
func (t *Telescope) Optics() *Reflector { return t.optics }

// Camera returns the sensor.
func (t *Telescope) Camera() *CCD { return t.ccd }

// PhotonFluxV returns the V band photon flux zero point in m^-2 s^-1.
func (t *Telescope) PhotonFluxV() float64 { return t.photonFluxV }

// SetAperture sets the photometric aperture in arcsec. Its pixel footprint
// is a circle of diameter apert.
func (t *Telescope) SetAperture(apert float64) error {
	if !(apert > 0) || math.IsInf(apert, 0) {
		return fmt.Errorf("%w: aperture must be > 0, got %v", ErrInvalidObservation, apert)
	}
	t.aperture = &apert
	return nil
}

// Aperture returns the aperture in arcsec and whether it has been set.
func (t *Telescope) Aperture() (float64, bool) { return deref(t.aperture) }

// SetHalfFluxDiameter sets the half flux diameter (seeing) in arcsec.
func (t *Telescope) SetHalfFluxDiameter(hfd float64) error {
	if !(hfd > 0) || math.IsInf(hfd, 0) {
		return fmt.Errorf("%w: half flux diameter must be > 0, got %v", ErrInvalidObservation, hfd)
	}
	t.hfdia = &hfd
	return nil
}

// HalfFluxDiameter returns the half flux diameter in arcsec and whether it
// has been set.
func (t *Telescope) HalfFluxDiameter() (float64, bool) { return deref(t.hfdia) }

// SetExposureTime sets the exposure time in s. Zero is allowed.
func (t *Telescope) SetExposureTime(seconds float64) error {
	if !(seconds >= 0) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: exposure time must be >= 0, got %v", ErrInvalidObservation, seconds)
	}
	t.exposureTime = &seconds
	return nil
}

// ExposureTime returns the exposure time in s and whether it has been set.
func (t *Telescope) ExposureTime() (float64, bool) { return deref(t.exposureTime) }

// FOV returns the field of view per chip dimension (x, y) in arcsec.
func (t *Telescope) FOV() [2]float64 {
	chip := t.ccd.ChipSize()
	focalLengthMM := t.optics.FocalLength() * 1000.0
	return [2]float64{
		ComputeFOV(chip[0], focalLengthMM),
		ComputeFOV(chip[1], focalLengthMM),
	}
}

// IFOV returns the per-pixel field of view (x, y) in arcsec/pixel.
func (t *Telescope) IFOV() [2]float64 {
	fov := t.FOV()
	pixels := t.ccd.Pixels()
	return [2]float64{
		fov[0] / float64(pixels[0]),
		fov[1] / float64(pixels[1]),
	}
}

// PixelsInAperture returns the number of pixels covered by the photometric
// aperture, rounded half to even.
func (t *Telescope) PixelsInAperture() (int, error) {
	apert, err := t.requireAperture()
	if err != nil {
		return 0, err
	}

	ifov := t.IFOV()
	pixelArea := ifov[0] * ifov[1]
	if pixelArea == 0 {
		return 0, fmt.Errorf("%w: per-pixel field of view is zero", ErrDegenerateComputation)
	}

	n := math.RoundToEven(geometry.CircleArea(0.5*apert) / pixelArea)
	if !isFinite(n) || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: aperture of %v arcsec covers %v pixels", ErrDegenerateComputation, apert, n)
	}
	return int(n), nil
}

// LightRatioInAperture returns the fraction of a point source's light that
// falls inside the aperture, in [0, 1]. The PSF is modelled as a separable
// 2D Gaussian whose FWHM is the half flux diameter.
func (t *Telescope) LightRatioInAperture() (float64, error) {
	apert, err := t.requireAperture()
	if err != nil {
		return 0, err
	}
	hfd, ok := t.HalfFluxDiameter()
	if !ok {
		return 0, fmt.Errorf("%w: half flux diameter", ErrUnconfiguredObservation)
	}

	sigma := geometry.FWHMToStd(hfd)
	ratio := math.Erf(apert / (sigma * math.Sqrt2))
	return ratio * ratio, nil
}

// ObjectSignal returns the electrons created inside the aperture by an
// object of V magnitude mag during the exposure, rounded half to even.
func (t *Telescope) ObjectSignal(mag float64) (float64, error) {
	flux, err := t.electronFlux(mag)
	if err != nil {
		return 0, err
	}
	ratio, err := t.LightRatioInAperture()
	if err != nil {
		return 0, err
	}
	return math.RoundToEven(flux * ratio), nil
}

// SkySignal returns the electrons created inside the aperture by a sky
// background of surface brightness magArcsecSq (mag/arcsec^2), rounded half
// to even.
//
// The surface brightness is integrated over the whole FOV and distributed
// uniformly over the chip, so the aperture receives the discrete fraction of
// pixels it covers.
func (t *Telescope) SkySignal(magArcsecSq float64) (float64, error) {
	fov := t.FOV()
	totalSkyMag := photometry.SurfaceToIntegratedMag(magArcsecSq, fov[0]*fov[1])

	flux, err := t.electronFlux(totalSkyMag)
	if err != nil {
		return 0, err
	}
	pixels, err := t.PixelsInAperture()
	if err != nil {
		return 0, err
	}

	frac := float64(pixels) / float64(t.ccd.TotalPixels())
	return math.RoundToEven(flux * frac), nil
}

// DarkSignal returns the dark current electrons inside the aperture during
// the exposure, rounded half to even.
func (t *Telescope) DarkSignal() (float64, error) {
	exp, ok := t.ExposureTime()
	if !ok {
		return 0, fmt.Errorf("%w: exposure time", ErrUnconfiguredObservation)
	}
	pixels, err := t.PixelsInAperture()
	if err != nil {
		return 0, err
	}
	return math.RoundToEven(t.ccd.DarkNoise() * exp * float64(pixels)), nil
}

// ObjectSNR returns the signal-to-noise ratio of an object of V magnitude
// objMag on a sky of skyMagArcsecSq. Noise is the Poisson noise of object,
// sky and dark electrons; readout noise is not part of this model.
func (t *Telescope) ObjectSNR(objMag, skyMagArcsecSq float64) (float64, error) {
	signal, err := t.ObjectSignal(objMag)
	if err != nil {
		return 0, err
	}
	sky, err := t.SkySignal(skyMagArcsecSq)
	if err != nil {
		return 0, err
	}
	dark, err := t.DarkSignal()
	if err != nil {
		return 0, err
	}

	total := signal + sky + dark
	if total <= 0 {
		return 0, fmt.Errorf("%w: no electrons in aperture (signal=%v sky=%v dark=%v)",
			ErrDegenerateComputation, signal, sky, dark)
	}
	snr := signal / math.Sqrt(total)
	if !isFinite(total) || !isFinite(snr) {
		return 0, fmt.Errorf("%w: electron count out of range (signal=%v sky=%v dark=%v)",
			ErrDegenerateComputation, signal, sky, dark)
	}
	return snr, nil
}

// electronFlux returns the unrounded electrons collected over the full
// collecting area for a source of magnitude mag during the exposure.
func (t *Telescope) electronFlux(mag float64) (float64, error) {
	exp, ok := t.ExposureTime()
	if !ok {
		return 0, fmt.Errorf("%w: exposure time", ErrUnconfiguredObservation)
	}
	flux := math.Pow(10.0, -0.4*mag) *
		t.photonFluxV *
		exp *
		t.optics.CollectingArea() *
		t.ccd.QuantumEff() *
		t.optics.OpticalThroughput()
	if !isFinite(flux) {
		return 0, fmt.Errorf("%w: magnitude %v gives flux %v", ErrDegenerateComputation, mag, flux)
	}
	return flux, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (t *Telescope) requireAperture() (float64, error) {
	apert, ok := t.Aperture()
	if !ok {
		return 0, fmt.Errorf("%w: aperture", ErrUnconfiguredObservation)
	}
	return apert, nil
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
