package instrument

// Observation is a single photometric observation request.
type Observation struct {
	Aperture         float64 `json:"aperture"`           // arcsec
	HalfFluxDiameter float64 `json:"half_flux_diameter"` // arcsec
	ExposureTime     float64 `json:"exposure_time"`      // s
	ObjectMag        float64 `json:"object_mag"`         // V mag
	SkyMag           float64 `json:"sky_mag"`            // V mag arcsec^-2
}

// Evaluation is the outcome of an Observation on a Telescope.
type Evaluation struct {
	Observation      Observation `json:"observation"`
	FOV              [2]float64  `json:"fov"`  // arcsec
	IFOV             [2]float64  `json:"ifov"` // arcsec pixel^-1
	PixelsInAperture int         `json:"pixels_in_aperture"`
	LightRatio       float64     `json:"light_ratio"`
	ObjectSignal     float64     `json:"object_signal"` // e-
	SkySignal        float64     `json:"sky_signal"`    // e-
	DarkSignal       float64     `json:"dark_signal"`   // e-
	SNR              float64     `json:"snr"`
}

// Evaluate applies the observation settings of obs to t and computes every
// intermediate quantity of the SNR model. The settings stay applied on t
// afterwards. On error t may hold a subset of the new settings.
func (t *Telescope) Evaluate(obs Observation) (*Evaluation, error) {
	if err := t.SetAperture(obs.Aperture); err != nil {
		return nil, err
	}
	if err := t.SetHalfFluxDiameter(obs.HalfFluxDiameter); err != nil {
		return nil, err
	}
	if err := t.SetExposureTime(obs.ExposureTime); err != nil {
		return nil, err
	}

	ev := &Evaluation{
		Observation: obs,
		FOV:         t.FOV(),
		IFOV:        t.IFOV(),
	}

	var err error
	if ev.PixelsInAperture, err = t.PixelsInAperture(); err != nil {
		return nil, err
	}
	if ev.LightRatio, err = t.LightRatioInAperture(); err != nil {
		return nil, err
	}
	if ev.ObjectSignal, err = t.ObjectSignal(obs.ObjectMag); err != nil {
		return nil, err
	}
	if ev.SkySignal, err = t.SkySignal(obs.SkyMag); err != nil {
		return nil, err
	}
	if ev.DarkSignal, err = t.DarkSignal(); err != nil {
		return nil, err
	}
	if ev.SNR, err = t.ObjectSNR(obs.ObjectMag, obs.SkyMag); err != nil {
		return nil, err
	}
	return ev, nil
}
