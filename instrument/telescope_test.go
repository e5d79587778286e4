package instrument

import (
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/solary/constants"
)

func testReflectorConfig() ReflectorConfig {
	return ReflectorConfig{
		MainMirrorDia:     1.0,
		SecMirrorDia:      0.2,
		OpticalThroughput: 0.6,
		FocalLength:       10.0,
	}
}

func testCCDConfig() CCDConfig {
	return CCDConfig{
		Pixels:       [2]int{4096, 4112},
		PixelSize:    15.0,
		DarkNoise:    2.0,
		ReadoutNoise: 1.0,
		FullWell:     300000.0,
		QuantumEff:   0.5,
	}
}

func newTestTelescope(t *testing.T, rcfg ReflectorConfig, ccfg CCDConfig) *Telescope {
	t.Helper()
	optics, err := NewReflector(rcfg)
	if err != nil {
		t.Fatalf("NewReflector: %v", err)
	}
	ccd, err := NewCCD(ccfg)
	if err != nil {
		t.Fatalf("NewCCD: %v", err)
	}
	tel, err := NewTelescope(optics, ccd, nil)
	if err != nil {
		t.Fatalf("NewTelescope: %v", err)
	}
	return tel
}

// setObservation applies the reference observation: 10" aperture, 10" HFD
// and a 60 s exposure.
func setObservation(t *testing.T, tel *Telescope) {
	t.Helper()
	if err := tel.SetAperture(10.0); err != nil {
		t.Fatalf("SetAperture: %v", err)
	}
	if err := tel.SetHalfFluxDiameter(10.0); err != nil {
		t.Fatalf("SetHalfFluxDiameter: %v", err)
	}
	if err := tel.SetExposureTime(60.0); err != nil {
		t.Fatalf("SetExposureTime: %v", err)
	}
}

func TestComputeFOVBaseConstant(t *testing.T) {
	got := ComputeFOV(25.4, 1000.0) / 60.0
	if math.Abs(got-87.3) > 0.1 {
		t.Fatalf("ComputeFOV(25.4, 1000)/60 = %v, want ~87.3", got)
	}
}

func TestTelescopeFOV(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())

	fov := tel.FOV()
	if math.Abs(fov[0]-1266.8) > 0.1 {
		t.Fatalf("fov[0] = %v, want ~1266.8", fov[0])
	}
	if math.Abs(fov[1]-1271.8) > 0.1 {
		t.Fatalf("fov[1] = %v, want ~1271.8", fov[1])
	}

	ifov := tel.IFOV()
	pixels := tel.Camera().Pixels()
	for i := 0; i < 2; i++ {
		if ifov[i] != fov[i]/float64(pixels[i]) {
			t.Fatalf("ifov[%d] = %v, want fov/pixels = %v", i, ifov[i], fov[i]/float64(pixels[i]))
		}
	}
}

func TestFOVInverselyProportionalToFocalLength(t *testing.T) {
	base := newTestTelescope(t, testReflectorConfig(), testCCDConfig())

	rcfg := testReflectorConfig()
	rcfg.FocalLength *= 2
	long := newTestTelescope(t, rcfg, testCCDConfig())

	a, b := base.FOV(), long.FOV()
	for i := 0; i < 2; i++ {
		if math.Abs(b[i]-a[i]/2) > 1e-9 {
			t.Fatalf("fov[%d] with doubled focal length = %v, want %v", i, b[i], a[i]/2)
		}
	}
}

func TestObjectSNRReferenceScenario(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())
	setObservation(t, tel)

	pixels, err := tel.PixelsInAperture()
	if err != nil {
		t.Fatalf("PixelsInAperture: %v", err)
	}
	if pixels != 821 {
		t.Fatalf("pixels in aperture = %d, want 821", pixels)
	}

	ratio, err := tel.LightRatioInAperture()
	if err != nil {
		t.Fatalf("LightRatioInAperture: %v", err)
	}
	if math.Abs(ratio-0.963280067577876) > 1e-12 {
		t.Fatalf("light ratio = %.15f, want 0.963280067577876", ratio)
	}

	obj, err := tel.ObjectSignal(19.0)
	if err != nil {
		t.Fatalf("ObjectSignal: %v", err)
	}
	if obj != 2890 {
		t.Fatalf("object signal = %v, want 2890", obj)
	}

	sky, err := tel.SkySignal(19.0)
	if err != nil {
		t.Fatalf("SkySignal: %v", err)
	}
	if sky != 235617 {
		t.Fatalf("sky signal = %v, want 235617", sky)
	}

	dark, err := tel.DarkSignal()
	if err != nil {
		t.Fatalf("DarkSignal: %v", err)
	}
	if dark != 98520 {
		t.Fatalf("dark signal = %v, want 98520", dark)
	}

	snr, err := tel.ObjectSNR(19.0, 19.0)
	if err != nil {
		t.Fatalf("ObjectSNR: %v", err)
	}
	if math.Abs(snr-5.0) > 0.1 {
		t.Fatalf("snr = %v, want ~5.0", snr)
	}
	want := 2890 / math.Sqrt(2890+235617+98520)
	if snr != want {
		t.Fatalf("snr = %v, want signal/sqrt(total) = %v", snr, want)
	}
}

func TestObjectSNRIgnoresReadoutNoise(t *testing.T) {
	// Readout noise is not part of the noise model; changing it must not
	// move the SNR.
	quiet := newTestTelescope(t, testReflectorConfig(), testCCDConfig())
	setObservation(t, quiet)

	ccfg := testCCDConfig()
	ccfg.ReadoutNoise = 50.0
	noisy := newTestTelescope(t, testReflectorConfig(), ccfg)
	setObservation(t, noisy)

	a, err := quiet.ObjectSNR(19.0, 19.0)
	if err != nil {
		t.Fatalf("ObjectSNR: %v", err)
	}
	b, err := noisy.ObjectSNR(19.0, 19.0)
	if err != nil {
		t.Fatalf("ObjectSNR: %v", err)
	}
	if a != b {
		t.Fatalf("snr changed with readout noise: %v vs %v", a, b)
	}
}

func TestSignalRoundingIsHalfToEven(t *testing.T) {
	// 0.5 e-/s * 1 s * 821 pixels = 410.5 exactly; half to even gives 410.
	ccfg := testCCDConfig()
	ccfg.DarkNoise = 0.5
	tel := newTestTelescope(t, testReflectorConfig(), ccfg)
	setObservation(t, tel)
	if err := tel.SetExposureTime(1.0); err != nil {
		t.Fatalf("SetExposureTime: %v", err)
	}

	dark, err := tel.DarkSignal()
	if err != nil {
		t.Fatalf("DarkSignal: %v", err)
	}
	if dark != 410 {
		t.Fatalf("dark signal = %v, want 410 (round half to even)", dark)
	}
}

func TestLightRatioMonotonicAndBounded(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())
	if err := tel.SetHalfFluxDiameter(5.0); err != nil {
		t.Fatalf("SetHalfFluxDiameter: %v", err)
	}

	prev := -1.0
	for apert := 0.25; apert <= 50.0; apert += 0.25 {
		if err := tel.SetAperture(apert); err != nil {
			t.Fatalf("SetAperture(%v): %v", apert, err)
		}
		ratio, err := tel.LightRatioInAperture()
		if err != nil {
			t.Fatalf("LightRatioInAperture: %v", err)
		}
		if ratio < 0 || ratio > 1 {
			t.Fatalf("ratio(%v) = %v outside [0, 1]", apert, ratio)
		}
		if ratio < prev {
			t.Fatalf("ratio(%v) = %v decreased from %v", apert, ratio, prev)
		}
		prev = ratio
	}
	if 1-prev > 1e-9 {
		t.Fatalf("ratio at large aperture = %v, want ~1", prev)
	}
}

func TestDerivedQuantitiesAreIdempotent(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())
	setObservation(t, tel)

	first, err := tel.Evaluate(Observation{
		Aperture: 10, HalfFluxDiameter: 10, ExposureTime: 60, ObjectMag: 19, SkyMag: 19,
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for i := 0; i < 3; i++ {
		snr, err := tel.ObjectSNR(19, 19)
		if err != nil {
			t.Fatalf("ObjectSNR: %v", err)
		}
		if snr != first.SNR {
			t.Fatalf("call %d: snr = %v, want %v", i, snr, first.SNR)
		}
		if fov := tel.FOV(); fov != first.FOV {
			t.Fatalf("call %d: fov = %v, want %v", i, fov, first.FOV)
		}
		if px, _ := tel.PixelsInAperture(); px != first.PixelsInAperture {
			t.Fatalf("call %d: pixels = %d, want %d", i, px, first.PixelsInAperture)
		}
	}
}

func TestUnsetObservationSettings(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())

	if _, err := tel.PixelsInAperture(); !errors.Is(err, ErrUnconfiguredObservation) {
		t.Fatalf("PixelsInAperture without aperture: err = %v", err)
	}
	if _, err := tel.ObjectSignal(19); !errors.Is(err, ErrUnconfiguredObservation) {
		t.Fatalf("ObjectSignal without exposure: err = %v", err)
	}

	if err := tel.SetExposureTime(60); err != nil {
		t.Fatalf("SetExposureTime: %v", err)
	}
	if err := tel.SetAperture(10); err != nil {
		t.Fatalf("SetAperture: %v", err)
	}
	if _, err := tel.LightRatioInAperture(); !errors.Is(err, ErrUnconfiguredObservation) {
		t.Fatalf("LightRatioInAperture without hfd: err = %v", err)
	}
	if _, err := tel.DarkSignal(); err != nil {
		t.Fatalf("DarkSignal does not need hfd: %v", err)
	}
	if _, ok := tel.HalfFluxDiameter(); ok {
		t.Fatalf("HalfFluxDiameter reported as set")
	}
}

func TestSettersRejectInvalidValues(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())

	cases := []struct {
		name string
		set  func() error
	}{
		{"zero aperture", func() error { return tel.SetAperture(0) }},
		{"negative aperture", func() error { return tel.SetAperture(-1) }},
		{"NaN aperture", func() error { return tel.SetAperture(math.NaN()) }},
		{"zero hfd", func() error { return tel.SetHalfFluxDiameter(0) }},
		{"negative exposure", func() error { return tel.SetExposureTime(-1) }},
		{"infinite exposure", func() error { return tel.SetExposureTime(math.Inf(1)) }},
	}
	for _, tc := range cases {
		if err := tc.set(); !errors.Is(err, ErrInvalidObservation) {
			t.Fatalf("%s: err = %v, want ErrInvalidObservation", tc.name, err)
		}
	}
	if _, ok := tel.Aperture(); ok {
		t.Fatalf("rejected aperture was stored")
	}
	if err := tel.SetExposureTime(0); err != nil {
		t.Fatalf("zero exposure should be accepted: %v", err)
	}
}

func TestObjectSNRZeroExposureIsDegenerate(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())
	setObservation(t, tel)
	if err := tel.SetExposureTime(0); err != nil {
		t.Fatalf("SetExposureTime: %v", err)
	}

	snr, err := tel.ObjectSNR(19, 19)
	if !errors.Is(err, ErrDegenerateComputation) {
		t.Fatalf("ObjectSNR with zero exposure: snr=%v err=%v", snr, err)
	}
}

func TestPixelsInApertureRejectsOversizedAperture(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())
	setObservation(t, tel)
	if err := tel.SetAperture(1e12); err != nil {
		t.Fatalf("SetAperture: %v", err)
	}

	if pixels, err := tel.PixelsInAperture(); !errors.Is(err, ErrDegenerateComputation) {
		t.Fatalf("PixelsInAperture: pixels=%d err=%v", pixels, err)
	}
	if dark, err := tel.DarkSignal(); !errors.Is(err, ErrDegenerateComputation) {
		t.Fatalf("DarkSignal: dark=%v err=%v", dark, err)
	}
	if sky, err := tel.SkySignal(19); !errors.Is(err, ErrDegenerateComputation) {
		t.Fatalf("SkySignal: sky=%v err=%v", sky, err)
	}
	if snr, err := tel.ObjectSNR(19, 19); !errors.Is(err, ErrDegenerateComputation) {
		t.Fatalf("ObjectSNR: snr=%v err=%v", snr, err)
	}
}

func TestSignalsRejectOverflowingMagnitudes(t *testing.T) {
	tel := newTestTelescope(t, testReflectorConfig(), testCCDConfig())
	setObservation(t, tel)

	cases := []struct {
		name string
		call func() (float64, error)
	}{
		{"object signal", func() (float64, error) { return tel.ObjectSignal(-1000) }},
		{"sky signal", func() (float64, error) { return tel.SkySignal(-1000) }},
		{"snr bright object", func() (float64, error) { return tel.ObjectSNR(-1000, 19) }},
		{"snr bright sky", func() (float64, error) { return tel.ObjectSNR(19, -1000) }},
	}
	for _, tc := range cases {
		v, err := tc.call()
		if !errors.Is(err, ErrDegenerateComputation) {
			t.Fatalf("%s: value=%v err=%v, want ErrDegenerateComputation", tc.name, v, err)
		}
		if v != 0 {
			t.Fatalf("%s: value = %v, want 0 on error", tc.name, v)
		}
	}
}

func TestNewTelescopeValidation(t *testing.T) {
	optics, _ := NewReflector(testReflectorConfig())
	ccd, _ := NewCCD(testCCDConfig())

	if _, err := NewTelescope(nil, ccd, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("nil optics: err = %v", err)
	}
	if _, err := NewTelescope(optics, nil, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("nil ccd: err = %v", err)
	}

	consts := constants.Default()
	consts.Photometry.PhotonFluxV = 0
	if _, err := NewTelescope(optics, ccd, consts); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("zero photon flux: err = %v", err)
	}

	tel, err := NewTelescope(optics, ccd, nil)
	if err != nil {
		t.Fatalf("NewTelescope: %v", err)
	}
	if tel.Optics() != optics || tel.Camera() != ccd {
		t.Fatalf("telescope does not hold the given components")
	}
	if tel.PhotonFluxV() != 8.8e9 {
		t.Fatalf("photon flux = %v, want 8.8e9", tel.PhotonFluxV())
	}
}
