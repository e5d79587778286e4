// instrument/loader.go
package instrument

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/signalsfoundry/solary/constants"
)

// internal JSON shapes: pointer fields so a missing key can be told apart
// from an explicit zero.
type reflectorJSON struct {
	MainMirrorDia     *float64 `json:"main_mirror_dia"`
	SecMirrorDia      *float64 `json:"sec_mirror_dia"`
	OpticalThroughput *float64 `json:"optical_throughput"`
	FocalLength       *float64 `json:"focal_length"`
}

type ccdJSON struct {
	Pixels       []int    `json:"pixels"`
	PixelSize    *float64 `json:"pixel_size"`
	DarkNoise    *float64 `json:"dark_noise"`
	ReadoutNoise *float64 `json:"readout_noise"`
	FullWell     *float64 `json:"full_well"`
	QuantumEff   *float64 `json:"quantum_eff"`
}

// LoadReflector decodes a reflector JSON record from r and validates it.
// Every key is required; unknown keys are rejected.
func LoadReflector(r io.Reader) (*Reflector, error) {
	var payload reflectorJSON
	if err := decodeStrict(r, &payload); err != nil {
		return nil, fmt.Errorf("LoadReflector: %w", err)
	}

	missing := missingKeys(map[string]bool{
		"main_mirror_dia":    payload.MainMirrorDia != nil,
		"sec_mirror_dia":     payload.SecMirrorDia != nil,
		"optical_throughput": payload.OpticalThroughput != nil,
		"focal_length":       payload.FocalLength != nil,
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("LoadReflector: %w: missing keys %v", ErrConfiguration, missing)
	}

	return NewReflector(ReflectorConfig{
		MainMirrorDia:     *payload.MainMirrorDia,
		SecMirrorDia:      *payload.SecMirrorDia,
		OpticalThroughput: *payload.OpticalThroughput,
		FocalLength:       *payload.FocalLength,
	})
}

// LoadCCD decodes a CCD JSON record from r and validates it.
func LoadCCD(r io.Reader) (*CCD, error) {
	var payload ccdJSON
	if err := decodeStrict(r, &payload); err != nil {
		return nil, fmt.Errorf("LoadCCD: %w", err)
	}

	missing := missingKeys(map[string]bool{
		"pixels":        payload.Pixels != nil,
		"pixel_size":    payload.PixelSize != nil,
		"dark_noise":    payload.DarkNoise != nil,
		"readout_noise": payload.ReadoutNoise != nil,
		"full_well":     payload.FullWell != nil,
		"quantum_eff":   payload.QuantumEff != nil,
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("LoadCCD: %w: missing keys %v", ErrConfiguration, missing)
	}
	if len(payload.Pixels) != 2 {
		return nil, fmt.Errorf("LoadCCD: %w: pixels needs 2 entries, got %d", ErrConfiguration, len(payload.Pixels))
	}

	return NewCCD(CCDConfig{
		Pixels:       [2]int{payload.Pixels[0], payload.Pixels[1]},
		PixelSize:    *payload.PixelSize,
		DarkNoise:    *payload.DarkNoise,
		ReadoutNoise: *payload.ReadoutNoise,
		FullWell:     *payload.FullWell,
		QuantumEff:   *payload.QuantumEff,
	})
}

// LoadReflectorFile is LoadReflector on the file at path.
func LoadReflectorFile(path string) (*Reflector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	defer f.Close()
	return LoadReflector(f)
}

// LoadCCDFile is LoadCCD on the file at path.
func LoadCCDFile(path string) (*CCD, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	defer f.Close()
	return LoadCCD(f)
}

// LoadTelescopeFiles builds a Telescope from an optics file, a CCD file and
// an optional constants file ("" selects the embedded defaults).
func LoadTelescopeFiles(opticsPath, ccdPath, constantsPath string) (*Telescope, error) {
	optics, err := LoadReflectorFile(opticsPath)
	if err != nil {
		return nil, err
	}
	ccd, err := LoadCCDFile(ccdPath)
	if err != nil {
		return nil, err
	}
	consts, err := constants.LoadFile(constantsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return NewTelescope(optics, ccd, consts)
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode failed: %v", ErrConfiguration, err)
	}
	return nil
}

// missingKeys returns the absent keys in a stable order.
func missingKeys(present map[string]bool) []string {
	var out []string
	for k, ok := range present {
		if !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
