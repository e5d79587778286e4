package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/solary/instrument"
)

// Request and response documents are google.protobuf.Struct values with the
// following fields.
//
//	RegisterReflector   {name, reflector: {main_mirror_dia, sec_mirror_dia, optical_throughput, focal_length}}
//	                 -> {name, kind}
//	RegisterCCD         {name, ccd: {pixels, pixel_size, dark_noise, readout_noise, full_well, quantum_eff}}
//	                 -> {name, kind}
//	ListInstruments     {} -> {reflectors: [...], ccds: [...]}
//	EvaluateObservation {reflector, ccd, observation: {aperture, half_flux_diameter, exposure_time, object_mag, sky_mag}}
//	                 -> evaluation record (see instrument.Evaluation)

// observationJSON uses pointers so missing fields are rejected.
type observationJSON struct {
	Aperture         *float64 `json:"aperture"`
	HalfFluxDiameter *float64 `json:"half_flux_diameter"`
	ExposureTime     *float64 `json:"exposure_time"`
	ObjectMag        *float64 `json:"object_mag"`
	SkyMag           *float64 `json:"sky_mag"`
}

func (o observationJSON) toObservation() (instrument.Observation, error) {
	if o.Aperture == nil || o.HalfFluxDiameter == nil || o.ExposureTime == nil || o.ObjectMag == nil || o.SkyMag == nil {
		return instrument.Observation{}, fmt.Errorf("%w: observation needs aperture, half_flux_diameter, exposure_time, object_mag and sky_mag", ErrInvalidRequest)
	}
	return instrument.Observation{
		Aperture:         *o.Aperture,
		HalfFluxDiameter: *o.HalfFluxDiameter,
		ExposureTime:     *o.ExposureTime,
		ObjectMag:        *o.ObjectMag,
		SkyMag:           *o.SkyMag,
	}, nil
}

// stringField returns the non-empty string field key of s.
func stringField(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidRequest, key)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || str.StringValue == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidRequest, key)
	}
	return str.StringValue, nil
}

// structField returns the nested object field key of s encoded as JSON.
func structField(s *structpb.Struct, key string) ([]byte, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidRequest, key)
	}
	obj := v.GetStructValue()
	if obj == nil {
		return nil, fmt.Errorf("%w: %s must be an object", ErrInvalidRequest, key)
	}
	data, err := protojson.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, key, err)
	}
	return data, nil
}

func decodeObservation(s *structpb.Struct) (instrument.Observation, error) {
	data, err := structField(s, "observation")
	if err != nil {
		return instrument.Observation{}, err
	}
	var payload observationJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return instrument.Observation{}, fmt.Errorf("%w: observation: %v", ErrInvalidRequest, err)
	}
	return payload.toObservation()
}

// toStruct converts any JSON-marshalable value into a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fromStruct decodes s into v through its JSON form.
func fromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
