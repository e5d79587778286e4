package instrument

import "errors"

var (
	// ErrConfiguration reports an invalid or missing physical parameter of
	// an optical system or sensor.
	ErrConfiguration = errors.New("invalid instrument configuration")
	// ErrInvalidObservation reports a rejected observation setting, e.g. a
	// negative exposure time.
	ErrInvalidObservation = errors.New("invalid observation setting")
	// ErrUnconfiguredObservation is returned when a computation needs an
	// observation setting that has not been set yet.
	ErrUnconfiguredObservation = errors.New("observation setting not configured")
	// ErrDegenerateComputation is returned when a result is undefined, e.g.
	// an SNR with zero total electrons.
	ErrDegenerateComputation = errors.New("degenerate computation")
)
