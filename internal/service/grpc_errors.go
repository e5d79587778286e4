package service

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/solary/catalog"
	"github.com/signalsfoundry/solary/instrument"
	"github.com/signalsfoundry/solary/internal/observability"
)

// ErrInvalidRequest is returned for malformed request documents.
var ErrInvalidRequest = errors.New("invalid request")

// ToStatusError maps solary errors onto gRPC status codes. Errors that
// already carry a status pass through unchanged.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, catalog.ErrInstrumentNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, catalog.ErrInstrumentExists):
		return status.Error(codes.AlreadyExists, err.Error())

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, catalog.ErrInvalidInstrument),
		errors.Is(err, instrument.ErrConfiguration),
		errors.Is(err, instrument.ErrInvalidObservation):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, instrument.ErrUnconfiguredObservation),
		errors.Is(err, instrument.ErrDegenerateComputation):
		return status.Error(codes.FailedPrecondition, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// evaluationOutcome classifies an evaluation error for metrics.
func evaluationOutcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, instrument.ErrInvalidObservation), errors.Is(err, ErrInvalidRequest):
		return observability.OutcomeInvalid
	case errors.Is(err, instrument.ErrUnconfiguredObservation):
		return observability.OutcomeUnconfigured
	case errors.Is(err, instrument.ErrDegenerateComputation):
		return observability.OutcomeDegenerate
	case errors.Is(err, instrument.ErrConfiguration), errors.Is(err, catalog.ErrInstrumentNotFound):
		return observability.OutcomeConfiguration
	default:
		return observability.OutcomeError
	}
}
