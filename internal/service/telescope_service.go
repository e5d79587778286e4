// internal/service/telescope_service.go
package service

import (
	"bytes"
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/solary/catalog"
	"github.com/signalsfoundry/solary/constants"
	"github.com/signalsfoundry/solary/instrument"
	"github.com/signalsfoundry/solary/internal/logging"
	"github.com/signalsfoundry/solary/internal/observability"
)

// TelescopeService implements TelescopeServiceServer on top of an instrument
// catalog. Every evaluation composes a fresh Telescope, so concurrent
// requests never share observation settings.
type TelescopeService struct {
	catalog *catalog.Catalog
	consts  *constants.Constants
	metrics *observability.EvaluationCollector
	log     logging.Logger
}

var _ TelescopeServiceServer = (*TelescopeService)(nil)

// NewTelescopeService wires the service. consts, metrics and log are
// optional.
func NewTelescopeService(cat *catalog.Catalog, consts *constants.Constants, metrics *observability.EvaluationCollector, log logging.Logger) *TelescopeService {
	if consts == nil {
		consts = constants.Default()
	}
	if log == nil {
		log = logging.Noop()
	}
	return &TelescopeService{
		catalog: cat,
		consts:  consts,
		metrics: metrics,
		log:     log,
	}
}

func (s *TelescopeService) ensureReady() error {
	if s == nil || s.catalog == nil {
		return status.Error(codes.FailedPrecondition, "instrument catalog is not configured")
	}
	return nil
}

func (s *TelescopeService) RegisterReflector(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	name, err := stringField(in, "name")
	if err != nil {
		return nil, ToStatusError(err)
	}
	data, err := structField(in, "reflector")
	if err != nil {
		return nil, ToStatusError(err)
	}

	ctx, span := StartChildSpan(ctx, "catalog.AddReflector", catalog.KindReflector.String(), name)
	defer span.End()

	refl, err := instrument.LoadReflector(bytes.NewReader(data))
	if err != nil {
		span.RecordError(err)
		return nil, ToStatusError(err)
	}
	if err := s.catalog.AddReflector(name, refl); err != nil {
		span.RecordError(err)
		return nil, ToStatusError(err)
	}

	logging.FromContext(ctx, s.log).Info(ctx, "reflector registered",
		logging.String("name", name),
		logging.Float("collecting_area_m2", refl.CollectingArea()),
	)
	return instrumentRef(name, catalog.KindReflector), nil
}

func (s *TelescopeService) RegisterCCD(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	name, err := stringField(in, "name")
	if err != nil {
		return nil, ToStatusError(err)
	}
	data, err := structField(in, "ccd")
	if err != nil {
		return nil, ToStatusError(err)
	}

	ctx, span := StartChildSpan(ctx, "catalog.AddCCD", catalog.KindCCD.String(), name)
	defer span.End()

	ccd, err := instrument.LoadCCD(bytes.NewReader(data))
	if err != nil {
		span.RecordError(err)
		return nil, ToStatusError(err)
	}
	if err := s.catalog.AddCCD(name, ccd); err != nil {
		span.RecordError(err)
		return nil, ToStatusError(err)
	}

	logging.FromContext(ctx, s.log).Info(ctx, "ccd registered",
		logging.String("name", name),
		logging.Int("total_pixels", ccd.TotalPixels()),
	)
	return instrumentRef(name, catalog.KindCCD), nil
}

func (s *TelescopeService) ListInstruments(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	resp, err := toStruct(map[string]any{
		"reflectors": s.catalog.ListReflectors(),
		"ccds":       s.catalog.ListCCDs(),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (s *TelescopeService) EvaluateObservation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	start := time.Now()
	log := logging.FromContext(ctx, s.log)

	ev, err := s.evaluate(ctx, in)
	if err != nil {
		s.metrics.ObserveFailure(evaluationOutcome(err), time.Since(start))
		log.Warn(ctx, "evaluation failed", logging.Err(err))
		return nil, ToStatusError(err)
	}
	s.metrics.ObserveSuccess(ev.SNR, ev.PixelsInAperture, time.Since(start))

	log.Debug(ctx, "observation evaluated",
		logging.Float("snr", ev.SNR),
		logging.Int("pixels_in_aperture", ev.PixelsInAperture),
	)

	resp, err := toStruct(ev)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (s *TelescopeService) evaluate(ctx context.Context, in *structpb.Struct) (*instrument.Evaluation, error) {
	reflName, err := stringField(in, "reflector")
	if err != nil {
		return nil, err
	}
	ccdName, err := stringField(in, "ccd")
	if err != nil {
		return nil, err
	}
	obs, err := decodeObservation(in)
	if err != nil {
		return nil, err
	}

	_, span := StartChildSpan(ctx, "telescope.Evaluate", "telescope", reflName+"+"+ccdName,
		attribute.Float64("observation.aperture", obs.Aperture),
		attribute.Float64("observation.exposure_time", obs.ExposureTime),
	)
	defer span.End()

	tel, err := s.catalog.Telescope(reflName, ccdName, s.consts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	ev, err := tel.Evaluate(obs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Float64("evaluation.snr", ev.SNR))
	return ev, nil
}

func instrumentRef(name string, kind catalog.Kind) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"name": structpb.NewStringValue(name),
		"kind": structpb.NewStringValue(kind.String()),
	}}
}

// BindCatalogMetrics keeps the catalog gauges of m in sync with c. It
// returns the unsubscribe function of the underlying catalog subscription.
func BindCatalogMetrics(c *catalog.Catalog, m *observability.RPCCollector) func() {
	if c == nil || m == nil {
		return func() {}
	}
	update := func(catalog.Event) { m.SetCatalogCounts(c.Counts()) }
	unsubscribe := c.Subscribe(update)
	update(catalog.Event{})
	return unsubscribe
}
