package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	dogtypes "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/observability/service"

// Service decorates the dogs application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Create(ctx context.Context, input dogtypes.CreateDogInput) (*domain.Dog, error) {
	attrs := []attribute.KeyValue{attribute.String("dog.name", input.Name), attribute.String("dog.breed", input.BreedName)}
	if input.OwnerID != nil {
		attrs = append(attrs, attribute.Int64("owner.id", *input.OwnerID))
	}
	ctx, span := s.tracer.Start(ctx, "DogService.Create", trace.WithAttributes(attrs...))
	defer span.End()

	s.logInfo(ctx, "creating dog", slog.String("dog.name", input.Name), slog.String("dog.breed", input.BreedName))
	dog, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create dog", slog.String("dog.breed", input.BreedName))
	}
	s.metrics.recordCreated(ctx, dog.BreedName())
	span.SetAttributes(attribute.Int64("dog.id", dog.ID))
	s.logInfo(ctx, "dog created", slog.Int64("dog.id", dog.ID))
	return dog, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Dog, error) {
	ctx, span := s.tracer.Start(ctx, "DogService.Get", trace.WithAttributes(attribute.Int64("dog.id", id)))
	defer span.End()

	dog, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load dog", slog.Int64("dog.id", id))
	}
	return dog, nil
}

func (s *Service) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	ctx, span := s.tracer.Start(ctx, "DogService.List",
		trace.WithAttributes(attribute.Int("page.number", page.Page), attribute.Int("page.size", page.Size)))
	defer span.End()

	result, err := s.inner.List(ctx, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list dogs")
	}
	span.SetAttributes(attribute.Int64("page.total", result.TotalElements))
	return result, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	ctx, span := s.tracer.Start(ctx, "DogService.ListByOwner", trace.WithAttributes(attribute.Int64("owner.id", ownerID)))
	defer span.End()

	result, err := s.inner.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list owner dogs", slog.Int64("owner.id", ownerID))
	}
	span.SetAttributes(attribute.Int64("page.total", result.TotalElements))
	return result, nil
}

func (s *Service) Search(ctx context.Context, filter domain.Filter) ([]*domain.Dog, error) {
	ctx, span := s.tracer.Start(ctx, "DogService.Search")
	defer span.End()

	result, err := s.inner.Search(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search dogs")
	}
	span.SetAttributes(attribute.Int("dog.matches", len(result)))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Dog, error) {
	ctx, span := s.tracer.Start(ctx, "DogService.Update", trace.WithAttributes(attribute.Int64("dog.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating dog", slog.Int64("dog.id", id))
	dog, err := s.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update dog", slog.Int64("dog.id", id))
	}
	s.logInfo(ctx, "dog updated", slog.Int64("dog.id", id))
	return dog, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "DogService.Delete", trace.WithAttributes(attribute.Int64("dog.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting dog", slog.Int64("dog.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete dog", slog.Int64("dog.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "dog deleted", slog.Int64("dog.id", id))
	return nil
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	dogsCreated metric.Int64Counter
	dogsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	dogsCreated, _ := m.Int64Counter("dogs.service.created", metric.WithDescription("Number of dogs registered"))
	dogsDeleted, _ := m.Int64Counter("dogs.service.deleted", metric.WithDescription("Number of dogs deleted"))
	return serviceMetrics{dogsCreated: dogsCreated, dogsDeleted: dogsDeleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context, breed string) {
	if m.dogsCreated != nil {
		m.dogsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("dog.breed", breed)))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.dogsDeleted != nil {
		m.dogsDeleted.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
