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

	breeddomain "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	breedports "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/observability/service"

// Service decorates the breed service with tracing, logging, and metrics.
type Service struct {
	inner   breedports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core breed service.
func New(inner breedports.Service, opts ...Option) breedports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
	return s
}

func (s *Service) Create(ctx context.Context, breed *breeddomain.Breed) (*breeddomain.Breed, error) {
	name := ""
	if breed != nil {
		name = breed.Name
	}
	ctx, span := s.tracer.Start(ctx, "BreedService.Create", trace.WithAttributes(attribute.String("breed.name", name)))
	defer span.End()

	s.logInfo(ctx, "creating breed", slog.String("breed.name", name))
	result, err := s.inner.Create(ctx, breed)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create breed", slog.String("breed.name", name))
	}
	s.metrics.recordCreated(ctx, result.OriginCountry)
	span.SetAttributes(attribute.Int64("breed.id", result.ID))
	s.logInfo(ctx, "breed created", slog.Int64("breed.id", result.ID))
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*breeddomain.Breed, error) {
	ctx, span := s.tracer.Start(ctx, "BreedService.Get", trace.WithAttributes(attribute.Int64("breed.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load breed", slog.Int64("breed.id", id))
	}
	return result, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*breeddomain.Breed, error) {
	ctx, span := s.tracer.Start(ctx, "BreedService.GetByName", trace.WithAttributes(attribute.String("breed.name", name)))
	defer span.End()

	result, err := s.inner.GetByName(ctx, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve breed", slog.String("breed.name", name))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, page pagination.Request) (pagination.Page[*breeddomain.Breed], error) {
	ctx, span := s.tracer.Start(ctx, "BreedService.List",
		trace.WithAttributes(attribute.Int("page.number", page.Page), attribute.Int("page.size", page.Size)))
	defer span.End()

	result, err := s.inner.List(ctx, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list breeds")
	}
	span.SetAttributes(attribute.Int64("page.total", result.TotalElements))
	return result, nil
}

func (s *Service) Search(ctx context.Context, filter breeddomain.Filter) ([]*breeddomain.Breed, error) {
	ctx, span := s.tracer.Start(ctx, "BreedService.Search")
	defer span.End()

	result, err := s.inner.Search(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search breeds")
	}
	span.SetAttributes(attribute.Int("breed.matches", len(result)))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch breeddomain.Patch) (*breeddomain.Breed, error) {
	ctx, span := s.tracer.Start(ctx, "BreedService.Update", trace.WithAttributes(attribute.Int64("breed.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating breed", slog.Int64("breed.id", id))
	result, err := s.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update breed", slog.Int64("breed.id", id))
	}
	s.logInfo(ctx, "breed updated", slog.Int64("breed.id", id))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "BreedService.Delete", trace.WithAttributes(attribute.Int64("breed.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting breed", slog.Int64("breed.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete breed", slog.Int64("breed.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "breed deleted", slog.Int64("breed.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
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
	breedsCreated metric.Int64Counter
	breedsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	breedsCreated, _ := m.Int64Counter("breeds.service.created", metric.WithDescription("Number of breeds registered"))
	breedsDeleted, _ := m.Int64Counter("breeds.service.deleted", metric.WithDescription("Number of breeds deleted"))
	return serviceMetrics{breedsCreated: breedsCreated, breedsDeleted: breedsDeleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context, originCountry string) {
	if m.breedsCreated != nil {
		m.breedsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("breed.origin_country", originCountry)))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.breedsDeleted != nil {
		m.breedsDeleted.Add(ctx, 1)
	}
}

var _ breedports.Service = (*Service)(nil)
