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

	ownerdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	ownerports "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/observability/service"

// Service decorates the owner service with tracing, logging, and metrics.
type Service struct {
	inner   ownerports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core owner service.
func New(inner ownerports.Service, opts ...Option) ownerports.Service {
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

func (s *Service) Create(ctx context.Context, owner *ownerdomain.Owner) (*ownerdomain.Owner, error) {
	ctx, span := s.tracer.Start(ctx, "OwnerService.Create")
	defer span.End()

	result, err := s.inner.Create(ctx, owner)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create owner")
	}
	s.metrics.recordCreated(ctx)
	span.SetAttributes(attribute.Int64("owner.id", result.ID))
	s.logInfo(ctx, "owner created", slog.Int64("owner.id", result.ID))
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*ownerdomain.Owner, error) {
	ctx, span := s.tracer.Start(ctx, "OwnerService.Get", trace.WithAttributes(attribute.Int64("owner.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load owner", slog.Int64("owner.id", id))
	}
	return result, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*ownerdomain.Owner, error) {
	ctx, span := s.tracer.Start(ctx, "OwnerService.GetByEmail")
	defer span.End()

	result, err := s.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load owner by email")
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, page pagination.Request) (pagination.Page[*ownerdomain.Owner], error) {
	ctx, span := s.tracer.Start(ctx, "OwnerService.List",
		trace.WithAttributes(attribute.Int("page.number", page.Page), attribute.Int("page.size", page.Size)))
	defer span.End()

	result, err := s.inner.List(ctx, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list owners")
	}
	return result, nil
}

func (s *Service) Search(ctx context.Context, filter ownerdomain.Filter) ([]*ownerdomain.Owner, error) {
	ctx, span := s.tracer.Start(ctx, "OwnerService.Search")
	defer span.End()

	result, err := s.inner.Search(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search owners")
	}
	span.SetAttributes(attribute.Int("owner.matches", len(result)))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch ownerdomain.Patch) (*ownerdomain.Owner, error) {
	ctx, span := s.tracer.Start(ctx, "OwnerService.Update", trace.WithAttributes(attribute.Int64("owner.id", id)))
	defer span.End()

	result, err := s.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update owner", slog.Int64("owner.id", id))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "owner updated", slog.Int64("owner.id", id))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OwnerService.Delete", trace.WithAttributes(attribute.Int64("owner.id", id)))
	defer span.End()

	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete owner", slog.Int64("owner.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "owner deleted", slog.Int64("owner.id", id))
	return nil
}

func (s *Service) VerifyOwnerDoesNotExist(ctx context.Context, email string) error {
	ctx, span := s.tracer.Start(ctx, "OwnerService.VerifyOwnerDoesNotExist")
	defer span.End()

	if err := s.inner.VerifyOwnerDoesNotExist(ctx, email); err != nil {
		return s.handleError(ctx, span, err, "owner email unavailable")
	}
	return nil
}

func (s *Service) VerifyOwnerConsistency(ctx context.Context, ownerID int64, email string) error {
	ctx, span := s.tracer.Start(ctx, "OwnerService.VerifyOwnerConsistency", trace.WithAttributes(attribute.Int64("owner.id", ownerID)))
	defer span.End()

	if err := s.inner.VerifyOwnerConsistency(ctx, ownerID, email); err != nil {
		return s.handleError(ctx, span, err, "ownership check failed", slog.Int64("owner.id", ownerID))
	}
	return nil
}

func (s *Service) FindOwnerID(ctx context.Context, email string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "OwnerService.FindOwnerID")
	defer span.End()

	id, err := s.inner.FindOwnerID(ctx, email)
	if err != nil {
		// A caller without an owner record is expected.
		span.RecordError(err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("owner.id", id))
	return id, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	ownersCreated metric.Int64Counter
	ownersUpdated metric.Int64Counter
	ownersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("owners.service.created", metric.WithDescription("Number of owners created"))
	updated, _ := m.Int64Counter("owners.service.updated", metric.WithDescription("Number of owners updated"))
	deleted, _ := m.Int64Counter("owners.service.deleted", metric.WithDescription("Number of owners deleted"))
	return serviceMetrics{ownersCreated: created, ownersUpdated: updated, ownersDeleted: deleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ownersCreated != nil {
		m.ownersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.ownersUpdated != nil {
		m.ownersUpdated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ownersDeleted != nil {
		m.ownersDeleted.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ ownerports.Service = (*Service)(nil)
