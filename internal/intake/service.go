// Package intake runs a candidature through the gate and on to delivery,
// export and the audit log.
package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lsmc/candidature/internal/application"
	"github.com/lsmc/candidature/internal/audit"
	"github.com/lsmc/candidature/internal/export"
	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/internal/observability"
	"github.com/lsmc/candidature/internal/platform/logger"
	"github.com/lsmc/candidature/pkg/scoring"
	"github.com/lsmc/candidature/pkg/surface"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
)

// Publisher delivers webhook messages.
type Publisher interface {
	Configured() bool
	Publish(ctx context.Context, msg surface.WebhookMessage) error
}

// Receipt describes an accepted submission.
type Receipt struct {
	ID        string `json:"id"`
	Delivered bool   `json:"delivered"`
	Exported  bool   `json:"exported"`
	CSVName   string `json:"csv_name"`
}

// Service orchestrates submissions.
type Service struct {
	engine    *scoring.Engine
	publisher Publisher
	store     export.Store
	recorder  audit.Recorder
	log       *logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the webhook publisher. Without one nothing is delivered.
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }

// WithStore sets the export store. Without one nothing is exported.
func WithStore(st export.Store) Option { return func(s *Service) { s.store = st } }

// WithRecorder sets the audit recorder.
func WithRecorder(r audit.Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock overrides the time source used for webhook timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a Service scoring with engine.
func NewService(engine *scoring.Engine, opts ...Option) *Service {
	s := &Service{
		engine:   engine,
		recorder: audit.NopRecorder{},
		log:      logger.NewNop(),
		tracer:   otel.Tracer(observability.TracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Localized returns a copy of the service whose block reasons use tag.
func (s *Service) Localized(tag language.Tag) *Service {
	cp := *s
	cp.engine = s.engine.Localized(tag)
	return &cp
}

// Engine returns the scoring engine.
func (s *Service) Engine() *scoring.Engine { return s.engine }

// Recent returns the latest audit decisions.
func (s *Service) Recent(ctx context.Context, limit int) ([]audit.Decision, error) {
	return s.recorder.Recent(ctx, limit)
}

// Submit screens app and, when no answer is flagged and the record is valid,
// delivers it to the webhook and export store. A blocked submission returns a
// *gate.BlockedError and an invalid one an *application.ValidationError.
// Every attempt that reaches the gate is audited.
func (s *Service) Submit(ctx context.Context, in *application.Application) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "intake.Submit")
	defer span.End()

	app := *in
	app.Normalize()

	receipt := &Receipt{ID: uuid.NewString()}
	span.SetAttributes(attribute.String("submission.id", receipt.ID))

	g := gate.New(s.engine, nil)
	state, err := g.Submit(ctx, app.TextFields(), func(ctx context.Context) error {
		return s.deliver(ctx, &app, receipt)
	})
	if err != nil && state.Fields == nil {
		// context cancelled before the gate ran
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	decision := decisionFor(receipt, state, err)
	span.SetAttributes(
		attribute.String("submission.outcome", string(decision.Outcome)),
		attribute.Int("submission.max_score", decision.MaxScore),
	)
	s.audit(ctx, &app, decision)

	log := s.log.With("submission_id", receipt.ID, "outcome", decision.Outcome)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if decision.Outcome == audit.OutcomeDeliveryFailed {
			log.Error("submission delivery failed", "error", err)
		} else {
			log.Info("submission rejected", "flagged_fields", decision.FlaggedFields, "max_score", decision.MaxScore)
		}
		return nil, err
	}

	log.Info("submission accepted", "delivered", receipt.Delivered, "exported", receipt.Exported)
	return receipt, nil
}

// Export returns the CSV of the normalized record. The gate is not consulted.
func (s *Service) Export(ctx context.Context, in *application.Application) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "intake.Export")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	app := *in
	app.Normalize()
	return app.CSV(), nil
}

// Download returns a previously exported CSV.
func (s *Service) Download(ctx context.Context, id string) ([]byte, error) {
	if s.store == nil {
		return nil, export.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *Service) deliver(ctx context.Context, app *application.Application, receipt *Receipt) error {
	if err := app.Validate(); err != nil {
		return err
	}
	data := app.CSV()
	receipt.CSVName = application.CSVFileName

	if s.publisher != nil && s.publisher.Configured() {
		if err := s.publisher.Publish(ctx, surface.BuildApplicationPayload(app, s.now())); err != nil {
			return &DeliveryError{Err: err}
		}
		receipt.Delivered = true

		if app.AutoConfirm == "oui" {
			if err := s.publisher.Publish(ctx, surface.BuildConfirmationPayload(app)); err != nil {
				s.log.Warn("confirmation not delivered", "submission_id", receipt.ID, "error", err)
			}
		}
	}

	if s.store != nil {
		if err := s.store.Put(ctx, receipt.ID, data); err != nil {
			s.log.Error("export failed", "submission_id", receipt.ID, "error", err)
		} else {
			receipt.Exported = true
		}
	}
	return nil
}

func (s *Service) audit(ctx context.Context, app *application.Application, d audit.Decision) {
	fp, err := audit.Fingerprint(app)
	if err != nil {
		s.log.Warn("fingerprint failed", "submission_id", d.ID, "error", err)
	}
	d.Fingerprint = fp
	if err := s.recorder.Record(ctx, d); err != nil {
		s.log.Warn("audit record failed", "submission_id", d.ID, "error", err)
	}
}

// DeliveryError reports a webhook failure after the gate passed.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return fmt.Sprintf("deliver candidature: %v", e.Err) }

func (e *DeliveryError) Unwrap() error { return e.Err }

func decisionFor(receipt *Receipt, state gate.FormGateState, err error) audit.Decision {
	d := audit.Decision{
		ID:            receipt.ID,
		FlaggedFields: []string{},
		Delivered:     receipt.Delivered,
		Exported:      receipt.Exported,
	}
	for _, fs := range state.Fields {
		if fs.Flagged {
			d.FlaggedFields = append(d.FlaggedFields, fs.FieldID)
		}
		if fs.Score > d.MaxScore {
			d.MaxScore = fs.Score
		}
	}

	var (
		blocked  *gate.BlockedError
		invalid  *application.ValidationError
		delivery *DeliveryError
	)
	switch {
	case errors.As(err, &blocked):
		d.Blocked = true
		d.Outcome = audit.OutcomeBlocked
	case errors.As(err, &invalid):
		d.Outcome = audit.OutcomeInvalid
	case errors.As(err, &delivery), err != nil:
		d.Outcome = audit.OutcomeDeliveryFailed
	case receipt.Delivered:
		d.Outcome = audit.OutcomeDelivered
	default:
		d.Outcome = audit.OutcomeAccepted
	}
	return d
}
