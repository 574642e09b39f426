package vehicles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/notkisk/policeplus-api/internal/insurance"
	"github.com/notkisk/policeplus-api/internal/shared"
	"github.com/notkisk/policeplus-api/internal/token"
	"github.com/notkisk/policeplus-api/jobs"
)

const idempotencyModule = "ticket"

// InsuranceLookup fetches live coverage for a plate.
type InsuranceLookup interface {
	Lookup(ctx context.Context, plate string) (insurance.Record, error)
}

// IdempotencyStore deduplicates client-supplied request keys.
type IdempotencyStore interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// AuditQueue schedules stolen-flag audit records.
type AuditQueue interface {
	EnqueueStolenFlagAudit(ctx context.Context, payload jobs.StolenFlagAuditPayload) (*asynq.TaskInfo, error)
}

// Service implements the vehicle lookup and enforcement operations.
type Service struct {
	repo        Repository
	insurance   InsuranceLookup
	idempotency IdempotencyStore
	audit       AuditQueue
	logger      *slog.Logger
	validate    *validator.Validate
	now         func() time.Time
}

// ServiceConfig collects Service dependencies. Idempotency and Audit are optional.
type ServiceConfig struct {
	Repo        Repository
	Insurance   InsuranceLookup
	Idempotency IdempotencyStore
	Audit       AuditQueue
	Logger      *slog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        cfg.Repo,
		insurance:   cfg.Insurance,
		idempotency: cfg.Idempotency,
		audit:       cfg.Audit,
		logger:      logger,
		validate:    newValidator(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetVehicleView assembles the registry row, live insurance and the driver's
// citations. Unknown plates fail with shared.ErrNotFound before any insurance
// call. Any insurance failure aborts the view.
func (s *Service) GetVehicleView(ctx context.Context, plate string) (*View, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: license plate is required", shared.ErrValidation)
	}

	vehicle, err := s.repo.FindVehicle(ctx, plate)
	if err != nil {
		return nil, err
	}

	var (
		citations []Citation
		coverage  insurance.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.repo.ListCitations(gctx, vehicle.DriverLicense)
		if err != nil {
			return err
		}
		citations = list
		return nil
	})
	g.Go(func() error {
		rec, err := s.insurance.Lookup(gctx, vehicle.LicensePlate)
		if err != nil {
			return upstreamError(vehicle.LicensePlate, err)
		}
		coverage = rec
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if citations == nil {
		citations = []Citation{}
	}
	return &View{
		Vehicle:        *vehicle,
		InsuranceStart: coverage.Start,
		InsuranceEnd:   coverage.End,
		Tickets:        citations,
	}, nil
}

// upstreamError folds every insurance failure into shared.ErrUpstreamUnavailable
// while keeping the original cause in the chain.
func upstreamError(plate string, err error) error {
	if errors.Is(err, shared.ErrUpstreamUnavailable) {
		return fmt.Errorf("vehicles: insurance for %s: %w", plate, err)
	}
	return fmt.Errorf("vehicles: insurance for %s: %w: %w", plate, shared.ErrUpstreamUnavailable, err)
}

// IssueCitation appends a citation. Officer name and badge fall back to the
// caller's claims. A repeated idempotency key fails with shared.ErrDuplicateRequest.
func (s *Service) IssueCitation(ctx context.Context, input CitationInput, claims *token.Claims, idempotencyKey string) (*Citation, error) {
	input.DriverLicense = strings.TrimSpace(input.DriverLicense)
	input.TicketType = strings.TrimSpace(input.TicketType)
	input.Details = strings.TrimSpace(input.Details)
	input.OfficerName = strings.TrimSpace(input.OfficerName)
	input.OfficerBadge = strings.TrimSpace(input.OfficerBadge)
	if claims != nil {
		if input.OfficerName == "" {
			input.OfficerName = claims.Name
		}
		if input.OfficerBadge == "" {
			input.OfficerBadge = claims.BadgeNumber
		}
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	// A store failure rejects the request rather than risk a duplicate ticket.
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, idempotencyModule); err != nil {
			if errors.Is(err, shared.ErrDuplicateRequest) {
				return nil, err
			}
			return nil, fmt.Errorf("vehicles: idempotency check: %w", err)
		}
	}

	citation := &Citation{
		DriverLicense: input.DriverLicense,
		TicketType:    input.TicketType,
		Details:       input.Details,
		OfficerName:   input.OfficerName,
		OfficerBadge:  input.OfficerBadge,
	}
	if err := s.repo.InsertCitation(ctx, citation); err != nil {
		if idempotencyKey != "" && s.idempotency != nil {
			if delErr := s.idempotency.Delete(context.WithoutCancel(ctx), idempotencyKey, idempotencyModule); delErr != nil {
				s.logger.Warn("release idempotency key", slog.Any("error", delErr))
			}
		}
		return nil, err
	}
	return citation, nil
}

// SetStolen updates the stolen flag for plate and schedules an audit record.
func (s *Service) SetStolen(ctx context.Context, plate string, stolen bool, claims *token.Claims) error {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return fmt.Errorf("%w: license plate is required", shared.ErrValidation)
	}
	matched, err := s.repo.SetStolen(ctx, plate, stolen)
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("vehicles: plate %s: %w", plate, shared.ErrNotFound)
	}

	if s.audit == nil {
		return nil
	}
	payload := jobs.StolenFlagAuditPayload{
		Plate:     plate,
		Stolen:    stolen,
		ChangedAt: s.now(),
	}
	if claims != nil {
		payload.ActorID = claims.UserID
		payload.ActorRole = string(claims.Role)
		payload.BadgeNumber = claims.BadgeNumber
	}
	if _, err := s.audit.EnqueueStolenFlagAudit(context.WithoutCancel(ctx), payload); err != nil {
		s.logger.Error("enqueue stolen flag audit",
			slog.String("plate", plate),
			slog.Any("error", err))
	}
	return nil
}

// CitationsForDriver lists citations issued against driverLicense.
func (s *Service) CitationsForDriver(ctx context.Context, driverLicense string) ([]Citation, error) {
	driverLicense = strings.TrimSpace(driverLicense)
	if driverLicense == "" {
		return nil, shared.ErrForbidden
	}
	citations, err := s.repo.ListCitations(ctx, driverLicense)
	if err != nil {
		return nil, err
	}
	if citations == nil {
		citations = []Citation{}
	}
	return citations, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

func (s *Service) validateInput(input CitationInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	fe := fieldErrs[0]
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: %s is required", shared.ErrValidation, fe.Field())
	}
	return fmt.Errorf("%w: %s is too long", shared.ErrValidation, fe.Field())
}
