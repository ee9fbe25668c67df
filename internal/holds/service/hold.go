package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	holdserrors "glowbook/internal/holds/errors"
	"glowbook/internal/holds/repository"
	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/kafka"
	"glowbook/pkg/model"
)

// Event types published to the holds topic.
const (
	EventHoldCreated = "hold.created"
	EventHoldsSwept  = "holds.swept"
)

type HoldCreatedEvent struct {
	HoldID    string    `json:"hold_id"`
	BookingID string    `json:"booking_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type HoldsSweptEvent struct {
	Expired int64     `json:"expired"`
	SweptAt time.Time `json:"swept_at"`
}

// SweepResult reports one sweep pass. Expired counts only holds this
// pass transitioned; a sweep that finds nothing due reports zero.
type SweepResult struct {
	Expired int64     `json:"expired_count"`
	SweptAt time.Time `json:"swept_at"`
}

type CreateHoldRequest struct {
	BookingID string `json:"booking_id"`
	// TTL overrides the configured hold lifetime when positive.
	TTL time.Duration `json:"ttl,omitempty"`
}

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type HoldService interface {
	Create(ctx context.Context, req CreateHoldRequest) (*model.BookingHold, error)
	GetByID(ctx context.Context, id string) (*model.BookingHold, error)
	Sweep(ctx context.Context) (*SweepResult, error)
}

type holdService struct {
	repo        repository.HoldRepository
	bookingRepo repository.BookingRepository
	publisher   EventPublisher
	cfg         *config.Config
	now         func() time.Time
}

func NewHoldService(
	repo repository.HoldRepository,
	bookingRepo repository.BookingRepository,
	publisher EventPublisher,
	cfg *config.Config,
) HoldService {
	return &holdService{
		repo:        repo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *holdService) Create(ctx context.Context, req CreateHoldRequest) (*model.BookingHold, error) {
	if req.BookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if _, err := s.bookingRepo.FindByID(ctx, req.BookingID); err != nil {
		if errors.Is(err, holdserrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", req.BookingID)
		}
		if errors.Is(err, holdserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	ttl := s.cfg.HoldTTL
	if req.TTL > 0 {
		ttl = req.TTL
	}

	hold := &model.BookingHold{
		ID:        uuid.New().String(),
		BookingID: req.BookingID,
		Status:    model.HoldActive,
		ExpiresAt: s.now().UTC().Add(ttl).Truncate(time.Millisecond),
	}

	if err := s.repo.Create(ctx, hold); err != nil {
		s.cfg.Log.Error("Failed to create hold", "booking_id", req.BookingID, "error", err)
		return nil, apperrors.Internal("Failed to create hold", err)
	}

	s.cfg.Log.Info("Hold created successfully",
		"id", hold.ID,
		"booking_id", hold.BookingID,
		"expires_at", hold.ExpiresAt,
	)
	s.publishHoldCreated(ctx, hold)

	return hold, nil
}

func (s *holdService) GetByID(ctx context.Context, id string) (*model.BookingHold, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Hold ID cannot be empty")
	}

	hold, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, holdserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Hold", id)
		}
		return nil, apperrors.Internal("Failed to retrieve hold", err)
	}

	return hold, nil
}

// Sweep expires every active hold whose expiry passed. Safe to run
// concurrently and repeatedly: a hold transitions at most once.
func (s *holdService) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.now().UTC()

	expired, err := s.repo.ExpireDue(ctx, now)
	if err != nil {
		s.cfg.Log.Error("Hold sweep failed", "error", err)
		return nil, apperrors.Internal("Failed to sweep holds", err)
	}

	result := &SweepResult{
		Expired: expired,
		SweptAt: now,
	}

	if expired > 0 {
		remaining, countErr := s.repo.CountActive(ctx)
		if countErr != nil {
			s.cfg.Log.Warn("Failed to count remaining active holds", "error", countErr)
			remaining = -1
		}
		s.cfg.Log.Info("Hold sweep completed", "expired", expired, "active_remaining", remaining)
		s.publishHoldsSwept(ctx, result)
	} else {
		s.cfg.Log.Debug("Hold sweep found nothing due")
	}

	return result, nil
}

func (s *holdService) publishHoldCreated(ctx context.Context, hold *model.BookingHold) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(hold.BookingID).
		WithEventType(EventHoldCreated).
		WithSource(s.cfg.Log.Service()).
		WithSchemaVersion("1").
		WithValue(HoldCreatedEvent{
			HoldID:    hold.ID,
			BookingID: hold.BookingID,
			ExpiresAt: hold.ExpiresAt,
		}).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish hold event", "hold_id", hold.ID, "error", err)
	}
}

func (s *holdService) publishHoldsSwept(ctx context.Context, result *SweepResult) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey("sweep").
		WithEventType(EventHoldsSwept).
		WithSource(s.cfg.Log.Service()).
		WithSchemaVersion("1").
		WithValue(HoldsSweptEvent{
			Expired: result.Expired,
			SweptAt: result.SweptAt,
		}).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish sweep event", "error", err)
	}
}
