package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	assignmentserrors "glowbook/internal/assignments/errors"
	"glowbook/internal/assignments/repository"
	"glowbook/internal/assignments/validator"
	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/kafka"
	"glowbook/pkg/model"
)

// Availability is the result of a conflict check for one resource and
// window.
type Availability struct {
	Available bool       `json:"available"`
	Conflicts []Conflict `json:"conflicts"`
}

type Conflict struct {
	AssignmentID string    `json:"assignment_id"`
	BookingID    string    `json:"booking_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Reason       string    `json:"reason"`
}

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type AssignmentService interface {
	CheckAvailability(ctx context.Context, resourceID string, window model.Window, excludeBookingID string) (*Availability, error)
	Assign(ctx context.Context, bookingID string, requests []model.AssignmentRequest) ([]*model.ResourceAssignment, error)
	GetByBooking(ctx context.Context, bookingID string) ([]*model.ResourceAssignment, error)
	RemoveForBooking(ctx context.Context, bookingID string) (int64, error)
}

type assignmentService struct {
	repo         repository.AssignmentRepository
	resourceRepo repository.ResourceRepository
	bookingRepo  repository.BookingRepository
	lockRepo     repository.AssignmentLockRepository
	validator    *validator.AssignmentValidator
	publisher    EventPublisher
	cfg          *config.Config
}

func NewAssignmentService(
	repo repository.AssignmentRepository,
	resourceRepo repository.ResourceRepository,
	bookingRepo repository.BookingRepository,
	lockRepo repository.AssignmentLockRepository,
	validator *validator.AssignmentValidator,
	publisher EventPublisher,
	cfg *config.Config,
) AssignmentService {
	return &assignmentService{
		repo:         repo,
		resourceRepo: resourceRepo,
		bookingRepo:  bookingRepo,
		lockRepo:     lockRepo,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// CheckAvailability reports whether the resource is free for the given
// half-open window. Assignments belonging to excludeBookingID are
// ignored, so re-assigning within the same booking never conflicts with
// itself.
func (s *assignmentService) CheckAvailability(ctx context.Context, resourceID string, window model.Window, excludeBookingID string) (*Availability, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if err := window.Validate(); err != nil {
		return nil, apperrors.InvalidWindow(err.Error())
	}

	if _, err := s.findResource(ctx, resourceID); err != nil {
		return nil, err
	}

	overlapping, err := s.repo.FindOverlapping(ctx, resourceID, window, excludeBookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "resource_id", resourceID, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	result := &Availability{
		Available: len(overlapping) == 0,
		Conflicts: make([]Conflict, 0, len(overlapping)),
	}
	for _, a := range overlapping {
		result.Conflicts = append(result.Conflicts, Conflict{
			AssignmentID: a.ID,
			BookingID:    a.BookingID,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			Reason: fmt.Sprintf("resource already assigned to booking %s from %s to %s",
				a.BookingID,
				a.StartTime.Format(time.RFC3339),
				a.EndTime.Format(time.RFC3339),
			),
		})
	}

	return result, nil
}

// Assign atomically attaches resources to a booking. Every requested
// window is re-checked inside a transaction while advisory locks are
// held, so two concurrent requests for the same resource slot cannot
// both succeed. On success all assignments are written; on any conflict
// none are.
func (s *assignmentService) Assign(ctx context.Context, bookingID string, requests []model.AssignmentRequest) ([]*model.ResourceAssignment, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateRequests(requests); err != nil {
		s.cfg.Log.Warn("Assignment validation failed", "booking_id", bookingID, "error", err)
		return nil, apperrors.Validation("Invalid assignment input", map[string]any{"error": err.Error()})
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingCancelled {
		return nil, apperrors.Conflict("Cannot assign resources to a cancelled booking")
	}

	assignments, err := s.buildAssignments(booking, requests)
	if err != nil {
		return nil, err
	}

	for _, a := range assignments {
		if err := s.verifyResource(ctx, a.ResourceID); err != nil {
			return nil, err
		}
	}

	lockIDs, err := s.acquireSlotLocks(ctx, assignments)
	if err != nil {
		return nil, err
	}
	defer s.releaseSlotLocks(ctx, lockIDs)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		for _, a := range assignments {
			if err := s.verifyNoConflict(sessCtx, a); err != nil {
				return err
			}
		}
		if err := s.repo.InsertMany(sessCtx, assignments); err != nil {
			return apperrors.Internal("Failed to create assignments", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to assign resources", "booking_id", bookingID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Resources assigned successfully",
		"booking_id", bookingID,
		"count", len(assignments),
	)
	s.publishAssignmentsCreated(ctx, bookingID, assignments)

	return assignments, nil
}

func (s *assignmentService) GetByBooking(ctx context.Context, bookingID string) ([]*model.ResourceAssignment, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if _, err := s.findBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to list assignments", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve assignments", err)
	}

	return assignments, nil
}

// RemoveForBooking drops every assignment of a cancelled booking. Called
// from the booking.cancelled consumer; a booking with no assignments is
// not an error.
func (s *assignmentService) RemoveForBooking(ctx context.Context, bookingID string) (int64, error) {
	if bookingID == "" {
		return 0, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	deleted, err := s.repo.DeleteByBooking(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to remove assignments", "booking_id", bookingID, "error", err)
		return 0, apperrors.Internal("Failed to remove assignments", err)
	}

	if deleted > 0 {
		s.cfg.Log.Info("Assignments removed for cancelled booking",
			"booking_id", bookingID,
			"deleted", deleted,
		)
		s.publishAssignmentsRemoved(ctx, bookingID, deleted)
	}
	return deleted, nil
}

// --- Helpers ---

func (s *assignmentService) buildAssignments(booking *model.Booking, requests []model.AssignmentRequest) ([]*model.ResourceAssignment, error) {
	assignments := make([]*model.ResourceAssignment, 0, len(requests))
	for _, req := range requests {
		window := booking.ScheduledWindow()
		if req.StartTime != nil && req.EndTime != nil {
			window = model.Window{Start: *req.StartTime, End: *req.EndTime}
		}
		if err := window.Validate(); err != nil {
			return nil, apperrors.InvalidWindow(err.Error())
		}

		assignments = append(assignments, &model.ResourceAssignment{
			BookingID:         booking.ID,
			BookingLineItemID: req.BookingLineItemID,
			ResourceID:        req.ResourceID,
			StartTime:         window.Start,
			EndTime:           window.End,
		})
	}
	return assignments, nil
}

func (s *assignmentService) findBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, assignmentserrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, assignmentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *assignmentService) findResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	resource, err := s.resourceRepo.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, assignmentserrors.ErrResourceNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", resourceID)
		}
		if errors.Is(err, assignmentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}
	return resource, nil
}

func (s *assignmentService) verifyResource(ctx context.Context, resourceID string) error {
	resource, err := s.findResource(ctx, resourceID)
	if err != nil {
		return err
	}
	if !resource.Active {
		return apperrors.Conflict(fmt.Sprintf("Resource %s is not active", resourceID))
	}
	return nil
}

func (s *assignmentService) verifyNoConflict(ctx context.Context, a *model.ResourceAssignment) error {
	overlapping, err := s.repo.FindOverlapping(ctx, a.ResourceID, a.Window(), a.BookingID)
	if err != nil {
		return apperrors.Internal("Failed to check existing assignments", err)
	}

	for _, existing := range overlapping {
		return apperrors.Conflict(fmt.Sprintf(
			"Resource %s is already assigned from %s to %s",
			a.ResourceID,
			existing.StartTime.Format(time.RFC3339),
			existing.EndTime.Format(time.RFC3339),
		))
	}
	return nil
}

// acquireSlotLocks creates one advisory lock per requested resource.
// The lock covers the whole resource, not a time slot: overlapping
// windows can carry different start instants and must still serialize
// through the same key before the in-transaction conflict re-check. On
// partial failure the locks acquired so far are released before the
// conflict is returned.
func (s *assignmentService) acquireSlotLocks(ctx context.Context, assignments []*model.ResourceAssignment) ([]string, error) {
	seen := make(map[string]struct{}, len(assignments))
	lockIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		lockID := fmt.Sprintf("assignment_lock_%s", a.ResourceID)
		if _, ok := seen[lockID]; ok {
			continue
		}
		seen[lockID] = struct{}{}

		lock := &model.AssignmentLock{
			ID:        lockID,
			ExpiresAt: time.Now().Add(s.cfg.AssignmentLockTTL),
		}

		if _, err := s.lockRepo.Create(ctx, lock); err != nil {
			s.releaseSlotLocks(ctx, lockIDs)
			if mongo.IsDuplicateKeyError(err) {
				return nil, apperrors.Conflict("This resource is currently being assigned by another request. Please try again.")
			}
			return nil, apperrors.Internal("Failed to acquire assignment lock", err)
		}
		lockIDs = append(lockIDs, lockID)
	}
	return lockIDs, nil
}

func (s *assignmentService) releaseSlotLocks(ctx context.Context, lockIDs []string) {
	for _, lockID := range lockIDs {
		if err := s.lockRepo.Delete(ctx, lockID); err != nil {
			s.cfg.Log.Warn("Failed to release assignment lock", "lock_id", lockID, "error", err)
		}
	}
}

// publishAssignmentsCreated emits one event per created assignment.
// Publishing is best-effort: the write already committed, so a broker
// failure is logged and swallowed.
func (s *assignmentService) publishAssignmentsCreated(ctx context.Context, bookingID string, assignments []*model.ResourceAssignment) {
	if s.publisher == nil {
		return
	}

	for _, a := range assignments {
		msg := kafka.NewMessage().
			WithKey(bookingID).
			WithEventType(EventAssignmentCreated).
			WithSource(s.cfg.Log.Service()).
			WithSchemaVersion("1").
			WithValue(AssignmentCreatedEvent{
				AssignmentID: a.ID,
				BookingID:    a.BookingID,
				ResourceID:   a.ResourceID,
				StartTime:    a.StartTime,
				EndTime:      a.EndTime,
			}).
			Build()

		if err := s.publisher.Publish(ctx, msg); err != nil {
			s.cfg.Log.Error("Failed to publish assignment event",
				"assignment_id", a.ID,
				"booking_id", bookingID,
				"error", err,
			)
		}
	}
}

func (s *assignmentService) publishAssignmentsRemoved(ctx context.Context, bookingID string, removed int64) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(bookingID).
		WithEventType(EventAssignmentsRemoved).
		WithSource(s.cfg.Log.Service()).
		WithSchemaVersion("1").
		WithValue(AssignmentsRemovedEvent{
			BookingID: bookingID,
			Removed:   removed,
		}).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish removal event", "booking_id", bookingID, "error", err)
	}
}
