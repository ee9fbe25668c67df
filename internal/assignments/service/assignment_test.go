package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	assignmentserrors "glowbook/internal/assignments/errors"
	"glowbook/internal/assignments/validator"
	"glowbook/pkg/config"
	mongotx "glowbook/pkg/db/mongo"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/kafka"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"
)

const (
	testBookingID  = "64a000000000000000000001"
	testResourceID = "64a000000000000000000002"
	otherBookingID = "64a000000000000000000003"
)

// Mock repositories for testing

type mockAssignmentRepository struct {
	insertManyFunc      func(ctx context.Context, assignments []*model.ResourceAssignment) error
	findOverlappingFunc func(ctx context.Context, resourceID string, window model.Window, excludeBookingID string) ([]*model.ResourceAssignment, error)
	findByBookingFunc   func(ctx context.Context, bookingID string) ([]*model.ResourceAssignment, error)
	deleteByBookingFunc func(ctx context.Context, bookingID string) (int64, error)
}

func (m *mockAssignmentRepository) InsertMany(ctx context.Context, assignments []*model.ResourceAssignment) error {
	if m.insertManyFunc != nil {
		return m.insertManyFunc(ctx, assignments)
	}
	return nil
}

func (m *mockAssignmentRepository) FindOverlapping(ctx context.Context, resourceID string, window model.Window, excludeBookingID string) ([]*model.ResourceAssignment, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, resourceID, window, excludeBookingID)
	}
	return nil, nil
}

func (m *mockAssignmentRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.ResourceAssignment, error) {
	if m.findByBookingFunc != nil {
		return m.findByBookingFunc(ctx, bookingID)
	}
	return nil, nil
}

func (m *mockAssignmentRepository) DeleteByBooking(ctx context.Context, bookingID string) (int64, error) {
	if m.deleteByBookingFunc != nil {
		return m.deleteByBookingFunc(ctx, bookingID)
	}
	return 0, nil
}

func (m *mockAssignmentRepository) CountByResource(ctx context.Context, resourceID string) (int64, error) {
	return 0, nil
}

// ExecuteTransaction runs fn directly; session semantics are not under
// test here.
func (m *mockAssignmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockResourceRepository struct {
	createFunc   func(ctx context.Context, resource *model.Resource) error
	findByIDFunc func(ctx context.Context, id string) (*model.Resource, error)
	updateFunc   func(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error)
}

func (m *mockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, resource)
	}
	return nil
}

func (m *mockResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Resource{ID: id, Active: true}, nil
}

func (m *mockResourceRepository) FindByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Resource, error) {
	return nil, nil
}

func (m *mockResourceRepository) CountByProvider(ctx context.Context, providerID string) (int64, error) {
	return 0, nil
}

func (m *mockResourceRepository) Update(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, resource)
	}
	return nil, nil
}

type mockBookingRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Booking{
		ID:        id,
		Status:    model.BookingConfirmed,
		StartTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	}, nil
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.AssignmentLock) (*model.AssignmentLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.AssignmentLock) (*model.AssignmentLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockPublisher struct {
	published []kafka.Message
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:               log,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		AssignmentLockTTL: 10 * time.Second,
	}
}

func newTestService(
	repo *mockAssignmentRepository,
	resourceRepo *mockResourceRepository,
	bookingRepo *mockBookingRepository,
	lockRepo *mockLockRepository,
	publisher *mockPublisher,
) AssignmentService {
	cfg := testConfig()
	return NewAssignmentService(
		repo,
		resourceRepo,
		bookingRepo,
		lockRepo,
		validator.NewAssignmentValidator(cfg.Log),
		publisher,
		cfg,
	)
}

func TestCheckAvailability_InvalidWindow(t *testing.T) {
	svc := newTestService(&mockAssignmentRepository{}, &mockResourceRepository{}, &mockBookingRepository{}, &mockLockRepository{}, &mockPublisher{})

	start := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.CheckAvailability(context.Background(), testResourceID, model.Window{Start: start, End: end}, "")
	if err == nil {
		t.Fatal("expected error for inverted window")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 400 {
		t.Errorf("expected status 400, got %d", appErr.StatusCode())
	}
	if appErr.Code != apperrors.CodeInvalidWindow {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidWindow, appErr.Code)
	}
}

func TestCheckAvailability_ResourceNotFound(t *testing.T) {
	resourceRepo := &mockResourceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return nil, assignmentserrors.ErrResourceNotFound
		},
	}
	svc := newTestService(&mockAssignmentRepository{}, resourceRepo, &mockBookingRepository{}, &mockLockRepository{}, &mockPublisher{})

	window := model.Window{
		Start: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	}

	_, err := svc.CheckAvailability(context.Background(), testResourceID, window, "")
	if err == nil {
		t.Fatal("expected error for missing resource")
	}
	if apperrors.AsAppError(err).StatusCode() != 404 {
		t.Errorf("expected status 404, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestCheckAvailability_ReportsConflicts(t *testing.T) {
	window := model.Window{
		Start: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	}

	repo := &mockAssignmentRepository{
		findOverlappingFunc: func(ctx context.Context, resourceID string, w model.Window, exclude string) ([]*model.ResourceAssignment, error) {
			return []*model.ResourceAssignment{
				{
					BookingID:  otherBookingID,
					ResourceID: resourceID,
					StartTime:  w.Start.Add(30 * time.Minute),
					EndTime:    w.End.Add(30 * time.Minute),
				},
			}, nil
		},
	}
	svc := newTestService(repo, &mockResourceRepository{}, &mockBookingRepository{}, &mockLockRepository{}, &mockPublisher{})

	availability, err := svc.CheckAvailability(context.Background(), testResourceID, window, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if availability.Available {
		t.Error("expected resource to be unavailable")
	}
	if len(availability.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(availability.Conflicts))
	}
	if availability.Conflicts[0].BookingID != otherBookingID {
		t.Errorf("expected conflicting booking %s, got %s", otherBookingID, availability.Conflicts[0].BookingID)
	}
	if availability.Conflicts[0].Reason == "" {
		t.Error("expected a human-readable conflict reason")
	}
}

func TestCheckAvailability_PassesExclusion(t *testing.T) {
	var gotExclude string
	repo := &mockAssignmentRepository{
		findOverlappingFunc: func(ctx context.Context, resourceID string, w model.Window, exclude string) ([]*model.ResourceAssignment, error) {
			gotExclude = exclude
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockResourceRepository{}, &mockBookingRepository{}, &mockLockRepository{}, &mockPublisher{})

	window := model.Window{
		Start: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	}

	availability, err := svc.CheckAvailability(context.Background(), testResourceID, window, testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotExclude != testBookingID {
		t.Errorf("expected exclusion %s to reach the repository, got %q", testBookingID, gotExclude)
	}
	if !availability.Available {
		t.Error("expected resource to be available")
	}
}

func TestAssign_Success(t *testing.T) {
	var inserted []*model.ResourceAssignment
	repo := &mockAssignmentRepository{
		insertManyFunc: func(ctx context.Context, assignments []*model.ResourceAssignment) error {
			for _, a := range assignments {
				a.ID = "64a00000000000000000000f"
			}
			inserted = assignments
			return nil
		},
	}
	lockRepo := &mockLockRepository{}
	publisher := &mockPublisher{}
	svc := newTestService(repo, &mockResourceRepository{}, &mockBookingRepository{}, lockRepo, publisher)

	assignments, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(assignments))
	}
	if len(inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(inserted))
	}
	// Window defaults to the booking's scheduled window.
	if !inserted[0].StartTime.Equal(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("expected booking window start, got %v", inserted[0].StartTime)
	}
	// Locks are released after the transaction.
	if len(lockRepo.deleted) != 1 {
		t.Errorf("expected 1 lock release, got %d", len(lockRepo.deleted))
	}
	// One event per assignment.
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}
	if publisher.published[0].GetEventType() != EventAssignmentCreated {
		t.Errorf("expected event type %s, got %s", EventAssignmentCreated, publisher.published[0].GetEventType())
	}
}

func TestAssign_ConflictRollsBack(t *testing.T) {
	insertCalled := false
	repo := &mockAssignmentRepository{
		findOverlappingFunc: func(ctx context.Context, resourceID string, w model.Window, exclude string) ([]*model.ResourceAssignment, error) {
			return []*model.ResourceAssignment{
				{BookingID: otherBookingID, ResourceID: resourceID, StartTime: w.Start, EndTime: w.End},
			}, nil
		},
		insertManyFunc: func(ctx context.Context, assignments []*model.ResourceAssignment) error {
			insertCalled = true
			return nil
		},
	}
	lockRepo := &mockLockRepository{}
	publisher := &mockPublisher{}
	svc := newTestService(repo, &mockResourceRepository{}, &mockBookingRepository{}, lockRepo, publisher)

	_, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID},
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if apperrors.AsAppError(err).StatusCode() != 409 {
		t.Errorf("expected status 409, got %d", apperrors.AsAppError(err).StatusCode())
	}
	if insertCalled {
		t.Error("no assignment should be inserted on conflict")
	}
	if len(publisher.published) != 0 {
		t.Error("no event should be published on conflict")
	}
	if len(lockRepo.deleted) != 1 {
		t.Errorf("locks must be released on conflict, got %d releases", len(lockRepo.deleted))
	}
}

func TestAssign_LockContention(t *testing.T) {
	lockRepo := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.AssignmentLock) (*model.AssignmentLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	svc := newTestService(&mockAssignmentRepository{}, &mockResourceRepository{}, &mockBookingRepository{}, lockRepo, &mockPublisher{})

	_, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID},
	})
	if err == nil {
		t.Fatal("expected conflict error for held lock")
	}
	if apperrors.AsAppError(err).StatusCode() != 409 {
		t.Errorf("expected status 409, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

// Two requests for overlapping windows whose start instants differ must
// contend on the same lock, otherwise both pass the conflict re-check
// before either insert is visible and both commit.
func TestAssign_OverlappingWindowsShareLock(t *testing.T) {
	var lockIDs []string
	lockRepo := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.AssignmentLock) (*model.AssignmentLock, error) {
			lockIDs = append(lockIDs, lock.ID)
			return lock, nil
		},
	}
	svc := newTestService(&mockAssignmentRepository{}, &mockResourceRepository{}, &mockBookingRepository{}, lockRepo, &mockPublisher{})

	first := model.Window{
		Start: time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC),
	}
	second := model.Window{
		Start: time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC),
	}

	if _, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID, StartTime: &first.Start, EndTime: &first.End},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Assign(context.Background(), otherBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID, StartTime: &second.Start, EndTime: &second.End},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lockIDs) != 2 {
		t.Fatalf("expected 2 lock acquisitions, got %d", len(lockIDs))
	}
	if lockIDs[0] != lockIDs[1] {
		t.Errorf("expected both requests to contend on one lock, got %q and %q", lockIDs[0], lockIDs[1])
	}
}

// A lock taken for one window must block an overlapping request with a
// different start instant.
func TestAssign_HeldLockBlocksOverlappingWindow(t *testing.T) {
	held := map[string]bool{"assignment_lock_" + testResourceID: true}
	lockRepo := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.AssignmentLock) (*model.AssignmentLock, error) {
			if held[lock.ID] {
				return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
			}
			held[lock.ID] = true
			return lock, nil
		},
	}
	inserts := 0
	repo := &mockAssignmentRepository{
		insertManyFunc: func(ctx context.Context, assignments []*model.ResourceAssignment) error {
			inserts++
			return nil
		},
	}
	svc := newTestService(repo, &mockResourceRepository{}, &mockBookingRepository{}, lockRepo, &mockPublisher{})

	start := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	_, err := svc.Assign(context.Background(), otherBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID, StartTime: &start, EndTime: &end},
	})
	if err == nil {
		t.Fatal("expected conflict error while lock is held")
	}
	if apperrors.AsAppError(err).StatusCode() != 409 {
		t.Errorf("expected status 409, got %d", apperrors.AsAppError(err).StatusCode())
	}
	if inserts != 0 {
		t.Errorf("expected no inserts while lock is held, got %d", inserts)
	}
}

// A batch assigning the same resource twice takes the lock once rather
// than conflicting with itself.
func TestAssign_BatchSameResourceSingleLock(t *testing.T) {
	var lockIDs []string
	lockRepo := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.AssignmentLock) (*model.AssignmentLock, error) {
			lockIDs = append(lockIDs, lock.ID)
			return lock, nil
		},
	}
	svc := newTestService(&mockAssignmentRepository{}, &mockResourceRepository{}, &mockBookingRepository{}, lockRepo, &mockPublisher{})

	morningStart := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	morningEnd := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	noonStart := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	noonEnd := time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC)

	assignments, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID, StartTime: &morningStart, EndTime: &morningEnd},
		{ResourceID: testResourceID, StartTime: &noonStart, EndTime: &noonEnd},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}
	if len(lockIDs) != 1 {
		t.Errorf("expected a single lock acquisition for the batch, got %d", len(lockIDs))
	}
}

func TestAssign_CancelledBooking(t *testing.T) {
	bookingRepo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:        id,
				Status:    model.BookingCancelled,
				StartTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	svc := newTestService(&mockAssignmentRepository{}, &mockResourceRepository{}, bookingRepo, &mockLockRepository{}, &mockPublisher{})

	_, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID},
	})
	if err == nil {
		t.Fatal("expected error for cancelled booking")
	}
	if apperrors.AsAppError(err).StatusCode() != 409 {
		t.Errorf("expected status 409, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestAssign_BookingNotFound(t *testing.T) {
	bookingRepo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, assignmentserrors.ErrBookingNotFound
		},
	}
	svc := newTestService(&mockAssignmentRepository{}, &mockResourceRepository{}, bookingRepo, &mockLockRepository{}, &mockPublisher{})

	_, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID},
	})
	if err == nil {
		t.Fatal("expected error for missing booking")
	}
	if apperrors.AsAppError(err).StatusCode() != 404 {
		t.Errorf("expected status 404, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestAssign_InactiveResource(t *testing.T) {
	resourceRepo := &mockResourceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return &model.Resource{ID: id, Active: false}, nil
		},
	}
	svc := newTestService(&mockAssignmentRepository{}, resourceRepo, &mockBookingRepository{}, &mockLockRepository{}, &mockPublisher{})

	_, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID},
	})
	if err == nil {
		t.Fatal("expected error for inactive resource")
	}
	if apperrors.AsAppError(err).StatusCode() != 409 {
		t.Errorf("expected status 409, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestAssign_PublishFailureDoesNotFailRequest(t *testing.T) {
	publisher := &mockPublisher{err: kafka.ErrProducerClosed}
	svc := newTestService(&mockAssignmentRepository{}, &mockResourceRepository{}, &mockBookingRepository{}, &mockLockRepository{}, publisher)

	assignments, err := svc.Assign(context.Background(), testBookingID, []model.AssignmentRequest{
		{ResourceID: testResourceID},
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the assignment: %v", err)
	}
	if len(assignments) != 1 {
		t.Errorf("expected 1 assignment, got %d", len(assignments))
	}
}

func TestRemoveForBooking(t *testing.T) {
	repo := &mockAssignmentRepository{
		deleteByBookingFunc: func(ctx context.Context, bookingID string) (int64, error) {
			return 2, nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(repo, &mockResourceRepository{}, &mockBookingRepository{}, &mockLockRepository{}, publisher)

	deleted, err := svc.RemoveForBooking(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deletions, got %d", deleted)
	}
	if len(publisher.published) != 1 {
		t.Errorf("expected 1 removal event, got %d", len(publisher.published))
	}

	// A booking with no assignments is not an error, and publishes nothing.
	repo.deleteByBookingFunc = func(ctx context.Context, bookingID string) (int64, error) {
		return 0, nil
	}
	deleted, err = svc.RemoveForBooking(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deletions, got %d", deleted)
	}
	if len(publisher.published) != 1 {
		t.Errorf("expected no additional events, got %d total", len(publisher.published))
	}
}
