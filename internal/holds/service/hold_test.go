package service

import (
	"context"
	"testing"
	"time"

	holdserrors "glowbook/internal/holds/errors"
	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/kafka"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"
)

const testBookingID = "64a000000000000000000001"

// Mock repositories for testing

type mockHoldRepository struct {
	createFunc      func(ctx context.Context, hold *model.BookingHold) error
	findByIDFunc    func(ctx context.Context, id string) (*model.BookingHold, error)
	expireDueFunc   func(ctx context.Context, now time.Time) (int64, error)
	countActiveFunc func(ctx context.Context) (int64, error)
}

func (m *mockHoldRepository) Create(ctx context.Context, hold *model.BookingHold) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, hold)
	}
	return nil
}

func (m *mockHoldRepository) FindByID(ctx context.Context, id string) (*model.BookingHold, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, holdserrors.ErrNotFound
}

func (m *mockHoldRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	if m.expireDueFunc != nil {
		return m.expireDueFunc(ctx, now)
	}
	return 0, nil
}

func (m *mockHoldRepository) CountActive(ctx context.Context) (int64, error) {
	if m.countActiveFunc != nil {
		return m.countActiveFunc(ctx)
	}
	return 0, nil
}

type mockBookingRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Booking{ID: id, Status: model.BookingPending}, nil
}

type mockPublisher struct {
	published []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
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
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		HoldTTL:      15 * time.Minute,
	}
}

func newTestService(repo *mockHoldRepository, bookingRepo *mockBookingRepository, publisher *mockPublisher) *holdService {
	return &holdService{
		repo:        repo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		cfg:         testConfig(),
		now:         time.Now,
	}
}

func TestCreateHold_DefaultTTL(t *testing.T) {
	var created *model.BookingHold
	repo := &mockHoldRepository{
		createFunc: func(ctx context.Context, hold *model.BookingHold) error {
			created = hold
			return nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(repo, &mockBookingRepository{}, publisher)

	before := time.Now().UTC()
	hold, err := svc.Create(context.Background(), CreateHoldRequest{BookingID: testBookingID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected hold to be persisted")
	}
	if hold.ID == "" {
		t.Error("expected a generated hold ID")
	}
	if hold.Status != model.HoldActive {
		t.Errorf("expected status %s, got %s", model.HoldActive, hold.Status)
	}

	wantExpiry := before.Add(15 * time.Minute)
	if hold.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || hold.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiry %v is not ~15m from now", hold.ExpiresAt)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}
	if publisher.published[0].GetEventType() != EventHoldCreated {
		t.Errorf("expected event type %s, got %s", EventHoldCreated, publisher.published[0].GetEventType())
	}
}

func TestCreateHold_TTLOverride(t *testing.T) {
	svc := newTestService(&mockHoldRepository{}, &mockBookingRepository{}, &mockPublisher{})

	before := time.Now().UTC()
	hold, err := svc.Create(context.Background(), CreateHoldRequest{
		BookingID: testBookingID,
		TTL:       5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantExpiry := before.Add(5 * time.Minute)
	if hold.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || hold.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiry %v is not ~5m from now", hold.ExpiresAt)
	}
}

func TestCreateHold_BookingNotFound(t *testing.T) {
	bookingRepo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, holdserrors.ErrBookingNotFound
		},
	}
	svc := newTestService(&mockHoldRepository{}, bookingRepo, &mockPublisher{})

	_, err := svc.Create(context.Background(), CreateHoldRequest{BookingID: testBookingID})
	if err == nil {
		t.Fatal("expected error for missing booking")
	}
	if apperrors.AsAppError(err).StatusCode() != 404 {
		t.Errorf("expected status 404, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&mockHoldRepository{}, &mockBookingRepository{}, &mockPublisher{})

	_, err := svc.GetByID(context.Background(), "7b3a2c64-1111-2222-3333-444455556666")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).StatusCode() != 404 {
		t.Errorf("expected status 404, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestSweep_ExpiresDueHolds(t *testing.T) {
	var gotNow time.Time
	repo := &mockHoldRepository{
		expireDueFunc: func(ctx context.Context, now time.Time) (int64, error) {
			gotNow = now
			return 3, nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(repo, &mockBookingRepository{}, publisher)

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Expired != 3 {
		t.Errorf("expected 3 expired, got %d", result.Expired)
	}
	if gotNow.IsZero() {
		t.Error("expected sweep cutoff to be passed to the repository")
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 sweep event, got %d", len(publisher.published))
	}
	if publisher.published[0].GetEventType() != EventHoldsSwept {
		t.Errorf("expected event type %s, got %s", EventHoldsSwept, publisher.published[0].GetEventType())
	}
}

func TestSweep_NothingDue(t *testing.T) {
	publisher := &mockPublisher{}
	svc := newTestService(&mockHoldRepository{}, &mockBookingRepository{}, publisher)

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Expired != 0 {
		t.Errorf("expected 0 expired, got %d", result.Expired)
	}
	// Quiet sweeps publish nothing.
	if len(publisher.published) != 0 {
		t.Errorf("expected no events, got %d", len(publisher.published))
	}
}

// Repeated sweeps over the same state never double-count: the second
// pass sees no active-and-due holds.
func TestSweep_Idempotent(t *testing.T) {
	expired := false
	repo := &mockHoldRepository{
		expireDueFunc: func(ctx context.Context, now time.Time) (int64, error) {
			if expired {
				return 0, nil
			}
			expired = true
			return 5, nil
		},
	}
	svc := newTestService(repo, &mockBookingRepository{}, &mockPublisher{})

	first, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Expired != 5 {
		t.Errorf("first sweep expected 5 expired, got %d", first.Expired)
	}
	if second.Expired != 0 {
		t.Errorf("second sweep expected 0 expired, got %d", second.Expired)
	}
}
