package service

import (
	"context"
	"testing"
	"time"

	bookingserrors "innkeep/internal/bookings/errors"
	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/validator"
	"innkeep/internal/catalog"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/kafka"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
	mongotx "innkeep/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/mongo"
)

// --- Mocks ---

type mockBookingRepo struct {
	createFn              func(ctx context.Context, booking *model.Booking) error
	findByIDFn            func(ctx context.Context, id string) (*model.Booking, error)
	countOverlappingFn    func(ctx context.Context, roomType string, checkIn, checkOut time.Time) (int64, error)
	countByStatusFn       func(ctx context.Context, status string) (int64, error)
	countCreatedBetweenFn func(ctx context.Context, from, to time.Time) (int64, error)
	setPaymentFn          func(ctx context.Context, id string, method string) error

	overlapCalls int
	createCalls  int
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	booking.ID = "65f1c0ffee0000000000abcd"
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepo) CountOverlapping(ctx context.Context, roomType string, checkIn, checkOut time.Time) (int64, error) {
	m.overlapCalls++
	if m.countOverlappingFn != nil {
		return m.countOverlappingFn(ctx, roomType, checkIn, checkOut)
	}
	return 0, nil
}

func (m *mockBookingRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx, status)
	}
	return 0, nil
}

func (m *mockBookingRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if m.countCreatedBetweenFn != nil {
		return m.countCreatedBetweenFn(ctx, from, to)
	}
	return 0, nil
}

func (m *mockBookingRepo) SetPayment(ctx context.Context, id string, method string) error {
	if m.setPaymentFn != nil {
		return m.setPaymentFn(ctx, id, method)
	}
	return nil
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockLockRepo struct {
	createFn func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error)
	deleteFn func(ctx context.Context, lockID string) error

	acquired []string
	released []string
}

func (m *mockLockRepo) Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
	m.acquired = append(m.acquired, lock.ID)
	if m.createFn != nil {
		return m.createFn(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepo) Delete(ctx context.Context, lockID string) error {
	m.released = append(m.released, lockID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, lockID)
	}
	return nil
}

type mockPublisher struct {
	published []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	return nil
}

// --- Helpers ---

func newTestService(t *testing.T, repo repository.BookingRepository, lockRepo repository.RoomLockRepository, publisher EventPublisher) BookingService {
	t.Helper()

	cfg := &config.Config{
		Log:         logger.New(logger.Config{Level: logger.ERROR}),
		RoomLockTTL: 10 * time.Second,
	}
	rooms, err := catalog.Load("")
	if err != nil {
		t.Fatalf("failed to load default catalog: %v", err)
	}
	return NewBookingService(repo, lockRepo, rooms, validator.NewBookingValidator(cfg.Log), publisher, cfg)
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		CustomerName:  "Alice Smith",
		CustomerEmail: "alice@example.com",
		RoomType:      "Deluxe",
		Guests:        2,
		CheckIn:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	}
}

func assertAppErrorCode(t *testing.T, err error, wantCode string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", wantCode)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != wantCode {
		t.Fatalf("expected code %s, got %s (%v)", wantCode, appErr.Code, appErr)
	}
	return appErr
}

// --- Create ---

func TestCreate_Valid(t *testing.T) {
	repo := &mockBookingRepo{}
	locks := &mockLockRepo{}
	publisher := &mockPublisher{}
	svc := newTestService(t, repo, locks, publisher)

	booking, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking ID to be set")
	}
	if booking.Status != model.StatusBooked {
		t.Errorf("expected status %q, got %q", model.StatusBooked, booking.Status)
	}
	if booking.PaymentMethod != model.PaymentPending {
		t.Errorf("expected payment method %q, got %q", model.PaymentPending, booking.PaymentMethod)
	}
	if booking.RoomType != "Deluxe" {
		t.Errorf("expected canonical room type Deluxe, got %q", booking.RoomType)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}
	if got := publisher.published[0].GetEventType(); got != model.EventBookingCreated {
		t.Errorf("expected event type %s, got %s", model.EventBookingCreated, got)
	}
}

func TestCreate_ReleasesLock(t *testing.T) {
	repo := &mockBookingRepo{}
	locks := &mockLockRepo{}
	svc := newTestService(t, repo, locks, nil)

	if _, err := svc.Create(context.Background(), validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(locks.acquired) != 1 || locks.acquired[0] != "room_lock_deluxe" {
		t.Errorf("expected one lock on room_lock_deluxe, got %v", locks.acquired)
	}
	if len(locks.released) != 1 || locks.released[0] != "room_lock_deluxe" {
		t.Errorf("expected lock to be released, got %v", locks.released)
	}
}

func TestCreate_RoomTypeCaseInsensitive(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	req := validRequest()
	req.RoomType = "  royal suite "
	req.Guests = 4

	booking, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.RoomType != "Royal Suite" {
		t.Errorf("expected canonical room type Royal Suite, got %q", booking.RoomType)
	}
}

func TestCreate_DateOrderFailsBeforeStore(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	req := validRequest()
	req.CheckIn, req.CheckOut = req.CheckOut, req.CheckIn

	_, err := svc.Create(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)

	if repo.overlapCalls != 0 || repo.createCalls != 0 {
		t.Errorf("expected no store access, got overlap=%d create=%d", repo.overlapCalls, repo.createCalls)
	}
}

func TestCreate_EqualDatesRejected(t *testing.T) {
	svc := newTestService(t, &mockBookingRepo{}, &mockLockRepo{}, nil)

	req := validRequest()
	req.CheckOut = req.CheckIn

	_, err := svc.Create(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestCreate_UnknownRoomType(t *testing.T) {
	svc := newTestService(t, &mockBookingRepo{}, &mockLockRepo{}, nil)

	req := validRequest()
	req.RoomType = "Penthouse"

	_, err := svc.Create(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	// Capacity violation wins regardless of whether the dates are free.
	req := validRequest()
	req.Guests = 3 // Deluxe sleeps 2

	_, err := svc.Create(context.Background(), req)
	appErr := assertAppErrorCode(t, err, apperrors.CodeValidation)
	if appErr.HTTPStatus != 422 {
		t.Errorf("expected HTTP 422, got %d", appErr.HTTPStatus)
	}
	if repo.overlapCalls != 0 {
		t.Errorf("expected capacity check before availability, got %d overlap calls", repo.overlapCalls)
	}
}

func TestCreate_DateConflict(t *testing.T) {
	repo := &mockBookingRepo{
		countOverlappingFn: func(ctx context.Context, roomType string, checkIn, checkOut time.Time) (int64, error) {
			return 1, nil
		},
	}
	locks := &mockLockRepo{}
	svc := newTestService(t, repo, locks, nil)

	_, err := svc.Create(context.Background(), validRequest())
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	if repo.createCalls != 0 {
		t.Errorf("expected no insert on conflict, got %d", repo.createCalls)
	}
	if len(locks.released) != 1 {
		t.Errorf("expected lock release on conflict, got %v", locks.released)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc := newTestService(t, &mockBookingRepo{}, &mockLockRepo{}, nil)

	req := validRequest()
	req.CustomerEmail = "not-an-email"

	_, err := svc.Create(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

// --- CheckAvailability ---

func TestCheckAvailability_BackToBackStays(t *testing.T) {
	existingIn := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	existingOut := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	repo := &mockBookingRepo{
		countOverlappingFn: func(ctx context.Context, roomType string, checkIn, checkOut time.Time) (int64, error) {
			// Half-open overlap: [in, out) vs the existing stay.
			if checkIn.Before(existingOut) && checkOut.After(existingIn) {
				return 1, nil
			}
			return 0, nil
		},
	}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	// New stay starting exactly at the existing checkout does not conflict.
	result, err := svc.CheckAvailability(context.Background(), "Deluxe", existingOut, existingOut.AddDate(0, 0, 2), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Error("expected back-to-back stay to be available")
	}

	// An actually overlapping stay does conflict.
	result, err = svc.CheckAvailability(context.Background(), "Deluxe", existingIn.AddDate(0, 0, 1), existingOut.AddDate(0, 0, 1), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Error("expected overlapping stay to be unavailable")
	}
}

func TestCheckAvailability_CapacityShortCircuits(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	result, err := svc.CheckAvailability(
		context.Background(),
		"Executive",
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		5, // Executive sleeps 3
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Error("expected unavailable for excess guests")
	}
	if result.Reason != "Exceeds capacity" {
		t.Errorf("expected reason %q, got %q", "Exceeds capacity", result.Reason)
	}
	if repo.overlapCalls != 0 {
		t.Errorf("expected no store access for capacity excess, got %d", repo.overlapCalls)
	}
}

func TestCheckAvailability_InvalidDateRange(t *testing.T) {
	svc := newTestService(t, &mockBookingRepo{}, &mockLockRepo{}, nil)

	in := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	_, err := svc.CheckAvailability(context.Background(), "Deluxe", in, in, 2)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestCheckAvailability_UnknownRoomType(t *testing.T) {
	svc := newTestService(t, &mockBookingRepo{}, &mockLockRepo{}, nil)

	_, err := svc.CheckAvailability(
		context.Background(),
		"Igloo",
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		1,
	)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

// --- ConfirmPayment ---

func TestConfirmPayment_Valid(t *testing.T) {
	id := "65f1c0ffee0000000000abcd"
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, lookupID string) (*model.Booking, error) {
			return &model.Booking{ID: lookupID, Status: model.StatusBooked, PaymentMethod: model.PaymentPending}, nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(t, repo, &mockLockRepo{}, publisher)

	booking, err := svc.ConfirmPayment(context.Background(), id, "Card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusPaid {
		t.Errorf("expected status Paid, got %q", booking.Status)
	}
	if booking.PaymentMethod != "Card" {
		t.Errorf("expected payment method Card, got %q", booking.PaymentMethod)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}
	if got := publisher.published[0].GetEventType(); got != model.EventPaymentConfirmed {
		t.Errorf("expected event type %s, got %s", model.EventPaymentConfirmed, got)
	}
}

func TestConfirmPayment_NotFound(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	// Well-formed but unknown id -> 404, not 400.
	_, err := svc.ConfirmPayment(context.Background(), "65f1c0ffee0000000000ffff", "Card")
	appErr := assertAppErrorCode(t, err, apperrors.CodeNotFound)
	if appErr.HTTPStatus != 404 {
		t.Errorf("expected HTTP 404, got %d", appErr.HTTPStatus)
	}
}

func TestConfirmPayment_MalformedID(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrInvalidID
		},
	}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	// Malformed id -> 400, distinct from the unknown-id 404.
	_, err := svc.ConfirmPayment(context.Background(), "not-a-hex-id", "Card")
	appErr := assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
	if appErr.HTTPStatus != 400 {
		t.Errorf("expected HTTP 400, got %d", appErr.HTTPStatus)
	}
}

func TestConfirmPayment_EmptyID(t *testing.T) {
	svc := newTestService(t, &mockBookingRepo{}, &mockLockRepo{}, nil)

	_, err := svc.ConfirmPayment(context.Background(), "", "Card")
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestConfirmPayment_InvalidMethod(t *testing.T) {
	svc := newTestService(t, &mockBookingRepo{}, &mockLockRepo{}, nil)

	_, err := svc.ConfirmPayment(context.Background(), "65f1c0ffee0000000000abcd", "Barter")
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestConfirmPayment_AlreadyPaid(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Status: model.StatusPaid, PaymentMethod: "Card"}, nil
		},
	}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	_, err := svc.ConfirmPayment(context.Background(), "65f1c0ffee0000000000abcd", "Card")
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestConfirmPayment_CancelledBooking(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
		},
	}
	svc := newTestService(t, repo, &mockLockRepo{}, nil)

	_, err := svc.ConfirmPayment(context.Background(), "65f1c0ffee0000000000abcd", "Card")
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}
