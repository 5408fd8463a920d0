package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "innkeep/internal/bookings/errors"
	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/validator"
	"innkeep/internal/catalog"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/kafka"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

const ServiceName = "bookings"

// AvailabilityResult reports whether a room type can be booked for a date
// range. Reason is set when the answer is no for something other than a
// date conflict, mirroring the capacity case on the availability endpoint.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// EventPublisher is the slice of the Kafka producer the service needs.
// A nil publisher disables event publishing.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	CheckAvailability(ctx context.Context, roomType string, checkIn, checkOut time.Time, guests int) (*AvailabilityResult, error)
	ConfirmPayment(ctx context.Context, id string, method string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	rooms     *catalog.Catalog
	validator *validator.BookingValidator
	publisher EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	rooms *catalog.Catalog,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create validates and persists a booking. Validation short-circuits in
// order: request shape, date order, room type, capacity, availability.
// The availability check and the insert run under a per-room-type advisory
// lock and inside a transaction, so two concurrent requests for the same
// room type cannot both pass the check and double-book.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitize(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if !req.CheckOut.After(req.CheckIn) {
		return nil, apperrors.InvalidInput("Check-out must be after check-in")
	}

	room, ok := s.rooms.Lookup(req.RoomType)
	if !ok {
		return nil, apperrors.NotFoundWithID("Room type", req.RoomType)
	}

	if req.Guests > room.Capacity {
		return nil, apperrors.Validation("Guest count exceeds room capacity", map[string]any{
			"guests":   req.Guests,
			"capacity": room.Capacity,
		})
	}

	lockID, err := s.acquireRoomLock(ctx, room.Type)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	booking := &model.Booking{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		RoomType:      room.Type,
		Guests:        req.Guests,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		PaymentMethod: req.PaymentMethod,
		Status:        model.StatusBooked,
	}
	if booking.PaymentMethod == "" {
		booking.PaymentMethod = model.PaymentPending
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		conflicts, err := s.repo.CountOverlapping(sessCtx, room.Type, req.CheckIn, req.CheckOut)
		if err != nil {
			return apperrors.Internal("Failed to check availability", err)
		}
		if conflicts > 0 {
			return apperrors.Conflict(fmt.Sprintf(
				"Selected dates are not available for room type %s (%s - %s)",
				room.Type,
				req.CheckIn.Format(time.RFC3339),
				req.CheckOut.Format(time.RFC3339),
			))
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "room_type", room.Type, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_type", booking.RoomType,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
	)
	s.publishEvent(ctx, model.EventBookingCreated, booking)
	return booking, nil
}

// CheckAvailability answers the read-only availability query. Capacity
// excess is reported as unavailable with a reason, without consulting the
// store; only a real date lookup hits the overlap count.
func (s *bookingService) CheckAvailability(ctx context.Context, roomType string, checkIn, checkOut time.Time, guests int) (*AvailabilityResult, error) {
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidInput("Check-out must be after check-in")
	}

	room, ok := s.rooms.Lookup(roomType)
	if !ok {
		return nil, apperrors.NotFoundWithID("Room type", roomType)
	}

	if guests > room.Capacity {
		return &AvailabilityResult{Available: false, Reason: "Exceeds capacity"}, nil
	}

	conflicts, err := s.repo.CountOverlapping(ctx, room.Type, checkIn, checkOut)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "room_type", room.Type, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	return &AvailabilityResult{Available: conflicts == 0}, nil
}

// ConfirmPayment records a mock payment. Only the Booked -> Paid transition
// is allowed; confirming a Paid, Cleaning or Cancelled booking is a conflict.
func (s *bookingService) ConfirmPayment(ctx context.Context, id string, method string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidatePayment(&model.PaymentRequest{Method: method}); err != nil {
		s.cfg.Log.Warn("Payment validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid payment method", map[string]any{"error": err.Error()})
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.StatusBooked {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Cannot confirm payment for a booking with status %q", booking.Status,
		))
	}

	if err := s.repo.SetPayment(ctx, id, method); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to confirm payment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to confirm payment", err)
	}

	booking.Status = model.StatusPaid
	booking.PaymentMethod = method

	s.cfg.Log.Info("Payment confirmed", "id", id, "method", method)
	s.publishEvent(ctx, model.EventPaymentConfirmed, booking)
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.CustomerName = sanitizer.NormalizeName(req.CustomerName)
	req.CustomerEmail = sanitizer.NormalizeEmail(req.CustomerEmail)
	req.RoomType = sanitizer.TrimAndNormalize(req.RoomType)
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// acquireRoomLock creates an advisory lock for the room type. The lock id
// uses the normalized type so differently-cased requests contend on one lock.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomType string) (string, error) {
	lockID := "room_lock_" + catalog.NormalizeType(roomType)

	lock := &model.RoomLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.RoomLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire room lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// publishEvent emits a lifecycle event, best-effort. Failures are logged and
// never surfaced to the caller.
func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(model.BookingEvent{
			BookingID:     booking.ID,
			CustomerName:  booking.CustomerName,
			RoomType:      booking.RoomType,
			CheckIn:       booking.CheckIn,
			CheckOut:      booking.CheckOut,
			PaymentMethod: booking.PaymentMethod,
			Status:        booking.Status,
		}).
		WithEventType(eventType).
		WithSource(ServiceName).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
