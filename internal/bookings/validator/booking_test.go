package validator

import (
	"strings"
	"testing"
	"time"

	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Level: logger.ERROR}))
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

func TestValidateRequest_Valid(t *testing.T) {
	v := newValidator()
	if err := v.ValidateRequest(validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequest_MissingFields(t *testing.T) {
	v := newValidator()

	req := &model.BookingRequest{}
	err := v.ValidateRequest(req)
	if err == nil {
		t.Fatal("expected error for empty request")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) < 5 {
		t.Errorf("expected errors for each missing field, got %d: %v", len(verrs), verrs)
	}
}

func TestValidateRequest_InvalidEmail(t *testing.T) {
	v := newValidator()

	req := validRequest()
	req.CustomerEmail = "not-an-email"

	err := v.ValidateRequest(req)
	if err == nil {
		t.Fatal("expected error for invalid email")
	}
	if !strings.Contains(err.Error(), "CustomerEmail") {
		t.Errorf("expected CustomerEmail in error, got %v", err)
	}
}

func TestValidateRequest_GuestBounds(t *testing.T) {
	v := newValidator()

	req := validRequest()
	req.Guests = 0
	if err := v.ValidateRequest(req); err == nil {
		t.Error("expected error for zero guests")
	}

	req = validRequest()
	req.Guests = 21
	if err := v.ValidateRequest(req); err == nil {
		t.Error("expected error for 21 guests")
	}
}

func TestValidateRequest_NameTooShort(t *testing.T) {
	v := newValidator()

	req := validRequest()
	req.CustomerName = "A"
	if err := v.ValidateRequest(req); err == nil {
		t.Error("expected error for one-character name")
	}
}

// Date ordering is deliberately not a struct rule: the service reports it
// separately so a reversed range is a 400, not a 422.
func TestValidateRequest_ReversedDatesPassShapeCheck(t *testing.T) {
	v := newValidator()

	req := validRequest()
	req.CheckIn, req.CheckOut = req.CheckOut, req.CheckIn
	if err := v.ValidateRequest(req); err != nil {
		t.Errorf("expected shape validation to pass for reversed dates, got %v", err)
	}
}

func TestValidateRequest_PaymentMethodOptional(t *testing.T) {
	v := newValidator()

	req := validRequest()
	req.PaymentMethod = ""
	if err := v.ValidateRequest(req); err != nil {
		t.Errorf("expected empty payment method to pass, got %v", err)
	}

	req.PaymentMethod = "Bitcoin"
	if err := v.ValidateRequest(req); err == nil {
		t.Error("expected error for unsupported payment method")
	}
}

func TestValidatePayment(t *testing.T) {
	v := newValidator()

	for _, method := range []string{"Card", "EasyPaisa", "JazzCash"} {
		if err := v.ValidatePayment(&model.PaymentRequest{Method: method}); err != nil {
			t.Errorf("expected %s to be accepted, got %v", method, err)
		}
	}

	if err := v.ValidatePayment(&model.PaymentRequest{Method: ""}); err == nil {
		t.Error("expected error for missing method")
	}
	if err := v.ValidatePayment(&model.PaymentRequest{Method: "Cheque"}); err == nil {
		t.Error("expected error for unsupported method")
	}
}
