package model

import (
	"time"
)

const (
	StatusBooked    = "Booked"
	StatusPaid      = "Paid"
	StatusCleaning  = "Cleaning"
	StatusCancelled = "Cancelled"

	PaymentPending = "Pending"
)

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName  string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string    `json:"customer_email" bson:"customer_email" validate:"required,email"`
	RoomType      string    `json:"room_type" bson:"room_type" validate:"required,min=2,max=50"`
	Guests        int       `json:"guests" bson:"guests" validate:"required,min=1,max=20"`
	CheckIn       time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut      time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	PaymentMethod string    `json:"payment_method" bson:"payment_method" validate:"omitempty,oneof=Pending Card EasyPaisa JazzCash"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=Booked Paid Cleaning Cancelled"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the inbound shape for creating a booking. The service
// resolves the room type against the catalog and fills in status, payment
// default and timestamps before persisting.
type BookingRequest struct {
	CustomerName  string    `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string    `json:"customer_email" validate:"required,email"`
	RoomType      string    `json:"room_type" validate:"required,min=2,max=50"`
	Guests        int       `json:"guests" validate:"required,min=1,max=20"`
	CheckIn       time.Time `json:"check_in" validate:"required"`
	CheckOut      time.Time `json:"check_out" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"omitempty,oneof=Card EasyPaisa JazzCash"`
}

// PaymentRequest confirms a (mock) payment for an existing booking.
type PaymentRequest struct {
	Method string `json:"method" validate:"required,oneof=Card EasyPaisa JazzCash"`
}
