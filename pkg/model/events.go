package model

import "time"

// Event types published on the booking lifecycle topic.
const (
	EventBookingCreated   = "booking.created"
	EventPaymentConfirmed = "booking.payment_confirmed"
)

// Kafka topics for booking lifecycle events.
const (
	TopicBookingEvents    = "booking-events"
	TopicBookingEventsDLQ = "dlq-booking-events"
)

// BookingEvent is the payload for both lifecycle events. Publishing is
// best-effort: the HTTP caller never waits on, or fails because of, Kafka.
type BookingEvent struct {
	BookingID     string    `json:"booking_id"`
	CustomerName  string    `json:"customer_name"`
	RoomType      string    `json:"room_type"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Status        string    `json:"status"`
}
