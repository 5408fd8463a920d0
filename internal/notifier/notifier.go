package notifier

import (
	"context"
	"fmt"

	"innkeep/pkg/config"
	"innkeep/pkg/kafka"
	"innkeep/pkg/model"
)

// Notifier turns booking lifecycle events into notification documents that
// the dashboard reads back. It is the only writer of the Notifications
// collection.
type Notifier struct {
	repo NotificationRepository
	cfg  *config.Config
}

func New(repo NotificationRepository, cfg *config.Config) *Notifier {
	return &Notifier{
		repo: repo,
		cfg:  cfg,
	}
}

// Handle is the consumer callback. Decode failures and unknown event types
// are permanent errors so the consumer routes them to the DLQ instead of
// retrying.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("invalid booking event payload", err)
	}

	notification, err := n.buildNotification(msg.GetEventType(), &event)
	if err != nil {
		return err
	}

	if err := n.repo.Create(ctx, notification); err != nil {
		// Store write may succeed on retry
		return kafka.NewTransientError("failed to store notification", err)
	}

	n.cfg.Log.Info("Notification stored",
		"event_type", msg.GetEventType(),
		"booking_id", event.BookingID,
		"level", notification.Level,
	)
	return nil
}

func (n *Notifier) buildNotification(eventType string, event *model.BookingEvent) (*model.Notification, error) {
	switch eventType {
	case model.EventBookingCreated:
		return &model.Notification{
			Title: "New booking",
			Message: fmt.Sprintf("%s booked a %s room (%s - %s)",
				event.CustomerName,
				event.RoomType,
				event.CheckIn.Format("2006-01-02"),
				event.CheckOut.Format("2006-01-02"),
			),
			Level: model.LevelInfo,
		}, nil
	case model.EventPaymentConfirmed:
		return &model.Notification{
			Title:   "Payment received",
			Message: fmt.Sprintf("Booking %s paid via %s", event.BookingID, event.PaymentMethod),
			Level:   model.LevelSuccess,
		}, nil
	default:
		return nil, kafka.NewPermanentError(
			fmt.Sprintf("unknown booking event type: %s", eventType), nil,
		)
	}
}
