package worker

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

type NotificationSender interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

type Notifier struct {
	sender NotificationSender
	log    logrus.FieldLogger
}

func NewNotifier(sender NotificationSender, log logrus.FieldLogger) *Notifier {
	return &Notifier{sender: sender, log: log.WithField("component", "notifier")}
}

// Handle notifies the passenger about one booking event. Events without an
// email address are dropped.
func (n *Notifier) Handle(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		n.log.WithField("booking_id", event.BookingID).Debug("no email on event, nothing to send")
		return nil
	}
	return n.sender.Send(ctx, event)
}
