package notify

import (
	"context"
	"log"

	"github.com/carhive/carbooking/internal/kafka"
)

// Sender is the notification sink the worker feeds. Actual delivery (mail,
// SMS, push) is owned by a separate system; this logs what would be sent.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("notify customer %d: booking %s %s (vehicle %d, %s..%s)",
		event.CustomerID, event.BookingID, event.Type, event.VehicleID, event.StartDate, event.EndDate)
	return nil
}
