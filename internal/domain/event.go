package domain

import (
	"encoding/json"
	"time"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventPaymentFailed    = "booking_payment_failed"
	EventBookingCancelled = "booking_cancelled"
)

const (
	OutboxStatusNew        = "new"
	OutboxStatusProcessing = "processing"
	OutboxStatusProcessed  = "processed"
)

// OutboxEvent is a booking event persisted in the same transaction as the
// state change it describes and relayed to Kafka afterwards.
type OutboxEvent struct {
	ID            string
	EventType     string
	Payload       json.RawMessage
	Status        string
	CorrelationID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
