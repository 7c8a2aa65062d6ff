// Package events publishes reservation and slot lifecycle events.
package events

import (
	"context"
	"sync"
	"time"

	"coachbooking/pkg/kafka"
	"coachbooking/pkg/logger"
)

type Type string

const (
	ReservationBooked    Type = "reservation.booked"
	ReservationConfirmed Type = "reservation.confirmed"
	ReservationRejected  Type = "reservation.rejected"
	ReservationCancelled Type = "reservation.cancelled"
	ReservationCheckedIn Type = "reservation.checked_in"
	SlotsGenerated       Type = "slots.generated"
	SlotsExpired         Type = "slots.expired"
)

const schemaVersion = "1"

type Event struct {
	Type          Type      `json:"type"`
	ReservationID string    `json:"reservation_id,omitempty"`
	SlotID        string    `json:"slot_id,omitempty"`
	TrainerID     string    `json:"trainer_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	Date          string    `json:"date,omitempty"`
	Status        string    `json:"status,omitempty"`
	Count         int       `json:"count,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Key returns the partition key: the reservation when there is one, else the trainer.
func (e Event) Key() string {
	if e.ReservationID != "" {
		return e.ReservationID
	}
	return e.TrainerID
}

// Publisher is called after a lifecycle change has been committed. Delivery
// failures never undo the change, so Publish reports nothing to the caller.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type correlationKey struct{}

// WithCorrelationID attaches the id that is copied into published events.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id set by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer messagePublisher
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, timeout time.Duration, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source, timeout: timeout, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	msg, err := kafka.NewMessage().
		WithKey(e.Key()).
		WithEventType(string(e.Type)).
		WithCorrelationID(CorrelationID(ctx)).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		WithTimestamp(e.OccurredAt).
		WithValue(e).
		Build()
	if err != nil {
		p.log.Error("Failed to encode lifecycle event", "event_type", e.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish lifecycle event",
			"event_type", e.Type,
			"key", e.Key(),
			"error", err,
		)
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []Type {
	var types []Type
	for _, e := range r.Events() {
		types = append(types, e.Type)
	}
	return types
}
