package journal

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventPurchaseCompleted EventType = "purchase.completed"
	EventRefundRequested   EventType = "refund.requested"
	EventRefundApproved    EventType = "refund.approved"
	EventRefundRejected    EventType = "refund.rejected"
	EventOfferCreated      EventType = "offer.created"
	EventOfferCancelled    EventType = "offer.cancelled"
	EventBidPlaced         EventType = "bid.placed"
	EventBidAccepted       EventType = "bid.accepted"
	EventBidCancelled      EventType = "bid.cancelled"
	EventEventCancelled    EventType = "event.cancelled"
	EventTicketTransferred EventType = "ticket.transferred"
)

// DomainEvent is one entry of the audit stream.
type DomainEvent struct {
	ID          uuid.UUID              `json:"id"`
	Type        EventType              `json:"type"`
	AggregateID string                 `json:"aggregate_id"`
	ActorID     *uuid.UUID             `json:"actor_id,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

func NewEvent(eventType EventType, aggregateID string) *DomainEvent {
	return &DomainEvent{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		Payload:     make(map[string]interface{}),
		OccurredAt:  time.Now().UTC(),
	}
}

func (e *DomainEvent) WithActor(id uuid.UUID) *DomainEvent {
	e.ActorID = &id
	return e
}

func (e *DomainEvent) With(key string, value interface{}) *DomainEvent {
	e.Payload[key] = value
	return e
}

// PartitionKey keeps every event of one aggregate on the same partition.
func (e *DomainEvent) PartitionKey() string {
	return e.AggregateID
}

func (e *DomainEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
