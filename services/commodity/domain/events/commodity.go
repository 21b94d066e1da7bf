package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/oraclegate/services/commodity/domain/models"
)

// Watermill topics published by the commodity registry.
const (
	TopicMinted      = "commodity.minted"
	TopicBurned      = "commodity.burned"
	TopicTransferred = "commodity.transferred"
)

// SchemaVersion is the payload version stamped on every notification.
// Increment on breaking changes.
const SchemaVersion = 1

// Meta carries the publish-time fields shared by every notification.
type Meta struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notification is an observable registry state change.
type Notification interface {
	Topic() string
	Metadata() Meta
}

// NewMeta returns Meta with a fresh EventID.
func NewMeta(at time.Time) Meta {
	return Meta{EventID: uuid.New(), Version: SchemaVersion, OccurredAt: at.UTC()}
}

// Metadata returns the shared publish-time fields.
func (m Meta) Metadata() Meta { return m }

// MintedEvent is emitted after a commodity is created and assigned to Owner.
type MintedEvent struct {
	Meta
	Owner models.AccountID   `json:"owner"`
	Item  models.CommodityID `json:"item"`
}

// Topic implements Notification.
func (MintedEvent) Topic() string { return TopicMinted }

// BurnedEvent is emitted after a commodity owned by Owner is destroyed.
type BurnedEvent struct {
	Meta
	Owner models.AccountID   `json:"owner"`
	Item  models.CommodityID `json:"item"`
}

// Topic implements Notification.
func (BurnedEvent) Topic() string { return TopicBurned }

// TransferredEvent is emitted after a commodity is reassigned From -> To.
type TransferredEvent struct {
	Meta
	Item models.CommodityID `json:"item"`
	From models.AccountID   `json:"from"`
	To   models.AccountID   `json:"to"`
}

// Topic implements Notification.
func (TransferredEvent) Topic() string { return TopicTransferred }
