// Package messaging encodes registry notifications as Watermill messages and
// publishes them on the event bus.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	pkgevents "github.com/ghuser/oraclegate/pkg/events"
	"github.com/ghuser/oraclegate/services/commodity/domain/events"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

// Metadata keys set on every message.
const (
	MetaEventID      = "event_id"
	MetaEventVersion = "event_version"
)

// NewMessage encodes n as JSON. The message UUID is the notification's event
// id so consumers can deduplicate redeliveries. Trace context from ctx is
// injected into the metadata.
func NewMessage(ctx context.Context, n events.Notification) (*message.Message, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", n.Topic(), err)
	}
	meta := n.Metadata()
	msg := message.NewMessage(meta.EventID.String(), payload)
	msg.Metadata.Set(MetaEventID, meta.EventID.String())
	msg.Metadata.Set(MetaEventVersion, strconv.Itoa(meta.Version))

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
	return msg, nil
}

// Decode unmarshals a message payload into a notification of type T.
func Decode[T events.Notification](msg *message.Message) (T, error) {
	var n T
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		return n, fmt.Errorf("decode %s: %w", n.Topic(), err)
	}
	return n, nil
}

// PublishAll encodes each notification and hands it to pub on its topic, in order.
func PublishAll(ctx context.Context, pub message.Publisher, notes ...events.Notification) error {
	for _, n := range notes {
		msg, err := NewMessage(ctx, n)
		if err != nil {
			return err
		}
		if err := pub.Publish(n.Topic(), msg); err != nil { //nolint:contextcheck
			return fmt.Errorf("publish %s: %w", n.Topic(), err)
		}
	}
	return nil
}

var _ storage.Publisher = (*BusPublisher)(nil)

// BusPublisher delivers committed notifications through an EventBus.
type BusPublisher struct {
	bus *pkgevents.EventBus
}

// NewBusPublisher returns a storage.Publisher backed by bus.
func NewBusPublisher(bus *pkgevents.EventBus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// Publish sends every notification, continuing past failures. The returned
// error joins all failures.
func (p *BusPublisher) Publish(ctx context.Context, notes ...events.Notification) error {
	var errs []error
	for _, n := range notes {
		msg, err := NewMessage(ctx, n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := p.bus.Publish(ctx, n.Topic(), msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
