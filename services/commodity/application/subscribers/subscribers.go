// Package subscribers keeps the owner read model in step with committed
// registry notifications.
package subscribers

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/oraclegate/pkg/events"
	"github.com/ghuser/oraclegate/pkg/logger"
	commodityevents "github.com/ghuser/oraclegate/services/commodity/domain/events"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/messaging"
)

// OwnerWriter is the write side of the owner read model. Writes are stamped
// with the notification's OccurredAt; Put drops any write older than the
// stored entry, so topics may be consumed in any order.
type OwnerWriter interface {
	Put(ctx context.Context, item, owner string, stamp time.Time) (bool, error)
}

// Register subscribes the read-model handlers to every commodity topic.
// Subscriber errors are drained in the background and logged.
func Register(ctx context.Context, bus *events.EventBus, owners OwnerWriter, log logger.Logger) error {
	handlers := map[string]func(context.Context, *message.Message) error{
		commodityevents.TopicMinted:      HandleMinted(owners, log),
		commodityevents.TopicTransferred: HandleTransferred(owners, log),
		commodityevents.TopicBurned:      HandleBurned(owners, log),
	}

	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		errCh, err := bus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		go func() {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		topics = append(topics, topic)
	}

	log.Info("event subscribers registered", "topics", topics)
	return nil
}

// HandleMinted caches the new owner.
// Handlers must be idempotent: EventBus retries up to 3x on failure.
func HandleMinted(owners OwnerWriter, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := messaging.Decode[commodityevents.MintedEvent](msg)
		if err != nil {
			return err
		}
		applied, err := owners.Put(ctx, evt.Item.String(), evt.Owner.String(), evt.OccurredAt)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "owner cache updated", "item", evt.Item, "owner", evt.Owner, "applied", applied, "event_id", evt.EventID)
		return nil
	}
}

// HandleTransferred caches the recipient as owner.
func HandleTransferred(owners OwnerWriter, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := messaging.Decode[commodityevents.TransferredEvent](msg)
		if err != nil {
			return err
		}
		applied, err := owners.Put(ctx, evt.Item.String(), evt.To.String(), evt.OccurredAt)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "owner cache updated", "item", evt.Item, "owner", evt.To, "applied", applied, "event_id", evt.EventID)
		return nil
	}
}

// HandleBurned tombstones the cached owner.
func HandleBurned(owners OwnerWriter, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := messaging.Decode[commodityevents.BurnedEvent](msg)
		if err != nil {
			return err
		}
		applied, err := owners.Put(ctx, evt.Item.String(), "", evt.OccurredAt)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "owner cache entry removed", "item", evt.Item, "applied", applied, "event_id", evt.EventID)
		return nil
	}
}
