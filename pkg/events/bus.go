// Package events carries registry notifications between processes on
// Watermill. Two transports exist: PostgreSQL tables (durable, shared by the
// api and worker, with a forwarder outbox) and an in-process Go channel.
//
// With the SQL transport every instance of a service shares one consumer
// group, so each message is handled once per service. Handlers must be
// idempotent. Trace context travels in message metadata.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/oraclegate/pkg/config"
	"github.com/ghuser/oraclegate/pkg/logger"
)

const (
	errBuffer       = 100
	shutdownTimeout = 30 * time.Second
)

// ErrNoTxSupport is returned by NewTxPublisher on a bus without a SQL transport.
var ErrNoTxSupport = errors.New("events: transport does not support transactional publishing")

// EventBus publishes and consumes watermill messages on one transport.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	db         *sql.DB // nil for the in-process transport
	log        logger.Logger
	retry      backoff

	forwarding bool
	fwd        *forwarder.Forwarder

	wg sync.WaitGroup
	// The in-process transport redelivers nacked messages immediately and
	// forever, so exhausted messages are acked there instead.
	ackOnFailure bool
}

// Option adjusts Open.
type Option func(*options)

type options struct {
	forwarding    bool
	consumerGroup string
}

// ConsumeOnly opens the SQL transport without the forwarder outbox. Use it in
// processes that never publish.
func ConsumeOnly() Option { return func(o *options) { o.forwarding = false } }

// WithConsumerGroup overrides the default "<service>-consumer" group.
func WithConsumerGroup(group string) Option { return func(o *options) { o.consumerGroup = group } }

// Open returns the bus selected by cfg.EventTransport. The SQL transport
// publishes through the forwarder unless ConsumeOnly is given; call
// StartForwarder before publishing on it.
func Open(cfg *config.Config, log logger.Logger, opts ...Option) (*EventBus, error) {
	o := options{forwarding: true, consumerGroup: cfg.ServiceName + "-consumer"}
	for _, opt := range opts {
		opt(&o)
	}
	switch cfg.EventTransport {
	case config.TransportGoChannel:
		return NewInProcessEventBus(log), nil
	case config.TransportSQL, "":
		return openSQL(cfg.DatabaseURL, o, log)
	default:
		return nil, fmt.Errorf("events: unknown transport %q", cfg.EventTransport)
	}
}

// NewInProcessEventBus returns a bus on a Watermill Go channel. Every
// subscriber receives every message and nothing survives a restart.
func NewInProcessEventBus(log logger.Logger) *EventBus {
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, newWatermillLogger(log))
	return &EventBus{
		publisher:    ch,
		subscriber:   ch,
		log:          log,
		retry:        defaultBackoff,
		ackOnFailure: true,
	}
}

// Durable reports whether published messages survive a process restart.
func (q *EventBus) Durable() bool { return q.db != nil }

// Publish sends msgs to topic with ctx's trace context in their metadata.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTrace(ctx, msgs)
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe runs handler for every message on topic until ctx is done or the
// bus closes. A handler error is retried with exponential backoff; once the
// attempts are exhausted the message is nacked (acked in-process) and the
// error is sent on the returned channel, which callers must drain.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBuffer)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			err := q.retry.run(msgCtx, q.log, func(ctx context.Context) error { return handler(ctx, msg) })
			if err == nil {
				msg.Ack()
				continue
			}
			if q.ackOnFailure {
				msg.Ack()
			} else {
				msg.Nack()
			}
			select {
			case errCh <- fmt.Errorf("%s %s: %w", topic, msg.UUID, err):
			default:
				q.log.ErrorContext(msgCtx, "events: error channel full, dropping error", "error", err, "topic", topic)
			}
		}
	}()
	return errCh, nil
}

// Ping checks the database behind the SQL transport.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return nil
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and forwarder, waits up to 30s for in-flight
// handlers, then closes the publisher and database.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers")
	}

	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	if q.db == nil {
		return nil
	}
	return q.db.Close()
}

func injectTrace(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}
