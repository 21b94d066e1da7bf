package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/oraclegate/pkg/logger"
)

const (
	forwarderTopic = "_forwarder_queue"
	forwarderGroup = "forwarder-consumer"
)

func openSQL(databaseURL string, o options, log logger.Logger) (*EventBus, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	wlog := newWatermillLogger(log)

	pub, err := newSQLPublisher(db, true, wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	sub, err := newSQLSubscriber(db, o.consumerGroup, wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	var publisher message.Publisher = pub
	if o.forwarding {
		publisher = wrapForwarder(pub)
	}
	return &EventBus{
		publisher:  publisher,
		subscriber: sub,
		db:         db,
		log:        log,
		retry:      defaultBackoff,
		forwarding: o.forwarding,
	}, nil
}

func newSQLPublisher(db watermillsql.ContextExecutor, autoInit bool, wlog *watermillLogger) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new sql publisher: %w", err)
	}
	return pub, nil
}

func newSQLSubscriber(db *sql.DB, group string, wlog *watermillLogger) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new sql subscriber: %w", err)
	}
	return sub, nil
}

func wrapForwarder(pub message.Publisher) message.Publisher {
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// StartForwarder runs the daemon that moves enveloped messages from the outbox
// topic to their real topics. It returns once the daemon is running. It may
// be called once, on a SQL bus opened without ConsumeOnly.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.forwarding {
		return errors.New("events: bus was opened without the forwarder")
	}
	if q.fwd != nil {
		return errors.New("events: forwarder already started")
	}
	wlog := newWatermillLogger(q.log)

	outbox, err := newSQLSubscriber(q.db, forwarderGroup, wlog)
	if err != nil {
		return err
	}
	target, err := newSQLPublisher(q.db, true, wlog)
	if err != nil {
		_ = outbox.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(outbox, target, wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = target.Close()
		_ = outbox.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		q.log.InfoContext(ctx, "events: forwarder running", "topic", forwarderTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// NewTxPublisher returns a publisher whose writes join tx, so registry writes
// and their notifications commit together. The outbox tables must already
// exist, which StartForwarder guarantees.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	if q.db == nil {
		return nil, ErrNoTxSupport
	}
	pub, err := newSQLPublisher(tx, false, newWatermillLogger(q.log))
	if err != nil {
		return nil, err
	}
	if q.forwarding {
		return wrapForwarder(pub), nil
	}
	return pub, nil
}
