package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"pos-service/metrics"
	"pos-service/models"
)

const publishTimeout = 5 * time.Second

// Publisher sends order lifecycle events to the events queue.
type Publisher struct {
	pool      *ChannelPool
	queueName string
}

func NewPublisher(pool *ChannelPool, queueName string) *Publisher {
	return &Publisher{
		pool:      pool,
		queueName: queueName,
	}
}

func (p *Publisher) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	msg, err := eventPublishing(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.pool.GetChannel(ctx)
	if err != nil {
		metrics.RecordMessage("published", "error")
		return errors.Wrap(err, "failed to get channel from pool")
	}
	defer p.pool.ReturnChannel(ch)

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		msg)
	if err != nil {
		metrics.RecordMessage("published", "error")
		return errors.Wrap(err, "failed to publish order event")
	}

	metrics.RecordMessage("published", "ok")
	log.WithFields(log.Fields{
		"event":    event.Type,
		"order_id": event.OrderID,
		"queue":    p.queueName,
	}).Debug("published order event")
	return nil
}

func eventPublishing(event models.OrderEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, errors.Wrap(err, "failed to marshal order event")
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

// NopPublisher drops every event. It stands in when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, models.OrderEvent) error {
	return nil
}
