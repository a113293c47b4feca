package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"pos-service/metrics"
	"pos-service/models"
)

// Refresher reloads local state from the source of truth.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Worker consumes the order updates queue. Messages are advisory: each one
// triggers a refresh of the order book, the payload itself is never applied.
type Worker struct {
	workerID  int
	channel   *amqp.Channel
	queueName string
	refresher Refresher
}

func NewWorker(workerID int, conn *amqp.Connection, queueName string, refresher Refresher) (*Worker, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open channel for worker %d", workerID)
	}

	// one message at a time per worker
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return nil, errors.Wrapf(err, "failed to set QoS for worker %d", workerID)
	}
	if err := declareQueue(ch, queueName); err != nil {
		ch.Close()
		return nil, err
	}

	return &Worker{
		workerID:  workerID,
		channel:   ch,
		queueName: queueName,
		refresher: refresher,
	}, nil
}

// Start consumes until the channel closes. ctx is passed to every refresh.
func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer w.channel.Close()

	consumerTag := fmt.Sprintf("pos-worker-%d", w.workerID)
	msgs, err := w.channel.Consume(
		w.queueName, // queue
		consumerTag, // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		log.WithError(err).WithField("worker", w.workerID).Error("failed to register consumer")
		return
	}

	logger := log.WithFields(log.Fields{"worker": w.workerID, "queue": w.queueName})
	logger.Info("worker started and waiting for messages")
	for msg := range msgs {
		w.processMessage(ctx, msg)
	}
	logger.Info("worker stopped")
}

func (w *Worker) processMessage(ctx context.Context, msg amqp.Delivery) {
	logger := log.WithField("worker", w.workerID)

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.WithError(err).Warn("dropping malformed order update")
		metrics.RecordMessage("consumed", "malformed")
		msg.Nack(false, false)
		return
	}

	result := "ok"
	if err := w.refresher.Refresh(ctx); err != nil {
		// the next update or a manual refresh catches up
		logger.WithError(err).WithField("order_id", event.OrderID).Warn("order book refresh failed")
		result = "refresh_failed"
	}
	metrics.RecordMessage("consumed", result)

	if err := msg.Ack(false); err != nil {
		logger.WithError(err).Error("failed to acknowledge message")
		return
	}
	logger.WithFields(log.Fields{"event": event.Type, "order_id": event.OrderID}).Debug("processed order update")
}
