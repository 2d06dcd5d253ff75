package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const consumerTag = "audit_worker"

// DeliverySource hands out a stream of deliveries, e.g. *client.RabbitMQClient.
type DeliverySource interface {
	Consume(consumerTag string, prefetch int) (<-chan amqp.Delivery, func() error, error)
}

type AuditWorker struct {
	source    DeliverySource
	auditRepo repository.ITaskAuditRepository
	log       logrus.FieldLogger
}

func NewAuditWorker(source DeliverySource, auditRepo repository.ITaskAuditRepository, log logrus.FieldLogger) *AuditWorker {
	return &AuditWorker{
		source:    source,
		auditRepo: auditRepo,
		log:       log.WithField("component", "audit_worker"),
	}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (w *AuditWorker) Run(ctx context.Context) error {
	msgs, closeChannel, err := w.source.Consume(consumerTag, 10)
	if err != nil {
		return err
	}
	defer closeChannel()

	w.log.Info("audit worker started")
	w.Process(ctx, msgs)
	w.log.Info("audit worker stopped")
	return nil
}

// Process handles deliveries one by one.
func (w *AuditWorker) Process(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				w.log.Warn("delivery channel closed")
				return
			}
			w.processMessage(ctx, msg)
		}
	}
}

// processMessage acks stored messages and drops malformed ones. A store failure is requeued once.
func (w *AuditWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var auditMsg entity.AuditMessage
	if err := json.Unmarshal(msg.Body, &auditMsg); err != nil {
		w.log.WithError(err).Error("failed to parse audit message")
		_ = msg.Nack(false, false)
		return
	}

	entry := w.log.WithFields(logrus.Fields{"action": auditMsg.Action, "task_id": auditMsg.EntityID})

	taskAudit, err := convertToTaskAudit(&auditMsg)
	if err != nil {
		entry.WithError(err).Error("failed to convert audit message")
		_ = msg.Nack(false, false)
		return
	}

	if err := w.auditRepo.Create(ctx, taskAudit); err != nil {
		requeue := !msg.Redelivered
		entry.WithError(err).WithField("requeue", requeue).Error("failed to store audit")
		_ = msg.Nack(false, requeue)
		return
	}

	_ = msg.Ack(false)
	entry.Debug("audit stored")
}

func convertToTaskAudit(msg *entity.AuditMessage) (*entity.TaskAudit, error) {
	oldValues, err := marshalValues(msg.OldValues)
	if err != nil {
		return nil, fmt.Errorf("old values: %w", err)
	}
	newValues, err := marshalValues(msg.NewValues)
	if err != nil {
		return nil, fmt.Errorf("new values: %w", err)
	}
	changes, err := marshalValues(msg.Changes)
	if err != nil {
		return nil, fmt.Errorf("changes: %w", err)
	}

	return &entity.TaskAudit{
		EventID:    msg.EventID,
		Action:     msg.Action,
		EntityType: "task",
		EntityID:   msg.EntityID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Changes:    changes,
		ChangedAt:  msg.Timestamp,
	}, nil
}

func marshalValues(values map[string]any) (*string, error) {
	if values == nil {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}
