package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/St1cky1/task-manager/internal/entity"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const DefaultAuditQueue = "task_audit_logs"

type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	log     logrus.FieldLogger
	mu      sync.Mutex
}

func NewRabbitMQClient(url, queueName string, log logrus.FieldLogger) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := declareQueue(channel, queueName)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
		queue:   queue,
		log:     log,
	}, nil
}

func declareQueue(channel *amqp.Channel, name string) (amqp.Queue, error) {
	queue, err := channel.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return queue, nil
}

func (c *RabbitMQClient) QueueName() string {
	return c.queue.Name
}

func (c *RabbitMQClient) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.PublishWithContext(
		ctx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    message.EventID.String(),
			Timestamp:    message.Timestamp,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish audit message: %w", err)
	}

	c.log.WithFields(logrus.Fields{"action": message.Action, "task_id": message.EntityID}).Debug("audit message sent to RabbitMQ")
	return nil
}

// Consume opens a dedicated channel for a consumer. The returned close func releases it.
func (c *RabbitMQClient) Consume(consumerTag string, prefetch int) (<-chan amqp.Delivery, func() error, error) {
	channel, err := c.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open consumer channel: %w", err)
	}

	if err := channel.Qos(prefetch, 0, false); err != nil {
		channel.Close()
		return nil, nil, fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := channel.Consume(
		c.queue.Name, // queue
		consumerTag,  // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		channel.Close()
		return nil, nil, fmt.Errorf("failed to start consumer: %w", err)
	}

	return msgs, channel.Close, nil
}

func (c *RabbitMQClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
