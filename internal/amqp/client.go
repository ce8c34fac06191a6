package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "scorpiongym"
	QueueName    = "transaction-sync"
	RoutingKey   = "transaction.sync"
)

// Client wraps one AMQP connection and channel used for the Sheets export
// pipeline. Messages are persistent and the queue is durable so pending
// exports survive broker restarts.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewClient(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{conn: conn, channel: channel}
	if err := client.setup(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := c.channel.QueueDeclare(
		QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishTransactionSync enqueues an export request for one ledger row.
func (c *Client) PublishTransactionSync(ctx context.Context, transactionID, version int64) error {
	msg := NewTransactionSyncMessage(transactionID, version)
	body, err := msg.ToJSON()
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(publishCtx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("publish sync message: %w", err)
	}

	slog.InfoContext(ctx, "Sync message published",
		"transaction_id", transactionID,
		"version", version)
	return nil
}

// ConsumeTransactionSync delivers queued sync messages to handler until ctx
// is cancelled. Messages are acked only after the handler succeeds; failed
// deliveries are requeued once and then dropped to the log.
func (c *Client) ConsumeTransactionSync(ctx context.Context, handler func(context.Context, TransactionSyncMessage) error) error {
	deliveries, err := c.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}

	slog.InfoContext(ctx, "Consuming sync messages", "queue", QueueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			msg, err := FromJSON(d.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Dropping malformed sync message", "error", err)
				d.Nack(false, false)
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Sync handler failed",
					"transaction_id", msg.TransactionID,
					"redelivered", d.Redelivered,
					"error", err)
				d.Nack(false, !d.Redelivered)
				continue
			}

			d.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close amqp client: %v", errs)
	}
	return nil
}
