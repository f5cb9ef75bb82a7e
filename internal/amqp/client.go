// Package amqp publishes domain events to a RabbitMQ exchange so external
// consumers (notifiers, exporters) can react without the tracker knowing
// about them.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"spendtrack/internal/core"
)

// Routing keys per event type; the same exchange carries both.
const (
	RoutingKeyExpenseCreated = "expense.created"
	RoutingKeyBillReminder   = "bill.reminder"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Bind the queue to every event on this exchange.
	err = c.channel.QueueBind(c.queueName, "#", c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishExpenseCreated publishes an expense-created event.
func (c *Client) PublishExpenseCreated(ctx context.Context, e core.Expense) error {
	body, err := NewExpenseCreatedMessage(e).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal expense created message: %w", err)
	}
	if err := c.publish(ctx, RoutingKeyExpenseCreated, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published expense created event",
		"id", e.ID, "exchange", c.exchangeName)
	return nil
}

// PublishBillReminder publishes a bill-reminder event.
func (c *Client) PublishBillReminder(ctx context.Context, b core.Bill, status string) error {
	body, err := NewBillReminderMessage(b, status).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal bill reminder message: %w", err)
	}
	if err := c.publish(ctx, RoutingKeyBillReminder, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published bill reminder event",
		"bill_id", b.ID, "status", status, "exchange", c.exchangeName)
	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
