package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
)

type Client struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	url          string
	exchangeName string
	queueName    string

	failureCount int64
	state        int32
	lastFailure  time.Time
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.connect(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.conn = conn
	c.channel = channel

	if err := c.setup(); err != nil {
		c.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	return nil
}

func (c *Client) setup() error {
	// Declare exchange
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Declare queue
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

	// Bind queue to exchange
	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// reconnect tears down the broken connection and dials again with
// exponential backoff.
func (c *Client) reconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}

	for attempt := 0; ; attempt++ {
		if err := c.connect(); err == nil {
			return nil
		} else if attempt >= maxFailures {
			return fmt.Errorf("reconnect: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}
	}
}

func exponentialBackoff(attempt int) time.Duration {
	backoff := time.Second << uint(attempt)
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection closed",
		"EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	if time.Since(c.lastFailure) > openTimeout {
		atomic.StoreInt32(&c.state, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.lastFailure = time.Now()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

// PublishLedgerEvent publishes a ledger write event. The circuit opens
// after repeated broker failures so a dead broker cannot stall the
// write path.
func (c *Client) PublishLedgerEvent(ctx context.Context, msg *LedgerEventMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published ledger event",
		"event_id", msg.EventID,
		"entity_type", msg.EntityType,
		"operation", msg.Operation,
		"entity_id", msg.EntityID,
		"household_id", msg.HouseholdID)

	return nil
}

// PublishBillReminder publishes an upcoming-bill reminder.
func (c *Client) PublishBillReminder(ctx context.Context, msg *BillReminderMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published bill reminder",
		"event_id", msg.EventID,
		"bill_id", msg.BillID,
		"household_id", msg.HouseholdID,
		"days_until_due", msg.DaysUntilDue)

	return nil
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return errors.New("circuit breaker is open")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent, // make message persistent
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			if rerr := c.reconnect(ctx); rerr == nil {
				c.recordSuccess()
			}
		}
		return fmt.Errorf("publish message: %w", err)
	}

	c.recordSuccess()
	return nil
}

// ConsumeLedgerEvents consumes ledger events until the context is done.
func (c *Client) ConsumeLedgerEvents(ctx context.Context, handler func(*LedgerEventMessage) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ledger events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := LedgerEventMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := handler(msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err,
					"event_id", msg.EventID,
					"entity_type", msg.EntityType)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false) // acknowledge successful processing
		}
	}
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
