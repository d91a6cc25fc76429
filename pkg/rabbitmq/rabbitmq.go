package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"sosmed/internal/logger"

	amqp "github.com/streadway/amqp"
)

// ErrDiscard marks a message that can never be processed. Handlers wrap it to
// drop the message instead of requeueing it.
var ErrDiscard = errors.New("discard message")

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // guards channel publishes
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
	// Queues are declared durable when the client connects.
	Queues []string
}

// NewClient connects to RabbitMQ, opens a channel and declares cfg.Queues.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c := &Client{
		conn:    conn,
		channel: ch,
	}
	for _, queue := range cfg.Queues {
		if err := c.declare(queue); err != nil {
			c.Close()
			return nil, err
		}
	}

	logger.Info.Printf("RabbitMQ client connected, queues declared: %v", cfg.Queues)
	return c, nil
}

func (c *Client) declare(queue string) error {
	_, err := c.channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends a JSON message to queue through the default exchange.
// Persistent messages survive a broker restart; transient ones stay in
// broker memory.
func (c *Client) Publish(queue string, body []byte, persistent bool) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	mode := amqp.Transient
	if persistent {
		mode = amqp.Persistent
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		"",    // default exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: mode,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", queue, err)
	}
	return nil
}

// Consume starts a goroutine handing every message on queue to handler.
// Messages are acked on success, dropped when the error wraps ErrDiscard and
// requeued otherwise.
func (c *Client) Consume(queue string, handler func(body []byte) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}
	if err := c.declare(queue); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queue, err)
	}

	logger.Info.Printf("waiting for messages on %s", queue)
	go func() {
		for msg := range msgs {
			settle(msg, handler(msg.Body))
		}
	}()
	return nil
}

// Acknowledger is the part of amqp.Delivery that settles a message.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func settle(msg amqp.Delivery, err error) {
	if settleErr := Settle(&msg, err); settleErr != nil {
		logger.Error.Printf("failed to settle message %d: %v", msg.DeliveryTag, settleErr)
	}
}

// Settle acks or nacks a message according to the handler result.
func Settle(msg Acknowledger, err error) error {
	switch {
	case err == nil:
		return msg.Ack(false)
	case errors.Is(err, ErrDiscard):
		logger.Warn.Printf("dropping message: %v", err)
		return msg.Nack(false, false)
	default:
		logger.Error.Printf("error processing message, requeueing: %v", err)
		return msg.Nack(false, true)
	}
}
