package mq

import (
	"Go_Assets/config"
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeJobs  = "assets.jobs.exchange"
	ExchangeRetry = "assets.jobs.retry.exchange"
	ExchangeDLQ   = "assets.jobs.dlq.exchange"

	QueueJobs  = "assets.jobs.queue"
	QueueRetry = "assets.jobs.retry.queue"
	QueueDLQ   = "assets.jobs.dlq.queue"

	RoutingJob   = "assets.job"
	RoutingRetry = "assets.job.retry"
	RoutingDLQ   = "assets.job.dlq"
)

// binding ties one durable queue to its exchange.
type binding struct {
	exchange string
	queue    string
	key      string
	args     amqp.Table
}

// topology is the job queue, a TTL retry queue that dead-letters back to it, and a DLQ.
var topology = []binding{
	{exchange: ExchangeJobs, queue: QueueJobs, key: RoutingJob},
	{
		exchange: ExchangeRetry,
		queue:    QueueRetry,
		key:      RoutingRetry,
		args: amqp.Table{
			"x-dead-letter-exchange":    ExchangeJobs,
			"x-dead-letter-routing-key": RoutingJob,
		},
	},
	{exchange: ExchangeDLQ, queue: QueueDLQ, key: RoutingDLQ},
}

type Client struct {
	Conn      *amqp.Connection
	Channel   *amqp.Channel
	publishMu sync.Mutex
}

var publisherMu sync.Mutex
var publisher *Client

// Dial opens a connection and a channel to the configured broker.
func Dial() (*Client, error) {
	conn, err := amqp.Dial(config.AppConfig.RabbitMQURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Client{Conn: conn, Channel: ch}, nil
}

// GetPublisher returns the shared publishing client, reconnecting when it was closed.
func GetPublisher() (*Client, error) {
	publisherMu.Lock()
	defer publisherMu.Unlock()
	if publisher != nil {
		if !publisher.Conn.IsClosed() && !publisher.Channel.IsClosed() {
			return publisher, nil
		}
		publisher.Close()
		publisher = nil
	}
	client, err := Dial()
	if err != nil {
		return nil, err
	}
	if err := client.DeclareTopology(); err != nil {
		client.Close()
		return nil, err
	}
	publisher = client
	return publisher, nil
}

// ClosePublisher drops the shared publishing client.
func ClosePublisher() {
	publisherMu.Lock()
	defer publisherMu.Unlock()
	publisher.Close()
	publisher = nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.Conn != nil {
		_ = c.Conn.Close()
	}
}

// DeclareTopology declares exchanges, queues and bindings. It is idempotent.
func (c *Client) DeclareTopology() error {
	for _, b := range topology {
		if err := c.Channel.ExchangeDeclare(b.exchange, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", b.exchange, err)
		}
		if _, err := c.Channel.QueueDeclare(b.queue, true, false, false, false, b.args); err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}
		if err := c.Channel.QueueBind(b.queue, b.key, b.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", b.queue, err)
		}
	}
	return nil
}

func (c *Client) PublishJob(ctx context.Context, body []byte) error {
	return c.publish(ctx, ExchangeJobs, RoutingJob, body, "")
}

// PublishRetry parks a message in the retry queue until delay expires.
func (c *Client) PublishRetry(ctx context.Context, body []byte, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	return c.publish(ctx, ExchangeRetry, RoutingRetry, body, RetryExpiration(delay))
}

func (c *Client) PublishDLQ(ctx context.Context, body []byte) error {
	return c.publish(ctx, ExchangeDLQ, RoutingDLQ, body, "")
}

// RetryExpiration formats a delay as a per-message TTL in milliseconds.
func RetryExpiration(delay time.Duration) string {
	if delay < 0 {
		delay = 0
	}
	return fmt.Sprintf("%d", delay.Milliseconds())
}

func (c *Client) publish(ctx context.Context, exchange, key string, body []byte, expiration string) error {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Expiration:   expiration,
	}
	return c.Channel.PublishWithContext(ctx, exchange, key, false, false, msg)
}
