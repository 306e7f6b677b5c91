// Package amqp is the broker-backed worker boundary: request envelopes are
// consumed from one queue and response envelopes published to another, with
// the envelope id mirrored into the AMQP correlation id.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fincalc/internal/engine"
	"fincalc/internal/log"
)

// Handler processes one decoded request envelope and returns its response.
type Handler func(ctx context.Context, req engine.Request) engine.Response

// errDeliveryClosed is returned by ConsumeRequests when the broker closes the
// delivery channel mid-consume, which is how a dropped connection surfaces.
var errDeliveryClosed = errors.New("delivery channel closed")

type Client struct {
	url           string
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	exchangeName  string
	requestQueue  string
	responseQueue string
	logger        *log.Logger
}

// NewClient dials the broker and declares the exchange and both queues.
func NewClient(url, exchangeName, requestQueue, responseQueue string, logger *log.Logger) (*Client, error) {
	c := &Client{
		url:           url,
		exchangeName:  exchangeName,
		requestQueue:  requestQueue,
		responseQueue: responseQueue,
		logger:        logger.WithComponent(log.ComponentAMQP),
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
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
		return fmt.Errorf("setup exchange and queues: %w", err)
	}
	return nil
}

func (c *Client) setup() error {
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

	for _, queue := range []string{c.requestQueue, c.responseQueue} {
		if _, err := c.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		// Routing key matches the queue name on the direct exchange.
		if err := c.channel.QueueBind(queue, queue, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}
	return nil
}

// PublishRequest sends a request envelope to the request queue. Used by
// callers embedding fincalc as a client library and by tests.
func (c *Client) PublishRequest(ctx context.Context, req engine.Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.publish(ctx, c.requestQueue, correlationID(req.ID), body)
}

// PublishResponse sends a response envelope to the response queue.
func (c *Client) PublishResponse(ctx context.Context, resp engine.Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	return c.publish(ctx, c.responseQueue, correlationID(resp.ID), body)
}

// PublishReady emits the one-time readiness signal consumers await before
// sending their first request.
func (c *Client) PublishReady(ctx context.Context) error {
	return c.PublishResponse(ctx, engine.Response{Type: engine.TypeWorkerReady})
}

func (c *Client) publish(ctx context.Context, routingKey, correlation string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			CorrelationId: correlation,
			Timestamp:     time.Now(),
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// ConsumeRequests processes request envelopes until ctx is done. Undecodable
// bodies are rejected without requeue; every decoded request produces exactly
// one published response, and publish failures nack with requeue so the
// request is retried.
func (c *Client) ConsumeRequests(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.requestQueue, // queue
		"",             // consumer
		false,          // auto-ack (manual ack after the response is published)
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "Consuming calculation requests", log.FieldQueue, c.requestQueue)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Stopping request consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errDeliveryClosed
			}

			var req engine.Request
			if err := json.Unmarshal(delivery.Body, &req); err != nil {
				c.logger.ErrorContext(ctx, "Failed to decode request envelope", log.FieldError, err)
				delivery.Nack(false, false)
				continue
			}

			start := time.Now()
			resp := handler(ctx, req)

			if err := c.PublishResponse(ctx, resp); err != nil {
				c.logger.ErrorContext(ctx, "Failed to publish response",
					log.FieldError, err,
					log.FieldOperation, req.Type)
				delivery.Nack(false, true)
				continue
			}
			delivery.Ack(false)

			c.logger.InfoContext(ctx, "Request served",
				log.FieldOperation, req.Type,
				log.FieldDuration, time.Since(start).Milliseconds(),
				"failed", resp.Error != nil)
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

// correlationID renders an envelope id for the AMQP correlation-id header:
// JSON strings are unquoted, everything else is passed through verbatim.
func correlationID(id json.RawMessage) string {
	if len(id) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(id, &s); err == nil {
		return s
	}
	return string(id)
}

// exponentialBackoff returns the reconnect delay for the given attempt,
// doubling from one second and capped at thirty.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second << attempt
	if d > 30*time.Second || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// isConnectionError reports whether the error looks like a broken broker
// connection worth redialing.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errDeliveryClosed) || errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection closed",
		"channel/connection is not open",
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

// ConsumeWithReconnect wraps ConsumeRequests with redial-and-retry on
// connection failures; non-connection errors and context cancellation end
// the loop.
func (c *Client) ConsumeWithReconnect(ctx context.Context, handler Handler) error {
	attempt := 0
	for {
		err := c.ConsumeRequests(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			return err
		}

		delay := exponentialBackoff(attempt)
		attempt++
		c.logger.WarnContext(ctx, "Connection lost, reconnecting",
			log.FieldError, err,
			"attempt", attempt,
			"backoff", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if err := c.connect(); err != nil {
			c.logger.ErrorContext(ctx, "Reconnect failed", log.FieldError, err)
			continue
		}
		attempt = 0
	}
}
