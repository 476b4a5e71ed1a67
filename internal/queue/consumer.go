// Package queue contains the background consumer that listens to the movie
// events queue and appends one audit line per event.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer reads MovieEvents from a durable queue and writes them to an
// audit writer (a rotating file in production).
type Consumer struct {
    url   string
    queue string
    log   *slog.Logger
    mu    sync.Mutex
    out   io.Writer
}

func NewConsumer(url, queue string, out io.Writer, log *slog.Logger) *Consumer {
    return &Consumer{url: url, queue: queue, out: out, log: log}
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes until
// ctx is cancelled.  Connection failures are retried with exponential
// backoff capped at 30s; offending messages are rejected without requeue so
// the consumer never spins on them.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.Warn("movie-consumer: failed to dial broker", "error", err, "retry_in", backoff.String())
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.Warn("movie-consumer: consume loop ended, reconnecting", "error", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.Warn("movie-consumer: set QoS failed", "error", err)
    }

    if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.HandleMessage(d.Body); err != nil {
                c.log.Error("movie-consumer: handle message failed", "error", err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleMessage decodes one event and appends its audit line.
func (c *Consumer) HandleMessage(body []byte) error {
    var ev MovieEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }

    c.mu.Lock()
    defer c.mu.Unlock()
    if _, err := io.WriteString(c.out, FormatAuditLine(ev)); err != nil {
        return fmt.Errorf("write audit line: %w", err)
    }
    return nil
}

// FormatAuditLine renders an event as a single human-friendly log line.
func FormatAuditLine(ev MovieEvent) string {
    switch ev.Type {
    case MovieCreated:
        return fmt.Sprintf("[%s] Movie created | movie_id=%d | title=%q | year=%q | director=%q | rating=%d\n",
            ev.OccurredAt, ev.MovieID, ev.Title, ev.Year, ev.Director, ev.Rating)
    case MovieDeleted:
        return fmt.Sprintf("[%s] Movie deleted | movie_id=%d\n", ev.OccurredAt, ev.MovieID)
    default:
        return fmt.Sprintf("[%s] %s | movie_id=%d\n", ev.OccurredAt, ev.Type, ev.MovieID)
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
