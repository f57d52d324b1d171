package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/runcontrol"
	"github.com/oncallsvc/orchestrator/pkg/retry"
)

var _ runcontrol.EventPublisher = (*Publisher)(nil)

// RoutingKeyRunCompleted is the routing key every run.completed message
// is published under on the configured exchange.
const RoutingKeyRunCompleted = "run.completed"

// Publisher publishes orchestration events to a topic exchange,
// reconnecting on demand when the underlying connection drops.
// Satisfies internal/runcontrol.EventPublisher.
type Publisher struct {
	url      string
	exchange string
	log      *slog.Logger
	retry    retry.Config

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// New builds a Publisher bound to an AMQP broker URL and topic
// exchange. The connection is opened lazily on the first publish, the
// way the teacher's Postgres pool is opened lazily by its first
// acquire rather than at construction time.
func New(url, exchange string, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = 3
	cfg.InitialDelay = 200 * time.Millisecond
	cfg.MaxDelay = 2 * time.Second
	return &Publisher{
		url:      url,
		exchange: exchange,
		log:      log.With("component", "events.publisher"),
		retry:    cfg,
	}
}

// PublishRunCompleted publishes a run.completed message for a finished
// run. Failures are retried a handful of times with backoff and then
// returned to the caller, which is expected to log and continue: a
// broker outage must never roll back an already-applied run.
func (p *Publisher) PublishRunCompleted(ctx context.Context, run domain.OrchestrationRun) error {
	body, err := json.Marshal(fromRun(run))
	if err != nil {
		return fmt.Errorf("marshal run.completed: %w", err)
	}

	return retry.Do(ctx, p.retry, func(ctx context.Context) error {
		ch, err := p.channel()
		if err != nil {
			return err
		}
		return ch.PublishWithContext(ctx, p.exchange, RoutingKeyRunCompleted, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	})
}

// channel returns the current channel, (re)dialing the broker and
// declaring the exchange if the connection has dropped or was never
// opened.
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return p.ch, nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}

	p.conn = conn
	p.ch = ch
	return ch, nil
}

// Close releases the channel and connection, if open. Safe to call on
// a Publisher that never successfully dialed.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.ch != nil {
		err = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
		p.conn = nil
	}
	return err
}
