package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "pedidos"
	publishTimeout  = 3 * time.Second
	dialAttempts    = 3
	dialRetryDelay  = time.Second
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	GetNextPublishSeqNo() uint64
	Close() error
}

// Publisher sends order events to a topic exchange, routed by event type, and waits for
// the broker's confirm of that delivery tag. Publishes are serialized so the tag read
// before publishing is the one the broker confirms.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	mu       sync.Mutex

	pendingMu sync.Mutex
	pending   map[uint64]chan bool
}

func newPublisher(ch channel, acks <-chan amqp.Confirmation, exchange string) *Publisher {
	p := &Publisher{ch: ch, exchange: exchange, pending: make(map[uint64]chan bool)}
	go p.dispatch(acks)
	return p
}

// dispatch hands each confirm to the publish waiting on its tag. Confirms for
// publishes that already gave up are dropped. Returns when the channel closes.
func (p *Publisher) dispatch(acks <-chan amqp.Confirmation) {
	for conf := range acks {
		p.pendingMu.Lock()
		waiter, ok := p.pending[conf.DeliveryTag]
		delete(p.pending, conf.DeliveryTag)
		p.pendingMu.Unlock()

		if !ok {
			utils.InfoLogger.WithField("delivery_tag", conf.DeliveryTag).Debug("dropping late publish confirm")
			continue
		}
		waiter <- conf.Ack
	}
}

func (p *Publisher) track(tag uint64) chan bool {
	waiter := make(chan bool, 1)
	p.pendingMu.Lock()
	p.pending[tag] = waiter
	p.pendingMu.Unlock()
	return waiter
}

func (p *Publisher) forget(tag uint64) {
	p.pendingMu.Lock()
	delete(p.pending, tag)
	p.pendingMu.Unlock()
}

func Dial(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	var conn *amqp.Connection
	var err error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		utils.ErrorLogger.Printf("AMQP dial failed (attempt %d/%d): %v", attempt, dialAttempts, err)
		time.Sleep(dialRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("dialing amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 16))

	p := newPublisher(ch, acks, exchange)
	p.conn = conn
	return p, nil
}

func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *Publisher) Publish(ctx context.Context, key string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	tag := p.ch.GetNextPublishSeqNo()
	waiter := p.track(tag)

	if err := p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now(),
		Body:         body,
	}); err != nil {
		p.forget(tag)
		return err
	}

	select {
	case ack := <-waiter:
		if ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		p.forget(tag)
		return ctx.Err()
	}
}

// Notify publishes ev under its event type. Failures are logged and never reach the caller.
func (p *Publisher) Notify(ctx context.Context, ev models.OrderEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("encoding order event")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, string(ev.Type), body); err != nil {
		utils.ErrorLogger.WithError(err).
			WithField("order_id", ev.OrderID).
			WithField("event", ev.Type).
			Error("publishing order event")
	}
}
