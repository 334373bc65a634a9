package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pedidoshn/pedidos-app/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChannel numbers publishes like a confirm-mode channel. With hold set the
// confirm is not sent, so the test can deliver it later.
type fakeChannel struct {
	acks      chan amqp.Confirmation
	ack       bool
	hold      bool
	failWith  error
	seq       uint64
	published []amqp.Publishing
	keys      []string
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.seq++
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	if !f.hold {
		f.acks <- amqp.Confirmation{DeliveryTag: f.seq, Ack: f.ack}
	}
	return nil
}

func (f *fakeChannel) GetNextPublishSeqNo() uint64 { return f.seq + 1 }

func (f *fakeChannel) Close() error { return nil }

func newTestPublisher(t *testing.T, ack bool) (*Publisher, *fakeChannel) {
	ch := &fakeChannel{acks: make(chan amqp.Confirmation, 8), ack: ack}
	t.Cleanup(func() { close(ch.acks) })
	return newPublisher(ch, ch.acks, DefaultExchange), ch
}

func TestNotifyRoutesByEventType(t *testing.T) {
	p, ch := newTestPublisher(t, true)

	p.Notify(context.Background(), models.OrderEvent{Type: models.EventOrderConfirmed, OrderID: 3})

	require.Len(t, ch.published, 1)
	assert.Equal(t, "orden.confirmada", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var ev models.OrderEvent
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &ev))
	assert.EqualValues(t, 3, ev.OrderID)
}

func TestPublishReportsNack(t *testing.T) {
	p, _ := newTestPublisher(t, false)
	err := p.Publish(context.Background(), "orden.creada", []byte(`{}`))
	assert.Error(t, err)
}

func TestNotifySwallowsPublishErrors(t *testing.T) {
	p, ch := newTestPublisher(t, true)
	ch.failWith = errors.New("channel closed")

	assert.NotPanics(t, func() {
		p.Notify(context.Background(), models.OrderEvent{Type: models.EventOrderDeleted})
	})
}

func TestLateConfirmDoesNotLeakIntoNextPublish(t *testing.T) {
	p, ch := newTestPublisher(t, true)

	ch.hold = true
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Publish(ctx, "orden.creada", []byte(`{}`))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// the broker answers the first message only now, with a NACK
	ch.acks <- amqp.Confirmation{DeliveryTag: 1, Ack: false}

	ch.hold = false
	require.NoError(t, p.Publish(context.Background(), "orden.confirmada", []byte(`{}`)))
	require.NoError(t, p.Publish(context.Background(), "orden.eliminada", []byte(`{}`)))
	assert.Len(t, ch.published, 3)
}

func TestFailedPublishReleasesItsTag(t *testing.T) {
	p, ch := newTestPublisher(t, true)
	ch.failWith = errors.New("channel closed")
	require.Error(t, p.Publish(context.Background(), "orden.creada", []byte(`{}`)))

	ch.failWith = nil
	require.NoError(t, p.Publish(context.Background(), "orden.creada", []byte(`{}`)))

	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	assert.Empty(t, p.pending)
}
