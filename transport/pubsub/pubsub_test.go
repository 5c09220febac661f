package pubsub

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/kioskwire/transport"
)

func newSockets(t *testing.T) (*Socket, *Socket) {
	t.Helper()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	a := &Socket{Publisher: bus, Subscriber: bus, PublishTopic: "to-b", SubscribeTopic: "to-a"}
	b := &Socket{Publisher: bus, Subscriber: bus, PublishTopic: "to-a", SubscribeTopic: "to-b", Shared: true}
	ctx := context.Background()
	require.NoError(t, a.Open(ctx))
	require.NoError(t, b.Open(ctx))
	t.Cleanup(func() {
		_ = b.Close()
		_ = a.Close()
	})
	return a, b
}

func TestSendReceive(t *testing.T) {
	a, b := newSockets(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, a.Send(ctx, []byte(`first`)))
	require.NoError(t, a.Send(ctx, []byte(`second`)))

	got, err := b.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	got, err = b.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	require.NoError(t, b.Send(ctx, []byte(`reply`)))
	got, err = a.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "reply", string(got))
}

func TestReceiveHonoursContext(t *testing.T) {
	a, _ := newSockets(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReceiveBeforeOpen(t *testing.T) {
	s := &Socket{}
	_, err := s.Receive(context.Background())
	assert.ErrorIs(t, err, transport.ErrClosed)
}

func TestCloseEndsReceive(t *testing.T) {
	a, _ := newSockets(t)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := a.Receive(ctx)
	assert.ErrorIs(t, err, transport.ErrClosed)

	assert.ErrorIs(t, a.Send(ctx, []byte(`x`)), transport.ErrClosed)
	assert.ErrorIs(t, a.Open(ctx), transport.ErrClosed)
}

func TestSubscribeError(t *testing.T) {
	s := &Socket{Publisher: &stubPublisher{}, Subscriber: &stubSubscriber{err: errors.New("no broker")}}
	assert.EqualError(t, s.Open(context.Background()), "no broker")
}

func TestCloseClosesBothSides(t *testing.T) {
	pub := &stubPublisher{}
	sub := &stubSubscriber{}
	s := &Socket{Publisher: pub, Subscriber: sub}
	require.NoError(t, s.Close())
	assert.True(t, pub.closed)
	assert.True(t, sub.closed)
}

func TestCapabilities(t *testing.T) {
	s := &Socket{Caps: transport.NATSCapabilities}
	assert.Equal(t, "nats", s.Capabilities().Name)
}

type stubPublisher struct{ closed bool }

func (p *stubPublisher) Publish(string, ...*message.Message) error { return nil }
func (p *stubPublisher) Close() error                              { p.closed = true; return nil }

type stubSubscriber struct {
	err    error
	closed bool
}

func (s *stubSubscriber) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return make(chan *message.Message), nil
}

func (s *stubSubscriber) Close() error { s.closed = true; return nil }

type stubConn struct{ closed bool }

func (c *stubConn) Close() error { c.closed = true; return nil }

func TestCloseClosesConn(t *testing.T) {
	conn := &stubConn{}
	s := &Socket{Publisher: &stubPublisher{}, Subscriber: &stubSubscriber{}, Conn: conn}
	require.NoError(t, s.Close())
	assert.True(t, conn.closed)

	shared := &stubConn{}
	s = &Socket{Publisher: &stubPublisher{}, Subscriber: &stubSubscriber{}, Conn: shared, Shared: true}
	require.NoError(t, s.Close())
	assert.False(t, shared.closed)
}
