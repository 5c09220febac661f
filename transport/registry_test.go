package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConfig struct {
	transport string
}

func (m *mockConfig) GetTransport() string               { return m.transport }
func (m *mockConfig) GetServerURL() string               { return "" }
func (m *mockConfig) GetHandshakeTimeout() time.Duration { return 0 }
func (m *mockConfig) GetWriteTimeout() time.Duration     { return 0 }
func (m *mockConfig) GetServerTopic() string             { return "" }
func (m *mockConfig) GetClientTopic() string             { return "" }
func (m *mockConfig) GetNATSURL() string                 { return "" }
func (m *mockConfig) GetRabbitMQURL() string             { return "" }
func (m *mockConfig) GetKafkaBrokers() []string          { return nil }
func (m *mockConfig) GetKafkaConsumerGroup() string      { return "" }

type mockSocket struct{}

func (mockSocket) Open(context.Context) error              { return nil }
func (mockSocket) Receive(context.Context) ([]byte, error) { return nil, ErrClosed }
func (mockSocket) Send(context.Context, []byte) error      { return nil }
func (mockSocket) Close() error                            { return nil }
func (mockSocket) Capabilities() Capabilities              { return Capabilities{Name: "mock"} }

func mockBuilder(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Socket, error) {
	return mockSocket{}, nil
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.NotNil(t, reg.entries)
	assert.Empty(t, reg.Names())
}

func TestRegistry_RegisterWithCapabilities(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterWithCapabilities("test-transport", mockBuilder, Capabilities{
		Name:             "test-transport",
		SupportsOrdering: true,
		Brokered:         true,
	})

	assert.True(t, reg.Has("test-transport"))
	caps := reg.GetCapabilities("test-transport")
	assert.Equal(t, "test-transport", caps.Name)
	assert.True(t, caps.PreservesArrivalOrder())
	assert.True(t, caps.Brokered)
}

func TestRegistry_GetCapabilities_Unknown(t *testing.T) {
	caps := NewRegistry().GetCapabilities("unknown")
	assert.Equal(t, "unknown", caps.Name)
	assert.False(t, caps.SupportsOrdering)
}

func TestRegistry_Build(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test-transport", mockBuilder)

	socket, err := reg.Build(context.Background(), &mockConfig{transport: "test-transport"}, nil)
	require.NoError(t, err)

	provider, ok := socket.(CapabilitiesProvider)
	require.True(t, ok)
	assert.Equal(t, "mock", provider.Capabilities().Name)
}

func TestRegistry_Build_Errors(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	_, err := reg.Build(ctx, nil, nil)
	assert.ErrorContains(t, err, "config is required")

	_, err = reg.Build(ctx, &mockConfig{transport: "unknown-transport"}, nil)
	assert.ErrorContains(t, err, "unknown transport")

	expected := errors.New("builder error")
	reg.Register("failing", func(context.Context, Config, watermill.LoggerAdapter) (Socket, error) {
		return nil, expected
	})
	_, err = reg.Build(ctx, &mockConfig{transport: "failing"}, nil)
	assert.ErrorIs(t, err, expected)
	assert.ErrorContains(t, err, "build failing socket")

	reg.Register("empty", func(context.Context, Config, watermill.LoggerAdapter) (Socket, error) {
		return nil, nil
	})
	_, err = reg.Build(ctx, &mockConfig{transport: "empty"}, nil)
	assert.ErrorContains(t, err, "returned no socket")
}

func TestRegistry_RegisterPanicsOnMistakes(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() { reg.Register("", mockBuilder) })
	assert.Panics(t, func() { reg.Register("nil-builder", nil) })
	assert.False(t, reg.Has("nil-builder"))
}

func TestRegistry_RegisterFillsCapabilityName(t *testing.T) {
	reg := NewRegistry()
	reg.Register("plain", mockBuilder)
	reg.RegisterWithCapabilities("ordered", mockBuilder, Capabilities{SupportsOrdering: true})

	assert.Equal(t, Capabilities{Name: "plain"}, reg.GetCapabilities("plain"))
	assert.Equal(t, "ordered", reg.GetCapabilities("ordered").Name)
	assert.True(t, reg.GetCapabilities("ordered").PreservesArrivalOrder())
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register("websocket", mockBuilder)
	reg.Register("channel", mockBuilder)
	reg.Register("nats", mockBuilder)

	assert.Equal(t, []string{"channel", "nats", "websocket"}, reg.Names())
	assert.False(t, reg.Has("kafka"))
}

func TestDefaultRegistryHelpers(t *testing.T) {
	original := DefaultRegistry
	defer func() { DefaultRegistry = original }()

	DefaultRegistry = NewRegistry()
	RegisterWithCapabilities("websocket", mockBuilder, WebsocketCapabilities)

	socket, err := Build(context.Background(), &mockConfig{transport: "websocket"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, socket)
	assert.Equal(t, WebsocketCapabilities, GetCapabilities("websocket"))
}
