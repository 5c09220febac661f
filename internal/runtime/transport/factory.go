// Package transport builds the socket a connection runs over.
package transport

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/drblury/kioskwire/internal/runtime/config"
	sockets "github.com/drblury/kioskwire/transport"

	// Import all transport packages to register them.
	_ "github.com/drblury/kioskwire/transport/transports"
)

// Factory abstracts how a connection obtains its socket.
type Factory interface {
	Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (sockets.Socket, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (sockets.Socket, error)

func (f FactoryFunc) Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (sockets.Socket, error) {
	return f(ctx, conf, logger)
}

// DefaultFactory returns the factory backed by the transport registry.
func DefaultFactory() Factory {
	return defaultFactory{}
}

type defaultFactory struct{}

func (defaultFactory) Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (sockets.Socket, error) {
	if conf == nil {
		return nil, fmt.Errorf("config is required")
	}
	return sockets.Build(ctx, conf, logger)
}

// Static returns a factory that always hands out s. Useful when the caller
// built the socket itself, for example one side of a channel pair.
func Static(s sockets.Socket) Factory {
	return FactoryFunc(func(context.Context, *config.Config, watermill.LoggerAdapter) (sockets.Socket, error) {
		if s == nil {
			return nil, fmt.Errorf("socket is required")
		}
		return s, nil
	})
}
