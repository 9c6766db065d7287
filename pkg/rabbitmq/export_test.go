package rabbitmq

import "go.uber.org/zap"

// NewClientWithChannel builds a Client over a fake channel.
func NewClientWithChannel(ch channel, logger *zap.Logger) (*Client, error) {
	return newClient(ch, logger)
}
