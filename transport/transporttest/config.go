// Package transporttest holds helpers shared by transport tests.
package transporttest

import "time"

// Config is a static transport.Config.
type Config struct {
	Transport          string
	ServerURL          string
	HandshakeTimeout   time.Duration
	WriteTimeout       time.Duration
	ServerTopic        string
	ClientTopic        string
	NATSURL            string
	RabbitMQURL        string
	KafkaBrokers       []string
	KafkaConsumerGroup string
}

func (c *Config) GetTransport() string               { return c.Transport }
func (c *Config) GetServerURL() string               { return c.ServerURL }
func (c *Config) GetHandshakeTimeout() time.Duration { return c.HandshakeTimeout }
func (c *Config) GetWriteTimeout() time.Duration     { return c.WriteTimeout }
func (c *Config) GetServerTopic() string             { return c.ServerTopic }
func (c *Config) GetClientTopic() string             { return c.ClientTopic }
func (c *Config) GetNATSURL() string                 { return c.NATSURL }
func (c *Config) GetRabbitMQURL() string             { return c.RabbitMQURL }
func (c *Config) GetKafkaBrokers() []string          { return c.KafkaBrokers }
func (c *Config) GetKafkaConsumerGroup() string      { return c.KafkaConsumerGroup }
