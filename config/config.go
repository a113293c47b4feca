package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8081"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:8080"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	// ServiceToken authenticates background order book refreshes, which run
	// outside any terminal session.
	ServiceToken string `envconfig:"BACKEND_SERVICE_TOKEN"`

	AdminPIN   string        `envconfig:"ADMIN_PIN" default:"1234"`
	CatalogTTL time.Duration `envconfig:"CATALOG_TTL" default:"1m"`

	// RabbitMQURL left empty disables messaging.
	RabbitMQURL          string `envconfig:"RABBITMQ_URL"`
	RabbitMQEventsQueue  string `envconfig:"RABBITMQ_EVENTS_QUEUE" default:"pos_order_events"`
	RabbitMQUpdatesQueue string `envconfig:"RABBITMQ_UPDATES_QUEUE" default:"pos_order_updates"`
	ChannelPoolSize      int    `envconfig:"CHANNEL_POOL_SIZE" default:"10"`
	NumWorkers           int    `envconfig:"NUM_WORKERS" default:"2"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.BackendURL == "":
		return errors.New("BACKEND_URL must be set")
	case c.BackendTimeout <= 0:
		return errors.New("BACKEND_TIMEOUT must be positive")
	case c.ChannelPoolSize <= 0:
		return errors.New("CHANNEL_POOL_SIZE must be positive")
	case c.NumWorkers < 0:
		return errors.New("NUM_WORKERS must not be negative")
	}
	return nil
}

// MessagingEnabled reports whether a RabbitMQ broker is configured.
func (c *Config) MessagingEnabled() bool {
	return c.RabbitMQURL != ""
}
