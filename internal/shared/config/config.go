package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Stripe StripeConfig `mapstructure:"stripe"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StripeConfig holds Stripe API configuration. All fields except Timeout are
// required: the process refuses to start without them.
type StripeConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	PublishableKey string        `mapstructure:"publishable_key"`
	WebhookSecret  string        `mapstructure:"webhook_secret"`
	SuccessURL     string        `mapstructure:"success_url"`
	CancelURL      string        `mapstructure:"cancel_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Validate checks that all required Stripe settings are present.
func (c *StripeConfig) Validate() error {
	required := map[string]string{
		"stripe.secret_key":      c.SecretKey,
		"stripe.publishable_key": c.PublishableKey,
		"stripe.webhook_secret":  c.WebhookSecret,
		"stripe.success_url":     c.SuccessURL,
		"stripe.cancel_url":      c.CancelURL,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("missing required config value: %s", key)
		}
	}
	return nil
}

// KafkaConfig holds message bus configuration. Brokers may be empty, in which
// case domain events are dispatched on the in-process bus instead.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Enabled reports whether a Kafka broker is configured.
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// Validate checks Kafka settings when a broker is configured.
func (c *KafkaConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Topic == "" {
		return fmt.Errorf("missing required config value: kafka.topic")
	}
	return nil
}

// RedisConfig holds Redis configuration for webhook event deduplication.
// An empty address disables deduplication.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether Redis is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Address != ""
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks the full configuration. Required values must be present at
// startup; optional subsystems are validated only when configured.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("missing required config value: server.address")
	}
	if err := c.Stripe.Validate(); err != nil {
		return err
	}
	if err := c.Kafka.Validate(); err != nil {
		return err
	}
	return nil
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/payments")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	v.SetEnvPrefix("PAYMENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	v.SetDefault("stripe.timeout", 20*time.Second)

	// Viper only resolves environment variables for keys it already knows
	// about, so every env-settable key needs a registered default.
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.publishable_key", "")
	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("stripe.success_url", "")
	v.SetDefault("stripe.cancel_url", "")

	v.SetDefault("kafka.brokers", []string{})

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.topic", "payments")
	v.SetDefault("kafka.write_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
