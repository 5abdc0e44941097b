package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Twitter  TwitterConfig   `yaml:"twitter"`
	Notion   NotionConfig    `yaml:"notion"`
	Sync     SyncConfig      `yaml:"sync"`
	Database *DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig  `yaml:"rabbitmq"`
	Webhook  WebhookConfig   `yaml:"webhook"`
	LogLevel string          `yaml:"log_level"`
}

// TwitterConfig holds OAuth 2.0 user-context credentials. The bookmarks
// endpoint only works with a user-context access token.
type TwitterConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
}

type NotionConfig struct {
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"database_id"`
}

type SyncConfig struct {
	Interval  time.Duration `yaml:"interval"`
	StateFile string        `yaml:"state_file"`
	LogFile   string        `yaml:"log_file"`
	PageSize  int           `yaml:"page_size"`
	// ItemDelay is the courtesy pause between destination writes.
	ItemDelay time.Duration `yaml:"item_delay"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type WebhookConfig struct {
	Port              int           `yaml:"port"`
	TwilioAuthToken   string        `yaml:"twilio_auth_token"`
	ValidateSignature *bool         `yaml:"validate_signature"`
	AllowedNumbers    []string      `yaml:"allowed_numbers"`
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

// SignatureValidationEnabled defaults to true when unset.
func (w WebhookConfig) SignatureValidationEnabled() bool {
	return w.ValidateSignature == nil || *w.ValidateSignature
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 10 * time.Minute
	}
	if c.Sync.StateFile == "" {
		c.Sync.StateFile = "~/.bookmark_sync/state.json"
	}
	if c.Sync.LogFile == "" {
		c.Sync.LogFile = "~/.bookmark_sync/sync.log"
	}
	c.Sync.StateFile = expandHome(c.Sync.StateFile)
	c.Sync.LogFile = expandHome(c.Sync.LogFile)
	if c.Sync.PageSize == 0 {
		c.Sync.PageSize = 100
	}
	if c.Sync.ItemDelay == 0 {
		c.Sync.ItemDelay = 500 * time.Millisecond
	}
	if c.RabbitMQ.URL != "" {
		if c.RabbitMQ.Exchange == "" {
			c.RabbitMQ.Exchange = "bookmark_sync"
		}
		if c.RabbitMQ.RoutingKey == "" {
			c.RabbitMQ.RoutingKey = "bookmarks"
		}
		if c.RabbitMQ.QueueName == "" {
			c.RabbitMQ.QueueName = "synced_bookmarks"
		}
	}
	if c.Webhook.Port == 0 {
		c.Webhook.Port = 5000
	}
	if c.Webhook.RateLimitRequests == 0 {
		c.Webhook.RateLimitRequests = 10
	}
	if c.Webhook.RateLimitWindow == 0 {
		c.Webhook.RateLimitWindow = time.Minute
	}
	if c.Webhook.RequestTimeout == 0 {
		c.Webhook.RequestTimeout = 15 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"twitter.access_token", c.Twitter.AccessToken},
		{"notion.token", c.Notion.Token},
		{"notion.database_id", c.Notion.DatabaseID},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required configuration: %s", r.key)
		}
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
