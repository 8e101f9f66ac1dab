package consup

import (
	"fmt"
	"time"

	"github.com/yonashaile/consup/types"
)

// TopicSubscription describes one topic the controller subscribes to.
type TopicSubscription struct {
	// Topic is the subject to subscribe to. Wildcards are allowed.
	Topic string `yaml:"topic" json:"topic"`

	// QueueGroup is the optional queue group name. When set, the
	// subscription is a queue subscription and the server distributes
	// each message to one member of the group. When empty, a plain
	// subscription is created and every subscriber receives every message.
	QueueGroup string `yaml:"queueGroup" json:"queueGroup,omitempty"`
}

// Config contains configuration options for creating a consumer controller.
type Config struct {
	// ConnectionName is the name of the connection to resolve through the
	// registry. The controller never dials on its own; it only borrows the
	// named connection.
	ConnectionName string `yaml:"connectionName" json:"connectionName"`

	// Subscriptions lists the topics to subscribe to once the connection is
	// available. Subscriptions are established in the order given here.
	Subscriptions []TopicSubscription `yaml:"subscriptions" json:"subscriptions"`

	// Server handles messages in request/reply style. A non-nil reply
	// returned by the server is published to the message's reply subject.
	// Exactly one of Server or Handler must be set.
	Server Server `yaml:"-" json:"-"`

	// Handler processes messages with no reply semantics.
	// Exactly one of Server or Handler must be set.
	Handler HandlerFunc `yaml:"-" json:"-"`

	// ReconnectWait is the delay between registry lookups while the named
	// connection is unavailable, and before the first lookup after a
	// connection loss (default: 2s).
	ReconnectWait time.Duration `yaml:"reconnectWait" json:"reconnectWait"`

	// ShutdownSettle is how long an orderly shutdown keeps dispatching
	// already-queued messages after the subscriptions are torn down
	// (default: 500ms).
	ShutdownSettle time.Duration `yaml:"shutdownSettle" json:"shutdownSettle"`

	// DrainPollInterval is how often the shutdown drain re-checks the
	// number of in-flight units of work (default: 1s).
	DrainPollInterval time.Duration `yaml:"drainPollInterval" json:"drainPollInterval"`

	// MailboxSize is the capacity of the inbound message buffer shared by
	// all subscriptions. When the mailbox is full the connection drops new
	// messages for this consumer (default: 1024).
	MailboxSize int `yaml:"mailboxSize" json:"mailboxSize"`
}

// DefaultConfig returns a Config with sensible production defaults.
// The caller must still set ConnectionName, Subscriptions, and exactly one
// of Server or Handler.
func DefaultConfig() *Config {
	return &Config{
		ReconnectWait:     2 * time.Second,
		ShutdownSettle:    500 * time.Millisecond,
		DrainPollInterval: time.Second,
		MailboxSize:       1024,
	}
}

// SetDefaults fills in default values for any zero-valued fields in the
// config. Fields that already have values are left unchanged.
func SetDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	defaults := DefaultConfig()

	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = defaults.ReconnectWait
	}

	if cfg.ShutdownSettle == 0 {
		cfg.ShutdownSettle = defaults.ShutdownSettle
	}

	if cfg.DrainPollInterval == 0 {
		cfg.DrainPollInterval = defaults.DrainPollInterval
	}

	if cfg.MailboxSize == 0 {
		cfg.MailboxSize = defaults.MailboxSize
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	// Rule 1: a connection name is required for the registry lookup.
	if c.ConnectionName == "" {
		return fmt.Errorf("connection name is required")
	}

	// Rule 2: at least one subscription, and every topic must be non-empty.
	if len(c.Subscriptions) == 0 {
		return fmt.Errorf("at least one subscription is required")
	}

	for i, sub := range c.Subscriptions {
		if sub.Topic == "" {
			return fmt.Errorf("subscription %d: topic is required", i)
		}
	}

	// Rule 3: timing fields must be positive.
	if c.ReconnectWait <= 0 {
		return fmt.Errorf("reconnect wait must be positive, got %v", c.ReconnectWait)
	}

	if c.ShutdownSettle < 0 {
		return fmt.Errorf("shutdown settle must not be negative, got %v", c.ShutdownSettle)
	}

	if c.DrainPollInterval <= 0 {
		return fmt.Errorf("drain poll interval must be positive, got %v", c.DrainPollInterval)
	}

	// Rule 4: the mailbox needs room for at least one message.
	if c.MailboxSize <= 0 {
		return fmt.Errorf("mailbox size must be positive, got %d", c.MailboxSize)
	}

	return nil
}

// ValidateWithWarnings logs warnings for configurations that are valid but
// likely to cause trouble in production.
func (c *Config) ValidateWithWarnings(logger types.Logger) {
	if logger == nil {
		return
	}

	if c.ReconnectWait < 100*time.Millisecond {
		logger.Warn("reconnect wait is very short, registry lookups may spin",
			"reconnect_wait", c.ReconnectWait,
			"recommended_min", "100ms")
	}

	if c.MailboxSize < 64 {
		logger.Warn("mailbox is small, bursts may be dropped as slow consumer",
			"mailbox_size", c.MailboxSize,
			"recommended_min", 64)
	}
}

// TestConfig returns a Config with fast timing suitable for tests.
// Not recommended for production use.
func TestConfig() *Config {
	return &Config{
		ReconnectWait:     50 * time.Millisecond, // 40x faster than default
		ShutdownSettle:    20 * time.Millisecond, // 25x faster than default
		DrainPollInterval: 25 * time.Millisecond, // 40x faster than default
		MailboxSize:       64,
	}
}
