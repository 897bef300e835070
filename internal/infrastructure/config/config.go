package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Ember Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Ember    EmberConfig    `yaml:"ember"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Policy   PolicyConfig   `yaml:"policy"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EmberConfig contains EPH Ember cloud API settings.
type EmberConfig struct {
	// BaseURL is the HTTPS API root, including the trailing slash.
	BaseURL string `yaml:"base_url"`

	// Username and Password are the Ember account credentials.
	// Override with EMBERCORE_USERNAME / EMBERCORE_PASSWORD in production.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// HTTPTimeout is the per-request timeout in seconds.
	HTTPTimeout int `yaml:"http_timeout"`

	// ZoneCacheTTL is how long a zone snapshot is served from cache, in seconds.
	// Short enough to stay responsive to user commands, long enough to avoid
	// hammering the REST API on repeated entity polls.
	ZoneCacheTTL int `yaml:"zone_cache_ttl"`

	// PollInterval is how often the daemon polls zone state, in seconds.
	PollInterval int `yaml:"poll_interval"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`

	// PublishTimeout is how long to wait for publish acknowledgment, in seconds.
	// Commands are best-effort: an unacknowledged publish is reported, not retried.
	PublishTimeout int `yaml:"publish_timeout"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
// Credentials are not configured here: the broker authenticates with the
// REST session token, obtained at connect time.
type MQTTBrokerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	TLS  bool   `yaml:"tls"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// PolicyConfig contains tuning constants with no vendor-documented derivation.
// They are configurable rather than hard-coded because the upstream values
// were observed, not specified.
type PolicyConfig struct {
	// HysteresisTenths is the scheduled-on hysteresis band in tenths of a
	// degree. A zone within this band of its target is treated as satisfied.
	HysteresisTenths int `yaml:"hysteresis_tenths"`

	// BoostMaxHours clamps boost duration for the older device families (2, 4).
	BoostMaxHours int `yaml:"boost_max_hours"`

	// BoostMaxHoursCompact clamps boost duration for the compact families
	// (258, 514, 773), which only accept a single hour.
	BoostMaxHoursCompact int `yaml:"boost_max_hours_compact"`
}

// InfluxDBConfig contains optional telemetry sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: EMBERCORE_KEY
// For example: EMBERCORE_USERNAME, EMBERCORE_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
// The broker and API endpoints default to the vendor's EU deployment.
func defaultConfig() *Config {
	return &Config{
		Ember: EmberConfig{
			BaseURL:      "https://eu-https.topband-cloud.com/ember-back/",
			HTTPTimeout:  10,
			ZoneCacheTTL: 10,
			PollInterval: 60,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "eu-base-mqtt.topband-cloud.com",
				Port: 18883,
				TLS:  true,
			},
			QoS: 0,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
			PublishTimeout: 1,
		},
		Policy: PolicyConfig{
			HysteresisTenths:     3,
			BoostMaxHours:        3,
			BoostMaxHoursCompact: 1,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EMBERCORE_USERNAME"); v != "" {
		cfg.Ember.Username = v
	}
	if v := os.Getenv("EMBERCORE_PASSWORD"); v != "" {
		cfg.Ember.Password = v
	}
	if v := os.Getenv("EMBERCORE_BASE_URL"); v != "" {
		cfg.Ember.BaseURL = v
	}
	if v := os.Getenv("EMBERCORE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("EMBERCORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Ember.BaseURL == "" {
		errs = append(errs, "ember.base_url is required")
	}
	if c.Ember.Username == "" {
		errs = append(errs, "ember.username is required (set EMBERCORE_USERNAME environment variable)")
	}
	if c.Ember.Password == "" {
		errs = append(errs, "ember.password is required (set EMBERCORE_PASSWORD environment variable)")
	}
	if c.Ember.ZoneCacheTTL <= 0 {
		errs = append(errs, "ember.zone_cache_ttl must be positive")
	}

	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Policy.HysteresisTenths < 0 {
		errs = append(errs, "policy.hysteresis_tenths must not be negative")
	}
	if c.Policy.BoostMaxHours < 1 || c.Policy.BoostMaxHoursCompact < 1 {
		errs = append(errs, "policy boost clamps must be at least 1 hour")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetHTTPTimeout returns the REST request timeout as a Duration.
func (c *Config) GetHTTPTimeout() time.Duration {
	return time.Duration(c.Ember.HTTPTimeout) * time.Second
}

// GetZoneCacheTTL returns the zone snapshot cache window as a Duration.
func (c *Config) GetZoneCacheTTL() time.Duration {
	return time.Duration(c.Ember.ZoneCacheTTL) * time.Second
}

// GetPublishTimeout returns the publish acknowledgment window as a Duration.
func (m MQTTConfig) GetPublishTimeout() time.Duration {
	return time.Duration(m.PublishTimeout) * time.Second
}
