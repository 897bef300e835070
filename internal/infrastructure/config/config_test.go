package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig drops a YAML file in a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const minimalConfig = `
ember:
  username: user@example.com
  password: secret
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ember.BaseURL != "https://eu-https.topband-cloud.com/ember-back/" {
		t.Errorf("BaseURL = %q", cfg.Ember.BaseURL)
	}
	if cfg.Ember.ZoneCacheTTL != 10 || cfg.Ember.PollInterval != 60 {
		t.Errorf("cache/poll = %d/%d, want 10/60", cfg.Ember.ZoneCacheTTL, cfg.Ember.PollInterval)
	}
	if cfg.MQTT.Broker.Host != "eu-base-mqtt.topband-cloud.com" || cfg.MQTT.Broker.Port != 18883 || !cfg.MQTT.Broker.TLS {
		t.Errorf("broker = %+v", cfg.MQTT.Broker)
	}
	if cfg.Policy.HysteresisTenths != 3 || cfg.Policy.BoostMaxHours != 3 || cfg.Policy.BoostMaxHoursCompact != 1 {
		t.Errorf("policy = %+v", cfg.Policy)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
ember:
  username: user@example.com
  password: secret
  zone_cache_ttl: 30
mqtt:
  qos: 1
policy:
  boost_max_hours: 2
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ember.ZoneCacheTTL != 30 {
		t.Errorf("ZoneCacheTTL = %d, want 30", cfg.Ember.ZoneCacheTTL)
	}
	if cfg.MQTT.QoS != 1 {
		t.Errorf("QoS = %d, want 1", cfg.MQTT.QoS)
	}
	if cfg.Policy.BoostMaxHours != 2 {
		t.Errorf("BoostMaxHours = %d, want 2", cfg.Policy.BoostMaxHours)
	}
	// Untouched sections keep their defaults.
	if cfg.Policy.BoostMaxHoursCompact != 1 {
		t.Errorf("BoostMaxHoursCompact = %d, want default 1", cfg.Policy.BoostMaxHoursCompact)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("EMBERCORE_USERNAME", "env-user")
	t.Setenv("EMBERCORE_PASSWORD", "env-pass")
	t.Setenv("EMBERCORE_MQTT_HOST", "broker.example.com")
	t.Setenv("EMBERCORE_INFLUXDB_TOKEN", "env-token")

	cfg, err := Load(writeConfig(t, `
ember:
  username: file-user
  password: file-pass
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ember.Username != "env-user" || cfg.Ember.Password != "env-pass" {
		t.Errorf("credentials = %q/%q, want env values", cfg.Ember.Username, cfg.Ember.Password)
	}
	if cfg.MQTT.Broker.Host != "broker.example.com" {
		t.Errorf("broker host = %q, want env value", cfg.MQTT.Broker.Host)
	}
	if cfg.InfluxDB.Token != "env-token" {
		t.Errorf("influxdb token = %q, want env value", cfg.InfluxDB.Token)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "ember: [not a mapping")); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing username", func(c *Config) { c.Ember.Username = "" }, "ember.username"},
		{"missing password", func(c *Config) { c.Ember.Password = "" }, "ember.password"},
		{"missing base url", func(c *Config) { c.Ember.BaseURL = "" }, "ember.base_url"},
		{"zero cache ttl", func(c *Config) { c.Ember.ZoneCacheTTL = 0 }, "zone_cache_ttl"},
		{"missing broker host", func(c *Config) { c.MQTT.Broker.Host = "" }, "mqtt.broker.host"},
		{"qos out of range", func(c *Config) { c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"negative hysteresis", func(c *Config) { c.Policy.HysteresisTenths = -1 }, "hysteresis"},
		{"zero boost clamp", func(c *Config) { c.Policy.BoostMaxHoursCompact = 0 }, "boost clamps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Ember.Username = "u"
			cfg.Ember.Password = "p"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.GetHTTPTimeout(); got != 10*time.Second {
		t.Errorf("GetHTTPTimeout() = %v, want 10s", got)
	}
	if got := cfg.GetZoneCacheTTL(); got != 10*time.Second {
		t.Errorf("GetZoneCacheTTL() = %v, want 10s", got)
	}
	if got := cfg.MQTT.GetPublishTimeout(); got != time.Second {
		t.Errorf("GetPublishTimeout() = %v, want 1s", got)
	}
}
