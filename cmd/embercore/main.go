// Ember Core - EPH Ember cloud heating client
//
// This is the main entry point for the Ember Core daemon. It maintains a
// session against the EPH Ember cloud, listens for zone telemetry over
// the vendor's MQTT push broker, and optionally records zone state to
// InfluxDB for charting.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/ember-core/internal/ember"
	"github.com/nerrad567/ember-core/internal/ember/zone"
	"github.com/nerrad567/ember-core/internal/infrastructure/config"
	"github.com/nerrad567/ember-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/ember-core/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Ember Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Authenticate against the Ember cloud. Login failure is fatal; with
	// valid credentials everything later is transient and retried.
	client, err := ember.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("connecting to Ember cloud: %w", err)
	}
	defer func() {
		log.Info("closing Ember client")
		client.Close()
	}()

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the push transport and subscribe to every zone's telemetry.
	if err := client.StartListening(ctx); err != nil {
		return fmt.Errorf("starting push transport: %w", err)
	}
	log.Info("push transport listening")

	client.OnPointData(func(mac string, points map[int]int64) {
		log.Debug("telemetry received", "mac", mac, "points", len(points))
	})

	log.Info("initialisation complete, polling zones",
		"interval_s", cfg.Ember.PollInterval,
	)

	// Poll loop: sample every zone on the configured interval so state
	// stays fresh even if the push broker goes quiet, and feed the
	// optional telemetry sink.
	ticker := time.NewTicker(time.Duration(cfg.Ember.PollInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, cleaning up")
			log.Info("Ember Core stopped")
			return nil
		case <-ticker.C:
			sampleZones(ctx, client, influxClient, cfg, log)
		}
	}
}

// sampleZones fetches the current zone snapshot, logs each zone's state,
// and records a sample in the telemetry sink when enabled.
func sampleZones(ctx context.Context, client *ember.Client, influxClient *influxdb.Client, cfg *config.Config, log *logging.Logger) {
	zones, err := client.Zones(ctx)
	if err != nil {
		log.Error("zone poll failed", "error", err)
		return
	}

	for _, z := range zones {
		target, err := z.TargetTemperature()
		if err != nil {
			log.Warn("target temperature unavailable", "zone", z.Name, "error", err)
		}
		active, err := z.Active(cfg.Policy.HysteresisTenths)
		if err != nil {
			log.Warn("activity state unavailable", "zone", z.Name, "error", err)
		}

		log.Debug("zone state",
			"zone", z.Name,
			"current", z.CurrentTemperature(),
			"target", target,
			"boiler_on", z.BoilerOn(),
			"active", active,
		)

		if influxClient != nil {
			influxClient.WriteZoneSample(z.ID, z.Name, zoneSampleFields(z, target, active))
		}
	}
}

// zoneSampleFields flattens a zone's semantic state into InfluxDB fields.
func zoneSampleFields(z *zone.Zone, target float64, active bool) map[string]interface{} {
	return map[string]interface{}{
		"current_temp": z.CurrentTemperature(),
		"target_temp":  target,
		"boost_hours":  z.BoostHours(),
		"boost_active": z.BoostActive(),
		"boiler_on":    z.BoilerOn(),
		"active":       active,
	}
}

// getConfigPath returns the configuration file path.
// Uses EMBERCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("EMBERCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
