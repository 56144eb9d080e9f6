// Package config loads and validates the Mudra configuration. Validation
// failures are the only fatal error class: they must stop the program
// before the detection loop starts.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/spf13/viper"
)

// Config is the validated application configuration.
type Config struct {
	Camera   CameraConfig   `mapstructure:"camera"`
	Detector DetectorConfig `mapstructure:"detector"`
	Body     BodyConfig     `mapstructure:"body"`
	Control  ControlConfig  `mapstructure:"control"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// CameraConfig selects the frame source: a local device ID, or an MJPEG
// stream URL (ESP32-CAM style) when StreamURL is set.
type CameraConfig struct {
	DeviceID        int     `mapstructure:"device_id"`
	StreamURL       string  `mapstructure:"stream_url"`
	MotionThreshold float64 `mapstructure:"motion_threshold"`
}

// DetectorConfig tunes the hand landmark provider.
type DetectorConfig struct {
	MaxHands        int     `mapstructure:"max_hands"`
	MinConfidence   float64 `mapstructure:"min_confidence"`
	MinTrackingConf float64 `mapstructure:"min_tracking_confidence"`
}

// BodyConfig controls the optional whole-body detector used for rendering.
type BodyConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	CascadePath string `mapstructure:"cascade_path"`
}

// ControlConfig configures command dispatch to the device endpoint.
type ControlConfig struct {
	URL        string            `mapstructure:"url"`
	CooldownMs int               `mapstructure:"cooldown_ms"`
	TimeoutMs  int               `mapstructure:"timeout_ms"`
	QueueSize  int               `mapstructure:"queue_size"`
	Enabled    bool              `mapstructure:"enabled"`
	Commands   map[string]string `mapstructure:"commands"`
}

// ServerConfig configures the local HTTP server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads the configuration from the given file (YAML), falling back
// to config.yaml in the working directory or ~/.mudra when path is empty.
// Environment variables prefixed with MUDRA_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Nested keys map to underscored names: control.url becomes MUDRA_CONTROL_URL.
	v.SetEnvPrefix("MUDRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mudra"))
		}
		if err := v.ReadInConfig(); err != nil {
			// Defaults plus environment are enough to run; only an
			// unreadable file is fatal.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config failed: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("camera.device_id", 0)
	v.SetDefault("camera.motion_threshold", 1.0)

	v.SetDefault("detector.max_hands", 2)
	v.SetDefault("detector.min_confidence", 0.5)
	v.SetDefault("detector.min_tracking_confidence", 0.5)

	v.SetDefault("body.enabled", false)

	v.SetDefault("control.cooldown_ms", 1000)
	v.SetDefault("control.timeout_ms", 2000)
	v.SetDefault("control.queue_size", control.DefaultQueueSize)
	v.SetDefault("control.enabled", true)

	v.SetDefault("server.addr", ":8080")
}

// validate checks the configuration once at startup, failing fast on
// malformed entries instead of surfacing them at use time.
func (c *Config) validate() error {
	if err := c.Control.validate(); err != nil {
		return err
	}
	if c.Detector.MaxHands <= 0 {
		return fmt.Errorf("detector.max_hands must be > 0")
	}
	if c.Body.Enabled && c.Body.CascadePath == "" {
		return fmt.Errorf("body.cascade_path is required when body.enabled is set")
	}
	if c.Camera.MotionThreshold < 0 {
		return fmt.Errorf("camera.motion_threshold must be >= 0")
	}
	return nil
}

func (cc *ControlConfig) validate() error {
	if cc.URL == "" {
		return fmt.Errorf("control.url is required")
	}
	u, err := url.Parse(cc.URL)
	if err != nil {
		return fmt.Errorf("control.url is malformed: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("control.url must be an absolute http(s) URL, got %q", cc.URL)
	}

	if cc.CooldownMs <= 0 {
		return fmt.Errorf("control.cooldown_ms must be > 0")
	}
	if cc.TimeoutMs <= 0 {
		return fmt.Errorf("control.timeout_ms must be > 0")
	}
	if cc.QueueSize <= 0 {
		return fmt.Errorf("control.queue_size must be > 0")
	}

	for name, command := range cc.Commands {
		if _, ok := labelByName(name); !ok {
			return fmt.Errorf("control.commands contains unknown gesture %q", name)
		}
		if command == "" {
			return fmt.Errorf("control.commands.%s has an empty command", name)
		}
	}

	return nil
}

// labelByName resolves a configured gesture name to its canonical label.
// Matching is case-insensitive because viper lowercases map keys.
func labelByName(name string) (gesture.Label, bool) {
	for _, label := range gesture.Labels() {
		if strings.EqualFold(string(label), name) {
			return label, true
		}
	}
	return "", false
}

// Cooldown returns the debounce window as a duration.
func (cc *ControlConfig) Cooldown() time.Duration {
	return time.Duration(cc.CooldownMs) * time.Millisecond
}

// Timeout returns the per-request delivery bound as a duration.
func (cc *ControlConfig) Timeout() time.Duration {
	return time.Duration(cc.TimeoutMs) * time.Millisecond
}

// Mapping converts the configured command table into a control.Mapping.
func (cc *ControlConfig) Mapping() control.Mapping {
	mapping := make(control.Mapping, len(cc.Commands))
	for name, command := range cc.Commands {
		if label, ok := labelByName(name); ok {
			mapping[label] = command
		}
	}
	return mapping
}
