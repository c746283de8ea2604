package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of [Default] and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults. Unknown keys are
// rejected. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required"))
	}

	if cfg.Camera.DeviceID < 0 {
		errs = append(errs, fmt.Errorf("camera.device_id %d must not be negative", cfg.Camera.DeviceID))
	}
	if cfg.Camera.MotionThreshold <= 0 || cfg.Camera.MotionThreshold > 100 {
		errs = append(errs, fmt.Errorf("camera.motion_threshold %.2f is out of range (0, 100]", cfg.Camera.MotionThreshold))
	}

	if cfg.Detector.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("detector.max_hands must be at least 1, got %d", cfg.Detector.MaxHands))
	}
	if cfg.Detector.MinConfidence < 0 || cfg.Detector.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("detector.min_confidence %.2f is out of range [0, 1]", cfg.Detector.MinConfidence))
	}
	if cfg.Detector.MaxHands > 1 {
		slog.Warn("detector.max_hands > 1; only the first hand is classified", "max_hands", cfg.Detector.MaxHands)
	}

	if err := cfg.Pipeline.Config.Validate(); err != nil {
		errs = append(errs, prefixed("pipeline", err))
	}
	if cfg.Pipeline.TickInterval <= 0 {
		errs = append(errs, errors.New("pipeline.tick_interval must be positive"))
	}
	if cfg.Pipeline.IdleTickInterval < cfg.Pipeline.TickInterval {
		errs = append(errs, fmt.Errorf("pipeline.idle_tick_interval %s is shorter than tick_interval %s",
			cfg.Pipeline.IdleTickInterval, cfg.Pipeline.TickInterval))
	}

	if err := cfg.Classifier.Validate(); err != nil {
		errs = append(errs, prefixed("classifier", err))
	}
	if cfg.Wave.Cycles < 1 {
		errs = append(errs, fmt.Errorf("wave.cycles must be at least 1, got %d", cfg.Wave.Cycles))
	}
	if cfg.Wave.NoiseFloor <= 0 {
		errs = append(errs, errors.New("wave.noise_floor must be positive"))
	}

	if cfg.Store.Path == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	if cfg.Plugins.Timeout <= 0 {
		errs = append(errs, errors.New("plugins.timeout must be positive"))
	}
	if cfg.Plugins.Speech.Rate < 0 {
		errs = append(errs, fmt.Errorf("plugins.speech.rate %d must not be negative", cfg.Plugins.Speech.Rate))
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path %q must start with /", cfg.Metrics.Path))
	}

	return errors.Join(errs...)
}

// prefixed qualifies each line of a nested validation error with its section.
func prefixed(section string, err error) error {
	lines := strings.Split(err.Error(), "\n")
	for i, l := range lines {
		lines[i] = section + "." + l
	}
	return errors.New(strings.Join(lines, "\n"))
}
