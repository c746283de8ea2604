// Package config defines the signetic configuration schema and its YAML
// loader.
package config

import (
	"time"

	"github.com/ayusman/signetic/internal/capture"
	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/gesture"
	"github.com/ayusman/signetic/internal/typing"
)

// LogLevel is the minimum slog level.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is one of the known levels.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root of the configuration file.
type Config struct {
	Server     ServerConfig       `yaml:"server"`
	Camera     capture.Config     `yaml:"camera"`
	Detector   detector.Config    `yaml:"detector"`
	Pipeline   PipelineConfig     `yaml:"pipeline"`
	Classifier gesture.Thresholds `yaml:"classifier"`
	Wave       gesture.WaveConfig `yaml:"wave"`
	Store      StoreConfig        `yaml:"store"`
	Plugins    PluginsConfig      `yaml:"plugins"`
	Metrics    MetricsConfig      `yaml:"metrics"`
}

// ServerConfig controls the HTTP server and logging.
type ServerConfig struct {
	ListenAddr string   `yaml:"listen_addr"`
	LogLevel   LogLevel `yaml:"log_level"`
	// StaticDir is served at / when set.
	StaticDir string `yaml:"static_dir"`
}

// PipelineConfig holds the typing tunables and the scheduling ticks.
type PipelineConfig struct {
	typing.Config `yaml:",inline"`

	TickInterval     time.Duration `yaml:"tick_interval"`
	IdleTickInterval time.Duration `yaml:"idle_tick_interval"`
	// IdleTimeout is how long without motion or a hand before the
	// pipeline drops to IdleTickInterval.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// PluginsConfig controls plugin discovery and the bundled actions.
type PluginsConfig struct {
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
	// KeyboardOutput types every commit into the focused application.
	KeyboardOutput bool         `yaml:"keyboard_output"`
	Speech         SpeechConfig `yaml:"speech"`
}

// SpeechConfig is passed to the speech plugin as params.
type SpeechConfig struct {
	Voice string `yaml:"voice"`
	Rate  int    `yaml:"rate"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns a configuration that runs against the first webcam with
// the calibrated classifier table.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:8080",
			LogLevel:   LogInfo,
			StaticDir:  "web",
		},
		Camera:     capture.DefaultConfig(),
		Detector:   detector.DefaultConfig(),
		Classifier: gesture.DefaultThresholds(),
		Wave:       gesture.DefaultWaveConfig(),
		Pipeline: PipelineConfig{
			Config:           typing.DefaultConfig(),
			TickInterval:     33 * time.Millisecond,
			IdleTickInterval: 200 * time.Millisecond,
			IdleTimeout:      3 * time.Second,
		},
		Store: StoreConfig{Path: "signetic.db"},
		Plugins: PluginsConfig{
			Dir:     "plugins",
			Timeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}
