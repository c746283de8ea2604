// Package app drives the capture pipeline: it reads camera frames on a
// tick, runs hand detection and feeds the typing session, and forwards
// typed text to plugins.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/signetic/internal/capture"
	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/observe"
	"github.com/ayusman/signetic/internal/plugin"
	"github.com/ayusman/signetic/internal/store"
	"github.com/ayusman/signetic/internal/typing"
)

// SettingEnabled is the settings key that persists the tracking toggle.
const SettingEnabled = "tracking_enabled"

// ErrNoSpeech is returned by Speak when no plugin can speak.
var ErrNoSpeech = errors.New("no speech plugin configured")

// Config holds the pipeline timing and output options.
type Config struct {
	TickInterval     time.Duration
	IdleTickInterval time.Duration
	IdleTimeout      time.Duration
	MotionThreshold  float64
	// KeyboardOutput types committed text through the keyboard plugin.
	KeyboardOutput bool
	// SpeechParams are passed to the speech plugin unchanged.
	SpeechParams map[string]any
}

// Deps are the collaborators the pipeline needs. Dispatcher, Settings and
// Metrics may be nil.
type Deps struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Session    *typing.Session
	Dispatcher *plugin.Dispatcher
	Settings   *store.SettingsRepository
	Metrics    *observe.Metrics
}

// App ties the camera, detector and typing session together.
type App struct {
	cfg      Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	activity *capture.Activity
	detector detector.Detector
	session  *typing.Session
	plugins  *plugin.Dispatcher
	settings *store.SettingsRepository
	metrics  *observe.Metrics

	mu      sync.RWMutex
	enabled bool
	running bool

	keys *keyboardSink
}

// New creates an App. Tracking starts enabled unless a stored setting says
// otherwise.
func New(cfg Config, deps Deps) *App {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 33 * time.Millisecond
	}
	if cfg.IdleTickInterval < cfg.TickInterval {
		cfg.IdleTickInterval = cfg.TickInterval
	}
	if cfg.MotionThreshold <= 0 {
		cfg.MotionThreshold = 1.0
	}

	a := &App{
		cfg:      cfg,
		camera:   deps.Camera,
		motion:   capture.NewMotionDetector(cfg.MotionThreshold),
		activity: capture.NewActivity(cfg.IdleTimeout),
		detector: deps.Detector,
		session:  deps.Session,
		plugins:  deps.Dispatcher,
		settings: deps.Settings,
		metrics:  deps.Metrics,
		enabled:  true,
	}
	if a.settings != nil {
		a.enabled = a.settings.Bool(SettingEnabled, true)
	}
	if cfg.KeyboardOutput && a.plugins != nil {
		a.keys = newKeyboardSink(a.plugins)
		a.session.OnStatus(a.keys.observe)
	}
	return a
}

// NewDetector returns the MediaPipe detector, or an empty mock detector
// when MediaPipe cannot be started.
func NewDetector(cfg detector.Config) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(cfg)
	if err == nil {
		slog.Info("using MediaPipe hand detection")
		return mp
	}
	slog.Warn("MediaPipe not available, using mock detector", "error", err)
	return detector.NewMockDetector()
}

// SetEnabled pauses or resumes tracking. Pausing hands the session a
// no-hand frame on the next tick so presence logic settles. Resuming
// compares motion against a fresh baseline instead of the frame seen
// before the pause.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if enabled {
		a.motion.Reset()
		a.activity.Wake()
	}
	if a.settings != nil {
		if err := a.settings.SetBool(SettingEnabled, enabled); err != nil {
			slog.Warn("failed to persist tracking toggle", "error", err)
		}
	}
	slog.Info("tracking toggled", "enabled", enabled)
}

// IsEnabled reports whether tracking is on.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Active reports whether the pipeline is polling at the active rate.
func (a *App) Active() bool {
	return a.activity.Active()
}

// Session returns the typing session.
func (a *App) Session() *typing.Session {
	return a.session
}

// Run opens the camera and processes frames until ctx is cancelled. The
// camera, motion detector and hand detector are closed on return.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return errors.New("app already running")
	}
	a.running = true
	a.mu.Unlock()

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.shutdown()

	if a.keys != nil {
		go a.keys.run(ctx)
	}

	slog.Info("capture pipeline started",
		"tick", a.cfg.TickInterval, "idle_tick", a.cfg.IdleTickInterval)
	return a.loop(ctx)
}

func (a *App) shutdown() {
	if err := a.camera.Close(); err != nil {
		slog.Warn("error closing camera", "error", err)
	}
	a.motion.Close()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			slog.Warn("error closing detector", "error", err)
		}
	}

	a.mu.Lock()
	a.running = false
	a.mu.Unlock()
	slog.Info("capture pipeline stopped")
}

// Speak sends the current text to the speech plugin.
func (a *App) Speak(ctx context.Context) error {
	if a.plugins == nil {
		return ErrNoSpeech
	}
	text := a.session.Status().Text
	if text == "" {
		return nil
	}

	req := &plugin.Request{Action: plugin.ActionSpeak, Text: text}
	if len(a.cfg.SpeechParams) > 0 {
		params, err := json.Marshal(a.cfg.SpeechParams)
		if err != nil {
			return err
		}
		req.Params = params
	}
	if _, err := a.plugins.Run(ctx, req); err != nil {
		if errors.Is(err, plugin.ErrPluginNotFound) {
			return ErrNoSpeech
		}
		return err
	}
	return nil
}
