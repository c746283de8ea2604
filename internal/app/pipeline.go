package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ayusman/signetic/internal/capture"
	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/typing"
)

// loop runs one pipeline pass per tick. Each pass finishes before the next
// tick is taken, so frames are never queued. The tick rate drops to
// IdleTickInterval when the activity gate goes idle.
func (a *App) loop(ctx context.Context) error {
	interval := a.cfg.IdleTickInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		err := a.tick(ctx)
		if errors.Is(err, typing.ErrSessionClosed) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			slog.Debug("tick skipped", "error", err)
		}

		next := a.cfg.IdleTickInterval
		if a.activity.Active() {
			next = a.cfg.TickInterval
		}
		if next != interval {
			interval = next
			ticker.Reset(interval)
			slog.Debug("tick interval changed", "interval", interval)
		}
	}
}

// tick reads one frame and hands the first detected hand, or nil, to the
// session. A frame that is not ready skips the tick entirely.
func (a *App) tick(ctx context.Context) error {
	if !a.IsEnabled() {
		if a.session.Status().Present {
			_, err := a.session.Submit(ctx, nil)
			return err
		}
		return nil
	}

	frame, err := a.camera.ReadFrame()
	if err != nil {
		if !errors.Is(err, capture.ErrFrameNotReady) {
			slog.Warn("error reading frame", "error", err)
		}
		return err
	}
	defer frame.Close()

	motion := a.motion.Detect(frame)

	var hand *detector.HandLandmarks
	hands, err := a.detector.Detect(frame)
	switch {
	case err == nil:
		hand = detector.First(hands)
	case errors.Is(err, detector.ErrNotReady):
	default:
		slog.Debug("hand detection failed", "error", err)
		if a.metrics != nil {
			a.metrics.DetectorErrors.Add(ctx, 1)
		}
	}

	a.activity.Observe(motion.Moved, hand != nil)

	_, err = a.session.Submit(ctx, hand)
	return err
}
