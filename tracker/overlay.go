package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/railbeacon/train-live-bot/telemetry"
)

// startOverlayLocked replaces the chat's animation overlay task with a fresh
// one. Caller must hold ct.mu. The overlay context derives from the tracking
// task's, so stopping tracking stops the overlay too.
func (r *Registry) startOverlayLocked(ctx context.Context, ct *chatTracker) {
	if ct.overlayCancel != nil {
		ct.overlayCancel()
	}
	octx, cancel := context.WithCancel(ctx)
	ct.overlayCancel = cancel
	go r.animate(octx, ct)
}

// animate edits the tracked message once per tick with the next decorative
// frame. The frame set is re-read from ct under its lock every tick, so a
// frame always derives from the newest base render and can never restore
// stale data after the engine has edited the message. The task is purely
// cosmetic: it stops silently when cancelled or when the message no longer
// exists, and never changes the recorded base text.
func (r *Registry) animate(ctx context.Context, ct *chatTracker) {
	ticker := time.NewTicker(r.opts.AnimationTick)
	defer ticker.Stop()
	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		ct.mu.Lock()
		if ctx.Err() != nil {
			// Replaced while waiting for the lock; a newer render owns the message.
			ct.mu.Unlock()
			return
		}
		id := ct.messageID
		frames := ct.frames
		if id == 0 || len(frames) == 0 {
			ct.mu.Unlock()
			continue
		}
		frame := frames[i%len(frames)]
		i++
		outcome, err := r.msgr.EditMessage(ctx, ct.chatID, id, frame)
		ct.mu.Unlock()

		switch outcome {
		case EditNotFound:
			slog.Debug("overlay stopped: message gone",
				slog.Int64("chat_id", ct.chatID), slog.Int("message_id", id))
			return
		case EditTransient:
			slog.Debug("overlay frame edit failed",
				slog.Int64("chat_id", ct.chatID), slog.Any("err", err))
		case EditOK:
			telemetry.OverlayFrames.Inc()
		}
	}
}
