package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/railbeacon/train-live-bot/telemetry"
)

// track is the tracking task for one chat. It polls on a steady interval,
// switching to the backoff interval after a failed or unsuccessful fetch,
// until its context is cancelled.
func (r *Registry) track(ctx context.Context, ct *chatTracker) {
	defer close(ct.done)
	defer r.detach(ct)

	logger := slog.Default().With(
		slog.Int64("chat_id", ct.chatID),
		slog.String("train", ct.train),
		slog.String("corr", ct.corr),
	)
	logger.Info("tracking started", slog.Duration("interval", r.opts.PollInterval))
	ctx = telemetry.WithCorrelation(ctx, ct.corr)

	if !sleep(ctx, r.opts.StartDelay) {
		logger.Info("tracking stopped")
		return
	}
	for {
		delay := r.pollOnce(ctx, ct, logger)
		if !sleep(ctx, delay) {
			logger.Info("tracking stopped")
			return
		}
	}
}

// pollOnce runs a single poll cycle and returns how long to wait before the
// next one. It never returns an error: every failure mode is either backoff
// or a skipped render.
func (r *Registry) pollOnce(ctx context.Context, ct *chatTracker, logger *slog.Logger) time.Duration {
	telemetry.PollCycles.Inc()
	ctx, span := telemetry.StartSpan(ctx, "tracker", "poll_cycle",
		telemetry.ChatIDAttr(ct.chatID), telemetry.TrainAttr(ct.train))
	defer span.End()

	start := time.Now()
	st, err := r.api.GetStatus(ctx, ct.train)
	telemetry.FetchDuration.Observe(time.Since(start).Seconds())
	if ctx.Err() != nil {
		// Cancelled mid-fetch; the result must not touch the message.
		return r.opts.PollInterval
	}
	if err != nil {
		telemetry.FetchFailures.Inc()
		telemetry.RecordError(span, err)
		logger.Warn("status fetch failed", slog.Any("err", err), slog.Duration("backoff", r.opts.BackoffInterval))
		return r.opts.BackoffInterval
	}
	if !st.Success {
		telemetry.FetchFailures.Inc()
		logger.Warn("status unsuccessful", slog.Duration("backoff", r.opts.BackoffInterval))
		return r.opts.BackoffInterval
	}

	sc := ResolveContext(st.Route, st.CurrentPosition.StationCode)
	text, ok := RenderStatus(ct.train, sc, st.CurrentPosition, r.opts.Timezone)
	if !ok {
		logger.Debug("position not on route; skipping render", slog.String("code", st.CurrentPosition.StationCode))
		return r.opts.PollInterval
	}
	r.publish(ctx, ct, st.CurrentPosition.StationCode, text, logger)
	return r.opts.PollInterval
}

// publish sends or edits the tracked message for ct under its lock, records
// the transition state, and (re)starts the animation overlay when the train
// reached a new station or no overlay is running yet. Whenever the base text
// is published, the animation frame set is refreshed alongside it so the
// overlay never re-applies frames of an older render.
func (r *Registry) publish(ctx context.Context, ct *chatTracker, code, text string, logger *slog.Logger) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	transition := ct.lastCode != code
	published := false

	switch {
	case ct.messageID == 0:
		id, err := r.msgr.SendMessage(ctx, ct.chatID, text)
		if err != nil {
			telemetry.EditFailures.Inc()
			logger.Warn("send status message failed", slog.Any("err", err))
			return
		}
		ct.messageID = id
		ct.setBaseTextLocked(text)
		published = true
		telemetry.MessagesSent.Inc()
		logger.Info("status message created", slog.Int("message_id", id))

	case text != ct.lastText:
		outcome, err := r.msgr.EditMessage(ctx, ct.chatID, ct.messageID, text)
		switch outcome {
		case EditOK:
			ct.setBaseTextLocked(text)
			published = true
			telemetry.MessageEdits.Inc()
		case EditNotFound:
			// Message was deleted out from under us; replace it once.
			logger.Warn("status message gone; sending replacement", slog.Int("message_id", ct.messageID))
			id, serr := r.msgr.SendMessage(ctx, ct.chatID, text)
			if serr != nil {
				telemetry.EditFailures.Inc()
				logger.Warn("replacement send failed", slog.Any("err", serr))
				ct.messageID = 0
				return
			}
			ct.messageID = id
			ct.setBaseTextLocked(text)
			published = true
			telemetry.MessagesSent.Inc()
		case EditTransient:
			// Leave lastText as is so the next cycle retries the edit.
			telemetry.EditFailures.Inc()
			logger.Warn("status edit failed", slog.Any("err", err))
		}

	default:
		// Text already current; the message reflects this cycle.
		published = true
	}

	// Commit the last-seen code only once the render is on the message, so
	// a failed first send does not consume the transition event.
	if published {
		ct.lastCode = code
		if transition {
			logger.Info("station transition", slog.String("code", code))
		}
	}

	if ct.messageID != 0 && (transition || ct.overlayCancel == nil) {
		r.startOverlayLocked(ctx, ct)
	}
}

// sleep waits for d or until ctx is cancelled. Returns false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
