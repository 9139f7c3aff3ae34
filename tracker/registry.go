package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/railbeacon/train-live-bot/railapi"
	"github.com/railbeacon/train-live-bot/telemetry"
)

// StatusFetcher abstracts the train status API (for tests/mocks).
type StatusFetcher interface {
	GetStatus(ctx context.Context, trainNo string) (*railapi.TrainStatus, error)
}

// EditOutcome classifies a message edit attempt so callers can decide
// between fallback (resend), retry next cycle, or just logging.
type EditOutcome int

const (
	// EditOK means the edit was applied (or was a no-op).
	EditOK EditOutcome = iota
	// EditNotFound means the message or chat is gone; editing it again is pointless.
	EditNotFound
	// EditTransient means a temporary failure (rate limit, network); retry later.
	EditTransient
)

// String returns a human-readable name for the outcome.
func (o EditOutcome) String() string {
	switch o {
	case EditOK:
		return "ok"
	case EditNotFound:
		return "not_found"
	case EditTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Messenger abstracts the chat transport used to publish status messages.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) (EditOutcome, error)
}

// Options configures tracking cadence. Zero values fall back to defaults.
type Options struct {
	PollInterval    time.Duration // steady polling cadence
	BackoffInterval time.Duration // wait after a failed or unsuccessful fetch
	StartDelay      time.Duration // delay before the first poll after /addtrain
	AnimationTick   time.Duration // overlay frame cadence
	Timezone        *time.Location
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 30 * time.Second
	}
	if o.BackoffInterval <= 0 {
		o.BackoffInterval = 20 * time.Second
	}
	if o.StartDelay <= 0 {
		o.StartDelay = 2 * time.Second
	}
	if o.AnimationTick <= 0 {
		o.AnimationTick = time.Second
	}
	if o.Timezone == nil {
		o.Timezone = time.UTC
	}
	return o
}

// Registry owns all per-chat tracking state and task handles. All map access
// goes through its methods; per-chat message state is guarded by the chat's
// own lock so chats never contend with each other.
type Registry struct {
	api  StatusFetcher
	msgr Messenger
	opts Options

	mu    sync.Mutex
	chats map[int64]*chatTracker
}

// chatTracker is the state for one actively tracked chat.
type chatTracker struct {
	chatID int64
	train  string
	corr   string
	cancel context.CancelFunc
	done   chan struct{}

	// mu guards the fields below and serializes all edits against the
	// tracked message, so an overlay frame can never overwrite a newer
	// base render out of order.
	mu            sync.Mutex
	messageID     int
	lastCode      string
	lastText      string
	frames        []string // animation frames for lastText
	overlayCancel context.CancelFunc
}

// setBaseTextLocked records a newly published base render and derives its
// animation frames in the same step. Caller must hold ct.mu.
func (ct *chatTracker) setBaseTextLocked(text string) {
	ct.lastText = text
	ct.frames = AnimationFrames(text)
}

// NewRegistry creates a registry publishing through msgr and polling api.
func NewRegistry(api StatusFetcher, msgr Messenger, opts Options) *Registry {
	return &Registry{
		api:   api,
		msgr:  msgr,
		opts:  opts.withDefaults(),
		chats: make(map[int64]*chatTracker),
	}
}

// StartTracking begins tracking train for chatID, atomically replacing any
// existing tracking task, overlay task, and tracked message for that chat.
// The spawned task stops when ctx is cancelled or StopTracking is called.
func (r *Registry) StartTracking(ctx context.Context, chatID int64, train string) {
	r.mu.Lock()
	if old, ok := r.chats[chatID]; ok {
		old.cancel()
	}
	tctx, cancel := context.WithCancel(ctx)
	ct := &chatTracker{
		chatID: chatID,
		train:  train,
		corr:   uuid.New().String(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.chats[chatID] = ct
	telemetry.SetActiveTrackers(len(r.chats))
	r.mu.Unlock()

	go r.track(tctx, ct)
}

// StopTracking stops tracking for chatID and discards its state.
// It is a no-op when nothing is tracked.
func (r *Registry) StopTracking(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ct, ok := r.chats[chatID]
	if !ok {
		return
	}
	ct.cancel()
	delete(r.chats, chatID)
	telemetry.SetActiveTrackers(len(r.chats))
	slog.Info("tracking removed", slog.Int64("chat_id", chatID), slog.String("train", ct.train))
}

// GetActiveTrain returns the train tracked for chatID, if any.
func (r *Registry) GetActiveTrain(chatID int64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ct, ok := r.chats[chatID]
	if !ok {
		return "", false
	}
	return ct.train, true
}

// ListActive returns a snapshot of all tracked chats and their trains.
func (r *Registry) ListActive() map[int64]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]string, len(r.chats))
	for id, ct := range r.chats {
		out[id] = ct.train
	}
	return out
}

// Count returns the number of chats with an active tracking task.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}

// detach removes ct from the registry if it is still the registered tracker
// for its chat. Called by a tracking task on exit so a replaced task never
// evicts its successor.
func (r *Registry) detach(ct *chatTracker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.chats[ct.chatID]; ok && cur == ct {
		delete(r.chats, ct.chatID)
		telemetry.SetActiveTrackers(len(r.chats))
	}
}
