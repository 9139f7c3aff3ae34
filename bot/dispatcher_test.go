package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/railbeacon/train-live-bot/railapi"
	"github.com/railbeacon/train-live-bot/telemetry"
	"github.com/railbeacon/train-live-bot/tracker"
)

type idleFetcher struct{}

func (idleFetcher) GetStatus(_ context.Context, _ string) (*railapi.TrainStatus, error) {
	return &railapi.TrainStatus{Success: false}, nil
}

type recordingMessenger struct {
	mu    sync.Mutex
	texts []string
}

func (m *recordingMessenger) SendMessage(_ context.Context, _ int64, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return len(m.texts), nil
}

func (m *recordingMessenger) EditMessage(_ context.Context, _ int64, _ int, _ string) (tracker.EditOutcome, error) {
	return tracker.EditOK, nil
}

func (m *recordingMessenger) lastText(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.texts) == 0 {
		t.Fatal("no reply recorded")
	}
	return m.texts[len(m.texts)-1]
}

func command(chatID int64, text string) *tgbotapi.Message {
	cmdLen := len(text)
	if i := strings.Index(text, " "); i > 0 {
		cmdLen = i
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{FirstName: "Asha"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}
}

func newTestDispatcher() (*Dispatcher, *tracker.Registry, *recordingMessenger) {
	telemetry.Init()
	msgr := &recordingMessenger{}
	reg := tracker.NewRegistry(idleFetcher{}, msgr, tracker.Options{
		PollInterval: time.Hour, StartDelay: time.Hour, Timezone: time.UTC,
	})
	return NewDispatcher(reg, msgr), reg, msgr
}

func TestAddTrainStartsTracking(t *testing.T) {
	d, reg, msgr := newTestDispatcher()
	d.Handle(context.Background(), command(42, "/addtrain 12951"))

	train, ok := reg.GetActiveTrain(42)
	if !ok || train != "12951" {
		t.Fatalf("active train = %q/%v, want 12951", train, ok)
	}
	if got := msgr.lastText(t); !strings.Contains(got, "12951") {
		t.Fatalf("confirmation = %q, want train number", got)
	}
}

func TestAddTrainWithoutArgumentRepliesUsage(t *testing.T) {
	d, reg, msgr := newTestDispatcher()
	d.Handle(context.Background(), command(42, "/addtrain"))

	if _, ok := reg.GetActiveTrain(42); ok {
		t.Fatal("no tracking must start without a train number")
	}
	if got := msgr.lastText(t); !strings.Contains(got, "Usage") {
		t.Fatalf("reply = %q, want usage hint", got)
	}
}

func TestRemoveTrainStopsTracking(t *testing.T) {
	d, reg, msgr := newTestDispatcher()
	d.Handle(context.Background(), command(42, "/addtrain 12951"))
	d.Handle(context.Background(), command(42, "/removetrain"))

	if _, ok := reg.GetActiveTrain(42); ok {
		t.Fatal("tracking still active after /removetrain")
	}
	if got := msgr.lastText(t); !strings.Contains(got, "stopped") {
		t.Fatalf("reply = %q, want stop confirmation", got)
	}
}

func TestStatusCommand(t *testing.T) {
	d, _, msgr := newTestDispatcher()
	d.Handle(context.Background(), command(42, "/status"))
	if got := msgr.lastText(t); !strings.Contains(got, "No active train") {
		t.Fatalf("reply = %q, want no-active-train", got)
	}

	d.Handle(context.Background(), command(42, "/addtrain 12951"))
	d.Handle(context.Background(), command(42, "/status"))
	if got := msgr.lastText(t); !strings.Contains(got, "12951") {
		t.Fatalf("reply = %q, want tracked train", got)
	}
}

func TestStartGreetsUser(t *testing.T) {
	d, _, msgr := newTestDispatcher()
	d.Handle(context.Background(), command(42, "/start"))
	if got := msgr.lastText(t); !strings.Contains(got, "Asha") {
		t.Fatalf("greeting = %q, want first name", got)
	}
}

func TestPlainTextGetsHint(t *testing.T) {
	d, _, msgr := newTestDispatcher()
	d.Handle(context.Background(), &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 42}})
	if got := msgr.lastText(t); !strings.Contains(got, "/addtrain") {
		t.Fatalf("hint = %q, want /addtrain pointer", got)
	}
}
