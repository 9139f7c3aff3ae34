// Package bot routes incoming Telegram commands to tracker registry
// operations and writes the confirmation replies.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/railbeacon/train-live-bot/tracker"
)

const helpText = "🚆 *Train Live Bot*\n\n" +
	"▶️ */addtrain <train_no>* — start live tracking\n" +
	"📊 */status* — show the tracked train\n" +
	"🛑 */removetrain* — stop tracking\n"

// Dispatcher maps chat commands onto registry operations.
type Dispatcher struct {
	reg  *tracker.Registry
	msgr tracker.Messenger
}

// NewDispatcher creates a dispatcher replying through msgr.
func NewDispatcher(reg *tracker.Registry, msgr tracker.Messenger) *Dispatcher {
	return &Dispatcher{reg: reg, msgr: msgr}
}

// Run consumes updates until the channel closes or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			if upd.Message != nil {
				d.Handle(ctx, upd.Message)
			}
		}
	}
}

// Handle processes one incoming message.
func (d *Dispatcher) Handle(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !msg.IsCommand() {
		if strings.TrimSpace(msg.Text) != "" {
			d.reply(ctx, chatID, "Send /addtrain <train_no> to track a train")
		}
		return
	}

	switch msg.Command() {
	case "start":
		name := "there"
		if msg.From != nil && msg.From.FirstName != "" {
			name = msg.From.FirstName
		}
		d.reply(ctx, chatID, fmt.Sprintf("👋 *Hello %s!*\n\n%s", name, helpText))

	case "addtrain":
		train := strings.TrimSpace(msg.CommandArguments())
		if train == "" {
			d.reply(ctx, chatID, "Usage: /addtrain 12303")
			return
		}
		d.reg.StartTracking(ctx, chatID, train)
		d.reply(ctx, chatID, fmt.Sprintf("🚆 Tracking Train *%s*", train))

	case "removetrain":
		d.reg.StopTracking(chatID)
		d.reply(ctx, chatID, "🗑️ Tracking stopped")

	case "status":
		if train, ok := d.reg.GetActiveTrain(chatID); ok {
			d.reply(ctx, chatID, fmt.Sprintf("✅ Tracking *%s*", train))
		} else {
			d.reply(ctx, chatID, "❌ No active train")
		}

	default:
		d.reply(ctx, chatID, helpText)
	}
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) {
	if _, err := d.msgr.SendMessage(ctx, chatID, text); err != nil {
		slog.Warn("command reply failed", slog.Int64("chat_id", chatID), slog.Any("err", err))
	}
}
