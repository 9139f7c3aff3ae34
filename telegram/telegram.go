// Package telegram wraps the Telegram Bot API behind the small transport
// surface the tracker needs: send a message, edit a message with a typed
// outcome, and a long-poll update stream for commands.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/railbeacon/train-live-bot/tracker"
)

// Bot is a Telegram transport implementing tracker.Messenger.
type Bot struct {
	api *tgbotapi.BotAPI
}

// New authenticates against the Bot API with the given token.
func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Bot{api: api}, nil
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// SendMessage sends a Markdown message and returns its message id.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("telegram send: %w", err)
	}
	return sent.MessageID, nil
}

// EditMessage edits a previously sent message in place, classifying the
// result so callers can pick between resend, retry, and log.
func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string) (tracker.EditOutcome, error) {
	if err := ctx.Err(); err != nil {
		return tracker.EditTransient, err
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		return ClassifyEditError(err), err
	}
	return tracker.EditOK, nil
}

// Updates starts long polling and returns the update channel. Polling stops
// when ctx is cancelled.
func (b *Bot) Updates(ctx context.Context) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	ch := b.api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		slog.Info("stopping telegram update polling")
		b.api.StopReceivingUpdates()
	}()
	return ch
}
