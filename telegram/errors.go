package telegram

import (
	"strings"

	"github.com/railbeacon/train-live-bot/tracker"
)

// ClassifyEditError maps a Bot API edit failure onto a tracker.EditOutcome.
//
// Not-found outcomes (the message or chat is gone; stop editing it):
// - message deleted or id invalid
// - chat not found, bot blocked/kicked, user deactivated
//
// Transient outcomes (safe to retry on the next cycle):
// - rate limiting (429 / retry after)
// - network errors, timeouts, Telegram 5xx
//
// "message is not modified" is a no-op edit, reported as EditOK.
func ClassifyEditError(err error) tracker.EditOutcome {
	if err == nil {
		return tracker.EditOK
	}
	lower := strings.ToLower(err.Error())

	if strings.Contains(lower, "message is not modified") {
		return tracker.EditOK
	}

	goneParts := []string{
		"message to edit not found",
		"message_id_invalid",
		"message can't be edited",
		"chat not found",
		"bot was blocked",
		"bot was kicked",
		"user is deactivated",
		"not enough rights",
		"forbidden",
	}
	for _, p := range goneParts {
		if strings.Contains(lower, p) {
			return tracker.EditNotFound
		}
	}

	// Unknown errors are treated as transient so a flaky edit never
	// permanently abandons a live message.
	return tracker.EditTransient
}
