package telegram

import (
	"fmt"
	"testing"

	"github.com/railbeacon/train-live-bot/tracker"
)

func TestClassifyEditError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want tracker.EditOutcome
	}{
		{"nil", nil, tracker.EditOK},
		{"not modified", fmt.Errorf("Bad Request: message is not modified"), tracker.EditOK},
		{"message gone", fmt.Errorf("Bad Request: message to edit not found"), tracker.EditNotFound},
		{"chat gone", fmt.Errorf("Bad Request: chat not found"), tracker.EditNotFound},
		{"blocked", fmt.Errorf("Forbidden: bot was blocked by the user"), tracker.EditNotFound},
		{"kicked", fmt.Errorf("Forbidden: bot was kicked from the group chat"), tracker.EditNotFound},
		{"rate limited", fmt.Errorf("Too Many Requests: retry after 12"), tracker.EditTransient},
		{"network", fmt.Errorf("Post \"https://api.telegram.org\": connection reset by peer"), tracker.EditTransient},
		{"unknown", fmt.Errorf("something novel"), tracker.EditTransient},
	}
	for _, tc := range cases {
		if got := ClassifyEditError(tc.err); got != tc.want {
			t.Errorf("%s: ClassifyEditError = %v, want %v", tc.name, got, tc.want)
		}
	}
}
