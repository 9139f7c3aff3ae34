package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/railbeacon/train-live-bot/railapi"
)

// currentMarker prefixes the current-station line in the rendered message.
// Animation frames swap it for one of frameGlyphs; everything else in the
// text is factual and must survive every frame unchanged.
const currentMarker = "📍"

var frameGlyphs = [...]string{"🚂", "🚝", "🚄"}

// RenderStatus renders the base status message for a resolved position.
// The output is deterministic for a given input. ok=false means the context
// is unresolved and nothing should be sent or edited this cycle.
func RenderStatus(train string, sc StationContext, pos railapi.PositionSnapshot, loc *time.Location) (text string, ok bool) {
	if !sc.Resolved() {
		return "", false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🚆 Train *%s*\n", train)
	fmt.Fprintf(&b, "%s Current Station: *%s*\n", currentMarker, sc.Current.StationName)
	fmt.Fprintf(&b, "🕒 Arrived: %s\n", fmtClock(sc.Current.ActualArrivalTime, loc))
	fmt.Fprintf(&b, "📏 Distance Covered: *%.1f km*\n", pos.DistanceFromOriginKm)
	fmt.Fprintf(&b, "📏 Since Last Station: *%.1f km*\n", pos.DistanceFromLastStationKm)

	if prev := sc.Previous; prev != nil {
		b.WriteString("\n⬅️ Previous Station\n")
		fmt.Fprintf(&b, "🏁 %s\n", prev.StationName)
		fmt.Fprintf(&b, "🚉 Platform: %s\n", fmtPlatform(prev.PlatformNumber))
		fmt.Fprintf(&b, "🕒 Scheduled: %s\n", fmtClock(prev.ScheduledArrivalTime, loc))
		fmt.Fprintf(&b, "🕓 Actual: %s\n", fmtClock(prev.ActualArrivalTime, loc))
		fmt.Fprintf(&b, "⏱️ Delay: %s\n", ClassifyDelay(prev.ScheduledDepartureDelaySecs))
	}

	if next := sc.Next; next != nil {
		b.WriteString("\n➡️ Next Station\n")
		fmt.Fprintf(&b, "🚉 %s\n", next.StationName)
		fmt.Fprintf(&b, "🚉 Platform: %s\n", fmtPlatform(next.PlatformNumber))
		fmt.Fprintf(&b, "🕒 Scheduled: %s\n", fmtClock(next.ScheduledArrivalTime, loc))
		fmt.Fprintf(&b, "🕓 Expected: %s\n", fmtClock(next.ActualArrivalTime, loc))
		fmt.Fprintf(&b, "⏱️ Delay: %s\n", ClassifyDelay(next.ScheduledDepartureDelaySecs))
	}

	return b.String(), true
}

// AnimationFrames builds the decorative frame cycle for a base text. Each
// frame is derived from the base (never from a previous frame) by replacing
// the current-station marker, so repeated application cannot compound.
func AnimationFrames(base string) []string {
	frames := make([]string, 0, len(frameGlyphs))
	for _, g := range frameGlyphs {
		frames = append(frames, strings.Replace(base, currentMarker, g, 1))
	}
	return frames
}

// ClassifyDelay renders a signed delay in seconds as human text.
// Absent or non-positive delays are on time; otherwise whole minutes,
// with the hour component omitted when zero.
func ClassifyDelay(secs *int64) string {
	if secs == nil || *secs <= 0 {
		return "On Time"
	}
	m := *secs / 60
	h := m / 60
	m %= 60
	if h > 0 {
		return fmt.Sprintf("%d hour %d minute late", h, m)
	}
	return fmt.Sprintf("%d minute late", m)
}

func fmtClock(ts *int64, loc *time.Location) string {
	if ts == nil {
		return "N/A"
	}
	return time.Unix(*ts, 0).In(loc).Format("03:04 PM")
}

func fmtPlatform(p *int) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *p)
}
