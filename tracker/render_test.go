package tracker

import (
	"strings"
	"testing"
	"time"

	"github.com/railbeacon/train-live-bot/railapi"
)

func i64(v int64) *int64 { return &v }
func pint(v int) *int    { return &v }

func renderInput() (StationContext, railapi.PositionSnapshot) {
	route := []railapi.RouteStation{
		{
			StationCode:                 "KOTA",
			StationName:                 "Kota Jn",
			PlatformNumber:              pint(2),
			ScheduledArrivalTime:        i64(1700000000),
			ActualArrivalTime:           i64(1700000720),
			ScheduledDepartureDelaySecs: i64(720),
		},
		{
			StationCode:          "NDLS",
			StationName:          "New Delhi",
			PlatformNumber:       pint(5),
			ScheduledArrivalTime: i64(1700010000),
			ActualArrivalTime:    i64(1700010600),
		},
		{
			StationCode:          "GZB",
			StationName:          "Ghaziabad",
			ScheduledArrivalTime: i64(1700020000),
		},
	}
	sc := ResolveContext(route, "NDLS")
	pos := railapi.PositionSnapshot{
		StationCode:               "NDLS",
		DistanceFromOriginKm:      1384.26,
		DistanceFromLastStationKm: 12.07,
	}
	return sc, pos
}

func TestRenderStatusDeterministic(t *testing.T) {
	sc, pos := renderInput()
	a, ok := RenderStatus("12951", sc, pos, time.UTC)
	if !ok {
		t.Fatal("expected renderable context")
	}
	b, _ := RenderStatus("12951", sc, pos, time.UTC)
	if a != b {
		t.Fatalf("render not deterministic:\n%q\n%q", a, b)
	}
}

func TestRenderStatusContent(t *testing.T) {
	sc, pos := renderInput()
	text, ok := RenderStatus("12951", sc, pos, time.UTC)
	if !ok {
		t.Fatal("expected renderable context")
	}
	for _, want := range []string{
		"Train *12951*",
		"Current Station: *New Delhi*",
		"1384.3 km",
		"12.1 km",
		"⬅️ Previous Station",
		"Kota Jn",
		"Platform: 2",
		"12 minute late",
		"➡️ Next Station",
		"Ghaziabad",
		"Platform: N/A",
		"On Time",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderStatusUnresolved(t *testing.T) {
	if _, ok := RenderStatus("12951", StationContext{}, railapi.PositionSnapshot{}, time.UTC); ok {
		t.Fatal("unresolved context must not be renderable")
	}
}

func TestRenderStatusBoundaryBlocksOmitted(t *testing.T) {
	route := []railapi.RouteStation{{StationCode: "BCT", StationName: "Mumbai Central"}}
	sc := ResolveContext(route, "BCT")
	text, ok := RenderStatus("12951", sc, railapi.PositionSnapshot{StationCode: "BCT"}, time.UTC)
	if !ok {
		t.Fatal("expected renderable context")
	}
	if strings.Contains(text, "Previous Station") || strings.Contains(text, "Next Station") {
		t.Fatalf("boundary render must omit neighbor blocks:\n%s", text)
	}
}

func TestClassifyDelay(t *testing.T) {
	cases := []struct {
		name string
		secs *int64
		want string
	}{
		{"absent", nil, "On Time"},
		{"zero", i64(0), "On Time"},
		{"negative", i64(-300), "On Time"},
		{"under a minute", i64(59), "0 minute late"},
		{"ninety seconds", i64(90), "1 minute late"},
		{"just over an hour", i64(3660), "1 hour 1 minute late"},
		{"two hours", i64(7200), "2 hour 0 minute late"},
	}
	for _, tc := range cases {
		if got := ClassifyDelay(tc.secs); got != tc.want {
			t.Errorf("%s: ClassifyDelay = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestAnimationFramesPreserveFacts(t *testing.T) {
	sc, pos := renderInput()
	base, _ := RenderStatus("12951", sc, pos, time.UTC)
	frames := AnimationFrames(base)
	if len(frames) != len(frameGlyphs) {
		t.Fatalf("frames = %d, want %d", len(frames), len(frameGlyphs))
	}
	for idx, f := range frames {
		// Un-apply the decorative substitution; everything else must match.
		restored := strings.Replace(f, frameGlyphs[idx], currentMarker, 1)
		if restored != base {
			t.Errorf("frame %d alters non-decorative content:\n%q\n%q", idx, f, base)
		}
	}
}

func TestAnimationFramesDoNotCompound(t *testing.T) {
	sc, pos := renderInput()
	base, _ := RenderStatus("12951", sc, pos, time.UTC)
	once := AnimationFrames(base)
	again := AnimationFrames(base)
	for i := range once {
		if once[i] != again[i] {
			t.Errorf("frame %d unstable across derivations", i)
		}
	}
}
