package ui

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/marquee/internal/artwork"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/progress"
	"github.com/five82/marquee/internal/tracklist"
)

func TestLogView_LogsSurfaceWrites(t *testing.T) {
	var buf bytes.Buffer
	v := NewLogView(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))

	v.SetText(controller.FieldTitle, "Song")
	v.SetText(controller.FieldTime, "0:01 / 3:00")
	v.SetFlag(controller.FlagPaused, true)
	v.SetProgress(progress.Progress{PositionMs: 1000, TotalMs: 180000})
	v.ShowTrackList(tracklist.Plan{Op: tracklist.OpShift, Removed: 1})
	v.ShowBackground(&artwork.Asset{URL: "https://img/a.jpg", Background: solid(color.RGBA{R: 0x20, G: 0x40, B: 0x60, A: 0xff}, 8, 4)}, time.Second)
	v.ShowBackground(nil, 0)

	out := buf.String()
	for _, want := range []string{"Song", "paused", "shift", "https://img/a.jpg", "8x4", "#204060"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
	for _, hidden := range []string{"0:01 / 3:00", "progress"} {
		if strings.Contains(out, hidden) {
			t.Fatalf("per-tick write %q logged at info level:\n%s", hidden, out)
		}
	}
}
