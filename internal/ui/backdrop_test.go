package ui

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/five82/marquee/internal/artwork"
	"github.com/five82/marquee/internal/diff"
	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/prefs"
)

func solid(c color.Color, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

type solidLoader struct{ img image.Image }

func (l solidLoader) Load(ctx context.Context, url string) (image.Image, error) {
	return l.img, nil
}

func TestAverageColor(t *testing.T) {
	split := image.NewRGBA(image.Rect(0, 0, 16, 16))
	draw.Draw(split, image.Rect(0, 0, 8, 16), &image.Uniform{C: color.RGBA{R: 200, A: 255}}, image.Point{}, draw.Src)
	draw.Draw(split, image.Rect(8, 0, 16, 16), &image.Uniform{C: color.RGBA{B: 100, A: 255}}, image.Point{}, draw.Src)

	tests := []struct {
		name string
		img  image.Image
		want player.RGB
		ok   bool
	}{
		{name: "nil", img: nil},
		{name: "empty", img: image.NewRGBA(image.Rect(0, 0, 0, 0))},
		{name: "solid", img: solid(color.RGBA{R: 0x20, G: 0x40, B: 0x60, A: 0xff}, 40, 30), want: player.RGB{R: 0x20, G: 0x40, B: 0x60}, ok: true},
		{name: "halves", img: split, want: player.RGB{R: 100, B: 50}, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := averageColor(tt.img)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("averageColor = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRenderBackdrop(t *testing.T) {
	now := time.Now()
	if got := renderBackdrop(Frame{}, now, 20); got != "" {
		t.Fatalf("backdrop without asset = %q, want empty", got)
	}
	noBackground := Frame{Asset: &artwork.Asset{URL: "a"}}
	if got := renderBackdrop(noBackground, now, 20); got != "" {
		t.Fatalf("backdrop without composite = %q, want empty", got)
	}

	f := Frame{Asset: &artwork.Asset{URL: "a", Background: solid(color.White, 64, 36)}}
	got := renderBackdrop(f, now, 20)
	if w := lipgloss.Width(got); w != 20 {
		t.Fatalf("backdrop width = %d, want 20", w)
	}
	if strings.Count(got, halfBlock) != 20 || strings.Contains(got, "\n") {
		t.Fatalf("backdrop = %q, want one row of 20 cells", got)
	}
}

// renderWithTint runs a real background render into a sized model and returns
// the screen and the theme it was drawn with.
func renderWithTint(t *testing.T, tint bool) (string, Theme) {
	t.Helper()
	h, m := newHarness(t, fakeHealth{})
	if err := h.prefs.Set(prefs.BackgroundTint, tint); err != nil {
		t.Fatalf("Set: %v", err)
	}
	pipeline := artwork.New(artwork.Options{
		Loader:  solidLoader{img: solid(color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, 64, 64)},
		Surface: h.bridge,
		Prefs:   h.prefs,
		Logger:  log.New(io.Discard),
		Width:   64,
		Height:  36,
	})
	img := player.ImageData{
		URL: "https://img/a.jpg",
		Colors: player.ImageColors{
			Primary:   player.RGB{R: 0xe0, G: 0x30, B: 0x30},
			Secondary: player.RGB{R: 0x10, G: 0x20, B: 0x60},
		},
	}
	if err := pipeline.Apply(context.Background(), diff.Change[player.ImageData]{Changed: true, Value: img}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(t, m, frameMsg{})
	if m.frame.Asset == nil || m.frame.Asset.Background == nil {
		t.Fatal("frame has no rendered background")
	}
	return m.View(), m.theme()
}

func TestModel_BackgroundTintChangesScreen(t *testing.T) {
	previous := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })

	tinted, tintedTheme := renderWithTint(t, true)
	plain, plainTheme := renderWithTint(t, false)

	if tintedTheme.Background == plainTheme.Background {
		t.Fatalf("theme background %s did not follow the tint", tintedTheme.Background)
	}
	if tinted == plain {
		t.Fatal("toggling bg-tint did not change the rendered screen")
	}
	if !strings.Contains(tinted, halfBlock) {
		t.Fatal("screen has no backdrop band")
	}
}
