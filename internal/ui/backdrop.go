package ui

import (
	"image"
	"time"

	"github.com/five82/marquee/internal/player"
)

// backdropRows is the height of the band showing the rendered background.
const backdropRows = 1

// backdropSamples is the grid size used to average the background.
const backdropSamples = 16

// renderBackdrop draws the background composite as a full-width band,
// crossfaded against the previous composite.
func renderBackdrop(f Frame, now time.Time, width int) string {
	if f.Asset == nil || f.Asset.Background == nil || width <= 0 {
		return ""
	}
	var prev image.Image
	if f.Previous != nil {
		prev = f.Previous.Background
	}
	return renderThumbnail(f.Asset.Background, prev, f.Fade(now), width, backdropRows)
}

// averageColor samples img on a coarse grid.
func averageColor(img image.Image) (player.RGB, bool) {
	if img == nil {
		return player.RGB{}, false
	}
	b := img.Bounds()
	if b.Empty() {
		return player.RGB{}, false
	}
	var r, g, bl, n uint64
	for sy := range backdropSamples {
		y := b.Min.Y + sy*b.Dy()/backdropSamples
		for sx := range backdropSamples {
			x := b.Min.X + sx*b.Dx()/backdropSamples
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			n++
		}
	}
	return player.RGB{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n)}, true
}
