package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/artwork"
)

const halfBlock = "▀"

// renderThumbnail draws img into cols x rows terminal cells, two pixels per
// cell. While fade < 1 the previous image is blended underneath.
func renderThumbnail(img, prev image.Image, fade float64, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	cur := artwork.Scale(img, cols, rows*2)
	if cur == nil {
		return ""
	}
	var old image.Image
	if prev != nil && fade < 1 {
		old = artwork.Scale(prev, cols, rows*2)
	}

	var b strings.Builder
	for y := range rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := range cols {
			top := blend(cur, old, fade, x, 2*y)
			bottom := blend(cur, old, fade, x, 2*y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
	}
	return b.String()
}

// blend returns the hex color of pixel (x, y) mixed between old and cur.
func blend(cur, old image.Image, fade float64, x, y int) string {
	r, g, b := rgb8(cur, x, y)
	if old != nil {
		or, og, ob := rgb8(old, x, y)
		r = mix(or, r, fade)
		g = mix(og, g, fade)
		b = mix(ob, b, fade)
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	origin := img.Bounds().Min
	r, g, b, _ := img.At(origin.X+x, origin.Y+y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func mix(from, to uint8, t float64) uint8 {
	return uint8(float64(from) + (float64(to)-float64(from))*t)
}
