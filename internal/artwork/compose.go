package artwork

import (
	"errors"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/five82/marquee/internal/player"
)

// ErrEmptyRender is returned when rasterization produced no pixels.
var ErrEmptyRender = errors.New("rasterized background is empty")

// blurFactor is the downsampling ratio used to approximate a gaussian blur.
const blurFactor = 24

// DefaultColors are used for the blank artwork sentinel.
var DefaultColors = player.ImageColors{
	Primary:           player.RGB{R: 0x44, G: 0x44, B: 0x4c},
	Secondary:         player.RGB{R: 0x1c, G: 0x1c, B: 0x22},
	AverageBrightness: 0.2,
}

// Style controls how the background composite is built.
type Style struct {
	Width    int
	Height   int
	Artwork  bool // blurred artwork behind the gradient
	Tint     bool // overlay tinted with the primary color
	Dim      bool // darken for legibility
	Gradient bool // gradient from primary to secondary color
}

// Compose rasterizes the background composite into a single bitmap.
func Compose(source image.Image, colors player.ImageColors, style Style) (image.Image, error) {
	w, h := style.Width, style.Height
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyRender
	}
	dc := gg.NewContext(w, h)

	primary, secondary := rgba(colors.Primary, 255), rgba(colors.Secondary, 255)
	if style.Gradient {
		grad := gg.NewLinearGradient(0, 0, float64(w), float64(h))
		grad.AddColorStop(0, primary)
		grad.AddColorStop(1, secondary)
		dc.SetFillStyle(grad)
	} else {
		dc.SetColor(secondary)
	}
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	if style.Artwork && source != nil {
		if blurred := blur(source, w, h); blurred != nil {
			dc.DrawImage(blurred, 0, 0)
		}
	}
	if style.Tint {
		dc.SetColor(rgba(colors.Primary, 0x60))
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
	}
	if style.Dim {
		dc.SetRGBA(0, 0, 0, 0.45)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
	}

	out := dc.Image()
	if out == nil || out.Bounds().Empty() {
		return nil, ErrEmptyRender
	}
	return out, nil
}

// DefaultArtwork draws the built-in artwork shown for the blank sentinel.
func DefaultArtwork(size int) image.Image {
	if size <= 0 {
		size = 64
	}
	dc := gg.NewContext(size, size)
	dc.SetColor(rgba(DefaultColors.Secondary, 255))
	dc.Clear()
	dc.SetColor(rgba(DefaultColors.Primary, 255))
	s := float64(size)
	dc.DrawCircle(s/2, s/2, s*0.38)
	dc.Fill()
	dc.SetColor(rgba(DefaultColors.Secondary, 255))
	dc.DrawCircle(s/2, s/2, s*0.08)
	dc.Fill()
	return dc.Image()
}

// Scale resizes img to exactly w x h.
func Scale(img image.Image, w, h int) image.Image {
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	dc := gg.NewContext(w, h)
	dc.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return dc.Image()
}

func blur(img image.Image, w, h int) image.Image {
	small := Scale(img, max(1, w/blurFactor), max(1, h/blurFactor))
	return Scale(small, w, h)
}

func rgba(c player.RGB, alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}
