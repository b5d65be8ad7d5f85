// Package texture loads border art for nine-slice frames and prepares it for
// painting with nearest-neighbour filtering, so pixel art stays crisp when
// stretched.
package texture

import (
	"image"
	"image/color"
	"sync"

	"gioui.org/f32"
	"gioui.org/op/paint"
	"github.com/anthonynsimon/bild/adjust"
)

// White is the neutral tint.
var White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Insets are distances from the edges of a texture, in pixels.
type Insets struct {
	Top, Right, Bottom, Left float32
}

// Texture is decoded border art, ready to be painted.
type Texture struct {
	// Key identifies the asset the texture was loaded from.
	Key string
	// Size of the texture in pixels.
	Size f32.Point
	// Border, when set, overrides the border thickness derived from Size.
	// Nine-patch assets carry one.
	Border *f32.Point
	// Padding, when set, is the content area declared by a nine-patch asset.
	Padding *Insets

	img *image.NRGBA

	mu  sync.Mutex
	ops map[color.NRGBA]paint.ImageOp
}

// FromImage wraps an already decoded image.
func FromImage(key string, img image.Image) *Texture {
	nrgba := toNRGBA(img)
	b := nrgba.Bounds()
	return &Texture{
		Key:  key,
		Size: f32.Pt(float32(b.Dx()), float32(b.Dy())),
		img:  nrgba,
	}
}

// Image returns the decoded pixels.
func (t *Texture) Image() *image.NRGBA {
	return t.img
}

// Op returns the image operation painting the texture multiplied by tint.
// A zero tint is treated as White. Operations are baked once per tint.
func (t *Texture) Op(tint color.NRGBA) paint.ImageOp {
	if tint == (color.NRGBA{}) {
		tint = White
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if imgOp, ok := t.ops[tint]; ok {
		return imgOp
	}
	if t.ops == nil {
		t.ops = make(map[color.NRGBA]paint.ImageOp)
	}
	var src image.Image = t.img
	if tint != White {
		src = adjust.Apply(t.img, multiply(tint))
	}
	imgOp := paint.NewImageOp(src)
	imgOp.Filter = paint.FilterNearest
	t.ops[tint] = imgOp
	return imgOp
}

// multiply returns a per-pixel function multiplying premultiplied colors by
// tint.
func multiply(tint color.NRGBA) func(color.RGBA) color.RGBA {
	a := uint32(tint.A)
	r := uint32(tint.R) * a / 0xff
	g := uint32(tint.G) * a / 0xff
	b := uint32(tint.B) * a / 0xff
	return func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: uint8(uint32(c.R) * r / 0xff),
			G: uint8(uint32(c.G) * g / 0xff),
			B: uint8(uint32(c.B) * b / 0xff),
			A: uint8(uint32(c.A) * a / 0xff),
		}
	}
}
