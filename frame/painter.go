package frame

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"git.sr.ht/~gioverse/nineslice"
	"git.sr.ht/~gioverse/nineslice/texture"
	"github.com/chewxy/math32"
)

// Painter paints nine-slice quads into a Gio operation list.
type Painter struct {
	Ops *op.Ops
	// Scale converts quad coordinates to pixels. Zero means 1.
	Scale float32
}

// Image stretches the uv region of tex over dst.
func (p Painter) Image(tex *texture.Texture, dst, uv nineslice.Rect, tint color.NRGBA) {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	dst = nineslice.Rect{Min: dst.Min.Mul(scale), Max: dst.Max.Mul(scale)}
	src := nineslice.Rect{
		Min: f32.Pt(uv.Min.X*tex.Size.X, uv.Min.Y*tex.Size.Y),
		Max: f32.Pt(uv.Max.X*tex.Size.X, uv.Max.Y*tex.Size.Y),
	}
	if dst.Empty() || src.Empty() {
		return
	}
	// Clip to the destination, then map the source region onto it.
	defer clip.Rect(pixels(dst)).Push(p.Ops).Pop()
	tr := f32.Affine2D{}.
		Offset(src.Min.Mul(-1)).
		Scale(f32.Point{}, f32.Pt(dst.Dx()/src.Dx(), dst.Dy()/src.Dy())).
		Offset(dst.Min)
	defer op.Affine(tr).Push(p.Ops).Pop()
	tex.Op(tint).Add(p.Ops)
	paint.PaintOp{}.Add(p.Ops)
}

// pixels snaps r to whole pixels.
func pixels(r nineslice.Rect) image.Rectangle {
	return image.Rect(
		int(math32.Round(r.Min.X)), int(math32.Round(r.Min.Y)),
		int(math32.Round(r.Max.X)), int(math32.Round(r.Max.Y)),
	)
}
