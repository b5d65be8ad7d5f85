// Package frame lays out widgets inside decorative frames: nine-slice border
// art or a simple filled and stroked rectangle.
package frame

import (
	"image"
	"image/color"
	"log/slog"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/component"
	"git.sr.ht/~gioverse/nineslice"
	"git.sr.ht/~gioverse/nineslice/state"
	"git.sr.ht/~gioverse/nineslice/texture"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// Style configures a frame. It is a plain value: build it once, fields do
// not depend on each other.
type Style struct {
	// Texture is the asset key of the nine-slice border art. When empty the
	// Simple decoration is used.
	Texture string
	// Tint multiplies the border art. Zero means opaque white.
	Tint color.NRGBA
	// InnerMargin separates the content from the border. The border
	// thickness is added on every side.
	InnerMargin layout.Inset
	// OuterMargin separates the frame from its surroundings.
	OuterMargin layout.Inset
	// Transparent leaves the area behind the content unfilled. Otherwise it
	// is filled with Background.
	Transparent bool
	Background  color.NRGBA
	// Simple decorates frames without a texture.
	Simple Simple
}

// Frame lays out content inside a nine-slice border.
//
// Frames are cheap to construct every frame: the derived geometry lives in
// the Cache store under ID, not in the Frame.
type Frame struct {
	// ID addresses the frame's cached geometry. Zero derives an ID from
	// the texture key alone, so unsalted frames sharing a texture also share
	// a cache slot and rebuild each other's geometry every frame. A warning
	// is logged once per Frame when neither ID nor Salt is set.
	ID state.ID
	// Salt distinguishes frames sharing an ID.
	Salt string
	Style
	// Textures provides the border art.
	Textures *texture.Manager
	// Cache keeps geometry across frames.
	Cache *nineslice.Resolver
	// Async loads textures in the background instead of blocking layout.
	// Content is laid out undecorated until the texture arrives.
	Async bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	err    error
	entry  nineslice.Entry
	warned bool
}

// Err reports the error of the most recent layout, typically a
// *texture.AssetLoadError.
func (f *Frame) Err() error {
	return f.err
}

// Entry returns the geometry used by the most recent layout.
func (f *Frame) Entry() nineslice.Entry {
	return f.entry
}

func (f *Frame) id() state.ID {
	id := f.ID
	if id == 0 {
		id = state.NewID("frame", f.Texture)
		if f.Salt == "" && !f.warned {
			f.warned = true
			f.logger().Warn("nine-slice frame without ID or Salt shares its cache slot with every frame using the texture", "texture", f.Texture)
		}
	}
	if f.Salt != "" {
		id = id.With(f.Salt)
	}
	return id
}

func (f *Frame) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// texture returns the border art, or nil while it is loading or when it
// failed to load.
func (f *Frame) texture() (*texture.Texture, error) {
	if f.Async {
		res := f.Textures.Schedule(f.Texture)
		if res.State != texture.Loaded {
			return nil, nil
		}
		return res.Texture, res.Err
	}
	return f.Textures.Get(f.Texture)
}

// Layout w inside the frame.
func (f *Frame) Layout(gtx C, w layout.Widget) D {
	if f.Texture == "" {
		f.err = nil
		return f.Simple.Layout(gtx, f.Style, w)
	}
	tex, err := f.texture()
	f.err = err
	if tex == nil {
		return f.layoutUndecorated(gtx, w)
	}
	var (
		scale = gtx.Metric.PxPerDp
		inner = widen(f.InnerMargin, tex)
	)
	if scale == 0 {
		scale = 1
	}
	// Content is recorded first so that the border, which depends on the
	// content size, is painted beneath it.
	macro := op.Record(gtx.Ops)
	dims := f.OuterMargin.Layout(gtx, func(gtx C) D {
		return inner.Layout(gtx, w)
	})
	content := macro.Stop()

	var (
		avail  = f32.Pt(float32(gtx.Constraints.Max.X), float32(gtx.Constraints.Max.Y)).Div(scale)
		px     = outerPixels(gtx, f.OuterMargin)
		target = nineslice.Rect{
			Min: f32.Pt(float32(px.Min.X), float32(px.Min.Y)).Div(scale),
			Max: f32.Pt(float32(dims.Size.X-px.Max.X), float32(dims.Size.Y-px.Max.Y)).Div(scale),
		}
	)
	entry, err := f.Cache.Resolve(f.id(), tex, target, avail, f.Tint)
	if err != nil {
		f.err = err
		f.logger().Error("nine-slice frame", "texture", f.Texture, "err", err)
		content.Add(gtx.Ops)
		return dims
	}
	f.entry = entry
	if !f.Transparent {
		f.fill(gtx, target, scale)
	}
	entry.Paint(Painter{Ops: gtx.Ops, Scale: scale})
	content.Add(gtx.Ops)
	return dims
}

// fill paints the background behind the content area.
func (f *Frame) fill(gtx C, target nineslice.Rect, scale float32) {
	r := pixels(nineslice.Rect{Min: target.Min.Mul(scale), Max: target.Max.Mul(scale)})
	defer op.Offset(r.Min).Push(gtx.Ops).Pop()
	component.Rect{Color: f.Background, Size: r.Size()}.Layout(gtx)
}

func (f *Frame) layoutUndecorated(gtx C, w layout.Widget) D {
	return f.OuterMargin.Layout(gtx, func(gtx C) D {
		return f.InnerMargin.Layout(gtx, w)
	})
}

// widen adds the space the border art occupies to margin: the declared
// padding of a nine-patch texture, else the border thickness on each side.
func widen(margin layout.Inset, tex *texture.Texture) layout.Inset {
	if p := tex.Padding; p != nil {
		margin.Top += unit.Dp(p.Top)
		margin.Right += unit.Dp(p.Right)
		margin.Bottom += unit.Dp(p.Bottom)
		margin.Left += unit.Dp(p.Left)
		return margin
	}
	b := nineslice.Border(tex)
	margin.Top += unit.Dp(b.Y)
	margin.Bottom += unit.Dp(b.Y)
	margin.Left += unit.Dp(b.X)
	margin.Right += unit.Dp(b.X)
	return margin
}

// outerPixels returns the outer margin in pixels, as a rectangle whose Min is
// the top-left margin and Max the bottom-right margin.
func outerPixels(gtx C, in layout.Inset) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(gtx.Dp(in.Left), gtx.Dp(in.Top)),
		Max: image.Pt(gtx.Dp(in.Right), gtx.Dp(in.Bottom)),
	}
}
