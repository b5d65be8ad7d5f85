/*
Package debug provides tools for debugging nine-slice layout code.
*/
package debug

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"git.sr.ht/~gioverse/nineslice"
	"github.com/chewxy/math32"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// Outline traces a small black outline around the provided widget.
func Outline(gtx C, w func(gtx C) D) D {
	return widget.Border{
		Color: color.NRGBA{A: 255},
		Width: unit.Dp(1),
	}.Layout(gtx, w)
}

// Regions traces the nine destination regions of e, in the coordinate space
// of the widget that resolved it. Corners, edges and the center get
// different shades of col. Collapsed regions are skipped.
func Regions(gtx C, e nineslice.Entry, col color.NRGBA) {
	for _, o := range outlines(gtx, e, col) {
		paint.FillShape(gtx.Ops, o.Color, clip.Stroke{
			Path:  clip.Rect(o.Rect).Path(),
			Width: 1,
		}.Op())
	}
}

// outline is a region to trace, in pixels.
type outline struct {
	Region nineslice.Region
	Rect   image.Rectangle
	Color  color.NRGBA
}

// outlines returns the non-empty regions of e in pixels.
func outlines(gtx C, e nineslice.Entry, col color.NRGBA) []outline {
	scale := gtx.Metric.PxPerDp
	if scale == 0 {
		scale = 1
	}
	var out []outline
	for ii, r := range e.Dst {
		px := image.Rect(
			int(math32.Round(r.Min.X*scale)), int(math32.Round(r.Min.Y*scale)),
			int(math32.Round(r.Max.X*scale)), int(math32.Round(r.Max.Y*scale)),
		)
		if px.Empty() {
			continue
		}
		c := col
		switch nineslice.Region(ii) {
		case nineslice.Center:
			c.A /= 4
		case nineslice.Top, nineslice.Bottom, nineslice.Left, nineslice.Right:
			c.A /= 2
		}
		out = append(out, outline{Region: nineslice.Region(ii), Rect: px, Color: c})
	}
	return out
}
