package frame

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/x/component"
)

// Simple is a geometry-free decoration: a rounded rectangle with an optional
// stroke.
type Simple struct {
	Fill         color.NRGBA
	Stroke       color.NRGBA
	StrokeWidth  unit.Dp
	CornerRadius unit.Dp
}

// Layout w inside the decoration, honouring the margins of s.
func (d Simple) Layout(gtx C, s Style, w layout.Widget) D {
	return s.OuterMargin.Layout(gtx, func(gtx C) D {
		return widget.Border{
			Color:        d.Stroke,
			CornerRadius: d.CornerRadius,
			Width:        d.StrokeWidth,
		}.Layout(gtx, func(gtx C) D {
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					return component.Rect{
						Color: d.Fill,
						Size:  gtx.Constraints.Min,
						Radii: gtx.Dp(d.CornerRadius),
					}.Layout(gtx)
				},
				func(gtx C) D {
					return s.InnerMargin.Layout(gtx, w)
				},
			)
		})
	})
}
