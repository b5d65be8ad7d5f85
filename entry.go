package nineslice

import (
	"image/color"

	"gioui.org/f32"
	"git.sr.ht/~gioverse/nineslice/texture"
)

// Painter paints a region of a texture into a destination rectangle,
// multiplied by a tint.
type Painter interface {
	Image(tex *texture.Texture, dst, uv Rect, tint color.NRGBA)
}

// Quad is a single textured rectangle: the UV region of Texture stretched
// over Dst.
type Quad struct {
	Texture *texture.Texture
	Dst, UV Rect
	Tint    color.NRGBA
}

// Shape is a precombined drawable, painted in order.
type Shape []Quad

// Paint issues every quad of the shape to p.
func (s Shape) Paint(p Painter) {
	for _, q := range s {
		p.Image(q.Texture, q.Dst, q.UV, q.Tint)
	}
}

// Entry is the cached geometry of one nine-slice. Entries are values: a
// changed entry is rebuilt, never modified in place.
type Entry struct {
	Texture *texture.Texture
	// Border thickness the regions were cut with.
	Border f32.Point
	// UV holds the regions in normalized texture space; UV[i] is drawn
	// over Dst[i].
	UV Regions
	// Dst holds the regions in layout coordinates.
	Dst Regions
	// Target is the area Dst tiles.
	Target Rect
	// Available is the layout size the entry was built for. It is the
	// freshness key.
	Available f32.Point
	Tint      color.NRGBA
	// Shape is nil until attached by the resolver.
	Shape Shape
}

// Border returns the border thickness for tex: the explicit border of a
// nine-patch texture, or the size divided by BorderRatio.
func Border(tex *texture.Texture) f32.Point {
	if tex.Border != nil {
		return *tex.Border
	}
	return BorderThickness(tex.Size)
}

// Build computes the entry for drawing tex over target. avail becomes the
// freshness key. No Shape is attached.
//
// Build fails with *DegenerateGeometryError only for textures without
// pixels; a border too thick for target is clamped (see DestinationRegions).
func Build(tex *texture.Texture, target Rect, avail f32.Point, tint color.NRGBA) (Entry, error) {
	if tex.Size.X <= 0 {
		return Entry{}, &DegenerateGeometryError{Subject: "texture", Axis: Horizontal, Extent: tex.Size.X}
	}
	if tex.Size.Y <= 0 {
		return Entry{}, &DegenerateGeometryError{Subject: "texture", Axis: Vertical, Extent: tex.Size.Y}
	}
	if tint == (color.NRGBA{}) {
		tint = texture.White
	}
	border := Border(tex)
	return Entry{
		Texture:   tex,
		Border:    border,
		UV:        UVRegions(tex.Size, border),
		Dst:       DestinationRegions(target, border),
		Target:    target,
		Available: avail,
		Tint:      tint,
	}, nil
}

// Compose returns the shape painting every region of e.
func (e Entry) Compose() Shape {
	shape := make(Shape, len(e.UV))
	for ii := range e.UV {
		shape[ii] = Quad{
			Texture: e.Texture,
			Dst:     e.Dst[ii],
			UV:      e.UV[ii],
			Tint:    e.Tint,
		}
	}
	return shape
}

// Paint paints e, using its cached shape when present.
func (e Entry) Paint(p Painter) {
	if e.Shape != nil {
		e.Shape.Paint(p)
		return
	}
	e.Compose().Paint(p)
}
