package texture

import (
	"image"

	"gioui.org/f32"
	"gioui.org/layout"
)

// Grid describes the stretchable regions of a nine-patch as a 3x3 grid divided
// by 4 lines. Distances are measured on the image without its marker border.
type Grid struct {
	// Size specifies the total dimensions including static and stretch regions.
	Size image.Point
	// X1 is the distance in pixels before the stretchable region along the X axis.
	// X2 is the distance in pixels after the stretchable region along the X axis.
	X1, X2 int
	// Y1 is the distance in pixels before the stretchable region along the Y axis.
	// Y2 is the distance in pixels after the stretchable region along the Y axis.
	Y1, Y2 int
}

// Border returns the border thickness a nine-slice uses for this grid. Nine
// slices are symmetric, so the thicker side of each axis wins.
func (g Grid) Border() f32.Point {
	return f32.Pt(float32(max(g.X1, g.X2)), float32(max(g.Y1, g.Y2)))
}

// NinePatch is a decoded nine-patch image.
type NinePatch struct {
	// Image without the 1px marker border.
	Image *image.NRGBA
	// Grid of static and stretch regions.
	Grid Grid
	// Content is the padding declared by the bottom and right markers.
	Content Insets
}

// Texture wraps the nine-patch as a texture with an explicit border and
// padding.
func (np NinePatch) Texture(key string) *Texture {
	t := FromImage(key, np.Image)
	border := np.Grid.Border()
	t.Border = &border
	padding := np.Content
	t.Padding = &padding
	return t
}

// DecodeNinePatch from source image.
// https://developer.android.com/guide/topics/graphics/drawables#nine-patch
//
// Note: Any colored pixel around the border will be considered a marker.
func DecodeNinePatch(src image.Image) NinePatch {
	var (
		b       = src.Bounds()
		content = Insets{}
		x1, x2  = 0, 0
		y1, y2  = 0, 0
	)
	if b.Dx() < 3 || b.Dy() < 3 {
		return NinePatch{Image: image.NewNRGBA(image.Rectangle{})}
	}
	// Marker offsets include the marker border itself, which is cropped.
	right := walk(src, b.Dx()-1, layout.Vertical)
	if right.IsValid() {
		content.Top = float32(right.Start - 1)
		content.Bottom = float32(b.Dy() - 1 - right.End)
	}
	bottom := walk(src, b.Dy()-1, layout.Horizontal)
	if bottom.IsValid() {
		content.Left = float32(bottom.Start - 1)
		content.Right = float32(b.Dx() - 1 - bottom.End)
	}
	left := walk(src, 0, layout.Vertical)
	if left.IsValid() {
		y1, y2 = left.Start-1, b.Dy()-1-left.End
	}
	top := walk(src, 0, layout.Horizontal)
	if top.IsValid() {
		x1, x2 = top.Start-1, b.Dx()-1-top.End
	}
	img := crop(src)
	return NinePatch{
		Image:   img,
		Content: content,
		Grid: Grid{
			Size: img.Bounds().Size(),
			X1:   x1, X2: x2,
			Y1: y1, Y2: y2,
		},
	}
}

// crop copies src without the 1px border containing the markers.
func crop(src image.Image) *image.NRGBA {
	b := src.Bounds()
	inner := image.Rect(b.Min.X+1, b.Min.Y+1, b.Max.X-1, b.Max.Y-1)
	return toNRGBA(subImage(src, inner))
}

func subImage(src image.Image, r image.Rectangle) image.Image {
	if s, ok := src.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return s.SubImage(r)
	}
	out := image.NewNRGBA(image.Rectangle{Max: r.Size()})
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out.Set(x-r.Min.X, y-r.Min.Y, src.At(x, y))
		}
	}
	return out
}

// line encodes a one-dimensional line.
type line struct {
	Start, End int
}

func (l line) IsValid() bool {
	return l.Start > -1 && l.End > -1
}

// walk pixels in the source image, along the specified main axis, and offset
// along the cross axis, returning a line that describes the length of any
// squence of colored pixels. Offsets are relative to the image origin.
//
// Corner pixels are skipped. A line running into the far corner ends there.
func walk(src image.Image, offset int, axis layout.Axis) line {
	var (
		b    = src.Bounds()
		end  = axis.Convert(b.Size()).X - 1
		line = line{Start: -1, End: -1}
	)
	for ii := 1; ii < end; ii++ {
		pt := axis.Convert(image.Point{X: ii, Y: offset}).Add(b.Min)
		r, g, bl, a := src.At(pt.X, pt.Y).RGBA()
		var (
			colorIsSet = r > 0 || g > 0 || bl > 0 || a > 0
			startIsSet = line.Start > -1
		)
		if colorIsSet && !startIsSet {
			line.Start = ii
		}
		if !colorIsSet && startIsSet {
			line.End = ii
			break
		}
	}
	if line.Start > -1 && line.End < 0 {
		line.End = end
	}
	return line
}
