// Package nineslice implements nine-slice (border scaling) geometry and the
// per-widget cache that keeps it across frames.
//
// A texture is cut into a 3x3 grid: the four corners are drawn at their
// natural size, the four edges stretch along one axis, and the center
// stretches along both. The border art therefore stays crisp at any size.
package nineslice

import (
	"fmt"

	"gioui.org/f32"
	"github.com/chewxy/math32"
)

// BorderRatio is the number the texture size is divided by to find the
// border thickness of a nine-slice texture.
const BorderRatio float32 = 4.0

// Region indexes one of the nine cells of a nine-slice, in row-major order.
type Region int

const (
	TopLeft Region = iota
	Top
	TopRight
	Left
	Center
	Right
	BottomLeft
	Bottom
	BottomRight
)

func (r Region) String() string {
	switch r {
	case TopLeft:
		return "top-left"
	case Top:
		return "top"
	case TopRight:
		return "top-right"
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	case BottomLeft:
		return "bottom-left"
	case Bottom:
		return "bottom"
	case BottomRight:
		return "bottom-right"
	}
	return fmt.Sprintf("Region(%d)", int(r))
}

// Rect is an axis aligned rectangle in floating point coordinates.
// Min is inclusive, Max exclusive, the same convention as image.Rectangle.
type Rect struct {
	Min, Max f32.Point
}

// R is shorthand for Rect{Min: f32.Pt(x0, y0), Max: f32.Pt(x1, y1)}.
func R(x0, y0, x1, y1 float32) Rect {
	return Rect{Min: f32.Pt(x0, y0), Max: f32.Pt(x1, y1)}
}

// Dx returns the width of r.
func (r Rect) Dx() float32 {
	return r.Max.X - r.Min.X
}

// Dy returns the height of r.
func (r Rect) Dy() float32 {
	return r.Max.Y - r.Min.Y
}

// Size returns the width and height of r.
func (r Rect) Size() f32.Point {
	return r.Max.Sub(r.Min)
}

// Area returns the width times the height of r.
func (r Rect) Area() float32 {
	return r.Dx() * r.Dy()
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Inverted reports whether r has a minimum beyond its maximum on some axis.
func (r Rect) Inverted() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Eq reports whether r and s are within tolerance of each other on
// every coordinate.
func (r Rect) Eq(s Rect, tolerance float32) bool {
	return math32.Abs(r.Min.X-s.Min.X) <= tolerance &&
		math32.Abs(r.Min.Y-s.Min.Y) <= tolerance &&
		math32.Abs(r.Max.X-s.Max.X) <= tolerance &&
		math32.Abs(r.Max.Y-s.Max.Y) <= tolerance
}

func (r Rect) String() string {
	return fmt.Sprintf("[(%g,%g),(%g,%g)]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// Regions holds the nine cells of a nine-slice, indexed by Region.
type Regions [9]Rect

// At returns the cell for region r.
func (rs Regions) At(r Region) Rect {
	return rs[r]
}

// BorderThickness derives the border thickness of a nine-slice texture from
// its pixel size.
func BorderThickness(textureSize f32.Point) f32.Point {
	return BorderThicknessRatio(textureSize, BorderRatio)
}

// BorderThicknessRatio derives the border thickness using a custom ratio.
func BorderThicknessRatio(textureSize f32.Point, ratio float32) f32.Point {
	return textureSize.Div(ratio)
}

// UVRegions partitions the unit square into nine cells for a texture of the
// given pixel size and border thickness. The result is in normalized texture
// space and independent of where the texture is drawn.
//
// textureSize must be non-zero on both axes.
func UVRegions(textureSize, border f32.Point) Regions {
	bx := border.X / textureSize.X
	by := border.Y / textureSize.Y
	return grid(
		[4]float32{0, bx, 1 - bx, 1},
		[4]float32{0, by, 1 - by, 1},
	)
}

// DestinationRegions partitions target into nine cells with the given border
// thickness. A border wider than half the target on some axis is clamped to
// half, collapsing the middle column or row to zero size instead of
// producing inverted rectangles.
func DestinationRegions(target Rect, border f32.Point) Regions {
	bx := math32.Min(math32.Max(border.X, 0), target.Dx()/2)
	by := math32.Min(math32.Max(border.Y, 0), target.Dy()/2)
	return grid(
		[4]float32{target.Min.X, target.Min.X + bx, target.Max.X - bx, target.Max.X},
		[4]float32{target.Min.Y, target.Min.Y + by, target.Max.Y - by, target.Max.Y},
	)
}

// grid builds the nine cells from column and row breakpoints. Neighbouring
// cells share breakpoint values, so the cells tile without gaps.
func grid(cols, rows [4]float32) Regions {
	var rs Regions
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			rs[row*3+col] = Rect{
				Min: f32.Pt(cols[col], rows[row]),
				Max: f32.Pt(cols[col+1], rows[row+1]),
			}
		}
	}
	return rs
}

// Axis names a geometry axis in errors.
type Axis string

const (
	Horizontal Axis = "x"
	Vertical   Axis = "y"
)

// DegenerateGeometryError reports a border thickness that leaves no room for
// the middle row or column of a nine-slice.
type DegenerateGeometryError struct {
	// Subject is what the border was checked against: "texture" or "target".
	Subject string
	Axis    Axis
	Border  float32
	Extent  float32
}

func (e *DegenerateGeometryError) Error() string {
	if e.Extent <= 0 {
		return fmt.Sprintf("nineslice: %s has no extent on %s axis", e.Subject, e.Axis)
	}
	return fmt.Sprintf("nineslice: border %g on %s axis leaves no center in %s extent %g",
		e.Border, e.Axis, e.Subject, e.Extent)
}

// CheckGeometry reports whether border is usable for a texture of the given
// size drawn into target. The texture must be non-empty and the border
// strictly less than half of it; the target may be as small as twice the
// border, which collapses its center to zero.
func CheckGeometry(textureSize f32.Point, target Rect, border f32.Point) error {
	axes := []struct {
		axis             Axis
		border, tex, dst float32
	}{
		{Horizontal, border.X, textureSize.X, target.Dx()},
		{Vertical, border.Y, textureSize.Y, target.Dy()},
	}
	for _, a := range axes {
		if a.tex <= 0 || 2*a.border >= a.tex {
			return &DegenerateGeometryError{Subject: "texture", Axis: a.axis, Border: a.border, Extent: a.tex}
		}
	}
	for _, a := range axes {
		if 2*a.border > a.dst {
			return &DegenerateGeometryError{Subject: "target", Axis: a.axis, Border: a.border, Extent: a.dst}
		}
	}
	return nil
}
