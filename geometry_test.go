package nineslice

import (
	"errors"
	"testing"

	"gioui.org/f32"
	"github.com/chewxy/math32"
)

// checkTiling fails the test unless rs tiles bounds exactly: rows share
// their vertical extent, columns their horizontal one, neighbours share
// edges, and the outer cells touch the bounds.
func checkTiling(t *testing.T, rs Regions, bounds Rect) {
	t.Helper()
	for ii, r := range rs {
		if r.Inverted() {
			t.Errorf("%v: inverted rect %v", Region(ii), r)
		}
	}
	for row := 0; row < 3; row++ {
		first, last := rs[row*3], rs[row*3+2]
		if first.Min.X != bounds.Min.X {
			t.Errorf("row %d starts at %g, want %g", row, first.Min.X, bounds.Min.X)
		}
		if last.Max.X != bounds.Max.X {
			t.Errorf("row %d ends at %g, want %g", row, last.Max.X, bounds.Max.X)
		}
		for col := 0; col < 2; col++ {
			a, b := rs[row*3+col], rs[row*3+col+1]
			if a.Max.X != b.Min.X {
				t.Errorf("gap between %v and %v: %g != %g", Region(row*3+col), Region(row*3+col+1), a.Max.X, b.Min.X)
			}
			if a.Min.Y != b.Min.Y || a.Max.Y != b.Max.Y {
				t.Errorf("%v and %v are not in the same row", Region(row*3+col), Region(row*3+col+1))
			}
		}
	}
	for col := 0; col < 3; col++ {
		first, last := rs[col], rs[6+col]
		if first.Min.Y != bounds.Min.Y {
			t.Errorf("column %d starts at %g, want %g", col, first.Min.Y, bounds.Min.Y)
		}
		if last.Max.Y != bounds.Max.Y {
			t.Errorf("column %d ends at %g, want %g", col, last.Max.Y, bounds.Max.Y)
		}
		for row := 0; row < 2; row++ {
			a, b := rs[row*3+col], rs[(row+1)*3+col]
			if a.Max.Y != b.Min.Y {
				t.Errorf("gap between %v and %v: %g != %g", Region(row*3+col), Region((row+1)*3+col), a.Max.Y, b.Min.Y)
			}
		}
	}
	var area float32
	for _, r := range rs {
		area += r.Area()
	}
	if math32.Abs(area-bounds.Area()) > bounds.Area()*1e-5 {
		t.Errorf("regions cover %g, want %g", area, bounds.Area())
	}
}

func TestUVRegions(t *testing.T) {
	for _, tt := range []struct {
		Label string
		Size  f32.Point
	}{
		{Label: "square", Size: f32.Pt(64, 64)},
		{Label: "wide", Size: f32.Pt(100, 40)},
		{Label: "odd", Size: f32.Pt(3, 7)},
		{Label: "single pixel", Size: f32.Pt(1, 1)},
		{Label: "large", Size: f32.Pt(4096, 1024)},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			border := BorderThickness(tt.Size)
			uv := UVRegions(tt.Size, border)
			checkTiling(t, uv, R(0, 0, 1, 1))

			w, h := tt.Size.X, tt.Size.Y
			want := ((w - 2*border.X) / w) * ((h - 2*border.Y) / h)
			if got := uv[Center].Area(); math32.Abs(got-want) > 1e-6 {
				t.Errorf("center area %g, want %g", got, want)
			}
		})
	}
}

func TestBorderThickness(t *testing.T) {
	if got := BorderThickness(f32.Pt(64, 64)); got != f32.Pt(16, 16) {
		t.Errorf("got %v, want (16,16)", got)
	}
	if got := BorderThickness(f32.Pt(100, 40)); got != f32.Pt(25, 10) {
		t.Errorf("got %v, want (25,10)", got)
	}
	if got := BorderThicknessRatio(f32.Pt(60, 30), 3); got != f32.Pt(20, 10) {
		t.Errorf("got %v, want (20,10)", got)
	}
}

func TestDestinationRegions(t *testing.T) {
	for _, tt := range []struct {
		Label  string
		Target Rect
		Border f32.Point
		Want   Regions
	}{
		{
			Label:  "square",
			Target: R(0, 0, 100, 100),
			Border: f32.Pt(10, 10),
			Want: Regions{
				R(0, 0, 10, 10), R(10, 0, 90, 10), R(90, 0, 100, 10),
				R(0, 10, 10, 90), R(10, 10, 90, 90), R(90, 10, 100, 90),
				R(0, 90, 10, 100), R(10, 90, 90, 100), R(90, 90, 100, 100),
			},
		},
		{
			Label:  "offset",
			Target: R(5, 20, 45, 60),
			Border: f32.Pt(4, 8),
			Want: Regions{
				R(5, 20, 9, 28), R(9, 20, 41, 28), R(41, 20, 45, 28),
				R(5, 28, 9, 52), R(9, 28, 41, 52), R(41, 28, 45, 52),
				R(5, 52, 9, 60), R(9, 52, 41, 60), R(41, 52, 45, 60),
			},
		},
		{
			Label:  "half border collapses center",
			Target: R(0, 0, 20, 100),
			Border: f32.Pt(10, 10),
			Want: Regions{
				R(0, 0, 10, 10), R(10, 0, 10, 10), R(10, 0, 20, 10),
				R(0, 10, 10, 90), R(10, 10, 10, 90), R(10, 10, 20, 90),
				R(0, 90, 10, 100), R(10, 90, 10, 100), R(10, 90, 20, 100),
			},
		},
		{
			Label:  "thick border is clamped",
			Target: R(0, 0, 20, 12),
			Border: f32.Pt(15, 8),
			Want: Regions{
				R(0, 0, 10, 6), R(10, 0, 10, 6), R(10, 0, 20, 6),
				R(0, 6, 10, 6), R(10, 6, 10, 6), R(10, 6, 20, 6),
				R(0, 6, 10, 12), R(10, 6, 10, 12), R(10, 6, 20, 12),
			},
		},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			got := DestinationRegions(tt.Target, tt.Border)
			for ii := range got {
				if got[ii] != tt.Want[ii] {
					t.Errorf("%v: got %v, want %v", Region(ii), got[ii], tt.Want[ii])
				}
			}
			checkTiling(t, got, tt.Target)
		})
	}
}

func TestDestinationRegionsCorners(t *testing.T) {
	dst := DestinationRegions(R(0, 0, 100, 100), f32.Pt(10, 10))
	for _, r := range []Region{TopLeft, TopRight, BottomLeft, BottomRight} {
		if s := dst[r].Size(); s != f32.Pt(10, 10) {
			t.Errorf("%v: size %v, want 10x10", r, s)
		}
	}
	for _, r := range []Region{Top, Bottom} {
		if s := dst[r].Size(); s != f32.Pt(80, 10) {
			t.Errorf("%v: size %v, want 80x10", r, s)
		}
	}
	for _, r := range []Region{Left, Right} {
		if s := dst[r].Size(); s != f32.Pt(10, 80) {
			t.Errorf("%v: size %v, want 10x80", r, s)
		}
	}
	if dst[Center] != R(10, 10, 90, 90) {
		t.Errorf("center %v, want [(10,10),(90,90)]", dst[Center])
	}
}

// TestConcreteTexture walks a 64px texture into a wide, short target.
func TestConcreteTexture(t *testing.T) {
	size := f32.Pt(64, 64)
	border := BorderThickness(size)
	if border != f32.Pt(16, 16) {
		t.Fatalf("border %v, want (16,16)", border)
	}
	uv := UVRegions(size, border)
	if uv[TopLeft] != R(0, 0, 0.25, 0.25) {
		t.Errorf("uv top-left %v, want [(0,0),(0.25,0.25)]", uv[TopLeft])
	}
	dst := DestinationRegions(R(0, 0, 200, 50), border)
	if dst[Center] != R(16, 16, 184, 34) {
		t.Errorf("center %v, want [(16,16),(184,34)]", dst[Center])
	}
}

// TestRegionsSimilar checks that a target scaled uniformly from the texture
// reproduces the UV layout.
func TestRegionsSimilar(t *testing.T) {
	var (
		size   = f32.Pt(64, 32)
		border = BorderThickness(size)
		uv     = UVRegions(size, border)
		target = R(10, 20, 10+128, 20+64)
		dst    = DestinationRegions(target, border.Mul(2))
	)
	for ii := range dst {
		norm := Rect{
			Min: f32.Pt((dst[ii].Min.X-target.Min.X)/target.Dx(), (dst[ii].Min.Y-target.Min.Y)/target.Dy()),
			Max: f32.Pt((dst[ii].Max.X-target.Min.X)/target.Dx(), (dst[ii].Max.Y-target.Min.Y)/target.Dy()),
		}
		if !norm.Eq(uv[ii], 1e-6) {
			t.Errorf("%v: normalized %v, want %v", Region(ii), norm, uv[ii])
		}
	}
}

func TestCheckGeometry(t *testing.T) {
	for _, tt := range []struct {
		Label   string
		Size    f32.Point
		Target  Rect
		Border  f32.Point
		Subject string
		Axis    Axis
	}{
		{
			Label:  "derived border",
			Size:   f32.Pt(64, 64),
			Target: R(0, 0, 200, 50),
			Border: f32.Pt(16, 16),
		},
		{
			Label:  "target exactly twice the border",
			Size:   f32.Pt(64, 64),
			Target: R(0, 0, 32, 32),
			Border: f32.Pt(16, 16),
		},
		{
			Label:   "empty texture",
			Size:    f32.Pt(0, 64),
			Target:  R(0, 0, 100, 100),
			Subject: "texture",
			Axis:    Horizontal,
		},
		{
			Label:   "border covers texture",
			Size:    f32.Pt(64, 20),
			Target:  R(0, 0, 100, 100),
			Border:  f32.Pt(16, 10),
			Subject: "texture",
			Axis:    Vertical,
		},
		{
			Label:   "target too narrow",
			Size:    f32.Pt(64, 64),
			Target:  R(0, 0, 31, 100),
			Border:  f32.Pt(16, 16),
			Subject: "target",
			Axis:    Horizontal,
		},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			err := CheckGeometry(tt.Size, tt.Target, tt.Border)
			if tt.Subject == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var degenerate *DegenerateGeometryError
			if !errors.As(err, &degenerate) {
				t.Fatalf("got %v, want *DegenerateGeometryError", err)
			}
			if degenerate.Subject != tt.Subject || degenerate.Axis != tt.Axis {
				t.Errorf("got %s on %s, want %s on %s", degenerate.Subject, degenerate.Axis, tt.Subject, tt.Axis)
			}
		})
	}
}
