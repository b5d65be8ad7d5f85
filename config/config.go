// Package config reads skins: named frame styles stored in TOML or YAML.
//
//	[frames.panel]
//	texture = "panel.png"
//	tint = "#ffe0b0"
//	inner_margin = [4.0]
//	outer_margin = [2.0, 8.0]
//	transparent = true
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gioui.org/layout"
	"gioui.org/unit"
	"git.sr.ht/~gioverse/nineslice/frame"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format of a skin file.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf infers the format from a file name.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("skin %s: unknown format %q", path, filepath.Ext(path))
}

// Skin is a set of named frame styles plus the directory their textures are
// loaded from.
type Skin struct {
	// Assets is the texture directory, relative to the skin file.
	Assets string           `toml:"assets" yaml:"assets"`
	Frames map[string]Frame `toml:"frames" yaml:"frames"`
}

// Frame is the serialized form of frame.Style.
type Frame struct {
	Texture     string    `toml:"texture" yaml:"texture"`
	Tint        string    `toml:"tint" yaml:"tint"`
	InnerMargin []float32 `toml:"inner_margin" yaml:"inner_margin"`
	OuterMargin []float32 `toml:"outer_margin" yaml:"outer_margin"`
	Transparent *bool     `toml:"transparent" yaml:"transparent"`
	Background  string    `toml:"background" yaml:"background"`
	// Simple decoration, used when Texture is empty.
	Fill         string  `toml:"fill" yaml:"fill"`
	Stroke       string  `toml:"stroke" yaml:"stroke"`
	StrokeWidth  float32 `toml:"stroke_width" yaml:"stroke_width"`
	CornerRadius float32 `toml:"corner_radius" yaml:"corner_radius"`
}

// Load reads a skin file. Assets is resolved against the file's directory.
func Load(path string) (Skin, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Skin{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Skin{}, fmt.Errorf("reading skin: %w", err)
	}
	skin, err := Parse(b, format)
	if err != nil {
		return Skin{}, fmt.Errorf("skin %s: %w", path, err)
	}
	if !filepath.IsAbs(skin.Assets) {
		skin.Assets = filepath.Join(filepath.Dir(path), skin.Assets)
	}
	return skin, nil
}

// Parse decodes a skin and validates every frame in it.
func Parse(b []byte, format Format) (Skin, error) {
	var (
		skin Skin
		err  error
	)
	switch format {
	case TOML:
		err = toml.Unmarshal(b, &skin)
	case YAML:
		err = yaml.Unmarshal(b, &skin)
	default:
		return Skin{}, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return Skin{}, fmt.Errorf("decoding %s: %w", format, err)
	}
	for _, name := range skin.Names() {
		if _, err := skin.Frames[name].Style(); err != nil {
			return Skin{}, fmt.Errorf("frame %q: %w", name, err)
		}
	}
	return skin, nil
}

// Names returns the frame names in sorted order.
func (s Skin) Names() []string {
	names := make([]string, 0, len(s.Frames))
	for name := range s.Frames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Style returns the named frame style.
func (s Skin) Style(name string) (frame.Style, error) {
	f, ok := s.Frames[name]
	if !ok {
		return frame.Style{}, fmt.Errorf("skin has no frame %q", name)
	}
	return f.Style()
}

// Style converts f to a frame style. Frames are transparent unless stated
// otherwise.
func (f Frame) Style() (frame.Style, error) {
	var (
		s   = frame.Style{Texture: f.Texture, Transparent: true}
		err error
	)
	if f.Transparent != nil {
		s.Transparent = *f.Transparent
	}
	if s.Tint, err = parseColor(f.Tint, color.NRGBA{}); err != nil {
		return s, fmt.Errorf("tint: %w", err)
	}
	if s.Background, err = parseColor(f.Background, color.NRGBA{}); err != nil {
		return s, fmt.Errorf("background: %w", err)
	}
	if s.InnerMargin, err = inset(f.InnerMargin); err != nil {
		return s, fmt.Errorf("inner_margin: %w", err)
	}
	if s.OuterMargin, err = inset(f.OuterMargin); err != nil {
		return s, fmt.Errorf("outer_margin: %w", err)
	}
	if s.Simple.Fill, err = parseColor(f.Fill, color.NRGBA{}); err != nil {
		return s, fmt.Errorf("fill: %w", err)
	}
	if s.Simple.Stroke, err = parseColor(f.Stroke, color.NRGBA{}); err != nil {
		return s, fmt.Errorf("stroke: %w", err)
	}
	s.Simple.StrokeWidth = unit.Dp(f.StrokeWidth)
	s.Simple.CornerRadius = unit.Dp(f.CornerRadius)
	return s, nil
}

// inset reads margins CSS style: one value for all sides, two for
// vertical and horizontal, four for top, right, bottom and left.
func inset(v []float32) (layout.Inset, error) {
	switch len(v) {
	case 0:
		return layout.Inset{}, nil
	case 1:
		return layout.UniformInset(unit.Dp(v[0])), nil
	case 2:
		return layout.Inset{
			Top: unit.Dp(v[0]), Bottom: unit.Dp(v[0]),
			Left: unit.Dp(v[1]), Right: unit.Dp(v[1]),
		}, nil
	case 4:
		return layout.Inset{
			Top: unit.Dp(v[0]), Right: unit.Dp(v[1]),
			Bottom: unit.Dp(v[2]), Left: unit.Dp(v[3]),
		}, nil
	}
	return layout.Inset{}, fmt.Errorf("want 1, 2 or 4 values, got %d", len(v))
}

// parseColor reads "#rrggbb" or "#rrggbbaa". Empty yields def.
func parseColor(s string, def color.NRGBA) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	alpha := uint8(0xff)
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return def, fmt.Errorf("color %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return def, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
