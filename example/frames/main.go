// Package frames showcases nine-slice frames stretching around live content.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"testing/fstest"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"git.sr.ht/~gioverse/nineslice"
	"git.sr.ht/~gioverse/nineslice/config"
	"git.sr.ht/~gioverse/nineslice/debug"
	"git.sr.ht/~gioverse/nineslice/frame"
	"git.sr.ht/~gioverse/nineslice/profile"
	"git.sr.ht/~gioverse/nineslice/state"
	"git.sr.ht/~gioverse/nineslice/texture"
	lorem "github.com/drhodes/golorem"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var (
	skinPath   = flag.String("skin", "", "skin file (.toml or .yaml); a built-in skin is used when empty")
	profileOpt = flag.String("profile", "none", "create the provided kind of profile: none, cpu, mem, block, goroutine, mutex, trace, gio")
	async      = flag.Bool("async", false, "decode textures in the background")
	verbose    = flag.Bool("v", false, "log nine-slice cache activity")
)

func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ui, err := NewUI(*skinPath)
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		w := new(app.Window)
		w.Option(
			app.Title("Nine-slice frames"),
			app.Size(unit.Dp(800), unit.Dp(600)),
		)
		if err := ui.Run(w); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	// Surrender main thread to OS.
	// Necessary for certain platforms.
	app.Main()
}

// UI manages the state for the entire application's UI.
type UI struct {
	th       *material.Theme
	skin     config.Skin
	dir      string
	textures *texture.Manager
	store    state.Store
	cache    *nineslice.Resolver
	profiler *profile.Profiler

	// Panels are the frames on display, one per skin entry.
	Panels []Panel
	// Width controls the fraction of the window the panels span.
	Width widget.Float
	// Debug toggles the region overlay.
	Debug widget.Bool
	// Reshuffle regenerates the panel text.
	Reshuffle widget.Clickable
	// List scrolls the panels.
	List widget.List
}

// Panel is a framed paragraph.
type Panel struct {
	Name  string
	Text  string
	Frame frame.Frame
}

// NewUI loads the skin at path and allocates the panels.
func NewUI(path string) (*UI, error) {
	ui := &UI{th: material.NewTheme()}
	ui.th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	ui.Width.Value = 0.8
	ui.List.Axis = layout.Vertical

	var fsys fs.FS
	if path == "" {
		ui.skin, fsys = builtinSkin()
	} else {
		skin, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		ui.skin, ui.dir, fsys = skin, skin.Assets, os.DirFS(skin.Assets)
	}
	ui.textures = &texture.Manager{FS: fsys}
	ui.cache = &nineslice.Resolver{Store: &ui.store}
	opt, err := profile.ParseOpt(*profileOpt)
	if err != nil {
		return nil, err
	}
	ui.profiler = opt.NewProfiler()
	ui.profiler.Cache = ui.cache

	for ii, name := range ui.skin.Names() {
		style, err := ui.skin.Style(name)
		if err != nil {
			return nil, err
		}
		ui.Panels = append(ui.Panels, Panel{
			Name: name,
			Text: lorem.Paragraph(1, 3),
			Frame: frame.Frame{
				ID:       state.NewID("panel"),
				Salt:     fmt.Sprintf("%d/%s", ii, name),
				Style:    style,
				Textures: ui.textures,
				Cache:    ui.cache,
				Async:    *async,
			},
		})
	}
	return ui, nil
}

// Run the event loop until the window is closed.
func (ui *UI) Run(w *app.Window) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer ui.textures.Close()
	if ui.dir != "" {
		go func() {
			if err := ui.textures.Watch(ctx, ui.dir); err != nil {
				slog.Warn("hot reload disabled", "err", err)
			}
		}()
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ui.textures.Updated():
				w.Invalidate()
			}
		}
	}()
	ui.profiler.Start()
	defer ui.profiler.Stop()

	var ops op.Ops
	for {
		switch event := w.Event().(type) {
		case app.DestroyEvent:
			return event.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, event)
			ui.profiler.Record(gtx)
			ui.store.Frame(gtx, ui.Layout)
			event.Frame(gtx.Ops)
		}
	}
}

var reshuffleIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ActionCached)
	return icon
}()

// Layout the application UI.
func (ui *UI) Layout(gtx C) D {
	if ui.Reshuffle.Clicked(gtx) {
		for ii := range ui.Panels {
			ui.Panels[ii].Text = lorem.Paragraph(1, 3)
		}
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(ui.layoutControls),
		layout.Flexed(1, func(gtx C) D {
			return material.List(ui.th, &ui.List).Layout(gtx, len(ui.Panels), ui.layoutPanel)
		}),
	)
}

func (ui *UI) layoutControls(gtx C) D {
	return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Flexed(1, material.Slider(ui.th, &ui.Width).Layout),
			layout.Rigid(material.CheckBox(ui.th, &ui.Debug, "regions").Layout),
			layout.Rigid(material.IconButton(ui.th, &ui.Reshuffle, reshuffleIcon, "new text").Layout),
		)
	})
}

func (ui *UI) layoutPanel(gtx C, index int) D {
	p := &ui.Panels[index]
	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx C) D {
		width := max(int(float32(gtx.Constraints.Max.X)*ui.Width.Value), gtx.Dp(unit.Dp(64)))
		gtx.Constraints.Max.X = min(width, gtx.Constraints.Max.X)
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		dims := p.Frame.Layout(gtx, func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(material.H6(ui.th, p.Name).Layout),
				layout.Rigid(material.Body1(ui.th, p.Text).Layout),
				layout.Rigid(func(gtx C) D {
					// Errors surface one frame late, from the previous layout.
					if err := p.Frame.Err(); err != nil {
						return material.Body2(ui.th, err.Error()).Layout(gtx)
					}
					return D{}
				}),
			)
		})
		if ui.Debug.Value && p.Frame.Err() == nil {
			debug.Regions(gtx, p.Frame.Entry(), color.NRGBA{R: 0xff, A: 0xff})
		}
		return dims
	})
}

// builtinSkin returns a skin drawing a generated texture, for running without
// any assets.
func builtinSkin() (config.Skin, fs.FS) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, bevel(32)); err != nil {
		panic(fmt.Errorf("encoding built-in texture: %w", err))
	}
	fsys := fstest.MapFS{"bevel.png": {Data: buf.Bytes()}}
	transparent := false
	return config.Skin{
		Frames: map[string]config.Frame{
			"bevel": {Texture: "bevel.png", InnerMargin: []float32{4}},
			"tinted": {
				Texture:     "bevel.png",
				Tint:        "#9fc5e8",
				Transparent: &transparent,
				Background:  "#20304080",
			},
			"simple": {
				Fill:         "#f4f4f4",
				Stroke:       "#606060",
				StrokeWidth:  1,
				CornerRadius: 6,
				InnerMargin:  []float32{8},
			},
		},
	}, fsys
}

// bevel draws a size x size frame whose border band is a quarter of its size.
func bevel(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	band := size / 4
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			edge := min(x, y, size-1-x, size-1-y)
			switch {
			case edge == 0:
				img.Set(x, y, color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff})
			case edge < band:
				shade := uint8(0xc0 - edge*0x10)
				img.Set(x, y, color.NRGBA{R: shade, G: shade, B: shade, A: 0xff})
			default:
				img.Set(x, y, color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff})
			}
		}
	}
	return img
}
