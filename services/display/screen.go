// Package display renders text widgets onto slow-refresh panels.
//
// A Screen owns a frame on any drivers.Displayer. Painting only records a
// widget's text and colour; ForceSyncRefresh redraws every dirty widget into
// the panel buffer and pushes the whole frame, blocking until the panel is
// done. A Screen starts blanked: frames are composed but not pushed until
// SetBlanking(false).
package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
)

type widget struct {
	x, y, w, h int16
	text       string
	color      color.RGBA
	dirty      bool
}

type Screen struct {
	panel   drivers.Displayer
	font    tinyfont.Fonter
	bg      color.RGBA
	widgets []widget

	blanked   bool
	refreshes int
}

// NewScreen clears the panel buffer to the background colour. Nothing is
// pushed to the panel.
func NewScreen(panel drivers.Displayer) *Screen {
	s := &Screen{
		panel:   panel,
		font:    &proggy.TinySZ8pt7b,
		bg:      White,
		blanked: true,
	}
	w, h := panel.Size()
	s.fill(0, 0, w, h, s.bg)
	return s
}

// AddLabel creates a widget and returns its handle, or types.NoWidget for an
// empty box. The widget is not dirty until MarkDirty is called.
func (s *Screen) AddLabel(x, y, w, h int16, text string, c color.RGBA) types.WidgetID {
	if w <= 0 || h <= 0 {
		return types.NoWidget
	}
	s.widgets = append(s.widgets, widget{x: x, y: y, w: w, h: h, text: text, color: c})
	return types.WidgetID(len(s.widgets) - 1)
}

func (s *Screen) get(id types.WidgetID) *widget {
	if id < 0 || int(id) >= len(s.widgets) {
		return nil
	}
	return &s.widgets[id]
}

// Bounds returns the widget rectangle (x, y, w, h).
func (s *Screen) Bounds(id types.WidgetID) (x, y, w, h int16) {
	if wd := s.get(id); wd != nil {
		return wd.x, wd.y, wd.w, wd.h
	}
	return 0, 0, 0, 0
}

// Text returns the text last painted into a widget.
func (s *Screen) Text(id types.WidgetID) string {
	if wd := s.get(id); wd != nil {
		return wd.text
	}
	return ""
}

func (s *Screen) PaintText(id types.WidgetID, text string, c color.RGBA) {
	if wd := s.get(id); wd != nil {
		wd.text = text
		wd.color = c
	}
}

func (s *Screen) MarkDirty(id types.WidgetID) {
	if wd := s.get(id); wd != nil {
		wd.dirty = true
	}
}

// ForceSyncRefresh repaints dirty widgets (background fill, then glyphs) and
// pushes the full frame unless the screen is blanked.
func (s *Screen) ForceSyncRefresh() error {
	for i := range s.widgets {
		wd := &s.widgets[i]
		if !wd.dirty {
			continue
		}
		s.fill(wd.x, wd.y, wd.w, wd.h, s.bg)
		if wd.text != "" {
			tinyfont.WriteLine(s.panel, s.font, wd.x, baseline(wd), wd.text, wd.color)
		}
		wd.dirty = false
	}
	s.refreshes++
	if s.blanked {
		return nil
	}
	return s.push("refresh")
}

// SetBlanking toggles output. Leaving the blanked state pushes the frame
// composed so far.
func (s *Screen) SetBlanking(on bool) error {
	was := s.blanked
	s.blanked = on
	if was && !on {
		return s.push("unblank")
	}
	return nil
}

func (s *Screen) Blanked() bool      { return s.blanked }
func (s *Screen) Refreshes() int     { return s.refreshes }
func (s *Screen) Size() (w, h int16) { return s.panel.Size() }

func (s *Screen) push(op string) error {
	if err := s.panel.Display(); err != nil {
		return errcode.Wrap(errcode.DisplayRefresh, op, err)
	}
	return nil
}

func (s *Screen) fill(x, y, w, h int16, c color.RGBA) {
	pw, ph := s.panel.Size()
	for yy := y; yy < y+h && yy < ph; yy++ {
		for xx := x; xx < x+w && xx < pw; xx++ {
			if xx >= 0 && yy >= 0 {
				s.panel.SetPixel(xx, yy, c)
			}
		}
	}
}

// baseline places text three quarters down the widget box.
func baseline(wd *widget) int16 { return wd.y + wd.h*3/4 }
