package display

import (
	"image/color"
	"sync"

	"tinygo.org/x/drivers"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

// Panel is a pixel sink with a blocking full-frame push.
type Panel = drivers.Displayer

type PanelBuilder interface {
	Build(cfg types.DisplayConfig) (Panel, error)
}

type PanelBuilderFunc func(cfg types.DisplayConfig) (Panel, error)

func (f PanelBuilderFunc) Build(cfg types.DisplayConfig) (Panel, error) { return f(cfg) }

var (
	regMu  sync.RWMutex
	panels = map[string]PanelBuilder{}
)

func RegisterPanel(typ string, b PanelBuilder) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := panels[typ]; exists {
		panic("duplicate panel builder: " + typ)
	}
	panels[typ] = b
}

// BuildPanel constructs the panel named by cfg.Type.
func BuildPanel(cfg types.DisplayConfig) (Panel, error) {
	regMu.RLock()
	b, ok := panels[cfg.Type]
	regMu.RUnlock()
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPanel, Op: "display.BuildPanel", Msg: cfg.Type}
	}
	return b.Build(cfg)
}

// Default 2.13" panel geometry (portrait).
const (
	DefaultWidth  = 122
	DefaultHeight = 250
)

func size(cfg types.DisplayConfig) (int16, int16) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func init() {
	RegisterPanel("null", PanelBuilderFunc(func(cfg types.DisplayConfig) (Panel, error) {
		w, h := size(cfg)
		return NullPanel{W: w, H: h}, nil
	}))
}

// NullPanel discards every pixel. Used when no panel hardware is available.
type NullPanel struct{ W, H int16 }

func (p NullPanel) Size() (int16, int16)              { return p.W, p.H }
func (NullPanel) SetPixel(x, y int16, c color.RGBA) {}
func (NullPanel) Display() error                    { return nil }

func luma(c color.RGBA) uint8 {
	return uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000)
}
