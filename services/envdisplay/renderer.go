package envdisplay

import (
	"image/color"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

// Surface is the display contract the loop renders through. Every call
// blocks until the hardware operation completes.
type Surface interface {
	PaintText(w types.WidgetID, text string, c color.RGBA)
	MarkDirty(w types.WidgetID)
	ForceSyncRefresh() error
	SetBlanking(on bool) error
}

// GhostClearRenderer replaces a widget's text on a panel that keeps its
// last image: the old text is first overdrawn in the background colour and
// refreshed, then the new text is drawn and refreshed.
type GhostClearRenderer struct {
	surface Surface
	fg, bg  color.RGBA
}

func NewGhostClearRenderer(s Surface, fg, bg color.RGBA) *GhostClearRenderer {
	return &GhostClearRenderer{surface: s, fg: fg, bg: bg}
}

// Redraw performs one or two forced refreshes; the clear phase is skipped
// when old is empty. The first refresh failure aborts the redraw and puts
// old back into the widget, dirty, so the surface again holds what the
// caller still records as rendered.
func (r *GhostClearRenderer) Redraw(w types.WidgetID, old, new string) error {
	if old != "" {
		r.surface.PaintText(w, old, r.bg)
		r.surface.MarkDirty(w)
		if err := r.surface.ForceSyncRefresh(); err != nil {
			r.restore(w, old)
			return &errcode.E{C: errcode.DisplayRefresh, Op: "redraw", Msg: "clear " + old, Err: err}
		}
	}
	r.surface.PaintText(w, new, r.fg)
	r.surface.MarkDirty(w)
	if err := r.surface.ForceSyncRefresh(); err != nil {
		r.restore(w, old)
		return &errcode.E{C: errcode.DisplayRefresh, Op: "redraw", Msg: "draw " + new, Err: err}
	}
	return nil
}

// restore repaints old in the foreground. It is pushed by the next refresh.
func (r *GhostClearRenderer) restore(w types.WidgetID, old string) {
	r.surface.PaintText(w, old, r.fg)
	r.surface.MarkDirty(w)
}
