package envdisplay

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"envpaper-go/services/display"
	"envpaper-go/types"
)

// flakyPanel is an in-memory panel whose n-th Display call (1-based) fails.
type flakyPanel struct {
	img    *image.RGBA
	pushes int
	failAt int
}

func newFlakyPanel(failAt int) *flakyPanel {
	return &flakyPanel{
		img:    image.NewRGBA(image.Rect(0, 0, display.DefaultWidth, display.DefaultHeight)),
		failAt: failAt,
	}
}

func (p *flakyPanel) Size() (int16, int16) {
	b := p.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (p *flakyPanel) SetPixel(x, y int16, c color.RGBA) {
	if image.Pt(int(x), int(y)).In(p.img.Bounds()) {
		p.img.SetRGBA(int(x), int(y), c)
	}
}

func (p *flakyPanel) Display() error {
	p.pushes++
	if p.pushes == p.failAt {
		return errors.New("busy timeout")
	}
	return nil
}

func sameRegion(a, b *image.RGBA, x, y, w, h int16) bool {
	for yy := int(y); yy < int(y+h); yy++ {
		for xx := int(x); xx < int(x+w); xx++ {
			if a.RGBAAt(xx, yy) != b.RGBAAt(xx, yy) {
				return false
			}
		}
	}
	return true
}

func TestFailedDrawLeavesScreenMatchingCache(t *testing.T) {
	// push 1 unblank, 2-3 tick one, 4 clear and 5 draw of tick two
	panel := newFlakyPanel(5)
	scr := display.NewScreen(panel)
	lay := display.Bootstrap(scr)
	l := New(&fakeSensor{steps: []step{ok(20, 45), ok(21, 45), ok(20, 45), ok(20, 46)}}, scr, Config{
		Widgets:    lay.All(),
		Values:     lay.Values(),
		Foreground: display.Black,
		Background: display.White,
		Logger:     quietLogger(),
	})

	l.Tick()
	if rep := l.Tick(); len(rep.Failed) != 1 || rep.Failed[0] != types.FieldTemperature {
		t.Fatalf("tick 2 report=%+v", rep)
	}

	if rep := l.Tick(); len(rep.Redrawn) != 0 || len(rep.Failed) != 0 {
		t.Fatalf("tick 3 report=%+v", rep)
	}
	rendered := l.Snapshot().Fields[types.FieldTemperature].RenderedText
	if got := scr.Text(lay.TempValue); rendered != "20 C" || got != rendered {
		t.Fatalf("cache=%q screen=%q", rendered, got)
	}

	// A humidity redraw pushes the whole frame, temperature widget included.
	if rep := l.Tick(); len(rep.Redrawn) != 1 || rep.Redrawn[0] != types.FieldHumidity {
		t.Fatalf("tick 4 report=%+v", rep)
	}

	want := newFlakyPanel(0)
	ref := display.NewScreen(want)
	refLay := display.Bootstrap(ref)
	ref.PaintText(refLay.TempValue, "20 C", display.Black)
	ref.PaintText(refLay.HumidValue, "46 %", display.Black)
	for _, w := range refLay.All() {
		ref.MarkDirty(w)
	}
	if err := ref.ForceSyncRefresh(); err != nil {
		t.Fatalf("reference refresh: %v", err)
	}

	x, y, w, h := scr.Bounds(lay.TempValue)
	if !sameRegion(panel.img, want.img, x, y, w, h) {
		t.Fatal("temperature widget pixels differ from a clean \"20 C\" render")
	}
}
