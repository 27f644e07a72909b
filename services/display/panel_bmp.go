//go:build !(rp2040 || rp2350)

package display

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"envpaper-go/types"
)

func init() {
	RegisterPanel("bmp", PanelBuilderFunc(func(cfg types.DisplayConfig) (Panel, error) {
		path := cfg.Path
		if path == "" {
			path = "envpaper.bmp"
		}
		w, h := size(cfg)
		return NewBMPPanel(path, w, h), nil
	}))
}

// BMPPanel simulates a monochrome panel by writing every pushed frame to a
// BMP file. The file is replaced atomically so viewers never see a torn frame.
type BMPPanel struct {
	path   string
	img    *image.Gray
	Pushes int
}

func NewBMPPanel(path string, w, h int16) *BMPPanel {
	return &BMPPanel{path: path, img: image.NewGray(image.Rect(0, 0, int(w), int(h)))}
}

func (p *BMPPanel) Size() (int16, int16) {
	b := p.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel quantises to black or white like the real panel.
func (p *BMPPanel) SetPixel(x, y int16, c color.RGBA) {
	var v uint8
	if luma(c) >= 0x80 {
		v = 0xFF
	}
	p.img.SetGray(int(x), int(y), color.Gray{Y: v})
}

func (p *BMPPanel) Display() error {
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".envpaper-*.bmp")
	if err != nil {
		return err
	}
	if err := bmp.Encode(tmp, p.img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	p.Pushes++
	return nil
}
