//go:build !(rp2040 || rp2350)

package display

import (
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

func init() { RegisterPanel("waveshare2in13v4", PanelBuilderFunc(buildWaveshare)) }

var (
	hostOnce sync.Once
	hostErr  error
)

func hostInit() error {
	hostOnce.Do(func() { _, hostErr = host.Init() })
	return hostErr
}

// Waveshare drives a Waveshare 2.13" V4 HAT through periph.io. Pixels are
// staged in a 1-bit buffer; Display pushes a full refresh.
type Waveshare struct {
	dev  *waveshare2in13v4.Dev
	port spi.PortCloser
	img  *image1bit.VerticalLSB
}

func buildWaveshare(cfg types.DisplayConfig) (Panel, error) {
	if err := hostInit(); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "waveshare: host init", err)
	}
	port, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "waveshare: open spi", err)
	}
	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		port.Close()
		return nil, errcode.Wrap(errcode.InvalidParams, "waveshare: new", err)
	}
	if err := dev.Init(); err != nil {
		port.Close()
		return nil, errcode.Wrap(errcode.DisplayRefresh, "waveshare: init", err)
	}
	if err := dev.Clear(color.White); err != nil {
		port.Close()
		return nil, errcode.Wrap(errcode.DisplayRefresh, "waveshare: clear", err)
	}
	return &Waveshare{dev: dev, port: port, img: image1bit.NewVerticalLSB(dev.Bounds())}, nil
}

func (p *Waveshare) Size() (int16, int16) {
	b := p.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel maps light colours to On (white paper).
func (p *Waveshare) SetPixel(x, y int16, c color.RGBA) {
	p.img.SetBit(int(x), int(y), image1bit.Bit(luma(c) >= 0x80))
}

func (p *Waveshare) Display() error {
	return p.dev.Draw(p.dev.Bounds(), p.img, image.Point{})
}

// Close puts the panel to sleep and releases the SPI port.
func (p *Waveshare) Close() error {
	serr := p.dev.Sleep()
	if err := p.port.Close(); err != nil {
		return err
	}
	return serr
}
