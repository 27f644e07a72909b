//go:build rp2040 || rp2350

package display

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/waveshare-epd/epd2in13"

	"envpaper-go/types"
)

func init() { RegisterPanel("epd2in13", PanelBuilderFunc(buildEPD)) }

// EPD drives a Waveshare 2.13" panel over SPI1 with the TinyGo driver.
type EPD struct {
	dev epd2in13.Device
}

func buildEPD(cfg types.DisplayConfig) (Panel, error) {
	if err := machine.SPI1.Configure(machine.SPIConfig{Frequency: 4_000_000, Mode: 0}); err != nil {
		return nil, err
	}
	cs, dc, rst, busy := machine.Pin(cfg.CS), machine.Pin(cfg.DC), machine.Pin(cfg.RST), machine.Pin(cfg.Busy)
	for _, p := range []machine.Pin{cs, dc, rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	busy.Configure(machine.PinConfig{Mode: machine.PinInput})

	w, h := size(cfg)
	dev := epd2in13.New(machine.SPI1, cs, dc, rst, busy)
	dev.Configure(epd2in13.Config{Width: w, Height: h})
	dev.ClearBuffer()
	dev.ClearDisplay()
	dev.WaitUntilIdle()
	return &EPD{dev: dev}, nil
}

func (p *EPD) Size() (int16, int16)              { return p.dev.Size() }
func (p *EPD) SetPixel(x, y int16, c color.RGBA) { p.dev.SetPixel(x, y, c) }

// Display blocks until the busy line drops.
func (p *EPD) Display() error {
	err := p.dev.Display()
	p.dev.WaitUntilIdle()
	return err
}
