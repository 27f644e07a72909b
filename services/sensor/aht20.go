package sensor

import (
	"io"

	"tinygo.org/x/drivers"

	"envpaper-go/drivers/aht20"
	"envpaper-go/errcode"
	"envpaper-go/types"
	"envpaper-go/x/mathx"
)

func init() { Register("aht20", BuilderFunc(buildAHT20)) }

func buildAHT20(cfg types.SensorConfig) (Source, error) {
	bus, err := openI2C(cfg.Bus)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "aht20: open "+cfg.Bus, err)
	}
	return NewAHT20(bus, cfg.Addr), nil
}

// AHT20 samples an AHT20 over I2C.
type AHT20 struct {
	dev *aht20.Device
	bus drivers.I2C
}

func NewAHT20(bus drivers.I2C, addr uint16) *AHT20 {
	return &AHT20{dev: aht20.New(bus, aht20.Config{Address: addr}), bus: bus}
}

// Sample returns whole degrees and percent, truncated toward zero.
func (s *AHT20) Sample() (types.Reading, error) {
	sm, err := s.dev.Measure()
	if err != nil {
		return types.Reading{}, errcode.Wrap(errcode.SensorRead, "aht20", err)
	}
	return types.Reading{
		Temperature: int(mathx.TruncDiv(sm.DeciCelsius(), 10)),
		Humidity:    int(mathx.Clamp(mathx.TruncDiv(sm.DeciRelHumidity(), 10), 0, 100)),
		Valid:       true,
	}, nil
}

func (s *AHT20) Close() error {
	if c, ok := s.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
