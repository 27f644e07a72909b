//go:build rp2040 || rp2350

package sensor

import (
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/dht"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

func init() {
	Register("dht11", dhtBuilder(dht.DHT11))
	Register("dht22", dhtBuilder(dht.DHT22))
}

func openI2C(name string) (drivers.I2C, error) {
	var bus *machine.I2C
	switch name {
	case "", "i2c0":
		bus = machine.I2C0
	case "i2c1":
		bus = machine.I2C1
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "openI2C", Msg: name}
	}
	if err := bus.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		return nil, err
	}
	return bus, nil
}

// DHT samples a DHT11/DHT22 with the TinyGo one-wire driver.
type DHT struct {
	dev dht.Device
}

func dhtBuilder(kind dht.DeviceType) Builder {
	return BuilderFunc(func(cfg types.SensorConfig) (Source, error) {
		n, err := parseGPIO(cfg.Pin)
		if err != nil {
			return nil, err
		}
		return &DHT{dev: dht.New(machine.Pin(n), kind)}, nil
	})
}

func (s *DHT) Sample() (types.Reading, error) {
	if err := s.dev.ReadMeasurements(); err != nil {
		return types.Reading{}, errcode.Wrap(errcode.SensorRead, "dht", err)
	}
	t, h, err := s.dev.Measurements()
	if err != nil {
		return types.Reading{}, errcode.Wrap(errcode.SensorRead, "dht", err)
	}
	// Both channels are tenths of a unit.
	return types.Reading{Temperature: int(t) / 10, Humidity: int(h) / 10, Valid: true}, nil
}
