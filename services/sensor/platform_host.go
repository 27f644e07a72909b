//go:build !(rp2040 || rp2350)

package sensor

import (
	"strconv"
	"strings"
	"sync"

	dht "github.com/MichaelS11/go-dht"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

func init() {
	Register("dht11", dhtBuilder("dht11"))
	Register("dht22", dhtBuilder("dht22"))
}

var (
	hostOnce sync.Once
	hostErr  error
)

// hostInit loads the periph.io host drivers once per process.
func hostInit() error {
	hostOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			hostErr = err
			return
		}
		hostErr = dht.HostInit()
	})
	return hostErr
}

// openI2C opens a Linux I2C bus by periph name ("" = first bus). The periph
// bus Tx signature matches drivers.I2C.
func openI2C(name string) (drivers.I2C, error) {
	if err := hostInit(); err != nil {
		return nil, err
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}
	return bus, nil
}

const dhtRetries = 5

// DHT samples a DHT11/DHT22 through periph GPIO bit-banging.
type DHT struct {
	dev *dht.DHT
}

func dhtBuilder(kind string) Builder {
	return BuilderFunc(func(cfg types.SensorConfig) (Source, error) {
		if cfg.Pin == "" {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: kind, Msg: "missing pin"}
		}
		if err := hostInit(); err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, kind+": host init", err)
		}
		pin := cfg.Pin
		if n, err := parseGPIO(pin); err == nil && !strings.HasPrefix(strings.ToUpper(pin), "GPIO") {
			pin = "GPIO" + strconv.Itoa(n)
		}
		sensorType := kind
		if kind == "dht22" {
			sensorType = "" // library default
		}
		d, err := dht.NewDHT(pin, dht.Celsius, sensorType)
		if err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, kind, err)
		}
		return &DHT{dev: d}, nil
	})
}

func (s *DHT) Sample() (types.Reading, error) {
	h, t, err := s.dev.ReadRetry(dhtRetries)
	if err != nil {
		return types.Reading{}, errcode.Wrap(errcode.SensorRead, "dht", err)
	}
	// int() truncates toward zero, same as the integer channel part.
	return types.Reading{Temperature: int(t), Humidity: int(h), Valid: true}, nil
}
